package domain

import "time"

// Vote 是投票账本中的一条记录，每个用户最多一条 (user_id 唯一索引)。
type Vote struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_votes_user"`
	CandidateID uint      `gorm:"not null;index:idx_votes_candidate"`
	VotedAt     time.Time `gorm:"autoCreateTime"`

	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Candidate *Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:RESTRICT"`
}

// TallyDiscrepancy 描述计数器与投票账本之间的一处不一致。
type TallyDiscrepancy struct {
	CandidateID uint   // 0 表示全局检查 (has_voted 用户数与投票记录数)
	Name        string
	Counter     int64 // candidates.votes 或 has_voted 用户数
	Ledger      int64 // votes 表中的实际记录数
}
