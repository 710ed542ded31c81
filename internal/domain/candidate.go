package domain

import "time"

// Candidate 表示一个可被投票的候选人。
// Votes 必须始终等于引用该候选人的 Vote 记录数。
type Candidate struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Party       string    `gorm:"type:varchar(100)"`
	Description string    `gorm:"type:text"`
	Votes       int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// Results 是按票数排序的计票结果。
type Results struct {
	Candidates []Candidate
	TotalVotes int64
}

// Percent 返回候选人得票占总票数的百分比，总票数为 0 时返回 0。
func (r *Results) Percent(c Candidate) float64 {
	if r.TotalVotes == 0 {
		return 0
	}
	return float64(c.Votes) * 100 / float64(r.TotalVotes)
}
