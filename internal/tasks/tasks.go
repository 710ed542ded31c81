package tasks

import (
	"encoding/json"
	"time"
)

// 任务类型常量
const (
	TypeTallyAudit = "tally:audit" // 计票核对任务
)

// TallyAuditPayload 是计票核对任务的数据
type TallyAuditPayload struct {
	Trigger     string    `json:"trigger"` // schedule / startup
	RequestedAt time.Time `json:"requested_at"`
}

// NewTallyAuditTask 创建计票核对任务的 payload
func NewTallyAuditTask(trigger string) ([]byte, error) {
	return json.Marshal(TallyAuditPayload{Trigger: trigger, RequestedAt: time.Now().UTC()})
}
