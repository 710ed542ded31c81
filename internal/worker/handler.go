package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"voting-platform/internal/domain"
	"voting-platform/internal/tasks"
)

// TallyAuditor 由 service.VoteService 实现
type TallyAuditor interface {
	AuditTally(ctx context.Context) ([]domain.TallyDiscrepancy, error)
}

// TallyAuditHandler 处理计票核对任务
type TallyAuditHandler struct {
	auditor TallyAuditor
	log     *logrus.Entry
}

// NewTallyAuditHandler 创建 Handler 实例
func NewTallyAuditHandler(auditor TallyAuditor, log *logrus.Entry) *TallyAuditHandler {
	return &TallyAuditHandler{auditor: auditor, log: log}
}

// ProcessTask 实现 asynq.Handler 接口。发现不一致只记录日志，不自动修复。
func (h *TallyAuditHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.TallyAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.log.WithError(err).Error("Failed to unmarshal tally audit payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx := h.log.WithFields(logrus.Fields{
		"task_type": t.Type(),
		"trigger":   payload.Trigger,
	})

	discrepancies, err := h.auditor.AuditTally(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Tally audit failed")
		return fmt.Errorf("tally audit: %w", err)
	}

	for _, d := range discrepancies {
		logCtx.WithFields(logrus.Fields{
			"candidate_id": d.CandidateID,
			"name":         d.Name,
			"counter":      d.Counter,
			"ledger":       d.Ledger,
		}).Error("Tally discrepancy detected")
	}
	if len(discrepancies) == 0 {
		logCtx.Info("Tally audit passed")
	}
	return nil
}
