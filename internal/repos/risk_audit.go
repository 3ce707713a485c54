package repos

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/benboulanger/agent-platform/internal/agents"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/safety"
	"github.com/benboulanger/agent-platform/internal/types"
)

type RiskAuditRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.RiskAuditRecord) (*types.RiskAuditRecord, error)
}

type riskAuditRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRiskAuditRepo(db *gorm.DB, baseLog *logger.Logger) RiskAuditRepo {
	repoLog := baseLog.With("repo", "RiskAuditRepo")
	return &riskAuditRepo{db: db, log: repoLog}
}

func (r *riskAuditRepo) Create(ctx context.Context, tx *gorm.DB, record *types.RiskAuditRecord) (*types.RiskAuditRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// RiskAuditSink persists risk decisions via RiskAuditRepo. A failed write is
// logged and dropped; the answer path never fails because of audit storage.
type RiskAuditSink struct {
	log  *logger.Logger
	repo RiskAuditRepo
}

func NewRiskAuditSink(repo RiskAuditRepo, baseLog *logger.Logger) *RiskAuditSink {
	return &RiskAuditSink{
		log:  baseLog.With("component", "RiskAuditSink"),
		repo: repo,
	}
}

func mustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}

func (s *RiskAuditSink) RecordRisk(ctx context.Context, domain agents.Domain, question string, result safety.Result) {
	record := &types.RiskAuditRecord{
		Domain:            string(domain),
		Question:          question,
		Decision:          string(result.Decision),
		Reasons:           mustJSON(result.Reasons),
		MatchedCategories: mustJSON(result.MatchedCategories),
		MatchedPatterns:   mustJSON(result.MatchedPatterns),
	}
	if _, err := s.repo.Create(ctx, nil, record); err != nil {
		s.log.Error("Failed to persist risk audit record", "domain", string(domain), "error", err)
	}
}
