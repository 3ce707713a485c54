package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RiskAuditRecord retains the risk decision for every classified question,
// regardless of outcome.
type RiskAuditRecord struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Domain            string         `gorm:"column:domain;not null;index" json:"domain"`
	Question          string         `gorm:"column:question;not null" json:"question"`
	Decision          string         `gorm:"column:decision;not null;index" json:"decision"`
	Reasons           datatypes.JSON `gorm:"type:jsonb;column:reasons" json:"reasons,omitempty"`
	MatchedCategories datatypes.JSON `gorm:"type:jsonb;column:matched_categories" json:"matched_categories,omitempty"`
	MatchedPatterns   datatypes.JSON `gorm:"type:jsonb;column:matched_patterns" json:"matched_patterns,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (RiskAuditRecord) TableName() string {
	return "risk_audit_record"
}
