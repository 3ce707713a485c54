package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuestionRecord is one answered question in the question log. Likes and
// comments are appended by the feedback endpoints.
type QuestionRecord struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID string         `gorm:"column:question_id;not null;uniqueIndex" json:"question_id"`
	SessionID  string         `gorm:"column:session_id;index" json:"session_id"`
	Domain     string         `gorm:"column:domain;not null;index" json:"domain"`
	Language   string         `gorm:"column:language;not null" json:"language"`
	Question   string         `gorm:"column:question;not null" json:"question"`
	Response   string         `gorm:"column:response" json:"response"`
	Likes      datatypes.JSON `gorm:"type:jsonb;column:likes" json:"likes,omitempty"`
	Comments   datatypes.JSON `gorm:"type:jsonb;column:comments" json:"comments,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (QuestionRecord) TableName() string {
	return "question_record"
}

// LikeEntry is one vote stored in QuestionRecord.Likes.
type LikeEntry struct {
	Like      bool      `json:"like"`
	Timestamp time.Time `json:"timestamp"`
}

// CommentEntry is one comment stored in QuestionRecord.Comments.
type CommentEntry struct {
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}
