package repos

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	pkgerrors "github.com/benboulanger/agent-platform/internal/pkg/errors"
	"github.com/benboulanger/agent-platform/internal/types"
)

type QuestionRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.QuestionRecord) (*types.QuestionRecord, error)
	GetByQuestionID(ctx context.Context, questionID string) (*types.QuestionRecord, error)
	// SetComment replaces any existing comments with the new one.
	SetComment(ctx context.Context, questionID, comment string) error
	// AddLike appends a vote; earlier votes are kept.
	AddLike(ctx context.Context, questionID string, like bool) error
	List(ctx context.Context, limit int) ([]*types.QuestionRecord, error)
}

type questionRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRecordRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRecordRepo {
	repoLog := baseLog.With("repo", "QuestionRecordRepo")
	return &questionRecordRepo{db: db, log: repoLog}
}

func (r *questionRecordRepo) Create(ctx context.Context, tx *gorm.DB, record *types.QuestionRecord) (*types.QuestionRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *questionRecordRepo) GetByQuestionID(ctx context.Context, questionID string) (*types.QuestionRecord, error) {
	var record types.QuestionRecord
	err := r.db.WithContext(ctx).Where("question_id = ?", questionID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *questionRecordRepo) SetComment(ctx context.Context, questionID, comment string) error {
	raw, err := json.Marshal([]types.CommentEntry{{Comment: comment, Timestamp: time.Now()}})
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&types.QuestionRecord{}).
		Where("question_id = ?", questionID).
		Update("comments", datatypes.JSON(raw))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *questionRecordRepo) AddLike(ctx context.Context, questionID string, like bool) error {
	record, err := r.GetByQuestionID(ctx, questionID)
	if err != nil {
		return err
	}

	var likes []types.LikeEntry
	if len(record.Likes) > 0 {
		if err := json.Unmarshal(record.Likes, &likes); err != nil {
			r.log.Warn("resetting malformed likes payload", "question_id", questionID, "error", err)
			likes = nil
		}
	}
	likes = append(likes, types.LikeEntry{Like: like, Timestamp: time.Now()})

	raw, err := json.Marshal(likes)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&types.QuestionRecord{}).
		Where("question_id = ?", questionID).
		Update("likes", datatypes.JSON(raw)).Error
}

func (r *questionRecordRepo) List(ctx context.Context, limit int) ([]*types.QuestionRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []*types.QuestionRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
