package database

import (
	"context"

	"yatube/internal/core/follow"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepositoryDatabase implements FollowRepository on gorm.
type FollowRepositoryDatabase struct {
	db *gorm.DB
}

func NewFollowRepositoryDatabase(db *gorm.DB) *FollowRepositoryDatabase {
	return &FollowRepositoryDatabase{db: db}
}

func (repo *FollowRepositoryDatabase) Create(ctx context.Context, f *follow.Follow) (*follow.Follow, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error; err != nil {
		return nil, translate(err)
	}
	return f, nil
}

func (repo *FollowRepositoryDatabase) Delete(ctx context.Context, userID, authorID uuid.UUID) (int64, error) {
	res := repo.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&follow.Follow{})
	return res.RowsAffected, res.Error
}

func (repo *FollowRepositoryDatabase) Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&follow.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
