package database

import (
	"context"

	"yatube/internal/core/follow"
	"yatube/internal/core/post"
	postPort "yatube/internal/ports/post"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepositoryDatabase implements PostRepository on gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uint) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) Update(ctx context.Context, p *post.Post) error {
	err := repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"text":     p.Text,
			"group_id": p.GroupID,
			"image":    p.Image,
		}).Error
	return translate(err)
}

func (repo *PostRepositoryDatabase) List(ctx context.Context, filter postPort.PostFilter, offset, limit int) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.scoped(ctx, filter).
		Preload("Author").
		Preload("Group").
		Order(post.Ordering).
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) Count(ctx context.Context, filter postPort.PostFilter) (int64, error) {
	var count int64
	if err := repo.scoped(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *PostRepositoryDatabase) scoped(ctx context.Context, filter postPort.PostFilter) *gorm.DB {
	q := repo.db.WithContext(ctx).Model(&post.Post{})
	if filter.AuthorID != nil {
		q = q.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.GroupID != nil {
		q = q.Where("group_id = ?", *filter.GroupID)
	}
	if filter.FollowedBy != nil {
		followed := repo.db.WithContext(ctx).
			Model(&follow.Follow{}).
			Select("author_id").
			Where("user_id = ?", *filter.FollowedBy)
		q = q.Where("author_id IN (?)", followed)
	}
	return q
}
