package comment

import (
	"time"

	"yatube/internal/core/post"
	"yatube/internal/core/user"

	"github.com/gofrs/uuid"
)

const Ordering = "created DESC, id DESC"

// Comment belongs to exactly one post and one author and dies with either.
type Comment struct {
	ID       uint       `gorm:"primaryKey"`
	PostID   uint       `gorm:"not null;index"`
	Post     *post.Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	AuthorID uuid.UUID  `gorm:"type:char(36);not null;index"`
	Author   user.User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Text     string     `gorm:"type:text;not null"`
	Created  time.Time  `gorm:"autoCreateTime;index"`
}

func (c Comment) Excerpt() string {
	return post.ExcerptOf(c.Text)
}
