package post

import (
	"time"
	"unicode/utf8"

	"yatube/internal/core/group"
	"yatube/internal/core/user"

	"github.com/gofrs/uuid"
)

// Ordering is newest first, with the higher id winning a pub_date tie so
// that page boundaries are stable.
const Ordering = "pub_date DESC, id DESC"

// ExcerptLength is how many characters a one-line label keeps.
const ExcerptLength = 15

type Post struct {
	ID       uint         `gorm:"primaryKey"`
	Text     string       `gorm:"type:text;not null"`
	PubDate  time.Time    `gorm:"autoCreateTime;index"`
	AuthorID uuid.UUID    `gorm:"type:char(36);not null;index"`
	Author   user.User    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	GroupID  *uint        `gorm:"index"`
	Group    *group.Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	Image    string       `gorm:"size:255"`
}

// Excerpt returns the first characters of the text, used wherever a post
// needs a one-line label.
func (p Post) Excerpt() string {
	return ExcerptOf(p.Text)
}

// ExcerptOf cuts s to ExcerptLength characters.
func ExcerptOf(s string) string {
	if utf8.RuneCountInString(s) <= ExcerptLength {
		return s
	}
	return string([]rune(s)[:ExcerptLength])
}
