package follow

import (
	"time"

	"yatube/internal/core/user"

	"github.com/gofrs/uuid"
)

// Follow is the directed edge "UserID follows AuthorID". The pair is unique
// at the store level.
type Follow struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follow_user_author"`
	User      user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AuthorID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follow_user_author;index"`
	Author    user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
