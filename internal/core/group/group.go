package group

import "regexp"

const (
	TitleMaxLength = 200
	SlugMaxLength  = 50
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Group is a community a post may be tagged with. Posts reference it weakly:
// deleting a group clears Post.GroupID and keeps the posts.
type Group struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"size:50;uniqueIndex;not null"`
	Description string `gorm:"type:text;not null"`
}

// ValidSlug reports whether s is URL-safe and short enough to be a slug.
func ValidSlug(s string) bool {
	return len(s) <= SlugMaxLength && slugPattern.MatchString(s)
}

func (g Group) String() string {
	return g.Title
}
