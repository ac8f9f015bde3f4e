package post

import (
	"context"
	"time"

	"yatube/internal/core/post"
	groupPort "yatube/internal/ports/group"
	userPort "yatube/internal/ports/user"

	"github.com/gofrs/uuid"
)

// PostFilter scopes a post listing. Unset fields do not filter.
type PostFilter struct {
	AuthorID *uuid.UUID
	GroupID  *uint
	// FollowedBy keeps posts whose author the given user follows.
	FollowedBy *uuid.UUID
}

// PostRepository is the storage port for posts. Listings come back in
// post.Ordering with Author and Group loaded.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id uint) (*post.Post, error)
	// Update writes text, group and image. PubDate and author are never touched.
	Update(ctx context.Context, post *post.Post) error
	List(ctx context.Context, filter PostFilter, offset, limit int) ([]*post.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
}

// PostInput is what the create and edit forms submit. The author is never
// part of it.
type PostInput struct {
	Text    string
	GroupID *uint
	Image   string
}

type PostDTO struct {
	ID      uint                `json:"id"`
	Text    string              `json:"text"`
	PubDate time.Time           `json:"pub_date"`
	Author  *userPort.UserDTO   `json:"author"`
	Group   *groupPort.GroupDTO `json:"group,omitempty"`
	Image   string              `json:"image,omitempty"`
}

func NewPostDTO(p *post.Post) *PostDTO {
	dto := &PostDTO{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  userPort.NewUserDTO(&p.Author),
		Image:   p.Image,
	}
	if p.Group != nil {
		dto.Group = groupPort.NewGroupDTO(p.Group)
	}
	return dto
}

func NewPostDTOs(posts []*post.Post) []*PostDTO {
	out := make([]*PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostDTO(p))
	}
	return out
}
