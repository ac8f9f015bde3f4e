package comment

import (
	"context"
	"time"

	"yatube/internal/core/comment"
	userPort "yatube/internal/ports/user"

	"github.com/gofrs/uuid"
)

// CommentRepository is the storage port for comments. Listings come back in
// comment.Ordering with Author loaded.
type CommentRepository interface {
	Create(ctx context.Context, comment *comment.Comment) (*comment.Comment, error)
	ListByPost(ctx context.Context, postID uint, offset, limit int) ([]*comment.Comment, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
}

type CommentDTO struct {
	ID      uint              `json:"id"`
	PostID  uint              `json:"post_id"`
	Text    string            `json:"text"`
	Created time.Time         `json:"created"`
	Author  *userPort.UserDTO `json:"author,omitempty"`
}

// NewCommentDTO leaves Author unset when it was not loaded with c.
func NewCommentDTO(c *comment.Comment) *CommentDTO {
	dto := &CommentDTO{
		ID:      c.ID,
		PostID:  c.PostID,
		Text:    c.Text,
		Created: c.Created,
	}
	if c.Author.ID != uuid.Nil {
		dto.Author = userPort.NewUserDTO(&c.Author)
	}
	return dto
}

func NewCommentDTOs(comments []*comment.Comment) []*CommentDTO {
	out := make([]*CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewCommentDTO(c))
	}
	return out
}
