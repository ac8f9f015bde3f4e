package feedapp

import (
	commentEntity "yatube/internal/core/comment"

	"github.com/gofrs/uuid"
)

func newComment(postID uint, authorID uuid.UUID, text string) *commentEntity.Comment {
	return &commentEntity.Comment{PostID: postID, AuthorID: authorID, Text: text}
}
