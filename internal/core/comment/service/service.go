package commentapp

import (
	"context"
	"strings"

	"yatube/internal/core/apperr"
	commentEntity "yatube/internal/core/comment"
	commentPort "yatube/internal/ports/comment"
	postPort "yatube/internal/ports/post"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type CommentService struct {
	CommentRepository commentPort.CommentRepository
	PostRepository    postPort.PostRepository
	Logger            *zap.Logger
}

func NewCommentService(commentRepo commentPort.CommentRepository, postRepo postPort.PostRepository, logger *zap.Logger) *CommentService {
	return &CommentService{
		CommentRepository: commentRepo,
		PostRepository:    postRepo,
		Logger:            logger,
	}
}

// AddComment attaches text to postID as written by authorID. The post must
// exist and the text must not be blank.
func (s *CommentService) AddComment(ctx context.Context, authorID uuid.UUID, postID uint, text string) (*commentPort.CommentDTO, error) {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Invalid("text", "This field is required.")
	}

	c, err := s.CommentRepository.Create(ctx, &commentEntity.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Added comment",
		zap.Uint("post_id", postID),
		zap.Uint("comment_id", c.ID),
	)

	return commentPort.NewCommentDTO(c), nil
}
