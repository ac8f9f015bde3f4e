package postapp

import (
	"context"
	"errors"
	"strings"

	"yatube/internal/core/apperr"
	postEntity "yatube/internal/core/post"
	groupPort "yatube/internal/ports/group"
	postPort "yatube/internal/ports/post"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const invalidGroupMessage = "Select a valid choice. That choice is not one of the available choices."

// PostService creates and edits posts on behalf of a signed-in author.
type PostService struct {
	PostRepository  postPort.PostRepository
	GroupRepository groupPort.GroupRepository
	Logger          *zap.Logger
}

func NewPostService(postRepo postPort.PostRepository, groupRepo groupPort.GroupRepository, logger *zap.Logger) *PostService {
	return &PostService{
		PostRepository:  postRepo,
		GroupRepository: groupRepo,
		Logger:          logger,
	}
}

// CreatePost stores a new post written by authorID. Nothing in the input
// can name a different author.
func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, in postPort.PostInput) (*postPort.PostDTO, error) {
	in, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	created, err := s.PostRepository.Create(ctx, &postEntity.Post{
		Text:     in.Text,
		AuthorID: authorID,
		GroupID:  in.GroupID,
		Image:    in.Image,
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Created post",
		zap.Uint("post_id", created.ID),
		zap.String("author_id", authorID.String()),
	)

	// reload so the author and group come back with the post
	p, err := s.PostRepository.FindByID(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	return postPort.NewPostDTO(p), nil
}

func (s *PostService) GetPost(ctx context.Context, postID uint) (*postPort.PostDTO, error) {
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return postPort.NewPostDTO(p), nil
}

// GetPostForEdit returns the post when requesterID wrote it and
// apperr.ErrForbidden otherwise.
func (s *PostService) GetPostForEdit(ctx context.Context, requesterID uuid.UUID, postID uint) (*postPort.PostDTO, error) {
	p, err := s.ownedPost(ctx, requesterID, postID)
	if err != nil {
		return nil, err
	}
	return postPort.NewPostDTO(p), nil
}

// EditPost replaces text, group and image of a post the requester wrote.
// An empty image keeps the current one. The publication date stays as is.
func (s *PostService) EditPost(ctx context.Context, requesterID uuid.UUID, postID uint, in postPort.PostInput) (*postPort.PostDTO, error) {
	p, err := s.ownedPost(ctx, requesterID, postID)
	if err != nil {
		return nil, err
	}
	in, err = s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	p.Text = in.Text
	p.GroupID = in.GroupID
	if in.Image != "" {
		p.Image = in.Image
	}
	if err := s.PostRepository.Update(ctx, p); err != nil {
		return nil, err
	}
	s.Logger.Info("Edited post", zap.Uint("post_id", p.ID))

	updated, err := s.PostRepository.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return postPort.NewPostDTO(updated), nil
}

func (s *PostService) ownedPost(ctx context.Context, requesterID uuid.UUID, postID uint) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != requesterID {
		s.Logger.Debug("Refused edit by non-author",
			zap.Uint("post_id", postID),
			zap.String("requester_id", requesterID.String()),
		)
		return nil, apperr.ErrForbidden
	}
	return p, nil
}

func (s *PostService) validate(ctx context.Context, in postPort.PostInput) (postPort.PostInput, error) {
	v := &apperr.ValidationError{}
	if strings.TrimSpace(in.Text) == "" {
		v.Add("text", "This field is required.")
	}
	if in.GroupID != nil {
		_, err := s.GroupRepository.FindByID(ctx, *in.GroupID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			v.Add("group", invalidGroupMessage)
		case err != nil:
			return in, err
		}
	}
	return in, v.OrNil()
}
