package groupapp

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"yatube/internal/core/apperr"
	groupEntity "yatube/internal/core/group"
	groupPort "yatube/internal/ports/group"

	"go.uber.org/zap"
)

// GroupService is what the admin tooling and the post form use to manage
// and list communities.
type GroupService struct {
	GroupRepository groupPort.GroupRepository
	Logger          *zap.Logger
}

func NewGroupService(repo groupPort.GroupRepository, logger *zap.Logger) *GroupService {
	return &GroupService{
		GroupRepository: repo,
		Logger:          logger,
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, title, slug, description string) (*groupPort.GroupDTO, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)
	description = strings.TrimSpace(description)

	v := &apperr.ValidationError{}
	switch {
	case title == "":
		v.Add("title", "This field is required.")
	case utf8.RuneCountInString(title) > groupEntity.TitleMaxLength:
		v.Add("title", "Ensure this value has at most 200 characters.")
	}
	if !groupEntity.ValidSlug(slug) {
		v.Add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	if description == "" {
		v.Add("description", "This field is required.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	g, err := s.GroupRepository.Create(ctx, &groupEntity.Group{
		Title:       title,
		Slug:        slug,
		Description: description,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Invalid("slug", "Group with this slug already exists.")
		}
		return nil, err
	}

	s.Logger.Info("Created group", zap.String("slug", g.Slug))
	return groupPort.NewGroupDTO(g), nil
}

func (s *GroupService) GetBySlug(ctx context.Context, slug string) (*groupPort.GroupDTO, error) {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return groupPort.NewGroupDTO(g), nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]*groupPort.GroupDTO, error) {
	groups, err := s.GroupRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*groupPort.GroupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupPort.NewGroupDTO(g))
	}
	return out, nil
}

// DeleteGroup removes the group; its posts stay, untagged.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.GroupRepository.Delete(ctx, g.ID); err != nil {
		return err
	}
	s.Logger.Info("Deleted group", zap.String("slug", slug))
	return nil
}
