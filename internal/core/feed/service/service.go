// Package feedapp composes the paginated post listings: the global index,
// a group, an author's profile, the posts of followed authors and a single
// post with its comments.
package feedapp

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"yatube/internal/pagination"
	commentPort "yatube/internal/ports/comment"
	feedPort "yatube/internal/ports/feed"
	"yatube/internal/ports/feedcache"
	followPort "yatube/internal/ports/follow"
	groupPort "yatube/internal/ports/group"
	postPort "yatube/internal/ports/post"
	userPort "yatube/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type FeedService struct {
	PostRepository    postPort.PostRepository
	GroupRepository   groupPort.GroupRepository
	UserRepository    userPort.UserRepository
	FollowRepository  followPort.FollowRepository
	CommentRepository commentPort.CommentRepository
	Logger            *zap.Logger

	paginator pagination.Paginator
	cache     feedcache.FeedCache
	cacheTTL  time.Duration
}

func NewFeedService(
	postRepo postPort.PostRepository,
	groupRepo groupPort.GroupRepository,
	userRepo userPort.UserRepository,
	followRepo followPort.FollowRepository,
	commentRepo commentPort.CommentRepository,
	perPage int,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		PostRepository:    postRepo,
		GroupRepository:   groupRepo,
		UserRepository:    userRepo,
		FollowRepository:  followRepo,
		CommentRepository: commentRepo,
		Logger:            logger,
		paginator:         pagination.New(perPage),
	}
}

// WithIndexCache serves the index from cache for ttl after it is first
// built. A nil cache or a non-positive ttl turns caching off.
func (s *FeedService) WithIndexCache(cache feedcache.FeedCache, ttl time.Duration) *FeedService {
	if cache == nil || ttl <= 0 {
		s.cache, s.cacheTTL = nil, 0
		return s
	}
	s.cache, s.cacheTTL = cache, ttl
	return s
}

func (s *FeedService) Index(ctx context.Context, page string) (*feedPort.IndexView, error) {
	if s.cache == nil {
		return s.index(ctx, page)
	}

	key := indexCacheKey(page)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var view feedPort.IndexView
		if err := json.Unmarshal(raw, &view); err == nil {
			return &view, nil
		}
		s.Logger.Warn("Discarding unreadable cached index", zap.String("key", key))
	} else if !errors.Is(err, feedcache.ErrMiss) {
		s.Logger.Warn("Index cache unavailable", zap.Error(err))
	}

	view, err := s.index(ctx, page)
	if err != nil {
		return nil, err
	}
	if err := s.storeIndex(ctx, key, view); err != nil {
		s.Logger.Warn("Could not cache index", zap.Error(err))
	}
	return view, nil
}

// RefreshIndex rebuilds the cached copy of the given index pages without
// reading the cache first. It does nothing when caching is off.
func (s *FeedService) RefreshIndex(ctx context.Context, pages ...int) error {
	if s.cache == nil {
		return nil
	}
	for _, n := range pages {
		page := strconv.Itoa(n)
		view, err := s.index(ctx, page)
		if err != nil {
			return err
		}
		if err := s.storeIndex(ctx, indexCacheKey(page), view); err != nil {
			return err
		}
	}
	return nil
}

func (s *FeedService) storeIndex(ctx context.Context, key string, view *feedPort.IndexView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, raw, s.cacheTTL)
}

func (s *FeedService) index(ctx context.Context, page string) (*feedPort.IndexView, error) {
	obj, err := s.posts(ctx, postPort.PostFilter{}, page)
	if err != nil {
		return nil, err
	}
	return &feedPort.IndexView{PageObj: obj}, nil
}

// indexCacheKey folds every spelling of the same requested page onto one
// key. Clamping past the last page happens after the lookup.
func indexCacheKey(page string) string {
	n, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || n < 1 {
		n = 1
	}
	return "index:page:" + strconv.Itoa(n)
}

func (s *FeedService) GroupFeed(ctx context.Context, slug, page string) (*feedPort.GroupView, error) {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	obj, err := s.posts(ctx, postPort.PostFilter{GroupID: &g.ID}, page)
	if err != nil {
		return nil, err
	}
	return &feedPort.GroupView{
		Group:   groupPort.NewGroupDTO(g),
		PageObj: obj,
	}, nil
}

// Profile lists the author's posts. viewerID is nil for anonymous viewers.
func (s *FeedService) Profile(ctx context.Context, viewerID *uuid.UUID, username, page string) (*feedPort.ProfileView, error) {
	author, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	obj, err := s.posts(ctx, postPort.PostFilter{AuthorID: &author.ID}, page)
	if err != nil {
		return nil, err
	}

	following := true
	if viewerID != nil && *viewerID != author.ID {
		following, err = s.FollowRepository.Exists(ctx, *viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}

	return &feedPort.ProfileView{
		Author:    userPort.NewUserDTO(author),
		PostCount: obj.Count,
		Following: following,
		PageObj:   obj,
	}, nil
}

func (s *FeedService) FollowFeed(ctx context.Context, viewerID uuid.UUID, page string) (*feedPort.FollowView, error) {
	obj, err := s.posts(ctx, postPort.PostFilter{FollowedBy: &viewerID}, page)
	if err != nil {
		return nil, err
	}
	return &feedPort.FollowView{PageObj: obj}, nil
}

// PostDetail returns the post, how many posts its author has written and a
// page of its comments, newest first.
func (s *FeedService) PostDetail(ctx context.Context, postID uint, page string) (*feedPort.PostDetailView, error) {
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	postCount, err := s.PostRepository.Count(ctx, postPort.PostFilter{AuthorID: &p.AuthorID})
	if err != nil {
		return nil, err
	}

	total, err := s.CommentRepository.CountByPost(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	w := s.paginator.Window(page, total)
	comments, err := s.CommentRepository.ListByPost(ctx, p.ID, w.Offset, w.Limit)
	if err != nil {
		return nil, err
	}

	return &feedPort.PostDetailView{
		Post:      postPort.NewPostDTO(p),
		PostCount: postCount,
		PageObj:   pagination.NewPage(commentPort.NewCommentDTOs(comments), w),
	}, nil
}

func (s *FeedService) posts(ctx context.Context, filter postPort.PostFilter, page string) (feedPort.PostPage, error) {
	total, err := s.PostRepository.Count(ctx, filter)
	if err != nil {
		return feedPort.PostPage{}, err
	}
	w := s.paginator.Window(page, total)
	posts, err := s.PostRepository.List(ctx, filter, w.Offset, w.Limit)
	if err != nil {
		return feedPort.PostPage{}, err
	}
	return pagination.NewPage(postPort.NewPostDTOs(posts), w), nil
}
