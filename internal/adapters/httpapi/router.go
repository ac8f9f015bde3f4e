package httpapi

import (
	"context"
	"net/http"
	"time"

	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/config"
	commentPort "yatube/internal/ports/comment"
	feedPort "yatube/internal/ports/feed"
	groupPort "yatube/internal/ports/group"
	postPort "yatube/internal/ports/post"
	userPort "yatube/internal/ports/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// UserUseCase is the inbound port the auth pages need.
type UserUseCase interface {
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	RegisterUser(ctx context.Context, in userPort.SignupInput) (*userPort.UserDTO, error)
	ParseToken(token string) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*userPort.UserDTO, error)
}

type GroupUseCase interface {
	ListGroups(ctx context.Context) ([]*groupPort.GroupDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, in postPort.PostInput) (*postPort.PostDTO, error)
	GetPostForEdit(ctx context.Context, requesterID uuid.UUID, postID uint) (*postPort.PostDTO, error)
	EditPost(ctx context.Context, requesterID uuid.UUID, postID uint, in postPort.PostInput) (*postPort.PostDTO, error)
}

type CommentUseCase interface {
	AddComment(ctx context.Context, authorID uuid.UUID, postID uint, text string) (*commentPort.CommentDTO, error)
}

type FollowUseCase interface {
	FollowUser(ctx context.Context, requesterID uuid.UUID, username string) error
	UnfollowUser(ctx context.Context, requesterID uuid.UUID, username string) error
}

type FeedUseCase interface {
	Index(ctx context.Context, page string) (*feedPort.IndexView, error)
	GroupFeed(ctx context.Context, slug, page string) (*feedPort.GroupView, error)
	Profile(ctx context.Context, viewerID *uuid.UUID, username, page string) (*feedPort.ProfileView, error)
	FollowFeed(ctx context.Context, viewerID uuid.UUID, page string) (*feedPort.FollowView, error)
	PostDetail(ctx context.Context, postID uint, page string) (*feedPort.PostDetailView, error)
}

// UseCases bundles the services the router dispatches to.
type UseCases struct {
	Users    UserUseCase
	Groups   GroupUseCase
	Posts    PostUseCase
	Comments CommentUseCase
	Follows  FollowUseCase
	Feeds    FeedUseCase
}

// SetupRoutes only routes; every use case is injected from outside.
func SetupRoutes(cfg config.Config, logger *zap.Logger, uc UseCases) *gin.Engine {
	registerFormTagNames()

	r := gin.New()
	r.Use(middleware.Logger(logger), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.Authenticate(uc.Users))

	login := middleware.LoginRequired(cfg.LoginURL)
	rend := &renderer{logger: logger}
	fc := NewFeedController(uc.Feeds, rend)
	pc := NewPostController(uc.Posts, uc.Groups, rend, cfg.UploadDir, cfg.EditForbiddenPolicy == config.PolicyForbid)
	cc := NewCommentController(uc.Comments, rend)
	flc := NewFollowController(uc.Follows, rend)
	uctl := NewUserController(uc.Users, rend, cfg.IsProduction())
	gc := NewGroupController(uc.Groups, rend)

	r.GET("/", fc.Index)
	r.GET("/group/:slug/", fc.GroupPosts)
	r.GET("/profile/:username/", fc.Profile)
	r.GET("/posts/:post_id/", fc.PostDetail)
	r.GET("/follow/", login, fc.FollowIndex)

	r.GET("/create/", login, pc.CreateForm)
	r.POST("/create/", login, pc.CreatePost)
	r.GET("/posts/:post_id/edit/", login, pc.EditForm)
	r.POST("/posts/:post_id/edit/", login, pc.EditPost)
	r.POST("/posts/:post_id/comment/", login, cc.AddComment)

	r.GET("/profile/:username/follow/", login, flc.FollowUser)
	r.GET("/profile/:username/unfollow/", login, flc.UnfollowUser)

	r.GET("/groups/", gc.ListGroups)

	auth := r.Group("/auth")
	auth.GET("/signup/", uctl.SignupForm)
	auth.POST("/signup/", uctl.RegisterUser)
	auth.GET("/login/", uctl.LoginForm)
	auth.POST("/login/", uctl.LoginUser)
	auth.GET("/logout/", uctl.Logout)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}
