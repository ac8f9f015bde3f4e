package httpapi

import (
	"net/http"

	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type FeedController struct {
	fc   FeedUseCase
	rend *renderer
}

func NewFeedController(fc FeedUseCase, rend *renderer) *FeedController {
	return &FeedController{fc: fc, rend: rend}
}

func (ctl *FeedController) Index(c *gin.Context) {
	view, err := ctl.fc.Index(c.Request.Context(), c.Query("page"))
	if err != nil {
		ctl.rend.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ctl *FeedController) GroupPosts(c *gin.Context) {
	view, err := ctl.fc.GroupFeed(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		ctl.rend.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ctl *FeedController) Profile(c *gin.Context) {
	var viewer *uuid.UUID
	if id, ok := middleware.UserID(c); ok {
		viewer = &id
	}
	view, err := ctl.fc.Profile(c.Request.Context(), viewer, c.Param("username"), c.Query("page"))
	if err != nil {
		ctl.rend.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ctl *FeedController) PostDetail(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		ctl.rend.fail(c, apperr.ErrNotFound)
		return
	}
	view, err := ctl.fc.PostDetail(c.Request.Context(), postID, c.Query("page"))
	if err != nil {
		ctl.rend.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// FollowIndex lists posts by the authors the requester follows.
func (ctl *FeedController) FollowIndex(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ctl.rend.fail(c, apperr.ErrUnauthenticated)
		return
	}
	view, err := ctl.fc.FollowFeed(c.Request.Context(), userID, c.Query("page"))
	if err != nil {
		ctl.rend.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
