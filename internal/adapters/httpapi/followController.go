package httpapi

import (
	"net/http"

	"yatube/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
)

type FollowController struct {
	fc   FollowUseCase
	rend *renderer
}

func NewFollowController(fc FollowUseCase, rend *renderer) *FollowController {
	return &FollowController{fc: fc, rend: rend}
}

func (ctl *FollowController) FollowUser(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	username := c.Param("username")
	if err := ctl.fc.FollowUser(c.Request.Context(), userID, username); err != nil {
		ctl.rend.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}

func (ctl *FollowController) UnfollowUser(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	username := c.Param("username")
	if err := ctl.fc.UnfollowUser(c.Request.Context(), userID, username); err != nil {
		ctl.rend.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}
