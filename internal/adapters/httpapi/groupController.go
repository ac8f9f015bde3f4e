package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	gc   GroupUseCase
	rend *renderer
}

func NewGroupController(gc GroupUseCase, rend *renderer) *GroupController {
	return &GroupController{gc: gc, rend: rend}
}

func (ctl *GroupController) ListGroups(c *gin.Context) {
	groups, err := ctl.gc.ListGroups(c.Request.Context())
	if err != nil {
		ctl.rend.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
