package httpapi

import (
	"net/http"

	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentController struct {
	cc   CommentUseCase
	rend *renderer
}

func NewCommentController(cc CommentUseCase, rend *renderer) *CommentController {
	return &CommentController{cc: cc, rend: rend}
}

// AddComment always ends on the post page. A rejected comment is dropped.
func (ctl *CommentController) AddComment(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		ctl.rend.fail(c, apperr.ErrNotFound)
		return
	}
	userID, _ := middleware.UserID(c)

	var form struct {
		Text string `form:"text" json:"text"`
	}
	_ = c.ShouldBind(&form)

	if _, err := ctl.cc.AddComment(c.Request.Context(), userID, postID, form.Text); err != nil {
		if v, ok := apperr.AsValidation(err); ok {
			ctl.rend.logger.Warn("Dropped invalid comment",
				zap.Uint("post_id", postID),
				zap.Any("errors", v.Fields),
			)
		} else {
			ctl.rend.fail(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, postURL(postID))
}
