package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/apperr"
	postPort "yatube/internal/ports/post"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type postForm struct {
	Text  string `form:"text" json:"text" binding:"required"`
	Group string `form:"group" json:"group" binding:"omitempty,number"`
}

// input converts the bound form. A group that is not a plain id is a
// field error, never an empty group.
func (f postForm) input() (postPort.PostInput, error) {
	in := postPort.PostInput{Text: f.Text}
	if f.Group == "" {
		return in, nil
	}
	n, err := strconv.ParseUint(f.Group, 10, 0)
	if err != nil {
		return in, apperr.Invalid("group", invalidChoiceMessage)
	}
	id := uint(n)
	in.GroupID = &id
	return in, nil
}

type PostController struct {
	pc          PostUseCase
	gc          GroupUseCase
	rend        *renderer
	uploadDir   string
	forbidEdits bool
}

func NewPostController(pc PostUseCase, gc GroupUseCase, rend *renderer, uploadDir string, forbidEdits bool) *PostController {
	return &PostController{
		pc:          pc,
		gc:          gc,
		rend:        rend,
		uploadDir:   uploadDir,
		forbidEdits: forbidEdits,
	}
}

func (ctl *PostController) CreateForm(c *gin.Context) {
	ctl.renderForm(c, http.StatusOK, postForm{}, nil, gin.H{"is_edit": false})
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderForm(c, http.StatusBadRequest, form, bindingErrors(err), gin.H{"is_edit": false})
		return
	}
	in, err := form.input()
	if err != nil {
		ctl.rejectForm(c, form, err, gin.H{"is_edit": false})
		return
	}

	image, err := ctl.saveImage(c)
	if err != nil {
		ctl.rejectForm(c, form, err, gin.H{"is_edit": false})
		return
	}
	in.Image = image

	p, err := ctl.pc.CreatePost(c.Request.Context(), userID, in)
	if err != nil {
		ctl.removeImage(image)
		ctl.rejectForm(c, form, err, gin.H{"is_edit": false})
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+p.Author.Username+"/")
}

func (ctl *PostController) EditForm(c *gin.Context) {
	p, ok := ctl.editablePost(c)
	if !ok {
		return
	}
	form := postForm{Text: p.Text}
	if p.Group != nil {
		form.Group = strconv.FormatUint(uint64(p.Group.ID), 10)
	}
	ctl.renderForm(c, http.StatusOK, form, nil, gin.H{"is_edit": true, "post": p})
}

func (ctl *PostController) EditPost(c *gin.Context) {
	// ownership is settled before the form is even read
	p, ok := ctl.editablePost(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	extra := gin.H{"is_edit": true, "post": p}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderForm(c, http.StatusBadRequest, form, bindingErrors(err), extra)
		return
	}
	in, err := form.input()
	if err != nil {
		ctl.rejectForm(c, form, err, extra)
		return
	}

	image, err := ctl.saveImage(c)
	if err != nil {
		ctl.rejectForm(c, form, err, extra)
		return
	}
	in.Image = image

	if _, err := ctl.pc.EditPost(c.Request.Context(), userID, p.ID, in); err != nil {
		ctl.removeImage(image)
		if errors.Is(err, apperr.ErrForbidden) {
			ctl.forbidden(c, p.ID)
			return
		}
		ctl.rejectForm(c, form, err, extra)
		return
	}
	if image != "" && p.Image != image {
		ctl.removeImage(p.Image)
	}
	c.Redirect(http.StatusFound, postURL(p.ID))
}

// editablePost loads the post named in the path for its author. Anyone
// else is answered here and ok is false.
func (ctl *PostController) editablePost(c *gin.Context) (*postPort.PostDTO, bool) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		ctl.rend.fail(c, apperr.ErrNotFound)
		return nil, false
	}
	userID, _ := middleware.UserID(c)
	p, err := ctl.pc.GetPostForEdit(c.Request.Context(), userID, postID)
	switch {
	case errors.Is(err, apperr.ErrForbidden):
		ctl.forbidden(c, postID)
		return nil, false
	case err != nil:
		ctl.rend.fail(c, err)
		return nil, false
	}
	return p, true
}

func (ctl *PostController) forbidden(c *gin.Context, postID uint) {
	if ctl.forbidEdits {
		ctl.rend.fail(c, apperr.ErrForbidden)
		return
	}
	c.Redirect(http.StatusFound, postURL(postID))
}

func (ctl *PostController) rejectForm(c *gin.Context, form postForm, err error, extra gin.H) {
	if v, ok := apperr.AsValidation(err); ok {
		ctl.renderForm(c, http.StatusBadRequest, form, v, extra)
		return
	}
	ctl.rend.fail(c, err)
}

func (ctl *PostController) renderForm(c *gin.Context, status int, form postForm, v *apperr.ValidationError, extra gin.H) {
	groups, err := ctl.gc.ListGroups(c.Request.Context())
	if err != nil {
		ctl.rend.fail(c, err)
		return
	}
	body := gin.H{"form": form, "groups": groups}
	if v != nil {
		body["errors"] = v.Fields
	}
	for k, val := range extra {
		body[k] = val
	}
	c.JSON(status, body)
}

// saveImage stores the optional "image" upload under a generated name and
// returns its path. Requests without a file return "".
func (ctl *PostController) saveImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", apperr.Invalid("image", "No file was submitted.")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	mtype, err := mimetype.DetectReader(src)
	src.Close()
	if err != nil {
		return "", fmt.Errorf("inspect upload: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperr.Invalid("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	dst := filepath.Join(ctl.uploadDir, uuid.Must(uuid.NewV4()).String()+mtype.Extension())
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return filepath.ToSlash(dst), nil
}

func (ctl *PostController) removeImage(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(filepath.FromSlash(path)); err != nil && !os.IsNotExist(err) {
		ctl.rend.logger.Warn("Could not remove upload", zap.String("path", path), zap.Error(err))
	}
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}
