package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/apperr"
	userPort "yatube/internal/ports/user"

	"github.com/gin-gonic/gin"
)

type signupForm struct {
	FirstName string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" json:"last_name" binding:"max=150"`
	Username  string `form:"username" json:"username" binding:"required,max=150"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	Password  string `form:"password" json:"password,omitempty" binding:"required"`
}

type loginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password,omitempty" binding:"required"`
	Next     string `form:"next" json:"next"`
}

type UserController struct {
	uc           UserUseCase
	rend         *renderer
	secureCookie bool
}

func NewUserController(uc UserUseCase, rend *renderer, secureCookie bool) *UserController {
	return &UserController{uc: uc, rend: rend, secureCookie: secureCookie}
}

func (ctl *UserController) SignupForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": signupForm{}})
}

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var form signupForm
	bindErr := c.ShouldBind(&form)
	password := form.Password
	// never echo the password back
	form.Password = ""
	if bindErr != nil {
		ctl.rend.form(c, form, bindingErrors(bindErr), nil)
		return
	}
	_, err := ctl.uc.RegisterUser(c.Request.Context(), userPort.SignupInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Username:  form.Username,
		Email:     form.Email,
		Password:  password,
	})
	if v, ok := apperr.AsValidation(err); ok {
		ctl.rend.form(c, form, v, nil)
		return
	}
	if err != nil {
		ctl.rend.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (ctl *UserController) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": loginForm{Next: c.Query("next")}})
}

func (ctl *UserController) LoginUser(c *gin.Context) {
	var form loginForm
	bindErr := c.ShouldBind(&form)
	password := form.Password
	form.Password = ""
	if bindErr != nil {
		ctl.rend.form(c, form, bindingErrors(bindErr), nil)
		return
	}
	if form.Next == "" {
		form.Next = c.Query("next")
	}

	res, err := ctl.uc.LoginUser(c.Request.Context(), form.Username, password)
	if errors.Is(err, apperr.ErrInvalidCredentials) {
		ctl.rend.form(c, form, apperr.Invalid("__all__",
			"Please enter a correct username and password. Note that both fields may be case-sensitive."), nil)
		return
	}
	if err != nil {
		ctl.rend.fail(c, err)
		return
	}

	maxAge := int(time.Until(time.Unix(res.ExpiresAt, 0)).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, res.Token, maxAge, "/", "", ctl.secureCookie, true)
	c.Redirect(http.StatusFound, safeNext(form.Next))
}

func (ctl *UserController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", ctl.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// safeNext only follows local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
