package httpapi

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"yatube/internal/core/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const invalidChoiceMessage = "Select a valid choice. That choice is not one of the available choices."

type renderer struct {
	logger *zap.Logger
}

// fail turns a service error into a response. Nothing internal leaks out
// of a 404 or a 500.
func (r *renderer) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, apperr.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	default:
		_ = c.Error(err)
		r.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// form re-renders a rejected form with its field errors.
func (r *renderer) form(c *gin.Context, form any, v *apperr.ValidationError, extra gin.H) {
	body := gin.H{"form": form, "errors": v.Fields}
	for k, val := range extra {
		body[k] = val
	}
	c.JSON(http.StatusBadRequest, body)
}

var tagNamesOnce sync.Once

// registerFormTagNames makes validator report fields by their form name.
func registerFormTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// bindingErrors maps what gin's binder rejected onto form fields.
func bindingErrors(err error) *apperr.ValidationError {
	v := &apperr.ValidationError{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return v.Add("__all__", "Submitted data could not be read.")
	}
	for _, fe := range fieldErrs {
		v.Add(fe.Field(), fieldMessage(fe))
	}
	return v
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "number":
		return invalidChoiceMessage
	default:
		return "Enter a valid value."
	}
}

// pathID reads a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
