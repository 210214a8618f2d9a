package respond

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed binding rule.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// BindError sends a 400 for a failed ShouldBind call, listing field violations when available.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			issue := fe.Tag()
			if fe.Param() != "" {
				issue += "=" + fe.Param()
			}
			details = append(details, FieldError{Field: lowerFirst(fe.Field()), Issue: issue})
		}
		Error(c, http.StatusBadRequest, "validation_error", "Request validation failed", details)
		return
	}
	Error(c, http.StatusBadRequest, "bad_request", "Invalid request body", nil)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
