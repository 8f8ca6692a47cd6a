package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Detail  string            `json:"detail,omitempty"` // development mode only
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
		c.JSON(appErr.Code, ErrorResponse{Message: appErr.Message, Errors: appErr.Fields})
		return
	}

	slog.ErrorContext(c.Request.Context(), "request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)

	resp := ErrorResponse{Message: "internal server error"}
	if gin.IsDebugging() {
		resp.Detail = err.Error()
		if appErr != nil && appErr.Err != nil {
			resp.Detail = appErr.Err.Error()
		}
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// BindError renders a binding or validation failure as a 400 "Bad Request".
// messages maps a field name to the explanation shown for it; fields
// without an entry get a generic one.
func BindError(c *gin.Context, err error, messages map[string]string) {
	resp := ErrorResponse{Message: "Bad Request", Errors: map[string]string{}}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msg, ok := messages[fe.Field()]
			if !ok {
				msg = fmt.Sprintf("Invalid value for %s", fe.Field())
			}
			resp.Errors[fe.Field()] = msg
		}
	} else if gin.IsDebugging() {
		resp.Detail = err.Error()
	}

	if len(resp.Errors) == 0 {
		resp.Errors = nil
	}
	c.JSON(http.StatusBadRequest, resp)
}

// Message is the body of plain acknowledgements such as deletions.
type Message struct {
	Message string `json:"message"`
}

// Deleted writes the standard deletion acknowledgement.
func Deleted(c *gin.Context) {
	c.JSON(http.StatusOK, Message{Message: "Successfully deleted"})
}
