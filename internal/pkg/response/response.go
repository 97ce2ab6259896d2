package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weddingmarket/internal/pkg/apperror"
)

func JSON(c *gin.Context, statusCode int, success bool, message string, data any) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(statusCode, gin.H{
		"success": success,
		"status":  statusCode,
		"message": message,
		"data":    data,
	})
}

func OK(c *gin.Context, message string, data any) {
	JSON(c, http.StatusOK, true, message, data)
}

func Created(c *gin.Context, message string, data any) {
	JSON(c, http.StatusCreated, true, message, data)
}

func Fail(c *gin.Context, statusCode int, message string) {
	JSON(c, statusCode, false, message, nil)
}

func ValidationFailed(c *gin.Context, fields map[string]string) {
	JSON(c, http.StatusUnprocessableEntity, false, "Validation error", fields)
}

// Error records err on the context for the request logger and writes the
// envelope. Unclassified errors become a generic 500.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	ae, ok := apperror.As(err)
	if !ok {
		Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if ae.Kind == apperror.KindValidation {
		ValidationFailed(c, ae.Fields)
		return
	}
	Fail(c, StatusFor(ae.Kind), ae.Message)
}

func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusUnprocessableEntity
	case apperror.KindBadRequest:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindGatewayUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
