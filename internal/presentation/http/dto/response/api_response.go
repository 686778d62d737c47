package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/imranmdl/tile-granite-management-sub002/pkg/apperror"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
)

// RequestIDKey is the gin context key the request logger stores the id under
const RequestIDKey = "request_id"

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func newMeta(c *gin.Context) *Meta {
	requestID := c.GetString(RequestIDKey)
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

func SuccessWithPagination[T any](c *gin.Context, statusCode int, message string, result *pagination.PaginatedResult[T]) {
	Success(c, statusCode, message, result)
}

// Error maps err onto its status code. Server errors are logged with the
// underlying cause; clients only see the message.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", newMeta(c).RequestID).
			Str("route", c.FullPath()).
			Msg("request failed")
		_ = c.Error(err)
	}
	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Errors,
		Meta:    newMeta(c),
	})
}

func fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
		Meta:    newMeta(c),
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Unauthorized(c *gin.Context, message string) {
	fail(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	fail(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, message)
}

func TooManyRequests(c *gin.Context, message string) {
	fail(c, http.StatusTooManyRequests, message)
}

// Attachment sends data as a download named filename
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
