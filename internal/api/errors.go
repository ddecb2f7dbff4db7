package api

import (
	"errors"
	"net/http"

	"tagz/internal/errs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
	ErrCodeMissingField       = "ERR_MISSING_FIELD"

	// 资源错误码
	ErrCodeFileNotFound         = "ERR_FILE_NOT_FOUND"
	ErrCodeTagNotFound          = "ERR_TAG_NOT_FOUND"
	ErrCodeTagsNotFound         = "ERR_TAGS_NOT_FOUND"
	ErrCodeRelationshipNotFound = "ERR_RELATIONSHIP_NOT_FOUND"

	// 业务逻辑错误码
	ErrCodeDuplication          = "ERR_DUPLICATION"
	ErrCodeRelationshipExists   = "ERR_RELATIONSHIP_EXISTS"
	ErrCodeNoTags               = "ERR_NO_TAGS"
	ErrCodeConfirmationRequired = "ERR_CONFIRMATION_REQUIRED"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// Conflict 409 资源冲突
func Conflict(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusConflict, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable 503 服务不可用
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// MissingField 缺少必填字段
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}

// UnknownTags 400，details 中列出无法识别的标签名
func UnknownTags(c *gin.Context, names []string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeTagsNotFound,
		"some tags could not be found, check details for the list of unknown tags", names)
}

// ServiceError maps a catalog error onto a response. notFoundCode names the
// resource for plain not-found errors. Storage faults are logged and hidden.
func ServiceError(c *gin.Context, err error, notFoundCode string, logMsg string) {
	var unknown *errs.UnknownTagsError
	switch {
	case errors.As(err, &unknown):
		UnknownTags(c, unknown.Names)
	case errors.Is(err, errs.ErrNoTags):
		BadRequest(c, ErrCodeNoTags, err.Error())
	case errors.Is(err, errs.ErrInvalidArgument):
		BadRequest(c, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, errs.ErrConfirmationRequired):
		BadRequest(c, ErrCodeConfirmationRequired,
			"tag has related files, so all files with this tag will be unlinked; confirm by adding ?confirm=true")
	case errors.Is(err, errs.ErrNotFound):
		NotFound(c, notFoundCode, err.Error())
	case errors.Is(err, errs.ErrDuplicate):
		Conflict(c, ErrCodeDuplication, err.Error())
	case errors.Is(err, errs.ErrConflict):
		Conflict(c, ErrCodeRelationshipExists, err.Error())
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error(logMsg)
		InternalError(c, logMsg)
	}
}
