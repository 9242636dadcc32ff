package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,

	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusBadRequest,
	ErrResourceNotFound: http.StatusNotFound,
}

// HandleError 统一处理错误响应。
// 5xx 错误只返回通用消息，原始错误记录在服务端日志里。
func HandleError(c *gin.Context, err error) {
	if appErr, ok := err.(*AppError); ok {
		status := errorStatusMap[appErr.Code]
		if status == 0 {
			status = http.StatusInternalServerError
		}

		if status >= http.StatusInternalServerError {
			zap.L().Error("内部错误", zap.Error(appErr))
			c.JSON(status, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(status, gin.H{"error": appErr.Message})
		return
	}

	// 处理非 AppError 类型的错误
	zap.L().Error("未处理的内部错误", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
