package respond

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"resume-matcher/internal/shared/telemetry"
)

// ErrorBody is the payload under "error" in every failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error aborts the request with {"error":{code,message,details}} and logs it,
// at error level for 5xx and warn otherwise.
func Error(c *gin.Context, status int, code, message string, details any) {
	level := zapcore.WarnLevel
	if status >= 500 {
		level = zapcore.ErrorLevel
	}
	if ce := telemetry.L().Check(level, "http.error"); ce != nil {
		ce.Write(
			zap.Int("status", status),
			zap.String("code", code),
			zap.String("message", message),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("requestId")),
			zap.String("user_id", c.GetString("userId")),
		)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}
