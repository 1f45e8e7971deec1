/*
 * @module service/quality/errors
 * @description 质量检查错误分类，提供带类型标签的检查错误和判定辅助函数
 * @architecture 错误分类模式 - 封闭的错误类型集合，调用方按类型分支处理
 * @documentReference ai_docs/quality_check_req.md
 * @stateFlow 错误产生 -> 类型标记 -> 按类型分支（记录状态、发送通知、返回API）
 * @rules 阈值越界与结果形状异常必须携带结构化上下文，不依赖错误消息文本判定
 * @dependencies errors, fmt
 * @refs engine.go, check_service.go
 */

package quality

import (
	"errors"
	"fmt"
)

// CheckErrorType 检查错误类型
type CheckErrorType string

const (
	ErrorTypeUnsupportedConnection CheckErrorType = "unsupported_connection_type" // 连接类型不具备标量查询能力
	ErrorTypeInvalidResultShape    CheckErrorType = "invalid_result_shape"        // 查询结果不是单行单列的数值
	ErrorTypeThresholdViolation    CheckErrorType = "threshold_violation"         // 检查结果超出阈值区间
)

// CheckError 质量检查错误，携带类型标签和阈值上下文
type CheckError struct {
	Type         CheckErrorType `json:"type"`
	Message      string         `json:"message"`
	Value        *float64       `json:"value,omitempty"`
	MinThreshold *float64       `json:"min_threshold,omitempty"`
	MaxThreshold *float64       `json:"max_threshold,omitempty"`
	Cause        error          `json:"-"`
}

// Error 实现error接口
func (e *CheckError) Error() string {
	return e.Message
}

// Unwrap 返回底层错误
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// NewUnsupportedConnectionTypeError 创建连接类型不支持错误
func NewUnsupportedConnectionTypeError(connType string, supported []string) *CheckError {
	return &CheckError{
		Type:    ErrorTypeUnsupportedConnection,
		Message: fmt.Sprintf("连接类型 %s 不支持标量SQL查询，支持的类型: %v", connType, supported),
	}
}

// NewInvalidResultShapeError 创建结果形状异常错误
func NewInvalidResultShapeError(message string) *CheckError {
	return &CheckError{
		Type:    ErrorTypeInvalidResultShape,
		Message: message,
	}
}

// NewThresholdViolationError 创建阈值越界错误
func NewThresholdViolationError(value, minThreshold, maxThreshold float64) *CheckError {
	return &CheckError{
		Type:         ErrorTypeThresholdViolation,
		Message:      fmt.Sprintf("检查结果 %v 不在阈值区间 [%v, %v] 内", value, minThreshold, maxThreshold),
		Value:        &value,
		MinThreshold: &minThreshold,
		MaxThreshold: &maxThreshold,
	}
}

// AsCheckError 尝试将错误解析为CheckError
func AsCheckError(err error) (*CheckError, bool) {
	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		return checkErr, true
	}
	return nil, false
}

// IsUnsupportedConnectionType 判断是否为连接类型不支持错误
func IsUnsupportedConnectionType(err error) bool {
	checkErr, ok := AsCheckError(err)
	return ok && checkErr.Type == ErrorTypeUnsupportedConnection
}

// IsInvalidResultShape 判断是否为结果形状异常错误
func IsInvalidResultShape(err error) bool {
	checkErr, ok := AsCheckError(err)
	return ok && checkErr.Type == ErrorTypeInvalidResultShape
}

// IsThresholdViolation 判断是否为阈值越界错误
func IsThresholdViolation(err error) bool {
	checkErr, ok := AsCheckError(err)
	return ok && checkErr.Type == ErrorTypeThresholdViolation
}
