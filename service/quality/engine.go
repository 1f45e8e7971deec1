/*
 * @module service/quality/engine
 * @description 质量检查引擎，执行标量SQL取值和阈值区间比较
 * @architecture 领域服务 - 纯计算核心，连接获取委托连接管理器，不涉及持久化
 * @documentReference ai_docs/quality_check_req.md
 * @stateFlow 检查流程：类型校验 -> 获取连接 -> 取标量值 -> 解析阈值 -> 区间比较 -> 释放连接
 * @rules 结果形状校验顺序固定：先行数后列数；连接在检查结束时释放，失败路径同样释放
 * @dependencies context, time, log/slog, github.com/spf13/cast
 * @refs errors.go, service/connection, service/meta/connection.go
 */

package quality

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dataquality-service/service/connection"
	"dataquality-service/service/meta"
	"dataquality-service/service/models"

	"github.com/spf13/cast"
)

// ThresholdCheckConfig 字面量阈值检查配置
type ThresholdCheckConfig struct {
	TaskID       string             `json:"task_id"`
	Description  string             `json:"description"`
	SQL          string             `json:"sql"`
	MinThreshold float64            `json:"min_threshold"`
	MaxThreshold float64            `json:"max_threshold"`
	Connection   *models.Connection `json:"-"`
}

// ThresholdSQLCheckConfig SQL阈值检查配置，阈值由独立SQL求值
type ThresholdSQLCheckConfig struct {
	TaskID          string             `json:"task_id"`
	Description     string             `json:"description"`
	SQL             string             `json:"sql"`
	MinThresholdSQL string             `json:"min_threshold_sql"`
	MaxThresholdSQL string             `json:"max_threshold_sql"`
	Connection      *models.Connection `json:"-"`
	// ThresholdConnection 为空时阈值SQL复用取值连接
	ThresholdConnection *models.Connection `json:"-"`
}

// CheckResult 检查结果信息，字段顺序与历史记录保持一致
type CheckResult struct {
	TaskID          string    `json:"task_id"`
	Description     string    `json:"description"`
	ExecutionDate   time.Time `json:"execution_date"`
	Result          float64   `json:"result"`
	MinThreshold    float64   `json:"min_threshold"`
	MaxThreshold    float64   `json:"max_threshold"`
	WithinThreshold bool      `json:"within_threshold"`
}

// QualityEngine 质量检查引擎
type QualityEngine struct {
	manager connection.ConnectionManager
}

// NewQualityEngine 创建质量检查引擎
func NewQualityEngine(manager connection.ConnectionManager) *QualityEngine {
	return &QualityEngine{
		manager: manager,
	}
}

// GetSQLValue 执行SQL并返回单行单列的标量值
// 不具备标量查询能力的连接类型在建立连接前即被拒绝
func (e *QualityEngine) GetSQLValue(ctx context.Context, conn *models.Connection, query string) (interface{}, error) {
	if conn == nil {
		return nil, fmt.Errorf("连接配置不能为空")
	}

	if query == "" {
		return nil, fmt.Errorf("SQL查询语句不能为空")
	}

	if !meta.IsScalarQueryable(conn.Type) {
		return nil, NewUnsupportedConnectionTypeError(conn.Type, meta.ScalarQueryableTypes())
	}

	instance, err := e.manager.Acquire(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("获取连接失败: %w", err)
	}
	defer func() {
		if releaseErr := e.manager.Release(ctx, instance); releaseErr != nil {
			slog.Warn("释放连接失败", "connection_id", conn.ID, "error", releaseErr)
		}
	}()

	querier, ok := instance.(connection.SQLQuerier)
	if !ok {
		return nil, NewUnsupportedConnectionTypeError(conn.Type, meta.ScalarQueryableTypes())
	}

	result, err := querier.ExecuteQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("执行查询失败: %w", err)
	}

	return e.extractScalar(result)
}

// extractScalar 校验结果形状并提取标量值，校验顺序：多行 -> 无结果 -> 多列
func (e *QualityEngine) extractScalar(result *connection.QueryResult) (interface{}, error) {
	if result.RowCount() > 1 {
		slog.Info("查询结果包含多于1行", "row_count", result.RowCount())
		return nil, NewInvalidResultShapeError(fmt.Sprintf("SQL查询结果包含多于1行: 共 %d 行", result.RowCount()))
	}

	if result.RowCount() < 1 {
		return nil, NewInvalidResultShapeError("SQL查询未返回任何结果")
	}

	if len(result.Rows[0]) != 1 {
		slog.Info("查询结果不是单列", "column_count", len(result.Rows[0]))
		return nil, NewInvalidResultShapeError(fmt.Sprintf("SQL查询结果不是单列: 共 %d 列", len(result.Rows[0])))
	}

	return result.Rows[0][0], nil
}

// RunThresholdCheck 执行字面量阈值检查
// 结果越界时同时返回CheckResult和阈值越界错误，结果仍可用于记录和通知
func (e *QualityEngine) RunThresholdCheck(ctx context.Context, config *ThresholdCheckConfig) (*CheckResult, error) {
	if config == nil {
		return nil, fmt.Errorf("检查配置不能为空")
	}

	executionDate := time.Now()

	raw, err := e.GetSQLValue(ctx, config.Connection, config.SQL)
	if err != nil {
		return nil, err
	}

	value, err := toFloat(raw)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		TaskID:          config.TaskID,
		Description:     config.Description,
		ExecutionDate:   executionDate,
		Result:          value,
		MinThreshold:    config.MinThreshold,
		MaxThreshold:    config.MaxThreshold,
		WithinThreshold: config.MinThreshold <= value && value <= config.MaxThreshold,
	}

	slog.Info("阈值检查完成",
		"task_id", result.TaskID,
		"result", result.Result,
		"min_threshold", result.MinThreshold,
		"max_threshold", result.MaxThreshold,
		"within_threshold", result.WithinThreshold,
	)

	if !result.WithinThreshold {
		return result, NewThresholdViolationError(value, config.MinThreshold, config.MaxThreshold)
	}

	return result, nil
}

// RunThresholdSQLCheck 执行SQL阈值检查：先求上下阈值，再取检查值
// 阈值连接未指定时复用取值连接
func (e *QualityEngine) RunThresholdSQLCheck(ctx context.Context, config *ThresholdSQLCheckConfig) (*CheckResult, error) {
	if config == nil {
		return nil, fmt.Errorf("检查配置不能为空")
	}

	if config.MinThresholdSQL == "" {
		return nil, fmt.Errorf("下阈值SQL不能为空")
	}

	if config.MaxThresholdSQL == "" {
		return nil, fmt.Errorf("上阈值SQL不能为空")
	}

	thresholdConn := config.ThresholdConnection
	if thresholdConn == nil {
		thresholdConn = config.Connection
	}

	minRaw, err := e.GetSQLValue(ctx, thresholdConn, config.MinThresholdSQL)
	if err != nil {
		return nil, fmt.Errorf("下阈值SQL求值失败: %w", err)
	}

	minThreshold, err := toFloat(minRaw)
	if err != nil {
		return nil, err
	}

	maxRaw, err := e.GetSQLValue(ctx, thresholdConn, config.MaxThresholdSQL)
	if err != nil {
		return nil, fmt.Errorf("上阈值SQL求值失败: %w", err)
	}

	maxThreshold, err := toFloat(maxRaw)
	if err != nil {
		return nil, err
	}

	return e.RunThresholdCheck(ctx, &ThresholdCheckConfig{
		TaskID:       config.TaskID,
		Description:  config.Description,
		SQL:          config.SQL,
		MinThreshold: minThreshold,
		MaxThreshold: maxThreshold,
		Connection:   config.Connection,
	})
}

// toFloat 将标量查询值转换为浮点数
func toFloat(raw interface{}) (float64, error) {
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, NewInvalidResultShapeError(fmt.Sprintf("查询结果 %v 不是数值类型", raw))
	}
	return value, nil
}
