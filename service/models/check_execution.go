/*
 * @module service/models/check_execution
 * @description 质量检查执行记录模型，持久化每次检查的标量结果、阈值与判定结论
 * @architecture 数据模型层
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow 检查执行 -> 结果落库 -> 通知分发 -> 历史查询/清理
 * @rules 结果信息字段与检查引擎的 CheckResult 七字段保持一致
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/quality/, api/controllers/execution_controller.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 执行状态
const (
	ExecutionStatusRunning = "running" // 执行中
	ExecutionStatusPassed  = "passed"  // 检查通过
	ExecutionStatusFailed  = "failed"  // 阈值越界
	ExecutionStatusError   = "error"   // 执行出错
)

// 触发类型
const (
	TriggerTypeScheduled = "scheduled" // 调度触发
	TriggerTypeManual    = "manual"    // 手动触发
)

// CheckExecution 质量检查执行记录模型
type CheckExecution struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	CheckID         string     `gorm:"type:varchar(36);not null;index" json:"check_id"`
	TaskID          string     `gorm:"type:varchar(100);not null" json:"task_id"`     // 检查名称，随结果信息透出
	Description     string     `gorm:"type:text" json:"description"`
	ExecutionDate   time.Time  `gorm:"not null;index" json:"execution_date"`
	Result          *float64   `json:"result"`                                        // 检查SQL的标量结果
	MinThreshold    *float64   `json:"min_threshold"`
	MaxThreshold    *float64   `json:"max_threshold"`
	WithinThreshold bool       `json:"within_threshold"`
	Status          string     `gorm:"type:varchar(20);not null;index" json:"status"` // running, passed, failed, error
	ErrorType       string     `gorm:"type:varchar(50)" json:"error_type,omitempty"`  // unsupported_connection_type, invalid_result_shape, threshold_violation, execution
	ErrorMessage    string     `gorm:"type:text" json:"error_message,omitempty"`
	TriggerType     string     `gorm:"type:varchar(20);not null" json:"trigger_type"` // scheduled, manual
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Duration        int64      `json:"duration"`                                      // 执行时长，毫秒
	ExecutedBy      string     `gorm:"type:varchar(50)" json:"executed_by"`
	CreatedAt       time.Time  `json:"created_at"`
	// 关联关系
	Check *QualityCheck `json:"check,omitempty" gorm:"foreignKey:CheckID"`
}

// TableName 指定表名
func (CheckExecution) TableName() string {
	return "check_executions"
}

// BeforeCreate 创建前钩子
func (c *CheckExecution) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.ExecutedBy == "" {
		c.ExecutedBy = "system"
	}
	return nil
}
