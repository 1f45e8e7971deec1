/*
 * @module service/models/quality_check
 * @description 质量检查任务模型，定义SQL标量检查及其阈值、调度与通知配置
 * @architecture 数据模型层
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow 检查创建 -> 调度/手动触发 -> 执行记录 -> 统计更新
 * @rules 阈值检查支持字面阈值与SQL阈值两种模式，阈值SQL连接缺省时复用检查连接
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/quality/, service/scheduler/
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckMode 检查模式
type CheckMode string

const (
	CheckModeThreshold    CheckMode = "threshold"     // 字面阈值比较
	CheckModeThresholdSQL CheckMode = "threshold_sql" // SQL计算阈值比较
)

// ScheduleType 调度类型
type ScheduleType string

const (
	ScheduleTypeCron     ScheduleType = "cron"     // cron表达式
	ScheduleTypeInterval ScheduleType = "interval" // 间隔执行
	ScheduleTypeOnce     ScheduleType = "once"     // 一次性执行
	ScheduleTypeManual   ScheduleType = "manual"   // 手动执行
)

// NotifyChannelRef 通知通道引用，NotifyChannels 数组元素的结构
type NotifyChannelRef struct {
	Type         string `json:"type"`               // redis, kafka, mqtt, webhook
	ConnectionID string `json:"connection_id"`      // 引用的连接ID
	Target       string `json:"target,omitempty"`   // 频道/主题/URL路径，缺省用连接配置
	Disabled     bool   `json:"disabled,omitempty"` // 临时停用该通道
}

// QualityCheck 质量检查任务模型
type QualityCheck struct {
	ID              string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string           `gorm:"type:varchar(100);not null" json:"name"`
	Description     string           `gorm:"type:text" json:"description"`
	ConnectionID    string           `gorm:"type:varchar(36);not null;index" json:"connection_id"`            // 检查SQL执行的连接
	SQL             string           `gorm:"column:sql;type:text;not null" json:"sql"`                        // 结果必须为单行单列的标量
	Mode            string           `gorm:"type:varchar(30);not null" json:"mode"`                           // threshold, threshold_sql
	MinThreshold    *float64         `json:"min_threshold,omitempty"`                                         // 字面阈值下限
	MaxThreshold    *float64         `json:"max_threshold,omitempty"`                                         // 字面阈值上限
	MinThresholdSQL string           `gorm:"type:text" json:"min_threshold_sql,omitempty"`
	MaxThresholdSQL string           `gorm:"type:text" json:"max_threshold_sql,omitempty"`
	ThresholdConnID string           `gorm:"type:varchar(36)" json:"threshold_conn_id,omitempty"`             // 阈值SQL连接，空则复用ConnectionID
	Script          string           `gorm:"type:text" json:"script,omitempty"`                               // 自定义校验脚本，对检查结果二次判定
	ScriptEnabled   bool             `gorm:"default:false" json:"script_enabled"`
	ScheduleType    string           `gorm:"type:varchar(20);not null;default:'manual'" json:"schedule_type"` // cron, interval, once, manual
	CronExpression  string           `gorm:"type:varchar(100)" json:"cron_expression"`
	IntervalSeconds int64            `gorm:"default:0" json:"interval_seconds"`
	ScheduledTime   *time.Time       `json:"scheduled_time,omitempty"`                                        // once类型的计划执行时间
	NotifyEnabled   bool             `gorm:"default:false" json:"notify_enabled"`
	NotifyOnSuccess bool             `gorm:"default:false" json:"notify_on_success"`
	NotifyOnFailure bool             `gorm:"default:true" json:"notify_on_failure"`
	Recipients      JSONBStringArray `gorm:"type:jsonb" json:"recipients"`                                    // 通知接收人列表，随消息透传
	NotifyChannels  JSONBArray       `gorm:"type:jsonb" json:"notify_channels"`                               // NotifyChannelRef 列表
	IsEnabled       bool             `gorm:"default:true" json:"is_enabled"`
	LastExecuted    *time.Time       `json:"last_executed,omitempty"`
	NextExecution   *time.Time       `json:"next_execution,omitempty"`
	ExecutionCount  int64            `gorm:"default:0" json:"execution_count"`
	SuccessCount    int64            `gorm:"default:0" json:"success_count"`
	FailureCount    int64            `gorm:"default:0" json:"failure_count"`
	CreatedBy       string           `gorm:"type:varchar(50)" json:"created_by"`
	UpdatedBy       string           `gorm:"type:varchar(50)" json:"updated_by"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	// 关联关系
	Connection *Connection `json:"connection,omitempty" gorm:"foreignKey:ConnectionID"`
}

// TableName 指定表名
func (QualityCheck) TableName() string {
	return "quality_checks"
}

// BeforeCreate 创建前钩子
func (q *QualityCheck) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.CreatedBy == "" {
		q.CreatedBy = "system"
	}
	if q.UpdatedBy == "" {
		q.UpdatedBy = "system"
	}
	return nil
}

// BeforeUpdate 更新前钩子
func (q *QualityCheck) BeforeUpdate(tx *gorm.DB) error {
	if q.UpdatedBy == "" {
		q.UpdatedBy = "system"
	}
	return nil
}

// ThresholdConnectionID 阈值SQL使用的连接ID，未配置时复用检查连接
func (q *QualityCheck) ThresholdConnectionID() string {
	if q.ThresholdConnID != "" {
		return q.ThresholdConnID
	}
	return q.ConnectionID
}

// ChannelRefs 解析 NotifyChannels 为结构化的通道引用列表
func (q *QualityCheck) ChannelRefs() []NotifyChannelRef {
	refs := make([]NotifyChannelRef, 0, len(q.NotifyChannels))
	for _, item := range q.NotifyChannels {
		ref := NotifyChannelRef{}
		if v, ok := item["type"].(string); ok {
			ref.Type = v
		}
		if v, ok := item["connection_id"].(string); ok {
			ref.ConnectionID = v
		}
		if v, ok := item["target"].(string); ok {
			ref.Target = v
		}
		if v, ok := item["disabled"].(bool); ok {
			ref.Disabled = v
		}
		refs = append(refs, ref)
	}
	return refs
}
