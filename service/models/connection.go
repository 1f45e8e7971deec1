/*
 * @module service/models/connection
 * @description 数据连接模型定义，描述质量检查可引用的数据库连接和通知通道连接
 * @architecture 数据模型层
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow 连接注册 -> 配置校验 -> 检查/通知引用 -> 连接停用
 * @rules 连接类型必须属于已注册的类型集合，连接配置通过 meta 定义校验
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/connection/, service/meta/connection.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Connection 数据连接模型
// 关系型连接(postgresql/mysql)可被质量检查执行SQL，
// 消息类连接(redis/kafka/mqtt/webhook)仅作为通知通道端点
type Connection struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;unique" json:"name"`
	Type        string    `gorm:"type:varchar(50);not null;index" json:"type"`     // postgresql, mysql, redis, kafka, mqtt, webhook
	Description string    `gorm:"type:text" json:"description"`
	Config      JSONB     `gorm:"type:jsonb;not null" json:"config"`               // 连接配置，按类型由 meta 定义校验
	Status      string    `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive
	CreatedBy   string    `gorm:"type:varchar(50)" json:"created_by"`
	UpdatedBy   string    `gorm:"type:varchar(50)" json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Connection) TableName() string {
	return "connections"
}

// BeforeCreate 创建前钩子
func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedBy == "" {
		c.CreatedBy = "system"
	}
	if c.UpdatedBy == "" {
		c.UpdatedBy = "system"
	}
	return nil
}

// BeforeUpdate 更新前钩子
func (c *Connection) BeforeUpdate(tx *gorm.DB) error {
	if c.UpdatedBy == "" {
		c.UpdatedBy = "system"
	}
	return nil
}

// IsActive 连接是否处于可用状态
func (c *Connection) IsActive() bool {
	return c.Status == "active"
}

// ConfigString 读取配置中的字符串字段
func (c *Connection) ConfigString(key string) string {
	if c.Config == nil {
		return ""
	}
	if v, ok := c.Config[key].(string); ok {
		return v
	}
	return ""
}
