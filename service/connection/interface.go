/*
 * @module service/connection/interface
 * @description 连接统一接口定义，提供Init, Start, Stop等标准生命周期方法，SQL查询能力单独建模
 * @architecture 接口隔离原则 - 连接生命周期与查询能力分离，仅关系型连接实现SQLQuerier
 * @documentReference ai_docs/connection_req.md
 * @stateFlow 连接生命周期：Init -> Start -> ExecuteQuery -> Stop
 * @rules 所有连接实现必须遵循统一接口，检查执行期间按需获取连接并在结束时释放
 * @dependencies context, time
 * @refs service/models/connection.go, service/meta/connection.go
 */

package connection

import (
	"context"
	"time"

	"dataquality-service/service/models"
)

// ConnectionInterface 连接统一接口
type ConnectionInterface interface {
	// Init 初始化连接，解析连接参数和配置
	Init(ctx context.Context, conn *models.Connection) error

	// Start 启动连接，建立底层会话，准备执行查询
	Start(ctx context.Context) error

	// Stop 停止连接，关闭底层会话，清理资源
	Stop(ctx context.Context) error

	// HealthCheck 健康检查，返回连接当前状态
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// GetType 获取连接类型
	GetType() string

	// GetID 获取连接ID
	GetID() string

	// IsInitialized 检查是否已初始化
	IsInitialized() bool

	// IsStarted 检查是否已启动
	IsStarted() bool
}

// SQLQuerier SQL查询能力接口，仅关系型连接实现
type SQLQuerier interface {
	// ExecuteQuery 执行SQL查询，保留结果集的完整形状
	ExecuteQuery(ctx context.Context, query string) (*QueryResult, error)
}

// QueryResult SQL查询结果，列和行按返回顺序保留
type QueryResult struct {
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	Duration  time.Duration   `json:"duration"`
	Timestamp time.Time       `json:"timestamp"`
}

// RowCount 返回结果行数
func (r *QueryResult) RowCount() int {
	return len(r.Rows)
}

// ColumnCount 返回结果列数
func (r *QueryResult) ColumnCount() int {
	return len(r.Columns)
}

// HealthStatus 健康状态
type HealthStatus struct {
	Status       string                 `json:"status"` // online, offline, error, testing
	Message      string                 `json:"message,omitempty"`
	LastCheck    time.Time              `json:"last_check"`
	ResponseTime time.Duration          `json:"response_time"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// ConnectionStatus 连接实例状态
type ConnectionStatus struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Name            string    `json:"name"`
	IsInitialized   bool      `json:"is_initialized"`
	IsStarted       bool      `json:"is_started"`
	LastHealthCheck time.Time `json:"last_health_check"`
	HealthStatus    string    `json:"health_status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	AcquiredAt      time.Time `json:"acquired_at,omitempty"`
	UsageCount      int64     `json:"usage_count"`
}

// ConnectionFactory 连接工厂接口
type ConnectionFactory interface {
	// Create 创建连接实例
	Create(connType string) (ConnectionInterface, error)

	// GetSupportedTypes 获取支持的连接类型列表
	GetSupportedTypes() []string

	// RegisterType 注册新的连接类型
	RegisterType(connType string, creator ConnectionCreator) error
}

// ConnectionCreator 连接创建器函数类型
type ConnectionCreator func() ConnectionInterface

// ConnectionManager 连接管理器接口
type ConnectionManager interface {
	// Acquire 获取连接实例：创建、初始化并启动，调用方负责Release
	Acquire(ctx context.Context, conn *models.Connection) (ConnectionInterface, error)

	// Release 释放连接实例，停止底层会话并移出活跃列表
	Release(ctx context.Context, instance ConnectionInterface) error

	// TestConnection 测试连接配置的连通性，实例不进入活跃列表
	TestConnection(ctx context.Context, conn *models.Connection) (*HealthStatus, error)

	// GetActiveStatus 获取当前活跃连接状态
	GetActiveStatus() map[string]*ConnectionStatus

	// GetStatistics 获取管理器统计信息
	GetStatistics() map[string]interface{}
}
