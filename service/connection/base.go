/*
 * @module service/connection/base
 * @description 连接基础实现，提供通用的生命周期状态管理
 * @architecture 模板方法模式 - 具体连接类型嵌入基础实现，在其上完成会话建立和查询
 * @documentReference ai_docs/connection_req.md
 * @stateFlow 状态流转：Init设置配置 -> Start建立会话 -> Stop释放资源，状态读写全程加锁
 * @rules 具体连接实现先调用基础Init保存配置，再解析自身所需字段
 * @dependencies context, sync, time
 * @refs interface.go, service/models/connection.go
 */

package connection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dataquality-service/service/models"
)

// BaseConnection 连接基础实现
type BaseConnection struct {
	mu            sync.RWMutex
	id            string
	connType      string
	config        *models.Connection
	isInitialized bool
	isStarted     bool
	startedAt     time.Time
}

// NewBaseConnection 创建连接基础实现
func NewBaseConnection(connType string) *BaseConnection {
	return &BaseConnection{
		connType: connType,
	}
}

// Init 初始化连接基础信息
func (b *BaseConnection) Init(ctx context.Context, conn *models.Connection) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("连接配置不能为空")
	}

	if conn.Type != b.connType {
		return fmt.Errorf("连接类型不匹配: 期望 %s，实际 %s", b.connType, conn.Type)
	}

	if b.isInitialized {
		return fmt.Errorf("连接 %s 已经初始化", conn.ID)
	}

	b.id = conn.ID
	b.config = conn
	b.isInitialized = true

	return nil
}

// Start 启动连接（基础实现仅更新状态，子类重写）
func (b *BaseConnection) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isInitialized {
		return fmt.Errorf("连接 %s 未初始化", b.id)
	}

	if b.isStarted {
		return fmt.Errorf("连接 %s 已经启动", b.id)
	}

	b.isStarted = true
	b.startedAt = time.Now()
	return nil
}

// Stop 停止连接
func (b *BaseConnection) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isStarted {
		return nil
	}

	b.isStarted = false
	return nil
}

// HealthCheck 基础健康检查，依据生命周期状态判断
func (b *BaseConnection) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	startTime := time.Now()
	status := &HealthStatus{
		LastCheck: startTime,
		Details:   make(map[string]interface{}),
	}

	if !b.isInitialized {
		status.Status = "offline"
		status.Message = "连接未初始化"
		status.ResponseTime = time.Since(startTime)
		return status, nil
	}

	if !b.isStarted {
		status.Status = "offline"
		status.Message = "连接未启动"
		status.ResponseTime = time.Since(startTime)
		return status, nil
	}

	status.Status = "online"
	status.Message = "连接正常"
	status.ResponseTime = time.Since(startTime)
	status.Details["type"] = b.connType
	status.Details["initialized"] = b.isInitialized
	status.Details["started"] = b.isStarted

	return status, nil
}

// GetType 获取连接类型
func (b *BaseConnection) GetType() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connType
}

// GetID 获取连接ID
func (b *BaseConnection) GetID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.id
}

// IsInitialized 检查是否已初始化
func (b *BaseConnection) IsInitialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isInitialized
}

// IsStarted 检查是否已启动
func (b *BaseConnection) IsStarted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isStarted
}

// GetConfig 获取连接配置
func (b *BaseConnection) GetConfig() *models.Connection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// StartedAt 获取启动时间
func (b *BaseConnection) StartedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.startedAt
}

// DefaultConnectionFactory 默认连接工厂实现
type DefaultConnectionFactory struct {
	mu       sync.RWMutex
	creators map[string]ConnectionCreator
}

// NewDefaultConnectionFactory 创建默认连接工厂
func NewDefaultConnectionFactory() *DefaultConnectionFactory {
	return &DefaultConnectionFactory{
		creators: make(map[string]ConnectionCreator),
	}
}

// Create 创建连接实例
func (f *DefaultConnectionFactory) Create(connType string) (ConnectionInterface, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	creator, exists := f.creators[connType]
	if !exists {
		return nil, fmt.Errorf("不支持的连接类型: %s", connType)
	}

	return creator(), nil
}

// GetSupportedTypes 获取支持的连接类型列表
func (f *DefaultConnectionFactory) GetSupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.creators))
	for connType := range f.creators {
		types = append(types, connType)
	}
	return types
}

// RegisterType 注册新的连接类型
func (f *DefaultConnectionFactory) RegisterType(connType string, creator ConnectionCreator) error {
	if connType == "" {
		return fmt.Errorf("连接类型不能为空")
	}
	if creator == nil {
		return fmt.Errorf("连接创建器不能为空")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[connType] = creator
	return nil
}
