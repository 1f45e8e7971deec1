/*
 * @module service/connection/manager
 * @description 连接管理器实现，负责连接实例的按需获取、释放和状态跟踪
 * @architecture 工厂模式 + 作用域生命周期 - 每次检查执行获取连接，结束时释放
 * @dependencies context, sync, log, time
 * @documentReference ai_docs/connection_req.md
 * @stateFlow 管理器生命周期：Acquire创建并启动实例 -> 执行查询 -> Release停止并清理
 * @rules 获取与释放成对出现，失败路径同样释放，活跃实例仅用于状态展示
 * @refs interface.go, base.go, service/models/connection.go
 */

package connection

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"dataquality-service/service/models"
)

// DefaultConnectionManager 默认连接管理器实现
type DefaultConnectionManager struct {
	mu      sync.RWMutex
	factory ConnectionFactory
	active  map[ConnectionInterface]*ConnectionStatus
	logger  *log.Logger

	acquiredTotal int64
	releasedTotal int64
}

// NewDefaultConnectionManager 创建默认连接管理器
func NewDefaultConnectionManager(factory ConnectionFactory) *DefaultConnectionManager {
	return &DefaultConnectionManager{
		factory: factory,
		active:  make(map[ConnectionInterface]*ConnectionStatus),
		logger:  log.Default(),
	}
}

// Acquire 获取连接实例：创建、初始化并启动
func (m *DefaultConnectionManager) Acquire(ctx context.Context, conn *models.Connection) (ConnectionInterface, error) {
	if conn == nil {
		return nil, fmt.Errorf("连接配置不能为空")
	}

	if conn.Type == "" {
		return nil, fmt.Errorf("连接类型不能为空")
	}

	instance, err := m.factory.Create(conn.Type)
	if err != nil {
		return nil, err
	}

	if err := instance.Init(ctx, conn); err != nil {
		return nil, fmt.Errorf("初始化连接失败: %v", err)
	}

	if err := instance.Start(ctx); err != nil {
		// Start失败时实例可能已持有部分资源
		if stopErr := instance.Stop(ctx); stopErr != nil {
			m.logger.Printf("清理启动失败的连接 %s 时发生错误: %v", conn.ID, stopErr)
		}
		return nil, fmt.Errorf("启动连接失败: %v", err)
	}

	status := &ConnectionStatus{
		ID:            conn.ID,
		Type:          conn.Type,
		Name:          conn.Name,
		IsInitialized: true,
		IsStarted:     true,
		HealthStatus:  "online",
		AcquiredAt:    time.Now(),
		UsageCount:    1,
	}

	m.mu.Lock()
	m.active[instance] = status
	m.acquiredTotal++
	m.mu.Unlock()

	m.logger.Printf("连接 %s (%s) 已获取", conn.ID, conn.Type)
	return instance, nil
}

// Release 释放连接实例，停止底层会话并移出活跃列表
func (m *DefaultConnectionManager) Release(ctx context.Context, instance ConnectionInterface) error {
	if instance == nil {
		return fmt.Errorf("连接实例不能为空")
	}

	m.mu.Lock()
	if _, tracked := m.active[instance]; tracked {
		delete(m.active, instance)
		m.releasedTotal++
	}
	m.mu.Unlock()

	if err := instance.Stop(ctx); err != nil {
		m.logger.Printf("停止连接 %s 时发生错误: %v", instance.GetID(), err)
		return err
	}

	m.logger.Printf("连接 %s 已释放", instance.GetID())
	return nil
}

// TestConnection 测试连接配置的连通性
func (m *DefaultConnectionManager) TestConnection(ctx context.Context, conn *models.Connection) (*HealthStatus, error) {
	if conn == nil {
		return nil, fmt.Errorf("连接配置不能为空")
	}

	instance, err := m.factory.Create(conn.Type)
	if err != nil {
		return nil, err
	}

	if err := instance.Init(ctx, conn); err != nil {
		return &HealthStatus{
			Status:    "error",
			Message:   fmt.Sprintf("初始化连接失败: %v", err),
			LastCheck: time.Now(),
		}, nil
	}

	startTime := time.Now()
	if err := instance.Start(ctx); err != nil {
		return &HealthStatus{
			Status:       "error",
			Message:      fmt.Sprintf("建立连接失败: %v", err),
			LastCheck:    time.Now(),
			ResponseTime: time.Since(startTime),
		}, nil
	}

	defer func() {
		if stopErr := instance.Stop(ctx); stopErr != nil {
			m.logger.Printf("停止测试连接 %s 时发生错误: %v", conn.ID, stopErr)
		}
	}()

	status, err := instance.HealthCheck(ctx)
	if err != nil {
		return &HealthStatus{
			Status:       "error",
			Message:      fmt.Sprintf("健康检查失败: %v", err),
			LastCheck:    time.Now(),
			ResponseTime: time.Since(startTime),
		}, nil
	}

	return status, nil
}

// GetActiveStatus 获取当前活跃连接状态
func (m *DefaultConnectionManager) GetActiveStatus() map[string]*ConnectionStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]*ConnectionStatus, len(m.active))
	for _, status := range m.active {
		statusCopy := *status
		key := fmt.Sprintf("%s@%d", status.ID, status.AcquiredAt.UnixNano())
		result[key] = &statusCopy
	}

	return result
}

// GetStatistics 获取管理器统计信息
func (m *DefaultConnectionManager) GetStatistics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	typeCount := make(map[string]int)
	for _, status := range m.active {
		typeCount[status.Type]++
	}

	stats := make(map[string]interface{})
	stats["active_count"] = len(m.active)
	stats["acquired_total"] = m.acquiredTotal
	stats["released_total"] = m.releasedTotal
	stats["type_distribution"] = typeCount
	stats["supported_types"] = m.factory.GetSupportedTypes()

	return stats
}
