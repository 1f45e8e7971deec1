/*
 * @module service/quality/test_utils
 * @description 质量检查测试工具，提供Mock连接管理器和测试数据构造函数
 * @architecture 测试辅助模式 - 提供通用的测试工具和Mock对象
 * @documentReference ai_docs/quality_check_req.md
 * @stateFlow 测试工具生命周期：创建Mock -> 设置期望 -> 执行测试 -> 验证结果
 * @rules 仅用于测试环境，提供连接管理器的Mock实现和测试辅助函数
 * @dependencies context, sync, time
 * @refs engine.go, service/connection/test_utils.go
 */

package quality

import (
	"context"
	"sync"
	"time"

	"dataquality-service/service/connection"
	"dataquality-service/service/models"
)

// MockConnectionManager Mock连接管理器，Acquire返回预设实例
type MockConnectionManager struct {
	mu           sync.Mutex
	instance     connection.ConnectionInterface
	instances    map[string]connection.ConnectionInterface
	acquireError error
	releaseError error
	acquireCount int
	releaseCount int
}

// NewMockConnectionManager 创建Mock连接管理器
func NewMockConnectionManager(instance connection.ConnectionInterface) *MockConnectionManager {
	return &MockConnectionManager{
		instance:  instance,
		instances: make(map[string]connection.ConnectionInterface),
	}
}

// Acquire 返回预设的连接实例，优先按连接ID匹配
func (m *MockConnectionManager) Acquire(ctx context.Context, conn *models.Connection) (connection.ConnectionInterface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.acquireError != nil {
		return nil, m.acquireError
	}

	m.acquireCount++
	if instance, exists := m.instances[conn.ID]; exists {
		return instance, nil
	}
	return m.instance, nil
}

// SetInstanceFor 为指定连接ID设置专属实例
func (m *MockConnectionManager) SetInstanceFor(connID string, instance connection.ConnectionInterface) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instances[connID] = instance
}

// Release 记录释放次数
func (m *MockConnectionManager) Release(ctx context.Context, instance connection.ConnectionInterface) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseCount++
	return m.releaseError
}

// TestConnection 返回在线状态
func (m *MockConnectionManager) TestConnection(ctx context.Context, conn *models.Connection) (*connection.HealthStatus, error) {
	return &connection.HealthStatus{
		Status:    "online",
		Message:   "mock healthy",
		LastCheck: time.Now(),
	}, nil
}

// GetActiveStatus 返回空的活跃连接列表
func (m *MockConnectionManager) GetActiveStatus() map[string]*connection.ConnectionStatus {
	return make(map[string]*connection.ConnectionStatus)
}

// GetStatistics 返回Mock统计信息
func (m *MockConnectionManager) GetStatistics() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]interface{}{
		"acquire_count": m.acquireCount,
		"release_count": m.releaseCount,
	}
}

// SetAcquireError 设置获取连接错误
func (m *MockConnectionManager) SetAcquireError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquireError = err
}

// SetReleaseError 设置释放连接错误
func (m *MockConnectionManager) SetReleaseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseError = err
}

// AcquireCount 获取Acquire调用次数
func (m *MockConnectionManager) AcquireCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquireCount
}

// ReleaseCount 获取Release调用次数
func (m *MockConnectionManager) ReleaseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releaseCount
}

// NewTestEngine 创建使用Mock连接管理器的测试引擎
func NewTestEngine(instance connection.ConnectionInterface) (*QualityEngine, *MockConnectionManager) {
	manager := NewMockConnectionManager(instance)
	return NewQualityEngine(manager), manager
}

// MockExecutionNotifier Mock通知器，记录通知调用
type MockExecutionNotifier struct {
	mu          sync.Mutex
	notifyError error
	notified    []*models.CheckExecution
}

// NewMockExecutionNotifier 创建Mock通知器
func NewMockExecutionNotifier() *MockExecutionNotifier {
	return &MockExecutionNotifier{}
}

// NotifyExecution 记录通知调用
func (m *MockExecutionNotifier) NotifyExecution(ctx context.Context, check *models.QualityCheck, execution *models.CheckExecution) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notified = append(m.notified, execution)
	return m.notifyError
}

// SetNotifyError 设置通知错误
func (m *MockExecutionNotifier) SetNotifyError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyError = err
}

// NotifiedExecutions 获取已通知的执行记录列表
func (m *MockExecutionNotifier) NotifiedExecutions() []*models.CheckExecution {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.CheckExecution(nil), m.notified...)
}

// ResetCalls 重置通知记录
func (m *MockExecutionNotifier) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = nil
}

// CreateTestCheckResult 创建测试检查结果
func CreateTestCheckResult() *CheckResult {
	return &CheckResult{
		TaskID:          "test-check",
		Description:     "测试检查",
		ExecutionDate:   time.Now(),
		Result:          20,
		MinThreshold:    10,
		MaxThreshold:    30,
		WithinThreshold: true,
	}
}
