/*
 * @module service/connection/test_utils
 * @description 连接测试工具，提供测试辅助函数和Mock实现
 * @architecture 测试辅助模式 - 提供通用的测试工具和Mock对象
 * @documentReference ai_docs/connection_req.md
 * @stateFlow 测试工具生命周期：创建Mock -> 设置期望 -> 执行测试 -> 验证结果
 * @rules 仅用于测试环境，提供连接的Mock实现和测试辅助函数
 * @dependencies context, sync, time
 * @refs interface.go, base.go
 */

package connection

import (
	"context"
	"sync"
	"time"

	"dataquality-service/service/models"
)

// MockConnection Mock连接实现，用于测试
type MockConnection struct {
	*BaseConnection
	initCalled        bool
	startCalled       bool
	stopCalled        bool
	queryCalled       bool
	healthCheckCalled bool

	initError        error
	startError       error
	stopError        error
	queryError       error
	healthCheckError error

	queryResult  *QueryResult
	resultsBySQL map[string]*QueryResult
	healthStatus *HealthStatus
	queries      []string

	mu sync.RWMutex
}

// NewMockConnection 创建Mock连接
func NewMockConnection(connType string) *MockConnection {
	return &MockConnection{
		BaseConnection: NewBaseConnection(connType),
		queryResult: &QueryResult{
			Columns:   []string{"value"},
			Rows:      [][]interface{}{{int64(1)}},
			Duration:  10 * time.Millisecond,
			Timestamp: time.Now(),
		},
		healthStatus: &HealthStatus{
			Status:       "online",
			Message:      "mock healthy",
			LastCheck:    time.Now(),
			ResponseTime: 10 * time.Millisecond,
			Details:      make(map[string]interface{}),
		},
	}
}

// Init Mock初始化
func (m *MockConnection) Init(ctx context.Context, conn *models.Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.initCalled = true
	if m.initError != nil {
		return m.initError
	}

	return m.BaseConnection.Init(ctx, conn)
}

// Start Mock启动
func (m *MockConnection) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.startCalled = true
	if m.startError != nil {
		return m.startError
	}

	return m.BaseConnection.Start(ctx)
}

// Stop Mock停止
func (m *MockConnection) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopCalled = true
	if m.stopError != nil {
		return m.stopError
	}

	return m.BaseConnection.Stop(ctx)
}

// ExecuteQuery Mock查询执行，记录执行过的SQL
func (m *MockConnection) ExecuteQuery(ctx context.Context, query string) (*QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queryCalled = true
	m.queries = append(m.queries, query)

	if m.queryError != nil {
		return nil, m.queryError
	}

	// 优先返回按SQL语句预设的结果
	source := m.queryResult
	if preset, exists := m.resultsBySQL[query]; exists {
		source = preset
	}

	// 复制结果以避免并发问题
	result := &QueryResult{
		Columns:   append([]string(nil), source.Columns...),
		Rows:      make([][]interface{}, 0, len(source.Rows)),
		Duration:  source.Duration,
		Timestamp: time.Now(),
	}
	for _, row := range source.Rows {
		result.Rows = append(result.Rows, append([]interface{}(nil), row...))
	}

	return result, nil
}

// HealthCheck Mock健康检查
func (m *MockConnection) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.healthCheckCalled = true
	if m.healthCheckError != nil {
		return nil, m.healthCheckError
	}

	status := &HealthStatus{
		Status:       m.healthStatus.Status,
		Message:      m.healthStatus.Message,
		LastCheck:    time.Now(),
		ResponseTime: m.healthStatus.ResponseTime,
		Details:      make(map[string]interface{}),
	}
	for k, v := range m.healthStatus.Details {
		status.Details[k] = v
	}

	return status, nil
}

// 设置Mock行为的方法

// SetInitError 设置初始化错误
func (m *MockConnection) SetInitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initError = err
}

// SetStartError 设置启动错误
func (m *MockConnection) SetStartError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startError = err
}

// SetStopError 设置停止错误
func (m *MockConnection) SetStopError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopError = err
}

// SetQueryError 设置查询错误
func (m *MockConnection) SetQueryError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryError = err
}

// SetHealthCheckError 设置健康检查错误
func (m *MockConnection) SetHealthCheckError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthCheckError = err
}

// SetQueryResult 设置查询结果
func (m *MockConnection) SetQueryResult(result *QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryResult = result
}

// SetScalarResult 设置单行单列的标量查询结果
func (m *MockConnection) SetScalarResult(column string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryResult = &QueryResult{
		Columns:   []string{column},
		Rows:      [][]interface{}{{value}},
		Timestamp: time.Now(),
	}
}

// SetScalarResultFor 为指定SQL语句设置单行单列的标量查询结果
func (m *MockConnection) SetScalarResultFor(query string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resultsBySQL == nil {
		m.resultsBySQL = make(map[string]*QueryResult)
	}
	m.resultsBySQL[query] = &QueryResult{
		Columns:   []string{"value"},
		Rows:      [][]interface{}{{value}},
		Timestamp: time.Now(),
	}
}

// SetHealthStatus 设置健康状态
func (m *MockConnection) SetHealthStatus(status *HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// 验证Mock调用的方法

// WasInitCalled 检查是否调用了Init
func (m *MockConnection) WasInitCalled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initCalled
}

// WasStartCalled 检查是否调用了Start
func (m *MockConnection) WasStartCalled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startCalled
}

// WasStopCalled 检查是否调用了Stop
func (m *MockConnection) WasStopCalled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stopCalled
}

// WasQueryCalled 检查是否调用了ExecuteQuery
func (m *MockConnection) WasQueryCalled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queryCalled
}

// WasHealthCheckCalled 检查是否调用了HealthCheck
func (m *MockConnection) WasHealthCheckCalled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthCheckCalled
}

// ExecutedQueries 获取执行过的SQL列表
func (m *MockConnection) ExecutedQueries() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.queries...)
}

// ResetCalls 重置所有调用标记
func (m *MockConnection) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.initCalled = false
	m.startCalled = false
	m.stopCalled = false
	m.queryCalled = false
	m.healthCheckCalled = false
	m.queries = nil
}

// TestConnectionConfig 测试连接配置
type TestConnectionConfig struct {
	ID     string
	Name   string
	Type   string
	Config map[string]interface{}
}

// CreateTestConnection 创建测试连接模型
func CreateTestConnection(config TestConnectionConfig) *models.Connection {
	conn := &models.Connection{
		ID:        config.ID,
		Name:      config.Name,
		Type:      config.Type,
		Config:    models.JSONB(config.Config),
		Status:    "active",
		CreatedAt: time.Now(),
		CreatedBy: "test",
		UpdatedAt: time.Now(),
		UpdatedBy: "test",
	}

	// 设置默认值
	if conn.ID == "" {
		conn.ID = "test-connection-id"
	}
	if conn.Name == "" {
		conn.Name = "Test Connection"
	}
	if conn.Type == "" {
		conn.Type = "mock"
	}
	if conn.Config == nil {
		conn.Config = make(models.JSONB)
	}

	return conn
}
