/*
 * @module service/connection/registry
 * @description 连接注册中心，负责连接类型的注册和全局管理
 * @architecture 注册中心模式 + 单例模式 - 统一管理所有连接类型
 * @documentReference ai_docs/connection_req.md
 * @stateFlow 注册中心生命周期：初始化 -> 注册内置类型 -> 提供工厂服务 -> 管理实例
 * @rules 提供全局唯一的连接工厂和管理器实例，仅注册具备SQL查询能力的类型
 * @dependencies sync, log, sort
 * @refs interface.go, base.go, manager.go, postgresql.go, mysql.go
 */

package connection

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"dataquality-service/service/meta"
)

// ConnectionRegistry 连接注册中心
type ConnectionRegistry struct {
	mu      sync.RWMutex
	factory ConnectionFactory
	manager ConnectionManager
	logger  *log.Logger
}

// 全局注册中心实例
var (
	globalRegistry *ConnectionRegistry
	registryOnce   sync.Once
)

// GetGlobalRegistry 获取全局连接注册中心实例
func GetGlobalRegistry() *ConnectionRegistry {
	registryOnce.Do(func() {
		globalRegistry = NewConnectionRegistry()
	})
	return globalRegistry
}

// NewConnectionRegistry 创建连接注册中心
func NewConnectionRegistry() *ConnectionRegistry {
	factory := NewDefaultConnectionFactory()
	manager := NewDefaultConnectionManager(factory)

	registry := &ConnectionRegistry{
		factory: factory,
		manager: manager,
		logger:  log.Default(),
	}

	// 注册内置连接类型
	registry.registerBuiltinTypes()

	return registry
}

// GetFactory 获取连接工厂
func (r *ConnectionRegistry) GetFactory() ConnectionFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factory
}

// GetManager 获取连接管理器
func (r *ConnectionRegistry) GetManager() ConnectionManager {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.manager
}

// RegisterType 注册连接类型
func (r *ConnectionRegistry) RegisterType(connType string, creator ConnectionCreator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.factory.RegisterType(connType, creator); err != nil {
		return fmt.Errorf("注册连接类型失败: %v", err)
	}

	r.logger.Printf("连接类型 %s 注册成功", connType)
	return nil
}

// GetSupportedTypes 获取支持的连接类型
func (r *ConnectionRegistry) GetSupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := r.factory.GetSupportedTypes()
	sort.Strings(types)
	return types
}

// CreateConnection 创建连接实例
func (r *ConnectionRegistry) CreateConnection(connType string) (ConnectionInterface, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factory.Create(connType)
}

// registerBuiltinTypes 注册内置连接类型
func (r *ConnectionRegistry) registerBuiltinTypes() {
	// 注册PostgreSQL连接
	if err := r.factory.RegisterType(meta.ConnectionTypePostgreSQL, NewPostgreSQLConnection); err != nil {
		r.logger.Printf("注册PostgreSQL连接失败: %v", err)
	}

	// 注册MySQL连接
	if err := r.factory.RegisterType(meta.ConnectionTypeMySQL, NewMySQLConnection); err != nil {
		r.logger.Printf("注册MySQL连接失败: %v", err)
	}

	r.logger.Printf("内置连接类型注册完成，支持类型: %v", r.GetSupportedTypes())
}

// ConnectionTypeService 连接类型服务，提供类型定义的查询与校验
type ConnectionTypeService struct {
	registry *ConnectionRegistry
}

// NewConnectionTypeService 创建连接类型服务
func NewConnectionTypeService() *ConnectionTypeService {
	return &ConnectionTypeService{
		registry: GetGlobalRegistry(),
	}
}

// GetSupportedTypes 获取具备SQL查询能力的连接类型
func (s *ConnectionTypeService) GetSupportedTypes() []string {
	return s.registry.GetSupportedTypes()
}

// ValidateConnectionType 验证连接类型是否在类型定义集合内
func (s *ConnectionTypeService) ValidateConnectionType(connType string) error {
	if _, exists := meta.ConnectionTypes[connType]; exists {
		return nil
	}

	supported := make([]string, 0, len(meta.ConnectionTypes))
	for id := range meta.ConnectionTypes {
		supported = append(supported, id)
	}
	sort.Strings(supported)

	return fmt.Errorf("不支持的连接类型: %s，支持的类型: %v", connType, supported)
}

// ValidateQueryableType 验证连接类型是否具备SQL查询能力
func (s *ConnectionTypeService) ValidateQueryableType(connType string) error {
	if meta.IsScalarQueryable(connType) {
		return nil
	}
	return fmt.Errorf("连接类型 %s 不支持标量SQL查询，支持的类型: %v", connType, s.registry.GetSupportedTypes())
}

// GetConnectionTypeDefinition 获取连接类型定义
func (s *ConnectionTypeService) GetConnectionTypeDefinition(connType string) (*meta.ConnectionTypeDefinition, error) {
	if err := s.ValidateConnectionType(connType); err != nil {
		return nil, err
	}

	if definition, exists := meta.ConnectionTypes[connType]; exists {
		return definition, nil
	}

	return nil, fmt.Errorf("连接类型定义不存在: %s", connType)
}

// ValidateConnectionConfig 验证连接配置
func (s *ConnectionTypeService) ValidateConnectionConfig(connType string, config map[string]interface{}) (*meta.ValidationResult, error) {
	definition, err := s.GetConnectionTypeDefinition(connType)
	if err != nil {
		return nil, err
	}

	return definition.ValidateConfig(config), nil
}

// GetConnectionExamples 获取连接示例配置
func (s *ConnectionTypeService) GetConnectionExamples(connType string) ([]meta.ConnectionExample, error) {
	definition, err := s.GetConnectionTypeDefinition(connType)
	if err != nil {
		return nil, err
	}

	return definition.Examples, nil
}

// GetRegistry 获取注册中心实例（便捷方法）
func GetRegistry() *ConnectionRegistry {
	return GetGlobalRegistry()
}

// GetFactory 获取全局连接工厂（便捷方法）
func GetFactory() ConnectionFactory {
	return GetGlobalRegistry().GetFactory()
}

// GetManager 获取全局连接管理器（便捷方法）
func GetManager() ConnectionManager {
	return GetGlobalRegistry().GetManager()
}

// GetTypeService 获取连接类型服务（便捷方法）
func GetTypeService() *ConnectionTypeService {
	return NewConnectionTypeService()
}

// RegisterConnectionType 注册连接类型（便捷方法）
func RegisterConnectionType(connType string, creator ConnectionCreator) error {
	return GetGlobalRegistry().RegisterType(connType, creator)
}

// CreateConnection 创建连接实例（便捷方法）
func CreateConnection(connType string) (ConnectionInterface, error) {
	return GetGlobalRegistry().CreateConnection(connType)
}

// GetSupportedConnectionTypes 获取支持的连接类型（便捷方法）
func GetSupportedConnectionTypes() []string {
	return GetGlobalRegistry().GetSupportedTypes()
}
