/*
 * @module service/connection/connection_service
 * @description 数据连接服务，负责连接的增删改查、配置校验、连通性测试和状态管理
 * @architecture 分层架构 - 服务层
 * @stateFlow 连接创建 -> 配置校验 -> 连通性测试 -> 检查/通知引用 -> 连接停用
 * @rules 连接创建和配置更新必须通过类型定义校验，敏感字段加密落库，被质量检查引用的连接不允许删除
 * @dependencies gorm.io/gorm
 * @refs registry.go, manager.go, service/models/connection.go, service/utils/crypto_utils.go
 */

package connection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dataquality-service/service/meta"
	"dataquality-service/service/models"
	"dataquality-service/service/utils"

	"gorm.io/gorm"
)

// ConnectionService 数据连接服务
type ConnectionService struct {
	db      *gorm.DB
	manager ConnectionManager
	types   *ConnectionTypeService
}

// NewConnectionService 创建数据连接服务实例
func NewConnectionService(db *gorm.DB) *ConnectionService {
	return &ConnectionService{
		db:      db,
		manager: GetManager(),
		types:   GetTypeService(),
	}
}

// CreateConnection 创建数据连接
func (s *ConnectionService) CreateConnection(conn *models.Connection) error {
	if conn.Name == "" {
		return errors.New("连接名称不能为空")
	}

	// 检查名称是否已存在
	var existing models.Connection
	if err := s.db.Where("name = ?", conn.Name).First(&existing).Error; err == nil {
		return fmt.Errorf("连接名称 %s 已存在", conn.Name)
	}

	if err := s.validateConfig(conn.Type, conn.Config); err != nil {
		return err
	}
	if err := encryptSecretFields(conn.Config); err != nil {
		return err
	}

	if conn.Status == "" {
		conn.Status = "active"
	}

	return s.db.Create(conn).Error
}

// GetConnections 获取数据连接列表
func (s *ConnectionService) GetConnections(page, pageSize int, connType, status string) ([]models.Connection, int64, error) {
	query := s.db.Model(&models.Connection{})

	if connType != "" {
		query = query.Where("type = ?", connType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var connections []models.Connection
	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&connections).Error; err != nil {
		return nil, 0, err
	}

	return connections, total, nil
}

// GetConnectionByID 根据ID获取数据连接
func (s *ConnectionService) GetConnectionByID(id string) (*models.Connection, error) {
	var conn models.Connection
	if err := s.db.First(&conn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetConnectionByName 根据名称获取数据连接
func (s *ConnectionService) GetConnectionByName(name string) (*models.Connection, error) {
	var conn models.Connection
	if err := s.db.First(&conn, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// UpdateConnection 更新数据连接
func (s *ConnectionService) UpdateConnection(id string, updates map[string]interface{}) error {
	var conn models.Connection
	if err := s.db.First(&conn, "id = ?", id).Error; err != nil {
		return err
	}

	delete(updates, "id")

	// 连接类型决定配置结构和查询能力，创建后不允许变更
	if newType, ok := updates["type"].(string); ok && newType != conn.Type {
		return errors.New("连接类型不允许修改")
	}
	delete(updates, "type")

	// 更新名称时检查重名
	if name, ok := updates["name"].(string); ok && name != conn.Name {
		var existing models.Connection
		if err := s.db.Where("name = ? AND id <> ?", name, id).First(&existing).Error; err == nil {
			return fmt.Errorf("连接名称 %s 已存在", name)
		}
	}

	// 更新配置时按连接类型重新校验
	if rawConfig, ok := updates["config"]; ok {
		config, err := toJSONB(rawConfig)
		if err != nil {
			return err
		}
		if err := s.validateConfig(conn.Type, config); err != nil {
			return err
		}
		if err := encryptSecretFields(config); err != nil {
			return err
		}
		updates["config"] = config
	}

	return s.db.Model(&conn).Updates(updates).Error
}

// DeleteConnection 删除数据连接，被质量检查引用的连接不允许删除
func (s *ConnectionService) DeleteConnection(id string) error {
	var conn models.Connection
	if err := s.db.First(&conn, "id = ?", id).Error; err != nil {
		return err
	}

	var refCount int64
	if err := s.db.Model(&models.QualityCheck{}).
		Where("connection_id = ? OR threshold_conn_id = ?", id, id).
		Count(&refCount).Error; err != nil {
		return err
	}
	if refCount > 0 {
		return fmt.Errorf("连接正在被 %d 个质量检查引用，无法删除", refCount)
	}

	return s.db.Delete(&conn).Error
}

// SetConnectionStatus 设置连接状态
func (s *ConnectionService) SetConnectionStatus(id string, status string) error {
	if status != "active" && status != "inactive" {
		return fmt.Errorf("无效的连接状态: %s", status)
	}

	var conn models.Connection
	if err := s.db.First(&conn, "id = ?", id).Error; err != nil {
		return err
	}

	return s.db.Model(&conn).Update("status", status).Error
}

// TestConnection 测试已保存连接的连通性
func (s *ConnectionService) TestConnection(ctx context.Context, id string) (*HealthStatus, error) {
	conn, err := s.GetConnectionByID(id)
	if err != nil {
		return nil, err
	}
	return s.manager.TestConnection(ctx, conn)
}

// TestConnectionConfig 测试未保存连接配置的连通性
func (s *ConnectionService) TestConnectionConfig(ctx context.Context, conn *models.Connection) (*HealthStatus, error) {
	if err := s.validateConfig(conn.Type, conn.Config); err != nil {
		return nil, err
	}
	return s.manager.TestConnection(ctx, conn)
}

// validateConfig 按类型定义校验连接配置
func (s *ConnectionService) validateConfig(connType string, config models.JSONB) error {
	if err := s.types.ValidateConnectionType(connType); err != nil {
		return err
	}

	result, err := s.types.ValidateConnectionConfig(connType, config)
	if err != nil {
		return err
	}
	if !result.IsValid {
		return fmt.Errorf("连接配置校验失败: %s", strings.Join(result.Errors, "; "))
	}

	return nil
}

// toJSONB 将更新请求中的配置值转换为JSONB
func toJSONB(raw interface{}) (models.JSONB, error) {
	switch v := raw.(type) {
	case models.JSONB:
		return v, nil
	case map[string]interface{}:
		return models.JSONB(v), nil
	default:
		return nil, errors.New("连接配置必须是JSON对象")
	}
}

// encryptSecretFields 加密配置中的敏感字段，未配置加密密钥时原样保留
func encryptSecretFields(config models.JSONB) error {
	for _, field := range []string{meta.ConnectionFieldPassword, meta.ConnectionFieldSecret} {
		value := config.GetString(field)
		if value == "" {
			continue
		}

		encrypted, err := utils.EncryptSecret(value)
		if err != nil {
			return fmt.Errorf("加密连接配置字段 %s 失败: %w", field, err)
		}
		config[field] = encrypted
	}
	return nil
}
