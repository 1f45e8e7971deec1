/*
 * @module service/connection/registry_test
 * @description 连接注册中心单元测试，验证内置类型注册和类型校验
 * @architecture 单元测试 - 验证注册中心与连接服务的行为
 * @documentReference ai_docs/connection_req.md
 * @stateFlow 测试流程：获取全局注册中心 -> 验证内置类型 -> 校验类型合法性
 * @rules 内置类型固定为具备SQL查询能力的关系型数据库
 * @dependencies testing
 * @refs registry.go, interface.go
 */

package connection

import (
	"testing"

	"dataquality-service/service/meta"
)

func TestConnectionRegistry_BuiltinTypes(t *testing.T) {
	registry := GetGlobalRegistry()

	types := registry.GetSupportedTypes()

	typeMap := make(map[string]bool)
	for _, ct := range types {
		typeMap[ct] = true
	}

	if !typeMap[meta.ConnectionTypePostgreSQL] {
		t.Errorf("expected postgresql to be registered")
	}
	if !typeMap[meta.ConnectionTypeMySQL] {
		t.Errorf("expected mysql to be registered")
	}

	// 消息类连接不具备SQL查询能力，不应注册到工厂
	if typeMap[meta.ConnectionTypeRedis] {
		t.Errorf("redis should not be registered as queryable connection")
	}
	if typeMap[meta.ConnectionTypeKafka] {
		t.Errorf("kafka should not be registered as queryable connection")
	}
}

func TestConnectionRegistry_CreateConnection(t *testing.T) {
	registry := GetGlobalRegistry()

	conn, err := registry.CreateConnection(meta.ConnectionTypePostgreSQL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conn.GetType() != meta.ConnectionTypePostgreSQL {
		t.Errorf("expected type %s, got %s", meta.ConnectionTypePostgreSQL, conn.GetType())
	}

	// SQL查询能力检查
	if _, ok := conn.(SQLQuerier); !ok {
		t.Errorf("expected postgresql connection to implement SQLQuerier")
	}

	if _, err := registry.CreateConnection("nonexistent"); err == nil {
		t.Errorf("expected error for nonexistent type")
	}
}

func TestConnectionTypeService_ValidateConnectionType(t *testing.T) {
	service := NewConnectionTypeService()

	tests := []struct {
		name        string
		connType    string
		expectError bool
	}{
		{name: "postgresql", connType: meta.ConnectionTypePostgreSQL, expectError: false},
		{name: "mysql", connType: meta.ConnectionTypeMySQL, expectError: false},
		{name: "redis", connType: meta.ConnectionTypeRedis, expectError: false},
		{name: "kafka", connType: meta.ConnectionTypeKafka, expectError: false},
		{name: "mqtt", connType: meta.ConnectionTypeMQTT, expectError: false},
		{name: "webhook", connType: meta.ConnectionTypeWebhook, expectError: false},
		{name: "unknown", connType: "oracle", expectError: true},
		{name: "empty", connType: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateConnectionType(tt.connType)

			if tt.expectError && err == nil {
				t.Errorf("expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConnectionTypeService_ValidateQueryableType(t *testing.T) {
	service := NewConnectionTypeService()

	tests := []struct {
		name        string
		connType    string
		expectError bool
	}{
		{name: "postgresql is queryable", connType: meta.ConnectionTypePostgreSQL, expectError: false},
		{name: "mysql is queryable", connType: meta.ConnectionTypeMySQL, expectError: false},
		{name: "redis is not queryable", connType: meta.ConnectionTypeRedis, expectError: true},
		{name: "kafka is not queryable", connType: meta.ConnectionTypeKafka, expectError: true},
		{name: "mqtt is not queryable", connType: meta.ConnectionTypeMQTT, expectError: true},
		{name: "webhook is not queryable", connType: meta.ConnectionTypeWebhook, expectError: true},
		{name: "unknown is not queryable", connType: "oracle", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateQueryableType(tt.connType)

			if tt.expectError && err == nil {
				t.Errorf("expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConnectionTypeService_GetConnectionTypeDefinition(t *testing.T) {
	service := NewConnectionTypeService()

	definition, err := service.GetConnectionTypeDefinition(meta.ConnectionTypePostgreSQL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !definition.ScalarQueryable {
		t.Errorf("expected postgresql definition to be scalar queryable")
	}

	if _, err := service.GetConnectionTypeDefinition("oracle"); err == nil {
		t.Errorf("expected error for unknown type")
	}
}

func TestConnectionTypeService_ValidateConnectionConfig(t *testing.T) {
	service := NewConnectionTypeService()

	t.Run("valid postgresql config", func(t *testing.T) {
		result, err := service.ValidateConnectionConfig(meta.ConnectionTypePostgreSQL, map[string]interface{}{
			meta.ConnectionFieldHost:     "localhost",
			meta.ConnectionFieldPort:     float64(5432),
			meta.ConnectionFieldDatabase: "warehouse",
			meta.ConnectionFieldUsername: "admin",
			meta.ConnectionFieldPassword: "secret",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.IsValid {
			t.Errorf("expected valid config, got errors: %v", result.Errors)
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		result, err := service.ValidateConnectionConfig(meta.ConnectionTypePostgreSQL, map[string]interface{}{
			meta.ConnectionFieldHost: "localhost",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.IsValid {
			t.Errorf("expected invalid config")
		}
		if len(result.Errors) == 0 {
			t.Errorf("expected validation errors")
		}
	})
}
