/*
 * @module service/connection/mysql_test
 * @description MySQL连接单元测试，重点覆盖DSN构建和配置解析
 * @architecture 单元测试 - 不依赖真实数据库，测试配置解析逻辑
 * @documentReference ai_docs/connection_req.md
 * @stateFlow 测试流程：构造配置 -> 解析 -> 验证DSN和池参数
 * @rules 覆盖必填字段缺失和默认值场景
 * @dependencies testing, context
 * @refs mysql.go, base.go
 */

package connection

import (
	"context"
	"testing"

	"dataquality-service/service/meta"
	"dataquality-service/service/utils"
)

func newTestMySQLConnection() *MySQLConnection {
	return NewMySQLConnection().(*MySQLConnection)
}

func TestMySQLConnection_BuildDSN(t *testing.T) {
	tests := []struct {
		name        string
		config      map[string]interface{}
		expected    string
		expectError bool
	}{
		{
			name: "complete config",
			config: map[string]interface{}{
				meta.ConnectionFieldHost:     "localhost",
				meta.ConnectionFieldPort:     float64(3306),
				meta.ConnectionFieldDatabase: "warehouse",
				meta.ConnectionFieldUsername: "admin",
				meta.ConnectionFieldPassword: "secret",
			},
			expected: "admin:secret@tcp(localhost:3306)/warehouse?charset=utf8mb4&parseTime=true&timeout=30s",
		},
		{
			name: "default port when absent",
			config: map[string]interface{}{
				meta.ConnectionFieldHost:     "db.internal",
				meta.ConnectionFieldDatabase: "warehouse",
				meta.ConnectionFieldUsername: "admin",
				meta.ConnectionFieldPassword: "secret",
			},
			expected: "admin:secret@tcp(db.internal:3306)/warehouse?charset=utf8mb4&parseTime=true&timeout=30s",
		},
		{
			name: "custom charset",
			config: map[string]interface{}{
				meta.ConnectionFieldHost:     "localhost",
				meta.ConnectionFieldDatabase: "warehouse",
				meta.ConnectionFieldUsername: "admin",
				meta.ConnectionFieldPassword: "secret",
				meta.ConnectionFieldCharset:  "utf8",
			},
			expected: "admin:secret@tcp(localhost:3306)/warehouse?charset=utf8&parseTime=true&timeout=30s",
		},
		{
			name: "missing host",
			config: map[string]interface{}{
				meta.ConnectionFieldDatabase: "warehouse",
				meta.ConnectionFieldUsername: "admin",
				meta.ConnectionFieldPassword: "secret",
			},
			expectError: true,
		},
		{
			name: "missing database",
			config: map[string]interface{}{
				meta.ConnectionFieldHost:     "localhost",
				meta.ConnectionFieldUsername: "admin",
				meta.ConnectionFieldPassword: "secret",
			},
			expectError: true,
		},
		{
			name: "missing username",
			config: map[string]interface{}{
				meta.ConnectionFieldHost:     "localhost",
				meta.ConnectionFieldDatabase: "warehouse",
				meta.ConnectionFieldPassword: "secret",
			},
			expectError: true,
		},
		{
			name: "missing password",
			config: map[string]interface{}{
				meta.ConnectionFieldHost:     "localhost",
				meta.ConnectionFieldDatabase: "warehouse",
				meta.ConnectionFieldUsername: "admin",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMySQLConnection()
			dsn, err := m.buildDSN(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if dsn != tt.expected {
				t.Errorf("expected DSN %q, got %q", tt.expected, dsn)
			}
		})
	}
}

func TestMySQLConnection_BuildDSNDecryptsPassword(t *testing.T) {
	utils.SetSecretKey("dsn-test-key")
	defer utils.SetSecretKey("")

	encrypted, err := utils.EncryptSecret("secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := newTestMySQLConnection()
	dsn, err := m.buildDSN(map[string]interface{}{
		meta.ConnectionFieldHost:     "localhost",
		meta.ConnectionFieldDatabase: "warehouse",
		meta.ConnectionFieldUsername: "admin",
		meta.ConnectionFieldPassword: encrypted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "admin:secret@tcp(localhost:3306)/warehouse?charset=utf8mb4&parseTime=true&timeout=30s"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

func TestMySQLConnection_Init(t *testing.T) {
	ctx := context.Background()

	t.Run("valid config", func(t *testing.T) {
		m := newTestMySQLConnection()
		conn := CreateTestConnection(TestConnectionConfig{
			ID:   "mysql-conn",
			Type: meta.ConnectionTypeMySQL,
			Config: map[string]interface{}{
				meta.ConnectionFieldHost:     "localhost",
				meta.ConnectionFieldDatabase: "warehouse",
				meta.ConnectionFieldUsername: "admin",
				meta.ConnectionFieldPassword: "secret",
			},
		})

		if err := m.Init(ctx, conn); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if m.dsn == "" {
			t.Errorf("expected DSN to be built")
		}
	})

	t.Run("timeout from config applies to DSN", func(t *testing.T) {
		m := newTestMySQLConnection()
		conn := CreateTestConnection(TestConnectionConfig{
			ID:   "mysql-conn",
			Type: meta.ConnectionTypeMySQL,
			Config: map[string]interface{}{
				meta.ConnectionFieldHost:     "localhost",
				meta.ConnectionFieldDatabase: "warehouse",
				meta.ConnectionFieldUsername: "admin",
				meta.ConnectionFieldPassword: "secret",
				meta.ConnectionFieldTimeout:  float64(10),
			},
		})

		if err := m.Init(ctx, conn); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := "admin:secret@tcp(localhost:3306)/warehouse?charset=utf8mb4&parseTime=true&timeout=10s"
		if m.dsn != expected {
			t.Errorf("expected DSN %q, got %q", expected, m.dsn)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		m := newTestMySQLConnection()
		conn := CreateTestConnection(TestConnectionConfig{
			ID:     "mysql-conn",
			Type:   meta.ConnectionTypeMySQL,
			Config: map[string]interface{}{},
		})

		if err := m.Init(ctx, conn); err == nil {
			t.Errorf("expected error for empty config")
		}
	})
}

func TestMySQLConnection_ExecuteQueryNotStarted(t *testing.T) {
	m := newTestMySQLConnection()
	ctx := context.Background()

	conn := CreateTestConnection(TestConnectionConfig{
		ID:   "mysql-conn",
		Type: meta.ConnectionTypeMySQL,
		Config: map[string]interface{}{
			meta.ConnectionFieldHost:     "localhost",
			meta.ConnectionFieldDatabase: "warehouse",
			meta.ConnectionFieldUsername: "admin",
			meta.ConnectionFieldPassword: "secret",
		},
	})

	if err := m.Init(ctx, conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.ExecuteQuery(ctx, "SELECT 1"); err == nil {
		t.Errorf("expected error when executing query before start")
	}
}
