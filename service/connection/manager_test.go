/*
 * @module service/connection/manager_test
 * @description 连接管理器单元测试，覆盖获取、释放和连通性测试
 * @architecture 单元测试 - 使用Mock连接验证管理器行为
 * @documentReference ai_docs/connection_req.md
 * @stateFlow 测试流程：注册Mock类型 -> 获取连接 -> 验证状态 -> 释放
 * @rules 获取与释放成对验证，覆盖失败路径的资源清理
 * @dependencies testing, context, fmt
 * @refs manager.go, test_utils.go
 */

package connection

import (
	"context"
	"fmt"
	"testing"
)

func newTestManager(t *testing.T) (*DefaultConnectionManager, *DefaultConnectionFactory) {
	t.Helper()

	factory := NewDefaultConnectionFactory()
	if err := factory.RegisterType("mock", func() ConnectionInterface {
		return NewMockConnection("mock")
	}); err != nil {
		t.Fatalf("unexpected error registering mock type: %v", err)
	}

	return NewDefaultConnectionManager(factory), factory
}

func TestDefaultConnectionManager_Acquire(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	conn := CreateTestConnection(TestConnectionConfig{
		ID:   "conn-1",
		Type: "mock",
	})

	instance, err := manager.Acquire(ctx, conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if instance == nil {
		t.Fatalf("expected non-nil instance")
	}

	if !instance.IsStarted() {
		t.Errorf("expected acquired instance to be started")
	}

	active := manager.GetActiveStatus()
	if len(active) != 1 {
		t.Errorf("expected 1 active connection, got %d", len(active))
	}

	if err := manager.Release(ctx, instance); err != nil {
		t.Errorf("unexpected error releasing: %v", err)
	}

	if len(manager.GetActiveStatus()) != 0 {
		t.Errorf("expected no active connections after release")
	}
}

func TestDefaultConnectionManager_AcquireErrors(t *testing.T) {
	manager, factory := newTestManager(t)
	ctx := context.Background()

	// 注册启动必定失败的类型
	factory.RegisterType("failing", func() ConnectionInterface {
		m := NewMockConnection("failing")
		m.SetStartError(fmt.Errorf("dial failed"))
		return m
	})

	tests := []struct {
		name string
		conn *TestConnectionConfig
	}{
		{
			name: "nil connection",
			conn: nil,
		},
		{
			name: "unsupported type",
			conn: &TestConnectionConfig{ID: "conn-1", Type: "nonexistent"},
		},
		{
			name: "start failure",
			conn: &TestConnectionConfig{ID: "conn-1", Type: "failing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.conn == nil {
				_, err = manager.Acquire(ctx, nil)
			} else {
				_, err = manager.Acquire(ctx, CreateTestConnection(*tt.conn))
			}

			if err == nil {
				t.Errorf("expected error but got nil")
			}

			if len(manager.GetActiveStatus()) != 0 {
				t.Errorf("expected no active connections after failed acquire")
			}
		})
	}
}

func TestDefaultConnectionManager_ReleaseStopsInstance(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	conn := CreateTestConnection(TestConnectionConfig{ID: "conn-1", Type: "mock"})

	instance, err := manager.Acquire(ctx, conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock := instance.(*MockConnection)

	if err := manager.Release(ctx, instance); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !mock.WasStopCalled() {
		t.Errorf("expected stop to be called on release")
	}

	if mock.IsStarted() {
		t.Errorf("expected instance to be stopped after release")
	}
}

func TestDefaultConnectionManager_TestConnection(t *testing.T) {
	manager, factory := newTestManager(t)
	ctx := context.Background()

	t.Run("successful test", func(t *testing.T) {
		conn := CreateTestConnection(TestConnectionConfig{ID: "conn-1", Type: "mock"})

		status, err := manager.TestConnection(ctx, conn)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if status.Status != "online" {
			t.Errorf("expected status online, got %s", status.Status)
		}

		// 测试连接不应进入活跃列表
		if len(manager.GetActiveStatus()) != 0 {
			t.Errorf("expected no active connections after test")
		}
	})

	t.Run("start failure reports error status", func(t *testing.T) {
		factory.RegisterType("unreachable", func() ConnectionInterface {
			m := NewMockConnection("unreachable")
			m.SetStartError(fmt.Errorf("connection refused"))
			return m
		})

		conn := CreateTestConnection(TestConnectionConfig{ID: "conn-2", Type: "unreachable"})

		status, err := manager.TestConnection(ctx, conn)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if status.Status != "error" {
			t.Errorf("expected status error, got %s", status.Status)
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		conn := CreateTestConnection(TestConnectionConfig{ID: "conn-3", Type: "nonexistent"})

		if _, err := manager.TestConnection(ctx, conn); err == nil {
			t.Errorf("expected error for unsupported type")
		}
	})
}

func TestDefaultConnectionManager_GetStatistics(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	conn := CreateTestConnection(TestConnectionConfig{ID: "conn-1", Type: "mock"})

	instance, err := manager.Acquire(ctx, conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := manager.GetStatistics()
	if stats["active_count"] != 1 {
		t.Errorf("expected active_count 1, got %v", stats["active_count"])
	}
	if stats["acquired_total"] != int64(1) {
		t.Errorf("expected acquired_total 1, got %v", stats["acquired_total"])
	}

	manager.Release(ctx, instance)

	stats = manager.GetStatistics()
	if stats["active_count"] != 0 {
		t.Errorf("expected active_count 0, got %v", stats["active_count"])
	}
	if stats["released_total"] != int64(1) {
		t.Errorf("expected released_total 1, got %v", stats["released_total"])
	}
}
