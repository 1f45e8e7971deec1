/*
 * @module service/quality/engine_test
 * @description 质量检查引擎单元测试，覆盖标量取值、形状校验和阈值比较
 * @architecture 单元测试 - 使用Mock连接管理器隔离底层连接
 * @documentReference ai_docs/quality_check_req.md
 * @stateFlow 测试流程：准备Mock连接 -> 执行检查 -> 验证结果和错误类型 -> 验证连接释放
 * @rules 覆盖所有公共方法和错误场景，确保代码质量
 * @dependencies testing, context
 * @refs engine.go, errors.go, test_utils.go
 */

package quality

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"dataquality-service/service/connection"
	"dataquality-service/service/meta"
)

func newScalarConnection(value interface{}) *connection.MockConnection {
	mock := connection.NewMockConnection(meta.ConnectionTypePostgreSQL)
	mock.SetScalarResult("value", value)
	return mock
}

func newPostgreSQLModel(id string) *connection.TestConnectionConfig {
	return &connection.TestConnectionConfig{
		ID:   id,
		Type: meta.ConnectionTypePostgreSQL,
	}
}

func TestQualityEngine_GetSQLValue(t *testing.T) {
	ctx := context.Background()

	t.Run("successful scalar query", func(t *testing.T) {
		mock := newScalarConnection(int64(42))
		engine, manager := NewTestEngine(mock)
		conn := connection.CreateTestConnection(*newPostgreSQLModel("conn-1"))

		value, err := engine.GetSQLValue(ctx, conn, "SELECT COUNT(*) FROM costs")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if value != int64(42) {
			t.Errorf("expected value 42, got %v", value)
		}
		if manager.AcquireCount() != 1 {
			t.Errorf("expected 1 acquire, got %d", manager.AcquireCount())
		}
		if manager.ReleaseCount() != 1 {
			t.Errorf("expected 1 release, got %d", manager.ReleaseCount())
		}
	})

	t.Run("nil connection", func(t *testing.T) {
		engine, _ := NewTestEngine(newScalarConnection(int64(1)))

		_, err := engine.GetSQLValue(ctx, nil, "SELECT 1")
		if err == nil {
			t.Error("expected error for nil connection")
		}
	})

	t.Run("empty sql", func(t *testing.T) {
		engine, manager := NewTestEngine(newScalarConnection(int64(1)))
		conn := connection.CreateTestConnection(*newPostgreSQLModel("conn-1"))

		_, err := engine.GetSQLValue(ctx, conn, "")
		if err == nil {
			t.Error("expected error for empty sql")
		}
		if manager.AcquireCount() != 0 {
			t.Errorf("expected no acquire, got %d", manager.AcquireCount())
		}
	})

	t.Run("unsupported connection type rejected before acquire", func(t *testing.T) {
		engine, manager := NewTestEngine(newScalarConnection(int64(1)))
		conn := connection.CreateTestConnection(connection.TestConnectionConfig{
			ID:   "redis-conn",
			Type: meta.ConnectionTypeRedis,
		})

		_, err := engine.GetSQLValue(ctx, conn, "SELECT 1")
		if !IsUnsupportedConnectionType(err) {
			t.Errorf("expected unsupported connection type error, got %v", err)
		}
		if manager.AcquireCount() != 0 {
			t.Errorf("expected no acquire for unsupported type, got %d", manager.AcquireCount())
		}
	})

	t.Run("instance without query capability", func(t *testing.T) {
		// 基础连接未实现SQLQuerier，获取后仍需释放
		base := connection.NewBaseConnection(meta.ConnectionTypePostgreSQL)
		engine, manager := NewTestEngine(base)
		conn := connection.CreateTestConnection(*newPostgreSQLModel("conn-1"))

		_, err := engine.GetSQLValue(ctx, conn, "SELECT 1")
		if !IsUnsupportedConnectionType(err) {
			t.Errorf("expected unsupported connection type error, got %v", err)
		}
		if manager.ReleaseCount() != 1 {
			t.Errorf("expected 1 release, got %d", manager.ReleaseCount())
		}
	})

	t.Run("acquire failure", func(t *testing.T) {
		engine, manager := NewTestEngine(newScalarConnection(int64(1)))
		manager.SetAcquireError(fmt.Errorf("连接池耗尽"))
		conn := connection.CreateTestConnection(*newPostgreSQLModel("conn-1"))

		_, err := engine.GetSQLValue(ctx, conn, "SELECT 1")
		if err == nil {
			t.Error("expected error when acquire fails")
		}
		if manager.ReleaseCount() != 0 {
			t.Errorf("expected no release after failed acquire, got %d", manager.ReleaseCount())
		}
	})

	t.Run("query failure releases connection", func(t *testing.T) {
		mock := newScalarConnection(int64(1))
		mock.SetQueryError(fmt.Errorf("连接中断"))
		engine, manager := NewTestEngine(mock)
		conn := connection.CreateTestConnection(*newPostgreSQLModel("conn-1"))

		_, err := engine.GetSQLValue(ctx, conn, "SELECT 1")
		if err == nil {
			t.Error("expected error when query fails")
		}
		if manager.ReleaseCount() != 1 {
			t.Errorf("expected 1 release, got %d", manager.ReleaseCount())
		}
	})
}

func TestQualityEngine_GetSQLValue_ResultShape(t *testing.T) {
	tests := []struct {
		name          string
		result        *connection.QueryResult
		expectMessage string
	}{
		{
			name: "multiple rows",
			result: &connection.QueryResult{
				Columns: []string{"value"},
				Rows:    [][]interface{}{{int64(1)}, {int64(2)}},
			},
			expectMessage: "多于1行",
		},
		{
			name: "no rows",
			result: &connection.QueryResult{
				Columns: []string{"value"},
				Rows:    [][]interface{}{},
			},
			expectMessage: "未返回任何结果",
		},
		{
			name: "multiple columns",
			result: &connection.QueryResult{
				Columns: []string{"min_price", "max_price"},
				Rows:    [][]interface{}{{int64(1), int64(2)}},
			},
			expectMessage: "不是单列",
		},
		{
			name: "row count checked before column count",
			result: &connection.QueryResult{
				Columns: []string{"min_price", "max_price"},
				Rows:    [][]interface{}{{int64(1), int64(2)}, {int64(3), int64(4)}},
			},
			expectMessage: "多于1行",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := connection.NewMockConnection(meta.ConnectionTypePostgreSQL)
			mock.SetQueryResult(tt.result)
			engine, manager := NewTestEngine(mock)
			conn := connection.CreateTestConnection(*newPostgreSQLModel("conn-1"))

			_, err := engine.GetSQLValue(context.Background(), conn, "SELECT price FROM costs")
			if !IsInvalidResultShape(err) {
				t.Fatalf("expected invalid result shape error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.expectMessage) {
				t.Errorf("expected error message to contain %q, got %q", tt.expectMessage, err.Error())
			}
			if manager.ReleaseCount() != 1 {
				t.Errorf("expected 1 release, got %d", manager.ReleaseCount())
			}
		})
	}
}

func TestQualityEngine_RunThresholdCheck(t *testing.T) {
	tests := []struct {
		name         string
		value        interface{}
		minThreshold float64
		maxThreshold float64
		expectResult float64
		expectWithin bool
		expectError  bool
	}{
		{
			name:         "value within thresholds",
			value:        int64(20),
			minThreshold: 10,
			maxThreshold: 30,
			expectResult: 20,
			expectWithin: true,
			expectError:  false,
		},
		{
			name:         "value at min boundary",
			value:        int64(10),
			minThreshold: 10,
			maxThreshold: 30,
			expectResult: 10,
			expectWithin: true,
			expectError:  false,
		},
		{
			name:         "value at max boundary",
			value:        int64(30),
			minThreshold: 10,
			maxThreshold: 30,
			expectResult: 30,
			expectWithin: true,
			expectError:  false,
		},
		{
			name:         "value above max",
			value:        int64(35),
			minThreshold: 10,
			maxThreshold: 30,
			expectResult: 35,
			expectWithin: false,
			expectError:  true,
		},
		{
			name:         "value below min",
			value:        5.5,
			minThreshold: 10,
			maxThreshold: 30,
			expectResult: 5.5,
			expectWithin: false,
			expectError:  true,
		},
		{
			name:         "numeric string value",
			value:        "42.5",
			minThreshold: 40,
			maxThreshold: 50,
			expectResult: 42.5,
			expectWithin: true,
			expectError:  false,
		},
		{
			name:         "inverted thresholds always fail",
			value:        int64(20),
			minThreshold: 30,
			maxThreshold: 10,
			expectResult: 20,
			expectWithin: false,
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newScalarConnection(tt.value)
			engine, manager := NewTestEngine(mock)

			result, err := engine.RunThresholdCheck(context.Background(), &ThresholdCheckConfig{
				TaskID:       "cost-check",
				Description:  "成本表价格检查",
				SQL:          "SELECT AVG(price) FROM costs",
				MinThreshold: tt.minThreshold,
				MaxThreshold: tt.maxThreshold,
				Connection:   connection.CreateTestConnection(*newPostgreSQLModel("conn-1")),
			})

			if tt.expectError {
				if !IsThresholdViolation(err) {
					t.Fatalf("expected threshold violation error, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// 越界时结果信息仍然返回，用于记录和通知
			if result == nil {
				t.Fatal("expected result to be returned")
			}
			if result.Result != tt.expectResult {
				t.Errorf("expected result %v, got %v", tt.expectResult, result.Result)
			}
			if result.WithinThreshold != tt.expectWithin {
				t.Errorf("expected within_threshold %v, got %v", tt.expectWithin, result.WithinThreshold)
			}
			if result.MinThreshold != tt.minThreshold {
				t.Errorf("expected min_threshold %v, got %v", tt.minThreshold, result.MinThreshold)
			}
			if result.MaxThreshold != tt.maxThreshold {
				t.Errorf("expected max_threshold %v, got %v", tt.maxThreshold, result.MaxThreshold)
			}
			if result.TaskID != "cost-check" {
				t.Errorf("expected task_id cost-check, got %s", result.TaskID)
			}
			if result.ExecutionDate.IsZero() {
				t.Error("expected execution_date to be set")
			}
			if manager.ReleaseCount() != 1 {
				t.Errorf("expected 1 release, got %d", manager.ReleaseCount())
			}
		})
	}
}

func TestQualityEngine_RunThresholdCheck_ViolationDetails(t *testing.T) {
	mock := newScalarConnection(int64(35))
	engine, _ := NewTestEngine(mock)

	result, err := engine.RunThresholdCheck(context.Background(), &ThresholdCheckConfig{
		TaskID:       "cost-check",
		SQL:          "SELECT COUNT(*) FROM costs",
		MinThreshold: 10,
		MaxThreshold: 30,
		Connection:   connection.CreateTestConnection(*newPostgreSQLModel("conn-1")),
	})

	if result == nil || result.WithinThreshold {
		t.Fatal("expected out-of-threshold result")
	}

	checkErr, ok := AsCheckError(err)
	if !ok {
		t.Fatalf("expected CheckError, got %v", err)
	}
	if checkErr.Type != ErrorTypeThresholdViolation {
		t.Errorf("expected error type %s, got %s", ErrorTypeThresholdViolation, checkErr.Type)
	}
	if checkErr.Value == nil || *checkErr.Value != 35 {
		t.Errorf("expected error value 35, got %v", checkErr.Value)
	}
	if checkErr.MinThreshold == nil || *checkErr.MinThreshold != 10 {
		t.Errorf("expected error min threshold 10, got %v", checkErr.MinThreshold)
	}
	if checkErr.MaxThreshold == nil || *checkErr.MaxThreshold != 30 {
		t.Errorf("expected error max threshold 30, got %v", checkErr.MaxThreshold)
	}
}

func TestQualityEngine_RunThresholdCheck_NonNumericValue(t *testing.T) {
	mock := newScalarConnection("not-a-number")
	engine, manager := NewTestEngine(mock)

	result, err := engine.RunThresholdCheck(context.Background(), &ThresholdCheckConfig{
		TaskID:       "cost-check",
		SQL:          "SELECT description FROM costs LIMIT 1",
		MinThreshold: 10,
		MaxThreshold: 30,
		Connection:   connection.CreateTestConnection(*newPostgreSQLModel("conn-1")),
	})

	if !IsInvalidResultShape(err) {
		t.Fatalf("expected invalid result shape error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	if manager.ReleaseCount() != 1 {
		t.Errorf("expected 1 release, got %d", manager.ReleaseCount())
	}
}

func TestQualityEngine_RunThresholdCheck_NilConfig(t *testing.T) {
	engine, _ := NewTestEngine(newScalarConnection(int64(1)))

	if _, err := engine.RunThresholdCheck(context.Background(), nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := engine.RunThresholdSQLCheck(context.Background(), nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestQualityEngine_RunThresholdSQLCheck(t *testing.T) {
	minSQL := "SELECT MIN(price) FROM costs"
	maxSQL := "SELECT MAX(price) FROM costs"
	valueSQL := "SELECT AVG(price) FROM costs"

	t.Run("value within sql thresholds", func(t *testing.T) {
		mock := connection.NewMockConnection(meta.ConnectionTypePostgreSQL)
		mock.SetScalarResultFor(minSQL, int64(10))
		mock.SetScalarResultFor(maxSQL, int64(30))
		mock.SetScalarResultFor(valueSQL, int64(20))
		engine, manager := NewTestEngine(mock)

		result, err := engine.RunThresholdSQLCheck(context.Background(), &ThresholdSQLCheckConfig{
			TaskID:          "cost-check",
			Description:     "成本表价格区间检查",
			SQL:             valueSQL,
			MinThresholdSQL: minSQL,
			MaxThresholdSQL: maxSQL,
			Connection:      connection.CreateTestConnection(*newPostgreSQLModel("conn-1")),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.WithinThreshold {
			t.Error("expected result within thresholds")
		}
		if result.Result != 20 || result.MinThreshold != 10 || result.MaxThreshold != 30 {
			t.Errorf("unexpected result values: %+v", result)
		}

		// 阈值SQL在前，取值SQL在后
		queries := mock.ExecutedQueries()
		if len(queries) != 3 {
			t.Fatalf("expected 3 queries, got %d", len(queries))
		}
		if queries[0] != minSQL || queries[1] != maxSQL || queries[2] != valueSQL {
			t.Errorf("unexpected query order: %v", queries)
		}
		if manager.AcquireCount() != 3 {
			t.Errorf("expected 3 acquires, got %d", manager.AcquireCount())
		}
		if manager.ReleaseCount() != 3 {
			t.Errorf("expected 3 releases, got %d", manager.ReleaseCount())
		}
	})

	t.Run("value outside sql thresholds", func(t *testing.T) {
		mock := connection.NewMockConnection(meta.ConnectionTypePostgreSQL)
		mock.SetScalarResultFor(minSQL, int64(10))
		mock.SetScalarResultFor(maxSQL, int64(30))
		mock.SetScalarResultFor(valueSQL, int64(5))
		engine, _ := NewTestEngine(mock)

		result, err := engine.RunThresholdSQLCheck(context.Background(), &ThresholdSQLCheckConfig{
			TaskID:          "cost-check",
			SQL:             valueSQL,
			MinThresholdSQL: minSQL,
			MaxThresholdSQL: maxSQL,
			Connection:      connection.CreateTestConnection(*newPostgreSQLModel("conn-1")),
		})
		if !IsThresholdViolation(err) {
			t.Fatalf("expected threshold violation error, got %v", err)
		}
		if result == nil || result.WithinThreshold {
			t.Fatal("expected out-of-threshold result")
		}
		if result.Result != 5 || result.MinThreshold != 10 || result.MaxThreshold != 30 {
			t.Errorf("unexpected result values: %+v", result)
		}
	})

	t.Run("separate threshold connection", func(t *testing.T) {
		valueMock := connection.NewMockConnection(meta.ConnectionTypePostgreSQL)
		valueMock.SetScalarResultFor(valueSQL, int64(20))
		thresholdMock := connection.NewMockConnection(meta.ConnectionTypeMySQL)
		thresholdMock.SetScalarResultFor(minSQL, int64(10))
		thresholdMock.SetScalarResultFor(maxSQL, int64(30))

		manager := NewMockConnectionManager(valueMock)
		manager.SetInstanceFor("threshold-conn", thresholdMock)
		engine := NewQualityEngine(manager)

		result, err := engine.RunThresholdSQLCheck(context.Background(), &ThresholdSQLCheckConfig{
			TaskID:          "cost-check",
			SQL:             valueSQL,
			MinThresholdSQL: minSQL,
			MaxThresholdSQL: maxSQL,
			Connection:      connection.CreateTestConnection(*newPostgreSQLModel("value-conn")),
			ThresholdConnection: connection.CreateTestConnection(connection.TestConnectionConfig{
				ID:   "threshold-conn",
				Type: meta.ConnectionTypeMySQL,
			}),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.WithinThreshold {
			t.Error("expected result within thresholds")
		}

		// 阈值SQL走阈值连接，取值SQL走取值连接
		thresholdQueries := thresholdMock.ExecutedQueries()
		if len(thresholdQueries) != 2 || thresholdQueries[0] != minSQL || thresholdQueries[1] != maxSQL {
			t.Errorf("unexpected threshold queries: %v", thresholdQueries)
		}
		valueQueries := valueMock.ExecutedQueries()
		if len(valueQueries) != 1 || valueQueries[0] != valueSQL {
			t.Errorf("unexpected value queries: %v", valueQueries)
		}
	})

	t.Run("threshold connection defaults to value connection", func(t *testing.T) {
		mock := connection.NewMockConnection(meta.ConnectionTypePostgreSQL)
		mock.SetScalarResultFor(minSQL, int64(10))
		mock.SetScalarResultFor(maxSQL, int64(30))
		mock.SetScalarResultFor(valueSQL, int64(20))
		engine, _ := NewTestEngine(mock)

		_, err := engine.RunThresholdSQLCheck(context.Background(), &ThresholdSQLCheckConfig{
			TaskID:              "cost-check",
			SQL:                 valueSQL,
			MinThresholdSQL:     minSQL,
			MaxThresholdSQL:     maxSQL,
			Connection:          connection.CreateTestConnection(*newPostgreSQLModel("conn-1")),
			ThresholdConnection: nil,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(mock.ExecutedQueries()) != 3 {
			t.Errorf("expected all queries on value connection, got %v", mock.ExecutedQueries())
		}
	})

	t.Run("missing threshold sql", func(t *testing.T) {
		engine, _ := NewTestEngine(connection.NewMockConnection(meta.ConnectionTypePostgreSQL))

		_, err := engine.RunThresholdSQLCheck(context.Background(), &ThresholdSQLCheckConfig{
			TaskID:          "cost-check",
			SQL:             valueSQL,
			MaxThresholdSQL: maxSQL,
			Connection:      connection.CreateTestConnection(*newPostgreSQLModel("conn-1")),
		})
		if err == nil || !strings.Contains(err.Error(), "下阈值SQL") {
			t.Errorf("expected min threshold sql error, got %v", err)
		}

		_, err = engine.RunThresholdSQLCheck(context.Background(), &ThresholdSQLCheckConfig{
			TaskID:          "cost-check",
			SQL:             valueSQL,
			MinThresholdSQL: minSQL,
			Connection:      connection.CreateTestConnection(*newPostgreSQLModel("conn-1")),
		})
		if err == nil || !strings.Contains(err.Error(), "上阈值SQL") {
			t.Errorf("expected max threshold sql error, got %v", err)
		}
	})

	t.Run("non numeric threshold value", func(t *testing.T) {
		mock := connection.NewMockConnection(meta.ConnectionTypePostgreSQL)
		mock.SetScalarResultFor(minSQL, "low")
		engine, _ := NewTestEngine(mock)

		_, err := engine.RunThresholdSQLCheck(context.Background(), &ThresholdSQLCheckConfig{
			TaskID:          "cost-check",
			SQL:             valueSQL,
			MinThresholdSQL: minSQL,
			MaxThresholdSQL: maxSQL,
			Connection:      connection.CreateTestConnection(*newPostgreSQLModel("conn-1")),
		})
		if !IsInvalidResultShape(err) {
			t.Errorf("expected invalid result shape error, got %v", err)
		}
	})
}

func BenchmarkQualityEngine_RunThresholdCheck(b *testing.B) {
	mock := newScalarConnection(int64(20))
	engine, _ := NewTestEngine(mock)
	config := &ThresholdCheckConfig{
		TaskID:       "bench-check",
		SQL:          "SELECT COUNT(*) FROM costs",
		MinThreshold: 0,
		MaxThreshold: 100,
		Connection:   connection.CreateTestConnection(*newPostgreSQLModel("conn-1")),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.RunThresholdCheck(context.Background(), config); err != nil {
			b.Fatalf("check failed: %v", err)
		}
	}
}
