/*
 * @module service/quality/check_service_test
 * @description 质量检查任务服务单元测试，覆盖任务管理、执行编排和统计
 * @architecture 单元测试 - 使用内存SQLite数据库和Mock连接
 * @documentReference ai_docs/quality_check_req.md
 * @stateFlow 测试流程：准备数据库和Mock -> 调用服务 -> 验证落库结果和通知
 * @rules 覆盖所有公共方法和错误场景，确保代码质量
 * @dependencies testing, testify, testutil
 * @refs check_service.go, engine.go, test_utils.go
 */

package quality

import (
	"context"
	"testing"
	"time"

	"dataquality-service/service/connection"
	"dataquality-service/service/meta"
	"dataquality-service/service/models"
	"dataquality-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type checkServiceTestEnv struct {
	service  *CheckService
	db       *testutil.TestDB
	factory  *testutil.TestDataFactory
	mock     *connection.MockConnection
	notifier *MockExecutionNotifier
}

func newCheckServiceTestEnv(t *testing.T) *checkServiceTestEnv {
	t.Helper()

	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	mock := connection.NewMockConnection(meta.ConnectionTypePostgreSQL)
	notifier := NewMockExecutionNotifier()
	engine := NewQualityEngine(NewMockConnectionManager(mock))
	service := NewCheckService(tdb.DB, engine, NewPredicateExecutor(), notifier)

	return &checkServiceTestEnv{
		service:  service,
		db:       tdb,
		factory:  testutil.NewTestDataFactory(tdb.DB),
		mock:     mock,
		notifier: notifier,
	}
}

func TestCheckService_CreateCheck(t *testing.T) {
	env := newCheckServiceTestEnv(t)
	conn := env.factory.CreateConnection()

	t.Run("valid threshold check", func(t *testing.T) {
		minThreshold := 10.0
		maxThreshold := 30.0
		check := &models.QualityCheck{
			Name:         "cost_row_count",
			ConnectionID: conn.ID,
			SQL:          "SELECT COUNT(*) FROM costs",
			Mode:         string(models.CheckModeThreshold),
			MinThreshold: &minThreshold,
			MaxThreshold: &maxThreshold,
			ScheduleType: string(models.ScheduleTypeManual),
			IsEnabled:    true,
		}

		require.NoError(t, env.service.CreateCheck(check))
		assert.NotEmpty(t, check.ID)
		assert.Nil(t, check.NextExecution)

		saved, err := env.service.GetCheckByID(check.ID)
		require.NoError(t, err)
		assert.Equal(t, "cost_row_count", saved.Name)
		require.NotNil(t, saved.Connection)
		assert.Equal(t, conn.ID, saved.Connection.ID)
	})

	t.Run("valid threshold sql check", func(t *testing.T) {
		check := &models.QualityCheck{
			Name:            "cost_price_range",
			ConnectionID:    conn.ID,
			SQL:             "SELECT AVG(price) FROM costs",
			Mode:            string(models.CheckModeThresholdSQL),
			MinThresholdSQL: "SELECT MIN(price) FROM costs",
			MaxThresholdSQL: "SELECT MAX(price) FROM costs",
			IsEnabled:       true,
		}

		require.NoError(t, env.service.CreateCheck(check))
	})

	t.Run("inverted thresholds are not rejected", func(t *testing.T) {
		minThreshold := 30.0
		maxThreshold := 10.0
		check := &models.QualityCheck{
			Name:         "inverted_thresholds",
			ConnectionID: conn.ID,
			SQL:          "SELECT COUNT(*) FROM costs",
			Mode:         string(models.CheckModeThreshold),
			MinThreshold: &minThreshold,
			MaxThreshold: &maxThreshold,
		}

		require.NoError(t, env.service.CreateCheck(check))
	})

	t.Run("cron schedule computes next execution", func(t *testing.T) {
		minThreshold := 10.0
		maxThreshold := 30.0
		check := &models.QualityCheck{
			Name:           "daily_cost_check",
			ConnectionID:   conn.ID,
			SQL:            "SELECT COUNT(*) FROM costs",
			Mode:           string(models.CheckModeThreshold),
			MinThreshold:   &minThreshold,
			MaxThreshold:   &maxThreshold,
			ScheduleType:   string(models.ScheduleTypeCron),
			CronExpression: "0 2 * * *",
		}

		require.NoError(t, env.service.CreateCheck(check))
		assert.NotNil(t, check.NextExecution)
	})

	t.Run("interval schedule computes next execution", func(t *testing.T) {
		minThreshold := 10.0
		maxThreshold := 30.0
		check := &models.QualityCheck{
			Name:            "interval_cost_check",
			ConnectionID:    conn.ID,
			SQL:             "SELECT COUNT(*) FROM costs",
			Mode:            string(models.CheckModeThreshold),
			MinThreshold:    &minThreshold,
			MaxThreshold:    &maxThreshold,
			ScheduleType:    string(models.ScheduleTypeInterval),
			IntervalSeconds: 600,
		}

		require.NoError(t, env.service.CreateCheck(check))
		require.NotNil(t, check.NextExecution)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), *check.NextExecution, time.Minute)
	})

	t.Run("unsupported connection type", func(t *testing.T) {
		redisConn := env.factory.CreateConnection(func(c *models.Connection) {
			c.Type = meta.ConnectionTypeRedis
			c.Config = models.JSONB{"addr": "localhost:6379"}
		})

		minThreshold := 10.0
		maxThreshold := 30.0
		check := &models.QualityCheck{
			Name:         "redis_check",
			ConnectionID: redisConn.ID,
			SQL:          "SELECT COUNT(*) FROM costs",
			Mode:         string(models.CheckModeThreshold),
			MinThreshold: &minThreshold,
			MaxThreshold: &maxThreshold,
		}

		err := env.service.CreateCheck(check)
		assert.True(t, IsUnsupportedConnectionType(err), "expected unsupported connection type error, got %v", err)
	})

	t.Run("invalid configurations", func(t *testing.T) {
		minThreshold := 10.0
		maxThreshold := 30.0

		tests := []struct {
			name   string
			mutate func(*models.QualityCheck)
		}{
			{"missing name", func(q *models.QualityCheck) { q.Name = "" }},
			{"missing connection", func(q *models.QualityCheck) { q.ConnectionID = "" }},
			{"missing sql", func(q *models.QualityCheck) { q.SQL = "" }},
			{"unknown mode", func(q *models.QualityCheck) { q.Mode = "anomaly" }},
			{"threshold mode without thresholds", func(q *models.QualityCheck) { q.MinThreshold = nil }},
			{"threshold sql mode without threshold sql", func(q *models.QualityCheck) {
				q.Mode = string(models.CheckModeThresholdSQL)
				q.MinThresholdSQL = ""
				q.MaxThresholdSQL = "SELECT MAX(price) FROM costs"
			}},
			{"connection not found", func(q *models.QualityCheck) { q.ConnectionID = "missing-conn" }},
			{"threshold connection not found", func(q *models.QualityCheck) {
				q.Mode = string(models.CheckModeThresholdSQL)
				q.MinThresholdSQL = "SELECT MIN(price) FROM costs"
				q.MaxThresholdSQL = "SELECT MAX(price) FROM costs"
				q.ThresholdConnID = "missing-conn"
			}},
			{"invalid cron expression", func(q *models.QualityCheck) {
				q.ScheduleType = string(models.ScheduleTypeCron)
				q.CronExpression = "not a cron"
			}},
			{"interval without seconds", func(q *models.QualityCheck) {
				q.ScheduleType = string(models.ScheduleTypeInterval)
			}},
			{"once without scheduled time", func(q *models.QualityCheck) {
				q.ScheduleType = string(models.ScheduleTypeOnce)
			}},
			{"unknown schedule type", func(q *models.QualityCheck) {
				q.ScheduleType = "hourly"
			}},
			{"enabled script without content", func(q *models.QualityCheck) { q.ScriptEnabled = true }},
			{"enabled script with syntax error", func(q *models.QualityCheck) {
				q.ScriptEnabled = true
				q.Script = "return result >"
			}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				check := &models.QualityCheck{
					Name:         "invalid_check",
					ConnectionID: conn.ID,
					SQL:          "SELECT COUNT(*) FROM costs",
					Mode:         string(models.CheckModeThreshold),
					MinThreshold: &minThreshold,
					MaxThreshold: &maxThreshold,
				}
				tt.mutate(check)
				assert.Error(t, env.service.CreateCheck(check))
			})
		}
	})
}

func TestCheckService_UpdateCheck(t *testing.T) {
	env := newCheckServiceTestEnv(t)
	conn := env.factory.CreateConnection()
	check := env.factory.CreateQualityCheck(conn.ID)

	t.Run("update basic fields", func(t *testing.T) {
		err := env.service.UpdateCheck(check.ID, map[string]interface{}{
			"description":     "更新后的描述",
			"execution_count": int64(99),
		})
		require.NoError(t, err)

		updated, err := env.service.GetCheckByID(check.ID)
		require.NoError(t, err)
		assert.Equal(t, "更新后的描述", updated.Description)
		// 统计字段不允许外部更新
		assert.Equal(t, int64(0), updated.ExecutionCount)
	})

	t.Run("schedule change recalculates next execution", func(t *testing.T) {
		err := env.service.UpdateCheck(check.ID, map[string]interface{}{
			"schedule_type":    string(models.ScheduleTypeInterval),
			"interval_seconds": int64(600),
		})
		require.NoError(t, err)

		updated, err := env.service.GetCheckByID(check.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.NextExecution)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), *updated.NextExecution, time.Minute)
	})

	t.Run("invalid script rejected", func(t *testing.T) {
		err := env.service.UpdateCheck(check.ID, map[string]interface{}{
			"script": "return result >",
		})
		assert.Error(t, err)
	})

	t.Run("check not found", func(t *testing.T) {
		err := env.service.UpdateCheck("missing-check", map[string]interface{}{"description": "x"})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestCheckService_DeleteCheck(t *testing.T) {
	env := newCheckServiceTestEnv(t)
	conn := env.factory.CreateConnection()
	check := env.factory.CreateQualityCheck(conn.ID)
	execution := env.factory.CreateCheckExecution(check.ID)

	require.NoError(t, env.service.DeleteCheck(check.ID))

	_, err := env.service.GetCheckByID(check.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = env.service.GetExecutionByID(execution.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.Error(t, env.service.DeleteCheck("missing-check"))
}

func TestCheckService_SetCheckEnabled(t *testing.T) {
	env := newCheckServiceTestEnv(t)
	conn := env.factory.CreateConnection()
	check := env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
		q.ScheduleType = string(models.ScheduleTypeInterval)
		q.IntervalSeconds = 300
	})

	require.NoError(t, env.service.SetCheckEnabled(check.ID, false))
	updated, err := env.service.GetCheckByID(check.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsEnabled)
	assert.Nil(t, updated.NextExecution)

	require.NoError(t, env.service.SetCheckEnabled(check.ID, true))
	updated, err = env.service.GetCheckByID(check.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsEnabled)
	assert.NotNil(t, updated.NextExecution)
}

func TestCheckService_GetChecks(t *testing.T) {
	env := newCheckServiceTestEnv(t)
	conn := env.factory.CreateConnection()
	other := env.factory.CreateConnection()

	env.factory.CreateQualityCheck(conn.ID)
	env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) { q.IsEnabled = false })
	env.factory.CreateQualityCheck(other.ID, func(q *models.QualityCheck) {
		q.Mode = string(models.CheckModeThresholdSQL)
		q.MinThreshold = nil
		q.MaxThreshold = nil
		q.MinThresholdSQL = "SELECT MIN(price) FROM costs"
		q.MaxThresholdSQL = "SELECT MAX(price) FROM costs"
	})

	checks, total, err := env.service.GetChecks(1, 10, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, checks, 3)

	_, total, err = env.service.GetChecks(1, 10, string(models.CheckModeThresholdSQL), "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = env.service.GetChecks(1, 10, "", conn.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	enabled := true
	_, total, err = env.service.GetChecks(1, 10, "", "", &enabled)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	checks, total, err = env.service.GetChecks(2, 2, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, checks, 1)
}

func TestCheckService_ImportChecks(t *testing.T) {
	env := newCheckServiceTestEnv(t)
	conn := env.factory.CreateConnection()

	minThreshold := 10.0
	maxThreshold := 30.0
	buildCheck := func(name string) *models.QualityCheck {
		return &models.QualityCheck{
			Name:         name,
			Description:  "导入的检查",
			ConnectionID: conn.ID,
			SQL:          "SELECT COUNT(*) FROM costs",
			Mode:         string(models.CheckModeThreshold),
			MinThreshold: &minThreshold,
			MaxThreshold: &maxThreshold,
			ScheduleType: string(models.ScheduleTypeManual),
			IsEnabled:    true,
		}
	}

	t.Run("creates new checks", func(t *testing.T) {
		result := env.service.ImportChecks([]*models.QualityCheck{buildCheck("import_check_1")}, true)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 0, result.Updated)
		assert.Equal(t, 0, result.Failed)

		var saved models.QualityCheck
		require.NoError(t, env.db.DB.First(&saved, "name = ?", "import_check_1").Error)
		assert.Equal(t, conn.ID, saved.ConnectionID)
	})

	t.Run("updates existing check by name", func(t *testing.T) {
		var before models.QualityCheck
		require.NoError(t, env.db.DB.First(&before, "name = ?", "import_check_1").Error)

		updated := buildCheck("import_check_1")
		updated.Description = "更新后的描述"

		result := env.service.ImportChecks([]*models.QualityCheck{updated}, true)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 0, result.Created)

		var after models.QualityCheck
		require.NoError(t, env.db.DB.First(&after, "name = ?", "import_check_1").Error)
		assert.Equal(t, before.ID, after.ID)
		assert.Equal(t, "更新后的描述", after.Description)
	})

	t.Run("skips existing check when not updating", func(t *testing.T) {
		result := env.service.ImportChecks([]*models.QualityCheck{buildCheck("import_check_1")}, false)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Updated)
	})

	t.Run("records invalid checks as failed", func(t *testing.T) {
		invalid := buildCheck("import_check_bad")
		invalid.MinThreshold = nil

		result := env.service.ImportChecks([]*models.QualityCheck{invalid, buildCheck("import_check_2")}, true)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "import_check_bad")
	})
}

func TestCheckService_ExecuteCheck(t *testing.T) {
	t.Run("passed check", func(t *testing.T) {
		env := newCheckServiceTestEnv(t)
		conn := env.factory.CreateConnection()
		check := env.factory.CreateQualityCheck(conn.ID)
		env.mock.SetScalarResult("value", int64(20))

		execution, err := env.service.ExecuteCheck(context.Background(), check.ID, models.TriggerTypeManual)
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusPassed, execution.Status)
		require.NotNil(t, execution.Result)
		assert.Equal(t, 20.0, *execution.Result)
		assert.True(t, execution.WithinThreshold)
		assert.Equal(t, check.Name, execution.TaskID)
		assert.NotNil(t, execution.EndTime)
		assert.GreaterOrEqual(t, execution.Duration, int64(0))

		// 执行记录落库
		saved, err := env.service.GetExecutionByID(execution.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusPassed, saved.Status)
		require.NotNil(t, saved.Result)
		assert.Equal(t, 20.0, *saved.Result)

		// 统计更新
		updated, err := env.service.GetCheckByID(check.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.ExecutionCount)
		assert.Equal(t, int64(1), updated.SuccessCount)
		assert.Equal(t, int64(0), updated.FailureCount)
		assert.NotNil(t, updated.LastExecuted)

		// 未启用通知
		assert.Empty(t, env.notifier.NotifiedExecutions())
	})

	t.Run("threshold violation", func(t *testing.T) {
		env := newCheckServiceTestEnv(t)
		conn := env.factory.CreateConnection()
		check := env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
			q.NotifyEnabled = true
		})
		env.mock.SetScalarResult("value", int64(35))

		execution, err := env.service.ExecuteCheck(context.Background(), check.ID, models.TriggerTypeScheduled)
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
		assert.Equal(t, string(ErrorTypeThresholdViolation), execution.ErrorType)
		assert.Contains(t, execution.ErrorMessage, "不在阈值区间")
		require.NotNil(t, execution.Result)
		assert.Equal(t, 35.0, *execution.Result)
		assert.False(t, execution.WithinThreshold)
		assert.Equal(t, models.TriggerTypeScheduled, execution.TriggerType)

		updated, err := env.service.GetCheckByID(check.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.FailureCount)

		// 失败通知送达
		notified := env.notifier.NotifiedExecutions()
		require.Len(t, notified, 1)
		assert.Equal(t, execution.ID, notified[0].ID)
	})

	t.Run("result shape error", func(t *testing.T) {
		env := newCheckServiceTestEnv(t)
		conn := env.factory.CreateConnection()
		check := env.factory.CreateQualityCheck(conn.ID)
		env.mock.SetQueryResult(&connection.QueryResult{
			Columns: []string{"value"},
			Rows:    [][]interface{}{{int64(1)}, {int64(2)}},
		})

		execution, err := env.service.ExecuteCheck(context.Background(), check.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusError, execution.Status)
		assert.Equal(t, string(ErrorTypeInvalidResultShape), execution.ErrorType)
		assert.Nil(t, execution.Result)
		assert.Equal(t, models.TriggerTypeManual, execution.TriggerType)

		updated, err := env.service.GetCheckByID(check.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.FailureCount)
	})

	t.Run("unsupported connection type", func(t *testing.T) {
		env := newCheckServiceTestEnv(t)
		redisConn := env.factory.CreateConnection(func(c *models.Connection) {
			c.Type = meta.ConnectionTypeRedis
			c.Config = models.JSONB{"addr": "localhost:6379"}
		})
		check := env.factory.CreateQualityCheck(redisConn.ID)

		execution, err := env.service.ExecuteCheck(context.Background(), check.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusError, execution.Status)
		assert.Equal(t, string(ErrorTypeUnsupportedConnection), execution.ErrorType)
		assert.False(t, env.mock.WasQueryCalled())
	})

	t.Run("threshold sql mode", func(t *testing.T) {
		env := newCheckServiceTestEnv(t)
		conn := env.factory.CreateConnection()
		minSQL := "SELECT MIN(price) FROM costs"
		maxSQL := "SELECT MAX(price) FROM costs"
		valueSQL := "SELECT AVG(price) FROM costs"
		check := env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
			q.SQL = valueSQL
			q.Mode = string(models.CheckModeThresholdSQL)
			q.MinThreshold = nil
			q.MaxThreshold = nil
			q.MinThresholdSQL = minSQL
			q.MaxThresholdSQL = maxSQL
		})
		env.mock.SetScalarResultFor(minSQL, int64(10))
		env.mock.SetScalarResultFor(maxSQL, int64(30))
		env.mock.SetScalarResultFor(valueSQL, int64(20))

		execution, err := env.service.ExecuteCheck(context.Background(), check.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusPassed, execution.Status)
		require.NotNil(t, execution.MinThreshold)
		assert.Equal(t, 10.0, *execution.MinThreshold)
		require.NotNil(t, execution.MaxThreshold)
		assert.Equal(t, 30.0, *execution.MaxThreshold)
	})

	t.Run("predicate second pass", func(t *testing.T) {
		env := newCheckServiceTestEnv(t)
		conn := env.factory.CreateConnection()
		env.mock.SetScalarResult("value", int64(20))

		acceptCheck := env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
			q.ScriptEnabled = true
			q.Script = "return result < 25, nil"
		})
		execution, err := env.service.ExecuteCheck(context.Background(), acceptCheck.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusPassed, execution.Status)

		rejectCheck := env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
			q.ScriptEnabled = true
			q.Script = "return result < 15, nil"
		})
		execution, err = env.service.ExecuteCheck(context.Background(), rejectCheck.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
		assert.Contains(t, execution.ErrorMessage, "谓词")

		errorCheck := env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
			q.ScriptEnabled = true
			q.Script = `return false, fmt.Errorf("检查数据缺失")`
		})
		execution, err = env.service.ExecuteCheck(context.Background(), errorCheck.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusError, execution.Status)
		assert.Contains(t, execution.ErrorMessage, "谓词脚本执行失败")
	})

	t.Run("success notification gating", func(t *testing.T) {
		env := newCheckServiceTestEnv(t)
		conn := env.factory.CreateConnection()
		env.mock.SetScalarResult("value", int64(20))

		silent := env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
			q.NotifyEnabled = true
			q.NotifyOnSuccess = false
		})
		_, err := env.service.ExecuteCheck(context.Background(), silent.ID, "")
		require.NoError(t, err)
		assert.Empty(t, env.notifier.NotifiedExecutions())

		verbose := env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
			q.NotifyEnabled = true
			q.NotifyOnSuccess = true
		})
		_, err = env.service.ExecuteCheck(context.Background(), verbose.ID, "")
		require.NoError(t, err)
		assert.Len(t, env.notifier.NotifiedExecutions(), 1)
	})

	t.Run("check not found", func(t *testing.T) {
		env := newCheckServiceTestEnv(t)
		_, err := env.service.ExecuteCheck(context.Background(), "missing-check", "")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestCheckService_GetExecutions(t *testing.T) {
	env := newCheckServiceTestEnv(t)
	conn := env.factory.CreateConnection()
	check := env.factory.CreateQualityCheck(conn.ID)
	other := env.factory.CreateQualityCheck(conn.ID)

	env.factory.CreateCheckExecution(check.ID)
	env.factory.CreateCheckExecution(check.ID, func(e *models.CheckExecution) {
		e.Status = models.ExecutionStatusFailed
		e.WithinThreshold = false
	})
	env.factory.CreateCheckExecution(other.ID)

	executions, total, err := env.service.GetExecutions("", 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, executions, 3)

	executions, total, err = env.service.GetExecutions(check.ID, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	executions, total, err = env.service.GetExecutions(check.ID, 1, 10, models.ExecutionStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionStatusFailed, executions[0].Status)
}

func TestCheckService_GetDueChecks(t *testing.T) {
	env := newCheckServiceTestEnv(t)
	conn := env.factory.CreateConnection()

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	due := env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
		q.ScheduleType = string(models.ScheduleTypeInterval)
		q.IntervalSeconds = 60
		q.NextExecution = &past
	})
	env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
		q.NextExecution = &future
	})
	env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) {
		q.IsEnabled = false
		q.NextExecution = &past
	})
	env.factory.CreateQualityCheck(conn.ID)

	checks, err := env.service.GetDueChecks(time.Now())
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, due.ID, checks[0].ID)
}

func TestCheckService_GetStatistics(t *testing.T) {
	env := newCheckServiceTestEnv(t)
	conn := env.factory.CreateConnection()
	check := env.factory.CreateQualityCheck(conn.ID)
	env.factory.CreateQualityCheck(conn.ID, func(q *models.QualityCheck) { q.IsEnabled = false })

	env.factory.CreateCheckExecution(check.ID)
	env.factory.CreateCheckExecution(check.ID, func(e *models.CheckExecution) {
		e.Status = models.ExecutionStatusFailed
		e.WithinThreshold = false
	})

	stats, err := env.service.GetStatistics()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["total_checks"])
	assert.Equal(t, int64(1), stats["enabled_checks"])
	assert.Equal(t, int64(2), stats["total_executions"])

	statusDistribution := stats["status_distribution"].(map[string]int64)
	assert.Equal(t, int64(1), statusDistribution[models.ExecutionStatusPassed])
	assert.Equal(t, int64(1), statusDistribution[models.ExecutionStatusFailed])
	assert.InDelta(t, 0.5, stats["pass_rate"], 0.001)

	modeDistribution := stats["mode_distribution"].(map[string]int64)
	assert.Equal(t, int64(2), modeDistribution[string(models.CheckModeThreshold)])
}

func TestCheckService_CalculateNextExecution(t *testing.T) {
	env := newCheckServiceTestEnv(t)

	t.Run("manual schedule", func(t *testing.T) {
		next, err := env.service.CalculateNextExecution(&models.QualityCheck{
			ScheduleType: string(models.ScheduleTypeManual),
		}, nil)
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("once schedule in the future", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		next, err := env.service.CalculateNextExecution(&models.QualityCheck{
			ScheduleType:  string(models.ScheduleTypeOnce),
			ScheduledTime: &future,
		}, nil)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, future, *next)
	})

	t.Run("once schedule in the past", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		next, err := env.service.CalculateNextExecution(&models.QualityCheck{
			ScheduleType:  string(models.ScheduleTypeOnce),
			ScheduledTime: &past,
		}, nil)
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("interval schedule", func(t *testing.T) {
		next, err := env.service.CalculateNextExecution(&models.QualityCheck{
			ScheduleType:    string(models.ScheduleTypeInterval),
			IntervalSeconds: 60,
		}, nil)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.WithinDuration(t, time.Now().Add(time.Minute), *next, 10*time.Second)
	})

	t.Run("interval schedule from last execution", func(t *testing.T) {
		last := time.Now().Add(-30 * time.Second)
		next, err := env.service.CalculateNextExecution(&models.QualityCheck{
			ScheduleType:    string(models.ScheduleTypeInterval),
			IntervalSeconds: 60,
		}, &last)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.WithinDuration(t, last.Add(time.Minute), *next, time.Second)
	})

	t.Run("cron schedule", func(t *testing.T) {
		next, err := env.service.CalculateNextExecution(&models.QualityCheck{
			ScheduleType:   string(models.ScheduleTypeCron),
			CronExpression: "0 2 * * *",
		}, nil)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.True(t, next.After(time.Now()))
	})

	t.Run("invalid configurations", func(t *testing.T) {
		_, err := env.service.CalculateNextExecution(&models.QualityCheck{
			ScheduleType: string(models.ScheduleTypeInterval),
		}, nil)
		assert.Error(t, err)

		_, err = env.service.CalculateNextExecution(&models.QualityCheck{
			ScheduleType: string(models.ScheduleTypeCron),
		}, nil)
		assert.Error(t, err)

		_, err = env.service.CalculateNextExecution(&models.QualityCheck{
			ScheduleType: "hourly",
		}, nil)
		assert.Error(t, err)
	})
}
