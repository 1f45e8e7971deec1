/*
 * @module testutil/test_helper
 * @description 测试基础设施，提供内存SQLite数据库和领域模型的测试数据工厂
 * @architecture 测试基础设施
 * @documentReference ai_docs/test_plan.md
 * @stateFlow 创建内存数据库 -> 迁移模型 -> 工厂构造测试数据 -> 测试结束关闭
 * @rules 工厂默认值构造一条阈值10~30的成本检查，调用方通过选项函数覆盖字段
 * @dependencies gorm.io/gorm, gorm.io/driver/sqlite, github.com/google/uuid
 * @refs service/models
 */

package testutil

import (
	"fmt"
	"time"

	"dataquality-service/service/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库，每个实例持有独立的内存SQLite
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建内存测试数据库并迁移全部领域模型
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("测试数据库连接失败: %v", err))
	}

	if err := db.AutoMigrate(
		&models.Connection{},
		&models.QualityCheck{},
		&models.CheckExecution{},
	); err != nil {
		panic(fmt.Sprintf("测试数据库迁移失败: %v", err))
	}

	return &TestDB{DB: db}
}

// Close 关闭数据库连接，适合传给t.Cleanup
func (tdb *TestDB) Close() {
	if sqlDB, err := tdb.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// newID 生成带前缀的短随机标识
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

// apply 对目标应用所有选项函数
func apply[T any](target *T, opts []func(*T)) {
	for _, opt := range opts {
		opt(target)
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// ConnectionOption 连接记录的字段覆盖函数
type ConnectionOption = func(*models.Connection)

// CreateConnection 落库一条PostgreSQL连接记录
func (f *TestDataFactory) CreateConnection(opts ...ConnectionOption) *models.Connection {
	now := time.Now()
	conn := &models.Connection{
		ID:          newID("conn"),
		Name:        "质量库连接_" + uuid.NewString()[:6],
		Type:        "postgresql",
		Description: "测试用数据库连接",
		Config: models.JSONB{
			"host":     "localhost",
			"port":     5432,
			"database": "warehouse",
			"username": "quality",
			"password": "quality_pass",
		},
		Status:    "active",
		CreatedBy: "test",
		UpdatedBy: "test",
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(conn, opts)

	if err := f.DB.Create(conn).Error; err != nil {
		panic(fmt.Sprintf("创建测试连接失败: %v", err))
	}
	return conn
}

// QualityCheckOption 检查任务的字段覆盖函数
type QualityCheckOption = func(*models.QualityCheck)

// CreateQualityCheck 落库一条手动触发的字面阈值检查，阈值区间10~30
func (f *TestDataFactory) CreateQualityCheck(connectionID string, opts ...QualityCheckOption) *models.QualityCheck {
	now := time.Now()
	minThreshold := 10.0
	maxThreshold := 30.0
	check := &models.QualityCheck{
		ID:              newID("qc"),
		Name:            "cost_check_" + uuid.NewString()[:6],
		Description:     "测试用成本记录数检查",
		ConnectionID:    connectionID,
		SQL:             "SELECT COUNT(*) FROM costs",
		Mode:            string(models.CheckModeThreshold),
		MinThreshold:    &minThreshold,
		MaxThreshold:    &maxThreshold,
		ScheduleType:    string(models.ScheduleTypeManual),
		NotifyOnFailure: true,
		IsEnabled:       true,
		CreatedBy:       "test",
		UpdatedBy:       "test",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	apply(check, opts)

	if err := f.DB.Create(check).Error; err != nil {
		panic(fmt.Sprintf("创建测试检查任务失败: %v", err))
	}
	return check
}

// CheckExecutionOption 执行记录的字段覆盖函数
type CheckExecutionOption = func(*models.CheckExecution)

// CreateCheckExecution 落库一条通过状态的执行记录，结果20落在阈值区间内
func (f *TestDataFactory) CreateCheckExecution(checkID string, opts ...CheckExecutionOption) *models.CheckExecution {
	now := time.Now()
	result := 20.0
	minThreshold := 10.0
	maxThreshold := 30.0
	execution := &models.CheckExecution{
		ID:              newID("ce"),
		CheckID:         checkID,
		TaskID:          "cost-check",
		Description:     "测试用执行记录",
		ExecutionDate:   now,
		Result:          &result,
		MinThreshold:    &minThreshold,
		MaxThreshold:    &maxThreshold,
		WithinThreshold: true,
		Status:          models.ExecutionStatusPassed,
		TriggerType:     models.TriggerTypeManual,
		StartTime:       now,
		EndTime:         &now,
		Duration:        15,
		ExecutedBy:      "test",
		CreatedAt:       now,
	}
	apply(execution, opts)

	if err := f.DB.Create(execution).Error; err != nil {
		panic(fmt.Sprintf("创建测试执行记录失败: %v", err))
	}
	return execution
}
