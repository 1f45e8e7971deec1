/*
 * @module service/cleanup/execution_cleanup_service
 * @description 执行记录清理服务，定期删除超过保留期的质量检查执行记录
 * @architecture 分层架构 - 业务服务层
 * @stateFlow 定时触发 -> 获取分布式锁 -> 删除过期记录 -> 记录结果
 * @rules 保留天数通过环境变量配置，多实例部署时通过分布式锁保证单实例执行
 * @dependencies gorm.io/gorm, github.com/robfig/cron/v3, service/distributed_lock
 * @refs service/models/check_execution.go, service/distributed_lock
 */

package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"dataquality-service/service/distributed_lock"
	"dataquality-service/service/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DefaultExecutionRetentionDays 执行记录默认保留天数
const DefaultExecutionRetentionDays = 90

// cleanupLockTTL 清理任务分布式锁的持有时长
// 大表删除可能超过TTL，执行期间按cleanupLockRefresh间隔续期
const (
	cleanupLockTTL     = 2 * time.Minute
	cleanupLockRefresh = 40 * time.Second
)

// ExecutionCleanupService 执行记录清理服务
type ExecutionCleanupService struct {
	db            *gorm.DB
	lockExecutor  *distributed_lock.LockExecutor
	retentionDays int
	cron          *cron.Cron
	ctx           context.Context
	cancel        context.CancelFunc
	started       bool
}

// NewExecutionCleanupService 创建执行记录清理服务实例
func NewExecutionCleanupService(db *gorm.DB) *ExecutionCleanupService {
	ctx, cancel := context.WithCancel(context.Background())

	return &ExecutionCleanupService{
		db:            db,
		retentionDays: retentionDaysFromEnv(),
		cron:          cron.New(cron.WithSeconds()),
		ctx:           ctx,
		cancel:        cancel,
		started:       false,
	}
}

// SetLockExecutor 设置分布式锁执行器，多实例部署时避免重复清理
func (s *ExecutionCleanupService) SetLockExecutor(executor *distributed_lock.LockExecutor) {
	s.lockExecutor = executor
}

// retentionDaysFromEnv 从环境变量读取保留天数，非法值回落到默认值
func retentionDaysFromEnv() int {
	valueStr := os.Getenv("EXECUTION_RETENTION_DAYS")
	if valueStr == "" {
		return DefaultExecutionRetentionDays
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		slog.Warn("EXECUTION_RETENTION_DAYS 配置非法，使用默认值",
			"value", valueStr,
			"default", DefaultExecutionRetentionDays)
		return DefaultExecutionRetentionDays
	}

	return value
}

// CleanupExpiredExecutions 清理超过保留期的执行记录
func (s *ExecutionCleanupService) CleanupExpiredExecutions(ctx context.Context) error {
	slog.Info("开始清理过期执行记录", "retention_days", s.retentionDays)
	startTime := time.Now()

	deleted, err := s.CleanupCheckExecutions(ctx, s.retentionDays)
	if err != nil {
		slog.Error("清理检查执行记录失败", "error", err)
		return err
	}

	slog.Info("执行记录清理完成",
		"deleted_count", deleted,
		"retention_days", s.retentionDays,
		"duration_ms", time.Since(startTime).Milliseconds())

	return nil
}

// CleanupCheckExecutions 删除早于保留期的检查执行记录，返回删除行数
func (s *ExecutionCleanupService) CleanupCheckExecutions(ctx context.Context, retentionDays int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -retentionDays)

	slog.Debug("清理检查执行记录",
		"cutoff_date", cutoffDate.Format("2006-01-02 15:04:05"),
		"retention_days", retentionDays)

	result := s.db.WithContext(ctx).Where("created_at < ?", cutoffDate).Delete(&models.CheckExecution{})
	if result.Error != nil {
		return 0, fmt.Errorf("删除检查执行记录失败: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// runCleanup 执行一次清理，配置了分布式锁时在锁内执行
func (s *ExecutionCleanupService) runCleanup() {
	if s.lockExecutor == nil {
		if err := s.CleanupExpiredExecutions(s.ctx); err != nil {
			slog.Error("定时执行记录清理失败", "error", err)
		}
		return
	}

	err := s.lockExecutor.ExecuteWithLockAndRefresh(s.ctx, "execution_cleanup", cleanupLockTTL, cleanupLockRefresh, func() error {
		return s.CleanupExpiredExecutions(s.ctx)
	})
	if err != nil {
		slog.Error("定时执行记录清理失败", "error", err)
	}
}

// StartScheduledCleanup 启动定时清理任务
func (s *ExecutionCleanupService) StartScheduledCleanup() error {
	if s.started {
		return fmt.Errorf("执行记录清理调度器已经启动")
	}

	slog.Info("启动执行记录清理调度器", "retention_days", s.retentionDays)

	// 每天凌晨3点执行清理，避开凌晨2点前后的检查高峰
	// Cron表达式：秒 分 时 日 月 周
	_, err := s.cron.AddFunc("0 0 3 * * *", func() {
		slog.Info("开始执行定时执行记录清理任务")
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("添加定时任务失败: %w", err)
	}

	s.cron.Start()
	s.started = true

	slog.Info("执行记录清理调度器启动成功，将于每天凌晨3点执行清理任务")

	// 启动时立即执行一次清理
	go func() {
		slog.Info("执行首次执行记录清理")
		s.runCleanup()
	}()

	return nil
}

// StopScheduledCleanup 停止定时清理任务
func (s *ExecutionCleanupService) StopScheduledCleanup() {
	if !s.started {
		return
	}

	slog.Info("停止执行记录清理调度器")

	s.cancel()

	if s.cron != nil {
		s.cron.Stop()
	}

	s.started = false

	slog.Info("执行记录清理调度器已停止")
}
