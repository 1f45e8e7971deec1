/*
 * @module service/scheduler/check_scheduler
 * @description 质量检查调度器，负责检查任务的定时调度和触发执行
 * @architecture 分层架构 - 调度层
 * @stateFlow 启动调度器 -> 加载检查任务 -> 定时触发 -> 调用检查服务执行
 * @rules 支持cron、interval、once、manual四种调度类型，支持分布式锁防止多实例重复执行
 * @dependencies github.com/robfig/cron/v3, service/distributed_lock
 * @refs service/quality/check_service.go, service/init.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dataquality-service/service/distributed_lock"
	"dataquality-service/service/models"
	"dataquality-service/service/quality"

	"github.com/robfig/cron/v3"
)

// CheckScheduler 质量检查调度器
type CheckScheduler struct {
	checkService     *quality.CheckService
	cron             *cron.Cron
	intervalTicker   *time.Ticker
	ctx              context.Context
	cancel           context.CancelFunc
	schedulerStarted bool
	distributedLock  distributed_lock.DistributedLock

	mu      sync.Mutex
	running map[string]struct{} // 本实例正在执行的检查，防止重复触发
}

// newCronEngine 创建与调度配置校验一致的cron引擎，秒字段可选
func newCronEngine() *cron.Cron {
	return cron.New(cron.WithParser(cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))
}

// NewCheckScheduler 创建质量检查调度器
func NewCheckScheduler(checkService *quality.CheckService) *CheckScheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &CheckScheduler{
		checkService: checkService,
		cron:         newCronEngine(),
		ctx:          ctx,
		cancel:       cancel,
		running:      make(map[string]struct{}),
	}
}

// SetDistributedLock 设置分布式锁
func (cs *CheckScheduler) SetDistributedLock(lock distributed_lock.DistributedLock) {
	cs.distributedLock = lock
	if lock != nil {
		slog.Info("质量检查调度器已启用分布式锁")
	}
}

// StartScheduler 启动调度器
func (cs *CheckScheduler) StartScheduler() error {
	if cs.schedulerStarted {
		return fmt.Errorf("调度器已经启动")
	}

	slog.Info("启动质量检查调度器")

	// 启动cron调度器
	cs.cron.Start()

	// 启动间隔任务检查器（每分钟检查一次）
	cs.intervalTicker = time.NewTicker(1 * time.Minute)
	go cs.runIntervalChecker()

	// 加载现有的调度任务
	if err := cs.loadScheduledChecks(); err != nil {
		slog.Error("加载质量检查调度任务失败", "error", err)
		return err
	}

	cs.schedulerStarted = true
	slog.Info("质量检查调度器启动完成")
	return nil
}

// StopScheduler 停止调度器
func (cs *CheckScheduler) StopScheduler() {
	if !cs.schedulerStarted {
		return
	}

	slog.Info("停止质量检查调度器")

	cs.cancel()

	if cs.cron != nil {
		cs.cron.Stop()
	}

	if cs.intervalTicker != nil {
		cs.intervalTicker.Stop()
	}

	cs.schedulerStarted = false
	slog.Info("质量检查调度器已停止")
}

// loadScheduledChecks 加载调度任务
func (cs *CheckScheduler) loadScheduledChecks() error {
	slog.Info("开始加载质量检查调度任务")

	checks, err := cs.checkService.GetScheduledChecks(
		string(models.ScheduleTypeCron),
		string(models.ScheduleTypeInterval),
		string(models.ScheduleTypeOnce),
	)
	if err != nil {
		slog.Error("获取质量检查调度任务失败", "error", err)
		return fmt.Errorf("获取调度任务失败: %w", err)
	}

	slog.Info("找到质量检查调度任务", "count", len(checks))

	successCount := 0
	failedCount := 0
	for i := range checks {
		check := &checks[i]
		slog.Debug("加载检查任务", "check_id", check.ID, "schedule_type", check.ScheduleType, "name", check.Name)

		if err := cs.addCheckToScheduler(check); err != nil {
			slog.Error("添加检查任务到调度器失败", "check_id", check.ID, "error", err)
			failedCount++
		} else {
			successCount++
		}
	}

	slog.Info("质量检查调度任务加载完成", "total", len(checks), "success", successCount, "failed", failedCount)
	return nil
}

// addCheckToScheduler 添加检查任务到调度器
func (cs *CheckScheduler) addCheckToScheduler(check *models.QualityCheck) error {
	switch check.ScheduleType {
	case string(models.ScheduleTypeCron):
		if check.CronExpression == "" {
			return fmt.Errorf("Cron检查任务缺少表达式")
		}

		checkID := check.ID
		if _, err := cs.cron.AddFunc(check.CronExpression, func() {
			cs.executeScheduledCheck(checkID)
		}); err != nil {
			slog.Error("添加Cron检查任务失败",
				"check_id", check.ID,
				"cron_expression", check.CronExpression,
				"error", err)
			return fmt.Errorf("添加Cron检查任务失败: %w", err)
		}

		slog.Info("添加Cron检查任务成功", "check_id", check.ID, "cron_expression", check.CronExpression)

	case string(models.ScheduleTypeOnce):
		if check.ScheduledTime == nil {
			slog.Warn("单次检查任务缺少执行时间", "check_id", check.ID)
			return nil
		}
		if !check.ScheduledTime.After(time.Now()) {
			slog.Warn("单次检查任务的执行时间已过期",
				"check_id", check.ID,
				"scheduled_time", check.ScheduledTime.Format("2006-01-02 15:04:05"))
			return nil
		}

		checkID := check.ID
		scheduledTime := *check.ScheduledTime
		waitDuration := time.Until(scheduledTime)

		go func() {
			timer := time.NewTimer(waitDuration)
			defer timer.Stop()

			select {
			case <-timer.C:
				slog.Info("单次检查任务时间到，开始执行", "check_id", checkID)
				cs.executeScheduledCheck(checkID)
			case <-cs.ctx.Done():
				slog.Warn("单次检查任务被取消（调度器关闭）", "check_id", checkID)
			}
		}()

		slog.Info("添加单次检查任务成功",
			"check_id", check.ID,
			"scheduled_time", scheduledTime.Format("2006-01-02 15:04:05"),
			"wait_duration", waitDuration)

	case string(models.ScheduleTypeInterval):
		if check.IntervalSeconds <= 0 {
			slog.Warn("间隔检查任务的间隔时间无效", "check_id", check.ID, "interval_seconds", check.IntervalSeconds)
			return fmt.Errorf("间隔检查任务的间隔时间必须大于0")
		}
		// 间隔任务由轮询器按next_execution统一触发
		slog.Info("添加间隔检查任务成功", "check_id", check.ID, "interval_seconds", check.IntervalSeconds)
	}

	return nil
}

// runIntervalChecker 运行间隔任务检查器
func (cs *CheckScheduler) runIntervalChecker() {
	for {
		select {
		case <-cs.intervalTicker.C:
			cs.checkIntervalChecks()
		case <-cs.ctx.Done():
			return
		}
	}
}

// checkIntervalChecks 检查到期的间隔任务
func (cs *CheckScheduler) checkIntervalChecks() {
	checks, err := cs.checkService.GetDueChecks(time.Now(), string(models.ScheduleTypeInterval))
	if err != nil {
		slog.Error("获取到期的间隔检查任务失败", "error", err)
		return
	}

	for i := range checks {
		check := checks[i]
		slog.Info("间隔检查任务到达执行时间",
			"check_id", check.ID,
			"name", check.Name,
			"next_execution", check.NextExecution)
		go cs.executeScheduledCheck(check.ID)
	}
}

// executeScheduledCheck 执行调度检查任务（带分布式锁）
func (cs *CheckScheduler) executeScheduledCheck(checkID string) {
	if !cs.markRunning(checkID) {
		slog.Warn("检查正在执行中，跳过本次触发", "check_id", checkID)
		return
	}
	defer cs.unmarkRunning(checkID)

	slog.Info("执行质量检查调度任务", "check_id", checkID)

	// 如果有分布式锁，使用锁保护执行
	if cs.distributedLock != nil {
		lockKey := fmt.Sprintf("quality_check:%s", checkID)
		lockTTL := 30 * time.Minute

		locked, err := cs.distributedLock.TryLock(cs.ctx, lockKey, lockTTL)
		if err != nil {
			slog.Error("获取分布式锁失败", "check_id", checkID, "error", err)
			return
		}
		if !locked {
			slog.Warn("检查正在其他实例执行，跳过", "check_id", checkID)
			return
		}

		defer func() {
			if unlockErr := cs.distributedLock.Unlock(cs.ctx, lockKey); unlockErr != nil {
				slog.Error("释放分布式锁失败", "check_id", checkID, "error", unlockErr)
			}
		}()
	}

	check, err := cs.checkService.GetCheckByID(checkID)
	if err != nil {
		slog.Error("获取检查任务失败", "check_id", checkID, "error", err)
		return
	}

	if !check.IsEnabled {
		slog.Warn("检查任务已停用，跳过执行", "check_id", checkID)
		return
	}

	// 单次任务只执行一次，防止重载调度后重复触发
	if check.ScheduleType == string(models.ScheduleTypeOnce) && check.ExecutionCount > 0 {
		slog.Warn("单次检查任务已执行过，跳过", "check_id", checkID)
		return
	}

	execution, err := cs.checkService.ExecuteCheck(cs.ctx, checkID, models.TriggerTypeScheduled)
	if err != nil {
		slog.Error("执行调度检查任务失败", "check_id", checkID, "error", err)
		return
	}

	slog.Info("调度检查任务执行完成",
		"check_id", checkID,
		"execution_id", execution.ID,
		"status", execution.Status)
}

// markRunning 标记检查开始执行，已在执行中返回false
func (cs *CheckScheduler) markRunning(checkID string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, exists := cs.running[checkID]; exists {
		return false
	}
	cs.running[checkID] = struct{}{}
	return true
}

// unmarkRunning 清除检查的执行中标记
func (cs *CheckScheduler) unmarkRunning(checkID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.running, checkID)
}

// AddScheduledCheck 添加调度任务
func (cs *CheckScheduler) AddScheduledCheck(check *models.QualityCheck) error {
	return cs.addCheckToScheduler(check)
}

// RemoveScheduledCheck 移除调度任务
func (cs *CheckScheduler) RemoveScheduledCheck(checkID string) error {
	// cron库不支持按ID移除任务，重新加载所有任务
	return cs.ReloadScheduledChecks()
}

// ReloadScheduledChecks 重新加载调度任务，检查配置变更后调用
func (cs *CheckScheduler) ReloadScheduledChecks() error {
	cs.cron.Stop()
	cs.cron = newCronEngine()
	cs.cron.Start()

	return cs.loadScheduledChecks()
}

// GetStatus 获取调度器运行状态
func (cs *CheckScheduler) GetStatus() map[string]interface{} {
	cs.mu.Lock()
	runningCount := len(cs.running)
	cs.mu.Unlock()

	return map[string]interface{}{
		"started":        cs.schedulerStarted,
		"cron_entries":   len(cs.cron.Entries()),
		"running_checks": runningCount,
		"lock_enabled":   cs.distributedLock != nil,
	}
}
