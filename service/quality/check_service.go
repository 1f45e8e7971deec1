/*
 * @module service/quality/check_service
 * @description 质量检查任务服务，负责检查任务的增删改查、执行编排和结果落库
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/quality_check_req.md
 * @stateFlow 检查创建 -> 调度/手动触发 -> 引擎执行 -> 谓词判定 -> 结果记录 -> 通知分发
 * @rules 每次执行生成独立执行记录；阈值越界计为检查失败，基础设施错误计为执行出错
 * @dependencies gorm.io/gorm, github.com/robfig/cron/v3
 * @refs engine.go, predicate.go, service/scheduler/, monitor_client/
 */

package quality

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dataquality-service/monitor_client"
	"dataquality-service/service/meta"
	"dataquality-service/service/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ExecutionNotifier 检查结果通知接口，由通知模块实现
type ExecutionNotifier interface {
	NotifyExecution(ctx context.Context, check *models.QualityCheck, execution *models.CheckExecution) error
}

// CheckService 质量检查任务服务
type CheckService struct {
	db        *gorm.DB
	engine    *QualityEngine
	predicate PredicateEvaluator
	notifier  ExecutionNotifier
}

// NewCheckService 创建质量检查任务服务实例
func NewCheckService(db *gorm.DB, engine *QualityEngine, predicate PredicateEvaluator, notifier ExecutionNotifier) *CheckService {
	return &CheckService{
		db:        db,
		engine:    engine,
		predicate: predicate,
		notifier:  notifier,
	}
}

// === 检查任务管理 ===

// CreateCheck 创建质量检查任务
func (s *CheckService) CreateCheck(check *models.QualityCheck) error {
	if err := s.validateCheck(check); err != nil {
		return err
	}

	// 计算下次执行时间
	nextExec, err := s.CalculateNextExecution(check, nil)
	if err != nil {
		return err
	}
	check.NextExecution = nextExec

	return s.db.Create(check).Error
}

// GetChecks 获取质量检查任务列表
func (s *CheckService) GetChecks(page, pageSize int, mode, connectionID string, enabled *bool) ([]models.QualityCheck, int64, error) {
	query := s.db.Model(&models.QualityCheck{})

	if mode != "" {
		query = query.Where("mode = ?", mode)
	}
	if connectionID != "" {
		query = query.Where("connection_id = ?", connectionID)
	}
	if enabled != nil {
		query = query.Where("is_enabled = ?", *enabled)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var checks []models.QualityCheck
	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&checks).Error; err != nil {
		return nil, 0, err
	}

	return checks, total, nil
}

// GetCheckByID 根据ID获取质量检查任务
func (s *CheckService) GetCheckByID(id string) (*models.QualityCheck, error) {
	var check models.QualityCheck
	if err := s.db.Preload("Connection").First(&check, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &check, nil
}

// UpdateCheck 更新质量检查任务
func (s *CheckService) UpdateCheck(id string, updates map[string]interface{}) error {
	var check models.QualityCheck
	if err := s.db.First(&check, "id = ?", id).Error; err != nil {
		return err
	}

	// 统计字段由执行流程维护，不允许外部更新
	delete(updates, "id")
	delete(updates, "execution_count")
	delete(updates, "success_count")
	delete(updates, "failure_count")

	// 更新谓词脚本时重新校验语法
	if script, ok := updates["script"].(string); ok && script != "" {
		if err := s.predicate.Validate(script); err != nil {
			return fmt.Errorf("谓词脚本校验失败: %w", err)
		}
	}

	// 调度配置变化时重新计算下次执行时间
	scheduleChanged := false
	for _, key := range []string{"schedule_type", "cron_expression", "interval_seconds", "scheduled_time"} {
		if _, ok := updates[key]; ok {
			scheduleChanged = true
			break
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.QualityCheck{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		if scheduleChanged {
			var updated models.QualityCheck
			if err := tx.First(&updated, "id = ?", id).Error; err != nil {
				return err
			}
			nextExec, err := s.CalculateNextExecution(&updated, nil)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.QualityCheck{}).Where("id = ?", id).Update("next_execution", nextExec).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteCheck 删除质量检查任务及其执行记录
func (s *CheckService) DeleteCheck(id string) error {
	var check models.QualityCheck
	if err := s.db.First(&check, "id = ?", id).Error; err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CheckExecution{}, "check_id = ?", id).Error; err != nil {
			return fmt.Errorf("删除执行记录失败: %w", err)
		}
		if err := tx.Delete(&models.QualityCheck{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("删除检查任务失败: %w", err)
		}
		return nil
	})
}

// SetCheckEnabled 启用或停用质量检查任务
func (s *CheckService) SetCheckEnabled(id string, enabled bool) error {
	var check models.QualityCheck
	if err := s.db.First(&check, "id = ?", id).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"is_enabled": enabled,
	}
	if enabled {
		check.IsEnabled = true
		if nextExec, err := s.CalculateNextExecution(&check, nil); err == nil {
			updates["next_execution"] = nextExec
		}
	} else {
		updates["next_execution"] = nil
	}

	return s.db.Model(&models.QualityCheck{}).Where("id = ?", id).Updates(updates).Error
}

// ImportResult 批量导入结果
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportChecks 批量导入质量检查任务，按名称识别已有任务
// updateExisting为true时覆盖已有任务的定义，否则跳过
func (s *CheckService) ImportChecks(checks []*models.QualityCheck, updateExisting bool) *ImportResult {
	result := &ImportResult{}

	for _, check := range checks {
		var existing models.QualityCheck
		err := s.db.First(&existing, "name = ?", check.Name).Error

		switch {
		case err == nil:
			if !updateExisting {
				result.Skipped++
				continue
			}
			if validateErr := s.validateCheck(check); validateErr != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("更新检查 %s 失败: %v", check.Name, validateErr))
				continue
			}
			if updateErr := s.UpdateCheck(existing.ID, importUpdates(check)); updateErr != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("更新检查 %s 失败: %v", check.Name, updateErr))
				continue
			}
			result.Updated++

		case errors.Is(err, gorm.ErrRecordNotFound):
			if createErr := s.CreateCheck(check); createErr != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("创建检查 %s 失败: %v", check.Name, createErr))
				continue
			}
			result.Created++

		default:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("查询检查 %s 失败: %v", check.Name, err))
		}
	}

	slog.Info("质量检查批量导入完成",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", result.Failed)

	return result
}

// importUpdates 导入覆盖已有任务时更新的定义字段
func importUpdates(check *models.QualityCheck) map[string]interface{} {
	return map[string]interface{}{
		"description":       check.Description,
		"connection_id":     check.ConnectionID,
		"sql":               check.SQL,
		"mode":              check.Mode,
		"min_threshold":     check.MinThreshold,
		"max_threshold":     check.MaxThreshold,
		"min_threshold_sql": check.MinThresholdSQL,
		"max_threshold_sql": check.MaxThresholdSQL,
		"threshold_conn_id": check.ThresholdConnID,
		"script":            check.Script,
		"script_enabled":    check.ScriptEnabled,
		"schedule_type":     check.ScheduleType,
		"cron_expression":   check.CronExpression,
		"interval_seconds":  check.IntervalSeconds,
		"scheduled_time":    check.ScheduledTime,
		"notify_enabled":    check.NotifyEnabled,
		"notify_on_success": check.NotifyOnSuccess,
		"notify_on_failure": check.NotifyOnFailure,
		"recipients":        check.Recipients,
		"notify_channels":   check.NotifyChannels,
		"is_enabled":        check.IsEnabled,
	}
}

// validateCheck 校验检查任务配置
func (s *CheckService) validateCheck(check *models.QualityCheck) error {
	if check == nil {
		return errors.New("检查配置不能为空")
	}
	if check.Name == "" {
		return errors.New("检查名称不能为空")
	}
	if check.ConnectionID == "" {
		return errors.New("检查连接不能为空")
	}
	if check.SQL == "" {
		return errors.New("检查SQL不能为空")
	}

	switch check.Mode {
	case string(models.CheckModeThreshold):
		if check.MinThreshold == nil || check.MaxThreshold == nil {
			return errors.New("字面阈值检查必须同时配置上下阈值")
		}
	case string(models.CheckModeThresholdSQL):
		if check.MinThresholdSQL == "" || check.MaxThresholdSQL == "" {
			return errors.New("SQL阈值检查必须同时配置上下阈值SQL")
		}
	default:
		return fmt.Errorf("不支持的检查模式: %s", check.Mode)
	}

	// 校验检查连接存在且具备标量查询能力
	if err := s.validateQueryableConnection(check.ConnectionID); err != nil {
		return err
	}
	if check.Mode == string(models.CheckModeThresholdSQL) {
		if thresholdID := check.ThresholdConnectionID(); thresholdID != check.ConnectionID {
			if err := s.validateQueryableConnection(thresholdID); err != nil {
				return err
			}
		}
	}

	if err := s.validateSchedule(check); err != nil {
		return err
	}

	// 校验谓词脚本
	if check.ScriptEnabled {
		if check.Script == "" {
			return errors.New("启用谓词脚本时脚本内容不能为空")
		}
		if err := s.predicate.Validate(check.Script); err != nil {
			return fmt.Errorf("谓词脚本校验失败: %w", err)
		}
	}

	return nil
}

// validateQueryableConnection 校验连接存在且支持标量SQL查询
func (s *CheckService) validateQueryableConnection(connectionID string) error {
	var conn models.Connection
	if err := s.db.First(&conn, "id = ?", connectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("连接 %s 不存在", connectionID)
		}
		return err
	}
	if !meta.IsScalarQueryable(conn.Type) {
		return NewUnsupportedConnectionTypeError(conn.Type, meta.ScalarQueryableTypes())
	}
	return nil
}

// validateSchedule 校验调度配置
func (s *CheckService) validateSchedule(check *models.QualityCheck) error {
	switch check.ScheduleType {
	case string(models.ScheduleTypeManual), "":
		return nil
	case string(models.ScheduleTypeOnce):
		if check.ScheduledTime == nil {
			return errors.New("一次性调度必须配置计划执行时间")
		}
	case string(models.ScheduleTypeInterval):
		if check.IntervalSeconds <= 0 {
			return errors.New("间隔时间必须大于0")
		}
	case string(models.ScheduleTypeCron):
		if check.CronExpression == "" {
			return errors.New("Cron表达式不能为空")
		}
		parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(check.CronExpression); err != nil {
			return fmt.Errorf("解析Cron表达式失败: %w", err)
		}
	default:
		return fmt.Errorf("不支持的调度类型: %s", check.ScheduleType)
	}
	return nil
}

// CalculateNextExecution 计算下次执行时间
func (s *CheckService) CalculateNextExecution(check *models.QualityCheck, lastExecution *time.Time) (*time.Time, error) {
	now := time.Now()
	if lastExecution != nil {
		now = *lastExecution
	}

	switch check.ScheduleType {
	case string(models.ScheduleTypeManual), "":
		// 手动触发，不设置下次执行时间
		return nil, nil

	case string(models.ScheduleTypeOnce):
		// 单次执行
		if check.ScheduledTime != nil && check.ScheduledTime.After(time.Now()) {
			return check.ScheduledTime, nil
		}
		return nil, nil

	case string(models.ScheduleTypeInterval):
		// 间隔执行
		if check.IntervalSeconds <= 0 {
			return nil, errors.New("间隔时间必须大于0")
		}
		nextTime := now.Add(time.Duration(check.IntervalSeconds) * time.Second)
		return &nextTime, nil

	case string(models.ScheduleTypeCron):
		// Cron表达式
		if check.CronExpression == "" {
			return nil, errors.New("Cron表达式不能为空")
		}
		parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		schedule, err := parser.Parse(check.CronExpression)
		if err != nil {
			return nil, fmt.Errorf("解析Cron表达式失败: %w", err)
		}
		nextTime := schedule.Next(now)
		return &nextTime, nil

	default:
		return nil, fmt.Errorf("不支持的调度类型: %s", check.ScheduleType)
	}
}

// === 检查执行 ===

// ExecuteCheck 执行质量检查任务，返回执行记录
// 阈值越界和谓词判定未通过计为检查失败，基础设施错误计为执行出错，均不返回error
func (s *CheckService) ExecuteCheck(ctx context.Context, id, triggerType string) (*models.CheckExecution, error) {
	var check models.QualityCheck
	if err := s.db.First(&check, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if triggerType == "" {
		triggerType = models.TriggerTypeManual
	}

	// 创建执行记录
	startTime := time.Now()
	execution := &models.CheckExecution{
		CheckID:       check.ID,
		TaskID:        check.Name,
		Description:   check.Description,
		ExecutionDate: startTime,
		Status:        models.ExecutionStatusRunning,
		TriggerType:   triggerType,
		StartTime:     startTime,
	}
	if err := s.db.Create(execution).Error; err != nil {
		return nil, fmt.Errorf("创建执行记录失败: %w", err)
	}

	result, runErr := s.runCheck(ctx, &check)
	status, errorType, errorMessage := s.resolveOutcome(ctx, &check, result, runErr)
	s.finishExecution(execution, &check, result, status, errorType, errorMessage)
	s.notifyExecution(ctx, &check, execution)
	s.reportExecution(&check, execution)

	return execution, nil
}

// runCheck 按检查模式调用引擎
func (s *CheckService) runCheck(ctx context.Context, check *models.QualityCheck) (*CheckResult, error) {
	var valueConn models.Connection
	if err := s.db.First(&valueConn, "id = ?", check.ConnectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("检查连接 %s 不存在", check.ConnectionID)
		}
		return nil, err
	}

	switch check.Mode {
	case string(models.CheckModeThreshold):
		if check.MinThreshold == nil || check.MaxThreshold == nil {
			return nil, errors.New("字面阈值检查缺少阈值配置")
		}
		return s.engine.RunThresholdCheck(ctx, &ThresholdCheckConfig{
			TaskID:       check.Name,
			Description:  check.Description,
			SQL:          check.SQL,
			MinThreshold: *check.MinThreshold,
			MaxThreshold: *check.MaxThreshold,
			Connection:   &valueConn,
		})

	case string(models.CheckModeThresholdSQL):
		config := &ThresholdSQLCheckConfig{
			TaskID:          check.Name,
			Description:     check.Description,
			SQL:             check.SQL,
			MinThresholdSQL: check.MinThresholdSQL,
			MaxThresholdSQL: check.MaxThresholdSQL,
			Connection:      &valueConn,
		}
		if thresholdID := check.ThresholdConnectionID(); thresholdID != check.ConnectionID {
			var thresholdConn models.Connection
			if err := s.db.First(&thresholdConn, "id = ?", thresholdID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, fmt.Errorf("阈值连接 %s 不存在", thresholdID)
				}
				return nil, err
			}
			config.ThresholdConnection = &thresholdConn
		}
		return s.engine.RunThresholdSQLCheck(ctx, config)

	default:
		return nil, fmt.Errorf("不支持的检查模式: %s", check.Mode)
	}
}

// resolveOutcome 解释引擎结果：阈值越界为检查失败，其余错误为执行出错，通过后执行谓词二次判定
func (s *CheckService) resolveOutcome(ctx context.Context, check *models.QualityCheck, result *CheckResult, runErr error) (status, errorType, errorMessage string) {
	if runErr != nil {
		if IsThresholdViolation(runErr) {
			return models.ExecutionStatusFailed, string(ErrorTypeThresholdViolation), runErr.Error()
		}
		if checkErr, ok := AsCheckError(runErr); ok {
			return models.ExecutionStatusError, string(checkErr.Type), checkErr.Error()
		}
		return models.ExecutionStatusError, "execution", runErr.Error()
	}

	// 阈值通过后执行谓词二次判定
	if check.ScriptEnabled && check.Script != "" {
		passed, err := s.predicate.Evaluate(ctx, check.Script, result)
		if err != nil {
			return models.ExecutionStatusError, "execution", fmt.Sprintf("谓词脚本执行失败: %v", err)
		}
		if !passed {
			return models.ExecutionStatusFailed, "", "谓词脚本判定未通过"
		}
	}

	return models.ExecutionStatusPassed, "", ""
}

// finishExecution 更新执行记录并累计检查任务统计
func (s *CheckService) finishExecution(execution *models.CheckExecution, check *models.QualityCheck, result *CheckResult, status, errorType, errorMessage string) {
	endTime := time.Now()
	duration := endTime.Sub(execution.StartTime).Milliseconds()

	execution.Status = status
	execution.ErrorType = errorType
	execution.ErrorMessage = errorMessage
	execution.EndTime = &endTime
	execution.Duration = duration

	updates := map[string]interface{}{
		"status":   status,
		"end_time": &endTime,
		"duration": duration,
	}
	if errorType != "" {
		updates["error_type"] = errorType
	}
	if errorMessage != "" {
		updates["error_message"] = errorMessage
	}

	if result != nil {
		execution.ExecutionDate = result.ExecutionDate
		execution.Result = &result.Result
		execution.MinThreshold = &result.MinThreshold
		execution.MaxThreshold = &result.MaxThreshold
		execution.WithinThreshold = result.WithinThreshold

		updates["execution_date"] = result.ExecutionDate
		updates["result"] = result.Result
		updates["min_threshold"] = result.MinThreshold
		updates["max_threshold"] = result.MaxThreshold
		updates["within_threshold"] = result.WithinThreshold
	}

	if err := s.db.Model(&models.CheckExecution{}).Where("id = ?", execution.ID).Updates(updates).Error; err != nil {
		slog.Error("更新执行记录失败", "execution_id", execution.ID, "error", err)
	}

	// 更新检查任务统计
	taskUpdates := map[string]interface{}{
		"last_executed":   &endTime,
		"execution_count": gorm.Expr("execution_count + 1"),
	}
	if status == models.ExecutionStatusPassed {
		taskUpdates["success_count"] = gorm.Expr("success_count + 1")
	} else {
		taskUpdates["failure_count"] = gorm.Expr("failure_count + 1")
	}

	if nextExec, err := s.CalculateNextExecution(check, nil); err == nil {
		taskUpdates["next_execution"] = nextExec
	}

	if err := s.db.Model(&models.QualityCheck{}).Where("id = ?", check.ID).Updates(taskUpdates).Error; err != nil {
		slog.Error("更新检查任务统计失败", "check_id", check.ID, "error", err)
	}
}

// notifyExecution 按通知配置分发检查结果
func (s *CheckService) notifyExecution(ctx context.Context, check *models.QualityCheck, execution *models.CheckExecution) {
	if s.notifier == nil || !check.NotifyEnabled {
		return
	}

	passed := execution.Status == models.ExecutionStatusPassed
	if passed && !check.NotifyOnSuccess {
		return
	}
	if !passed && !check.NotifyOnFailure {
		return
	}

	if err := s.notifier.NotifyExecution(ctx, check, execution); err != nil {
		slog.Error("发送检查通知失败", "check_id", check.ID, "execution_id", execution.ID, "error", err)
	}
}

// reportExecution 上报检查执行指标，未配置指标存储时为空操作
func (s *CheckService) reportExecution(check *models.QualityCheck, execution *models.CheckExecution) {
	if !monitor_client.Enabled() {
		return
	}

	monitor_client.PushCheckResultAsync(&monitor_client.CheckSample{
		CheckID:    check.ID,
		CheckName:  check.Name,
		Status:     execution.Status,
		Result:     execution.Result,
		DurationMs: execution.Duration,
		Timestamp:  execution.StartTime,
	})
}

// === 执行记录查询 ===

// GetExecutions 获取检查执行记录列表
func (s *CheckService) GetExecutions(checkID string, page, pageSize int, status string) ([]models.CheckExecution, int64, error) {
	query := s.db.Model(&models.CheckExecution{})

	if checkID != "" {
		query = query.Where("check_id = ?", checkID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var executions []models.CheckExecution
	offset := (page - 1) * pageSize
	if err := query.Order("start_time DESC").Offset(offset).Limit(pageSize).Find(&executions).Error; err != nil {
		return nil, 0, err
	}

	return executions, total, nil
}

// GetExecutionByID 根据ID获取执行记录
func (s *CheckService) GetExecutionByID(id string) (*models.CheckExecution, error) {
	var execution models.CheckExecution
	if err := s.db.First(&execution, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &execution, nil
}

// GetDueChecks 获取到期待执行的检查任务，供调度器轮询，可按调度类型过滤
func (s *CheckService) GetDueChecks(now time.Time, scheduleTypes ...string) ([]models.QualityCheck, error) {
	query := s.db.Where("is_enabled = ? AND next_execution IS NOT NULL AND next_execution <= ?", true, now)
	if len(scheduleTypes) > 0 {
		query = query.Where("schedule_type IN ?", scheduleTypes)
	}

	var checks []models.QualityCheck
	err := query.Order("next_execution ASC").Find(&checks).Error
	return checks, err
}

// GetScheduledChecks 获取启用且属于指定调度类型的检查任务，供调度器加载
func (s *CheckService) GetScheduledChecks(scheduleTypes ...string) ([]models.QualityCheck, error) {
	var checks []models.QualityCheck
	err := s.db.Where("is_enabled = ? AND schedule_type IN ?", true, scheduleTypes).Find(&checks).Error
	return checks, err
}

// GetStatistics 获取检查任务与执行统计
func (s *CheckService) GetStatistics() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalChecks, enabledChecks int64
	if err := s.db.Model(&models.QualityCheck{}).Count(&totalChecks).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.QualityCheck{}).Where("is_enabled = ?", true).Count(&enabledChecks).Error; err != nil {
		return nil, err
	}
	stats["total_checks"] = totalChecks
	stats["enabled_checks"] = enabledChecks

	modeDistribution := make(map[string]int64)
	for _, mode := range []string{string(models.CheckModeThreshold), string(models.CheckModeThresholdSQL)} {
		var count int64
		if err := s.db.Model(&models.QualityCheck{}).Where("mode = ?", mode).Count(&count).Error; err != nil {
			return nil, err
		}
		modeDistribution[mode] = count
	}
	stats["mode_distribution"] = modeDistribution

	var totalExecutions int64
	if err := s.db.Model(&models.CheckExecution{}).Count(&totalExecutions).Error; err != nil {
		return nil, err
	}
	stats["total_executions"] = totalExecutions

	statusDistribution := make(map[string]int64)
	for _, executionStatus := range []string{models.ExecutionStatusPassed, models.ExecutionStatusFailed, models.ExecutionStatusError} {
		var count int64
		if err := s.db.Model(&models.CheckExecution{}).Where("status = ?", executionStatus).Count(&count).Error; err != nil {
			return nil, err
		}
		statusDistribution[executionStatus] = count
	}
	stats["status_distribution"] = statusDistribution

	if totalExecutions > 0 {
		stats["pass_rate"] = float64(statusDistribution[models.ExecutionStatusPassed]) / float64(totalExecutions)
	} else {
		stats["pass_rate"] = 1.0
	}

	return stats, nil
}
