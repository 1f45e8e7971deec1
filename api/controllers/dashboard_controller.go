/*
 * @module api/controllers/dashboard_controller
 * @description Dashboard统计数据控制器，提供检查、执行、连接的总览和关键指标数据
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式，数据聚合展示
 * @dependencies dataquality-service/service, github.com/go-chi/render
 * @refs api/routes.go
 */

package controllers

import (
	"database/sql"
	"net/http"
	"time"

	"dataquality-service/service"
	"dataquality-service/service/models"

	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// DashboardController Dashboard控制器
type DashboardController struct {
	db *gorm.DB
}

// NewDashboardController 创建Dashboard控制器实例
func NewDashboardController() *DashboardController {
	return &DashboardController{
		db: service.DB,
	}
}

// DashboardOverviewResponse Dashboard总览响应
type DashboardOverviewResponse struct {
	// 质量检查统计
	CheckStats CheckOverviewStats `json:"check_stats"`

	// 执行记录统计
	ExecutionStats ExecutionOverviewStats `json:"execution_stats"`

	// 数据连接统计
	ConnectionStats ConnectionOverviewStats `json:"connection_stats"`

	// 更新时间
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckOverviewStats 质量检查统计
type CheckOverviewStats struct {
	TotalChecks       int64               `json:"total_checks"`       // 检查总数
	EnabledChecks     int64               `json:"enabled_checks"`     // 启用数
	DisabledChecks    int64               `json:"disabled_checks"`    // 停用数
	ModeBreakdown     []ModeCount         `json:"mode_breakdown"`     // 检查模式分布
	ScheduleBreakdown []ScheduleTypeCount `json:"schedule_breakdown"` // 调度类型分布
	RecentChecks      []RecentCheckInfo   `json:"recent_checks"`      // 最近创建的检查
	TopFailingChecks  []CheckFailureStats `json:"top_failing_checks"` // 失败次数排行
}

// ExecutionOverviewStats 执行记录统计
type ExecutionOverviewStats struct {
	TotalExecutions    int64                  `json:"total_executions"`     // 执行总数
	TodayExecutions    int64                  `json:"today_executions"`     // 今日执行次数
	TodayPassRate      float64                `json:"today_pass_rate"`      // 今日通过率
	AvgDurationMs      float64                `json:"avg_duration_ms"`      // 平均执行时长(毫秒)
	StatusBreakdown    []ExecutionStatusCount `json:"status_breakdown"`     // 执行状态分布
	RecentExecutions   []RecentExecutionInfo  `json:"recent_executions"`    // 最近执行记录
	ExecutionTrend     []ExecutionTrendPoint  `json:"execution_trend"`      // 执行趋势数据
	FailureReasons     []FailureReasonCount   `json:"failure_reasons"`      // 失败原因统计
}

// ConnectionOverviewStats 数据连接统计
type ConnectionOverviewStats struct {
	TotalConnections    int64                 `json:"total_connections"`    // 连接总数
	ActiveConnections   int64                 `json:"active_connections"`   // 活跃连接
	InactiveConnections int64                 `json:"inactive_connections"` // 停用连接
	TypeBreakdown       []ConnectionTypeCount `json:"type_breakdown"`       // 连接类型分布
}

// 辅助结构体定义
type ModeCount struct {
	Mode  string `json:"mode"`
	Count int64  `json:"count"`
}

type ScheduleTypeCount struct {
	ScheduleType string `json:"schedule_type"`
	Count        int64  `json:"count"`
}

type ConnectionTypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type ExecutionStatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type RecentCheckInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mode      string    `json:"mode"`
	IsEnabled bool      `json:"is_enabled"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

type CheckFailureStats struct {
	CheckID        string `json:"check_id"`
	CheckName      string `json:"check_name"`
	FailureCount   int64  `json:"failure_count"`
	ExecutionCount int64  `json:"execution_count"`
}

type RecentExecutionInfo struct {
	ExecutionID  string     `json:"execution_id"`
	CheckID      string     `json:"check_id"`
	TaskID       string     `json:"task_id"`
	Status       string     `json:"status"`
	Result       *float64   `json:"result"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	ErrorMessage *string    `json:"error_message"`
}

type ExecutionTrendPoint struct {
	Date        string `json:"date"`
	PassedCount int64  `json:"passed_count"`
	FailedCount int64  `json:"failed_count"`
	ErrorCount  int64  `json:"error_count"`
}

type FailureReasonCount struct {
	Reason string `json:"reason"`
	Count  int64  `json:"count"`
}

// GetDashboardOverview 获取Dashboard总览数据
// @Summary 获取Dashboard总览数据
// @Description 获取质量检查、执行记录和数据连接的统计数据和关键指标
// @Tags Dashboard
// @Produce json
// @Success 200 {object} APIResponse{data=DashboardOverviewResponse} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /dashboard/overview [get]
func (c *DashboardController) GetDashboardOverview(w http.ResponseWriter, r *http.Request) {
	overview := DashboardOverviewResponse{
		CheckStats:      c.getCheckStats(),
		ExecutionStats:  c.getExecutionStats(),
		ConnectionStats: c.getConnectionStats(),
		UpdatedAt:       time.Now(),
	}

	render.JSON(w, r, SuccessResponse("获取Dashboard总览数据成功", overview))
}

// getCheckStats 获取质量检查统计数据
func (c *DashboardController) getCheckStats() CheckOverviewStats {
	stats := CheckOverviewStats{
		ModeBreakdown:     []ModeCount{},
		ScheduleBreakdown: []ScheduleTypeCount{},
		RecentChecks:      []RecentCheckInfo{},
		TopFailingChecks:  []CheckFailureStats{},
	}

	// 检查总数和启停状态统计
	c.db.Model(&models.QualityCheck{}).Count(&stats.TotalChecks)
	c.db.Model(&models.QualityCheck{}).Where("is_enabled = ?", true).Count(&stats.EnabledChecks)
	c.db.Model(&models.QualityCheck{}).Where("is_enabled = ?", false).Count(&stats.DisabledChecks)

	// 检查模式分布
	c.db.Model(&models.QualityCheck{}).
		Select("mode, COUNT(*) as count").
		Group("mode").
		Find(&stats.ModeBreakdown)

	// 调度类型分布
	c.db.Model(&models.QualityCheck{}).
		Select("schedule_type, COUNT(*) as count").
		Group("schedule_type").
		Find(&stats.ScheduleBreakdown)

	// 最近创建的检查 (前5条)
	c.db.Model(&models.QualityCheck{}).
		Select("id, name, mode, is_enabled, created_at, created_by").
		Order("created_at DESC").
		Limit(5).
		Find(&stats.RecentChecks)

	// 失败次数排行 (前10个)
	c.db.Model(&models.QualityCheck{}).
		Select("id as check_id, name as check_name, failure_count, execution_count").
		Where("failure_count > 0").
		Order("failure_count DESC").
		Limit(10).
		Find(&stats.TopFailingChecks)

	return stats
}

// getExecutionStats 获取执行记录统计数据
func (c *DashboardController) getExecutionStats() ExecutionOverviewStats {
	stats := ExecutionOverviewStats{
		StatusBreakdown:    []ExecutionStatusCount{},
		RecentExecutions:   []RecentExecutionInfo{},
		ExecutionTrend:     []ExecutionTrendPoint{},
		FailureReasons:     []FailureReasonCount{},
	}

	// 执行总数
	c.db.Model(&models.CheckExecution{}).Count(&stats.TotalExecutions)

	// 今日执行统计
	today := time.Now().Format("2006-01-02")
	c.db.Model(&models.CheckExecution{}).
		Where("DATE(start_time) = ?", today).
		Count(&stats.TodayExecutions)

	// 今日通过率
	var todayPassed int64
	c.db.Model(&models.CheckExecution{}).
		Where("DATE(start_time) = ? AND status = ?", today, models.ExecutionStatusPassed).
		Count(&todayPassed)
	if stats.TodayExecutions > 0 {
		stats.TodayPassRate = float64(todayPassed) / float64(stats.TodayExecutions) * 100
	}

	// 平均执行时长
	var avgDuration sql.NullFloat64
	c.db.Model(&models.CheckExecution{}).
		Select("AVG(duration)").
		Where("end_time IS NOT NULL").
		Scan(&avgDuration)
	if avgDuration.Valid {
		stats.AvgDurationMs = avgDuration.Float64
	}

	// 执行状态分布
	c.db.Model(&models.CheckExecution{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&stats.StatusBreakdown)

	// 最近执行记录 (前10条)
	c.db.Model(&models.CheckExecution{}).
		Select("id as execution_id, check_id, task_id, status, result, start_time, end_time, error_message").
		Order("start_time DESC").
		Limit(10).
		Find(&stats.RecentExecutions)

	// 执行趋势数据 (最近7天)
	c.db.Model(&models.CheckExecution{}).
		Select("DATE(start_time) as date, COUNT(CASE WHEN status = 'passed' THEN 1 END) as passed_count, COUNT(CASE WHEN status = 'failed' THEN 1 END) as failed_count, COUNT(CASE WHEN status = 'error' THEN 1 END) as error_count").
		Where("start_time >= ?", time.Now().AddDate(0, 0, -7)).
		Group("DATE(start_time)").
		Order("date ASC").
		Find(&stats.ExecutionTrend)

	// 失败原因统计 (前5个)
	c.db.Model(&models.CheckExecution{}).
		Select("SUBSTRING(error_message FROM 1 FOR 50) as reason, COUNT(*) as count").
		Where("status IN ? AND error_message IS NOT NULL AND error_message <> ''", []string{models.ExecutionStatusFailed, models.ExecutionStatusError}).
		Group("SUBSTRING(error_message FROM 1 FOR 50)").
		Order("count DESC").
		Limit(5).
		Find(&stats.FailureReasons)

	return stats
}

// getConnectionStats 获取数据连接统计数据
func (c *DashboardController) getConnectionStats() ConnectionOverviewStats {
	stats := ConnectionOverviewStats{
		TypeBreakdown: []ConnectionTypeCount{},
	}

	// 连接总数和状态统计
	c.db.Model(&models.Connection{}).Count(&stats.TotalConnections)
	c.db.Model(&models.Connection{}).Where("status = ?", "active").Count(&stats.ActiveConnections)
	c.db.Model(&models.Connection{}).Where("status = ?", "inactive").Count(&stats.InactiveConnections)

	// 连接类型分布
	c.db.Model(&models.Connection{}).
		Select("type, COUNT(*) as count").
		Group("type").
		Find(&stats.TypeBreakdown)

	return stats
}

// GetCheckStats 单独获取质量检查统计
// @Summary 获取质量检查统计数据
// @Description 获取质量检查的详细统计信息
// @Tags Dashboard
// @Produce json
// @Success 200 {object} APIResponse{data=CheckOverviewStats} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /dashboard/check-stats [get]
func (c *DashboardController) GetCheckStats(w http.ResponseWriter, r *http.Request) {
	stats := c.getCheckStats()
	render.JSON(w, r, SuccessResponse("获取质量检查统计数据成功", stats))
}

// GetExecutionStats 单独获取执行记录统计
// @Summary 获取执行记录统计数据
// @Description 获取执行记录的详细统计信息
// @Tags Dashboard
// @Produce json
// @Success 200 {object} APIResponse{data=ExecutionOverviewStats} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /dashboard/execution-stats [get]
func (c *DashboardController) GetExecutionStats(w http.ResponseWriter, r *http.Request) {
	stats := c.getExecutionStats()
	render.JSON(w, r, SuccessResponse("获取执行记录统计数据成功", stats))
}

// GetConnectionStats 单独获取数据连接统计
// @Summary 获取数据连接统计数据
// @Description 获取数据连接的详细统计信息
// @Tags Dashboard
// @Produce json
// @Success 200 {object} APIResponse{data=ConnectionOverviewStats} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /dashboard/connection-stats [get]
func (c *DashboardController) GetConnectionStats(w http.ResponseWriter, r *http.Request) {
	stats := c.getConnectionStats()
	render.JSON(w, r, SuccessResponse("获取数据连接统计数据成功", stats))
}
