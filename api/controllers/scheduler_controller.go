/*
 * @module api/controllers/scheduler_controller
 * @description 检查调度器API控制器，提供调度器状态查询和重载接口
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow HTTP请求处理流程
 * @rules 调度器重载会重新装载全部启用的定时检查
 * @dependencies dataquality-service/service, github.com/go-chi/render
 * @refs api/routes.go
 */

package controllers

import (
	"net/http"

	"dataquality-service/service"
	"dataquality-service/service/scheduler"

	"github.com/go-chi/render"
)

// SchedulerController 调度器控制器
type SchedulerController struct {
	scheduler *scheduler.CheckScheduler
}

// NewSchedulerController 创建调度器控制器实例
func NewSchedulerController() *SchedulerController {
	return &SchedulerController{
		scheduler: service.GlobalCheckScheduler,
	}
}

// GetSchedulerStatus 获取调度器状态
// @Summary 获取调度器状态
// @Description 获取检查调度器的运行状态，包括已调度检查数量、运行中检查和分布式锁模式
// @Tags 检查调度器
// @Produce json
// @Success 200 {object} APIResponse "获取成功"
// @Router /quality/scheduler/status [get]
func (c *SchedulerController) GetSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	status := c.scheduler.GetStatus()
	render.JSON(w, r, SuccessResponse("获取调度器状态成功", status))
}

// ReloadScheduler 重载调度器
// @Summary 重载调度器
// @Description 重新装载全部启用的定时检查，用于外部修改数据库后手动刷新调度
// @Tags 检查调度器
// @Produce json
// @Success 200 {object} APIResponse "重载成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/scheduler/reload [post]
func (c *SchedulerController) ReloadScheduler(w http.ResponseWriter, r *http.Request) {
	if err := c.scheduler.ReloadScheduledChecks(); err != nil {
		render.JSON(w, r, InternalErrorResponse("重载调度器失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("重载调度器成功", c.scheduler.GetStatus()))
}
