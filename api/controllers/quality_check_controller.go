/*
 * @module api/controllers/quality_check_controller
 * @description 质量检查控制器，提供检查任务的增删改查、启停、手动执行和执行记录查询接口
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/quality_check_req.md
 * @stateFlow HTTP请求 -> 参数验证 -> 服务调用 -> 调度器同步 -> 响应返回
 * @rules 检查定义变更后同步刷新调度器，手动执行不受检查启停状态限制
 * @dependencies service/quality, service/scheduler, service/models
 * @refs api/routes.go
 */

package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"dataquality-service/service"
	"dataquality-service/service/models"
	"dataquality-service/service/quality"
	"dataquality-service/service/scheduler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// QualityCheckController 质量检查控制器
type QualityCheckController struct {
	checkService *quality.CheckService
	scheduler    *scheduler.CheckScheduler
}

// NewQualityCheckController 创建质量检查控制器
func NewQualityCheckController() *QualityCheckController {
	return &QualityCheckController{
		checkService: service.GlobalCheckService,
		scheduler:    service.GlobalCheckScheduler,
	}
}

// reloadScheduler 检查定义变更后刷新调度器
func (c *QualityCheckController) reloadScheduler() {
	if c.scheduler == nil {
		return
	}
	if err := c.scheduler.ReloadScheduledChecks(); err != nil {
		slog.Error("刷新检查调度器失败", "error", err)
	}
}

// CreateCheck 创建质量检查任务
// @Summary 创建质量检查任务
// @Description 创建新的质量检查任务
// @Description
// @Description **支持的检查模式:**
// @Description - threshold: 检查SQL的标量结果与字面阈值区间比较
// @Description - threshold_sql: 阈值上下限由SQL计算，支持独立的阈值连接
// @Description
// @Description **支持的调度类型:**
// @Description - cron: cron表达式调度
// @Description - interval: 固定间隔调度
// @Description - once: 指定时间执行一次
// @Description - manual: 仅手动触发
// @Tags 质量检查
// @Accept json
// @Produce json
// @Param check body models.QualityCheck true "检查任务定义"
// @Success 200 {object} APIResponse{data=models.QualityCheck} "创建成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/checks [post]
func (c *QualityCheckController) CreateCheck(w http.ResponseWriter, r *http.Request) {
	var check models.QualityCheck
	if err := render.DecodeJSON(r.Body, &check); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	if err := c.checkService.CreateCheck(&check); err != nil {
		render.JSON(w, r, BadRequestResponse("创建质量检查失败", err))
		return
	}

	c.reloadScheduler()
	render.JSON(w, r, SuccessResponse("创建质量检查成功", check))
}

// GetChecks 获取质量检查任务列表
// @Summary 获取质量检查任务列表
// @Description 分页获取质量检查任务列表，支持按模式、连接和启用状态筛选
// @Tags 质量检查
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页大小" default(10)
// @Param mode query string false "检查模式" Enums(threshold,threshold_sql)
// @Param connection_id query string false "连接ID"
// @Param enabled query bool false "是否启用"
// @Success 200 {object} PaginatedResponse{data=[]models.QualityCheck} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/checks [get]
func (c *QualityCheckController) GetChecks(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 || size > 100 {
		size = 10
	}
	mode := r.URL.Query().Get("mode")
	connectionID := r.URL.Query().Get("connection_id")

	var enabled *bool
	if enabledStr := r.URL.Query().Get("enabled"); enabledStr != "" {
		if value, err := strconv.ParseBool(enabledStr); err == nil {
			enabled = &value
		}
	}

	checks, total, err := c.checkService.GetChecks(page, size, mode, connectionID, enabled)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取质量检查列表失败", err))
		return
	}

	render.JSON(w, r, SuccessPaginatedResponse("获取质量检查列表成功", checks, total, page, size))
}

// GetCheck 获取质量检查任务详情
// @Summary 获取质量检查任务详情
// @Description 根据ID获取质量检查任务的详细信息，包含关联连接
// @Tags 质量检查
// @Produce json
// @Param id path string true "检查ID"
// @Success 200 {object} APIResponse{data=models.QualityCheck} "获取成功"
// @Failure 404 {object} APIResponse "检查不存在"
// @Router /quality/checks/{id} [get]
func (c *QualityCheckController) GetCheck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	check, err := c.checkService.GetCheckByID(id)
	if err != nil {
		render.JSON(w, r, NotFoundResponse("质量检查不存在", nil))
		return
	}

	render.JSON(w, r, SuccessResponse("获取质量检查详情成功", check))
}

// UpdateCheck 更新质量检查任务
// @Summary 更新质量检查任务
// @Description 更新质量检查任务定义，执行统计字段不允许外部更新
// @Tags 质量检查
// @Accept json
// @Produce json
// @Param id path string true "检查ID"
// @Param updates body map[string]interface{} true "更新字段"
// @Success 200 {object} APIResponse "更新成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 404 {object} APIResponse "检查不存在"
// @Router /quality/checks/{id} [put]
func (c *QualityCheckController) UpdateCheck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	if err := c.checkService.UpdateCheck(id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, NotFoundResponse("质量检查不存在", nil))
			return
		}
		render.JSON(w, r, BadRequestResponse("更新质量检查失败", err))
		return
	}

	c.reloadScheduler()
	render.JSON(w, r, SuccessResponse("更新质量检查成功", nil))
}

// DeleteCheck 删除质量检查任务
// @Summary 删除质量检查任务
// @Description 删除质量检查任务及其全部执行记录
// @Tags 质量检查
// @Produce json
// @Param id path string true "检查ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 404 {object} APIResponse "检查不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/checks/{id} [delete]
func (c *QualityCheckController) DeleteCheck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.checkService.DeleteCheck(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, NotFoundResponse("质量检查不存在", nil))
			return
		}
		render.JSON(w, r, InternalErrorResponse("删除质量检查失败", err))
		return
	}

	if c.scheduler != nil {
		if err := c.scheduler.RemoveScheduledCheck(id); err != nil {
			slog.Error("从调度器移除检查失败", "check_id", id, "error", err)
		}
	}
	render.JSON(w, r, SuccessResponse("删除质量检查成功", nil))
}

// EnableCheck 启用质量检查任务
// @Summary 启用质量检查任务
// @Description 启用质量检查任务并重新计算下次执行时间
// @Tags 质量检查
// @Produce json
// @Param id path string true "检查ID"
// @Success 200 {object} APIResponse "启用成功"
// @Failure 404 {object} APIResponse "检查不存在"
// @Router /quality/checks/{id}/enable [post]
func (c *QualityCheckController) EnableCheck(w http.ResponseWriter, r *http.Request) {
	c.setCheckEnabled(w, r, true, "启用质量检查成功", "启用质量检查失败")
}

// DisableCheck 停用质量检查任务
// @Summary 停用质量检查任务
// @Description 停用质量检查任务，停用后不再被调度，仍可手动执行
// @Tags 质量检查
// @Produce json
// @Param id path string true "检查ID"
// @Success 200 {object} APIResponse "停用成功"
// @Failure 404 {object} APIResponse "检查不存在"
// @Router /quality/checks/{id}/disable [post]
func (c *QualityCheckController) DisableCheck(w http.ResponseWriter, r *http.Request) {
	c.setCheckEnabled(w, r, false, "停用质量检查成功", "停用质量检查失败")
}

func (c *QualityCheckController) setCheckEnabled(w http.ResponseWriter, r *http.Request, enabled bool, successMsg, failureMsg string) {
	id := chi.URLParam(r, "id")

	if err := c.checkService.SetCheckEnabled(id, enabled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, NotFoundResponse("质量检查不存在", nil))
			return
		}
		render.JSON(w, r, InternalErrorResponse(failureMsg, err))
		return
	}

	c.reloadScheduler()
	render.JSON(w, r, SuccessResponse(successMsg, nil))
}

// ExecuteCheck 手动执行质量检查
// @Summary 手动执行质量检查
// @Description 立即执行一次质量检查并返回执行记录，不受检查启停状态限制
// @Description
// @Description **执行状态说明:**
// @Description - passed: 标量结果在阈值区间内
// @Description - failed: 阈值越界
// @Description - error: 连接类型不支持、结果形状非法或执行出错
// @Tags 质量检查
// @Produce json
// @Param id path string true "检查ID"
// @Success 200 {object} APIResponse{data=models.CheckExecution} "执行完成"
// @Failure 404 {object} APIResponse "检查不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/checks/{id}/execute [post]
func (c *QualityCheckController) ExecuteCheck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	execution, err := c.checkService.ExecuteCheck(r.Context(), id, models.TriggerTypeManual)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, NotFoundResponse("质量检查不存在", nil))
			return
		}
		render.JSON(w, r, InternalErrorResponse("执行质量检查失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("质量检查执行完成", execution))
}

// GetCheckExecutions 获取检查的执行记录列表
// @Summary 获取检查的执行记录列表
// @Description 分页获取指定检查的执行记录，按执行时间倒序
// @Tags 质量检查
// @Produce json
// @Param id path string true "检查ID"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页大小" default(10)
// @Param status query string false "执行状态" Enums(running,passed,failed,error)
// @Success 200 {object} PaginatedResponse{data=[]models.CheckExecution} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/checks/{id}/executions [get]
func (c *QualityCheckController) GetCheckExecutions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 || size > 100 {
		size = 10
	}
	status := r.URL.Query().Get("status")

	executions, total, err := c.checkService.GetExecutions(id, page, size, status)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取执行记录列表失败", err))
		return
	}

	render.JSON(w, r, SuccessPaginatedResponse("获取执行记录列表成功", executions, total, page, size))
}

// GetStatistics 获取质量检查统计信息
// @Summary 获取质量检查统计信息
// @Description 获取检查任务总数、启用数量、模式分布、执行总数和执行状态分布
// @Tags 质量检查
// @Produce json
// @Success 200 {object} APIResponse "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/statistics [get]
func (c *QualityCheckController) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := c.checkService.GetStatistics()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取质量检查统计信息失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("获取质量检查统计信息成功", stats))
}
