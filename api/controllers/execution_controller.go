/*
 * @module api/controllers/execution_controller
 * @description 检查执行记录API控制器，提供执行记录的查询和详情接口
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式，执行记录只读
 * @dependencies dataquality-service/service, github.com/go-chi/chi/v5
 * @refs api/routes.go
 */

package controllers

import (
	"net/http"
	"strconv"

	"dataquality-service/service"
	"dataquality-service/service/quality"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ExecutionController 执行记录控制器
type ExecutionController struct {
	checkService *quality.CheckService
}

// NewExecutionController 创建执行记录控制器实例
func NewExecutionController() *ExecutionController {
	return &ExecutionController{
		checkService: service.GlobalCheckService,
	}
}

// GetExecutions 获取执行记录列表
// @Summary 获取执行记录列表
// @Description 分页获取检查执行记录，支持按检查ID和执行状态过滤
// @Tags 执行记录
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Param check_id query string false "质量检查ID"
// @Param status query string false "执行状态" Enums(passed,failed,error)
// @Success 200 {object} PaginatedResponse{data=[]models.CheckExecution} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/executions [get]
func (c *ExecutionController) GetExecutions(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	size := 10
	if s := r.URL.Query().Get("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 && parsed <= 100 {
			size = parsed
		}
	}

	checkID := r.URL.Query().Get("check_id")
	status := r.URL.Query().Get("status")

	executions, total, err := c.checkService.GetExecutions(checkID, page, size, status)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取执行记录列表失败", err))
		return
	}

	render.JSON(w, r, SuccessPaginatedResponse("获取执行记录列表成功", executions, total, page, size))
}

// GetExecution 获取执行记录详情
// @Summary 获取执行记录详情
// @Description 根据ID获取单条执行记录的详细信息，包括检查值、阈值快照和错误信息
// @Tags 执行记录
// @Produce json
// @Param id path string true "执行记录ID"
// @Success 200 {object} APIResponse{data=models.CheckExecution} "获取成功"
// @Failure 404 {object} APIResponse "执行记录不存在"
// @Router /quality/executions/{id} [get]
func (c *ExecutionController) GetExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	execution, err := c.checkService.GetExecutionByID(id)
	if err != nil {
		render.JSON(w, r, NotFoundResponse("执行记录不存在", err))
		return
	}

	render.JSON(w, r, SuccessResponse("获取执行记录详情成功", execution))
}
