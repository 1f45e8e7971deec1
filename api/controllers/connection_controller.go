/*
 * @module api/controllers/connection_controller
 * @description 数据连接控制器，提供连接的增删改查、配置校验、连通性测试和状态管理接口
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/connection_req.md
 * @stateFlow HTTP请求 -> 参数验证 -> 服务调用 -> 响应返回
 * @rules 连接配置在创建和更新时按类型定义校验，连通性测试不改变连接状态
 * @dependencies service/connection, service/models
 * @refs api/routes.go
 */

package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dataquality-service/service"
	"dataquality-service/service/connection"
	"dataquality-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ConnectionController 数据连接控制器
type ConnectionController struct {
	connectionService *connection.ConnectionService
}

// NewConnectionController 创建数据连接控制器
func NewConnectionController() *ConnectionController {
	return &ConnectionController{
		connectionService: service.GlobalConnectionService,
	}
}

// ConnectionCreateRequest 创建连接请求
type ConnectionCreateRequest struct {
	Name        string                 `json:"name" binding:"required" example:"warehouse_main"`
	Type        string                 `json:"type" binding:"required" example:"postgresql"`
	Description string                 `json:"description,omitempty" example:"数据仓库主库"`
	Config      map[string]interface{} `json:"config" binding:"required"` // 按连接类型校验的配置对象
	Status      string                 `json:"status,omitempty" example:"active"`
	CreatedBy   string                 `json:"created_by,omitempty" example:"admin"`
}

// ConnectionTestRequest 连通性测试请求（未保存的配置）
type ConnectionTestRequest struct {
	Type   string                 `json:"type" binding:"required" example:"postgresql"`
	Config map[string]interface{} `json:"config" binding:"required"`
}

// ConnectionStatusRequest 连接状态变更请求
type ConnectionStatusRequest struct {
	Status    string `json:"status" binding:"required" example:"inactive"`
	UpdatedBy string `json:"updated_by,omitempty" example:"admin"`
}

// CreateConnection 创建数据连接
// @Summary 创建数据连接
// @Description 创建新的数据连接，配置按连接类型定义校验
// @Description
// @Description **支持的连接类型:**
// @Description - postgresql / mysql: 关系型连接，可执行检查SQL
// @Description - redis / kafka / mqtt / webhook: 消息类连接，仅作为通知通道
// @Tags 数据连接
// @Accept json
// @Produce json
// @Param connection body ConnectionCreateRequest true "连接信息"
// @Success 200 {object} APIResponse{data=models.Connection} "创建成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /connections [post]
func (c *ConnectionController) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err))
		return
	}

	conn := &models.Connection{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Config:      models.JSONB(req.Config),
		Status:      req.Status,
		CreatedBy:   req.CreatedBy,
	}

	if err := c.connectionService.CreateConnection(conn); err != nil {
		render.JSON(w, r, BadRequestResponse("创建数据连接失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("创建数据连接成功", conn))
}

// GetConnections 获取数据连接列表
// @Summary 获取数据连接列表
// @Description 分页获取数据连接列表，支持按类型和状态筛选
// @Tags 数据连接
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页大小" default(10)
// @Param type query string false "连接类型" Enums(postgresql,mysql,redis,kafka,mqtt,webhook)
// @Param status query string false "连接状态" Enums(active,inactive)
// @Success 200 {object} PaginatedResponse{data=[]models.Connection} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /connections [get]
func (c *ConnectionController) GetConnections(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 || size > 100 {
		size = 10
	}
	connType := r.URL.Query().Get("type")
	status := r.URL.Query().Get("status")

	connections, total, err := c.connectionService.GetConnections(page, size, connType, status)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取数据连接列表失败", err))
		return
	}

	render.JSON(w, r, SuccessPaginatedResponse("获取数据连接列表成功", connections, total, page, size))
}

// GetConnection 获取数据连接详情
// @Summary 获取数据连接详情
// @Description 根据ID获取数据连接的详细信息
// @Tags 数据连接
// @Produce json
// @Param id path string true "连接ID"
// @Success 200 {object} APIResponse{data=models.Connection} "获取成功"
// @Failure 404 {object} APIResponse "连接不存在"
// @Router /connections/{id} [get]
func (c *ConnectionController) GetConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	conn, err := c.connectionService.GetConnectionByID(id)
	if err != nil {
		render.JSON(w, r, NotFoundResponse("数据连接不存在", nil))
		return
	}

	render.JSON(w, r, SuccessResponse("获取数据连接详情成功", conn))
}

// UpdateConnection 更新数据连接
// @Summary 更新数据连接
// @Description 更新数据连接信息，连接类型不允许修改，配置按类型重新校验
// @Tags 数据连接
// @Accept json
// @Produce json
// @Param id path string true "连接ID"
// @Param updates body map[string]interface{} true "更新字段"
// @Success 200 {object} APIResponse "更新成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 404 {object} APIResponse "连接不存在"
// @Router /connections/{id} [put]
func (c *ConnectionController) UpdateConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err))
		return
	}

	if err := c.connectionService.UpdateConnection(id, updates); err != nil {
		render.JSON(w, r, BadRequestResponse("更新数据连接失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("更新数据连接成功", nil))
}

// DeleteConnection 删除数据连接
// @Summary 删除数据连接
// @Description 删除数据连接，被质量检查引用的连接不允许删除
// @Tags 数据连接
// @Produce json
// @Param id path string true "连接ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 400 {object} APIResponse "连接被引用"
// @Failure 404 {object} APIResponse "连接不存在"
// @Router /connections/{id} [delete]
func (c *ConnectionController) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.connectionService.DeleteConnection(id); err != nil {
		render.JSON(w, r, BadRequestResponse("删除数据连接失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("删除数据连接成功", nil))
}

// SetConnectionStatus 设置连接状态
// @Summary 设置连接状态
// @Description 启用或停用数据连接，停用的连接不可执行检查和发送通知
// @Tags 数据连接
// @Accept json
// @Produce json
// @Param id path string true "连接ID"
// @Param status body ConnectionStatusRequest true "状态信息"
// @Success 200 {object} APIResponse "设置成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /connections/{id}/status [put]
func (c *ConnectionController) SetConnectionStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ConnectionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err))
		return
	}

	if err := c.connectionService.SetConnectionStatus(id, req.Status); err != nil {
		render.JSON(w, r, BadRequestResponse("设置连接状态失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("设置连接状态成功", nil))
}

// TestConnection 测试已保存连接
// @Summary 测试已保存连接的连通性
// @Description 对已保存的连接执行连通性测试，返回健康状态
// @Tags 数据连接
// @Produce json
// @Param id path string true "连接ID"
// @Success 200 {object} APIResponse{data=connection.HealthStatus} "测试完成"
// @Failure 404 {object} APIResponse "连接不存在"
// @Failure 500 {object} APIResponse "测试失败"
// @Router /connections/{id}/test [post]
func (c *ConnectionController) TestConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	status, err := c.connectionService.TestConnection(r.Context(), id)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("连接测试失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("连接测试完成", status))
}

// TestConnectionConfig 测试连接配置
// @Summary 测试未保存连接配置的连通性
// @Description 对请求中的连接配置执行连通性测试，不保存连接
// @Tags 数据连接
// @Accept json
// @Produce json
// @Param connection body ConnectionTestRequest true "连接配置"
// @Success 200 {object} APIResponse{data=connection.HealthStatus} "测试完成"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "测试失败"
// @Router /connections/test [post]
func (c *ConnectionController) TestConnectionConfig(w http.ResponseWriter, r *http.Request) {
	var req ConnectionTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err))
		return
	}

	conn := &models.Connection{
		Type:   req.Type,
		Config: models.JSONB(req.Config),
	}

	status, err := c.connectionService.TestConnectionConfig(r.Context(), conn)
	if err != nil {
		render.JSON(w, r, BadRequestResponse("连接测试失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("连接测试完成", status))
}
