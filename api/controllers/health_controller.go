/*
 * @module api/controllers/health_controller
 * @description 健康检查控制器，提供存活探针和依赖就绪探针
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow HTTP请求处理流程
 * @rules /health仅报告进程存活，/ready额外校验数据库连通性，供容器编排和负载均衡使用
 * @dependencies gorm.io/gorm
 * @refs api/routes.go, service/init.go
 */

package controllers

import (
	"net/http"
	"time"

	"dataquality-service/service"

	"github.com/go-chi/render"
	"gorm.io/gorm"
)

const serviceVersion = "1.0.0"

// HealthController 健康检查控制器
type HealthController struct {
	db *gorm.DB
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController() *HealthController {
	return &HealthController{db: service.DB}
}

// HealthResponse 健康检查响应结构
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"1.0.0"`
	Service   string    `json:"service" example:"dataquality-service"`
	Detail    string    `json:"detail,omitempty" example:"数据库连接异常"`
}

func newHealthResponse(status string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Service:   "dataquality-service",
	}
}

// Health 存活检查
// @Summary 存活检查
// @Description 检查服务进程是否存活
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, newHealthResponse("ok"))
}

// Ready 就绪检查
// @Summary 就绪检查
// @Description 检查服务依赖是否就绪，数据库不可达时返回503
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	if err := c.pingDatabase(r); err != nil {
		response := newHealthResponse("unavailable")
		response.Detail = "数据库连接异常"
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response)
		return
	}

	render.JSON(w, r, newHealthResponse("ready"))
}

// pingDatabase 校验数据库连通性
func (c *HealthController) pingDatabase(r *http.Request) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(r.Context())
}
