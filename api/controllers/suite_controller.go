/*
 * @module api/controllers/suite_controller
 * @description 质量检查套件API控制器，支持YAML套件内容导入和服务端文件装载
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow 解析套件 -> 解析连接引用 -> 批量导入 -> 刷新调度器
 * @rules 套件按检查名称识别已有任务，update_existing控制覆盖行为
 * @dependencies dataquality-service/service, dataquality-service/service/suite
 * @refs api/routes.go
 */

package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"dataquality-service/service"
	"dataquality-service/service/models"
	"dataquality-service/service/quality"
	"dataquality-service/service/scheduler"
	"dataquality-service/service/suite"

	"github.com/go-chi/render"
)

// SuiteController 套件控制器
type SuiteController struct {
	suiteLoader  *suite.SuiteLoader
	checkService *quality.CheckService
	scheduler    *scheduler.CheckScheduler
}

// NewSuiteController 创建套件控制器实例
func NewSuiteController() *SuiteController {
	return &SuiteController{
		suiteLoader:  service.GlobalSuiteLoader,
		checkService: service.GlobalCheckService,
		scheduler:    service.GlobalCheckScheduler,
	}
}

// SuiteImportRequest 套件导入请求
type SuiteImportRequest struct {
	YAML           string `json:"yaml" binding:"required" example:"suite: 成本检查\nchecks:\n  - name: 日成本非负\n    connection: warehouse\n    sql: SELECT COUNT(*) FROM costs WHERE amount < 0\n    min_threshold: 0\n    max_threshold: 0"` // 套件YAML内容
	UpdateExisting bool   `json:"update_existing" example:"false"`                                                                                                                                                                              // 是否覆盖同名检查
}

// SuiteLoadRequest 套件文件装载请求
type SuiteLoadRequest struct {
	Directory      string   `json:"directory" example:"./examples/quality_suite"` // 套件目录，装载目录下全部YAML文件
	Paths          []string `json:"paths" example:"./examples/quality_suite/costs.yaml"`
	UpdateExisting bool     `json:"update_existing" example:"false"`
}

// ImportSuite 导入套件内容
// @Summary 导入质量检查套件
// @Description 解析请求中的套件YAML内容并批量导入质量检查任务
// @Description
// @Description **套件格式:**
// @Description - suite: 套件名称
// @Description - checks: 检查定义列表，连接可按名称(connection)或ID(connection_id)引用
// @Description
// @Description **导入行为:**
// @Description - 按检查名称识别已有任务，update_existing为true时覆盖，否则跳过
// @Description - 导入结果包含新建、更新、跳过、失败数量和失败原因
// @Tags 检查套件
// @Accept json
// @Produce json
// @Param request body SuiteImportRequest true "套件导入请求"
// @Success 200 {object} APIResponse{data=quality.ImportResult} "导入完成"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /quality/suites/import [post]
func (c *SuiteController) ImportSuite(w http.ResponseWriter, r *http.Request) {
	var req SuiteImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err))
		return
	}

	if req.YAML == "" {
		render.JSON(w, r, BadRequestResponse("套件YAML内容不能为空", nil))
		return
	}

	suiteFile, err := suite.ParseSuite([]byte(req.YAML))
	if err != nil {
		render.JSON(w, r, BadRequestResponse("解析套件失败", err))
		return
	}

	checks, err := c.suiteLoader.ResolveChecks(suiteFile)
	if err != nil {
		render.JSON(w, r, BadRequestResponse("解析套件连接引用失败", err))
		return
	}

	result := c.checkService.ImportChecks(checks, req.UpdateExisting)
	c.reloadScheduler()

	render.JSON(w, r, SuccessResponse("套件导入完成", result))
}

// LoadSuiteFiles 装载服务端套件文件
// @Summary 装载服务端套件文件
// @Description 从服务端文件系统装载套件YAML文件并批量导入质量检查任务
// @Description
// @Description **装载方式(二选一):**
// @Description - directory: 装载目录下全部 .yaml/.yml 文件
// @Description - paths: 装载指定的文件列表
// @Tags 检查套件
// @Accept json
// @Produce json
// @Param request body SuiteLoadRequest true "套件装载请求"
// @Success 200 {object} APIResponse{data=quality.ImportResult} "装载完成"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /quality/suites/load [post]
func (c *SuiteController) LoadSuiteFiles(w http.ResponseWriter, r *http.Request) {
	var req SuiteLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err))
		return
	}

	var checks []*models.QualityCheck
	var err error
	switch {
	case req.Directory != "":
		checks, err = c.suiteLoader.LoadDirectory(req.Directory)
	case len(req.Paths) > 0:
		checks, err = c.suiteLoader.LoadList(req.Paths)
	default:
		render.JSON(w, r, BadRequestResponse("必须指定套件目录或文件列表", nil))
		return
	}
	if err != nil {
		render.JSON(w, r, BadRequestResponse("装载套件文件失败", err))
		return
	}

	result := c.checkService.ImportChecks(checks, req.UpdateExisting)
	c.reloadScheduler()

	render.JSON(w, r, SuccessResponse("套件装载完成", result))
}

// reloadScheduler 导入后刷新调度器，保证新任务进入调度
func (c *SuiteController) reloadScheduler() {
	if c.scheduler == nil {
		return
	}
	if err := c.scheduler.ReloadScheduledChecks(); err != nil {
		slog.Error("刷新检查调度器失败", "error", err)
	}
}
