package controllers

import (
	"net/http"

	"dataquality-service/service/connection"
	"dataquality-service/service/meta"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type MetaController struct {
}

func NewMetaController() *MetaController {
	return &MetaController{}
}

// @Summary 获取所有连接类型元数据
// @Description 获取所有连接类型定义，包括配置字段、是否支持标量查询和示例配置
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=map[string]meta.ConnectionTypeDefinition}
// @Failure 500 {object} APIResponse
// @Router /meta/connections/types [get]
func (c *MetaController) GetConnectionTypes(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("获取连接类型元数据成功", meta.ConnectionTypes))
}

// @Summary 获取指定连接类型的示例配置
// @Description 获取指定连接类型的示例配置，用于前端表单预填
// @Tags 元数据
// @Produce json
// @Param type path string true "连接类型"
// @Success 200 {object} APIResponse{data=[]meta.ConnectionExample}
// @Failure 400 {object} APIResponse
// @Router /meta/connections/types/{type}/examples [get]
func (c *MetaController) GetConnectionExamples(w http.ResponseWriter, r *http.Request) {
	connType := chi.URLParam(r, "type")

	examples, err := connection.GetTypeService().GetConnectionExamples(connType)
	if err != nil {
		render.JSON(w, r, BadRequestResponse("获取连接示例配置失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("获取连接示例配置成功", examples))
}

// @Summary 获取质量检查元数据
// @Description 获取质量检查相关元数据，包括检查模式、调度类型、执行状态、触发类型和错误类型
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=map[string]interface{}}
// @Failure 500 {object} APIResponse
// @Router /meta/quality-checks [get]
func (c *MetaController) GetQualityCheckMeta(w http.ResponseWriter, r *http.Request) {
	qualityCheckMeta := map[string]interface{}{
		"check_modes":                meta.GetCheckModes(),
		"schedule_types":             meta.GetScheduleTypes(),
		"execution_statuses":         meta.GetExecutionStatuses(),
		"trigger_types":              meta.GetTriggerTypes(),
		"error_types":                meta.GetCheckErrorTypes(),
		"queryable_connection_types": connection.GetTypeService().GetSupportedTypes(),
	}
	render.JSON(w, r, SuccessResponse("获取质量检查元数据成功", qualityCheckMeta))
}
