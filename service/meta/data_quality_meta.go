/*
 * @module service/meta/data_quality_meta
 * @description 质量检查相关元数据定义，包括检查模式、调度类型、执行状态、触发类型和错误类型
 * @architecture 元数据层
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow 静态元数据定义
 * @rules 元数据编码与 models 包常量保持一致，供前端表单和状态展示使用
 * @refs service/models/quality_check.go, service/models/check_execution.go
 */

package meta

// CheckModeMeta 检查模式定义
type CheckModeMeta struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CheckModes 检查模式元数据
var CheckModes = []CheckModeMeta{
	{
		Code:        "threshold",
		Name:        "字面阈值检查",
		Description: "执行SQL取标量结果，与配置的字面阈值区间比较",
	},
	{
		Code:        "threshold_sql",
		Name:        "SQL阈值检查",
		Description: "阈值由SQL查询计算得出，支持独立的阈值连接",
	},
}

// ScheduleTypeMeta 调度类型定义
type ScheduleTypeMeta struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ScheduleTypes 调度类型元数据
var ScheduleTypes = []ScheduleTypeMeta{
	{
		Code:        "manual",
		Name:        "手动执行",
		Description: "仅通过API手动触发",
	},
	{
		Code:        "once",
		Name:        "一次性执行",
		Description: "在指定时间执行一次",
	},
	{
		Code:        "cron",
		Name:        "Cron调度",
		Description: "按Cron表达式周期执行",
	},
	{
		Code:        "interval",
		Name:        "间隔调度",
		Description: "按固定秒数间隔周期执行",
	},
}

// ExecutionStatusMeta 执行状态定义
type ExecutionStatusMeta struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// ExecutionStatuses 执行状态元数据
var ExecutionStatuses = []ExecutionStatusMeta{
	{
		Code:        "running",
		Name:        "执行中",
		Description: "质量检查正在执行",
		Color:       "#1890ff",
	},
	{
		Code:        "passed",
		Name:        "通过",
		Description: "检查结果在阈值区间内且谓词判定通过",
		Color:       "#52c41a",
	},
	{
		Code:        "failed",
		Name:        "失败",
		Description: "检查结果越界或谓词判定未通过",
		Color:       "#f5222d",
	},
	{
		Code:        "error",
		Name:        "出错",
		Description: "SQL执行或基础设施错误，未得出检查结论",
		Color:       "#fa8c16",
	},
}

// TriggerTypeMeta 触发类型定义
type TriggerTypeMeta struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TriggerTypes 触发类型元数据
var TriggerTypes = []TriggerTypeMeta{
	{Code: "scheduled", Name: "调度触发"},
	{Code: "manual", Name: "手动触发"},
}

// CheckErrorTypeMeta 检查错误类型定义
type CheckErrorTypeMeta struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CheckErrorTypes 检查错误类型元数据
var CheckErrorTypes = []CheckErrorTypeMeta{
	{
		Code:        "threshold_violation",
		Name:        "阈值越界",
		Description: "检查结果超出阈值区间",
	},
	{
		Code:        "invalid_result_shape",
		Name:        "结果形状异常",
		Description: "标量查询结果不是单行单列的数值",
	},
	{
		Code:        "unsupported_connection_type",
		Name:        "连接类型不支持",
		Description: "连接类型不具备标量SQL查询能力",
	},
	{
		Code:        "execution",
		Name:        "执行错误",
		Description: "SQL执行失败或连接不可用",
	},
}

// GetCheckModes 获取检查模式元数据
func GetCheckModes() []CheckModeMeta {
	return CheckModes
}

// GetScheduleTypes 获取调度类型元数据
func GetScheduleTypes() []ScheduleTypeMeta {
	return ScheduleTypes
}

// GetExecutionStatuses 获取执行状态元数据
func GetExecutionStatuses() []ExecutionStatusMeta {
	return ExecutionStatuses
}

// GetTriggerTypes 获取触发类型元数据
func GetTriggerTypes() []TriggerTypeMeta {
	return TriggerTypes
}

// GetCheckErrorTypes 获取检查错误类型元数据
func GetCheckErrorTypes() []CheckErrorTypeMeta {
	return CheckErrorTypes
}
