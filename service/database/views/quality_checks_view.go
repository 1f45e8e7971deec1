package views

var QualityCheckViews = map[string]string{

	// 质量检查详细信息视图 - 包含检查配置、关联连接信息、成功率和最近一次执行结果
	"quality_checks_info": `
		DROP VIEW IF EXISTS quality_checks_info;
		CREATE VIEW quality_checks_info AS
		SELECT
			qc.id,
			qc.name,
			qc.description,
			qc.connection_id,
			qc.sql,
			qc.mode,
			qc.min_threshold,
			qc.max_threshold,
			qc.min_threshold_sql,
			qc.max_threshold_sql,
			qc.threshold_conn_id,
			qc.script_enabled,
			qc.schedule_type,
			qc.cron_expression,
			qc.interval_seconds,
			qc.scheduled_time,
			qc.notify_enabled,
			qc.notify_on_success,
			qc.notify_on_failure,
			qc.is_enabled,
			qc.last_executed,
			qc.next_execution,
			qc.execution_count,
			qc.success_count,
			qc.failure_count,
			-- 成功率（保留4位小数，无执行记录时为NULL）
			CASE
				WHEN qc.execution_count > 0
				THEN ROUND(qc.success_count::numeric / qc.execution_count::numeric, 4)
				ELSE NULL
			END as success_rate,
			qc.created_at,
			qc.created_by,
			qc.updated_at,
			-- 连接信息对象，来源：connections表
			-- 包含字段：id, name, type, status
			jsonb_build_object(
				'id', c.id,
				'name', c.name,
				'type', c.type,
				'status', c.status
			) as connection,
			-- 最近一次执行信息
			le.status as last_status,
			le.result as last_result,
			le.execution_date as last_execution_date
		FROM quality_checks qc
		LEFT JOIN connections c ON qc.connection_id = c.id
		LEFT JOIN LATERAL (
			SELECT ce.status, ce.result, ce.execution_date
			FROM check_executions ce
			WHERE ce.check_id = qc.id
			ORDER BY ce.execution_date DESC
			LIMIT 1
		) le ON true;
	`,

	// 检查执行按日统计视图 - 按天汇总每个检查的执行次数、通过/失败/出错分布和耗时
	"check_executions_daily": `
		DROP VIEW IF EXISTS check_executions_daily;
		CREATE VIEW check_executions_daily AS
		SELECT
			date_trunc('day', ce.execution_date) as execution_day,
			ce.check_id,
			qc.name as check_name,
			COUNT(*) as total_count,
			COUNT(*) FILTER (WHERE ce.status = 'passed') as passed_count,
			COUNT(*) FILTER (WHERE ce.status = 'failed') as failed_count,
			COUNT(*) FILTER (WHERE ce.status = 'error') as error_count,
			-- 执行耗时统计（毫秒）
			AVG(ce.duration) as avg_duration_ms,
			MAX(ce.duration) as max_duration_ms
		FROM check_executions ce
		LEFT JOIN quality_checks qc ON ce.check_id = qc.id
		GROUP BY date_trunc('day', ce.execution_date), ce.check_id, qc.name;
	`,
}
