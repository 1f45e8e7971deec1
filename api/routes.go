/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"dataquality-service/api/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 元数据管理
	r.Route("/meta", func(r chi.Router) {
		metaController := controllers.NewMetaController()
		r.Get("/connections/types", metaController.GetConnectionTypes)
		r.Get("/connections/types/{type}/examples", metaController.GetConnectionExamples)
		r.Get("/quality-checks", metaController.GetQualityCheckMeta)
	})

	// 数据连接管理
	r.Route("/connections", func(r chi.Router) {
		connectionController := controllers.NewConnectionController()

		// 基础CRUD操作
		r.Post("/", connectionController.CreateConnection)
		r.Get("/", connectionController.GetConnections)
		r.Get("/{id}", connectionController.GetConnection)
		r.Put("/{id}", connectionController.UpdateConnection)
		r.Delete("/{id}", connectionController.DeleteConnection)

		// 连接测试
		r.Post("/test", connectionController.TestConnectionConfig)
		r.Post("/{id}/test", connectionController.TestConnection)

		// 状态管理
		r.Put("/{id}/status", connectionController.SetConnectionStatus)
	})

	// 数据质量管理
	r.Route("/quality", func(r chi.Router) {
		qualityCheckController := controllers.NewQualityCheckController()

		// 质量检查任务管理
		r.Route("/checks", func(r chi.Router) {
			// 基础CRUD操作
			r.Post("/", qualityCheckController.CreateCheck)
			r.Get("/", qualityCheckController.GetChecks)
			r.Get("/{id}", qualityCheckController.GetCheck)
			r.Put("/{id}", qualityCheckController.UpdateCheck)
			r.Delete("/{id}", qualityCheckController.DeleteCheck)

			// 任务控制操作
			r.Post("/{id}/enable", qualityCheckController.EnableCheck)
			r.Post("/{id}/disable", qualityCheckController.DisableCheck)
			r.Post("/{id}/execute", qualityCheckController.ExecuteCheck)

			// 执行记录
			r.Get("/{id}/executions", qualityCheckController.GetCheckExecutions)
		})

		// 执行记录查询
		r.Route("/executions", func(r chi.Router) {
			executionController := controllers.NewExecutionController()
			r.Get("/", executionController.GetExecutions)
			r.Get("/{id}", executionController.GetExecution)
		})

		// 检查套件管理
		r.Route("/suites", func(r chi.Router) {
			suiteController := controllers.NewSuiteController()
			r.Post("/import", suiteController.ImportSuite)
			r.Post("/load", suiteController.LoadSuiteFiles)
		})

		// 调度器管理
		r.Route("/scheduler", func(r chi.Router) {
			schedulerController := controllers.NewSchedulerController()
			r.Get("/status", schedulerController.GetSchedulerStatus)
			r.Post("/reload", schedulerController.ReloadScheduler)
		})

		// 统计信息
		r.Get("/statistics", qualityCheckController.GetStatistics)
	})

	// Dashboard统计
	r.Route("/dashboard", func(r chi.Router) {
		dashboardController := controllers.NewDashboardController()
		r.Get("/overview", dashboardController.GetDashboardOverview)
		r.Get("/check-stats", dashboardController.GetCheckStats)
		r.Get("/execution-stats", dashboardController.GetExecutionStats)
		r.Get("/connection-stats", dashboardController.GetConnectionStats)
	})
}
