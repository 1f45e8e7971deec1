/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、表结构迁移和各业务服务的装配启动
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow 应用启动时执行初始化流程：数据库 -> 迁移 -> 服务装配 -> 套件加载 -> 调度启动
 * @rules 确保所有依赖服务正常启动后才提供API服务
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs service/quality/, service/scheduler/, service/notifier/
 */

package service

import (
	"fmt"
	"log"
	"os"

	"dataquality-service/service/cleanup"
	"dataquality-service/service/connection"
	"dataquality-service/service/database"
	"dataquality-service/service/distributed_lock"
	"dataquality-service/service/notifier"
	"dataquality-service/service/quality"
	"dataquality-service/service/rate_limiter"
	"dataquality-service/service/scheduler"
	"dataquality-service/service/suite"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                      *gorm.DB
	GlobalConnectionService *connection.ConnectionService
	GlobalCheckService      *quality.CheckService
	GlobalQualityEngine     *quality.QualityEngine
	GlobalNotifier          *notifier.Notifier
	GlobalSuiteLoader       *suite.SuiteLoader
	GlobalCheckScheduler    *scheduler.CheckScheduler
	GlobalCleanupService    *cleanup.ExecutionCleanupService
)

func init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var err error
	DB, err = gorm.Open(postgres.Open(databaseDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接就绪")
}

// databaseDSN 构建PostgreSQL连接串，DATABASE_URL优先于分项环境变量
func databaseDSN() string {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		return databaseURL
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Shanghai",
		envOrDefault("DB_HOST", "localhost"),
		envOrDefault("DB_PORT", "5432"),
		envOrDefault("DB_USER", "postgres"),
		envOrDefault("DB_PASSWORD", "postgres"),
		envOrDefault("DB_NAME", "postgres"),
		envOrDefault("DB_SSLMODE", "disable"),
		envOrDefault("DB_SCHEMA", "public"))
}

// envOrDefault 读取环境变量，未设置时返回默认值
func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 按顺序执行表结构迁移、基础数据初始化和视图迁移
func runMigrations() {
	log.Println("开始数据库迁移")

	steps := []struct {
		name string
		fn   func(*gorm.DB) error
	}{
		{"表结构迁移", database.AutoMigrate},
		{"基础数据初始化", database.InitializeData},
		{"视图迁移", database.AutoMigrateView},
	}

	for _, step := range steps {
		if err := step.fn(DB); err != nil {
			log.Fatalf("%s失败: %v", step.name, err)
		}
		log.Printf("%s完成", step.name)
	}
}

// initServices 初始化服务
func initServices() {
	// 初始化检查引擎，连接实例由全局连接管理器按需获取
	GlobalQualityEngine = quality.NewQualityEngine(connection.GetManager())
	// 初始化通知服务
	GlobalNotifier = notifier.NewNotifier(DB)
	// 将引擎、脚本执行器和通知服务装配进检查服务
	GlobalCheckService = quality.NewCheckService(DB, GlobalQualityEngine, quality.NewPredicateExecutor(), GlobalNotifier)
	GlobalConnectionService = connection.NewConnectionService(DB)
	GlobalSuiteLoader = suite.NewSuiteLoader(DB)
	GlobalCheckScheduler = scheduler.NewCheckScheduler(GlobalCheckService)
	GlobalCleanupService = cleanup.NewExecutionCleanupService(DB)

	// 初始化分布式锁（可选，多实例部署时防止重复调度）
	initDistributedLock()

	// 从套件目录加载质量检查定义
	loadSuiteDirectory()

	// 启动检查调度器
	if err := GlobalCheckScheduler.StartScheduler(); err != nil {
		log.Printf("启动检查调度器失败: %v", err)
	}

	// 启动执行记录清理调度
	if err := GlobalCleanupService.StartScheduledCleanup(); err != nil {
		log.Printf("启动执行记录清理调度失败: %v", err)
	}

	log.Println("服务初始化完成")
}

// initDistributedLock 初始化Redis分布式锁和通知限流器
// 未配置Redis时调度器以单实例模式运行，通知不限流
func initDistributedLock() {
	if os.Getenv("REDIS_HOST") == "" && os.Getenv("REDIS_PORT") == "" {
		log.Println("未配置Redis，调度器以单实例模式运行")
		return
	}

	redisLock, err := distributed_lock.NewRedisLock()
	if err != nil {
		log.Printf("初始化Redis分布式锁失败: %v，调度器以单实例模式运行", err)
		return
	}

	GlobalCheckScheduler.SetDistributedLock(redisLock)
	GlobalCleanupService.SetLockExecutor(distributed_lock.NewLockExecutor(redisLock))
	log.Println("Redis分布式锁初始化完成")

	// 通知限流器与分布式锁共用Redis配置
	limiter, err := rate_limiter.NewRedisRateLimiter()
	if err != nil {
		log.Printf("初始化通知限流器失败: %v，通知不限流", err)
		return
	}
	GlobalNotifier.SetRateLimiter(limiter)
	log.Println("通知限流器初始化完成")
}

// loadSuiteDirectory 从QUALITY_SUITE_DIR目录加载YAML检查套件并导入
func loadSuiteDirectory() {
	suiteDir := os.Getenv("QUALITY_SUITE_DIR")
	if suiteDir == "" {
		return
	}

	log.Printf("开始加载质量检查套件目录: %s", suiteDir)

	checks, err := GlobalSuiteLoader.LoadDirectory(suiteDir)
	if err != nil {
		log.Printf("加载质量检查套件失败: %v", err)
		return
	}

	result := GlobalCheckService.ImportChecks(checks, true)
	log.Printf("质量检查套件导入完成: 新建=%d, 更新=%d, 跳过=%d, 失败=%d",
		result.Created, result.Updated, result.Skipped, result.Failed)
	for _, msg := range result.Errors {
		log.Printf("套件导入错误: %s", msg)
	}
}
