/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新数据库表结构
 * @architecture 数据访问层 - 迁移管理
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致
 * @dependencies dataquality-service/service/models, gorm.io/gorm
 * @refs service/models/, service/init.go
 */

package database

import (
	"log"

	"dataquality-service/service/meta"
	"dataquality-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	log.Println("开始数据库迁移...")

	// 数据连接相关表
	err := db.AutoMigrate(
		&models.Connection{},
	)
	if err != nil {
		return err
	}

	// 质量检查相关表
	err = db.AutoMigrate(
		&models.QualityCheck{},
		&models.CheckExecution{},
	)
	if err != nil {
		return err
	}

	log.Println("数据库迁移完成")
	return nil
}

// InitializeData 初始化基础数据
func InitializeData(db *gorm.DB) error {
	log.Println("开始初始化基础数据...")

	// 连接类型元数据由 meta 包的类型定义提供，无需数据库存储
	connectionTypes := make([]string, 0, len(meta.ConnectionTypes))
	queryableTypes := make([]string, 0)
	for id, definition := range meta.ConnectionTypes {
		connectionTypes = append(connectionTypes, id)
		if definition.ScalarQueryable {
			queryableTypes = append(queryableTypes, id)
		}
	}

	// 支持的检查模式
	checkModes := []string{
		string(models.CheckModeThreshold),    // 字面阈值
		string(models.CheckModeThresholdSQL), // SQL计算阈值
	}

	// 支持的调度类型
	scheduleTypes := []string{
		string(models.ScheduleTypeCron),     // cron表达式
		string(models.ScheduleTypeInterval), // 间隔执行
		string(models.ScheduleTypeOnce),     // 一次性执行
		string(models.ScheduleTypeManual),   // 手动执行
	}

	log.Printf("支持的连接类型: %v", connectionTypes)
	log.Printf("支持标量查询的连接类型: %v", queryableTypes)
	log.Printf("支持的检查模式: %v", checkModes)
	log.Printf("支持的调度类型: %v", scheduleTypes)

	log.Println("基础数据初始化完成")
	return nil
}
