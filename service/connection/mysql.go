/*
 * @module service/connection/mysql
 * @description MySQL连接实现，支持连接池和标量SQL查询
 * @architecture 连接池模式 - 管理数据库连接的生命周期
 * @documentReference ai_docs/connection_req.md, service/meta/connection.go
 * @stateFlow MySQL连接生命周期：解析配置 -> 建立连接池 -> 执行SQL -> 关闭连接池
 * @rules 按检查执行周期获取和释放，DSN从配置构建
 * @dependencies database/sql, github.com/go-sql-driver/mysql, github.com/spf13/cast, context
 * @refs interface.go, base.go
 */

package connection

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dataquality-service/service/meta"
	"dataquality-service/service/models"
	"dataquality-service/service/utils"

	_ "github.com/go-sql-driver/mysql" // MySQL驱动
	"github.com/spf13/cast"
)

// MySQLConnection MySQL连接实现
type MySQLConnection struct {
	*BaseConnection
	db           *sql.DB
	dsn          string
	maxConns     int
	maxIdleConns int
	connTimeout  time.Duration
}

// NewMySQLConnection 创建MySQL连接
func NewMySQLConnection() ConnectionInterface {
	return &MySQLConnection{
		BaseConnection: NewBaseConnection(meta.ConnectionTypeMySQL),
		maxConns:       10,
		maxIdleConns:   2,
		connTimeout:    30 * time.Second,
	}
}

// Init 初始化MySQL连接
func (m *MySQLConnection) Init(ctx context.Context, conn *models.Connection) error {
	if err := m.BaseConnection.Init(ctx, conn); err != nil {
		return err
	}

	config := map[string]interface{}(conn.Config)
	if config == nil {
		return fmt.Errorf("连接配置不能为空")
	}

	m.parsePoolConfig(config)

	dsn, err := m.buildDSN(config)
	if err != nil {
		return fmt.Errorf("构建DSN失败: %v", err)
	}
	m.dsn = dsn

	return nil
}

// Start 启动MySQL连接
func (m *MySQLConnection) Start(ctx context.Context) error {
	if err := m.BaseConnection.Start(ctx); err != nil {
		return err
	}

	db, err := sql.Open("mysql", m.dsn)
	if err != nil {
		return fmt.Errorf("创建数据库连接失败: %v", err)
	}

	// 设置连接池参数
	db.SetMaxOpenConns(m.maxConns)
	db.SetMaxIdleConns(m.maxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	// 测试连接
	pingCtx, cancel := context.WithTimeout(ctx, m.connTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("数据库连接测试失败: %v", err)
	}

	m.db = db
	return nil
}

// ExecuteQuery 执行SQL查询，返回完整结果集
func (m *MySQLConnection) ExecuteQuery(ctx context.Context, query string) (*QueryResult, error) {
	if !m.IsInitialized() || !m.IsStarted() {
		return nil, fmt.Errorf("连接未启动")
	}

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("SQL查询语句不能为空")
	}

	startTime := time.Now()
	queryCtx, cancel := context.WithTimeout(ctx, m.connTimeout)
	defer cancel()

	rows, err := m.db.QueryContext(queryCtx, query)
	if err != nil {
		return nil, fmt.Errorf("执行查询失败: %v", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("获取列信息失败: %v", err)
	}

	result := &QueryResult{
		Columns:   columns,
		Rows:      make([][]interface{}, 0),
		Timestamp: startTime,
	}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("扫描行数据失败: %v", err)
		}

		row := make([]interface{}, len(columns))
		for i := range values {
			if b, ok := values[i].([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("读取数据时发生错误: %v", err)
	}

	result.Duration = time.Since(startTime)
	return result, nil
}

// Stop 停止MySQL连接
func (m *MySQLConnection) Stop(ctx context.Context) error {
	if m.db != nil {
		if err := m.db.Close(); err != nil {
			return fmt.Errorf("关闭数据库连接失败: %v", err)
		}
		m.db = nil
	}

	return m.BaseConnection.Stop(ctx)
}

// HealthCheck MySQL健康检查
func (m *MySQLConnection) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	baseStatus, err := m.BaseConnection.HealthCheck(ctx)
	if err != nil {
		return baseStatus, err
	}

	if baseStatus.Status != "online" {
		return baseStatus, nil
	}

	startTime := time.Now()

	if m.db == nil {
		baseStatus.Status = "offline"
		baseStatus.Message = "数据库连接未建立"
		baseStatus.ResponseTime = time.Since(startTime)
		return baseStatus, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := m.db.PingContext(pingCtx); err != nil {
		baseStatus.Status = "error"
		baseStatus.Message = fmt.Sprintf("数据库连接测试失败: %v", err)
	} else {
		stats := m.db.Stats()
		baseStatus.Details["connection_pool"] = map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use_connections":   stats.InUse,
			"idle_connections":     stats.Idle,
		}
	}

	baseStatus.ResponseTime = time.Since(startTime)
	return baseStatus, nil
}

// buildDSN 构建MySQL数据源名称
func (m *MySQLConnection) buildDSN(config map[string]interface{}) (string, error) {
	host, ok := config[meta.ConnectionFieldHost].(string)
	if !ok || host == "" {
		return "", fmt.Errorf("主机地址不能为空")
	}

	port := 3306
	if v, exists := config[meta.ConnectionFieldPort]; exists {
		if n := cast.ToInt(v); n > 0 {
			port = n
		}
	}

	database, ok := config[meta.ConnectionFieldDatabase].(string)
	if !ok || database == "" {
		return "", fmt.Errorf("数据库名不能为空")
	}

	username, ok := config[meta.ConnectionFieldUsername].(string)
	if !ok || username == "" {
		return "", fmt.Errorf("用户名不能为空")
	}

	password, ok := config[meta.ConnectionFieldPassword].(string)
	if !ok || password == "" {
		return "", fmt.Errorf("密码不能为空")
	}
	password, err := utils.DecryptSecret(password)
	if err != nil {
		return "", fmt.Errorf("解密连接密码失败: %w", err)
	}

	charset := "utf8mb4"
	if v, ok := config[meta.ConnectionFieldCharset].(string); ok && v != "" {
		charset = v
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=true&timeout=%s",
		username, password, host, port, database, charset, m.connTimeout)

	return dsn, nil
}

// parsePoolConfig 解析连接池配置
func (m *MySQLConnection) parsePoolConfig(config map[string]interface{}) {
	if v, exists := config[meta.ConnectionFieldTimeout]; exists {
		if timeout := cast.ToInt(v); timeout > 0 {
			m.connTimeout = time.Duration(timeout) * time.Second
		}
	}

	if v, exists := config[meta.ConnectionFieldMaxConnections]; exists {
		if maxConns := cast.ToInt(v); maxConns > 0 {
			m.maxConns = maxConns
			m.maxIdleConns = maxConns / 10
			if m.maxIdleConns < 1 {
				m.maxIdleConns = 1
			}
		}
	}
}
