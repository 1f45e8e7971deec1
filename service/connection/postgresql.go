/*
 * @module service/connection/postgresql
 * @description PostgreSQL连接实现，支持连接池和标量SQL查询
 * @architecture 连接池模式 - 管理数据库连接的生命周期
 * @documentReference ai_docs/connection_req.md, service/meta/connection.go
 * @stateFlow PostgreSQL连接生命周期：解析配置 -> 建立连接池 -> 执行SQL -> 关闭连接池
 * @rules 按检查执行周期获取和释放，连接池参数从配置解析
 * @dependencies database/sql, github.com/lib/pq, github.com/spf13/cast, context
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

	_ "github.com/lib/pq" // PostgreSQL驱动
	"github.com/spf13/cast"
)

// PostgreSQLConnection PostgreSQL连接实现
type PostgreSQLConnection struct {
	*BaseConnection
	db           *sql.DB
	connStr      string
	maxConns     int
	maxIdleConns int
	connTimeout  time.Duration
}

// NewPostgreSQLConnection 创建PostgreSQL连接
func NewPostgreSQLConnection() ConnectionInterface {
	return &PostgreSQLConnection{
		BaseConnection: NewBaseConnection(meta.ConnectionTypePostgreSQL),
		maxConns:       10,
		maxIdleConns:   2,
		connTimeout:    30 * time.Second,
	}
}

// Init 初始化PostgreSQL连接
func (p *PostgreSQLConnection) Init(ctx context.Context, conn *models.Connection) error {
	if err := p.BaseConnection.Init(ctx, conn); err != nil {
		return err
	}

	config := map[string]interface{}(conn.Config)
	if config == nil {
		return fmt.Errorf("连接配置不能为空")
	}

	connStr, err := p.buildConnectionString(config)
	if err != nil {
		return fmt.Errorf("构建连接字符串失败: %v", err)
	}
	p.connStr = connStr

	p.parsePoolConfig(config)

	return nil
}

// Start 启动PostgreSQL连接
func (p *PostgreSQLConnection) Start(ctx context.Context) error {
	if err := p.BaseConnection.Start(ctx); err != nil {
		return err
	}

	db, err := sql.Open("postgres", p.connStr)
	if err != nil {
		return fmt.Errorf("创建数据库连接失败: %v", err)
	}

	// 设置连接池参数
	db.SetMaxOpenConns(p.maxConns)
	db.SetMaxIdleConns(p.maxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	// 测试连接
	pingCtx, cancel := context.WithTimeout(ctx, p.connTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("数据库连接测试失败: %v", err)
	}

	p.db = db
	return nil
}

// ExecuteQuery 执行SQL查询，返回完整结果集
func (p *PostgreSQLConnection) ExecuteQuery(ctx context.Context, query string) (*QueryResult, error) {
	if !p.IsInitialized() || !p.IsStarted() {
		return nil, fmt.Errorf("连接未启动")
	}

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("SQL查询语句不能为空")
	}

	startTime := time.Now()
	queryCtx, cancel := context.WithTimeout(ctx, p.connTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(queryCtx, query)
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

// Stop 停止PostgreSQL连接
func (p *PostgreSQLConnection) Stop(ctx context.Context) error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("关闭数据库连接失败: %v", err)
		}
		p.db = nil
	}

	return p.BaseConnection.Stop(ctx)
}

// HealthCheck PostgreSQL健康检查
func (p *PostgreSQLConnection) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	baseStatus, err := p.BaseConnection.HealthCheck(ctx)
	if err != nil {
		return baseStatus, err
	}

	if baseStatus.Status != "online" {
		return baseStatus, nil
	}

	startTime := time.Now()

	if p.db == nil {
		baseStatus.Status = "offline"
		baseStatus.Message = "数据库连接未建立"
		baseStatus.ResponseTime = time.Since(startTime)
		return baseStatus, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.db.PingContext(pingCtx); err != nil {
		baseStatus.Status = "error"
		baseStatus.Message = fmt.Sprintf("数据库连接测试失败: %v", err)
	} else {
		stats := p.db.Stats()
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

// buildConnectionString 构建连接字符串
func (p *PostgreSQLConnection) buildConnectionString(config map[string]interface{}) (string, error) {
	var parts []string

	// 主机
	if host, ok := config[meta.ConnectionFieldHost].(string); ok && host != "" {
		parts = append(parts, fmt.Sprintf("host=%s", host))
	} else {
		return "", fmt.Errorf("主机地址不能为空")
	}

	// 端口
	if v, exists := config[meta.ConnectionFieldPort]; exists {
		if port := cast.ToInt(v); port > 0 {
			parts = append(parts, fmt.Sprintf("port=%d", port))
		}
	}

	// 数据库名
	if database, ok := config[meta.ConnectionFieldDatabase].(string); ok && database != "" {
		parts = append(parts, fmt.Sprintf("dbname=%s", database))
	} else {
		return "", fmt.Errorf("数据库名不能为空")
	}

	// 用户名
	if username, ok := config[meta.ConnectionFieldUsername].(string); ok && username != "" {
		parts = append(parts, fmt.Sprintf("user=%s", username))
	} else {
		return "", fmt.Errorf("用户名不能为空")
	}

	// 密码
	if password, ok := config[meta.ConnectionFieldPassword].(string); ok && password != "" {
		decrypted, err := utils.DecryptSecret(password)
		if err != nil {
			return "", fmt.Errorf("解密连接密码失败: %w", err)
		}
		parts = append(parts, fmt.Sprintf("password=%s", decrypted))
	} else {
		return "", fmt.Errorf("密码不能为空")
	}

	// Schema
	if schema, ok := config[meta.ConnectionFieldSchema].(string); ok && schema != "" {
		parts = append(parts, fmt.Sprintf("search_path=%s", schema))
	}

	// SSL模式
	if sslMode, ok := config[meta.ConnectionFieldSSLMode].(string); ok && sslMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", sslMode))
	}

	return strings.Join(parts, " "), nil
}

// parsePoolConfig 解析连接池配置
func (p *PostgreSQLConnection) parsePoolConfig(config map[string]interface{}) {
	if v, exists := config[meta.ConnectionFieldTimeout]; exists {
		if timeout := cast.ToInt(v); timeout > 0 {
			p.connTimeout = time.Duration(timeout) * time.Second
		}
	}

	if v, exists := config[meta.ConnectionFieldMaxConnections]; exists {
		if maxConns := cast.ToInt(v); maxConns > 0 {
			p.maxConns = maxConns
			p.maxIdleConns = maxConns / 10
			if p.maxIdleConns < 1 {
				p.maxIdleConns = 1
			}
		}
	}
}
