package meta

import (
	"fmt"
	"regexp"
	"sort"
)

// ConnectionTypeDefinition 连接类型完整定义
type ConnectionTypeDefinition struct {
	ID              string                  `json:"id"`
	Category        string                  `json:"category"` // database, messaging, api
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	Icon            string                  `json:"icon"`
	ScalarQueryable bool                    `json:"scalar_queryable"` // 是否支持执行标量SQL查询
	ConfigFields    []ConnectionConfigField `json:"config_fields"`
	Examples        []ConnectionExample     `json:"examples"`
	IsActive        bool                    `json:"is_active"`
}

// ConnectionConfigField 配置字段定义
type ConnectionConfigField struct {
	Name         string      `json:"name"`
	DisplayName  string      `json:"display_name"`
	Type         string      `json:"type"` // string, number, boolean
	Required     bool        `json:"required"`
	DefaultValue interface{} `json:"default_value,omitempty"`
	Description  string      `json:"description"`
	Options      []string    `json:"options,omitempty"` // 用于select类型
	Min          float64     `json:"min,omitempty"`     // 用于number类型
	Max          float64     `json:"max,omitempty"`     // 用于number类型
	Pattern      string      `json:"pattern,omitempty"` // 用于string类型的正则验证
}

// ConnectionExample 示例配置
type ConnectionExample struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Config      map[string]interface{} `json:"config"`
}

// ValidationResult 验证结果
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateConfig 按字段定义验证连接配置
func (d *ConnectionTypeDefinition) ValidateConfig(config map[string]interface{}) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	for _, field := range d.ConfigFields {
		value, exists := config[field.Name]

		// 检查必需字段
		if field.Required && (!exists || value == nil || value == "") {
			result.Errors = append(result.Errors, fmt.Sprintf("缺少必需字段: %s", field.DisplayName))
			result.IsValid = false
			continue
		}

		// 字段不存在或为空时跳过后续验证
		if !exists || value == nil {
			continue
		}

		// 类型验证
		if !validateFieldType(value, field.Type) {
			result.Errors = append(result.Errors, fmt.Sprintf("字段 %s 类型不正确，期望: %s", field.DisplayName, field.Type))
			result.IsValid = false
			continue
		}

		// 范围验证
		if field.Type == "number" {
			numVal := toFloat(value)
			if field.Min != 0 && numVal < field.Min {
				result.Errors = append(result.Errors, fmt.Sprintf("字段 %s 值过小，最小值: %.0f", field.DisplayName, field.Min))
				result.IsValid = false
			}
			if field.Max != 0 && numVal > field.Max {
				result.Errors = append(result.Errors, fmt.Sprintf("字段 %s 值过大，最大值: %.0f", field.DisplayName, field.Max))
				result.IsValid = false
			}
		}

		// 选项验证
		if len(field.Options) > 0 && field.Type == "string" {
			if strVal, ok := value.(string); ok {
				matched := false
				for _, option := range field.Options {
					if strVal == option {
						matched = true
						break
					}
				}
				if !matched {
					result.Errors = append(result.Errors, fmt.Sprintf("字段 %s 值不在允许的选项中: %v", field.DisplayName, field.Options))
					result.IsValid = false
				}
			}
		}

		// 正则验证
		if field.Pattern != "" && field.Type == "string" {
			if strVal, ok := value.(string); ok {
				matched, err := regexp.MatchString(field.Pattern, strVal)
				if err != nil {
					result.Warnings = append(result.Warnings, fmt.Sprintf("字段 %s 正则表达式验证失败: %v", field.DisplayName, err))
				} else if !matched {
					result.Errors = append(result.Errors, fmt.Sprintf("字段 %s 格式不正确", field.DisplayName))
					result.IsValid = false
				}
			}
		}
	}

	return result
}

// validateFieldType 验证字段类型
func validateFieldType(value interface{}, expectedType string) bool {
	switch expectedType {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		switch value.(type) {
		case float64, int, int64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	default:
		return true
	}
}

func toFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

const (
	ConnectionCategoryDatabase  = "database"
	ConnectionCategoryMessaging = "messaging"
	ConnectionCategoryAPI       = "api"
)

const (
	ConnectionTypePostgreSQL = "postgresql"
	ConnectionTypeMySQL      = "mysql"
	ConnectionTypeRedis      = "redis"
	ConnectionTypeKafka      = "kafka"
	ConnectionTypeMQTT       = "mqtt"
	ConnectionTypeWebhook    = "webhook"
)

const ConnectionFieldHost = "host"
const ConnectionFieldPort = "port"
const ConnectionFieldDatabase = "database"
const ConnectionFieldUsername = "username"
const ConnectionFieldPassword = "password"
const ConnectionFieldSchema = "schema"
const ConnectionFieldSSLMode = "ssl_mode"
const ConnectionFieldCharset = "charset"
const ConnectionFieldTimeout = "timeout"
const ConnectionFieldMaxConnections = "max_connections"
const ConnectionFieldAddr = "addr"
const ConnectionFieldDB = "db"
const ConnectionFieldChannel = "channel"
const ConnectionFieldBrokers = "brokers"
const ConnectionFieldTopic = "topic"
const ConnectionFieldBrokerURL = "broker_url"
const ConnectionFieldClientID = "client_id"
const ConnectionFieldQos = "qos"
const ConnectionFieldURL = "url"
const ConnectionFieldMethod = "method"
const ConnectionFieldSecret = "secret"

var ConnectionTypes = make(map[string]*ConnectionTypeDefinition)

func init() {
	initializeDefaultTypes()
}

// IsScalarQueryable 判断连接类型是否属于可执行标量SQL的封闭集合
func IsScalarQueryable(connType string) bool {
	def, ok := ConnectionTypes[connType]
	return ok && def.ScalarQueryable
}

// ScalarQueryableTypes 返回支持标量SQL查询的连接类型列表
func ScalarQueryableTypes() []string {
	types := make([]string, 0)
	for id, def := range ConnectionTypes {
		if def.ScalarQueryable {
			types = append(types, id)
		}
	}
	sort.Strings(types)
	return types
}

// initializeDefaultTypes 初始化默认的连接类型
func initializeDefaultTypes() {
	// PostgreSQL 连接
	postgresql := &ConnectionTypeDefinition{
		ID:              ConnectionTypePostgreSQL,
		Category:        ConnectionCategoryDatabase,
		Name:            "PostgreSQL",
		Description:     "PostgreSQL关系型数据库",
		Icon:            "postgresql",
		ScalarQueryable: true,
		ConfigFields: []ConnectionConfigField{
			{
				Name:         ConnectionFieldHost,
				DisplayName:  "主机",
				Type:         "string",
				Required:     true,
				DefaultValue: "localhost",
				Description:  "数据库服务器地址",
				Pattern:      `^[a-zA-Z0-9.-]+$`,
			},
			{
				Name:         ConnectionFieldPort,
				DisplayName:  "端口",
				Type:         "number",
				Required:     true,
				DefaultValue: float64(5432),
				Description:  "数据库端口号",
				Min:          1,
				Max:          65535,
			},
			{
				Name:         ConnectionFieldDatabase,
				DisplayName:  "数据库",
				Type:         "string",
				Required:     true,
				DefaultValue: "postgres",
				Description:  "数据库名称",
			},
			{
				Name:        ConnectionFieldUsername,
				DisplayName: "用户名",
				Type:        "string",
				Required:    true,
				Description: "数据库用户名",
			},
			{
				Name:        ConnectionFieldPassword,
				DisplayName: "密码",
				Type:        "string",
				Required:    true,
				Description: "数据库密码",
			},
			{
				Name:         ConnectionFieldSchema,
				DisplayName:  "Schema",
				Type:         "string",
				Required:     false,
				DefaultValue: "public",
				Description:  "数据库Schema",
			},
			{
				Name:         ConnectionFieldSSLMode,
				DisplayName:  "SSL模式",
				Type:         "string",
				Required:     false,
				DefaultValue: "disable",
				Description:  "SSL连接模式",
				Options:      []string{"disable", "require", "verify-ca", "verify-full"},
			},
		},
		Examples: []ConnectionExample{
			{
				Name:        "本地开发环境",
				Description: "连接本地PostgreSQL数据库",
				Config: map[string]interface{}{
					ConnectionFieldHost:     "localhost",
					ConnectionFieldPort:     5432,
					ConnectionFieldDatabase: "dev_db",
					ConnectionFieldUsername: "dev_user",
					ConnectionFieldPassword: "dev_password",
					ConnectionFieldSchema:   "public",
					ConnectionFieldSSLMode:  "disable",
				},
			},
		},
		IsActive: true,
	}

	// MySQL 连接
	mysql := &ConnectionTypeDefinition{
		ID:              ConnectionTypeMySQL,
		Category:        ConnectionCategoryDatabase,
		Name:            "MySQL",
		Description:     "MySQL关系型数据库",
		Icon:            "mysql",
		ScalarQueryable: true,
		ConfigFields: []ConnectionConfigField{
			{
				Name:         ConnectionFieldHost,
				DisplayName:  "主机",
				Type:         "string",
				Required:     true,
				DefaultValue: "localhost",
				Description:  "数据库服务器地址",
			},
			{
				Name:         ConnectionFieldPort,
				DisplayName:  "端口",
				Type:         "number",
				Required:     true,
				DefaultValue: float64(3306),
				Description:  "数据库端口号",
				Min:          1,
				Max:          65535,
			},
			{
				Name:        ConnectionFieldDatabase,
				DisplayName: "数据库",
				Type:        "string",
				Required:    true,
				Description: "数据库名称",
			},
			{
				Name:        ConnectionFieldUsername,
				DisplayName: "用户名",
				Type:        "string",
				Required:    true,
				Description: "数据库用户名",
			},
			{
				Name:        ConnectionFieldPassword,
				DisplayName: "密码",
				Type:        "string",
				Required:    true,
				Description: "数据库密码",
			},
			{
				Name:         ConnectionFieldCharset,
				DisplayName:  "字符集",
				Type:         "string",
				Required:     false,
				DefaultValue: "utf8mb4",
				Description:  "数据库字符集",
				Options:      []string{"utf8", "utf8mb4", "latin1"},
			},
		},
		Examples: []ConnectionExample{
			{
				Name:        "本地MySQL",
				Description: "连接本地MySQL数据库",
				Config: map[string]interface{}{
					ConnectionFieldHost:     "localhost",
					ConnectionFieldPort:     3306,
					ConnectionFieldDatabase: "test_db",
					ConnectionFieldUsername: "root",
					ConnectionFieldPassword: "password",
					ConnectionFieldCharset:  "utf8mb4",
				},
			},
		},
		IsActive: true,
	}

	// Redis 通知通道连接
	redis := &ConnectionTypeDefinition{
		ID:              ConnectionTypeRedis,
		Category:        ConnectionCategoryMessaging,
		Name:            "Redis",
		Description:     "Redis发布订阅通知通道",
		Icon:            "redis",
		ScalarQueryable: false,
		ConfigFields: []ConnectionConfigField{
			{
				Name:         ConnectionFieldAddr,
				DisplayName:  "地址",
				Type:         "string",
				Required:     true,
				DefaultValue: "localhost:6379",
				Description:  "Redis服务器地址",
			},
			{
				Name:        ConnectionFieldPassword,
				DisplayName: "密码",
				Type:        "string",
				Required:    false,
				Description: "Redis密码",
			},
			{
				Name:         ConnectionFieldDB,
				DisplayName:  "数据库编号",
				Type:         "number",
				Required:     false,
				DefaultValue: float64(0),
				Description:  "Redis数据库编号",
				Max:          15,
			},
			{
				Name:         ConnectionFieldChannel,
				DisplayName:  "频道",
				Type:         "string",
				Required:     true,
				DefaultValue: "quality_check_alerts",
				Description:  "通知发布的频道",
			},
		},
		IsActive: true,
	}

	// Kafka 通知通道连接
	kafka := &ConnectionTypeDefinition{
		ID:              ConnectionTypeKafka,
		Category:        ConnectionCategoryMessaging,
		Name:            "Apache Kafka",
		Description:     "Kafka消息队列通知通道",
		Icon:            "kafka",
		ScalarQueryable: false,
		ConfigFields: []ConnectionConfigField{
			{
				Name:         ConnectionFieldBrokers,
				DisplayName:  "Broker地址",
				Type:         "string",
				Required:     true,
				DefaultValue: "localhost:9092",
				Description:  "Kafka服务器地址，多个以逗号分隔",
			},
			{
				Name:        ConnectionFieldTopic,
				DisplayName: "主题",
				Type:        "string",
				Required:    true,
				Description: "通知写入的主题",
			},
		},
		IsActive: true,
	}

	// MQTT 通知通道连接
	mqtt := &ConnectionTypeDefinition{
		ID:              ConnectionTypeMQTT,
		Category:        ConnectionCategoryMessaging,
		Name:            "MQTT",
		Description:     "MQTT消息通知通道",
		Icon:            "mqtt",
		ScalarQueryable: false,
		ConfigFields: []ConnectionConfigField{
			{
				Name:         ConnectionFieldBrokerURL,
				DisplayName:  "Broker URL",
				Type:         "string",
				Required:     true,
				DefaultValue: "tcp://localhost:1883",
				Description:  "MQTT Broker地址",
				Pattern:      `^(tcp|ssl|ws|wss)://.*`,
			},
			{
				Name:        ConnectionFieldTopic,
				DisplayName: "主题",
				Type:        "string",
				Required:    true,
				Description: "通知发布的主题",
			},
			{
				Name:        ConnectionFieldClientID,
				DisplayName: "客户端ID",
				Type:        "string",
				Required:    false,
				Description: "MQTT客户端标识",
			},
			{
				Name:         ConnectionFieldQos,
				DisplayName:  "QoS",
				Type:         "number",
				Required:     false,
				DefaultValue: float64(1),
				Description:  "消息服务质量等级",
				Max:          2,
			},
			{
				Name:        ConnectionFieldUsername,
				DisplayName: "用户名",
				Type:        "string",
				Required:    false,
				Description: "MQTT用户名",
			},
			{
				Name:        ConnectionFieldPassword,
				DisplayName: "密码",
				Type:        "string",
				Required:    false,
				Description: "MQTT密码",
			},
		},
		IsActive: true,
	}

	// Webhook 通知通道连接
	webhook := &ConnectionTypeDefinition{
		ID:              ConnectionTypeWebhook,
		Category:        ConnectionCategoryAPI,
		Name:            "Webhook",
		Description:     "HTTP Webhook通知通道",
		Icon:            "webhook",
		ScalarQueryable: false,
		ConfigFields: []ConnectionConfigField{
			{
				Name:        ConnectionFieldURL,
				DisplayName: "URL",
				Type:        "string",
				Required:    true,
				Description: "Webhook回调地址",
				Pattern:     `^https?://.*`,
			},
			{
				Name:         ConnectionFieldMethod,
				DisplayName:  "请求方法",
				Type:         "string",
				Required:     false,
				DefaultValue: "POST",
				Description:  "HTTP请求方法",
				Options:      []string{"POST", "PUT"},
			},
			{
				Name:         ConnectionFieldTimeout,
				DisplayName:  "超时时间(秒)",
				Type:         "number",
				Required:     false,
				DefaultValue: float64(10),
				Description:  "请求超时时间",
				Min:          1,
				Max:          300,
			},
			{
				Name:        ConnectionFieldSecret,
				DisplayName: "签名密钥",
				Type:        "string",
				Required:    false,
				Description: "HMAC-SHA256签名密钥，配置后请求头携带X-Signature-256签名",
			},
		},
		IsActive: true,
	}

	// 注册所有类型
	ConnectionTypes[postgresql.ID] = postgresql
	ConnectionTypes[mysql.ID] = mysql
	ConnectionTypes[redis.ID] = redis
	ConnectionTypes[kafka.ID] = kafka
	ConnectionTypes[mqtt.ID] = mqtt
	ConnectionTypes[webhook.ID] = webhook
}
