/*
 * @module service/suite/suite_loader
 * @description 质量检查套件加载器，从YAML文件解析检查定义并转换为质量检查任务
 * @architecture 分层架构 - 配置装载层
 * @stateFlow 读取YAML -> 解析套件结构 -> 解析连接引用 -> 输出质量检查任务列表
 * @rules 套件中的连接可按名称或ID引用，按名称引用时必须能在连接表中找到
 * @dependencies gopkg.in/yaml.v3, gorm.io/gorm
 * @refs service/models/quality_check.go, service/quality/check_service.go
 */

package suite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dataquality-service/service/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SuiteFile 套件文件结构
type SuiteFile struct {
	Suite       string       `yaml:"suite"`       // 套件名称，仅用于日志标识
	Description string       `yaml:"description"` // 套件说明
	Checks      []CheckEntry `yaml:"checks"`
}

// CheckEntry 套件中的单个检查定义
type CheckEntry struct {
	Name                string         `yaml:"name"`
	Description         string         `yaml:"description"`
	Connection          string         `yaml:"connection"`    // 按名称引用连接
	ConnectionID        string         `yaml:"connection_id"` // 按ID引用连接，优先于名称
	SQL                 string         `yaml:"sql"`
	Mode                string         `yaml:"mode"` // threshold, threshold_sql，缺省threshold
	MinThreshold        *float64       `yaml:"min_threshold"`
	MaxThreshold        *float64       `yaml:"max_threshold"`
	MinThresholdSQL     string         `yaml:"min_threshold_sql"`
	MaxThresholdSQL     string         `yaml:"max_threshold_sql"`
	ThresholdConnection string         `yaml:"threshold_connection"`    // 阈值SQL连接名称，空则复用检查连接
	ThresholdConnID     string         `yaml:"threshold_connection_id"` // 阈值SQL连接ID
	Script              string         `yaml:"script"`                  // 谓词脚本，配置后自动启用
	ScheduleType        string         `yaml:"schedule_type"`           // cron, interval, once, manual，缺省manual
	CronExpression      string         `yaml:"cron_expression"`
	IntervalSeconds     int64          `yaml:"interval_seconds"`
	ScheduledTime       *time.Time     `yaml:"scheduled_time"`
	NotifyEnabled       bool           `yaml:"notify_enabled"`
	NotifyOnSuccess     bool           `yaml:"notify_on_success"`
	NotifyOnFailure     *bool          `yaml:"notify_on_failure"` // 缺省true
	Recipients          []string       `yaml:"recipients"`
	NotifyChannels      []ChannelEntry `yaml:"notify_channels"`
	Enabled             *bool          `yaml:"enabled"` // 缺省true
}

// ChannelEntry 套件中的通知通道引用
type ChannelEntry struct {
	Type         string `yaml:"type"`
	Connection   string `yaml:"connection"`    // 按名称引用通知连接
	ConnectionID string `yaml:"connection_id"` // 按ID引用通知连接
	Target       string `yaml:"target"`        // 频道/主题/URL，空则用连接配置
	Disabled     bool   `yaml:"disabled"`
}

// SuiteLoader 套件加载器
type SuiteLoader struct {
	db *gorm.DB
}

// NewSuiteLoader 创建套件加载器
func NewSuiteLoader(db *gorm.DB) *SuiteLoader {
	return &SuiteLoader{db: db}
}

// ParseSuite 解析套件YAML内容
func ParseSuite(data []byte) (*SuiteFile, error) {
	suite := &SuiteFile{}
	if err := yaml.Unmarshal(data, suite); err != nil {
		return nil, fmt.Errorf("解析套件YAML失败: %w", err)
	}
	if len(suite.Checks) == 0 {
		return nil, errors.New("套件不包含任何检查定义")
	}
	return suite, nil
}

// LoadFile 加载单个套件文件，返回已解析连接引用的检查任务列表
func (l *SuiteLoader) LoadFile(path string) ([]*models.QualityCheck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取套件文件 %s 失败: %w", path, err)
	}

	suite, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("套件文件 %s: %w", path, err)
	}

	checks, err := l.ResolveChecks(suite)
	if err != nil {
		return nil, fmt.Errorf("套件文件 %s: %w", path, err)
	}
	return checks, nil
}

// LoadDirectory 加载目录下所有YAML套件文件
func (l *SuiteLoader) LoadDirectory(dir string) ([]*models.QualityCheck, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取套件目录 %s 失败: %w", dir, err)
	}

	var checks []*models.QualityCheck
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		fileChecks, err := l.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		checks = append(checks, fileChecks...)
	}
	return checks, nil
}

// LoadList 按路径列表加载多个套件文件
func (l *SuiteLoader) LoadList(paths []string) ([]*models.QualityCheck, error) {
	var checks []*models.QualityCheck
	for _, path := range paths {
		fileChecks, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		checks = append(checks, fileChecks...)
	}
	return checks, nil
}

// ResolveChecks 将套件定义转换为质量检查任务，解析其中的连接引用
func (l *SuiteLoader) ResolveChecks(suite *SuiteFile) ([]*models.QualityCheck, error) {
	checks := make([]*models.QualityCheck, 0, len(suite.Checks))
	for i := range suite.Checks {
		check, err := l.toQualityCheck(&suite.Checks[i])
		if err != nil {
			return nil, fmt.Errorf("第%d个检查: %w", i+1, err)
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// toQualityCheck 转换单个检查定义
func (l *SuiteLoader) toQualityCheck(entry *CheckEntry) (*models.QualityCheck, error) {
	if entry.Name == "" {
		return nil, errors.New("检查缺少名称")
	}
	if entry.SQL == "" {
		return nil, fmt.Errorf("检查 %s 缺少SQL", entry.Name)
	}

	connID, err := l.resolveConnectionID(entry.Connection, entry.ConnectionID)
	if err != nil {
		return nil, fmt.Errorf("检查 %s: %w", entry.Name, err)
	}

	mode := entry.Mode
	if mode == "" {
		mode = string(models.CheckModeThreshold)
	}

	scheduleType := entry.ScheduleType
	if scheduleType == "" {
		scheduleType = string(models.ScheduleTypeManual)
	}

	check := &models.QualityCheck{
		Name:            entry.Name,
		Description:     entry.Description,
		ConnectionID:    connID,
		SQL:             entry.SQL,
		Mode:            mode,
		MinThreshold:    entry.MinThreshold,
		MaxThreshold:    entry.MaxThreshold,
		MinThresholdSQL: entry.MinThresholdSQL,
		MaxThresholdSQL: entry.MaxThresholdSQL,
		Script:          entry.Script,
		ScriptEnabled:   entry.Script != "",
		ScheduleType:    scheduleType,
		CronExpression:  entry.CronExpression,
		IntervalSeconds: entry.IntervalSeconds,
		ScheduledTime:   entry.ScheduledTime,
		NotifyEnabled:   entry.NotifyEnabled,
		NotifyOnSuccess: entry.NotifyOnSuccess,
		NotifyOnFailure: true,
		Recipients:      models.JSONBStringArray(entry.Recipients),
		IsEnabled:       true,
	}

	if entry.NotifyOnFailure != nil {
		check.NotifyOnFailure = *entry.NotifyOnFailure
	}
	if entry.Enabled != nil {
		check.IsEnabled = *entry.Enabled
	}

	// 阈值SQL连接，可选
	if entry.ThresholdConnection != "" || entry.ThresholdConnID != "" {
		thresholdConnID, err := l.resolveConnectionID(entry.ThresholdConnection, entry.ThresholdConnID)
		if err != nil {
			return nil, fmt.Errorf("检查 %s 的阈值连接: %w", entry.Name, err)
		}
		check.ThresholdConnID = thresholdConnID
	}

	// 通知通道引用
	if len(entry.NotifyChannels) > 0 {
		channels := make(models.JSONBArray, 0, len(entry.NotifyChannels))
		for _, channel := range entry.NotifyChannels {
			channelConnID, err := l.resolveConnectionID(channel.Connection, channel.ConnectionID)
			if err != nil {
				return nil, fmt.Errorf("检查 %s 的通知通道: %w", entry.Name, err)
			}
			channels = append(channels, models.JSONB{
				"type":          channel.Type,
				"connection_id": channelConnID,
				"target":        channel.Target,
				"disabled":      channel.Disabled,
			})
		}
		check.NotifyChannels = channels
	}

	return check, nil
}

// resolveConnectionID 解析连接引用，ID优先，名称次之
func (l *SuiteLoader) resolveConnectionID(name, id string) (string, error) {
	if id != "" {
		var conn models.Connection
		if err := l.db.First(&conn, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", fmt.Errorf("连接 %s 不存在", id)
			}
			return "", fmt.Errorf("查询连接失败: %w", err)
		}
		return conn.ID, nil
	}

	if name != "" {
		var conn models.Connection
		if err := l.db.First(&conn, "name = ?", name).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", fmt.Errorf("连接 %s 不存在", name)
			}
			return "", fmt.Errorf("查询连接失败: %w", err)
		}
		return conn.ID, nil
	}

	return "", errors.New("未配置连接")
}
