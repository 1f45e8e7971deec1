/*
 * @module service/notifier/notifier
 * @description 检查结果通知分发器，将执行结果构造成通知消息并分发到配置的通知通道
 * @architecture 分层架构 - 通知层，适配器模式封装各通知通道
 * @stateFlow 执行完成 -> 构造通知消息 -> 解析通道引用 -> 逐通道发送
 * @rules 通道按连接配置动态构建，发送失败不阻断其他通道，失败数计入返回错误
 * @dependencies gorm.io/gorm, service/models, service/meta
 * @refs redis_channel.go, kafka_channel.go, mqtt_channel.go, webhook_channel.go
 */

package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dataquality-service/service/meta"
	"dataquality-service/service/models"

	"gorm.io/gorm"
)

// NotificationMessage 检查结果通知消息
type NotificationMessage struct {
	CheckID         string    `json:"check_id"`
	CheckName       string    `json:"check_name"`
	TaskID          string    `json:"task_id"`
	Description     string    `json:"description"`
	ExecutionID     string    `json:"execution_id"`
	ExecutionDate   time.Time `json:"execution_date"`
	Status          string    `json:"status"`
	Result          *float64  `json:"result,omitempty"`
	MinThreshold    *float64  `json:"min_threshold,omitempty"`
	MaxThreshold    *float64  `json:"max_threshold,omitempty"`
	WithinThreshold bool      `json:"within_threshold"`
	ErrorType       string    `json:"error_type,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	TriggerType     string    `json:"trigger_type"`
	Recipients      []string  `json:"recipients,omitempty"`
	Summary         string    `json:"summary"`
	Timestamp       time.Time `json:"timestamp"`
}

// ChannelSender 通知通道发送器接口
type ChannelSender interface {
	Send(ctx context.Context, message *NotificationMessage) error
	GetChannelType() string
	Close() error
}

// SenderFactory 通道发送器构建函数
type SenderFactory func(conn *models.Connection, target string) (ChannelSender, error)

// RateLimiter 通知限流器接口，用于抑制告警风暴
type RateLimiter interface {
	AllowNotify(ctx context.Context, checkID, channelType string) (bool, error)
}

// NewChannelSender 按连接类型构建通知通道发送器
func NewChannelSender(conn *models.Connection, target string) (ChannelSender, error) {
	switch conn.Type {
	case meta.ConnectionTypeRedis:
		return newRedisChannelSender(conn, target)
	case meta.ConnectionTypeKafka:
		return newKafkaChannelSender(conn, target)
	case meta.ConnectionTypeMQTT:
		return newMQTTChannelSender(conn, target)
	case meta.ConnectionTypeWebhook:
		return newWebhookChannelSender(conn, target)
	default:
		return nil, fmt.Errorf("不支持的通知通道类型: %s", conn.Type)
	}
}

// Notifier 检查结果通知分发器
type Notifier struct {
	db          *gorm.DB
	buildSender SenderFactory
	limiter     RateLimiter
}

// NewNotifier 创建通知分发器
func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{
		db:          db,
		buildSender: NewChannelSender,
	}
}

// SetRateLimiter 配置通知限流器，nil表示不限流
func (n *Notifier) SetRateLimiter(limiter RateLimiter) {
	n.limiter = limiter
}

// NotifyExecution 将检查执行结果分发到检查配置的通知通道
func (n *Notifier) NotifyExecution(ctx context.Context, check *models.QualityCheck, execution *models.CheckExecution) error {
	refs := check.ChannelRefs()
	if len(refs) == 0 {
		slog.Warn("检查启用了通知但未配置通知通道", "check_id", check.ID)
		return nil
	}

	message := BuildNotificationMessage(check, execution)

	sentCount := 0
	failedCount := 0
	suppressedCount := 0
	for i := range refs {
		ref := refs[i]
		if ref.Disabled {
			continue
		}

		if !n.allowNotify(ctx, check.ID, ref.Type) {
			suppressedCount++
			continue
		}

		if err := n.sendToChannel(ctx, &ref, message); err != nil {
			slog.Error("通知通道发送失败",
				"check_id", check.ID,
				"channel_type", ref.Type,
				"connection_id", ref.ConnectionID,
				"error", err)
			failedCount++
		} else {
			sentCount++
		}
	}

	slog.Info("检查通知分发完成",
		"check_id", check.ID,
		"execution_id", execution.ID,
		"sent", sentCount,
		"failed", failedCount,
		"suppressed", suppressedCount)

	if failedCount > 0 {
		return fmt.Errorf("通知发送失败: %d/%d 个通道出错", failedCount, sentCount+failedCount)
	}
	return nil
}

// allowNotify 限流判定，限流器故障时按放行处理
func (n *Notifier) allowNotify(ctx context.Context, checkID, channelType string) bool {
	if n.limiter == nil {
		return true
	}

	allowed, err := n.limiter.AllowNotify(ctx, checkID, channelType)
	if err != nil {
		slog.Warn("通知限流检查失败，按放行处理", "check_id", checkID, "error", err)
		return true
	}
	if !allowed {
		slog.Warn("通知触发限流，跳过发送", "check_id", checkID, "channel_type", channelType)
	}
	return allowed
}

// sendToChannel 解析通道引用的连接并发送通知
func (n *Notifier) sendToChannel(ctx context.Context, ref *models.NotifyChannelRef, message *NotificationMessage) error {
	var conn models.Connection
	if err := n.db.First(&conn, "id = ?", ref.ConnectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("通知连接 %s 不存在", ref.ConnectionID)
		}
		return err
	}

	if !conn.IsActive() {
		return fmt.Errorf("通知连接 %s 未激活", conn.ID)
	}
	if ref.Type != "" && ref.Type != conn.Type {
		return fmt.Errorf("通知通道类型 %s 与连接类型 %s 不匹配", ref.Type, conn.Type)
	}

	sender, err := n.buildSender(&conn, ref.Target)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sender.Close(); closeErr != nil {
			slog.Warn("关闭通知通道失败", "connection_id", conn.ID, "error", closeErr)
		}
	}()

	return sender.Send(ctx, message)
}

// BuildNotificationMessage 从检查任务和执行记录构造通知消息
func BuildNotificationMessage(check *models.QualityCheck, execution *models.CheckExecution) *NotificationMessage {
	return &NotificationMessage{
		CheckID:         check.ID,
		CheckName:       check.Name,
		TaskID:          execution.TaskID,
		Description:     execution.Description,
		ExecutionID:     execution.ID,
		ExecutionDate:   execution.ExecutionDate,
		Status:          execution.Status,
		Result:          execution.Result,
		MinThreshold:    execution.MinThreshold,
		MaxThreshold:    execution.MaxThreshold,
		WithinThreshold: execution.WithinThreshold,
		ErrorType:       execution.ErrorType,
		ErrorMessage:    execution.ErrorMessage,
		TriggerType:     execution.TriggerType,
		Recipients:      []string(check.Recipients),
		Summary:         buildSummary(check, execution),
		Timestamp:       time.Now(),
	}
}

// buildSummary 构造通知摘要文本，包含检查SQL、结果和阈值区间
func buildSummary(check *models.QualityCheck, execution *models.CheckExecution) string {
	switch execution.Status {
	case models.ExecutionStatusPassed:
		if execution.Result != nil && execution.MinThreshold != nil && execution.MaxThreshold != nil {
			return fmt.Sprintf("质量检查通过: %s，结果 %v 在阈值区间 [%v, %v] 内",
				check.Name, *execution.Result, *execution.MinThreshold, *execution.MaxThreshold)
		}
		return fmt.Sprintf("质量检查通过: %s", check.Name)

	case models.ExecutionStatusFailed:
		if execution.Result != nil && execution.MinThreshold != nil && execution.MaxThreshold != nil {
			return fmt.Sprintf("质量检查未通过: %s。检查SQL: %s。结果 %v 不在阈值区间 [%v, %v] 内",
				check.Name, check.SQL, *execution.Result, *execution.MinThreshold, *execution.MaxThreshold)
		}
		return fmt.Sprintf("质量检查未通过: %s。%s", check.Name, execution.ErrorMessage)

	default:
		return fmt.Sprintf("质量检查执行出错: %s。%s", check.Name, execution.ErrorMessage)
	}
}
