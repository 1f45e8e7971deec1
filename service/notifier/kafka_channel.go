/*
 * @module service/notifier/kafka_channel
 * @description Kafka通知通道，将检查结果通知写入Kafka主题
 * @architecture 适配器模式 - 封装kafka-go生产者
 * @stateFlow 构建生产者 -> 写入消息 -> 关闭生产者
 * @rules 消息Key为检查ID，保证同一检查的通知落在同一分区
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs notifier.go, service/meta/connection.go
 */

package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dataquality-service/service/meta"
	"dataquality-service/service/models"

	"github.com/segmentio/kafka-go"
)

// KafkaChannelSender Kafka通知通道发送器
type KafkaChannelSender struct {
	writer *kafka.Writer
	topic  string
}

// newKafkaChannelSender 从连接配置构建Kafka通知通道
func newKafkaChannelSender(conn *models.Connection, target string) (*KafkaChannelSender, error) {
	brokersRaw := conn.ConfigString(meta.ConnectionFieldBrokers)
	if brokersRaw == "" {
		return nil, errors.New("Kafka通知连接缺少Broker配置")
	}

	brokers := strings.Split(brokersRaw, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	topic := target
	if topic == "" {
		topic = conn.ConfigString(meta.ConnectionFieldTopic)
	}
	if topic == "" {
		return nil, errors.New("Kafka通知连接缺少主题配置")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
	}

	return &KafkaChannelSender{
		writer: writer,
		topic:  topic,
	}, nil
}

// Send 将通知消息写入Kafka主题
func (k *KafkaChannelSender) Send(ctx context.Context, message *NotificationMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("序列化通知消息失败: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(message.CheckID),
		Value: payload,
		Time:  message.Timestamp,
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("发送Kafka通知失败: %w", err)
	}
	return nil
}

// GetChannelType 获取通道类型
func (k *KafkaChannelSender) GetChannelType() string {
	return meta.ConnectionTypeKafka
}

// Close 关闭Kafka生产者
func (k *KafkaChannelSender) Close() error {
	return k.writer.Close()
}
