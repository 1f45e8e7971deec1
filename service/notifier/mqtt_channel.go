/*
 * @module service/notifier/mqtt_channel
 * @description MQTT通知通道，将检查结果通知发布到MQTT主题
 * @architecture 适配器模式 - 封装paho.mqtt客户端
 * @stateFlow 构建客户端 -> 按需连接 -> 发布消息 -> 断开连接
 * @rules QoS超出范围时回落到1，客户端ID缺省按连接ID生成
 * @dependencies github.com/eclipse/paho.mqtt.golang, encoding/json
 * @refs notifier.go, service/meta/connection.go
 */

package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dataquality-service/service/meta"
	"dataquality-service/service/models"
	"dataquality-service/service/utils"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cast"
)

// MQTTChannelSender MQTT通知通道发送器
type MQTTChannelSender struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// newMQTTChannelSender 从连接配置构建MQTT通知通道
func newMQTTChannelSender(conn *models.Connection, target string) (*MQTTChannelSender, error) {
	brokerURL := conn.ConfigString(meta.ConnectionFieldBrokerURL)
	if brokerURL == "" {
		return nil, errors.New("MQTT通知连接缺少Broker配置")
	}

	topic := target
	if topic == "" {
		topic = conn.ConfigString(meta.ConnectionFieldTopic)
	}
	if topic == "" {
		return nil, errors.New("MQTT通知连接缺少主题配置")
	}

	clientID := conn.ConfigString(meta.ConnectionFieldClientID)
	if clientID == "" {
		clientID = fmt.Sprintf("dataquality-notifier-%s", conn.ID)
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetConnectTimeout(5 * time.Second)
	if username := conn.ConfigString(meta.ConnectionFieldUsername); username != "" {
		password, err := utils.DecryptSecret(conn.ConfigString(meta.ConnectionFieldPassword))
		if err != nil {
			return nil, fmt.Errorf("解密MQTT密码失败: %w", err)
		}
		opts.SetUsername(username)
		opts.SetPassword(password)
	}

	qos := byte(cast.ToInt(conn.Config[meta.ConnectionFieldQos]))
	if qos > 2 {
		qos = 1
	}

	return &MQTTChannelSender{
		client: mqtt.NewClient(opts),
		topic:  topic,
		qos:    qos,
	}, nil
}

// Send 将通知消息发布到MQTT主题
func (m *MQTTChannelSender) Send(ctx context.Context, message *NotificationMessage) error {
	if token := m.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT连接失败: %w", token.Error())
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("序列化通知消息失败: %w", err)
	}

	if token := m.client.Publish(m.topic, m.qos, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("发布MQTT通知失败: %w", token.Error())
	}
	return nil
}

// GetChannelType 获取通道类型
func (m *MQTTChannelSender) GetChannelType() string {
	return meta.ConnectionTypeMQTT
}

// Close 断开MQTT连接
func (m *MQTTChannelSender) Close() error {
	if m.client.IsConnected() {
		m.client.Disconnect(250)
	}
	return nil
}
