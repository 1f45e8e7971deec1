/*
 * @module service/notifier/webhook_channel
 * @description Webhook通知通道，将检查结果通知以HTTP请求推送到外部地址
 * @architecture 适配器模式 - 封装net/http客户端
 * @stateFlow 构建请求 -> 签名 -> 发送 -> 校验响应状态码
 * @rules 响应状态码大于等于400视为发送失败，请求方法缺省为POST，配置签名密钥时携带X-Signature-256请求头
 * @dependencies net/http, encoding/json
 * @refs notifier.go, service/meta/connection.go, service/utils/crypto_utils.go
 */

package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dataquality-service/service/meta"
	"dataquality-service/service/models"
	"dataquality-service/service/utils"

	"github.com/spf13/cast"
)

// WebhookChannelSender Webhook通知通道发送器
type WebhookChannelSender struct {
	url    string
	method string
	secret string
	client *http.Client
}

// newWebhookChannelSender 从连接配置构建Webhook通知通道
func newWebhookChannelSender(conn *models.Connection, target string) (*WebhookChannelSender, error) {
	url := target
	if url == "" {
		url = conn.ConfigString(meta.ConnectionFieldURL)
	}
	if url == "" {
		return nil, errors.New("Webhook通知连接缺少URL配置")
	}

	method := conn.ConfigString(meta.ConnectionFieldMethod)
	if method == "" {
		method = http.MethodPost
	}

	secret, err := utils.DecryptSecret(conn.ConfigString(meta.ConnectionFieldSecret))
	if err != nil {
		return nil, fmt.Errorf("解密Webhook签名密钥失败: %w", err)
	}

	timeout := cast.ToInt(conn.Config[meta.ConnectionFieldTimeout])
	if timeout <= 0 {
		timeout = 10
	}

	return &WebhookChannelSender{
		url:    url,
		method: method,
		secret: secret,
		client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}, nil
}

// Send 将通知消息推送到Webhook地址
func (w *WebhookChannelSender) Send(ctx context.Context, message *NotificationMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("序列化通知消息失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, w.method, w.url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		req.Header.Set("X-Signature-256", "sha256="+utils.HMACSHA256(string(payload), w.secret))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送Webhook通知失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Webhook通知响应错误: %d", resp.StatusCode)
	}
	return nil
}

// GetChannelType 获取通道类型
func (w *WebhookChannelSender) GetChannelType() string {
	return meta.ConnectionTypeWebhook
}

// Close 关闭通道
func (w *WebhookChannelSender) Close() error {
	return nil
}
