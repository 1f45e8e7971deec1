/*
 * @module service/notifier/redis_channel
 * @description Redis通知通道，将检查结果通知发布到Redis频道
 * @architecture 适配器模式 - 封装go-redis客户端
 * @stateFlow 构建客户端 -> 发布消息 -> 关闭客户端
 * @rules 通道引用的target优先于连接配置的频道
 * @dependencies github.com/go-redis/redis/v8, encoding/json
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

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
)

// RedisChannelSender Redis通知通道发送器
type RedisChannelSender struct {
	client  *redis.Client
	channel string
}

// newRedisChannelSender 从连接配置构建Redis通知通道
func newRedisChannelSender(conn *models.Connection, target string) (*RedisChannelSender, error) {
	addr := conn.ConfigString(meta.ConnectionFieldAddr)
	if addr == "" {
		return nil, errors.New("Redis通知连接缺少地址配置")
	}

	channel := target
	if channel == "" {
		channel = conn.ConfigString(meta.ConnectionFieldChannel)
	}
	if channel == "" {
		return nil, errors.New("Redis通知连接缺少频道配置")
	}

	password, err := utils.DecryptSecret(conn.ConfigString(meta.ConnectionFieldPassword))
	if err != nil {
		return nil, fmt.Errorf("解密Redis密码失败: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           cast.ToInt(conn.Config[meta.ConnectionFieldDB]),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &RedisChannelSender{
		client:  client,
		channel: channel,
	}, nil
}

// Send 将通知消息发布到Redis频道
func (r *RedisChannelSender) Send(ctx context.Context, message *NotificationMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("序列化通知消息失败: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("发布Redis通知失败: %w", err)
	}
	return nil
}

// GetChannelType 获取通道类型
func (r *RedisChannelSender) GetChannelType() string {
	return meta.ConnectionTypeRedis
}

// Close 关闭Redis客户端
func (r *RedisChannelSender) Close() error {
	return r.client.Close()
}
