/*
 * @module service/distributed_lock/redis_lock
 * @description Redis分布式锁实现，用于多实例环境下的质量检查调度和清理任务防重
 * @architecture 工具层 - 提供分布式锁能力
 * @documentReference ai_docs/distributed_lock_design.md
 * @stateFlow 获取锁 -> 执行检查 -> 释放锁/自动过期
 * @rules 锁值为实例标识，释放和续期通过Lua脚本校验持有者，避免误删其他实例的锁
 * @dependencies github.com/go-redis/redis/v8, github.com/google/uuid
 * @refs service/init.go, service/scheduler/check_scheduler.go, service/cleanup/execution_cleanup_service.go
 */

package distributed_lock

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DistributedLock 分布式锁接口
type DistributedLock interface {
	// TryLock 尝试获取锁，锁已被持有时返回false
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Unlock 释放当前实例持有的锁
	Unlock(ctx context.Context, key string) error
	// Refresh 续期当前实例持有的锁，锁已丢失时返回错误
	Refresh(ctx context.Context, key string, ttl time.Duration) error
}

// 释放锁：仅当锁值等于当前实例标识时删除
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// 续期锁：仅当锁值等于当前实例标识时重置过期时间
const refreshScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("expire", KEYS[1], ARGV[2])
end
return 0
`

// lockKey 构造锁在Redis中的完整键名
func lockKey(key string) string {
	return "dataquality:lock:" + key
}

// RedisLock 基于Redis SET NX的分布式锁
type RedisLock struct {
	client *redis.Client
	// holder 实例标识，主机名+进程号+随机后缀，容器环境下进程号可能相同
	holder string
}

// redisOptionsFromEnv 从环境变量读取Redis连接配置
func redisOptionsFromEnv() *redis.Options {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		parsed, err := strconv.Atoi(dbStr)
		if err != nil {
			slog.Warn("REDIS_DB 配置非法，使用默认库0", "value", dbStr)
		} else {
			db = parsed
		}
	}

	return &redis.Options{
		Addr:         host + ":" + port,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	}
}

// NewRedisLock 创建Redis分布式锁，连接失败时返回错误
func NewRedisLock() (*RedisLock, error) {
	opts := redisOptionsFromEnv()
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	hostname, _ := os.Hostname()
	holder := fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), uuid.NewString()[:8])

	slog.Info("Redis分布式锁就绪", "holder", holder, "addr", opts.Addr)

	return &RedisLock{
		client: client,
		holder: holder,
	}, nil
}

// TryLock 通过SET NX抢占锁，抢占成功返回true
func (r *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := r.client.SetNX(ctx, lockKey(key), r.holder, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("获取锁失败: %w", err)
	}

	if acquired {
		slog.Debug("获取分布式锁成功", "key", key, "ttl", ttl, "holder", r.holder)
	}
	return acquired, nil
}

// Unlock 释放锁
// 锁已过期或被其他实例持有时只记录日志，不视为错误
func (r *RedisLock) Unlock(ctx context.Context, key string) error {
	result, err := r.client.Eval(ctx, unlockScript, []string{lockKey(key)}, r.holder).Result()
	if err != nil {
		return fmt.Errorf("释放锁失败: %w", err)
	}

	if released, ok := result.(int64); !ok || released != 1 {
		slog.Warn("锁不存在或持有者已变更，跳过释放", "key", key, "holder", r.holder)
		return nil
	}

	slog.Debug("释放分布式锁成功", "key", key, "holder", r.holder)
	return nil
}

// Refresh 重置锁的过期时间
// 锁已丢失时返回错误，续期协程据此发现锁被抢占
func (r *RedisLock) Refresh(ctx context.Context, key string, ttl time.Duration) error {
	result, err := r.client.Eval(ctx, refreshScript, []string{lockKey(key)}, r.holder, int(ttl.Seconds())).Result()
	if err != nil {
		return fmt.Errorf("续期锁失败: %w", err)
	}

	if refreshed, ok := result.(int64); !ok || refreshed != 1 {
		return fmt.Errorf("锁已丢失或持有者已变更: %s", key)
	}

	slog.Debug("续期分布式锁成功", "key", key, "ttl", ttl, "holder", r.holder)
	return nil
}

// Close 关闭Redis客户端连接
func (r *RedisLock) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// LockExecutor 在分布式锁保护下执行任务的辅助执行器
type LockExecutor struct {
	lock DistributedLock
}

// NewLockExecutor 创建带锁执行器
func NewLockExecutor(lock DistributedLock) *LockExecutor {
	return &LockExecutor{lock: lock}
}

// ExecuteWithLock 获取锁后执行fn，锁被其他实例持有时静默跳过
func (e *LockExecutor) ExecuteWithLock(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	return e.runLocked(ctx, key, ttl, 0, fn)
}

// ExecuteWithLockAndRefresh 获取锁后执行fn，并按refreshInterval周期续期
// 适用于执行时长可能超过锁TTL的任务
func (e *LockExecutor) ExecuteWithLockAndRefresh(ctx context.Context, key string, ttl time.Duration, refreshInterval time.Duration, fn func() error) error {
	return e.runLocked(ctx, key, ttl, refreshInterval, fn)
}

// runLocked 抢占锁并执行fn，refreshInterval大于0时启动续期协程
func (e *LockExecutor) runLocked(ctx context.Context, key string, ttl, refreshInterval time.Duration, fn func() error) error {
	acquired, err := e.lock.TryLock(ctx, key, ttl)
	if err != nil {
		return fmt.Errorf("获取锁失败: %w", err)
	}
	if !acquired {
		slog.Debug("锁已被其他实例持有，跳过执行", "key", key)
		return nil
	}

	defer func() {
		if unlockErr := e.lock.Unlock(ctx, key); unlockErr != nil {
			slog.Error("释放锁失败", "key", key, "error", unlockErr)
		}
	}()

	if refreshInterval > 0 {
		refreshCtx, stopRefresh := context.WithCancel(ctx)
		defer stopRefresh()
		go e.refreshLoop(refreshCtx, key, ttl, refreshInterval)
	}

	return fn()
}

// refreshLoop 周期性续期锁，直到上下文取消或锁丢失
func (e *LockExecutor) refreshLoop(ctx context.Context, key string, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.lock.Refresh(ctx, key, ttl); err != nil {
				slog.Error("锁续期失败，停止续期", "key", key, "error", err)
				return
			}
		}
	}
}
