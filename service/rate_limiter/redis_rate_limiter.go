/*
 * @module service/rate_limiter/redis_rate_limiter
 * @description 基于Redis的通知限流器，抑制告警风暴，支持检查、通道、全局三层限流
 * @architecture 工具层 - 提供分布式限流能力
 * @documentReference ai_docs/quality_check_design.md
 * @stateFlow 组装限流规则 -> 按层级逐层计数 -> 任意一层超限即拒绝
 * @rules 固定窗口计数，窗口起点按时间对齐，同层同目标同窗口共用一个计数Key
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/notifier/notifier.go
 */

package rate_limiter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// 限流层级
const (
	ScopeCheck   = "check"   // 按检查任务限流
	ScopeChannel = "channel" // 按通知通道类型限流
	ScopeGlobal  = "global"  // 全局限流
)

// 固定窗口计数脚本
// 返回 {是否放行, 当前计数, 剩余秒数}，计数达到上限后不再递增
const fixedWindowScript = `
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
if count >= limit then
	local ttl = redis.call('TTL', KEYS[1])
	if ttl < 0 then
		ttl = window
	end
	return {0, count, ttl}
end
count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('EXPIRE', KEYS[1], window)
end
local ttl = redis.call('TTL', KEYS[1])
if ttl < 0 then
	ttl = window
end
return {1, count, ttl}
`

// RateLimitResult 限流检查结果
type RateLimitResult struct {
	Allowed   bool   // 是否允许发送
	Limit     int    // 窗口内上限
	Remaining int    // 剩余可发送数
	ResetAt   int64  // 窗口重置时间（Unix时间戳）
	Scope     string // 触发层级
	Message   string // 提示信息
}

// RateLimitRule 限流规则
type RateLimitRule struct {
	Scope       string // check/channel/global
	TargetID    string // 目标ID（check_id或通道类型，全局时为空）
	TimeWindow  int    // 时间窗口（秒）
	MaxRequests int    // 窗口内最大通知数
}

// RedisRateLimiter Redis通知限流器
type RedisRateLimiter struct {
	client *redis.Client

	perCheckLimit int
	globalLimit   int
	windowSeconds int
}

// NewRedisRateLimiter 创建Redis通知限流器
// 限流参数从环境变量读取：NOTIFY_RATE_LIMIT_PER_CHECK（默认10）、
// NOTIFY_RATE_LIMIT_GLOBAL（默认100）、NOTIFY_RATE_WINDOW（默认300秒）
func NewRedisRateLimiter() (*RedisRateLimiter, error) {
	opts := limiterRedisOptions()
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis连接失败: %w", err)
	}

	limiter := &RedisRateLimiter{
		client:        client,
		perCheckLimit: getEnvIntWithDefault("NOTIFY_RATE_LIMIT_PER_CHECK", 10),
		globalLimit:   getEnvIntWithDefault("NOTIFY_RATE_LIMIT_GLOBAL", 100),
		windowSeconds: getEnvIntWithDefault("NOTIFY_RATE_WINDOW", 300),
	}

	slog.Info("通知限流器就绪",
		"addr", opts.Addr,
		"per_check_limit", limiter.perCheckLimit,
		"global_limit", limiter.globalLimit,
		"window_seconds", limiter.windowSeconds)

	return limiter, nil
}

// limiterRedisOptions 从环境变量读取Redis连接配置，与分布式锁共用同一组变量
func limiterRedisOptions() *redis.Options {
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
		if parsed, err := strconv.Atoi(dbStr); err == nil {
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

// AllowNotify 判断检查的通知是否允许发送，任意一层超限返回false
func (r *RedisRateLimiter) AllowNotify(ctx context.Context, checkID, channelType string) (bool, error) {
	result, err := r.CheckRateLimit(ctx, r.notifyRules(checkID, channelType))
	if err != nil {
		return false, err
	}

	if !result.Allowed {
		slog.Warn("通知触发限流",
			"check_id", checkID,
			"channel_type", channelType,
			"scope", result.Scope,
			"limit", result.Limit,
			"reset_at", result.ResetAt)
	}

	return result.Allowed, nil
}

// notifyRules 构造通知限流规则：检查层 + 全局层
func (r *RedisRateLimiter) notifyRules(checkID, channelType string) []RateLimitRule {
	rules := []RateLimitRule{
		{Scope: ScopeGlobal, TimeWindow: r.windowSeconds, MaxRequests: r.globalLimit},
	}
	if checkID != "" {
		rules = append(rules, RateLimitRule{
			Scope:       ScopeCheck,
			TargetID:    checkID,
			TimeWindow:  r.windowSeconds,
			MaxRequests: r.perCheckLimit,
		})
	}
	if channelType != "" {
		rules = append(rules, RateLimitRule{
			Scope:       ScopeChannel,
			TargetID:    channelType,
			TimeWindow:  r.windowSeconds,
			MaxRequests: r.globalLimit,
		})
	}
	return rules
}

// CheckRateLimit 按优先级逐层计数，返回第一个超限层或最后一层的计数结果
func (r *RedisRateLimiter) CheckRateLimit(ctx context.Context, rules []RateLimitRule) (*RateLimitResult, error) {
	last := &RateLimitResult{
		Allowed:   true,
		Limit:     -1,
		Remaining: -1,
		Scope:     "none",
		Message:   "无限流规则",
	}

	for _, rule := range sortRulesByPriority(rules) {
		result, err := r.countRule(ctx, rule)
		if err != nil {
			return nil, err
		}
		if !result.Allowed {
			return result, nil
		}
		last = result
	}

	return last, nil
}

// countRule 对单条规则执行窗口计数
func (r *RedisRateLimiter) countRule(ctx context.Context, rule RateLimitRule) (*RateLimitResult, error) {
	key := buildRateLimitKey(rule.Scope, rule.TargetID, rule.TimeWindow, time.Now())

	raw, err := r.client.Eval(ctx, fixedWindowScript, []string{key}, rule.MaxRequests, rule.TimeWindow).Result()
	if err != nil {
		return nil, fmt.Errorf("限流计数失败: %w", err)
	}

	allowed, count, ttl, err := parseWindowReply(raw)
	if err != nil {
		return nil, err
	}

	remaining := rule.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	message := "允许发送"
	if !allowed {
		message = fmt.Sprintf("超过%s限流限制", getRateLimitScopeName(rule.Scope))
	}

	return &RateLimitResult{
		Allowed:   allowed,
		Limit:     rule.MaxRequests,
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Duration(ttl) * time.Second).Unix(),
		Scope:     rule.Scope,
		Message:   message,
	}, nil
}

// parseWindowReply 解析计数脚本的三元组返回值
func parseWindowReply(raw interface{}) (allowed bool, count, ttl int, err error) {
	values, ok := raw.([]interface{})
	if !ok || len(values) != 3 {
		return false, 0, 0, fmt.Errorf("限流脚本返回格式异常: %v", raw)
	}

	nums := make([]int64, 3)
	for i, v := range values {
		n, ok := v.(int64)
		if !ok {
			return false, 0, 0, fmt.Errorf("限流脚本返回格式异常: %v", raw)
		}
		nums[i] = n
	}

	return nums[0] == 1, int(nums[1]), int(nums[2]), nil
}

// buildRateLimitKey 构造限流Key，同一时间窗口落在同一个Key上
func buildRateLimitKey(scope, targetID string, window int, now time.Time) string {
	baseKey := "notify_rate_limit"
	currentWindow := now.Unix() / int64(window)

	if scope == ScopeGlobal {
		return fmt.Sprintf("%s:%s:%d", baseKey, scope, currentWindow)
	}
	return fmt.Sprintf("%s:%s:%s:%d", baseKey, scope, targetID, currentWindow)
}

// scopePriority 层级优先级，数值越大越先检查
func scopePriority(scope string) int {
	switch scope {
	case ScopeCheck:
		return 3
	case ScopeChannel:
		return 2
	case ScopeGlobal:
		return 1
	default:
		return 0
	}
}

// sortRulesByPriority 按优先级排序规则副本：check > channel > global
func sortRulesByPriority(rules []RateLimitRule) []RateLimitRule {
	sorted := make([]RateLimitRule, len(rules))
	copy(sorted, rules)

	sort.Slice(sorted, func(i, j int) bool {
		return scopePriority(sorted[i].Scope) > scopePriority(sorted[j].Scope)
	})

	return sorted
}

// getRateLimitScopeName 获取限流层级名称
func getRateLimitScopeName(scope string) string {
	switch scope {
	case ScopeCheck:
		return "检查"
	case ScopeChannel:
		return "通道"
	case ScopeGlobal:
		return "全局"
	default:
		return "未知"
	}
}

// Close 关闭Redis客户端
func (r *RedisRateLimiter) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// getEnvIntWithDefault 获取整型环境变量，解析失败或非正数时返回默认值
func getEnvIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}
