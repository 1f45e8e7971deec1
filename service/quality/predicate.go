/*
 * @module service/quality/predicate
 * @description 谓词脚本执行器，基于yaegi对检查结果求布尔判定，支持编译缓存
 * @architecture 解释器模式 - Go脚本包装为Run函数编译执行，按脚本哈希缓存编译结果
 * @documentReference ai_docs/quality_check_req.md
 * @stateFlow 求值流程：计算脚本哈希 -> 查缓存 -> 未命中则编译 -> 注入结果参数执行 -> 断言布尔返回值
 * @rules 脚本必须返回布尔值；编译缓存以SHA1哈希为键，脚本内容不变不会重复编译
 * @dependencies github.com/traefik/yaegi
 * @refs engine.go, check_service.go
 */

package quality

import (
	"context"
	"crypto/sha1"
	"fmt"
	"sync"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// PredicateEvaluator 谓词执行器接口
type PredicateEvaluator interface {
	Evaluate(ctx context.Context, script string, result *CheckResult) (bool, error)
	Validate(script string) error
}

// PredicateExecutor 谓词脚本执行器实现 - 支持缓存和参数注入
type PredicateExecutor struct {
	mu    sync.RWMutex
	cache map[string]*compiledPredicate
}

// compiledPredicate 编译后的谓词脚本，保存可执行函数
type compiledPredicate struct {
	fn       func(map[string]interface{}) (interface{}, error)
	compiled time.Time // 编译时间
	hash     string    // 脚本哈希
}

// NewPredicateExecutor 创建谓词脚本执行器
func NewPredicateExecutor() *PredicateExecutor {
	return &PredicateExecutor{
		cache: make(map[string]*compiledPredicate),
	}
}

// Evaluate 对检查结果执行谓词脚本，返回布尔判定
func (p *PredicateExecutor) Evaluate(ctx context.Context, script string, result *CheckResult) (bool, error) {
	if result == nil {
		return false, fmt.Errorf("检查结果不能为空")
	}

	// 准备脚本参数
	params := make(map[string]interface{})
	params["task_id"] = result.TaskID
	params["description"] = result.Description
	params["execution_date"] = result.ExecutionDate
	params["result"] = result.Result
	params["min_threshold"] = result.MinThreshold
	params["max_threshold"] = result.MaxThreshold
	params["within_threshold"] = result.WithinThreshold

	value, err := p.execute(ctx, script, params)
	if err != nil {
		return false, err
	}

	passed, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("谓词脚本必须返回布尔值，实际返回 %T", value)
	}

	return passed, nil
}

// execute 执行脚本（带参数注入和缓存优化）
func (p *PredicateExecutor) execute(_ context.Context, script string, params map[string]interface{}) (interface{}, error) {
	// 使用脚本内容的哈希作为缓存key
	hash := fmt.Sprintf("%x", sha1.Sum([]byte(script)))

	// 先查缓存
	p.mu.RLock()
	compiled, ok := p.cache[hash]
	p.mu.RUnlock()

	if !ok {
		// 没有缓存则编译
		var err error
		compiled, err = p.compile(script, hash)
		if err != nil {
			return nil, fmt.Errorf("脚本编译失败: %v", err)
		}

		// 存入缓存
		p.mu.Lock()
		p.cache[hash] = compiled
		p.mu.Unlock()
	}

	// 调用编译后的函数
	return compiled.fn(params)
}

// compile 编译脚本为可执行函数
func (p *PredicateExecutor) compile(script, hash string) (*compiledPredicate, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("加载标准库失败: %w", err)
	}

	// 包装脚本：要求脚本必须实现一个 Run 函数
	wrapped := fmt.Sprintf(wrapTemplate, script)

	_, err := i.Eval(wrapped)
	if err != nil {
		return nil, fmt.Errorf("脚本编译失败: %w", err)
	}

	// 获取 Run 函数
	v, err := i.Eval("Run")
	if err != nil {
		return nil, fmt.Errorf("脚本缺少 Run 函数: %w", err)
	}

	runFunc, ok := v.Interface().(func(map[string]interface{}) (interface{}, error))
	if !ok {
		return nil, fmt.Errorf("Run 函数签名必须是 func(map[string]interface{}) (interface{}, error)")
	}

	return &compiledPredicate{
		fn:       runFunc,
		compiled: time.Now(),
		hash:     hash,
	}, nil
}

// wrapTemplate 脚本包装模板，从参数中提取检查结果字段供脚本直接使用
const wrapTemplate = `
package main

import (
	"fmt"
	"math"
	"time"
	"encoding/json"
	"sort"
	"strings"
)

// 必须提供一个 Run 函数作为入口
func Run(params map[string]interface{}) (interface{}, error) {
	// 从参数中提取检查结果字段，方便脚本使用
	var taskID string
	if v, exists := params["task_id"]; exists {
		taskID, _ = v.(string)
	}

	var description string
	if v, exists := params["description"]; exists {
		description, _ = v.(string)
	}

	var executionDate time.Time
	if v, exists := params["execution_date"]; exists {
		executionDate, _ = v.(time.Time)
	}

	var result float64
	if v, exists := params["result"]; exists {
		result, _ = v.(float64)
	}

	var minThreshold float64
	if v, exists := params["min_threshold"]; exists {
		minThreshold, _ = v.(float64)
	}

	var maxThreshold float64
	if v, exists := params["max_threshold"]; exists {
		maxThreshold, _ = v.(float64)
	}

	var withinThreshold bool
	if v, exists := params["within_threshold"]; exists {
		withinThreshold, _ = v.(bool)
	}

	// 脚本内容
%s
}
`

// GetCacheStats 获取缓存统计信息
func (p *PredicateExecutor) GetCacheStats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := make(map[string]interface{})
	stats["cache_size"] = len(p.cache)

	if len(p.cache) > 0 {
		oldestTime := time.Now()
		newestTime := time.Time{}

		for _, compiled := range p.cache {
			if compiled.compiled.Before(oldestTime) {
				oldestTime = compiled.compiled
			}
			if compiled.compiled.After(newestTime) {
				newestTime = compiled.compiled
			}
		}

		stats["oldest_compiled"] = oldestTime
		stats["newest_compiled"] = newestTime
	}

	return stats
}

// ClearCache 清理缓存
func (p *PredicateExecutor) ClearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = make(map[string]*compiledPredicate)
}

// Validate 验证脚本语法（快速校验）
func (p *PredicateExecutor) Validate(script string) error {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("加载标准库符号失败: %v", err)
	}

	// 包装脚本进行语法检查，使用与compile相同的包装逻辑
	wrapped := fmt.Sprintf(wrapTemplate, script)

	_, err := i.Compile(wrapped)
	return err
}
