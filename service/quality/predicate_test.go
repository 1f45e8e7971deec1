/*
 * @module service/quality/predicate_test
 * @description 谓词脚本执行器单元测试，覆盖布尔判定、参数注入和编译缓存
 * @architecture 单元测试 - 直接驱动yaegi执行器验证脚本语义
 * @documentReference ai_docs/quality_check_req.md
 * @stateFlow 测试流程：构造检查结果 -> 执行谓词脚本 -> 验证判定和错误
 * @rules 覆盖所有公共方法和错误场景，确保代码质量
 * @dependencies testing, context
 * @refs predicate.go, test_utils.go
 */

package quality

import (
	"context"
	"strings"
	"testing"
)

func TestPredicateExecutor_Evaluate(t *testing.T) {
	tests := []struct {
		name         string
		script       string
		expectPassed bool
		expectError  bool
	}{
		{
			name:         "predicate returns true",
			script:       "return result > 15, nil",
			expectPassed: true,
			expectError:  false,
		},
		{
			name:         "predicate returns false",
			script:       "return result > 25, nil",
			expectPassed: false,
			expectError:  false,
		},
		{
			name:         "predicate uses thresholds",
			script:       "return minThreshold <= result && result <= maxThreshold, nil",
			expectPassed: true,
			expectError:  false,
		},
		{
			name:         "predicate uses within threshold flag",
			script:       "return withinThreshold, nil",
			expectPassed: true,
			expectError:  false,
		},
		{
			name:         "predicate uses task id",
			script:       `return strings.HasPrefix(taskID, "test"), nil`,
			expectPassed: true,
			expectError:  false,
		},
		{
			name:         "predicate uses execution date",
			script:       "return !executionDate.IsZero(), nil",
			expectPassed: true,
			expectError:  false,
		},
		{
			name:         "predicate uses description",
			script:       `return description != "", nil`,
			expectPassed: true,
			expectError:  false,
		},
		{
			name:        "non boolean return",
			script:      "return result, nil",
			expectError: true,
		},
		{
			name:        "script returns error",
			script:      `return false, fmt.Errorf("数据异常: %v", result)`,
			expectError: true,
		},
		{
			name:        "script with syntax error",
			script:      "return result >",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := NewPredicateExecutor()
			result := CreateTestCheckResult()

			passed, err := executor.Evaluate(context.Background(), tt.script, result)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if passed != tt.expectPassed {
				t.Errorf("expected passed %v, got %v", tt.expectPassed, passed)
			}
		})
	}
}

func TestPredicateExecutor_Evaluate_NonBooleanMessage(t *testing.T) {
	executor := NewPredicateExecutor()

	_, err := executor.Evaluate(context.Background(), "return result, nil", CreateTestCheckResult())
	if err == nil {
		t.Fatal("expected error for non boolean return")
	}
	if !strings.Contains(err.Error(), "布尔值") {
		t.Errorf("expected boolean type error message, got %q", err.Error())
	}
}

func TestPredicateExecutor_Evaluate_NilResult(t *testing.T) {
	executor := NewPredicateExecutor()

	if _, err := executor.Evaluate(context.Background(), "return true, nil", nil); err == nil {
		t.Error("expected error for nil result")
	}
}

func TestPredicateExecutor_Evaluate_FailedCheckResult(t *testing.T) {
	executor := NewPredicateExecutor()
	result := CreateTestCheckResult()
	result.Result = 35
	result.WithinThreshold = false

	passed, err := executor.Evaluate(context.Background(), "return withinThreshold, nil", result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if passed {
		t.Error("expected predicate to fail for out-of-threshold result")
	}

	// 谓词可以在阈值越界时放行
	passed, err = executor.Evaluate(context.Background(), "return result < maxThreshold*1.5, nil", result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !passed {
		t.Error("expected tolerant predicate to pass")
	}
}

func TestPredicateExecutor_CacheBehavior(t *testing.T) {
	executor := NewPredicateExecutor()
	result := CreateTestCheckResult()
	script := "return result > 0, nil"

	for i := 0; i < 3; i++ {
		if _, err := executor.Evaluate(context.Background(), script, result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	stats := executor.GetCacheStats()
	if stats["cache_size"] != 1 {
		t.Errorf("expected cache size 1 after repeated evaluation, got %v", stats["cache_size"])
	}

	if _, err := executor.Evaluate(context.Background(), "return result < 100, nil", result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats = executor.GetCacheStats()
	if stats["cache_size"] != 2 {
		t.Errorf("expected cache size 2 after second script, got %v", stats["cache_size"])
	}

	executor.ClearCache()
	stats = executor.GetCacheStats()
	if stats["cache_size"] != 0 {
		t.Errorf("expected empty cache after clear, got %v", stats["cache_size"])
	}
}

func TestPredicateExecutor_Validate(t *testing.T) {
	tests := []struct {
		name        string
		script      string
		expectError bool
	}{
		{
			name:        "valid script",
			script:      "return result > 0, nil",
			expectError: false,
		},
		{
			name:        "valid script with helper functions",
			script:      "return math.Abs(result-minThreshold) > 1, nil",
			expectError: false,
		},
		{
			name:        "syntax error",
			script:      "return result >",
			expectError: true,
		},
		{
			name:        "unbalanced braces",
			script:      "if result > 0 { return true, nil",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := NewPredicateExecutor()

			err := executor.Validate(tt.script)
			if tt.expectError && err == nil {
				t.Error("expected validation error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func BenchmarkPredicateExecutor_Evaluate(b *testing.B) {
	executor := NewPredicateExecutor()
	result := CreateTestCheckResult()
	script := "return minThreshold <= result && result <= maxThreshold, nil"

	// 预热编译缓存
	if _, err := executor.Evaluate(context.Background(), script, result); err != nil {
		b.Fatalf("warmup failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := executor.Evaluate(context.Background(), script, result); err != nil {
			b.Fatalf("evaluate failed: %v", err)
		}
	}
}
