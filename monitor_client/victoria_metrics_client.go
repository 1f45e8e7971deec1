package monitor_client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

var VictoriaMetricsUrl = ""
var client = &http.Client{
	Timeout: 30 * time.Second,
}

const pushTimeout = 10 * time.Second

func init() {
	if envUrl := os.Getenv("VICTORIA_METRICS_URL"); envUrl != "" {
		VictoriaMetricsUrl = envUrl
	}
}

// SetVictoriaMetricsUrl 设置 VictoriaMetrics 的 URL（用于测试）
func SetVictoriaMetricsUrl(url string) {
	VictoriaMetricsUrl = url
}

// GetVictoriaMetricsUrl 获取当前 VictoriaMetrics 的 URL
func GetVictoriaMetricsUrl() string {
	return VictoriaMetricsUrl
}

// Enabled 是否启用指标上报，未配置 VICTORIA_METRICS_URL 时上报为空操作
func Enabled() bool {
	return VictoriaMetricsUrl != ""
}

// CheckSample 单次检查执行的指标样本
type CheckSample struct {
	CheckID    string    // 检查任务ID
	CheckName  string    // 检查任务名称
	Status     string    // 执行状态 passed/failed/error
	Result     *float64  // 检查结果值，执行出错时为空
	DurationMs int64     // 执行耗时（毫秒）
	Timestamp  time.Time // 执行时间
}

// PushCheckResult 将检查执行结果推送到 VictoriaMetrics
// 使用 Prometheus 文本格式写入 /api/v1/import/prometheus
func PushCheckResult(ctx context.Context, sample *CheckSample) error {
	if sample == nil {
		return errors.New("sample cannot be nil")
	}
	if VictoriaMetricsUrl == "" {
		return errors.New("victoria metrics url not configured")
	}

	body := buildMetricLines(sample, time.Now())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		VictoriaMetricsUrl+"/api/v1/import/prometheus", strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("指标写入失败: HTTP %d %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return nil
}

// PushCheckResultAsync 异步推送检查指标，失败只记录日志不影响检查流程
func PushCheckResultAsync(sample *CheckSample) {
	if !Enabled() || sample == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()

		if err := PushCheckResult(ctx, sample); err != nil {
			slog.Warn("检查指标上报失败", "check_id", sample.CheckID, "error", err)
		}
	}()
}

// buildMetricLines 构造 Prometheus 文本格式的指标行
func buildMetricLines(sample *CheckSample, now time.Time) string {
	ts := sample.Timestamp
	if ts.IsZero() {
		ts = now
	}
	tsMillis := ts.UnixMilli()

	// %q 的转义规则覆盖Prometheus标签值需要转义的反斜杠、双引号和换行
	labels := fmt.Sprintf(`check_id=%q,check_name=%q`, sample.CheckID, sample.CheckName)
	statusLabels := fmt.Sprintf(`%s,status=%q`, labels, sample.Status)

	var sb strings.Builder

	// 状态指标：每次执行写一个样本，值恒为1，按status标签区分
	fmt.Fprintf(&sb, "dataquality_check_status{%s} 1 %d\n", statusLabels, tsMillis)

	// 检查结果值，执行出错时没有结果
	if sample.Result != nil {
		fmt.Fprintf(&sb, "dataquality_check_result{%s} %v %d\n", labels, *sample.Result, tsMillis)
	}

	if sample.DurationMs > 0 {
		fmt.Fprintf(&sb, "dataquality_check_duration_ms{%s} %d %d\n", labels, sample.DurationMs, tsMillis)
	}

	return sb.String()
}
