package monitor_client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPushCheckResult(t *testing.T) {
	var receivedPath string
	var receivedBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		receivedBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	originalUrl := GetVictoriaMetricsUrl()
	defer SetVictoriaMetricsUrl(originalUrl) // 恢复原始URL
	SetVictoriaMetricsUrl(server.URL)

	result := 42.5
	sample := &CheckSample{
		CheckID:    "qc-1",
		CheckName:  "成本记录数下限",
		Status:     "passed",
		Result:     &result,
		DurationMs: 153,
		Timestamp:  time.Unix(1700000000, 0),
	}

	if err := PushCheckResult(context.Background(), sample); err != nil {
		t.Fatalf("推送指标失败: %v", err)
	}

	if receivedPath != "/api/v1/import/prometheus" {
		t.Errorf("期望路径 /api/v1/import/prometheus, 实际 %s", receivedPath)
	}

	expectedLines := []string{
		`dataquality_check_status{check_id="qc-1",check_name="成本记录数下限",status="passed"} 1 1700000000000`,
		`dataquality_check_result{check_id="qc-1",check_name="成本记录数下限"} 42.5 1700000000000`,
		`dataquality_check_duration_ms{check_id="qc-1",check_name="成本记录数下限"} 153 1700000000000`,
	}
	for _, line := range expectedLines {
		if !strings.Contains(receivedBody, line) {
			t.Errorf("请求体缺少指标行 %q, 实际内容:\n%s", line, receivedBody)
		}
	}
}

func TestPushCheckResultWithoutResult(t *testing.T) {
	var receivedBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		receivedBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	originalUrl := GetVictoriaMetricsUrl()
	defer SetVictoriaMetricsUrl(originalUrl)
	SetVictoriaMetricsUrl(server.URL)

	// 执行出错的检查没有结果值和耗时
	sample := &CheckSample{
		CheckID:   "qc-2",
		CheckName: "sales_amount",
		Status:    "error",
		Timestamp: time.Unix(1700000000, 0),
	}

	if err := PushCheckResult(context.Background(), sample); err != nil {
		t.Fatalf("推送指标失败: %v", err)
	}

	if !strings.Contains(receivedBody, `status="error"`) {
		t.Errorf("请求体缺少状态标签, 实际内容:\n%s", receivedBody)
	}
	if strings.Contains(receivedBody, "dataquality_check_result") {
		t.Errorf("没有结果值时不应写入结果指标, 实际内容:\n%s", receivedBody)
	}
	if strings.Contains(receivedBody, "dataquality_check_duration_ms") {
		t.Errorf("没有耗时时不应写入耗时指标, 实际内容:\n%s", receivedBody)
	}
}

func TestPushCheckResultServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	originalUrl := GetVictoriaMetricsUrl()
	defer SetVictoriaMetricsUrl(originalUrl)
	SetVictoriaMetricsUrl(server.URL)

	result := 1.0
	sample := &CheckSample{
		CheckID:   "qc-1",
		CheckName: "costs_row_count",
		Status:    "passed",
		Result:    &result,
	}

	err := PushCheckResult(context.Background(), sample)
	if err == nil {
		t.Fatal("服务端错误时应返回错误")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("错误信息应包含HTTP状态码, 实际: %v", err)
	}
}

func TestPushCheckResultNotConfigured(t *testing.T) {
	originalUrl := GetVictoriaMetricsUrl()
	defer SetVictoriaMetricsUrl(originalUrl)
	SetVictoriaMetricsUrl("")

	if Enabled() {
		t.Error("未配置URL时Enabled应返回false")
	}

	if err := PushCheckResult(context.Background(), &CheckSample{CheckID: "qc-1"}); err == nil {
		t.Fatal("未配置URL时应返回错误")
	}
}

func TestPushCheckResultNilSample(t *testing.T) {
	originalUrl := GetVictoriaMetricsUrl()
	defer SetVictoriaMetricsUrl(originalUrl)
	SetVictoriaMetricsUrl("http://localhost:8428")

	if err := PushCheckResult(context.Background(), nil); err == nil {
		t.Fatal("空样本应返回错误")
	}
}

func TestBuildMetricLines(t *testing.T) {
	tests := []struct {
		name         string
		sample       *CheckSample
		wantContains []string
		wantAbsent   []string
	}{
		{
			name: "标签值转义",
			sample: &CheckSample{
				CheckID:   "qc-1",
				CheckName: `name with "quote"`,
				Status:    "failed",
				Timestamp: time.Unix(1700000000, 0),
			},
			wantContains: []string{`check_name="name with \"quote\""`},
		},
		{
			name: "零时间戳回退到当前时间",
			sample: &CheckSample{
				CheckID:   "qc-1",
				CheckName: "costs_row_count",
				Status:    "passed",
			},
			wantContains: []string{"1800000000000"},
		},
		{
			name: "耗时为0时不写入耗时指标",
			sample: &CheckSample{
				CheckID:   "qc-1",
				CheckName: "costs_row_count",
				Status:    "passed",
				Timestamp: time.Unix(1700000000, 0),
			},
			wantAbsent: []string{"dataquality_check_duration_ms"},
		},
	}

	now := time.Unix(1800000000, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := buildMetricLines(tt.sample, now)
			for _, want := range tt.wantContains {
				if !strings.Contains(lines, want) {
					t.Errorf("指标行缺少 %q, 实际内容:\n%s", want, lines)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(lines, absent) {
					t.Errorf("指标行不应包含 %q, 实际内容:\n%s", absent, lines)
				}
			}
		})
	}
}

func TestSetAndGetVictoriaMetricsUrl(t *testing.T) {
	originalUrl := GetVictoriaMetricsUrl()
	defer SetVictoriaMetricsUrl(originalUrl) // 恢复原始URL

	testUrl := "http://test.example.com:8428"
	SetVictoriaMetricsUrl(testUrl)

	if got := GetVictoriaMetricsUrl(); got != testUrl {
		t.Errorf("GetVictoriaMetricsUrl() = %v, want %v", got, testUrl)
	}
}

func TestPushCheckResultWithTimeout(t *testing.T) {
	// 创建一个慢响应的服务器
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	originalUrl := GetVictoriaMetricsUrl()
	defer SetVictoriaMetricsUrl(originalUrl)
	SetVictoriaMetricsUrl(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := PushCheckResult(ctx, &CheckSample{CheckID: "qc-1", CheckName: "slow", Status: "passed"})
	if err == nil {
		t.Error("期望超时错误，但没有收到错误")
	}
}
