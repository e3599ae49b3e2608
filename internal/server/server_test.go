package server

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iwvelando/acquisition-forecast/pkg/benchmark"
	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"github.com/iwvelando/acquisition-forecast/pkg/testutil"
	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	return NewHandler(zap.NewNop(), Options{Version: "1.2.3"})
}

func multipartRequest(t *testing.T, target, field, contents string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, "config.yaml")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleAnalyzeUpload(t *testing.T) {
	req := multipartRequest(t, "/api/analyze", "file", testutil.SampleConfigYAML)
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Report == nil || resp.Report.Business.Name != "Lakeside HVAC Services" {
		t.Fatalf("unexpected report: %+v", resp.Report)
	}
	if resp.Report.Offer.RecommendedOffer <= 0 {
		t.Error("expected a recommended offer")
	}
	if !strings.HasPrefix(resp.CSV, "section,metric,value") {
		t.Errorf("expected CSV data in response, got %q", resp.CSV)
	}
	if resp.Duration == "" {
		t.Error("expected duration in response")
	}
	if !strings.Contains(resp.ConfigYAML, "askingPrice") {
		t.Error("expected config YAML in response")
	}
}

func TestHandleAnalyzeJSON(t *testing.T) {
	body := `{
  "business": {
    "name": "Corner Bakery",
    "industry": "Retail",
    "askingPrice": 400000,
    "annualRevenue": 800000,
    "annualProfit": 120000,
    "financing": {"downPaymentPercent": 25, "interestRatePercent": 8, "termYears": 7}
  },
  "assumptions": {"investmentPeriod": 4}
}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze?optimize=true", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Report.Benchmark.Industry != "Retail" {
		t.Errorf("Benchmark.Industry = %q, expected Retail", resp.Report.Benchmark.Industry)
	}
	if !resp.Report.EstimatedValuations {
		t.Error("expected benchmark-estimated valuations")
	}
	if resp.Report.Optimization == nil {
		t.Error("expected optimizer output when optimize=true")
	}
	if len(resp.Report.Returns.AdjustedCashFlows) != 4 {
		t.Errorf("expected 4 projected years, got %d", len(resp.Report.Returns.AdjustedCashFlows))
	}
}

func TestHandleAnalyzeErrors(t *testing.T) {
	testCases := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		status int
	}{
		{
			name: "missing file field",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/analyze", "other", testutil.SampleConfigYAML)
			},
			status: http.StatusBadRequest,
		},
		{
			name: "malformed yaml",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/analyze", "file", "business: [unclosed")
			},
			status: http.StatusBadRequest,
		},
		{
			name: "invalid investment period",
			req: func(t *testing.T) *http.Request {
				yaml := strings.Replace(testutil.SampleConfigYAML, "investmentPeriod: 5", "investmentPeriod: 0", 1)
				return multipartRequest(t, "/api/analyze", "file", yaml)
			},
			status: http.StatusBadRequest,
		},
		{
			name: "empty body",
			req: func(*testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(""))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "wrong method",
			req: func(*testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
			},
			status: http.StatusMethodNotAllowed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			newTestHandler().ServeHTTP(rr, tc.req(t))
			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleAnalyzeUploadTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{MaxUploadSize: 64})
	req := multipartRequest(t, "/api/analyze", "file", testutil.SampleConfigYAML)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleFinancing(t *testing.T) {
	body := `{"askingPrice": 1000000, "financing": {"downPaymentPercent": 20, "interestRatePercent": 0, "termYears": 10}}`
	req := httptest.NewRequest(http.MethodPost, "/api/financing", strings.NewReader(body))
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp financingResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result.DownPayment != 200000 || resp.Result.LoanAmount != 800000 {
		t.Errorf("unexpected split: %+v", resp.Result)
	}
	if math.Abs(resp.Result.AnnualPayment-80000) > 1e-6 {
		t.Errorf("AnnualPayment = %v, expected 80000 for a zero-interest loan", resp.Result.AnnualPayment)
	}
	if len(resp.DebtService) != 10 {
		t.Errorf("expected 10 years of debt service, got %d", len(resp.DebtService))
	}

	bad := httptest.NewRequest(http.MethodPost, "/api/financing",
		strings.NewReader(`{"askingPrice": 1000, "financing": {"downPaymentPercent": 150}}`))
	rr = httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, bad)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for invalid down payment, got %d", rr.Code)
	}
}

func TestHandleBenchmarks(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/benchmarks", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var list struct {
		Fallback   string                `json:"fallback"`
		Benchmarks []benchmark.Benchmark `json:"benchmarks"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if list.Fallback != "Services" || len(list.Benchmarks) != len(benchmark.Default().Entries()) {
		t.Errorf("unexpected benchmark list: fallback %q, %d entries", list.Fallback, len(list.Benchmarks))
	}

	testCases := map[string]string{
		"tech":             "Technology",
		"Unknown Industry": "Services",
	}
	for label, want := range testCases {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/benchmarks/"+strings.ReplaceAll(label, " ", "%20"), nil)
		newTestHandler().ServeHTTP(rr, req)

		var resp benchmarkResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Benchmark.Industry != want || resp.Requested != label {
			t.Errorf("lookup %q = %+v, expected %s", label, resp, want)
		}
	}
}

func TestHandleVersion(t *testing.T) {
	testCases := []struct {
		version string
		want    string
	}{
		{version: "1.2.3", want: "1.2.3"},
		{version: "  ", want: "dev"},
	}
	for _, tc := range testCases {
		handler := NewHandler(nil, Options{Version: tc.version, MaxUploadSize: constants.DefaultMaxUploadSizeBytes})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))

		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["version"] != tc.want {
			t.Errorf("version = %q, expected %q", resp["version"], tc.want)
		}
	}
}
