// Package server exposes the acquisition model over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/acquisition-forecast/internal/analysis"
	"github.com/iwvelando/acquisition-forecast/internal/config"
	"github.com/iwvelando/acquisition-forecast/pkg/benchmark"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"github.com/iwvelando/acquisition-forecast/pkg/engine"
	"github.com/iwvelando/acquisition-forecast/pkg/financing"
	"github.com/iwvelando/acquisition-forecast/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	engine        *engine.Engine
	catalog       *benchmark.Catalog
	maxUploadSize int64
	timeout       time.Duration
	version       string
}

// Options tune the handler. Zero values select the defaults.
type Options struct {
	MaxUploadSize  int64
	RequestTimeout time.Duration
	Version        string
	Catalog        *benchmark.Catalog
}

// NewHandler constructs the HTTP handler that serves the analysis API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = benchmark.Default()
	}

	h := &handler{
		logger:        logger,
		engine:        engine.New(logger, catalog),
		catalog:       catalog,
		maxUploadSize: opts.MaxUploadSize,
		timeout:       opts.RequestTimeout,
		version:       version,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", h.handleAnalyze)
	mux.HandleFunc("POST /api/financing", h.handleFinancing)
	mux.HandleFunc("GET /api/benchmarks", h.handleBenchmarks)
	mux.HandleFunc("GET /api/benchmarks/{industry}", h.handleBenchmark)
	mux.HandleFunc("GET /api/version", h.handleVersion)
	return mux
}

type analyzeResponse struct {
	Report     *analysis.Report `json:"report"`
	CSV        string           `json:"csv"`
	Warnings   []string         `json:"warnings,omitempty"`
	Duration   string           `json:"duration"`
	ConfigYAML string           `json:"configYaml,omitempty"`
}

// handleAnalyze accepts either a multipart upload with the YAML
// configuration in the "file" field or a JSON configuration body.
// "optimize=true" in the query enables the price optimizer.
func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyze"
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	data, configType, err := h.readConfiguration(r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(data), configType)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if optimize, ok := queryBool(r, "optimize"); ok && optimize {
		if cfg.Optimizer == nil {
			cfg.Optimizer = &config.OptimizerConfig{}
		}
		cfg.Optimizer.Enabled = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	report, err := analysis.Run(ctx, h.logger, cfg)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		h.respondError(w, status, err.Error(), op)
		return
	}

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, report); err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	response := analyzeResponse{
		Report:   report,
		CSV:      csvBuf.String(),
		Warnings: report.Warnings,
	}
	if configYAML, err := yaml.Marshal(cfg); err != nil {
		h.logger.Warn("failed to marshal normalized configuration",
			zap.String("op", op),
			zap.Error(err),
		)
	} else {
		response.ConfigYAML = string(configYAML)
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()

	h.logger.Info("analysis computed",
		zap.String("op", op),
		zap.String("business", report.Business.Name),
		zap.Int("scenarios", len(report.Scenarios.Scenarios)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) readConfiguration(r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, "", errors.New("missing configuration body")
		}
		return data, "json", nil
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to parse upload: %w", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, "", errors.New("missing configuration file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.readConfiguration"),
				zap.Error(closeErr),
			)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read configuration: %w", err)
	}
	return data, "yaml", nil
}

type financingRequest struct {
	AskingPrice float64                 `json:"askingPrice"`
	Financing   business.FinancingTerms `json:"financing"`
}

type financingResponse struct {
	Result      financing.Result        `json:"result"`
	DebtService []financing.YearSummary `json:"debtService,omitempty"`
}

func (h *handler) handleFinancing(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFinancing"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req financingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	facts := business.Facts{AskingPrice: req.AskingPrice, Financing: req.Financing}
	if err := facts.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	result := h.engine.ComputeFinancing(facts)
	schedule := financing.NewScheduleGenerator(h.logger).GenerateSchedule(
		result.LoanAmount, req.Financing.InterestRatePercent, req.Financing.TermYears)

	h.writeJSON(w, http.StatusOK, financingResponse{
		Result:      result,
		DebtService: financing.YearlyDebtService(schedule),
	})
}

func (h *handler) handleBenchmarks(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"fallback":   h.catalog.Fallback().Industry,
		"benchmarks": h.catalog.Entries(),
	})
}

type benchmarkResponse struct {
	Requested string              `json:"requested"`
	Benchmark benchmark.Benchmark `json:"benchmark"`
}

func (h *handler) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	label := r.PathValue("industry")
	h.writeJSON(w, http.StatusOK, benchmarkResponse{
		Requested: label,
		Benchmark: h.engine.LookupBenchmark(label),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func queryBool(r *http.Request, key string) (bool, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return parsed, true
}
