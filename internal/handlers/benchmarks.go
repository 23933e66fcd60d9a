package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"performance-core/internal/benchmarks"
	"performance-core/internal/logger"
	"performance-core/internal/services"
)

// BenchmarkHandler serves industry benchmarks
type BenchmarkHandler struct {
	logger       *logger.Logger
	benchmarkSvc services.BenchmarkService
}

// NewBenchmarkHandler creates a new benchmark handler
func NewBenchmarkHandler(logger *logger.Logger, benchmarkSvc services.BenchmarkService) *BenchmarkHandler {
	return &BenchmarkHandler{logger: logger, benchmarkSvc: benchmarkSvc}
}

// BenchmarkResponse is a single benchmark lookup. Benchmark is null when the
// metric is unsupported.
type BenchmarkResponse struct {
	Industry  string            `json:"industry"`
	Metric    string            `json:"metric"`
	Benchmark *benchmarks.Entry `json:"benchmark"`
	Source    benchmarks.Source `json:"source"`
}

// IndustryBenchmarksResponse is every supported metric of an industry
type IndustryBenchmarksResponse struct {
	Industry   string                      `json:"industry"`
	Benchmarks map[string]benchmarks.Entry `json:"benchmarks"`
}

// RegisterRoutes registers benchmark routes
func (h *BenchmarkHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/benchmarks/industries", h.ListIndustries).Methods("GET")
	router.HandleFunc("/benchmarks/{industry}", h.GetIndustryBenchmarks).Methods("GET")
	router.HandleFunc("/benchmarks/{industry}/{metric}", h.GetBenchmark).Methods("GET")
}

func (h *BenchmarkHandler) ListIndustries(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"industries": h.benchmarkSvc.Industries(),
	})
}

func (h *BenchmarkHandler) GetIndustryBenchmarks(w http.ResponseWriter, r *http.Request) {
	industry := strings.ToLower(mux.Vars(r)["industry"])
	writeJSONResponse(w, http.StatusOK, IndustryBenchmarksResponse{
		Industry:   industry,
		Benchmarks: h.benchmarkSvc.IndustryTable(industry),
	})
}

func (h *BenchmarkHandler) GetBenchmark(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entry, source := h.benchmarkSvc.Lookup(vars["industry"], vars["metric"])
	writeJSONResponse(w, http.StatusOK, BenchmarkResponse{
		Industry:  vars["industry"],
		Metric:    vars["metric"],
		Benchmark: entry,
		Source:    source,
	})
}
