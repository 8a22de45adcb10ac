package handler

import (
	"net/http"

	"github.com/hitoshi/aurorah/internal/counter"
	"github.com/hitoshi/aurorah/internal/metrics"
)

// CounterServiceInterface はカウンタハンドラーが必要とするサービスインターフェース。
type CounterServiceInterface interface {
	Value() int64
	Increment() int64
	Decrement() int64
	Reset() int64
}

// CounterMetricsRecorder はカウンタ操作のメトリクス記録に必要なインターフェース。
type CounterMetricsRecorder interface {
	RecordCounterOperation(op string, value int64)
}

// counterResponse はカウンタ値のレスポンス。
type counterResponse struct {
	Count int64 `json:"count"`
}

// CounterHandler はカウンタ関連のHTTPハンドラー。
type CounterHandler struct {
	service CounterServiceInterface
	metrics CounterMetricsRecorder
}

// NewCounterHandler はCounterHandlerを生成する。recorderがnilの場合は記録しない。
func NewCounterHandler(service CounterServiceInterface, recorder CounterMetricsRecorder) *CounterHandler {
	if recorder == nil {
		recorder = metrics.NopCollector{}
	}
	return &CounterHandler{
		service: service,
		metrics: recorder,
	}
}

// Get は現在のカウンタ値を返す。
// GET /api/counter
func (h *CounterHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, counterResponse{Count: h.service.Value()})
}

// Increment はカウンタに1を加算する。
// POST /api/counter/increment
func (h *CounterHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.respond(w, counter.OpIncrement, h.service.Increment())
}

// Decrement はカウンタから1を減算する。
// POST /api/counter/decrement
func (h *CounterHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.respond(w, counter.OpDecrement, h.service.Decrement())
}

// Reset はカウンタを0に戻す。
// POST /api/counter/reset
func (h *CounterHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.respond(w, counter.OpReset, h.service.Reset())
}

func (h *CounterHandler) respond(w http.ResponseWriter, op counter.Op, value int64) {
	h.metrics.RecordCounterOperation(string(op), value)
	writeJSON(w, http.StatusOK, counterResponse{Count: value})
}
