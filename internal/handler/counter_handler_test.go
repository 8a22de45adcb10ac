package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeCount(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()
	var body struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body.Count
}

func TestCounterHandler_Get(t *testing.T) {
	h := NewCounterHandler(&mockCounterService{
		valueFn: func() int64 { return 42 },
	}, nil)

	w := httptest.NewRecorder()
	h.Get(w, httptest.NewRequest(http.MethodGet, "/api/counter", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}
	if got := decodeCount(t, w); got != 42 {
		t.Errorf("count = %d, want 42", got)
	}
}

func TestCounterHandler_Operations(t *testing.T) {
	svc := &mockCounterService{
		incrementFn: func() int64 { return 6 },
		decrementFn: func() int64 { return 4 },
		resetFn:     func() int64 { return 0 },
	}

	tests := []struct {
		name    string
		path    string
		call    func(h *CounterHandler) http.HandlerFunc
		wantOp  string
		wantVal int64
	}{
		{"increment", "/api/counter/increment", func(h *CounterHandler) http.HandlerFunc { return h.Increment }, "increment", 6},
		{"decrement", "/api/counter/decrement", func(h *CounterHandler) http.HandlerFunc { return h.Decrement }, "decrement", 4},
		{"reset", "/api/counter/reset", func(h *CounterHandler) http.HandlerFunc { return h.Reset }, "reset", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newMockMetrics()
			h := NewCounterHandler(svc, rec)

			w := httptest.NewRecorder()
			tt.call(h)(w, httptest.NewRequest(http.MethodPost, tt.path, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if got := decodeCount(t, w); got != tt.wantVal {
				t.Errorf("count = %d, want %d", got, tt.wantVal)
			}
			if len(rec.counterOps) != 1 || rec.counterOps[0] != tt.wantOp {
				t.Errorf("recorded ops = %v, want [%s]", rec.counterOps, tt.wantOp)
			}
			if rec.counterValue != tt.wantVal {
				t.Errorf("recorded value = %d, want %d", rec.counterValue, tt.wantVal)
			}
		})
	}
}
