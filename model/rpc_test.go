package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// scoreServer 返回每行特征 f0 值作为分数的打分服务。
func scoreServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FeaturesList []map[string]float64 `json:"features_list"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		scores := make([]float64, 0, len(req.FeaturesList))
		for _, f := range req.FeaturesList {
			scores = append(scores, f["f0"])
		}
		json.NewEncoder(w).Encode(map[string]any{"scores": scores})
	}))
}

func TestRPCModel_PredictBatch(t *testing.T) {
	srv := scoreServer(t)
	defer srv.Close()

	m := NewRPCModel("remote", srv.URL, time.Second)
	scores, err := m.PredictBatch([]map[string]float64{
		{"f0": 2.5, "f1": 0.1},
		{"f0": -1.0},
	})
	if err != nil {
		t.Fatalf("predict batch: %v", err)
	}
	if len(scores) != 2 || scores[0] != 2.5 || scores[1] != -1.0 {
		t.Errorf("scores = %v, want [2.5 -1]", scores)
	}
}

func TestRPCModel_PredictSingle(t *testing.T) {
	srv := scoreServer(t)
	defer srv.Close()

	m := NewRPCModel("remote", srv.URL, time.Second)
	score, err := m.Predict(map[string]float64{"f0": 7.0})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if score != 7.0 {
		t.Errorf("score = %v, want 7", score)
	}
}

func TestRPCModel_EmptyBatchSkipsCall(t *testing.T) {
	// endpoint 故意不可达：空输入不应发起请求
	m := NewRPCModel("remote", "http://127.0.0.1:1", time.Second)
	scores, err := m.PredictBatch(nil)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("scores = %v, want empty", scores)
	}
}

func TestRPCModel_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"scores": []float64{1.0}})
	}))
	defer srv.Close()

	m := NewRPCModel("remote", srv.URL, time.Second)
	if _, err := m.PredictBatch([]map[string]float64{{"f0": 1}, {"f0": 2}}); err == nil {
		t.Error("expected error on score count mismatch")
	}
}

func TestRPCModel_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewRPCModel("remote", srv.URL, time.Second)
	if _, err := m.PredictBatch([]map[string]float64{{"f0": 1}}); err == nil {
		t.Error("expected error on non-200 response")
	}
}
