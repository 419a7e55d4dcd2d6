package rank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/model"
)

// changeScoreServer 以 change_percent 特征作为分数返回。
func changeScoreServer(t *testing.T) *httptest.Server {
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
			scores = append(scores, f["change_percent"])
		}
		json.NewEncoder(w).Encode(map[string]any{"scores": scores})
	}))
}

func TestRPCNode_ScoresAndSorts(t *testing.T) {
	srv := changeScoreServer(t)
	defer srv.Close()

	node := &RPCNode{Model: model.NewRPCModel("remote-gbdt", srv.URL, time.Second)}
	items := []*core.Item{
		stock("005930", "삼성전자", "반도체", 1.0, 2.0, core.VolatilityMedium, core.CapBucket("large")),
		stock("035420", "네이버", "소프트웨어", 9.0, 0, core.VolatilityMedium, core.CapBucket("large")),
		stock("055550", "신한지주", "금융업", 5.0, 4.5, core.VolatilityLow, core.CapBucket("large")),
	}

	out, err := node.Process(context.Background(), hybridRctx("INTP", "기술주"), items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}
	wantOrder := []string{"035420", "055550", "005930"}
	for i, ticker := range wantOrder {
		if out[i].Ticker != ticker {
			t.Errorf("out[%d] = %s, want %s", i, out[i].Ticker, ticker)
		}
	}
	for _, it := range out {
		if got := it.Labels["rank_model"].Value; got != "remote-gbdt" {
			t.Errorf("%s: rank_model = %q, want remote-gbdt", it.Ticker, got)
		}
		if got := it.Labels["rank_type"].Value; got != "rpc" {
			t.Errorf("%s: rank_type = %q, want rpc", it.Ticker, got)
		}
	}
}

func TestRPCNode_ServiceErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	node := &RPCNode{Model: model.NewRPCModel("remote-gbdt", srv.URL, time.Second)}
	items := []*core.Item{
		stock("005930", "삼성전자", "반도체", 1.0, 2.0, core.VolatilityMedium, core.CapBucket("large")),
	}
	if _, err := node.Process(context.Background(), hybridRctx("INTP", "기술주"), items); err == nil {
		t.Error("expected error from failing score service")
	}
}

func TestRPCNode_NilModelPassthrough(t *testing.T) {
	node := &RPCNode{}
	items := []*core.Item{
		stock("005930", "삼성전자", "반도체", 1.0, 2.0, core.VolatilityMedium, core.CapBucket("large")),
	}
	out, err := node.Process(context.Background(), hybridRctx("INTP", "기술주"), items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 1 || out[0].Score != 0 {
		t.Errorf("passthrough altered items: %+v", out[0])
	}
}
