package rank

import (
	"context"
	"strings"
	"testing"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/feature"
	"github.com/rushteam/stockrec/model"
	"github.com/rushteam/stockrec/pkg/utils"
	"github.com/rushteam/stockrec/store"
)

func hybridRctx(persona, category string) *core.RecommendContext {
	return &core.RecommendContext{
		UserID:   "u1",
		Persona:  persona,
		Category: category,
	}
}

// trainedArtifact 在内存存储里放一份真实训练出的模型工件。
func trainedArtifact(t *testing.T, ctx context.Context, persona string, samples []*core.Item) *store.ArtifactStore {
	t.Helper()
	params := model.DefaultGBRankParams()
	params.Rounds = 10
	m := model.NewGBRank("gbrank."+persona, feature.Names(), params)

	X := make([][]float64, 0, len(samples)*2)
	y := make([]int, 0, len(samples)*2)
	groups := []int{len(samples), len(samples)}
	for i := 0; i < 2; i++ {
		for j, it := range samples {
			X = append(X, feature.Vector(it, persona, "기술주"))
			y = append(y, len(samples)-j-1)
		}
	}
	if err := m.Train(X, y, groups); err != nil {
		t.Fatalf("train fixture: %v", err)
	}
	data, err := m.Save()
	if err != nil {
		t.Fatalf("save fixture: %v", err)
	}

	artifacts := store.NewArtifactStore(store.NewMemoryStore())
	if err := artifacts.Save(ctx, persona, data); err != nil {
		t.Fatalf("store fixture: %v", err)
	}
	return artifacts
}

func TestHybridNode_RuleOnlyWithoutArtifacts(t *testing.T) {
	node := &HybridNode{Scorer: NewSeededRuleScorer(7)}
	items := []*core.Item{
		stock("005930", "삼성전자", "전기전자", 2.0, 2.5, core.VolatilityLow, core.CapValue(4e14)),
		stock("035720", "카카오", "서비스업", -1.0, 0, core.VolatilityHigh, core.CapValue(2e13)),
	}

	out, err := node.Process(context.Background(), hybridRctx("INTP", "기술주"), items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	for _, it := range out {
		reason := it.Reason()
		if !strings.HasSuffix(reason, "(rule-based)") {
			t.Errorf("%s: expected rule-based suffix, got %q", it.Ticker, reason)
		}
		if got := it.Labels["rank_type"].Value; got != "rule" {
			t.Errorf("%s: rank_type = %q, want rule", it.Ticker, got)
		}
	}
}

func TestHybridNode_MLWeightZeroMatchesRule(t *testing.T) {
	ctx := context.Background()
	items := []*core.Item{
		stock("005930", "삼성전자", "전기전자", 2.0, 2.5, core.VolatilityLow, core.CapValue(4e14)),
		stock("035720", "카카오", "서비스업", -1.0, 0, core.VolatilityHigh, core.CapValue(2e13)),
	}
	artifacts := trainedArtifact(t, ctx, "INTP", items)

	node := &HybridNode{Scorer: NewSeededRuleScorer(7), Artifacts: artifacts}
	rctx := hybridRctx("INTP", "기술주")
	rctx.Params = map[string]any{"ml_weight": 0.0}

	out, err := node.Process(ctx, rctx, cloneForTest(items))
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	ref := NewSeededRuleScorer(7)
	want := make(map[string]float64)
	for _, it := range items {
		s, _ := ref.Score(it, "INTP", "기술주")
		want[it.Ticker] = s
	}
	for _, it := range out {
		if it.Score != want[it.Ticker] {
			t.Errorf("%s: score = %v, want rule score %v", it.Ticker, it.Score, want[it.Ticker])
		}
		// 模型在场时理由仍带混合说明
		if got := it.Labels["rank_type"].Value; got != "hybrid" {
			t.Errorf("%s: rank_type = %q, want hybrid", it.Ticker, got)
		}
	}
}

func TestHybridNode_MLWeightOneIgnoresRule(t *testing.T) {
	ctx := context.Background()
	items := []*core.Item{
		stock("005930", "삼성전자", "전기전자", 2.0, 2.5, core.VolatilityLow, core.CapValue(4e14)),
		stock("035720", "카카오", "서비스업", -1.0, 0, core.VolatilityHigh, core.CapValue(2e13)),
	}
	artifacts := trainedArtifact(t, ctx, "INTP", items)

	node := &HybridNode{Scorer: NewSeededRuleScorer(7), Artifacts: artifacts}
	rctx := hybridRctx("INTP", "기술주")
	rctx.Params = map[string]any{"ml_weight": 1.0}

	out, err := node.Process(ctx, rctx, cloneForTest(items))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	for _, it := range out {
		if it.Score < 0 || it.Score > 100 {
			t.Errorf("%s: pure ML score out of range: %v", it.Ticker, it.Score)
		}
	}
}

func TestHybridNode_MissingPersonaFallsBackToRule(t *testing.T) {
	ctx := context.Background()
	items := []*core.Item{
		stock("005930", "삼성전자", "전기전자", 2.0, 2.5, core.VolatilityLow, core.CapValue(4e14)),
	}
	// 工件只训练了 INTP，请求的是 ESFP
	artifacts := trainedArtifact(t, ctx, "INTP", items)
	node := &HybridNode{Scorer: NewSeededRuleScorer(7), Artifacts: artifacts}

	out, err := node.Process(ctx, hybridRctx("ESFP", "기술주"), cloneForTest(items))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := out[0].Labels["rank_type"].Value; got != "rule" {
		t.Errorf("rank_type = %q, want rule", got)
	}
}

func TestHybridNode_InvalidateReloads(t *testing.T) {
	ctx := context.Background()
	items := []*core.Item{
		stock("005930", "삼성전자", "전기전자", 2.0, 2.5, core.VolatilityLow, core.CapValue(4e14)),
	}
	artifacts := trainedArtifact(t, ctx, "INTP", items)
	node := &HybridNode{Scorer: NewSeededRuleScorer(7), Artifacts: artifacts}

	rctx := hybridRctx("INTP", "기술주")
	if _, err := node.Process(ctx, rctx, cloneForTest(items)); err != nil {
		t.Fatalf("first process: %v", err)
	}

	node.Invalidate("INTP")
	out, err := node.Process(ctx, rctx, cloneForTest(items))
	if err != nil {
		t.Fatalf("process after invalidate: %v", err)
	}
	if got := out[0].Labels["rank_type"].Value; got != "hybrid" {
		t.Errorf("rank_type = %q, want hybrid after reload", got)
	}
}

func cloneForTest(items []*core.Item) []*core.Item {
	out := make([]*core.Item, len(items))
	for i, it := range items {
		cp := *it
		cp.Labels = make(map[string]utils.Label)
		cp.Score = 0
		out[i] = &cp
	}
	return out
}
