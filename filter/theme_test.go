package filter

import (
	"context"
	"fmt"
	"testing"

	"github.com/rushteam/stockrec/core"
)

func candidate(ticker, sector string, yield float64, vol core.Volatility) *core.Item {
	it := core.NewItem(ticker)
	it.Name = ticker
	it.Sector = sector
	it.DividendYield = yield
	it.Volatility = vol
	return it
}

func themeRctx(category string) *core.RecommendContext {
	return &core.RecommendContext{UserID: "u1", Persona: "ISTJ", Category: category}
}

func TestThemeConstraintNode_Dividend(t *testing.T) {
	items := []*core.Item{
		candidate("055550", "금융업", 4.2, core.VolatilityLow),
		candidate("035720", "서비스업", 0, core.VolatilityHigh),
		candidate("017670", "통신업", 3.5, core.VolatilityLow),
	}
	node := &ThemeConstraintNode{}
	out, err := node.Process(context.Background(), themeRctx("배당 투자"), items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	for _, it := range out {
		if it.DividendYield <= 0 {
			t.Errorf("%s: zero-yield stock survived dividend constraint", it.Ticker)
		}
		if it.Labels["theme_constraint"].Value != "dividend" {
			t.Errorf("%s: missing dividend constraint label", it.Ticker)
		}
	}
}

func TestThemeConstraintNode_Safety(t *testing.T) {
	items := []*core.Item{
		candidate("055550", "금융업", 4.2, core.VolatilityLow),
		candidate("005930", "전기전자", 2.0, core.VolatilityMedium),
		candidate("035720", "서비스업", 0, core.VolatilityHigh),
		candidate("247540", "전기전자", 0, core.VolatilityVeryHigh),
	}
	node := &ThemeConstraintNode{}
	out, err := node.Process(context.Background(), themeRctx("안전 자산"), items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	for _, it := range out {
		if it.Volatility == core.VolatilityHigh || it.Volatility == core.VolatilityVeryHigh {
			t.Errorf("%s: high volatility survived safety constraint", it.Ticker)
		}
	}
}

func TestThemeConstraintNode_TechKeepsMatchingSectors(t *testing.T) {
	// 命中的板块要凑够回退阈值
	items := make([]*core.Item, 0, minTechCandidates+3)
	for i := 0; i < minTechCandidates; i++ {
		items = append(items, candidate(fmt.Sprintf("T%03d", i), "반도체", 0, core.VolatilityMedium))
	}
	items = append(items,
		candidate("055550", "금융업", 4.2, core.VolatilityLow),
		candidate("035720", "서비스업", 0, core.VolatilityHigh),
		candidate("SOFT1", "소프트웨어", 0, core.VolatilityHigh),
	)

	node := &ThemeConstraintNode{}
	out, err := node.Process(context.Background(), themeRctx("기술주"), items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != minTechCandidates+1 {
		t.Fatalf("len = %d, want %d", len(out), minTechCandidates+1)
	}
	for _, it := range out {
		if it.Sector == "금융업" || it.Sector == "서비스업" {
			t.Errorf("%s: non-tech sector survived", it.Ticker)
		}
	}
}

func TestThemeConstraintNode_TechFallbackWhenTooFew(t *testing.T) {
	items := []*core.Item{
		candidate("005930", "IT 서비스", 0, core.VolatilityMedium),
		candidate("055550", "금융업", 4.2, core.VolatilityLow),
		candidate("035720", "서비스업", 0, core.VolatilityHigh),
	}
	node := &ThemeConstraintNode{}
	out, err := node.Process(context.Background(), themeRctx("기술주"), items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	// 命中不足阈值，应回退到全量
	if len(out) != len(items) {
		t.Errorf("len = %d, want fallback to %d", len(out), len(items))
	}
}

func TestThemeConstraintNode_UnknownCategoryPassthrough(t *testing.T) {
	items := []*core.Item{
		candidate("055550", "금융업", 4.2, core.VolatilityLow),
		candidate("035720", "서비스업", 0, core.VolatilityVeryHigh),
	}
	node := &ThemeConstraintNode{}
	out, err := node.Process(context.Background(), themeRctx("성장주"), items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != len(items) {
		t.Errorf("len = %d, want passthrough %d", len(out), len(items))
	}
}

func TestFilterNode_RemovesAndLabels(t *testing.T) {
	items := []*core.Item{
		candidate("055550", "금융업", 4.2, core.VolatilityLow),
		candidate("035720", "서비스업", 0, core.VolatilityHigh),
	}
	node := &FilterNode{Filters: []Filter{
		&BlacklistFilter{Tickers: []string{"035720"}},
	}}
	out, err := node.Process(context.Background(), themeRctx(""), items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 1 || out[0].Ticker != "055550" {
		t.Fatalf("expected only 055550 to survive, got %d items", len(out))
	}
}

func TestExprFilter(t *testing.T) {
	items := []*core.Item{
		candidate("055550", "금융업", 4.2, core.VolatilityLow),
		candidate("035720", "서비스업", 0, core.VolatilityHigh),
	}
	node := &FilterNode{Filters: []Filter{
		&ExprFilter{Expr: `item.dividend_yield == 0.0`},
	}}
	out, err := node.Process(context.Background(), themeRctx(""), items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 1 || out[0].Ticker != "055550" {
		t.Fatalf("expr filter should drop zero-yield stock, got %d items", len(out))
	}
}
