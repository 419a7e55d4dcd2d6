package feature

import (
	"testing"

	"github.com/rushteam/stockrec/core"
)

func sampleItem() *core.Item {
	it := core.NewItem("055550")
	it.Name = "신한지주"
	it.Sector = "금융업"
	it.ChangePercent = 0.3
	it.DividendYield = 4.5
	it.Volatility = core.VolatilityLow
	it.MarketCap = core.CapValue(2.4e13)
	return it
}

func TestVector_Dimension(t *testing.T) {
	v := Vector(sampleItem(), "ISTJ", "배당 투자")
	if len(v) != Dim {
		t.Fatalf("expected %d dims, got %d", Dim, len(v))
	}
	if len(Names()) != Dim {
		t.Fatalf("expected %d names, got %d", Dim, len(Names()))
	}
}

func TestVector_Deterministic(t *testing.T) {
	a := Vector(sampleItem(), "ISTJ", "배당 투자")
	b := Vector(sampleItem(), "ISTJ", "배당 투자")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("dim %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestVector_Encoding(t *testing.T) {
	m := VectorMap(sampleItem(), "ISTJ", "배당 투자")

	tests := []struct {
		name string
		want float64
	}{
		{"change_percent", 0.3},
		{"volatility_low", 1},
		{"volatility_medium", 0},
		{"volatility_high", 0},
		{"dividend_yield", 4.5},
		{"market_cap_large", 1},
		{"market_cap_small", 0},
		{"sector_finance", 1},
		{"sector_tech", 0},
		{"sector_other", 0},
		{"mbti_I", 1},
		{"mbti_E", 0},
		{"mbti_S", 1},
		{"mbti_J", 1},
		{"theme_dividend", 1},
		{"theme_tech", 0},
	}
	for _, tt := range tests {
		if got := m[tt.name]; got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestVector_ThemeFallback(t *testing.T) {
	// 映射表没有的类别回退到小写字面量做子串匹配
	m := VectorMap(sampleItem(), "INTP", "Tech-Growth")
	if m["theme_tech"] != 1 {
		t.Errorf("lowercase fallback: expected theme_tech=1, got %v", m["theme_tech"])
	}

	// 表内类别走映射
	m = VectorMap(sampleItem(), "INTP", "역발상 투자")
	if m["theme_value"] != 1 {
		t.Errorf("mapped category: expected theme_value=1, got %v", m["theme_value"])
	}
}

func TestVector_MissingFieldsDefault(t *testing.T) {
	it := core.NewItem("000001") // 只有 ticker，其他字段全缺省
	v := Vector(it, "ENFP", "기술주")
	if len(v) != Dim {
		t.Fatalf("expected %d dims, got %d", Dim, len(v))
	}
	m := VectorMap(it, "ENFP", "기술주")
	if m["volatility_medium"] != 1 {
		t.Errorf("missing volatility should default to medium, got %v", m["volatility_medium"])
	}
	if m["sector_other"] != 0 {
		t.Errorf("empty sector should not hit any bucket, got sector_other=%v", m["sector_other"])
	}
}

func TestVector_VeryHighVolatilityNotEncoded(t *testing.T) {
	it := sampleItem()
	it.Volatility = core.VolatilityVeryHigh
	m := VectorMap(it, "ESTP", "단기 매매")
	if m["volatility_low"] != 0 || m["volatility_medium"] != 0 || m["volatility_high"] != 0 {
		t.Errorf("very-high should leave all three buckets cold: %v %v %v",
			m["volatility_low"], m["volatility_medium"], m["volatility_high"])
	}
}
