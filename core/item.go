package core

import "github.com/rushteam/stockrec/pkg/utils"

// Volatility 是波动性分桶。原始数据缺失或未知时按 VolatilityMedium 处理。
type Volatility string

const (
	VolatilityLow      Volatility = "low"
	VolatilityMedium   Volatility = "medium"
	VolatilityHigh     Volatility = "high"
	VolatilityVeryHigh Volatility = "very-high"
)

// Scalar 返回规则打分使用的波动性标量（low=0.5, medium=1.0, high=2.0, very-high=3.0）。
func (v Volatility) Scalar() float64 {
	switch v {
	case VolatilityLow:
		return 0.5
	case VolatilityHigh:
		return 2.0
	case VolatilityVeryHigh:
		return 3.0
	default:
		return 1.0
	}
}

// MarketCap 是市值字段的带标签变体：上游数据既可能给分桶字符串
// （small/medium/large），也可能给数值市值。两种形态的阈值规则不同，
// 不做静默统一，打分逻辑对两个分支分别处理。
type MarketCap struct {
	Bucket  string  // "small" / "medium" / "large"，Numeric 为 false 时有效
	Value   float64 // 数值市值，Numeric 为 true 时有效
	Numeric bool
}

// CapBucket 构造分桶形态的市值。
func CapBucket(bucket string) MarketCap {
	return MarketCap{Bucket: bucket}
}

// CapValue 构造数值形态的市值。
func CapValue(v float64) MarketCap {
	return MarketCap{Value: v, Numeric: true}
}

// IsLarge 判断是否大盘股：数值形态按 >1e12，分桶形态按 bucket == "large"。
func (c MarketCap) IsLarge() bool {
	if c.Numeric {
		return c.Value > 1e12
	}
	return c.Bucket == "large"
}

// IsJumbo 判断是否超大盘股：数值形态按 >1e13；分桶形态没有更细的分档，
// 与 IsLarge 一致（保持上游两种形态的既有行为）。
func (c MarketCap) IsJumbo() bool {
	if c.Numeric {
		return c.Value > 1e13
	}
	return c.Bucket == "large"
}

// Item 是排序链路中的统一承载结构：个股属性、分数、解释标签。
// 属性字段由外部行情目录（Catalog）提供，排序引擎只读；
// Score 与 Labels 由各 Node 写入，用于排序决策与 explain。
type Item struct {
	Ticker string // 唯一标识（如 "005930"）
	Name   string
	Sector string
	Price  float64

	ChangePercent float64
	Volatility    Volatility
	DividendYield float64
	MarketCap     MarketCap

	Score  float64
	Labels map[string]utils.Label
	Meta   map[string]any
}

func NewItem(ticker string) *Item {
	return &Item{
		Ticker:     ticker,
		Volatility: VolatilityMedium,
		Labels:     make(map[string]utils.Label),
		Meta:       make(map[string]any),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Reason 返回 explain 用的推荐理由（"reason" label），没有时返回空串。
func (it *Item) Reason() string {
	if it.Labels == nil {
		return ""
	}
	return it.Labels["reason"].Value
}

// Metrics 返回响应层需要的全量指标 map。
func (it *Item) Metrics() map[string]any {
	m := map[string]any{
		"change_percent": it.ChangePercent,
		"volatility":     string(it.Volatility),
		"dividend_yield": it.DividendYield,
		"sector":         it.Sector,
		"close":          it.Price,
	}
	if it.MarketCap.Numeric {
		m["market_cap"] = it.MarketCap.Value
	} else {
		m["market_cap"] = it.MarketCap.Bucket
	}
	for k, v := range it.Meta {
		m[k] = v
	}
	return m
}
