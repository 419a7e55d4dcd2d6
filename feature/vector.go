// Package feature 提供排序模型的特征构建。
//
// 特征向量的维度顺序是训练/推理共用的契约：任何一侧的顺序漂移都会
// 无声地破坏模型相关性，所以这里用固定顺序的显式编码，不走通用的
// map 型编码器。
package feature

import (
	"strings"

	"github.com/rushteam/stockrec/core"
)

// Dim 是特征向量的固定长度。
const Dim = 26

// names 的顺序即向量维度顺序，训练与推理必须一致。
var names = []string{
	"change_percent",
	"volatility_low",
	"volatility_medium",
	"volatility_high",
	"dividend_yield",
	"market_cap_small",
	"market_cap_medium",
	"market_cap_large",

	"sector_tech",
	"sector_finance",
	"sector_manufacturing",
	"sector_service",
	"sector_other",

	"mbti_I",
	"mbti_E",
	"mbti_N",
	"mbti_S",
	"mbti_T",
	"mbti_F",
	"mbti_J",
	"mbti_P",

	"theme_tech",
	"theme_dividend",
	"theme_value",
	"theme_momentum",
	"theme_esg",
}

// 板块关键词表：子串包含即命中对应分桶，全部不中时置 other。
var (
	sectorTech          = []string{"기술", "반도체", "IT"}
	sectorFinance       = []string{"금융", "은행"}
	sectorManufacturing = []string{"제조", "자동차"}
	sectorService       = []string{"서비스", "유통"}
)

// themeBucketMap 把类别名映射到主题分桶关键词；表里没有的类别
// 回退为小写字面量，再做关键词子串匹配。
var themeBucketMap = map[string]string{
	"기술주":    "tech",
	"신산업":    "tech",
	"성장주":    "momentum",
	"고성장주":   "momentum",
	"단기 매매":  "momentum",
	"배당 투자":  "dividend",
	"가치 투자":  "value",
	"역발상 투자": "value",
	"ESG 투자": "esg",
}

// Names 返回特征名列表（与向量维度一一对应），供特征重要度展示使用。
func Names() []string {
	out := make([]string, Dim)
	copy(out, names)
	return out
}

// Vector 构建 (个股, 人格, 类别) 的 26 维特征向量。
// 纯函数：相同输入产生 bit-for-bit 相同的输出。
func Vector(item *core.Item, personaCode, category string) []float64 {
	v := make([]float64, 0, Dim)

	// 基础数值
	v = append(v, item.ChangePercent)

	// 波动性 one-hot（very-high 不单独占位，保持既有的 3 桶编码）
	vol := item.Volatility
	if vol == "" {
		vol = core.VolatilityMedium
	}
	v = append(v,
		oneHot(vol == core.VolatilityLow),
		oneHot(vol == core.VolatilityMedium),
		oneHot(vol == core.VolatilityHigh),
	)

	v = append(v, item.DividendYield)

	// 市值 one-hot：数值形态先折算为分桶
	bucket := item.MarketCap.Bucket
	if item.MarketCap.Numeric {
		switch {
		case item.MarketCap.IsLarge():
			bucket = "large"
		case item.MarketCap.Value > 0:
			bucket = "medium"
		default:
			bucket = "small"
		}
	}
	v = append(v,
		oneHot(bucket == "small"),
		oneHot(bucket == "medium"),
		oneHot(bucket == "large"),
	)

	// 板块 one-hot（子串关键词匹配）
	sector := item.Sector
	tech := containsAny(sector, sectorTech)
	finance := containsAny(sector, sectorFinance)
	manufacturing := containsAny(sector, sectorManufacturing)
	service := containsAny(sector, sectorService)
	other := sector != "" && !tech && !finance && !manufacturing && !service
	v = append(v, oneHot(tech), oneHot(finance), oneHot(manufacturing), oneHot(service), oneHot(other))

	// 人格字母 one-hot
	for _, letter := range []string{"I", "E", "N", "S", "T", "F", "J", "P"} {
		v = append(v, oneHot(strings.Contains(personaCode, letter)))
	}

	// 主题 one-hot：先查映射表，查不到回退小写字面量关键词匹配
	theme, ok := themeBucketMap[category]
	if !ok {
		theme = strings.ToLower(category)
	}
	for _, kw := range []string{"tech", "dividend", "value", "momentum", "esg"} {
		v = append(v, oneHot(strings.Contains(theme, kw)))
	}

	return v
}

// VectorMap 返回特征名到值的 map 形态（RankModel.Predict 的输入）。
func VectorMap(item *core.Item, personaCode, category string) map[string]float64 {
	vec := Vector(item, personaCode, category)
	out := make(map[string]float64, Dim)
	for i, name := range names {
		out[name] = vec[i]
	}
	return out
}

func oneHot(hit bool) float64 {
	if hit {
		return 1.0
	}
	return 0.0
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
