package filter

import (
	"context"
	"strings"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/pipeline"
	"github.com/rushteam/stockrec/pkg/utils"
)

// techKeywords 是技术主题的板块关键词（子串匹配）。
var techKeywords = []string{"반도체", "IT", "소프트웨어", "과학", "기술"}

// minTechCandidates 是技术主题过滤后的最少候选数，低于这个数
// 放弃过滤回退到全量候选。
const minTechCandidates = 10

// ThemeConstraintNode 按主题类别施加硬约束的过滤 Node。
//
// 三条规则：
//   - "배당 투자"：剔除零股息（打分阶段的 -100 之前先物理排除）
//   - "안전 자산"：剔除 high / very-high 波动
//   - "기술주"：只保留板块命中技术关键词的候选；过滤后不足
//     minTechCandidates 条时回退到全量（宁可类别感弱也不给半空榜单）
//
// 其他类别原样透传。需要整集视角（回退判断），所以实现为 Node 而非
// 单条判定的 Filter。
type ThemeConstraintNode struct{}

func (n *ThemeConstraintNode) Name() string        { return "filter.theme" }
func (n *ThemeConstraintNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *ThemeConstraintNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil || len(items) == 0 {
		return items, nil
	}

	switch rctx.Category {
	case "배당 투자":
		return keep(items, "dividend", func(it *core.Item) bool {
			return it.DividendYield > 0
		}), nil
	case "안전 자산":
		return keep(items, "safety", func(it *core.Item) bool {
			return it.Volatility != core.VolatilityHigh && it.Volatility != core.VolatilityVeryHigh
		}), nil
	case "기술주":
		filtered := keep(items, "tech", func(it *core.Item) bool {
			for _, k := range techKeywords {
				if strings.Contains(it.Sector, k) {
					return true
				}
			}
			return false
		})
		if len(filtered) < minTechCandidates {
			return items, nil
		}
		return filtered, nil
	default:
		return items, nil
	}
}

func keep(items []*core.Item, constraint string, pred func(*core.Item) bool) []*core.Item {
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if !pred(it) {
			continue
		}
		it.PutLabel("theme_constraint", utils.Label{Value: constraint, Source: "filter"})
		out = append(out, it)
	}
	return out
}
