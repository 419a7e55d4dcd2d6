package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/pipeline"
	"github.com/rushteam/stockrec/pkg/utils"
)

// DefaultSurfacedPenalty 是跨主题重复票的分数惩罚系数。
const DefaultSurfacedPenalty = 0.8

// DiversityNode 是跨主题多样性重排 Node：本次请求里已在前序主题
// Top 区出现过的票，分数乘惩罚系数后重新排序。惩罚不会把票剔除，
// 本主题强相关的重复票仍可能留在榜上，只是排位后移。
//
// 排序为降序；同分时按 ticker 升序，保证同一输入的输出完全确定。
type DiversityNode struct {
	// Penalty 惩罚系数，零值取 DefaultSurfacedPenalty
	Penalty float64
}

func (n *DiversityNode) Name() string {
	return "rerank.diversity"
}

func (n *DiversityNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *DiversityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	penalty := n.Penalty
	if penalty == 0 {
		penalty = DefaultSurfacedPenalty
	}

	if rctx != nil {
		for _, it := range items {
			if it == nil {
				continue
			}
			if rctx.IsSurfaced(it.Ticker) {
				it.Score *= penalty
				it.PutLabel("diversity_penalty", utils.Label{Value: "applied", Source: "rerank"})
			}
		}
	}

	SortStable(items)
	return items, nil
}

// SortStable 按分数降序排序，平局按 ticker 升序。
func SortStable(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Ticker < items[j].Ticker
	})
}
