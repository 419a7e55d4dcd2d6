package rerank

import (
	"context"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/pipeline"
)

// DefaultTopK 是单个主题榜单的默认长度。
const DefaultTopK = 10

// TopNNode 是 Top-N 截断节点，在排序后截取前 N 个候选。
//
// 使用场景：
//   - 每个主题榜单只保留 Top 10
//   - 配合多样性重排使用（先惩罚排序，再截断）
type TopNNode struct {
	// N 要保留的候选数量，N <= 0 时取 DefaultTopK
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	k := n.N
	if k <= 0 {
		k = DefaultTopK
	}
	if len(items) <= k {
		return items, nil
	}
	return items[:k], nil
}
