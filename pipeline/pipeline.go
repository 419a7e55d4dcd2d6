package pipeline

import (
	"context"

	"github.com/rushteam/stockrec/core"
)

// Pipeline 把一次主题推荐拆成可组合的 Node 链：
// 召回 -> 主题过滤 -> 打分 -> 多样性重排 -> 截断/标记。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
