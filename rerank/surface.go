package rerank

import (
	"context"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/pipeline"
)

// DefaultSurfaceTop 是每个主题记入去重集合的头部数量。
const DefaultSurfaceTop = 3

// SurfaceNode 是后处理 Node：把当前榜单的头部票记入请求级去重集合，
// 后续主题对这些票施加多样性惩罚。放在 TopN 截断之后，惩罚只针对
// 真正露出过的头部，不波及长尾。
type SurfaceNode struct {
	// Top 记入集合的头部数量，零值取 DefaultSurfaceTop
	Top int
}

func (n *SurfaceNode) Name() string {
	return "rerank.surface"
}

func (n *SurfaceNode) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *SurfaceNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil || len(items) == 0 {
		return items, nil
	}
	top := n.Top
	if top <= 0 {
		top = DefaultSurfaceTop
	}
	for i, it := range items {
		if i >= top {
			break
		}
		if it == nil {
			continue
		}
		rctx.MarkSurfaced(it.Ticker)
	}
	return items, nil
}
