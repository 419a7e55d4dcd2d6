package recall

import (
	"context"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/pipeline"
	"github.com/rushteam/stockrec/pkg/utils"
)

// CatalogSource 从行情目录召回全量候选。
// 目录是排序引擎的权威候选来源：目录失败是硬失败，错误原样上抛，
// 绝不把空结果当成有效的空目录。
type CatalogSource struct {
	Catalog core.Catalog
}

func (s *CatalogSource) Name() string { return "recall.catalog" }

func (s *CatalogSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.Catalog == nil {
		return nil, core.ErrCatalogUnavailable
	}
	items, err := s.Catalog.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CatalogNode 是目录召回的 Node 形态，作为 Pipeline 的第一个节点。
// 与 Fanout 不同：目录错误会中断整条 Pipeline（上游数据不可用时
// 给出半空榜单比报错更糟）。
type CatalogNode struct {
	Catalog core.Catalog
}

func (n *CatalogNode) Name() string        { return "recall.catalog" }
func (n *CatalogNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *CatalogNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	src := &CatalogSource{Catalog: n.Catalog}
	items, err := src.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		it.PutLabel("recall_source", utils.Label{Value: src.Name(), Source: "recall"})
	}
	return items, nil
}
