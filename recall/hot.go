package recall

import (
	"context"
	"encoding/json"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/pipeline"
)

// Hot 是热门召回源：从 Store 读取按交易热度排列的 ticker 榜单。
// - 如果 Store 实现了 KeyValueStore，优先使用 ZRange（按热度分数降序）
// - 否则从普通 key 读取 JSON 数组
// - Store 不可用时使用内存中的 Tickers 作为 fallback
// Hot 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
//
// 召回结果只有 ticker：行情属性由后续节点按需补全（Hot 通常与
// CatalogSource 一起 fan-out，目录侧结果自带属性并在合并时优先）。
type Hot struct {
	Store   core.Store
	Key     string   // 存储 key，例如 "hot:tickers"
	Tickers []string // fallback 内存列表
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Hot) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Hot) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	var tickers []string

	if r.Store != nil && r.Key != "" {
		if kv, ok := r.Store.(core.KeyValueStore); ok {
			members, err := kv.ZRange(ctx, r.Key, 0, 99)
			if err == nil && len(members) > 0 {
				tickers = members
			}
		} else {
			data, err := r.Store.Get(ctx, r.Key)
			if err == nil {
				var parsed []string
				if json.Unmarshal(data, &parsed) == nil {
					tickers = parsed
				}
			}
		}
	}

	if len(tickers) == 0 {
		tickers = r.Tickers
	}

	out := make([]*core.Item, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, core.NewItem(t))
	}
	return out, nil
}
