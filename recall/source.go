package recall

import (
	"context"

	"github.com/rushteam/stockrec/core"
)

// Source 表示一个可复用的候选来源（行情目录/热门榜/自选池/...）。
// 可以并发 fan-out 的策略单元。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
