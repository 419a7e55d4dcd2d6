package pipeline

import (
	"context"

	"github.com/rushteam/stockrec/core"
)

// Kind 标记 Node 所处的阶段，方便观测与编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：从行情目录生成候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不满足主题硬约束的候选
	KindRank        Kind = "rank"        // 排序阶段：规则/模型打分并排序
	KindReRank      Kind = "rerank"      // 重排阶段：多样性惩罚、截断 Top-K
	KindPostProcess Kind = "postprocess" // 后处理阶段：标记已曝光、修饰结果
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态：召回生成、过滤截断、
// 排序打分、重排调序都用同一个接口表达。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
