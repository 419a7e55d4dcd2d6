package filter

import (
	"context"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/pkg/dsl"
)

// ExprFilter 是配置驱动的表达式过滤器：表达式命中的候选被剔除。
// 表达式语法见 pkg/dsl。
//
// 例如剔除高波动低分红：
//
//	item.volatility == "very-high" && item.dividend_yield == 0.0
type ExprFilter struct {
	// Expr 是 CEL 表达式，返回 true 的候选被过滤
	Expr string
}

func NewExprFilter(expr string) *ExprFilter {
	return &ExprFilter{Expr: expr}
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}
