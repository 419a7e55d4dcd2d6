package core

import "github.com/rushteam/stockrec/pkg/utils"

// RecommendContext 承载用户/人格/主题信息，贯穿整个 Pipeline 透传。
//
// Surfaced 是跨主题去重集合：同一次多主题请求里，前面主题 Top 区
// 已经出现过的票在后续主题中乘以多样性惩罚。该集合是请求级状态，
// 每次请求新建，绝不能在并发请求间共享。
type RecommendContext struct {
	UserID  string
	Persona string // 16 种人格原型之一（如 "INTJ"）
	ThemeID string
	Scene   string

	// Category 是当前主题类别（如 "배당 투자"），决定类别硬约束与加权。
	Category string

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数（如候选覆盖、ml_weight 等）
	Params map[string]any

	surfaced map[string]bool
}

// MarkSurfaced 记录一批已在前序主题 Top 区出现过的票。
func (rctx *RecommendContext) MarkSurfaced(tickers ...string) {
	if rctx.surfaced == nil {
		rctx.surfaced = make(map[string]bool, len(tickers))
	}
	for _, t := range tickers {
		rctx.surfaced[t] = true
	}
}

// IsSurfaced 判断票是否已在本次请求的前序主题中出现过。
func (rctx *RecommendContext) IsSurfaced(ticker string) bool {
	return rctx.surfaced[ticker]
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
