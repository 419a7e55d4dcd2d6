package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/filter"
	"github.com/rushteam/stockrec/persona"
	"github.com/rushteam/stockrec/pipeline"
	"github.com/rushteam/stockrec/rank"
	"github.com/rushteam/stockrec/recall"
	"github.com/rushteam/stockrec/rerank"
)

// ServiceMLWeight 是服务层的模型分占比。比 blender 默认值更低，
// 让类别人格主导各主题的榜单个性。
const ServiceMLWeight = 0.5

// StockRow 是响应里的一行个股。
type StockRow struct {
	Ticker    string         `json:"ticker"`
	Name      string         `json:"name"`
	Price     float64        `json:"price"`
	Score     int            `json:"score"`
	Reason    string         `json:"reason"`
	AIMessage string         `json:"ai_message"`
	Metrics   map[string]any `json:"metrics"`
}

// ThemeResult 是一个主题的推荐榜单。
type ThemeResult struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Emoji       string     `json:"emoji"`
	Category    string     `json:"category"`
	Stocks      []StockRow `json:"stocks"`
}

// Recommender 是按主题出榜的推荐服务。
//
// 一次请求的流程：取该人格的主题列表 → 从目录拉一次全量候选 →
// 每个主题跑一条 Pipeline（主题硬过滤 → 混合打分 → 多样性重排 →
// Top-K 截断 → 头部记入去重集合）。去重集合在请求内跨主题共享，
// 请求之间互不可见。
type Recommender struct {
	Catalog   core.Catalog
	Themes    *persona.ThemeSet
	Artifacts core.ArtifactStore // 可为 nil，纯规则打分

	// Filters 是附加的过滤器（黑名单、表达式约束等），可为空
	Filters []filter.Filter

	// Scorer 可为 nil（使用默认随机源）；测试注入固定种子。
	// 必须在首次 Recommend 之前设置，之后不再读取。
	Scorer *rank.RuleScorer

	// TopK / SurfaceTop 零值分别取 rerank 的默认值
	TopK       int
	SurfaceTop int

	// MLWeight 零值取 ServiceMLWeight。同 Scorer，首次请求前设置；
	// 请求级覆盖走 rctx.Params["ml_weight"]
	MLWeight float64

	Log zerolog.Logger

	// hybrid 在首次请求时按上面的配置构建，此后请求间只读复用，
	// 模型缓存挂在上面。并发请求之间的共享状态只有它和各自的 rctx。
	hybridOnce sync.Once
	hybrid     *rank.HybridNode
}

// NewRecommender 构造推荐服务。artifacts 可为 nil（纯规则模式）。
func NewRecommender(catalog core.Catalog, themes *persona.ThemeSet, artifacts core.ArtifactStore, log zerolog.Logger) *Recommender {
	return &Recommender{
		Catalog:   catalog,
		Themes:    themes,
		Artifacts: artifacts,
		Log:       log,
	}
}

// hybridNode 返回请求间共享的混合打分 Node，首次调用时按当前配置
// 构建。构建后节点对请求只读，并发 Recommend 不再写它的任何字段。
func (r *Recommender) hybridNode() *rank.HybridNode {
	r.hybridOnce.Do(func() {
		r.hybrid = &rank.HybridNode{
			Scorer:    r.Scorer,
			Artifacts: r.Artifacts,
			MLWeight:  r.mlWeight(),
		}
	})
	return r.hybrid
}

// Recommend 为一个用户出全部主题的榜单。
// 目录不可用时整个请求失败；模型侧问题只降级，不上抛。
func (r *Recommender) Recommend(ctx context.Context, userID, personaCode string) ([]ThemeResult, error) {
	themes := r.Themes.ForPersona(personaCode)

	candidates, err := (&recall.CatalogSource{Catalog: r.Catalog}).Recall(ctx, nil)
	if err != nil {
		r.Log.Error().Err(err).Str("persona", personaCode).Msg("catalog fetch failed")
		return nil, err
	}

	hybrid := r.hybridNode()

	rctx := &core.RecommendContext{
		UserID:  userID,
		Persona: personaCode,
		Scene:   "theme_feed",
	}

	out := make([]ThemeResult, 0, len(themes))
	for _, theme := range themes {
		rctx.ThemeID = theme.ID
		rctx.Category = theme.Category

		p := &pipeline.Pipeline{Nodes: r.themeNodes(hybrid)}
		ranked, err := p.Run(ctx, rctx, cloneItems(candidates))
		if err != nil {
			// 单个主题失败只丢该主题，其余榜单照常返回
			r.Log.Warn().Err(err).Str("theme", theme.ID).Msg("theme pipeline failed")
			continue
		}

		out = append(out, ThemeResult{
			ID:          theme.ID,
			Title:       theme.Title,
			Description: theme.Description,
			Emoji:       theme.Emoji,
			Category:    theme.Category,
			Stocks:      buildRows(ranked, theme.Category),
		})
	}

	r.Log.Info().
		Str("user_id", userID).
		Str("persona", personaCode).
		Int("themes", len(out)).
		Int("candidates", len(candidates)).
		Msg("recommendation served")
	return out, nil
}

// InvalidateModel 让某个人格的缓存模型失效（重训完成后调用）。
func (r *Recommender) InvalidateModel(personaCode string) {
	if r.hybrid != nil {
		r.hybrid.Invalidate(personaCode)
	}
}

func (r *Recommender) themeNodes(hybrid *rank.HybridNode) []pipeline.Node {
	nodes := []pipeline.Node{&filter.ThemeConstraintNode{}}
	if len(r.Filters) > 0 {
		nodes = append(nodes, &filter.FilterNode{Filters: r.Filters})
	}
	nodes = append(nodes,
		hybrid,
		&rerank.DiversityNode{},
		&rerank.TopNNode{N: r.TopK},
		&rerank.SurfaceNode{Top: r.SurfaceTop},
	)
	return nodes
}

func (r *Recommender) mlWeight() float64 {
	if r.MLWeight != 0 {
		return r.MLWeight
	}
	return ServiceMLWeight
}

func buildRows(items []*core.Item, category string) []StockRow {
	rows := make([]StockRow, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		score := int(it.Score)
		rows = append(rows, StockRow{
			Ticker:    it.Ticker,
			Name:      it.Name,
			Price:     it.Price,
			Score:     score,
			Reason:    category + " 적합도 " + strconv.Itoa(score) + "점",
			AIMessage: it.Reason(),
			Metrics:   it.Metrics(),
		})
	}
	return rows
}

// cloneItems 做 Item 的浅克隆（Labels 独立）：每个主题独立打分，
// 分数与解释标签不跨主题串味。
func cloneItems(items []*core.Item) []*core.Item {
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		cp := *it
		cp.Labels = nil
		cp.Score = 0
		out = append(out, &cp)
	}
	return out
}
