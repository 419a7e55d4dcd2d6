package rank

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/feature"
	"github.com/rushteam/stockrec/model"
	"github.com/rushteam/stockrec/pipeline"
	"github.com/rushteam/stockrec/pkg/conv"
	"github.com/rushteam/stockrec/pkg/utils"
)

// DefaultMLWeight 是混合打分里模型分的默认占比。
const DefaultMLWeight = 0.7

// mlScale 把模型原始分粗略映射到 [0,100]：标签约在 0~3 之间，
// 乘 33.33 后截断。是一个记录在案的近似，不做分布校准。
const mlScale = 33.33

// HybridNode 是规则分与模型分的混合排序 Node。
//
// 模型工件按人格懒加载：首次用到某个人格时从 ArtifactStore 读取并
// 缓存，singleflight 保证并发请求只加载一次。降级策略：
//   - 工件不存在 → 纯规则打分，理由标记 rule-based
//   - 单条预测失败 → 该条模型分记 0，请求继续
type HybridNode struct {
	Scorer    *RuleScorer
	Artifacts core.ArtifactStore

	// MLWeight 是模型分占比 w，final = w*ml + (1-w)*rule。
	// 零值时取 DefaultMLWeight；请求可用 Params["ml_weight"] 覆盖。
	MLWeight float64

	mu     sync.RWMutex
	models map[string]*model.GBRank
	group  singleflight.Group
}

func (n *HybridNode) Name() string        { return "rank.hybrid" }
func (n *HybridNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *HybridNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	scorer := n.Scorer
	if scorer == nil {
		scorer = NewRuleScorer()
	}

	personaCode, category := "", ""
	var params map[string]any
	if rctx != nil {
		personaCode = rctx.Persona
		category = rctx.Category
		params = rctx.Params
	}
	w := n.MLWeight
	if w == 0 {
		w = DefaultMLWeight
	}
	w = conv.ConfigGetFloat64(params, "ml_weight", w)

	ranker := n.modelFor(ctx, personaCode)

	for _, it := range items {
		if it == nil {
			continue
		}
		ruleScore, reason := scorer.Score(it, personaCode, category)

		if ranker == nil {
			it.Score = ruleScore
			it.PutLabel("reason", utils.Label{Value: reason + " (rule-based)", Source: "rank"})
			it.PutLabel("rank_type", utils.Label{Value: "rule", Source: "rank"})
			continue
		}

		mlNorm := 0.0
		raw, err := ranker.Predict(feature.VectorMap(it, personaCode, category))
		if err == nil {
			mlNorm = clamp(raw*mlScale, 0, 100)
		}
		it.Score = w*mlNorm + (1-w)*ruleScore
		it.PutLabel("reason", utils.Label{
			Value:  fmt.Sprintf("%s (ML: %.0f점 + 룰: %.0f점)", reason, mlNorm, ruleScore),
			Source: "rank",
		})
		it.PutLabel("rank_type", utils.Label{Value: "hybrid", Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}

// modelFor 返回某个人格的已加载模型；无工件或加载失败返回 nil。
// 缓存对缺失也记一笔，避免每次请求都去打一次存储。
func (n *HybridNode) modelFor(ctx context.Context, personaCode string) *model.GBRank {
	if n.Artifacts == nil || personaCode == "" {
		return nil
	}
	n.mu.RLock()
	m, ok := n.models[personaCode]
	n.mu.RUnlock()
	if ok {
		return m
	}

	v, _, _ := n.group.Do(personaCode, func() (any, error) {
		loaded := n.loadModel(ctx, personaCode)
		n.mu.Lock()
		if n.models == nil {
			n.models = make(map[string]*model.GBRank)
		}
		n.models[personaCode] = loaded
		n.mu.Unlock()
		return loaded, nil
	})
	m, _ = v.(*model.GBRank)
	return m
}

func (n *HybridNode) loadModel(ctx context.Context, personaCode string) *model.GBRank {
	ok, err := n.Artifacts.Exists(ctx, personaCode)
	if err != nil || !ok {
		return nil
	}
	data, err := n.Artifacts.Load(ctx, personaCode)
	if err != nil {
		return nil
	}
	m := model.NewGBRank("gbrank."+personaCode, feature.Names(), model.DefaultGBRankParams())
	if err := m.Load(data); err != nil {
		return nil
	}
	return m
}

// Invalidate 移除某个人格的缓存模型（重训后调用，下次请求重新加载）。
func (n *HybridNode) Invalidate(personaCode string) {
	n.mu.Lock()
	delete(n.models, personaCode)
	n.mu.Unlock()
}
