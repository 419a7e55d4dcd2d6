package rank

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/persona"
	"github.com/rushteam/stockrec/pipeline"
	"github.com/rushteam/stockrec/pkg/utils"
)

// themeMultiplier 把类别权重放大到主导排序的量级：类别人格压过
// 基础人格，同一用户在不同主题下看到明显不同的榜单。
const themeMultiplier = 4.0

// RuleScorer 是规则打分器：基础人格 + 类别修饰的加权启发式。
// 打分为纯函数加一个可注入种子的小幅噪声项，便于测试时取得确定结果。
type RuleScorer struct {
	noise func() float64 // 返回 [-2, 2] 的扰动
}

// NewRuleScorer 构造使用全局随机源的打分器。
func NewRuleScorer() *RuleScorer {
	return &RuleScorer{noise: func() float64 { return rand.Float64()*4 - 2 }}
}

// NewSeededRuleScorer 构造固定种子的打分器，同样输入产出同样分数。
// rand.Rand 本身非并发安全，这里加锁，打分器可在请求间共享。
func NewSeededRuleScorer(seed int64) *RuleScorer {
	rng := rand.New(rand.NewSource(seed))
	var mu sync.Mutex
	return &RuleScorer{noise: func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return rng.Float64()*4 - 2
	}}
}

// contribution 的 key 固定顺序，取最大贡献时平局按先到先得，
// 与线上行为保持一致。
var contributionOrder = []string{
	"momentum", "volatility", "dividend", "dividend_penalty",
	"persona_avoid", "theme_persona", "market_cap",
}

// Score 对单个候选打分，返回 [0,100] 的分数与一条推荐理由。
// 未知人格回退 INTJ，未知类别回退 default，缺失数值按 0 处理。
func (s *RuleScorer) Score(item *core.Item, personaCode, category string) (float64, string) {
	prof := persona.Lookup(personaCode)
	mod := persona.LookupCategory(category)

	score := 50.0
	contrib := map[string]float64{}

	// 1. 动量与波动（类别人格主导）
	wMom := prof.Momentum + mod.Momentum*themeMultiplier
	momScore := item.ChangePercent * wMom * 3.0
	score += momScore
	contrib["momentum"] = momScore

	wVol := prof.Volatility + mod.Volatility*themeMultiplier
	volContrib := item.Volatility.Scalar() * wVol * 10.0
	score += volContrib
	contrib["volatility"] = volContrib

	// 2. 股息（类别要求分红时是硬约束）
	wDiv := prof.Dividend + mod.Dividend*themeMultiplier
	if wDiv > 0 {
		if item.DividendYield > 0 {
			divScore := item.DividendYield * wDiv * 6.0
			score += divScore
			contrib["dividend"] = divScore
		} else if mod.Dividend > 0 {
			// 分红主题里零股息直接打入淘汰区
			score -= 100
			contrib["dividend_penalty"] = -100
		}
	}

	// 3. 板块匹配（最强因子：回避强减分，命中压倒性加分）
	for _, avoid := range mod.Avoid {
		if containsSub(item.Sector, avoid) {
			score -= 60
			contrib["persona_avoid"] = -60
			break
		}
	}
	for _, fav := range mod.Sectors {
		if containsSub(item.Sector, fav) || containsSub(item.Name, fav) {
			score += 60
			contrib["theme_persona"] = 60
			break
		}
	}

	// 4. 市值
	wCap := prof.MarketCap + mod.MarketCap*themeMultiplier
	if wCap != 0 {
		var capScore float64
		if wCap > 0 {
			switch {
			case item.MarketCap.IsJumbo():
				capScore = wCap * 30.0
			case item.MarketCap.IsLarge():
				capScore = wCap * 15.0
			default:
				capScore = wCap * 2.0
			}
		} else {
			if item.MarketCap.IsLarge() {
				capScore = -wCap * 2.0
			} else {
				capScore = -wCap * 20.0
			}
		}
		score += capScore
		contrib["market_cap"] = capScore
	}

	// 5. 小幅噪声，避免同分候选永远同序
	score += s.noise()

	reason := buildReason(contrib, mod.Persona, item, wVol)
	return clamp(score, 0, 100), reason
}

// buildReason 取最大贡献因子生成人格化推荐理由（韩语文案）。
func buildReason(contrib map[string]float64, personaName string, item *core.Item, wVol float64) string {
	if personaName == "" {
		personaName = "분석가"
	}
	top := ""
	best := 0.0
	for _, key := range contributionOrder {
		v, ok := contrib[key]
		if !ok {
			continue
		}
		if top == "" || v > best {
			top, best = key, v
		}
	}
	switch {
	case top == "theme_persona":
		return fmt.Sprintf("[%s]가 가장 사랑하는 %s 섹터의 핵심 종목입니다.", personaName, item.Sector)
	case top == "dividend":
		return fmt.Sprintf("[%s]를 미소 짓게 할 %s%%의 환상적인 배당 수익률!", personaName, strconv.FormatFloat(item.DividendYield, 'f', -1, 64))
	case top == "momentum":
		return fmt.Sprintf("전형적인 상승 곡선! [%s]의 레이더망에 포착되었습니다.", personaName)
	case top == "volatility" && wVol < 0:
		return fmt.Sprintf("[%s]의 철칙인 리스크 관리에 완벽히 부합하는 견고한 흐름입니다.", personaName)
	default:
		return fmt.Sprintf("당신의 MBTI와 [%s]의 전략이 만난 최적의 교집합입니다.", personaName)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func containsSub(s, sub string) bool {
	return sub != "" && strings.Contains(s, sub)
}

// RuleNode 是使用规则打分器的排序 Node。
type RuleNode struct {
	Scorer *RuleScorer
}

func (n *RuleNode) Name() string        { return "rank.rule" }
func (n *RuleNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RuleNode) Process(
	_ context.Context,
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
	if rctx != nil {
		personaCode = rctx.Persona
		category = rctx.Category
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		score, reason := scorer.Score(it, personaCode, category)
		it.Score = score
		it.PutLabel("reason", utils.Label{Value: reason, Source: "rank"})
		it.PutLabel("rank_type", utils.Label{Value: "rule", Source: "rank"})
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
