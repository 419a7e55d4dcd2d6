package train

import (
	"fmt"
	"math"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/feature"
)

// minEvents 是单个人格进入标签构建的最少事件数。
const minEvents = 10

// TrainingSet 是一个人格的训练数据：特征矩阵、整数 relevance 标签、
// 会话分组（learning-to-rank 的 query group，按会话出现顺序排列）。
type TrainingSet struct {
	X      [][]float64
	Y      []int
	Groups []int
}

// Samples 返回训练样本数。
func (s *TrainingSet) Samples() int { return len(s.X) }

// BuildTrainingSet 把行为事件流转成训练集。
//
// 规则：
//   - 事件数 < minEvents → INSUFFICIENT_DATA，人格跳过本轮训练
//   - 会话按 (user_id, theme_id|default) 分组，组内按票累计 relevance：
//     buy +3.0（可叠加）、click +1.0、sell -0.5、view 仅在当前为 0 时
//     置 0.1；detail_view 不参与监督信号
//   - 标签四舍五入为整数（银行家舍入，与既有训练产物保持一致）
//   - 目录里查不到的票丢弃；空会话不产出 group
//
// catalog 是 ticker 到个股的索引，特征从目录数据提取，事件本身
// 只提供监督信号。theme_id 同时充当特征提取的主题输入。
func BuildTrainingSet(events []core.ActionEvent, catalog map[string]*core.Item, personaCode string) (*TrainingSet, error) {
	if len(events) < minEvents {
		return nil, core.NewDomainError(core.ModuleTrain, core.ErrorCodeInsufficientData,
			fmt.Sprintf("insufficient data for %s: %d actions", personaCode, len(events)))
	}

	// 会话分组，保持首次出现顺序，输出确定
	sessionOrder := make([]string, 0)
	sessions := make(map[string][]core.ActionEvent)
	for _, ev := range events {
		key := ev.SessionKey()
		if _, ok := sessions[key]; !ok {
			sessionOrder = append(sessionOrder, key)
		}
		sessions[key] = append(sessions[key], ev)
	}

	set := &TrainingSet{}
	for _, key := range sessionOrder {
		actions := sessions[key]

		tickerOrder := make([]string, 0)
		scores := make(map[string]float64)
		for _, ev := range actions {
			if _, ok := scores[ev.Ticker]; !ok {
				tickerOrder = append(tickerOrder, ev.Ticker)
				scores[ev.Ticker] = 0
			}
			switch ev.Action {
			case core.ActionBuy:
				scores[ev.Ticker] += 3.0
			case core.ActionClick:
				scores[ev.Ticker] += 1.0
			case core.ActionView:
				if scores[ev.Ticker] == 0 {
					scores[ev.Ticker] = 0.1
				}
			case core.ActionSell:
				scores[ev.Ticker] -= 0.5
			}
			// detail_view 不计入
		}

		themeID := actions[0].ThemeID
		if themeID == "" {
			themeID = "default"
		}

		groupSize := 0
		for _, ticker := range tickerOrder {
			item, ok := catalog[ticker]
			if !ok {
				continue
			}
			set.X = append(set.X, feature.Vector(item, personaCode, themeID))
			set.Y = append(set.Y, int(math.RoundToEven(scores[ticker])))
			groupSize++
		}
		if groupSize > 0 {
			set.Groups = append(set.Groups, groupSize)
		}
	}
	return set, nil
}
