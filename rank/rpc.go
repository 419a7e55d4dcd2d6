package rank

import (
	"context"
	"sort"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/feature"
	"github.com/rushteam/stockrec/model"
	"github.com/rushteam/stockrec/pipeline"
	"github.com/rushteam/stockrec/pkg/utils"
)

// RPCNode 是使用远程打分服务的排序 Node。
// 打分托管在外部推理服务时使用（见 model.RPCModel），批量调用。
type RPCNode struct {
	Model *model.RPCModel
}

func (n *RPCNode) Name() string        { return "rank.rpc" }
func (n *RPCNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RPCNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Model == nil || len(items) == 0 {
		return items, nil
	}

	personaCode, category := "", ""
	if rctx != nil {
		personaCode = rctx.Persona
		category = rctx.Category
	}

	featuresList := make([]map[string]float64, 0, len(items))
	valid := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		featuresList = append(featuresList, feature.VectorMap(it, personaCode, category))
		valid = append(valid, it)
	}

	scores, err := n.Model.PredictBatch(featuresList)
	if err != nil {
		return nil, err
	}
	for i, it := range valid {
		it.Score = scores[i]
		it.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
		it.PutLabel("rank_type", utils.Label{Value: "rpc", Source: "rank"})
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
