package train

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/feature"
	"github.com/rushteam/stockrec/model"
	"github.com/rushteam/stockrec/persona"
)

// DefaultMinSamples 是进入训练的最少样本数（低于此数跳过该人格）。
const DefaultMinSamples = 20

// resultsKey 是训练汇总在 Store 里的 key。
const resultsKey = "train:results"

// PersonaResult 是单个人格一轮训练的结果。
type PersonaResult struct {
	Persona     string   `json:"persona"`
	Status      string   `json:"status"` // success / skipped / failed
	Samples     int      `json:"samples,omitempty"`
	Sessions    int      `json:"sessions,omitempty"`
	Error       string   `json:"error,omitempty"`
	TopFeatures []string `json:"top_features,omitempty"`
}

// Trainer 是离线训练编排器：对全部 16 种人格依次跑
// 拉取事件 → 构建标签 → 训练 → 持久化工件。
//
// 人格之间完全隔离：一个人格数据不足或训练失败只记入汇总，
// 不影响其他人格，也不动它已有的旧工件。
type Trainer struct {
	Actions   core.ActionLog
	Catalog   core.Catalog
	Artifacts core.ArtifactStore

	// Results 非空时把批次汇总写入该存储（key = "train:results"）
	Results core.Store

	// MinSamples 零值取 DefaultMinSamples
	MinSamples int

	Log zerolog.Logger
}

// TrainAll 对全部人格跑一轮训练，返回按人格的结果汇总。
// 只有目录不可用才整体失败，单个人格的问题都吞进各自的结果里。
func (t *Trainer) TrainAll(ctx context.Context) (map[string]PersonaResult, error) {
	items, err := t.Catalog.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	catalog := indexByTicker(items)

	results := make(map[string]PersonaResult, 16)
	for _, code := range persona.All() {
		res := t.trainOne(ctx, code, catalog)
		results[code] = res

		ev := t.Log.Info()
		if res.Status == "failed" {
			ev = t.Log.Error()
		}
		ev.Str("persona", code).
			Str("status", res.Status).
			Int("samples", res.Samples).
			Str("error", res.Error).
			Msg("persona training finished")
	}

	if t.Results != nil {
		if data, err := json.Marshal(results); err == nil {
			if err := t.Results.Set(ctx, resultsKey, data); err != nil {
				t.Log.Warn().Err(err).Msg("persist training results failed")
			}
		}
	}
	return results, nil
}

// TrainPersona 只训练一个人格（运营补训入口）。
func (t *Trainer) TrainPersona(ctx context.Context, code string) (PersonaResult, error) {
	items, err := t.Catalog.ListItems(ctx)
	if err != nil {
		return PersonaResult{}, err
	}
	return t.trainOne(ctx, code, indexByTicker(items)), nil
}

func (t *Trainer) trainOne(ctx context.Context, code string, catalog map[string]*core.Item) PersonaResult {
	res := PersonaResult{Persona: code}

	events, err := t.Actions.ListByPersona(ctx, code)
	if err != nil {
		res.Status = "failed"
		res.Error = err.Error()
		return res
	}

	set, err := BuildTrainingSet(events, catalog, code)
	if err != nil {
		// 行为数不足 10 条算训练失败，样本数不足（见下方 minSamples）才是跳过。
		res.Status = "failed"
		res.Error = err.Error()
		return res
	}

	minSamples := t.MinSamples
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	res.Samples = set.Samples()
	res.Sessions = len(set.Groups)
	if set.Samples() < minSamples {
		res.Status = "skipped"
		res.Error = "insufficient samples"
		return res
	}

	m := model.NewGBRank("gbrank."+code, feature.Names(), model.DefaultGBRankParams())
	if err := m.Train(set.X, set.Y, set.Groups); err != nil {
		res.Status = "failed"
		res.Error = err.Error()
		return res
	}

	data, err := m.Save()
	if err != nil {
		res.Status = "failed"
		res.Error = err.Error()
		return res
	}
	if err := t.Artifacts.Save(ctx, code, data); err != nil {
		res.Status = "failed"
		res.Error = err.Error()
		return res
	}

	for i, imp := range m.FeatureImportance() {
		if i >= 5 {
			break
		}
		res.TopFeatures = append(res.TopFeatures, imp.Feature)
	}
	res.Status = "success"
	return res
}

func indexByTicker(items []*core.Item) map[string]*core.Item {
	idx := make(map[string]*core.Item, len(items))
	for _, it := range items {
		if it == nil || it.Ticker == "" {
			continue
		}
		idx[it.Ticker] = it
	}
	return idx
}
