package model

import (
	"encoding/json"
	"math"
	"math/rand"
	"sort"

	"github.com/rushteam/stockrec/core"
)

// GBRankParams 是 GBRank 的训练超参。全部超参固定，保证同一份
// 训练数据在任何机器上得到同一个模型。
type GBRankParams struct {
	Rounds    int     `json:"rounds"`
	Eta       float64 `json:"eta"`
	MaxDepth  int     `json:"max_depth"`
	Subsample float64 `json:"subsample"`
	Colsample float64 `json:"colsample"`
	NDCGCut   int     `json:"ndcg_cut"`
	Lambda    float64 `json:"lambda"` // L2 正则
	Seed      int64   `json:"seed"`
}

// DefaultGBRankParams 返回默认超参。
func DefaultGBRankParams() GBRankParams {
	return GBRankParams{
		Rounds:    100,
		Eta:       0.1,
		MaxDepth:  6,
		Subsample: 0.8,
		Colsample: 0.8,
		NDCGCut:   10,
		Lambda:    1.0,
		Seed:      42,
	}
}

// GBRank 是本地实现的梯度提升树排序模型，采用 group-wise
// （LambdaMART 风格）目标，以 NDCG@K 的变化量加权 pairwise 梯度。
// 模型可序列化为 JSON，供 ArtifactStore 持久化。
type GBRank struct {
	name     string
	params   GBRankParams
	features []string

	trees   []*regTree
	base    float64
	gains   []float64
	trained bool
}

// NewGBRank 以固定的特征顺序构造一个未训练的模型。
// features 决定 Predict 时 map 特征到向量的列顺序。
func NewGBRank(name string, features []string, params GBRankParams) *GBRank {
	return &GBRank{
		name:     name,
		params:   params,
		features: append([]string(nil), features...),
		gains:    make([]float64, len(features)),
	}
}

func (m *GBRank) Name() string { return m.name }

// Predict 对单条特征打分。未训练（也未加载）时返回 NOT_TRAINED。
func (m *GBRank) Predict(features map[string]float64) (float64, error) {
	if !m.trained {
		return 0, core.NewDomainError(core.ModuleModel, core.ErrorCodeNotTrained, "model not trained: "+m.name)
	}
	row := make([]float64, len(m.features))
	for i, name := range m.features {
		row[i] = features[name]
	}
	return m.predictRow(row), nil
}

// PredictRow 对已按特征顺序排好的向量打分。
func (m *GBRank) PredictRow(row []float64) (float64, error) {
	if !m.trained {
		return 0, core.NewDomainError(core.ModuleModel, core.ErrorCodeNotTrained, "model not trained: "+m.name)
	}
	return m.predictRow(row), nil
}

func (m *GBRank) predictRow(row []float64) float64 {
	score := m.base
	for _, t := range m.trees {
		score += m.params.Eta * t.predict(row)
	}
	return score
}

// Train 按会话分组训练。groups 的各元素为对应会话的样本数，
// 其总和必须等于 len(X)。
func (m *GBRank) Train(X [][]float64, y []int, groups []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "training matrix and labels mismatch")
	}
	total := 0
	for _, g := range groups {
		total += g
	}
	if total != len(X) {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "group sizes do not cover all samples")
	}
	rng := rand.New(rand.NewSource(m.params.Seed))

	n := len(X)
	scores := make([]float64, n)
	lambdas := make([]float64, n)
	hessians := make([]float64, n)
	m.trees = m.trees[:0]
	m.base = 0
	m.gains = make([]float64, len(m.features))

	for round := 0; round < m.params.Rounds; round++ {
		for i := range lambdas {
			lambdas[i] = 0
			hessians[i] = 0
		}
		off := 0
		for _, g := range groups {
			m.accumulateLambdas(y[off:off+g], scores[off:off+g], lambdas[off:off+g], hessians[off:off+g])
			off += g
		}

		rows := sampleRows(n, m.params.Subsample, rng)
		cols := sampleCols(len(m.features), m.params.Colsample, rng)
		tree := buildTree(X, lambdas, hessians, rows, cols, m.params.MaxDepth, m.params.Lambda, m.gains)
		m.trees = append(m.trees, tree)
		for i := 0; i < n; i++ {
			scores[i] += m.params.Eta * tree.predict(X[i])
		}
	}
	m.trained = true
	return nil
}

// accumulateLambdas 在一个会话内计算 LambdaMART 的一阶与二阶梯度，
// pairwise 梯度以交换双方位置后 NDCG@K 的变化量加权。
func (m *GBRank) accumulateLambdas(y []int, scores, lambdas, hessians []float64) {
	n := len(y)
	if n < 2 {
		return
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	rank := make([]int, n)
	for pos, idx := range order {
		rank[idx] = pos + 1
	}
	maxDCG := idealDCG(y, m.params.NDCGCut)
	if maxDCG == 0 {
		return
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if y[i] <= y[j] {
				continue
			}
			delta := math.Abs(gain(y[i])-gain(y[j])) *
				math.Abs(discount(rank[i], m.params.NDCGCut)-discount(rank[j], m.params.NDCGCut)) / maxDCG
			if delta == 0 {
				continue
			}
			rho := 1.0 / (1.0 + math.Exp(scores[i]-scores[j]))
			lambdas[i] += delta * rho
			lambdas[j] -= delta * rho
			h := delta * rho * (1 - rho)
			hessians[i] += h
			hessians[j] += h
		}
	}
}

func gain(label int) float64 { return math.Exp2(float64(label)) - 1 }

func discount(rank, cut int) float64 {
	if rank > cut {
		return 0
	}
	return 1.0 / math.Log2(float64(rank)+1)
}

func idealDCG(y []int, cut int) float64 {
	sorted := append([]int(nil), y...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	dcg := 0.0
	for i, label := range sorted {
		if i >= cut {
			break
		}
		dcg += gain(label) * discount(i+1, cut)
	}
	return dcg
}

func sampleRows(n int, frac float64, rng *rand.Rand) []int {
	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if rng.Float64() < frac {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		for i := 0; i < n; i++ {
			rows = append(rows, i)
		}
	}
	return rows
}

func sampleCols(n int, frac float64, rng *rand.Rand) []int {
	perm := rng.Perm(n)
	k := int(math.Ceil(frac * float64(n)))
	if k < 1 {
		k = 1
	}
	cols := perm[:k]
	sort.Ints(cols)
	return cols
}

// Save 将训练好的模型序列化为 JSON。
func (m *GBRank) Save() ([]byte, error) {
	if !m.trained {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeNotTrained, "model not trained: "+m.name)
	}
	return json.Marshal(gbrankArtifact{
		Name:     m.name,
		Params:   m.params,
		Features: m.features,
		Base:     m.base,
		Trees:    m.trees,
		Gains:    m.gains,
	})
}

// Load 从 JSON 恢复模型，恢复后即可 Predict。
func (m *GBRank) Load(data []byte) error {
	var art gbrankArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "decode model artifact: "+err.Error())
	}
	if len(art.Features) == 0 || len(art.Trees) == 0 {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model artifact is empty")
	}
	m.name = art.Name
	m.params = art.Params
	m.features = art.Features
	m.base = art.Base
	m.trees = art.Trees
	m.gains = art.Gains
	if m.gains == nil {
		m.gains = make([]float64, len(m.features))
	}
	m.trained = true
	return nil
}

// FeatureImportance 返回按分裂增益降序排列的特征重要度。
func (m *GBRank) FeatureImportance() []Importance {
	out := make([]Importance, 0, len(m.features))
	for i, name := range m.features {
		if i < len(m.gains) && m.gains[i] > 0 {
			out = append(out, Importance{Feature: name, Gain: m.gains[i]})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Gain > out[b].Gain })
	return out
}

type gbrankArtifact struct {
	Name     string       `json:"name"`
	Params   GBRankParams `json:"params"`
	Features []string     `json:"features"`
	Base     float64      `json:"base_score"`
	Trees    []*regTree   `json:"trees"`
	Gains    []float64    `json:"feature_gains"`
}
