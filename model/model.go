package model

// RankModel 是排序阶段的最小抽象：输入特征，输出一个可比较的分数。
// 具体实现可以是本地模型（GBRank）或远程 RPC 服务。
type RankModel interface {
	Name() string
	Predict(features map[string]float64) (float64, error)
}

// TrainableRanker 是可离线训练的 group-wise 排序模型抽象。
// X 为特征矩阵，y 为整数 relevance 标签，groups 为各会话的行数
// （learning-to-rank 的 query group）。
type TrainableRanker interface {
	RankModel

	Train(X [][]float64, y []int, groups []int) error
	Save() ([]byte, error)
	Load(data []byte) error
	FeatureImportance() []Importance
}

// Importance 是一项特征重要度（按 gain 降序排列）。
type Importance struct {
	Feature string  `json:"feature"`
	Gain    float64 `json:"gain"`
}
