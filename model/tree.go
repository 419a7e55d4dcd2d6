package model

import "sort"

// regTree 是牛顿步拟合的回归树：叶子值 = ΣG / (ΣH + λ)。
// 节点按数组存放，Left/Right 为子节点下标，叶子节点 Feature 为 -1。
type regTree struct {
	Nodes []treeNode `json:"nodes"`
}

type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

func (t *regTree) predict(row []float64) float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.Feature < 0 {
			return node.Value
		}
		if row[node.Feature] < node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// buildTree 在采样的行列上贪心生长一棵回归树。gains 按特征累计
// 分裂增益，用于特征重要度统计。
func buildTree(X [][]float64, grad, hess []float64, rows, cols []int, maxDepth int, lambda float64, gains []float64) *regTree {
	t := &regTree{}
	t.grow(X, grad, hess, rows, cols, maxDepth, lambda, gains)
	return t
}

func (t *regTree) grow(X [][]float64, grad, hess []float64, rows, cols []int, depth int, lambda float64, gains []float64) int {
	sumG, sumH := 0.0, 0.0
	for _, r := range rows {
		sumG += grad[r]
		sumH += hess[r]
	}
	leafValue := sumG / (sumH + lambda)

	if depth <= 0 || len(rows) < 2 {
		return t.leaf(leafValue)
	}

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0
	parentScore := sumG * sumG / (sumH + lambda)

	for _, c := range cols {
		sorted := append([]int(nil), rows...)
		sortByFeature(sorted, X, c)
		leftG, leftH := 0.0, 0.0
		for i := 0; i < len(sorted)-1; i++ {
			r := sorted[i]
			leftG += grad[r]
			leftH += hess[r]
			cur, next := X[r][c], X[sorted[i+1]][c]
			if cur == next {
				continue
			}
			rightG, rightH := sumG-leftG, sumH-leftH
			gain := leftG*leftG/(leftH+lambda) + rightG*rightG/(rightH+lambda) - parentScore
			if gain > bestGain {
				bestGain = gain
				bestFeature = c
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return t.leaf(leafValue)
	}
	gains[bestFeature] += bestGain

	var left, right []int
	for _, r := range rows {
		if X[r][bestFeature] < bestThreshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return t.leaf(leafValue)
	}

	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, treeNode{Feature: bestFeature, Threshold: bestThreshold})
	l := t.grow(X, grad, hess, left, cols, depth-1, lambda, gains)
	r := t.grow(X, grad, hess, right, cols, depth-1, lambda, gains)
	t.Nodes[idx].Left = l
	t.Nodes[idx].Right = r
	return idx
}

func (t *regTree) leaf(value float64) int {
	t.Nodes = append(t.Nodes, treeNode{Feature: -1, Value: value})
	return len(t.Nodes) - 1
}

func sortByFeature(rows []int, X [][]float64, c int) {
	sort.Slice(rows, func(a, b int) bool { return X[rows[a]][c] < X[rows[b]][c] })
}
