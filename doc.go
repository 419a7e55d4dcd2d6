// Package stockrec 是一个按人格出榜的股票推荐排序引擎。
//
// 设计要点：
// - Pipeline-first: 排序逻辑通过 Node 串联（Recall → Filter → Rank → ReRank → PostProcess）
// - 混合打分: 规则打分器（人格 × 类别加权启发式）与离线训练的
//   learning-to-rank 模型按权重混合，模型缺失时自动降级为纯规则
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
package stockrec

import "github.com/rushteam/stockrec/pipeline"

// 轻量 facade：便于用户直接 import "stockrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
