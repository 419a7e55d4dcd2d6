// Package builders 提供内置 Node 的配置构建器，import 即注册：
//
//	import _ "github.com/rushteam/stockrec/config/builders"
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/stockrec/config"
	"github.com/rushteam/stockrec/filter"
	"github.com/rushteam/stockrec/model"
	"github.com/rushteam/stockrec/pipeline"
	"github.com/rushteam/stockrec/pkg/conv"
	"github.com/rushteam/stockrec/rank"
	"github.com/rushteam/stockrec/recall"
	"github.com/rushteam/stockrec/rerank"
)

func init() {
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("recall.hot", BuildHotNode)
	config.Register("filter.theme", BuildThemeConstraintNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rank.rule", BuildRuleNode)
	config.Register("rank.rpc", BuildRPCNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.surface", BuildSurfaceNode)
}

func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		switch sourceType {
		case "hot":
			tickers := conv.SliceAnyToString(sourceMap["tickers"])
			if tickers == nil {
				tickers = []string{}
			}
			key := conv.ConfigGet(sourceMap, "key", "")
			sources = append(sources, &recall.Hot{Tickers: tickers, Key: key})
		case "catalog":
			// 目录召回需注入 core.Catalog，不支持纯配置构建；
			// 服务侧直接用 recall.CatalogNode
			return nil, fmt.Errorf("catalog source requires wiring, not config")
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", ""),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func BuildHotNode(cfg map[string]interface{}) (pipeline.Node, error) {
	tickers := conv.SliceAnyToString(cfg["tickers"])
	if tickers == nil {
		tickers = []string{}
	}
	return &recall.Hot{
		Tickers: tickers,
		Key:     conv.ConfigGet(cfg, "key", ""),
	}, nil
}

func BuildThemeConstraintNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &filter.ThemeConstraintNode{}, nil
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "blacklist":
			tickers := conv.SliceAnyToString(filterMap["tickers"])
			if tickers == nil {
				tickers = []string{}
			}
			key := conv.ConfigGet(filterMap, "key", "")
			filters = append(filters, filter.NewBlacklistFilter(tickers, nil, key))
		case "expr":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("expr filter requires expr")
			}
			filters = append(filters, filter.NewExprFilter(expr))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildRuleNode(cfg map[string]interface{}) (pipeline.Node, error) {
	if seed := conv.ConfigGetInt64(cfg, "seed", 0); seed != 0 {
		return &rank.RuleNode{Scorer: rank.NewSeededRuleScorer(seed)}, nil
	}
	return &rank.RuleNode{}, nil
}

func BuildRPCNode(cfg map[string]interface{}) (pipeline.Node, error) {
	endpoint := conv.ConfigGet(cfg, "endpoint", "")
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint not found")
	}
	timeout := 5 * time.Second
	if sec := conv.ConfigGetInt64(cfg, "timeout", 5); sec > 0 {
		timeout = time.Duration(sec) * time.Second
	}
	name := conv.ConfigGet(cfg, "model_name", "rpc")
	return &rank.RPCNode{Model: model.NewRPCModel(name, endpoint, timeout)}, nil
}

func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.DiversityNode{
		Penalty: conv.ConfigGetFloat64(cfg, "penalty", 0),
	}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: int(conv.ConfigGetInt64(cfg, "n", 0)),
	}, nil
}

func BuildSurfaceNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.SurfaceNode{
		Top: int(conv.ConfigGetInt64(cfg, "top", 0)),
	}, nil
}
