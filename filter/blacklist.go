package filter

import (
	"context"
	"encoding/json"

	"github.com/rushteam/stockrec/core"
)

// BlacklistFilter 是黑名单过滤器：停牌、退市预警等不可推荐的票
// 统一从黑名单剔除。名单可以内存配置，也可以挂接存储动态下发。
type BlacklistFilter struct {
	// Tickers 是内存中的黑名单
	Tickers []string

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单 ticker 列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(tickers []string, store BlacklistStore, key string) *BlacklistFilter {
	return &BlacklistFilter{Tickers: tickers, Store: store, Key: key}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	for _, t := range f.Tickers {
		if item.Ticker == t {
			return true, nil
		}
	}
	if f.Store != nil && f.Key != "" {
		blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
		if err == nil {
			for _, t := range blacklist {
				if item.Ticker == t {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

// StoreBlacklist 把 core.Store 适配为 BlacklistStore：
// 名单以 JSON 字符串数组存在单个 key 下。
type StoreBlacklist struct {
	store core.Store
}

func NewStoreBlacklist(s core.Store) *StoreBlacklist {
	return &StoreBlacklist{store: s}
}

func (a *StoreBlacklist) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var tickers []string
	if err := json.Unmarshal(data, &tickers); err != nil {
		return nil, err
	}
	return tickers, nil
}
