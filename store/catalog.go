package store

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rushteam/stockrec/core"
)

// catalogRow 是目录存储里一条个股的序列化形态。
// market_cap 字段上游既可能给分桶字符串也可能给数值，按原样透传。
type catalogRow struct {
	Ticker        string          `json:"ticker"`
	Name          string          `json:"name"`
	Sector        string          `json:"sector"`
	Price         float64         `json:"price"`
	ChangePercent float64         `json:"change_percent"`
	Volatility    string          `json:"volatility"`
	DividendYield float64         `json:"dividend_yield"`
	MarketCap     json.RawMessage `json:"market_cap"`
}

func (r catalogRow) toItem() *core.Item {
	it := core.NewItem(r.Ticker)
	it.Name = r.Name
	it.Sector = r.Sector
	it.Price = r.Price
	it.ChangePercent = r.ChangePercent
	if r.Volatility != "" {
		it.Volatility = core.Volatility(r.Volatility)
	}
	it.DividendYield = r.DividendYield

	if len(r.MarketCap) > 0 {
		var num float64
		if err := json.Unmarshal(r.MarketCap, &num); err == nil {
			it.MarketCap = core.CapValue(num)
		} else {
			var bucket string
			if err := json.Unmarshal(r.MarketCap, &bucket); err == nil {
				it.MarketCap = core.CapBucket(bucket)
			}
		}
	}
	return it
}

func itemToRow(it *core.Item) catalogRow {
	row := catalogRow{
		Ticker:        it.Ticker,
		Name:          it.Name,
		Sector:        it.Sector,
		Price:         it.Price,
		ChangePercent: it.ChangePercent,
		Volatility:    string(it.Volatility),
		DividendYield: it.DividendYield,
	}
	if it.MarketCap.Numeric {
		row.MarketCap, _ = json.Marshal(it.MarketCap.Value)
	} else if it.MarketCap.Bucket != "" {
		row.MarketCap, _ = json.Marshal(it.MarketCap.Bucket)
	}
	return row
}

// catalogHashKey 是目录在 KV 存储里的 Hash key（field = ticker）。
const catalogHashKey = "catalog:stocks"

// KVCatalog 是 KeyValueStore 实现的行情目录：整个目录存在一个
// Hash 下，field 为 ticker，value 为个股 JSON。
// 读失败或目录为空都按目录不可用处理，调用方得到硬失败。
type KVCatalog struct {
	Store core.KeyValueStore
}

func NewKVCatalog(kv core.KeyValueStore) *KVCatalog {
	return &KVCatalog{Store: kv}
}

var _ core.Catalog = (*KVCatalog)(nil)

func (c *KVCatalog) ListItems(ctx context.Context) ([]*core.Item, error) {
	if c.Store == nil {
		return nil, core.ErrCatalogUnavailable
	}
	fields, err := c.Store.HGetAll(ctx, catalogHashKey)
	if err != nil || len(fields) == 0 {
		return nil, core.ErrCatalogUnavailable
	}
	items := make([]*core.Item, 0, len(fields))
	for _, data := range fields {
		var row catalogRow
		if err := json.Unmarshal(data, &row); err != nil {
			continue
		}
		if row.Ticker == "" {
			continue
		}
		items = append(items, row.toItem())
	}
	if len(items) == 0 {
		return nil, core.ErrCatalogUnavailable
	}
	return items, nil
}

// PutItems 全量写入目录（行情同步任务使用）。
func (c *KVCatalog) PutItems(ctx context.Context, items []*core.Item) error {
	for _, it := range items {
		if it == nil || it.Ticker == "" {
			continue
		}
		data, err := json.Marshal(itemToRow(it))
		if err != nil {
			return err
		}
		if err := c.Store.HSet(ctx, catalogHashKey, it.Ticker, data); err != nil {
			return err
		}
	}
	return nil
}

// StaticCatalog 是内存实现的行情目录，测试与示例用。
type StaticCatalog struct {
	Items []*core.Item
}

var _ core.Catalog = (*StaticCatalog)(nil)

func (c *StaticCatalog) ListItems(_ context.Context) ([]*core.Item, error) {
	if len(c.Items) == 0 {
		return nil, core.ErrCatalogUnavailable
	}
	out := make([]*core.Item, len(c.Items))
	copy(out, c.Items)
	return out, nil
}

// LoadCatalogJSON 从 JSON 文件加载目录（个股数组）。
func LoadCatalogJSON(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []catalogRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	items := make([]*core.Item, 0, len(rows))
	for _, row := range rows {
		if row.Ticker == "" {
			continue
		}
		items = append(items, row.toItem())
	}
	return &StaticCatalog{Items: items}, nil
}
