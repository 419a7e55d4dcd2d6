package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/stockrec/core"
	"github.com/rushteam/stockrec/pkg/utils"
	"github.com/rushteam/stockrec/store"
)

type fakeSource struct {
	name    string
	tickers []string
	err     error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.tickers))
	for _, t := range s.tickers {
		out = append(out, core.NewItem(t))
	}
	return out, nil
}

func tickerSet(items []*core.Item) map[string]int {
	set := make(map[string]int, len(items))
	for _, it := range items {
		set[it.Ticker]++
	}
	return set
}

func TestFanout_UnionKeepsAll(t *testing.T) {
	node := &Fanout{
		Sources: []Source{
			&fakeSource{name: "a", tickers: []string{"005930", "000660"}},
			&fakeSource{name: "b", tickers: []string{"005930", "035420"}},
		},
		MergeStrategy: "union",
	}
	out, err := node.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	set := tickerSet(out)
	if len(out) != 4 || set["005930"] != 2 {
		t.Errorf("union should keep duplicates: %v", set)
	}
	for _, it := range out {
		if _, ok := it.Labels["recall_source"]; !ok {
			t.Errorf("%s: missing recall_source label", it.Ticker)
		}
		if _, ok := it.Labels["recall_priority"]; !ok {
			t.Errorf("%s: missing recall_priority label", it.Ticker)
		}
	}
}

func TestFanout_FailedSourceSwallowed(t *testing.T) {
	node := &Fanout{
		Sources: []Source{
			&fakeSource{name: "bad", err: errors.New("upstream down")},
			&fakeSource{name: "good", tickers: []string{"005930", "000660"}},
		},
		Dedup: true,
	}
	out, err := node.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("failed source should not drop the good one: got %d items", len(out))
	}
}

func TestFanout_MergeFirst(t *testing.T) {
	first := core.NewItem("005930")
	first.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
	dup := core.NewItem("005930")
	dup.PutLabel("recall_source", utils.Label{Value: "catalog", Source: "recall"})
	other := core.NewItem("000660")

	node := &Fanout{Dedup: true}
	out := node.mergeFirst([]*core.Item{first, dup, other})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0] != first {
		t.Error("first occurrence should win")
	}
	// 落选条目的标签并入保留条目
	if got := out[0].Labels["recall_source"].Value; got != "hot|catalog" {
		t.Errorf("merged label = %q, want hot|catalog", got)
	}
}

func TestFanout_MergeByPriority(t *testing.T) {
	low := core.NewItem("005930")
	low.PutLabel("recall_priority", utils.Label{Value: "1", Source: "recall"})
	high := core.NewItem("005930")
	high.PutLabel("recall_priority", utils.Label{Value: "0", Source: "recall"})
	other := core.NewItem("000660")
	other.PutLabel("recall_priority", utils.Label{Value: "1", Source: "recall"})

	node := &Fanout{Dedup: true}
	out := node.mergeByPriority([]*core.Item{low, high, other})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0] != high {
		t.Error("lower priority index should win the duplicate")
	}
}

func TestHot_MemoryFallback(t *testing.T) {
	node := &Hot{Tickers: []string{"005930", "000660"}}
	out, err := node.Recall(context.Background(), nil)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(out) != 2 || out[0].Ticker != "005930" {
		t.Errorf("fallback list mismatch: %v", tickerSet(out))
	}
}

func TestHot_ZSetBacked(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()
	for member, score := range map[string]float64{"005930": 300, "000660": 200, "035420": 100} {
		if err := kv.ZAdd(ctx, "hot:tickers", score, member); err != nil {
			t.Fatalf("zadd: %v", err)
		}
	}

	node := &Hot{Store: kv, Key: "hot:tickers", Tickers: []string{"fallback"}}
	out, err := node.Recall(ctx, nil)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	// 按热度分数降序
	if out[0].Ticker != "005930" || out[2].Ticker != "035420" {
		t.Errorf("hot order = %s..%s, want 005930..035420", out[0].Ticker, out[2].Ticker)
	}
}

// plainStore 只实现 core.Store，用于覆盖 JSON key 分支。
type plainStore struct {
	data map[string][]byte
}

func (s *plainStore) Name() string { return "plain" }
func (s *plainStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return v, nil
}
func (s *plainStore) Set(_ context.Context, key string, value []byte, _ ...int) error {
	s.data[key] = value
	return nil
}
func (s *plainStore) Delete(_ context.Context, key string) error { return nil }
func (s *plainStore) BatchGet(_ context.Context, _ []string) (map[string][]byte, error) {
	return nil, core.ErrStoreNotSupported
}
func (s *plainStore) BatchSet(_ context.Context, _ map[string][]byte, _ ...int) error {
	return core.ErrStoreNotSupported
}
func (s *plainStore) Close() error { return nil }

func TestHot_JSONKeyBacked(t *testing.T) {
	s := &plainStore{data: map[string][]byte{
		"hot:tickers": []byte(`["035420","005930"]`),
	}}
	node := &Hot{Store: s, Key: "hot:tickers"}
	out, err := node.Recall(context.Background(), nil)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(out) != 2 || out[0].Ticker != "035420" {
		t.Errorf("json list mismatch: %v", tickerSet(out))
	}
}

func TestCatalogNode_HardFailure(t *testing.T) {
	node := &CatalogNode{Catalog: &store.StaticCatalog{}}
	if _, err := node.Process(context.Background(), nil, nil); !core.IsCatalogUnavailable(err) {
		t.Errorf("expected catalog unavailable, got %v", err)
	}

	node = &CatalogNode{}
	if _, err := node.Process(context.Background(), nil, nil); !core.IsCatalogUnavailable(err) {
		t.Errorf("nil catalog should be unavailable, got %v", err)
	}
}
