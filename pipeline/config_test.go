package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/stockrec/core"
)

type fakeNode struct {
	name string
	kind Kind
	fn   func(items []*core.Item) ([]*core.Item, error)
}

func (n *fakeNode) Name() string { return n.name }
func (n *fakeNode) Kind() Kind   { return n.kind }
func (n *fakeNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.fn == nil {
		return items, nil
	}
	return n.fn(items)
}

func TestPipeline_RunChainsNodes(t *testing.T) {
	drop := &fakeNode{name: "f", kind: KindFilter, fn: func(items []*core.Item) ([]*core.Item, error) {
		return items[1:], nil
	}}
	score := &fakeNode{name: "r", kind: KindRank, fn: func(items []*core.Item) ([]*core.Item, error) {
		for i, it := range items {
			it.Score = float64(100 - i)
		}
		return items, nil
	}}

	p := &Pipeline{Nodes: []Node{drop, score}}
	items := []*core.Item{core.NewItem("A"), core.NewItem("B"), core.NewItem("C")}
	out, err := p.Run(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Ticker != "B" || out[0].Score != 100 {
		t.Errorf("first = %s/%v, want B/100", out[0].Ticker, out[0].Score)
	}
}

func TestPipeline_RunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	failing := &fakeNode{name: "bad", kind: KindFilter, fn: func([]*core.Item) ([]*core.Item, error) {
		return nil, boom
	}}
	reached := false
	after := &fakeNode{name: "after", kind: KindRank, fn: func(items []*core.Item) ([]*core.Item, error) {
		reached = true
		return items, nil
	}}

	p := &Pipeline{Nodes: []Node{failing, after}}
	_, err := p.Run(context.Background(), &core.RecommendContext{}, []*core.Item{core.NewItem("A")})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if reached {
		t.Error("node after failure should not run")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := `
pipeline:
  name: theme_feed
  nodes:
    - type: filter.theme
    - type: rerank.topn
      config:
        n: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pipeline.Name != "theme_feed" {
		t.Errorf("name = %q", cfg.Pipeline.Name)
	}
	if len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(cfg.Pipeline.Nodes))
	}
	if cfg.Pipeline.Nodes[1].Type != "rerank.topn" {
		t.Errorf("second node type = %q", cfg.Pipeline.Nodes[1].Type)
	}
	if n, ok := cfg.Pipeline.Nodes[1].Config["n"]; !ok || n != 5 {
		t.Errorf("topn config = %v", cfg.Pipeline.Nodes[1].Config)
	}
}

func TestNodeFactory_Build(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("fake", func(cfg map[string]interface{}) (Node, error) {
		return &fakeNode{name: "fake", kind: KindPostProcess}, nil
	})

	node, err := factory.Build("fake", nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if node.Name() != "fake" {
		t.Errorf("name = %q", node.Name())
	}

	if _, err := factory.Build("missing", nil); err == nil {
		t.Error("expected error for unregistered type")
	}
}

func TestConfig_BuildPipeline(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("fake", func(cfg map[string]interface{}) (Node, error) {
		return &fakeNode{name: "fake", kind: KindFilter}, nil
	})

	var cfg Config
	cfg.Pipeline.Name = "test"
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "fake"}, {Type: "fake"}}

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("build pipeline: %v", err)
	}
	if len(p.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(p.Nodes))
	}

	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: "nope"})
	if _, err := cfg.BuildPipeline(factory); err == nil {
		t.Error("expected error for unknown node type")
	}
}
