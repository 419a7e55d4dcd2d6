package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/stockrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是约束 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// 用于配置驱动的候选过滤：运营可以不改代码下发硬约束表达式。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.dividend_yield > 0 / item.score >= 50.0
//   - 字符串：item.sector.contains("반도체")
//   - 逻辑：item.volatility != "very-high" && item.change_percent > 0.0
//   - 上下文：rctx.persona == "ISTJ" / rctx.category == "배당 투자"
//   - 标签存在性：label.theme_constraint != null
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{item: item, rctx: rctx, env: env}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
// 空表达式恒为 true。访问不存在的 key 会报错，应使用
// label.key != null 检查存在性。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
func (e *Eval) buildInput() map[string]interface{} {
	labels := make(map[string]interface{})
	labelAccessor := make(map[string]interface{})
	if e.item != nil {
		for k, v := range e.item.Labels {
			labels[k] = map[string]interface{}{"value": v.Value, "source": v.Source}
			labelAccessor[k] = v.Value
		}
	}

	item := map[string]interface{}{}
	if e.item != nil {
		item = map[string]interface{}{
			"ticker":         e.item.Ticker,
			"name":           e.item.Name,
			"sector":         e.item.Sector,
			"price":          e.item.Price,
			"change_percent": e.item.ChangePercent,
			"volatility":     string(e.item.Volatility),
			"dividend_yield": e.item.DividendYield,
			"score":          e.item.Score,
			"meta":           e.item.Meta,
			"labels":         labels,
		}
	}

	rctx := map[string]interface{}{}
	if e.rctx != nil {
		rctx = map[string]interface{}{
			"user_id":  e.rctx.UserID,
			"persona":  e.rctx.Persona,
			"theme_id": e.rctx.ThemeID,
			"category": e.rctx.Category,
			"scene":    e.rctx.Scene,
			"params":   e.rctx.Params,
		}
	}

	return map[string]interface{}{
		"item":  item,
		"label": labelAccessor,
		"rctx":  rctx,
	}
}
