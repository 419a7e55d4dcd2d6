package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/stockrec/core"
)

// actionKeyPrefix 是行为日志在 KV 存储里的 key 前缀。
// 每个人格一个 zset，member 为事件 JSON，score 为事件时间戳。
const actionKeyPrefix = "actions:"

// ActionStore 是 KeyValueStore 实现的追加型行为日志。
// 写端由外围应用在用户交互时调用（见各 LogXXX 辅助方法），
// 读端由离线训练按人格拉取，时间升序。
type ActionStore struct {
	Store core.KeyValueStore
}

func NewActionStore(kv core.KeyValueStore) *ActionStore {
	return &ActionStore{Store: kv}
}

var _ core.ActionLog = (*ActionStore)(nil)

// Append 追加一条行为事件。事件写入后不再修改。
func (s *ActionStore) Append(ctx context.Context, event core.ActionEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	key := actionKeyPrefix + event.Persona
	return s.Store.ZAdd(ctx, key, float64(event.Timestamp.UnixNano()), string(data))
}

// ListByPersona 返回某个人格的全部行为事件（时间升序）。
// 解析失败的条目跳过，不让一条脏数据毁掉整个训练批次。
func (s *ActionStore) ListByPersona(ctx context.Context, persona string) ([]core.ActionEvent, error) {
	members, err := s.Store.ZRangeAsc(ctx, actionKeyPrefix+persona, 0, -1)
	if err != nil {
		return nil, err
	}
	events := make([]core.ActionEvent, 0, len(members))
	for _, m := range members {
		var ev core.ActionEvent
		if err := json.Unmarshal([]byte(m), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// 以下是外围应用的类型化写入入口，每种交互一个方法。

// LogView 记录推荐列表曝光（带榜单位置）。
func (s *ActionStore) LogView(ctx context.Context, userID, persona, ticker, themeID, themeTitle string, position int) error {
	return s.Append(ctx, core.ActionEvent{
		UserID: userID, Persona: persona, Action: core.ActionView,
		Ticker: ticker, ThemeID: themeID, ThemeTitle: themeTitle, Position: position,
	})
}

// LogClick 记录点击进入详情（带榜单位置）。
func (s *ActionStore) LogClick(ctx context.Context, userID, persona, ticker, themeID string, position int) error {
	return s.Append(ctx, core.ActionEvent{
		UserID: userID, Persona: persona, Action: core.ActionClick,
		Ticker: ticker, ThemeID: themeID, Position: position,
	})
}

// LogDetailView 记录详情页停留。
func (s *ActionStore) LogDetailView(ctx context.Context, userID, persona, ticker string) error {
	return s.Append(ctx, core.ActionEvent{
		UserID: userID, Persona: persona, Action: core.ActionDetailView, Ticker: ticker,
	})
}

// LogBuy 记录买入（数量与成交价）。
func (s *ActionStore) LogBuy(ctx context.Context, userID, persona, ticker string, quantity int, price float64) error {
	return s.Append(ctx, core.ActionEvent{
		UserID: userID, Persona: persona, Action: core.ActionBuy,
		Ticker: ticker, Quantity: quantity, Price: price,
	})
}

// LogSell 记录卖出（数量与成交价）。
func (s *ActionStore) LogSell(ctx context.Context, userID, persona, ticker string, quantity int, price float64) error {
	return s.Append(ctx, core.ActionEvent{
		UserID: userID, Persona: persona, Action: core.ActionSell,
		Ticker: ticker, Quantity: quantity, Price: price,
	})
}
