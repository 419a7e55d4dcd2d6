package core

import "time"

// ActionType 是用户行为类型，训练监督信号的唯一来源。
type ActionType string

const (
	ActionView       ActionType = "view"        // 推荐列表曝光
	ActionClick      ActionType = "click"       // 点击进入详情
	ActionDetailView ActionType = "detail_view" // 详情页停留
	ActionBuy        ActionType = "buy"         // 买入
	ActionSell       ActionType = "sell"        // 卖出
)

// ActionEvent 是一条追加写入的用户行为事件。
// 由外围应用在用户交互时写入，之后不再修改。
type ActionEvent struct {
	UserID     string     `json:"user_id"`
	Persona    string     `json:"persona"`
	Action     ActionType `json:"action_type"`
	Ticker     string     `json:"stock_ticker"`
	ThemeID    string     `json:"theme_id,omitempty"`
	ThemeTitle string     `json:"theme_title,omitempty"`
	Position   int        `json:"rank_position,omitempty"`
	Quantity   int        `json:"quantity,omitempty"`
	Price      float64    `json:"price,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// SessionKey 返回训练分组用的会话键：user_id + theme_id（缺省 "default"）。
// 一个会话构成 learning-to-rank 的一个 query group。
func (e ActionEvent) SessionKey() string {
	theme := e.ThemeID
	if theme == "" {
		theme = "default"
	}
	return e.UserID + "_" + theme
}
