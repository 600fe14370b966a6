package model

// ModelMessage 是面向玩家的事件通知：本地化 key + 结构化参数。
// 失败和重要状态变化都以它的形式出现，从不向玩家暴露内部错误。
type ModelMessage struct {
	OwnerID  string
	SourceID string
	Key      string
	Params   map[string]string
}

func NewModelMessage(ownerID, sourceID, key string, params map[string]string) *ModelMessage {
	if params == nil {
		params = map[string]string{}
	}
	return &ModelMessage{
		OwnerID:  ownerID,
		SourceID: sourceID,
		Key:      key,
		Params:   params,
	}
}

// TradeRoute 是玩家定义的贸易航线：按序停靠的定居点 id。
type TradeRoute struct {
	id    string
	name  string
	stops []string
}

func NewTradeRoute(id, name string, stops []string) *TradeRoute {
	return &TradeRoute{id: id, name: name, stops: stops}
}

func (r *TradeRoute) ID() string      { return r.id }
func (r *TradeRoute) Name() string    { return r.name }
func (r *TradeRoute) Stops() []string { return r.stops }
