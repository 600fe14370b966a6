package model

import (
	"fmt"

	"NewWorld/internal/game/xmlio"
)

// TradeStatus 是谈判状态。propose 之后只能走向 accept 或 reject。
type TradeStatus int

const (
	TradePropose TradeStatus = iota
	TradeAccept
	TradeReject
)

var tradeStatusNames = map[TradeStatus]string{
	TradePropose: "propose",
	TradeAccept:  "accept",
	TradeReject:  "reject",
}

func (s TradeStatus) String() string {
	if name, ok := tradeStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

func ParseTradeStatus(raw string) (TradeStatus, error) {
	for s, name := range tradeStatusNames {
		if name == raw {
			return s, nil
		}
	}
	return TradePropose, fmt.Errorf("unknown trade status %q", raw)
}

// TradeItem 是谈判桌上的一项筹码。五种变体共享来源与受让方。
type TradeItem interface {
	SourceID() string
	DestinationID() string
	// Unique 为真的筹码在同一笔交易里最多出现一次，新加的顶掉旧的。
	Unique() bool
	Valid(g *Game) bool

	tag() string
	writePayload(w *xmlio.Writer) error
}

type baseTradeItem struct {
	sourceID      string
	destinationID string
}

func (b baseTradeItem) SourceID() string      { return b.sourceID }
func (b baseTradeItem) DestinationID() string { return b.destinationID }
func (b baseTradeItem) Unique() bool          { return false }

// GoldTradeItem 是一笔金币。
type GoldTradeItem struct {
	baseTradeItem
	amount int
}

func NewGoldTradeItem(sourceID, destinationID string, amount int) *GoldTradeItem {
	return &GoldTradeItem{
		baseTradeItem: baseTradeItem{sourceID: sourceID, destinationID: destinationID},
		amount:        amount,
	}
}

func (t *GoldTradeItem) Amount() int { return t.amount }

func (t *GoldTradeItem) Valid(g *Game) bool {
	return t.amount >= 0
}

func (t *GoldTradeItem) tag() string { return "goldTradeItem" }

func (t *GoldTradeItem) writePayload(w *xmlio.Writer) error {
	return w.WriteIntAttribute("gold", t.amount)
}

// GoodsTradeItem 是一批货物。
type GoodsTradeItem struct {
	baseTradeItem
	goodsType string
	amount    int
}

func NewGoodsTradeItem(sourceID, destinationID, goodsType string, amount int) *GoodsTradeItem {
	return &GoodsTradeItem{
		baseTradeItem: baseTradeItem{sourceID: sourceID, destinationID: destinationID},
		goodsType:     goodsType,
		amount:        amount,
	}
}

func (t *GoodsTradeItem) GoodsType() string { return t.goodsType }
func (t *GoodsTradeItem) Amount() int       { return t.amount }

func (t *GoodsTradeItem) Valid(g *Game) bool {
	return t.amount > 0 && g.Spec().GoodsType(t.goodsType) != nil
}

func (t *GoodsTradeItem) tag() string { return "goodsTradeItem" }

func (t *GoodsTradeItem) writePayload(w *xmlio.Writer) error {
	if err := w.WriteAttribute("goodsType", t.goodsType); err != nil {
		return err
	}
	return w.WriteIntAttribute("amount", t.amount)
}

// ColonyTradeItem 是一座整体移交的殖民地。
type ColonyTradeItem struct {
	baseTradeItem
	colonyID string
}

func NewColonyTradeItem(sourceID, destinationID, colonyID string) *ColonyTradeItem {
	return &ColonyTradeItem{
		baseTradeItem: baseTradeItem{sourceID: sourceID, destinationID: destinationID},
		colonyID:      colonyID,
	}
}

func (t *ColonyTradeItem) ColonyID() string { return t.colonyID }

func (t *ColonyTradeItem) Valid(g *Game) bool {
	c, ok := g.Lookup(t.colonyID).(*Colony)
	return ok && c.Owner() != nil && c.Owner().ID() == t.sourceID
}

func (t *ColonyTradeItem) tag() string { return "colonyTradeItem" }

func (t *ColonyTradeItem) writePayload(w *xmlio.Writer) error {
	return w.WriteAttribute("colony", t.colonyID)
}

// UnitTradeItem 是一个移交的单位。
type UnitTradeItem struct {
	baseTradeItem
	unitID string
}

func NewUnitTradeItem(sourceID, destinationID, unitID string) *UnitTradeItem {
	return &UnitTradeItem{
		baseTradeItem: baseTradeItem{sourceID: sourceID, destinationID: destinationID},
		unitID:        unitID,
	}
}

func (t *UnitTradeItem) UnitID() string { return t.unitID }

func (t *UnitTradeItem) Valid(g *Game) bool {
	u, ok := g.Lookup(t.unitID).(*Unit)
	return ok && !u.Disposed() && u.Owner() != nil && u.Owner().ID() == t.sourceID
}

func (t *UnitTradeItem) tag() string { return "unitTradeItem" }

func (t *UnitTradeItem) writePayload(w *xmlio.Writer) error {
	return w.WriteAttribute("unit", t.unitID)
}

// StanceTradeItem 是对外交立场的约定。一笔交易里最多一项。
type StanceTradeItem struct {
	baseTradeItem
	stance Stance
}

func NewStanceTradeItem(sourceID, destinationID string, stance Stance) *StanceTradeItem {
	return &StanceTradeItem{
		baseTradeItem: baseTradeItem{sourceID: sourceID, destinationID: destinationID},
		stance:        stance,
	}
}

func (t *StanceTradeItem) Stance() Stance { return t.stance }
func (t *StanceTradeItem) Unique() bool   { return true }

func (t *StanceTradeItem) Valid(g *Game) bool { return true }

func (t *StanceTradeItem) tag() string { return "stanceTradeItem" }

func (t *StanceTradeItem) writePayload(w *xmlio.Writer) error {
	return w.WriteEnumAttribute("stance", t.stance)
}

// DiplomaticTrade 是一轮谈判的全部内容。每次重发都要抬版本号，
// 处理方拒绝版本落后的重发。
type DiplomaticTrade struct {
	game        *Game
	senderID    string
	recipientID string
	status      TradeStatus
	version     int
	items       []TradeItem
}

func NewDiplomaticTrade(g *Game, senderID, recipientID string, items []TradeItem, version int) *DiplomaticTrade {
	t := &DiplomaticTrade{
		game:        g,
		senderID:    senderID,
		recipientID: recipientID,
		status:      TradePropose,
		version:     version,
	}
	for _, item := range items {
		t.Add(item)
	}
	return t
}

func (t *DiplomaticTrade) SenderID() string    { return t.senderID }
func (t *DiplomaticTrade) RecipientID() string { return t.recipientID }
func (t *DiplomaticTrade) Status() TradeStatus { return t.status }
func (t *DiplomaticTrade) Version() int        { return t.version }
func (t *DiplomaticTrade) Items() []TradeItem  { return t.items }

func (t *DiplomaticTrade) IncrementVersion() { t.version++ }

// SetStatus 推进谈判状态；只允许从 propose 走向终态。
func (t *DiplomaticTrade) SetStatus(s TradeStatus) error {
	if t.status != TradePropose {
		return ErrInvalidState.WithData("reason", "trade already settled").
			WithData("status", t.status.String())
	}
	if s == TradePropose {
		return nil
	}
	t.status = s
	return nil
}

// Add 把筹码摆上桌。独占类筹码先顶掉已有的同类项。
func (t *DiplomaticTrade) Add(item TradeItem) {
	if item == nil {
		return
	}
	if item.Unique() {
		for i, cur := range t.items {
			if cur.tag() == item.tag() {
				t.items = append(t.items[:i], t.items[i+1:]...)
				break
			}
		}
	}
	t.items = append(t.items, item)
}

func (t *DiplomaticTrade) Remove(item TradeItem) {
	for i, cur := range t.items {
		if cur == item {
			t.RemoveAt(i)
			return
		}
	}
}

func (t *DiplomaticTrade) RemoveAt(i int) {
	if i < 0 || i >= len(t.items) {
		return
	}
	t.items = append(t.items[:i], t.items[i+1:]...)
}

// ItemsGivenBy 返回由某玩家出让的筹码。
func (t *DiplomaticTrade) ItemsGivenBy(playerID string) []TradeItem {
	var out []TradeItem
	for _, item := range t.items {
		if item.SourceID() == playerID {
			out = append(out, item)
		}
	}
	return out
}

// Stance 返回桌上的立场约定（若有）。
func (t *DiplomaticTrade) Stance() (Stance, bool) {
	for _, item := range t.items {
		if s, ok := item.(*StanceTradeItem); ok {
			return s.stance, true
		}
	}
	return StancePeace, false
}

// GoldGivenBy 统计某玩家出让的金币总额。
func (t *DiplomaticTrade) GoldGivenBy(playerID string) int {
	sum := 0
	for _, item := range t.items {
		if g, ok := item.(*GoldTradeItem); ok && g.sourceID == playerID {
			sum += g.amount
		}
	}
	return sum
}

// GoodsGivenBy 返回某玩家出让的货物筹码。
func (t *DiplomaticTrade) GoodsGivenBy(playerID string) []*GoodsTradeItem {
	var out []*GoodsTradeItem
	for _, item := range t.items {
		if g, ok := item.(*GoodsTradeItem); ok && g.sourceID == playerID {
			out = append(out, g)
		}
	}
	return out
}

// ColoniesGivenBy 返回某玩家出让的殖民地筹码。
func (t *DiplomaticTrade) ColoniesGivenBy(playerID string) []*ColonyTradeItem {
	var out []*ColonyTradeItem
	for _, item := range t.items {
		if c, ok := item.(*ColonyTradeItem); ok && c.sourceID == playerID {
			out = append(out, c)
		}
	}
	return out
}

// UnitsGivenBy 返回某玩家出让的单位筹码。
func (t *DiplomaticTrade) UnitsGivenBy(playerID string) []*UnitTradeItem {
	var out []*UnitTradeItem
	for _, item := range t.items {
		if u, ok := item.(*UnitTradeItem); ok && u.sourceID == playerID {
			out = append(out, u)
		}
	}
	return out
}

// WriteTo 序列化整轮谈判：属性加按插入顺序排列的筹码子元素。
func (t *DiplomaticTrade) WriteTo(w *xmlio.Writer) error {
	if err := w.WriteStartElement("diplomaticTrade"); err != nil {
		return err
	}
	if err := w.WriteAttribute("sender", t.senderID); err != nil {
		return err
	}
	if err := w.WriteAttribute("recipient", t.recipientID); err != nil {
		return err
	}
	if err := w.WriteEnumAttribute("status", t.status); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("version", t.version); err != nil {
		return err
	}
	for _, item := range t.items {
		if err := w.WriteStartElement(item.tag()); err != nil {
			return err
		}
		if err := w.WriteAttribute("source", item.SourceID()); err != nil {
			return err
		}
		if err := w.WriteAttribute("destination", item.DestinationID()); err != nil {
			return err
		}
		if err := item.writePayload(w); err != nil {
			return err
		}
		if err := w.WriteEndElement(); err != nil {
			return err
		}
	}
	return w.WriteEndElement()
}

// ReadFrom 从当前元素重建谈判内容。筹码列表先清空再重读。
func (t *DiplomaticTrade) ReadFrom(r *xmlio.Reader) error {
	t.senderID = r.Attr("sender", "")
	t.recipientID = r.Attr("recipient", "")
	if s, err := ParseTradeStatus(r.Attr("status", "propose")); err == nil {
		t.status = s
	}
	t.version = r.IntAttr("version", 0)
	t.items = nil
	for {
		tag, ok, err := r.NextChild()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		base := baseTradeItem{
			sourceID:      r.Attr("source", ""),
			destinationID: r.Attr("destination", ""),
		}
		switch tag {
		case "goldTradeItem":
			t.items = append(t.items, &GoldTradeItem{
				baseTradeItem: base,
				amount:        r.IntAttr("gold", 0),
			})
		case "goodsTradeItem":
			t.items = append(t.items, &GoodsTradeItem{
				baseTradeItem: base,
				goodsType:     r.Attr("goodsType", ""),
				amount:        r.IntAttr("amount", 0),
			})
		case "colonyTradeItem":
			t.items = append(t.items, &ColonyTradeItem{
				baseTradeItem: base,
				colonyID:      r.Attr("colony", ""),
			})
		case "unitTradeItem":
			t.items = append(t.items, &UnitTradeItem{
				baseTradeItem: base,
				unitID:        r.Attr("unit", ""),
			})
		case "stanceTradeItem":
			stance, err := ParseStance(r.Attr("stance", "peace"))
			if err != nil {
				stance = StancePeace
			}
			t.items = append(t.items, &StanceTradeItem{
				baseTradeItem: base,
				stance:        stance,
			})
		}
		if err := r.Skip(); err != nil {
			return err
		}
	}
}
