package model

// MarketAccess 区分交易发生的场所。
type MarketAccess int

const (
	MarketEurope MarketAccess = iota
	MarketCustomHouse
)

// MarketData 是单一货物类型的行情与欠税状态。
type MarketData struct {
	goodsType         string
	costToBuy         int
	paidForSale       int
	arrears           int
	sales             int
	incomeBeforeTaxes int
	incomeAfterTaxes  int
}

func (d *MarketData) GoodsType() string { return d.goodsType }
func (d *MarketData) CostToBuy() int { return d.costToBuy }
func (d *MarketData) PaidForSale() int { return d.paidForSale }
func (d *MarketData) Arrears() int { return d.arrears }
func (d *MarketData) Sales() int { return d.sales }
func (d *MarketData) IncomeBeforeTaxes() int { return d.incomeBeforeTaxes }
func (d *MarketData) IncomeAfterTaxes() int { return d.incomeAfterTaxes }

func (d *MarketData) SetArrears(v int) {
	if v < 0 {
		v = 0
	}
	d.arrears = v
}

// RecordSale 记录一笔销售（税后入账）。
func (d *MarketData) RecordSale(amount, incomeBefore, incomeAfter int) {
	d.sales += amount
	d.incomeBeforeTaxes += incomeBefore
	d.incomeAfterTaxes += incomeAfter
}

// Market 是欧洲市场在玩家侧的视图。
type Market struct {
	owner *Player
	data  map[string]*MarketData
}

func newMarket(owner *Player) *Market {
	return &Market{
		owner: owner,
		data:  make(map[string]*MarketData),
	}
}

// Data 返回货物行情，按需用规则数据的初始价创建。
func (m *Market) Data(goodsType string) *MarketData {
	d, ok := m.data[goodsType]
	if ok {
		return d
	}
	d = &MarketData{goodsType: goodsType}
	if m.owner != nil {
		if gt := m.owner.game.Spec().GoodsType(goodsType); gt != nil {
			d.costToBuy = gt.InitialPrice
			d.paidForSale = gt.PaidForSale
		}
	}
	m.data[goodsType] = d
	return d
}

// Arrears 返回货物的欠税；未交易过的货物为 0。
func (m *Market) Arrears(goodsType string) int {
	if d, ok := m.data[goodsType]; ok {
		return d.arrears
	}
	return 0
}

// ResetAllArrears 清零全部欠税（开国元勋事件）。
func (m *Market) ResetAllArrears() {
	for _, d := range m.data {
		d.arrears = 0
	}
}

// MostValuableGoods 在一批货物里挑出按当前收购价最值钱的一批。
func (m *Market) MostValuableGoods(goods []*Goods) *Goods {
	var best *Goods
	bestValue := -1
	for _, g := range goods {
		if g == nil {
			continue
		}
		v := m.Data(g.Type).PaidForSale() * g.Amount
		if v > bestValue {
			best = g
			bestValue = v
		}
	}
	return best
}

// NewTurn 让行情向初始价回归。
func (m *Market) NewTurn() {
	if m.owner == nil {
		return
	}
	rules := m.owner.game.Spec()
	for goodsType, d := range m.data {
		gt := rules.GoodsType(goodsType)
		if gt == nil {
			continue
		}
		if d.costToBuy > gt.InitialPrice {
			d.costToBuy--
		} else if d.costToBuy < gt.InitialPrice {
			d.costToBuy++
		}
	}
}
