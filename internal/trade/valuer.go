package trade

import (
	"NewWorld/internal/game/model"
	"NewWorld/internal/game/spec"
)

// NoTrade 是估价方拒绝成交的返回值。
const NoTrade = -1

// Valuer 是聚落所属 AI 的估价口径：对客户端报来的金额给出修订价。
type Valuer interface {
	// BuyPrice 对玩家向聚落买货估价：返回聚落要价，NoTrade 表示不卖。
	BuyPrice(settlement *model.IndianSettlement, goods *model.Goods, proposed int) int
	// SellPrice 对玩家向聚落卖货估价：返回聚落出价，NoTrade 表示不收。
	SellPrice(settlement *model.IndianSettlement, goods *model.Goods, proposed int) int
}

// HagglingValuer 用规则数据里的基准价还价：买货要双倍基准价，
// 报够了按报价成交；卖货出基准收购价，报低了按玩家报价收。
type HagglingValuer struct {
	rules *spec.Specification
}

func NewHagglingValuer(rules *spec.Specification) *HagglingValuer {
	return &HagglingValuer{rules: rules}
}

func (v *HagglingValuer) BuyPrice(settlement *model.IndianSettlement, goods *model.Goods, proposed int) int {
	gt := v.rules.GoodsType(goods.Type)
	if gt == nil || goods.Amount <= 0 {
		return NoTrade
	}
	ask := gt.InitialPrice * goods.Amount * 2
	if proposed >= ask {
		return proposed
	}
	return ask
}

func (v *HagglingValuer) SellPrice(settlement *model.IndianSettlement, goods *model.Goods, proposed int) int {
	gt := v.rules.GoodsType(goods.Type)
	if gt == nil || goods.Amount <= 0 {
		return NoTrade
	}
	bid := gt.PaidForSale * goods.Amount
	if proposed > 0 && proposed <= bid {
		return proposed
	}
	return bid
}
