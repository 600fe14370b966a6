package trade

import (
	"testing"

	"NewWorld/internal/game/model"
	"NewWorld/internal/game/options"
	"NewWorld/internal/game/spec"
	"NewWorld/modules/kit/logx"
)

const testRulesYAML = `
difficulty: model.difficulty.medium
difficultyLevels:
  - id: model.difficulty.medium
    arrearsFactor: 2
    foundingFatherFactor: 7
    crossesIncrement: 8
    landPriceFactor: 3
goodsTypes:
  - id: model.goods.tobacco
    storable: true
    initialPrice: 3
    paidForSale: 2
  - id: model.goods.furs
    storable: true
    initialPrice: 4
    paidForSale: 3
unitTypes:
  - id: model.unit.wagonTrain
    scoreValue: 0
    moves: 2
    lineOfSight: 1
nationTypes:
  - id: model.nationType.trade
    european: true
  - id: model.nationType.tupi
    european: false
nations:
  - id: model.nation.dutch
    nationType: model.nationType.trade
    rulerName: Willem
  - id: model.nation.tupi
    nationType: model.nationType.tupi
`

type tradeFixture struct {
	game       *model.Game
	store      *Store
	handler    *Handler
	unit       *model.Unit
	settlement *model.IndianSettlement
}

// newTradeFixture 搭一局最小对局：荷兰商队停在图皮聚落旁。
func newTradeFixture(t *testing.T) *tradeFixture {
	t.Helper()
	rules, err := spec.Load([]byte(testRulesYAML))
	if err != nil {
		t.Fatalf("加载测试规则失败: %v", err)
	}
	log := logx.NewZapLogger(nil)
	g := model.NewGame(rules, options.New(log), log)
	g.SetMap(model.NewGameMap(6, 6))

	dutch, err := g.AddPlayer("p:dutch", "dutch", "model.nation.dutch")
	if err != nil {
		t.Fatalf("加入玩家失败: %v", err)
	}
	tupi, err := g.AddPlayer("p:tupi", "tupi", "model.nation.tupi")
	if err != nil {
		t.Fatalf("加入玩家失败: %v", err)
	}

	unit, err := g.CreateUnit(dutch, "model.unit.wagonTrain", g.Map().Tile(2, 2))
	if err != nil {
		t.Fatalf("造单位失败: %v", err)
	}
	settlement, err := model.NewIndianSettlement(tupi, "Tupinambá", g.Map().Tile(3, 2))
	if err != nil {
		t.Fatalf("建聚落失败: %v", err)
	}
	settlement.SetSellGoods([]*model.Goods{{Type: "model.goods.tobacco", Amount: 80}})

	store := NewStore(log)
	g.SetController(NewController(store, log))
	h := NewHandler(g, store, NewHagglingValuer(rules), log)
	return &tradeFixture{game: g, store: store, handler: h, unit: unit, settlement: settlement}
}

// fakeConn 实现 ws.WSConn，只保留属性表和推送记录。
type fakeConn struct {
	props  map[string]any
	pushed []string
	done   chan struct{}
}

func newFakeConn(playerID string) *fakeConn {
	c := &fakeConn{
		props: make(map[string]any),
		done:  make(chan struct{}),
	}
	if playerID != "" {
		c.props["playerId"] = playerID
	}
	return c
}

func (c *fakeConn) SetProperty(key string, value any) { c.props[key] = value }
func (c *fakeConn) GetProperty(key string) any { return c.props[key] }
func (c *fakeConn) RemoveProperty(key string) { delete(c.props, key) }
func (c *fakeConn) Addr() string { return "fake" }
func (c *fakeConn) Push(name string, data any) { c.pushed = append(c.pushed, name) }
func (c *fakeConn) Close() { close(c.done) }
func (c *fakeConn) Done() <-chan struct{} { return c.done }
