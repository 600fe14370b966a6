package diplomacy

import (
	"testing"

	"NewWorld/internal/game/model"
	"NewWorld/internal/game/options"
	"NewWorld/internal/game/spec"
	"NewWorld/internal/shared/transport"
	"NewWorld/internal/shared/transport/ws"
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
unitTypes:
  - id: model.unit.freeColonist
    scoreValue: 2
    moves: 3
    lineOfSight: 1
nationTypes:
  - id: model.nationType.trade
    european: true
nations:
  - id: model.nation.dutch
    nationType: model.nationType.trade
    rulerName: Willem
  - id: model.nation.french
    nationType: model.nationType.trade
    rulerName: Louis
`

type diploFixture struct {
	game    *model.Game
	store   *Store
	handler *Handler
	dutch   *model.Player
	french  *model.Player
}

func newDiploFixture(t *testing.T) *diploFixture {
	t.Helper()
	rules, err := spec.Load([]byte(testRulesYAML))
	if err != nil {
		t.Fatalf("加载测试规则失败: %v", err)
	}
	log := logx.NewZapLogger(nil)
	g := model.NewGame(rules, options.New(log), log)
	g.SetMap(model.NewGameMap(4, 4))
	dutch, err := g.AddPlayer("p:dutch", "dutch", "model.nation.dutch")
	if err != nil {
		t.Fatalf("加入玩家失败: %v", err)
	}
	french, err := g.AddPlayer("p:french", "french", "model.nation.french")
	if err != nil {
		t.Fatalf("加入玩家失败: %v", err)
	}
	dutch.SetContacted(french)
	store := NewStore()
	return &diploFixture{
		game:    g,
		store:   store,
		handler: NewHandler(g, store, log),
		dutch:   dutch,
		french:  french,
	}
}

type fakeConn struct {
	props  map[string]any
	pushed []string
	done   chan struct{}
}

func newFakeConn(playerID string) *fakeConn {
	c := &fakeConn{props: make(map[string]any), done: make(chan struct{})}
	if playerID != "" {
		c.props[ws.ConnKeyPlayerID] = playerID
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

func dispatch(t *testing.T, h *Handler, conn ws.WSConn, name string, msg any) *ws.WsMsgResp {
	t.Helper()
	r := ws.NewRouter(logx.NewZapLogger(nil))
	h.Register(r)
	req := &ws.WsMsgReq{
		Body: &ws.ReqBody{Seq: 3, Name: name, Msg: msg},
		Conn: conn,
	}
	resp := &ws.WsMsgResp{Body: &ws.RespBody{}}
	r.Dispatch(req, resp)
	return resp
}

func TestPropose_过期版本拒收(t *testing.T) {
	f := newDiploFixture(t)
	conn := newFakeConn(f.dutch.ID())

	resp := dispatch(t, f.handler, conn, "diplomacy.propose", ProposeReq{
		RecipientID: f.french.ID(),
		Version:     2,
		Items:       []ItemMsg{{Kind: "gold", Gold: 100}},
	})
	if resp.Body.Code != transport.OK {
		t.Fatalf("code = %d, msg = %v", resp.Body.Code, resp.Body.Msg)
	}

	// 同版本与更低版本都算过期重发
	for _, version := range []int{2, 1} {
		resp = dispatch(t, f.handler, conn, "diplomacy.propose", ProposeReq{
			RecipientID: f.french.ID(),
			Version:     version,
			Items:       []ItemMsg{{Kind: "gold", Gold: 100}},
		})
		if resp.Body.Code != transport.StateInvalid {
			t.Fatalf("版本 %d 应拒收, code = %d", version, resp.Body.Code)
		}
	}

	// 抬了版本就是一次正常重发
	resp = dispatch(t, f.handler, conn, "diplomacy.propose", ProposeReq{
		RecipientID: f.french.ID(),
		Version:     3,
		Items:       []ItemMsg{{Kind: "gold", Gold: 50}},
	})
	if resp.Body.Code != transport.OK {
		t.Fatalf("code = %d, msg = %v", resp.Body.Code, resp.Body.Msg)
	}
	if f.store.Len() != 1 {
		t.Fatalf("桌上应只有一轮, got %d", f.store.Len())
	}
}

func TestPropose_未接触不可谈(t *testing.T) {
	f := newDiploFixture(t)
	g := f.game
	third, err := g.AddPlayer("p:third", "third", "model.nation.french")
	if err != nil {
		t.Fatalf("加入玩家失败: %v", err)
	}

	resp := dispatch(t, f.handler, newFakeConn(f.dutch.ID()), "diplomacy.propose", ProposeReq{
		RecipientID: third.ID(),
		Version:     1,
	})
	if resp.Body.Code != transport.StateInvalid {
		t.Fatalf("code = %d", resp.Body.Code)
	}
}

func TestRespond_接受后逐项交割(t *testing.T) {
	f := newDiploFixture(t)
	f.dutch.ModifyGold(300)
	unit, err := f.game.CreateUnit(f.french, "model.unit.freeColonist", f.game.Map().Tile(1, 1))
	if err != nil {
		t.Fatalf("造单位失败: %v", err)
	}

	// 荷兰出 200 金币换法国的单位并缔结同盟
	resp := dispatch(t, f.handler, newFakeConn(f.dutch.ID()), "diplomacy.propose", ProposeReq{
		RecipientID: f.french.ID(),
		Version:     1,
		Items: []ItemMsg{
			{Kind: "gold", Gold: 200},
			{Kind: "unit", Source: f.french.ID(), Unit: unit.ID()},
			{Kind: "stance", Stance: "alliance"},
		},
	})
	if resp.Body.Code != transport.OK {
		t.Fatalf("code = %d, msg = %v", resp.Body.Code, resp.Body.Msg)
	}

	resp = dispatch(t, f.handler, newFakeConn(f.french.ID()), "diplomacy.respond", RespondReq{
		SenderID: f.dutch.ID(),
		Version:  1,
		Accept:   true,
	})
	if resp.Body.Code != transport.OK {
		t.Fatalf("code = %d, msg = %v", resp.Body.Code, resp.Body.Msg)
	}
	out := resp.Body.Msg.(RespondResp)
	if out.Status != "accept" {
		t.Fatalf("status = %s", out.Status)
	}
	if f.dutch.Gold() != 100 || f.french.Gold() != 200 {
		t.Fatalf("金币交割不对: dutch=%d french=%d", f.dutch.Gold(), f.french.Gold())
	}
	if unit.Owner() != f.dutch {
		t.Fatal("单位未移交")
	}
	if f.dutch.Stance(f.french) != model.StanceAlliance || f.french.Stance(f.dutch) != model.StanceAlliance {
		t.Fatal("同盟立场未落账")
	}
	if f.store.Len() != 0 {
		t.Fatal("终态后谈判桌应清空")
	}
}

func TestRespond_金币不足整轮回绝(t *testing.T) {
	f := newDiploFixture(t)
	unit, _ := f.game.CreateUnit(f.french, "model.unit.freeColonist", f.game.Map().Tile(1, 1))

	dispatch(t, f.handler, newFakeConn(f.dutch.ID()), "diplomacy.propose", ProposeReq{
		RecipientID: f.french.ID(),
		Version:     1,
		Items: []ItemMsg{
			{Kind: "gold", Gold: 500},
			{Kind: "unit", Source: f.french.ID(), Unit: unit.ID()},
		},
	})

	resp := dispatch(t, f.handler, newFakeConn(f.french.ID()), "diplomacy.respond", RespondReq{
		SenderID: f.dutch.ID(),
		Version:  1,
		Accept:   true,
	})
	if resp.Body.Code != transport.TradeRefused {
		t.Fatalf("code = %d", resp.Body.Code)
	}
	if unit.Owner() != f.french {
		t.Fatal("回绝时不应有任何交割")
	}
	if f.store.Len() != 0 {
		t.Fatal("回绝后谈判桌应清空")
	}
}

func TestRespond_回绝与过期应答(t *testing.T) {
	f := newDiploFixture(t)
	dispatch(t, f.handler, newFakeConn(f.dutch.ID()), "diplomacy.propose", ProposeReq{
		RecipientID: f.french.ID(),
		Version:     2,
		Items:       []ItemMsg{{Kind: "gold", Gold: 10}},
	})

	// 针对版本 1 的应答已经过期
	resp := dispatch(t, f.handler, newFakeConn(f.french.ID()), "diplomacy.respond", RespondReq{
		SenderID: f.dutch.ID(),
		Version:  1,
		Accept:   true,
	})
	if resp.Body.Code != transport.StateInvalid {
		t.Fatalf("code = %d", resp.Body.Code)
	}

	resp = dispatch(t, f.handler, newFakeConn(f.french.ID()), "diplomacy.respond", RespondReq{
		SenderID: f.dutch.ID(),
		Version:  2,
		Accept:   false,
	})
	if resp.Body.Code != transport.OK {
		t.Fatalf("code = %d, msg = %v", resp.Body.Code, resp.Body.Msg)
	}
	if out := resp.Body.Msg.(RespondResp); out.Status != "reject" {
		t.Fatalf("status = %s", out.Status)
	}
	if f.store.Len() != 0 {
		t.Fatal("回绝后谈判桌应清空")
	}
}
