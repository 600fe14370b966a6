package trade

import (
	"testing"

	"NewWorld/internal/shared/transport"
	"NewWorld/internal/shared/transport/ws"
	"NewWorld/modules/kit/logx"
)

func dispatch(t *testing.T, h *Handler, conn ws.WSConn, name string, msg any) *ws.WsMsgResp {
	t.Helper()
	r := ws.NewRouter(logx.NewZapLogger(nil))
	h.Register(r)
	req := &ws.WsMsgReq{
		Body: &ws.ReqBody{Seq: 7, Name: name, Msg: msg},
		Conn: conn,
	}
	resp := &ws.WsMsgResp{Body: &ws.RespBody{}}
	r.Dispatch(req, resp)
	return resp
}

func TestOpen_开启会话并给出方向标志(t *testing.T) {
	f := newTradeFixture(t)
	conn := newFakeConn(f.unit.Owner().ID())

	resp := dispatch(t, f.handler, conn, "trade.open", OpenReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
	})
	if resp.Body.Code != transport.OK {
		t.Fatalf("code = %d, msg = %v", resp.Body.Code, resp.Body.Msg)
	}
	if resp.Body.Seq != 7 || resp.Body.Name != "trade.open" {
		t.Fatal("应答未回显 seq/name")
	}
	out, ok := resp.Body.Msg.(OpenResp)
	if !ok {
		t.Fatalf("应答类型不对: %T", resp.Body.Msg)
	}
	if !out.Flags.CanBuy || !out.Flags.CanSell || !out.Flags.HasSpaceLeft {
		t.Fatalf("方向标志不对: %+v", out.Flags)
	}
	if f.store.Len() != 1 {
		t.Fatalf("会话数 = %d", f.store.Len())
	}

	// 同一键上不能再开
	resp = dispatch(t, f.handler, conn, "trade.open", OpenReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
	})
	if resp.Body.Code != transport.StateInvalid {
		t.Fatalf("重复开启应拒绝, code = %d", resp.Body.Code)
	}
}

func TestBuyProposition_未开会话不动状态(t *testing.T) {
	f := newTradeFixture(t)
	conn := newFakeConn(f.unit.Owner().ID())

	resp := dispatch(t, f.handler, conn, "trade.buyProposition", PropositionReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
		Gold:         100,
		Goods:        GoodsMsg{Type: "model.goods.tobacco", Amount: 10},
	})
	if resp.Body.Code != transport.StateInvalid {
		t.Fatalf("code = %d", resp.Body.Code)
	}
	if f.store.Len() != 0 {
		t.Fatal("失败的报价不应创建会话")
	}
}

func TestBuyProposition_还价与成交(t *testing.T) {
	f := newTradeFixture(t)
	conn := newFakeConn(f.unit.Owner().ID())
	dispatch(t, f.handler, conn, "trade.open", OpenReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
	})

	// 烟草基准价 3，10 件要价 3*10*2 = 60；报 10 被还价
	resp := dispatch(t, f.handler, conn, "trade.buyProposition", PropositionReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
		Gold:         10,
		Goods:        GoodsMsg{Type: "model.goods.tobacco", Amount: 10},
	})
	if resp.Body.Code != transport.OK {
		t.Fatalf("code = %d, msg = %v", resp.Body.Code, resp.Body.Msg)
	}
	out := resp.Body.Msg.(PropositionResp)
	if out.Gold != 60 {
		t.Fatalf("还价 = %d, 期望 60", out.Gold)
	}

	// 报够了按报价成交
	resp = dispatch(t, f.handler, conn, "trade.buyProposition", PropositionReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
		Gold:         75,
		Goods:        GoodsMsg{Type: "model.goods.tobacco", Amount: 10},
	})
	if out := resp.Body.Msg.(PropositionResp); out.Gold != 75 {
		t.Fatalf("足额报价应原样成交, got %d", out.Gold)
	}

	// 不在出售清单里的货物
	resp = dispatch(t, f.handler, conn, "trade.buyProposition", PropositionReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
		Gold:         100,
		Goods:        GoodsMsg{Type: "model.goods.furs", Amount: 5},
	})
	if resp.Body.Code != transport.StateInvalid {
		t.Fatalf("未出售货物应拒绝, code = %d", resp.Body.Code)
	}
}

func TestSellProposition_出价与拒收(t *testing.T) {
	f := newTradeFixture(t)
	conn := newFakeConn(f.unit.Owner().ID())
	dispatch(t, f.handler, conn, "trade.open", OpenReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
	})

	// 毛皮收购价 3，5 件出价 15；报 0 表示请聚落开价
	resp := dispatch(t, f.handler, conn, "trade.sellProposition", PropositionReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
		Gold:         0,
		Goods:        GoodsMsg{Type: "model.goods.furs", Amount: 5},
	})
	if resp.Body.Code != transport.OK {
		t.Fatalf("code = %d, msg = %v", resp.Body.Code, resp.Body.Msg)
	}
	if out := resp.Body.Msg.(PropositionResp); out.Gold != 15 {
		t.Fatalf("出价 = %d, 期望 15", out.Gold)
	}

	// 数量非法直接拒收
	resp = dispatch(t, f.handler, conn, "trade.sellProposition", PropositionReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
		Gold:         10,
		Goods:        GoodsMsg{Type: "model.goods.furs", Amount: 0},
	})
	if resp.Body.Code != transport.TradeRefused {
		t.Fatalf("code = %d", resp.Body.Code)
	}
}

func TestResolve_身份与相邻校验(t *testing.T) {
	f := newTradeFixture(t)

	// 连接没绑玩家
	resp := dispatch(t, f.handler, newFakeConn(""), "trade.open", OpenReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
	})
	if resp.Body.Code != transport.SessionInvalid {
		t.Fatalf("code = %d", resp.Body.Code)
	}

	// 别人的单位
	resp = dispatch(t, f.handler, newFakeConn("p:tupi"), "trade.open", OpenReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
	})
	if resp.Body.Code != transport.ResolveFailed {
		t.Fatalf("code = %d", resp.Body.Code)
	}

	// 单位挪远了
	conn := newFakeConn(f.unit.Owner().ID())
	f.unit.SetTile(f.game.Map().Tile(0, 5))
	resp = dispatch(t, f.handler, conn, "trade.open", OpenReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
	})
	if resp.Body.Code != transport.StateInvalid {
		t.Fatalf("code = %d", resp.Body.Code)
	}
}

func TestClose_写回成交标志并移除会话(t *testing.T) {
	f := newTradeFixture(t)
	conn := newFakeConn(f.unit.Owner().ID())
	dispatch(t, f.handler, conn, "trade.open", OpenReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
	})

	resp := dispatch(t, f.handler, conn, "trade.close", CloseReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
		Agreement:    true,
	})
	if resp.Body.Code != transport.OK {
		t.Fatalf("code = %d, msg = %v", resp.Body.Code, resp.Body.Msg)
	}
	if f.store.Len() != 0 {
		t.Fatal("会话应被移除")
	}

	resp = dispatch(t, f.handler, conn, "trade.close", CloseReq{
		UnitID:       f.unit.ID(),
		SettlementID: f.settlement.ID(),
	})
	if resp.Body.Code != transport.StateInvalid {
		t.Fatalf("重复关闭应拒绝, code = %d", resp.Body.Code)
	}
}
