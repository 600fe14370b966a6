package trade

import (
	"context"
	"errors"

	"NewWorld/internal/game/model"
	"NewWorld/internal/shared/transport"
	"NewWorld/internal/shared/transport/ws"
	"NewWorld/modules/kit/logx"
)

// GoodsMsg 是消息里的货物载荷。
type GoodsMsg struct {
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}

type OpenReq struct {
	UnitID       string `json:"unitId"`
	SettlementID string `json:"settlementId"`
}

type OpenResp struct {
	UnitID       string `json:"unitId"`
	SettlementID string `json:"settlementId"`
	Flags        Flags  `json:"flags"`
}

// PropositionReq 是买卖报价共用的信封：单位、聚落、金额加一件货物。
type PropositionReq struct {
	UnitID       string   `json:"unitId"`
	SettlementID string   `json:"settlementId"`
	Gold         int      `json:"gold"`
	Goods        GoodsMsg `json:"goods"`
}

type PropositionResp struct {
	UnitID       string   `json:"unitId"`
	SettlementID string   `json:"settlementId"`
	Gold         int      `json:"gold"`
	Goods        GoodsMsg `json:"goods"`
}

type CloseReq struct {
	UnitID       string `json:"unitId"`
	SettlementID string `json:"settlementId"`
	Agreement    bool   `json:"agreement"`
}

type CloseResp struct {
	UnitID       string `json:"unitId"`
	SettlementID string `json:"settlementId"`
}

// Handler 承载 trade.* 路由：开启会话、买卖报价、结束会话。
// 每个消息在对局互斥锁内处理完整个流程。
type Handler struct {
	game   *model.Game
	store  *Store
	valuer Valuer
	log    logx.Logger
}

func NewHandler(game *model.Game, store *Store, valuer Valuer, log logx.Logger) *Handler {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	return &Handler{
		game:   game,
		store:  store,
		valuer: valuer,
		log:    log,
	}
}

func (h *Handler) Register(r *ws.Router) {
	g := r.Group("trade")
	g.Handle("open", h.open)
	g.Handle("buyProposition", h.buyProposition)
	g.Handle("sellProposition", h.sellProposition)
	g.Handle("close", h.close)
}

func (h *Handler) open(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	prepareResp(req, resp)
	var msg OpenReq
	if err := ws.BindJSON(req, &msg); err != nil {
		fail(ctx, resp, transport.InvalidParam, "参数有误")
		return
	}

	h.game.Lock()
	defer h.game.Unlock()

	unit, settlement, code, reason := h.resolve(req, msg.UnitID, msg.SettlementID)
	if code != transport.OK {
		fail(ctx, resp, code, reason)
		return
	}
	flags := Flags{
		CanBuy:       len(settlement.SellGoods()) > 0,
		CanSell:      true,
		HasSpaceLeft: true,
	}
	if _, err := h.store.Open(unit.ID(), settlement.ID(), flags); err != nil {
		fail(ctx, resp, codeFor(err), err.Error())
		return
	}
	ok(resp, OpenResp{UnitID: unit.ID(), SettlementID: settlement.ID(), Flags: flags})
}

// buyProposition 按既定步骤校验：归属单位、相邻聚落、已开会话、
// 方向允许、货物在售，最后交给聚落 AI 估价。任何一步失败都不动会话。
func (h *Handler) buyProposition(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	prepareResp(req, resp)
	var msg PropositionReq
	if err := ws.BindJSON(req, &msg); err != nil {
		fail(ctx, resp, transport.InvalidParam, "参数有误")
		return
	}

	h.game.Lock()
	defer h.game.Unlock()

	unit, settlement, code, reason := h.resolve(req, msg.UnitID, msg.SettlementID)
	if code != transport.OK {
		fail(ctx, resp, code, reason)
		return
	}
	sess, found := h.store.Get(unit.ID(), settlement.ID())
	if !found {
		fail(ctx, resp, transport.StateInvalid, "交易会话未开启")
		return
	}
	if !sess.CanBuy {
		fail(ctx, resp, transport.StateInvalid, "会话不允许买入")
		return
	}
	if !settlement.IsSelling(msg.Goods.Type) {
		fail(ctx, resp, transport.StateInvalid, "货物不在聚落出售清单")
		return
	}
	goods := &model.Goods{Type: msg.Goods.Type, Amount: msg.Goods.Amount}
	gold := h.valuer.BuyPrice(settlement, goods, msg.Gold)
	if gold == NoTrade {
		fail(ctx, resp, transport.TradeRefused, "聚落拒绝报价")
		return
	}
	ok(resp, PropositionResp{
		UnitID:       unit.ID(),
		SettlementID: settlement.ID(),
		Gold:         gold,
		Goods:        msg.Goods,
	})
}

func (h *Handler) sellProposition(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	prepareResp(req, resp)
	var msg PropositionReq
	if err := ws.BindJSON(req, &msg); err != nil {
		fail(ctx, resp, transport.InvalidParam, "参数有误")
		return
	}

	h.game.Lock()
	defer h.game.Unlock()

	unit, settlement, code, reason := h.resolve(req, msg.UnitID, msg.SettlementID)
	if code != transport.OK {
		fail(ctx, resp, code, reason)
		return
	}
	sess, found := h.store.Get(unit.ID(), settlement.ID())
	if !found {
		fail(ctx, resp, transport.StateInvalid, "交易会话未开启")
		return
	}
	if !sess.CanSell {
		fail(ctx, resp, transport.StateInvalid, "会话不允许卖出")
		return
	}
	goods := &model.Goods{Type: msg.Goods.Type, Amount: msg.Goods.Amount}
	gold := h.valuer.SellPrice(settlement, goods, msg.Gold)
	if gold == NoTrade {
		fail(ctx, resp, transport.TradeRefused, "聚落拒绝收货")
		return
	}
	ok(resp, PropositionResp{
		UnitID:       unit.ID(),
		SettlementID: settlement.ID(),
		Gold:         gold,
		Goods:        msg.Goods,
	})
}

func (h *Handler) close(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	prepareResp(req, resp)
	var msg CloseReq
	if err := ws.BindJSON(req, &msg); err != nil {
		fail(ctx, resp, transport.InvalidParam, "参数有误")
		return
	}

	h.game.Lock()
	defer h.game.Unlock()

	unit, settlement, code, reason := h.resolve(req, msg.UnitID, msg.SettlementID)
	if code != transport.OK {
		fail(ctx, resp, code, reason)
		return
	}
	sess, found := h.store.Get(unit.ID(), settlement.ID())
	if !found {
		fail(ctx, resp, transport.StateInvalid, "交易会话未开启")
		return
	}
	sess.Agreement = msg.Agreement
	h.store.Close(unit.ID(), settlement.ID())
	ok(resp, CloseResp{UnitID: unit.ID(), SettlementID: settlement.ID()})
}

// resolve 做 1~2 步公共校验：请求方己有单位 + 相邻的原住民聚落。
func (h *Handler) resolve(req *ws.WsMsgReq, unitID, settlementID string) (*model.Unit, *model.IndianSettlement, int, string) {
	playerID, _ := req.Conn.GetProperty(ws.ConnKeyPlayerID).(string)
	if playerID == "" {
		return nil, nil, transport.SessionInvalid, "连接未绑定玩家"
	}
	player := h.game.Player(playerID)
	if player == nil {
		return nil, nil, transport.SessionInvalid, "玩家不在对局中"
	}
	unit := player.Unit(unitID)
	if unit == nil {
		return nil, nil, transport.ResolveFailed, "单位不存在或不属于请求方"
	}
	settlement, okType := h.game.Lookup(settlementID).(*model.IndianSettlement)
	if !okType {
		return nil, nil, transport.ResolveFailed, "聚落不存在"
	}
	if !model.Adjacent(unit.Tile(), settlement.Tile()) {
		return nil, nil, transport.StateInvalid, "单位不在聚落旁"
	}
	return unit, settlement, transport.OK, ""
}

func prepareResp(req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	resp.Body.Seq = req.Body.Seq
	resp.Body.Name = req.Body.Name
}

func ok(resp *ws.WsMsgResp, msg any) {
	resp.Body.Code = transport.OK
	resp.Body.Msg = msg
}

func fail(ctx context.Context, resp *ws.WsMsgResp, code int, reason string) {
	resp.Body.Code = code
	resp.Body.Msg = reason
	transport.SetErrorReason(ctx, reason)
}

func codeFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidState):
		return transport.StateInvalid
	case errors.Is(err, model.ErrResolveFailed):
		return transport.ResolveFailed
	}
	return transport.SystemError
}
