package diplomacy

import (
	"context"

	"go.uber.org/zap"

	"NewWorld/internal/game/model"
	"NewWorld/internal/shared/transport"
	"NewWorld/internal/shared/transport/ws"
	"NewWorld/modules/kit/logx"
)

// ItemMsg 是消息里的一项筹码。kind 决定哪些字段生效。
type ItemMsg struct {
	Kind        string `json:"kind"` // gold | goods | colony | unit | stance
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Gold        int    `json:"gold,omitempty"`
	GoodsType   string `json:"goodsType,omitempty"`
	Amount      int    `json:"amount,omitempty"`
	Colony      string `json:"colony,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Stance      string `json:"stance,omitempty"`
}

type ProposeReq struct {
	RecipientID string    `json:"recipientId"`
	Version     int       `json:"version"`
	Items       []ItemMsg `json:"items"`
}

type ProposeResp struct {
	RecipientID string `json:"recipientId"`
	Version     int    `json:"version"`
	Status      string `json:"status"`
}

type RespondReq struct {
	SenderID string `json:"senderId"`
	Version  int    `json:"version"`
	Accept   bool   `json:"accept"`
}

type RespondResp struct {
	SenderID string `json:"senderId"`
	Status   string `json:"status"`
}

// Handler 承载 diplomacy.* 路由：摆出谈判条件，接受或回绝。
type Handler struct {
	game  *model.Game
	store *Store
	log   logx.Logger
}

func NewHandler(game *model.Game, store *Store, log logx.Logger) *Handler {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	return &Handler{game: game, store: store, log: log}
}

func (h *Handler) Register(r *ws.Router) {
	g := r.Group("diplomacy")
	g.Handle("propose", h.propose)
	g.Handle("respond", h.respond)
}

// propose 开启或重发一轮谈判。重发必须抬版本号，
// 版本不高于桌上现有一轮的按过期重发拒收。
func (h *Handler) propose(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	prepareResp(req, resp)
	var msg ProposeReq
	if err := ws.BindJSON(req, &msg); err != nil {
		fail(ctx, resp, transport.InvalidParam, "参数有误")
		return
	}

	h.game.Lock()
	defer h.game.Unlock()

	sender, code, reason := h.caller(req)
	if sender == nil {
		fail(ctx, resp, code, reason)
		return
	}
	recipient := h.game.Player(msg.RecipientID)
	if recipient == nil || recipient == sender {
		fail(ctx, resp, transport.ResolveFailed, "受让方不存在")
		return
	}
	if !sender.HasContacted(recipient) {
		fail(ctx, resp, transport.StateInvalid, "尚未与对方接触")
		return
	}
	if cur, ok := h.store.Get(sender.ID(), recipient.ID()); ok && msg.Version <= cur.Version() {
		fail(ctx, resp, transport.StateInvalid, "过期的谈判重发")
		return
	}

	items := make([]model.TradeItem, 0, len(msg.Items))
	for _, im := range msg.Items {
		item, err := buildItem(sender.ID(), recipient.ID(), im)
		if err != "" {
			fail(ctx, resp, transport.InvalidParam, err)
			return
		}
		if !item.Valid(h.game) {
			fail(ctx, resp, transport.ResolveFailed, "筹码不成立")
			return
		}
		items = append(items, item)
	}

	trade := model.NewDiplomaticTrade(h.game, sender.ID(), recipient.ID(), items, msg.Version)
	h.store.Put(trade)
	h.log.Info("diplomatic trade proposed",
		zap.String("sender", sender.ID()),
		zap.String("recipient", recipient.ID()),
		zap.Int("version", msg.Version),
		zap.Int("items", len(items)))

	ok(resp, ProposeResp{
		RecipientID: recipient.ID(),
		Version:     trade.Version(),
		Status:      trade.Status().String(),
	})
}

// respond 由受让方接受或回绝。接受时逐项交割；
// 任何一项交割不成立就整轮回绝，不留半套。
func (h *Handler) respond(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	prepareResp(req, resp)
	var msg RespondReq
	if err := ws.BindJSON(req, &msg); err != nil {
		fail(ctx, resp, transport.InvalidParam, "参数有误")
		return
	}

	h.game.Lock()
	defer h.game.Unlock()

	recipient, code, reason := h.caller(req)
	if recipient == nil {
		fail(ctx, resp, code, reason)
		return
	}
	trade, found := h.store.Get(msg.SenderID, recipient.ID())
	if !found || trade.RecipientID() != recipient.ID() {
		fail(ctx, resp, transport.StateInvalid, "没有进行中的谈判")
		return
	}
	if msg.Version < trade.Version() {
		fail(ctx, resp, transport.StateInvalid, "过期的应答")
		return
	}

	if !msg.Accept {
		_ = trade.SetStatus(model.TradeReject)
		h.store.Remove(trade.SenderID(), trade.RecipientID())
		ok(resp, RespondResp{SenderID: trade.SenderID(), Status: trade.Status().String()})
		return
	}

	if failReason := h.settle(trade); failReason != "" {
		_ = trade.SetStatus(model.TradeReject)
		h.store.Remove(trade.SenderID(), trade.RecipientID())
		logx.ReportBizError(ctx, h.log, logx.NewBizLog("diplomacy respond reject", "settle_failed", failReason))
		fail(ctx, resp, transport.TradeRefused, failReason)
		return
	}
	_ = trade.SetStatus(model.TradeAccept)
	h.store.Remove(trade.SenderID(), trade.RecipientID())
	h.log.Info("diplomatic trade settled",
		zap.String("sender", trade.SenderID()),
		zap.String("recipient", trade.RecipientID()),
		zap.Int("version", trade.Version()))
	ok(resp, RespondResp{SenderID: trade.SenderID(), Status: trade.Status().String()})
}

// settle 交割全部筹码；先整体校验再落账。
func (h *Handler) settle(trade *model.DiplomaticTrade) string {
	for _, item := range trade.Items() {
		if !item.Valid(h.game) {
			return "筹码已不成立"
		}
	}
	for _, pid := range []string{trade.SenderID(), trade.RecipientID()} {
		giver := h.game.Player(pid)
		if giver == nil {
			return "交易方已离场"
		}
		if !giver.CheckGold(trade.GoldGivenBy(pid)) {
			return "金币不足"
		}
	}

	for _, item := range trade.Items() {
		src := h.game.Player(item.SourceID())
		dst := h.game.Player(item.DestinationID())
		if src == nil || dst == nil {
			return "交易方已离场"
		}
		switch it := item.(type) {
		case *model.GoldTradeItem:
			src.ModifyGold(-it.Amount())
			dst.ModifyGold(it.Amount())
		case *model.ColonyTradeItem:
			colony, _ := h.game.Lookup(it.ColonyID()).(*model.Colony)
			dst.AddSettlement(colony)
		case *model.UnitTradeItem:
			unit, _ := h.game.Lookup(it.UnitID()).(*model.Unit)
			unit.TransferTo(dst)
		case *model.GoodsTradeItem:
			// 货物在地图上随承运单位走，这里只记一条提货通知
			dst.AddMessage(model.NewModelMessage(dst.ID(), src.ID(),
				"model.diplomacy.goodsDelivered", map[string]string{
					"goods": it.GoodsType(),
				}))
		case *model.StanceTradeItem:
			if err := src.SetStance(dst, it.Stance()); err != nil {
				return "立场约定不可达成"
			}
		}
	}
	return ""
}

func buildItem(senderID, recipientID string, im ItemMsg) (model.TradeItem, string) {
	src, dst := senderID, recipientID
	if im.Source == recipientID {
		src, dst = recipientID, senderID
	}
	switch im.Kind {
	case "gold":
		return model.NewGoldTradeItem(src, dst, im.Gold), ""
	case "goods":
		return model.NewGoodsTradeItem(src, dst, im.GoodsType, im.Amount), ""
	case "colony":
		return model.NewColonyTradeItem(src, dst, im.Colony), ""
	case "unit":
		return model.NewUnitTradeItem(src, dst, im.Unit), ""
	case "stance":
		stance, err := model.ParseStance(im.Stance)
		if err != nil {
			return nil, "未知立场"
		}
		return model.NewStanceTradeItem(src, dst, stance), ""
	}
	return nil, "未知筹码类型"
}

func (h *Handler) caller(req *ws.WsMsgReq) (*model.Player, int, string) {
	playerID, _ := req.Conn.GetProperty(ws.ConnKeyPlayerID).(string)
	if playerID == "" {
		return nil, transport.SessionInvalid, "连接未绑定玩家"
	}
	p := h.game.Player(playerID)
	if p == nil {
		return nil, transport.SessionInvalid, "玩家不在对局中"
	}
	return p, transport.OK, ""
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
