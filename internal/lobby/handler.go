package lobby

import (
	"context"
	"time"

	"go.uber.org/zap"

	"NewWorld/internal/game/model"
	"NewWorld/internal/score"
	"NewWorld/internal/shared/security"
	"NewWorld/internal/shared/session"
	"NewWorld/internal/shared/transport"
	"NewWorld/internal/shared/transport/ws"
	"NewWorld/modules/kit/logx"
)

type LoginReq struct {
	Token string `json:"token"`
}

type LoginResp struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	Turn     int    `json:"turn"`
}

type EndTurnResp struct {
	Turn    int  `json:"turn"`
	Started bool `json:"started"`
}

// TurnStartedMsg 在新回合开始时推给所有在线玩家。
type TurnStartedMsg struct {
	Turn int `json:"turn"`
}

const TurnStartedPush = "game.turnStarted"

type RetireResp struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

// Recorder 把退役玩家拍成名人堂快照。
type Recorder interface {
	RecordPlayer(ctx context.Context, p *model.Player, now time.Time) (*score.Record, error)
}

// Handler 承载 game.* 路由：凭 Token 入局、交回合、退役入榜。
type Handler struct {
	game     *model.Game
	sessMgr  session.Manager
	recorder Recorder
	log      logx.Logger
}

func NewHandler(game *model.Game, sessMgr session.Manager, recorder Recorder, log logx.Logger) *Handler {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	return &Handler{game: game, sessMgr: sessMgr, recorder: recorder, log: log}
}

func (h *Handler) Register(r *ws.Router) {
	g := r.Group("game")
	g.Handle("login", h.login)
	g.Handle("endTurn", h.endTurn)
	g.Handle("retire", h.retire)
}

// login 校验 Token 并把玩家绑到这条连接上；重复登录会顶掉旧连接。
func (h *Handler) login(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	prepareResp(req, resp)
	var msg LoginReq
	if err := ws.BindJSON(req, &msg); err != nil {
		fail(ctx, resp, transport.InvalidParam, "参数有误")
		return
	}
	_, claims, err := security.ParseToken(msg.Token)
	if err != nil {
		logx.ReportBizError(ctx, h.log, logx.NewBizLog("game login reject", "bad_token", err.Error()))
		fail(ctx, resp, transport.SessionInvalid, "Token 无效")
		return
	}

	h.game.Lock()
	defer h.game.Unlock()

	p := h.game.Player(claims.PlayerID)
	if p == nil {
		fail(ctx, resp, transport.ResolveFailed, "玩家不在对局中")
		return
	}
	req.Conn.SetProperty(ws.ConnKeyPlayerID, p.ID())
	h.sessMgr.Bind(p.ID(), msg.Token, req.Conn)
	h.log.Info("player login", zap.String("playerId", p.ID()), zap.String("addr", req.Conn.Addr()))

	resp.Body.Code = transport.OK
	resp.Body.Msg = LoginResp{PlayerID: p.ID(), Username: p.Username(), Turn: h.game.Turn()}
}

// endTurn 标记本家已交回合；全体人类玩家就绪后推进新回合并广播。
func (h *Handler) endTurn(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	prepareResp(req, resp)

	h.game.Lock()
	defer h.game.Unlock()

	playerID, _ := req.Conn.GetProperty(ws.ConnKeyPlayerID).(string)
	p := h.game.Player(playerID)
	if p == nil {
		fail(ctx, resp, transport.SessionInvalid, "连接未绑定玩家")
		return
	}
	p.SetReady(true)

	started := h.allHumansReady()
	if started {
		h.game.NewTurn()
		for _, other := range h.game.Players() {
			other.SetReady(false)
		}
		h.broadcastTurnStarted()
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = EndTurnResp{Turn: h.game.Turn(), Started: started}
}

// retire 玩家主动收官：先拍名人堂快照，成功后才离场。
func (h *Handler) retire(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	prepareResp(req, resp)

	h.game.Lock()
	defer h.game.Unlock()

	playerID, _ := req.Conn.GetProperty(ws.ConnKeyPlayerID).(string)
	p := h.game.Player(playerID)
	if p == nil {
		fail(ctx, resp, transport.SessionInvalid, "连接未绑定玩家")
		return
	}
	if p.Dead() {
		fail(ctx, resp, transport.StateInvalid, "玩家已离场")
		return
	}

	rec, err := h.recorder.RecordPlayer(ctx, p, time.Now())
	if err != nil {
		logx.ReportSysError(ctx, h.log, logx.NewSysLog("game retire tech error", err))
		fail(ctx, resp, transport.SystemError, "入榜失败")
		return
	}
	p.SetDead(true)
	h.log.Info("player retired",
		zap.String("playerId", p.ID()),
		zap.Int("score", rec.Score),
		zap.String("level", rec.Level))

	resp.Body.Code = transport.OK
	resp.Body.Msg = RetireResp{Score: rec.Score, Level: rec.Level}
}

func (h *Handler) allHumansReady() bool {
	for _, p := range h.game.Players() {
		if p.AI() || p.Dead() {
			continue
		}
		if !p.Ready() {
			return false
		}
	}
	return true
}

func (h *Handler) broadcastTurnStarted() {
	msg := TurnStartedMsg{Turn: h.game.Turn()}
	for _, p := range h.game.Players() {
		conn, ok := h.sessMgr.GetConn(p.ID())
		if !ok {
			continue
		}
		conn.Push(TurnStartedPush, msg)
	}
}

func prepareResp(req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	resp.Body.Seq = req.Body.Seq
	resp.Body.Name = req.Body.Name
}

func fail(ctx context.Context, resp *ws.WsMsgResp, code int, reason string) {
	resp.Body.Code = code
	resp.Body.Msg = reason
	transport.SetErrorReason(ctx, reason)
}
