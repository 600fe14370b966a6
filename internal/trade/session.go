package trade

import (
	"sync"

	"go.uber.org/zap"

	"NewWorld/internal/game/model"
	"NewWorld/modules/kit/logx"
)

// Flags 是一次交易会话的能力集。
type Flags struct {
	CanBuy       bool `json:"canBuy"`
	CanSell      bool `json:"canSell"`
	HasSpaceLeft bool `json:"hasSpaceLeft"`
	Agreement    bool `json:"agreement"`
	ActionTaken  bool `json:"actionTaken"`
}

// Session 是 (单位, 聚落) 之间一次进行中的交易。
type Session struct {
	UnitID       string
	SettlementID string
	Flags
}

func sessionKey(unitID, settlementID string) string {
	return unitID + "|" + settlementID
}

// Store 是进程级的会话表。同一 (单位, 聚落) 最多一个会话；
// 单位移动或被销毁时整体清退。
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	log      logx.Logger
}

func NewStore(log logx.Logger) *Store {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	return &Store{
		sessions: make(map[string]*Session),
		log:      log,
	}
}

// Open 开启一个会话；该键上已有会话时失败。
func (s *Store) Open(unitID, settlementID string, flags Flags) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(unitID, settlementID)
	if _, ok := s.sessions[key]; ok {
		return nil, model.ErrInvalidState.WithData("reason", "session already open").
			WithData("unitId", unitID).WithData("settlementId", settlementID)
	}
	sess := &Session{
		UnitID:       unitID,
		SettlementID: settlementID,
		Flags:        flags,
	}
	s.sessions[key] = sess
	return sess, nil
}

// Get 查询会话。
func (s *Store) Get(unitID, settlementID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey(unitID, settlementID)]
	return sess, ok
}

// Close 结束并移除会话。
func (s *Store) Close(unitID, settlementID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey(unitID, settlementID))
}

// PurgeUnit 清退某单位名下的全部会话。
func (s *Store) PurgeUnit(unitID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, sess := range s.sessions {
		if sess.UnitID == unitID {
			delete(s.sessions, key)
			s.log.Debug("trade session purged",
				zap.String("unitId", sess.UnitID),
				zap.String("settlementId", sess.SettlementID))
		}
	}
}

// Len 返回当前会话数（测试与指标用）。
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Controller 把模型回调接到会话表上：单位移动或销毁即清退会话。
type Controller struct {
	store *Store
	log   logx.Logger
}

func NewController(store *Store, log logx.Logger) *Controller {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	return &Controller{store: store, log: log}
}

func (c *Controller) StanceChanged(first, second *model.Player, old, now model.Stance) {
	c.log.Info("stance changed",
		zap.String("first", first.ID()),
		zap.String("second", second.ID()),
		zap.String("old", old.String()),
		zap.String("now", now.String()))
}

func (c *Controller) UnitMoved(u *model.Unit) {
	c.store.PurgeUnit(u.ID())
}

func (c *Controller) UnitDisposed(u *model.Unit) {
	c.store.PurgeUnit(u.ID())
}
