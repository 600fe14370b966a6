package diplomacy

import (
	"sync"

	"NewWorld/internal/game/model"
)

// pairKey 对双方 id 排序后拼键，保证谁发起都落到同一个会话上。
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Store 是进程级的谈判桌：每对玩家最多一轮进行中的谈判。
// 版本号随每次重发递增，落后于当前版本的重发被拒收。
type Store struct {
	mu     sync.Mutex
	tables map[string]*model.DiplomaticTrade
}

func NewStore() *Store {
	return &Store{tables: make(map[string]*model.DiplomaticTrade)}
}

func (s *Store) Get(a, b string) (*model.DiplomaticTrade, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[pairKey(a, b)]
	return t, ok
}

func (s *Store) Put(t *model.DiplomaticTrade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[pairKey(t.SenderID(), t.RecipientID())] = t
}

func (s *Store) Remove(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, pairKey(a, b))
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables)
}
