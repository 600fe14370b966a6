package session

import (
	"NewWorld/internal/shared/transport/ws"
	"sync"
)

// Manager 维护玩家与连接的双向绑定。
type Manager interface {
	Bind(playerID string, token string, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	UnbindPlayer(playerID string)
	GetConn(playerID string) (ws.WSConn, bool)
	GetPlayerID(conn ws.WSConn) (string, bool)
}

type SessMgr struct {
	sync.RWMutex
	player2token map[string]string
	player2conn  map[string]ws.WSConn
	conn2player  map[ws.WSConn]string
	watched      map[ws.WSConn]struct{}
}

func NewSessMgr() Manager {
	return &SessMgr{
		player2token: make(map[string]string),
		player2conn:  make(map[string]ws.WSConn),
		conn2player:  make(map[ws.WSConn]string),
		watched:      make(map[ws.WSConn]struct{}),
	}
}

func (s *SessMgr) Bind(playerID string, token string, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()
	defer s.Unlock()

	// 为每条连接只启动一次 watcher：连接关闭后自动解绑，避免 conn2player 逐步膨胀
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	oldConn := s.player2conn[playerID]
	// 踢掉原来的那个
	if oldConn != nil && oldConn != conn {
		oldConn.Push("robLogin", nil)
		oldConn.Close()
	}
	s.player2conn[playerID] = conn
	s.conn2player[conn] = playerID
	s.player2token[playerID] = token
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	playerID := s.conn2player[conn]
	delete(s.watched, conn)
	delete(s.conn2player, conn)
	if s.player2conn[playerID] == conn {
		delete(s.player2conn, playerID)
	}
}

func (s *SessMgr) UnbindPlayer(playerID string) {
	s.Lock()
	defer s.Unlock()
	conn, ok := s.player2conn[playerID]
	if ok {
		delete(s.watched, conn)
		delete(s.conn2player, conn)
	}
	delete(s.player2conn, playerID)
}

func (s *SessMgr) GetConn(playerID string) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.player2conn[playerID]
	return conn, ok
}

func (s *SessMgr) GetPlayerID(conn ws.WSConn) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	playerID, ok := s.conn2player[conn]
	return playerID, ok
}
