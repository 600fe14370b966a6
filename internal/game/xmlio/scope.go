package xmlio

// Identified 是可被 id 引用的游戏对象的最小约束。
type Identified interface {
	ID() string
}

// ScopeKind 区分序列化的受众。
type ScopeKind int

const (
	// ScopeClient 面向某个客户端投影，必须携带目标玩家。
	ScopeClient ScopeKind = iota
	// ScopeServer 面向权威服务器，全量可见。
	ScopeServer
	// ScopeSave 面向存档，全量可见。
	ScopeSave
)

// WriteScope 是写入器携带的可见性判别：CLIENT(player) / SERVER / SAVE。
type WriteScope struct {
	kind   ScopeKind
	player Identified
}

func ClientScope(player Identified) WriteScope {
	return WriteScope{kind: ScopeClient, player: player}
}

func ServerScope() WriteScope {
	return WriteScope{kind: ScopeServer}
}

func SaveScope() WriteScope {
	return WriteScope{kind: ScopeSave}
}

func (s WriteScope) Kind() ScopeKind {
	return s.kind
}

// Client 返回 CLIENT scope 的目标玩家（其余 scope 为 nil）。
func (s WriteScope) Client() Identified {
	if s.kind != ScopeClient {
		return nil
	}
	return s.player
}

func (s WriteScope) ValidForSave() bool {
	return s.kind == ScopeSave
}

// ValidFor 判断 scope 的目标玩家是否就是 p。
func (s WriteScope) ValidFor(p Identified) bool {
	if s.kind != ScopeClient || s.player == nil || p == nil {
		return false
	}
	return s.player.ID() == p.ID()
}

// SeesAllOf 是域对象序列化用的可见性谓词：
// SAVE/SERVER 全量可见；CLIENT 仅对 scope 目标玩家本人全量可见。
func (s WriteScope) SeesAllOf(p Identified) bool {
	switch s.kind {
	case ScopeSave, ScopeServer:
		return true
	default:
		return s.ValidFor(p)
	}
}
