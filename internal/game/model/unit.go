package model

import (
	"fmt"

	"NewWorld/internal/game/spec"
)

// UnitState 是单位的行动状态。
type UnitState int

const (
	UnitActive UnitState = iota
	UnitFortified
	UnitSentry
)

var unitStateNames = map[UnitState]string{
	UnitActive:    "active",
	UnitFortified: "fortified",
	UnitSentry:    "sentry",
}

func (s UnitState) String() string {
	if name, ok := unitStateNames[s]; ok {
		return name
	}
	return "unknown"
}

func ParseUnitState(raw string) (UnitState, error) {
	for s, name := range unitStateNames {
		if name == raw {
			return s, nil
		}
	}
	return UnitActive, fmt.Errorf("unknown unit state %q", raw)
}

// Unit 归属于唯一的玩家，由 Game 登记。
type Unit struct {
	id       string
	owner    *Player
	unitType *spec.UnitType

	tile           *Tile
	inEurope       bool
	inWorkLocation bool

	movesLeft   int
	state       UnitState
	destination string
	disposed    bool
}

func (u *Unit) ID() string { return u.id }
func (u *Unit) Owner() *Player { return u.owner }
func (u *Unit) Type() *spec.UnitType { return u.unitType }
func (u *Unit) Tile() *Tile { return u.tile }
func (u *Unit) InEurope() bool { return u.inEurope }
func (u *Unit) InWorkLocation() bool { return u.inWorkLocation }
func (u *Unit) MovesLeft() int { return u.movesLeft }
func (u *Unit) State() UnitState { return u.state }
func (u *Unit) Destination() string { return u.destination }
func (u *Unit) Disposed() bool { return u.disposed }

func (u *Unit) Naval() bool {
	return u.unitType != nil && u.unitType.Naval
}

func (u *Unit) LineOfSight() int {
	if u.unitType == nil || u.unitType.LineOfSight <= 0 {
		return 1
	}
	return u.unitType.LineOfSight
}

func (u *Unit) SetState(s UnitState) {
	u.state = s
}

func (u *Unit) SetDestination(dest string) {
	u.destination = dest
}

func (u *Unit) SetMovesLeft(n int) {
	if n < 0 {
		n = 0
	}
	u.movesLeft = n
}

func (u *Unit) SetInWorkLocation(in bool) {
	u.inWorkLocation = in
}

// SetTile 移动单位；旧观察范围作废，交易会话由控制器按约定清理。
func (u *Unit) SetTile(t *Tile) {
	u.tile = t
	u.inEurope = false
	if u.owner != nil {
		u.owner.InvalidateCanSeeTiles()
		u.owner.game.controller.UnitMoved(u)
	}
}

// SetInEurope 把单位转移到欧洲港口。
func (u *Unit) SetInEurope() {
	u.tile = nil
	u.inEurope = true
	if u.owner != nil {
		u.owner.InvalidateCanSeeTiles()
	}
}

// SetType 整体替换兵种（开国元勋升级用）。
func (u *Unit) SetType(t *spec.UnitType) {
	u.unitType = t
}

// TransferTo 把单位移交给另一名玩家（外交交割用）。
func (u *Unit) TransferTo(p *Player) {
	if p == nil || u.owner == p || u.disposed {
		return
	}
	if u.owner != nil {
		u.owner.removeUnit(u)
		u.owner.InvalidateCanSeeTiles()
	}
	u.owner = p
	p.addUnit(u)
}

// NewTurn 恢复行动力。
func (u *Unit) NewTurn() {
	if u.unitType != nil {
		u.movesLeft = u.unitType.Moves
	}
}

// Dispose 把单位移出游戏。
func (u *Unit) Dispose() {
	if u.disposed {
		return
	}
	u.disposed = true
	u.tile = nil
	if u.owner != nil {
		u.owner.removeUnit(u)
		u.owner.InvalidateCanSeeTiles()
		u.owner.game.controller.UnitDisposed(u)
	}
}
