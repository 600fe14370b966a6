package model

// UnitView 是按条件过滤的单位游标。客户端逐个轮询“下一个要操作的
// 单位”，游标在名单末尾折返一次，转完一整圈仍无命中就返回 nil。
type UnitView struct {
	owner  *Player
	keep   func(*Unit) bool
	lastID string
}

// ActiveUnits 遍历还能行动且没安排去处的单位。
func (p *Player) ActiveUnits() *UnitView {
	return &UnitView{
		owner: p,
		keep: func(u *Unit) bool {
			return !u.Disposed() && u.Tile() != nil &&
				u.MovesLeft() > 0 && u.State() == UnitActive &&
				u.Destination() == "" && !u.InWorkLocation()
		},
	}
}

// GoingToUnits 遍历还能行动且已设目的地的单位。
func (p *Player) GoingToUnits() *UnitView {
	return &UnitView{
		owner: p,
		keep: func(u *Unit) bool {
			return !u.Disposed() && u.Tile() != nil &&
				u.MovesLeft() > 0 && u.Destination() != ""
		},
	}
}

// Next 返回上次命中之后的下一个匹配单位。走到末尾折返开头接着找，
// 但最多绕一圈；一圈内没有命中则游标复位并返回 nil。
func (v *UnitView) Next() *Unit {
	units := v.owner.Units()
	for _, u := range units {
		if u.ID() > v.lastID && v.keep(u) {
			v.lastID = u.ID()
			return u
		}
	}
	for _, u := range units {
		if u.ID() <= v.lastID && v.keep(u) {
			v.lastID = u.ID()
			return u
		}
	}
	v.lastID = ""
	return nil
}

// HasNext 探测是否还有匹配单位，不移动游标。
func (v *UnitView) HasNext() bool {
	for _, u := range v.owner.Units() {
		if v.keep(u) {
			return true
		}
	}
	return false
}
