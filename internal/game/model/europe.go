package model

// Europe 是欧洲玩家的母港：训练、招募与回程单位的落脚点。
type Europe struct {
	id       string
	name     string
	owner    *Player
	disposed bool

	recruitBasePrice int
	recruitPrice     int
}

func (e *Europe) ID() string { return e.id }
func (e *Europe) Name() string { return e.name }
func (e *Europe) Disposed() bool { return e.disposed }

// RecruitPrice 返回下一名新兵的价格。
func (e *Europe) RecruitPrice() int {
	return e.recruitPrice
}

// IncreaseRecruitPrice 在每次招募后抬价。
func (e *Europe) IncreaseRecruitPrice(delta int) {
	if delta > 0 {
		e.recruitPrice += delta
	}
}

// Units 返回当前停留在欧洲的己方单位。
func (e *Europe) Units() []*Unit {
	if e.owner == nil {
		return nil
	}
	var out []*Unit
	for _, u := range e.owner.Units() {
		if u.InEurope() && !u.Disposed() {
			out = append(out, u)
		}
	}
	return out
}

// NewTurn 让抬高的招募价逐回合回落到基准。
func (e *Europe) NewTurn() {
	if e.recruitPrice > e.recruitBasePrice {
		e.recruitPrice--
	}
}

// Dispose 关闭母港（独立战争后不再可用）。
func (e *Europe) Dispose() {
	e.disposed = true
}

// Monarch 是宗主国君主。
type Monarch struct {
	id   string
	name string
}

func (m *Monarch) ID() string { return m.id }
func (m *Monarch) Name() string { return m.name }
