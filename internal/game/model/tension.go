package model

// 敌意值的刻度与固定增量。
const (
	TensionMin = 0
	TensionMax = 1000

	// 和平状态下宣战的敌意增量。
	TensionAddDeclareWarFromPeace = 500
	// 停火状态下再次宣战的增量更大。
	TensionAddDeclareWarFromCeaseFire = 750
)

// Tension 是一对玩家之间的数值化敌意，0..TensionMax。
type Tension struct {
	value int
}

func NewTension(value int) *Tension {
	t := &Tension{}
	t.SetValue(value)
	return t
}

func (t *Tension) Value() int {
	return t.value
}

func (t *Tension) SetValue(v int) {
	if v < TensionMin {
		v = TensionMin
	}
	if v > TensionMax {
		v = TensionMax
	}
	t.value = v
}

func (t *Tension) Modify(delta int) {
	t.SetValue(t.value + delta)
}

// Decay 是原住民每回合的敌意衰减：t -= 4 + t/100。
func (t *Tension) Decay() {
	if t.value <= 0 {
		return
	}
	t.Modify(-(4 + t.value/100))
}
