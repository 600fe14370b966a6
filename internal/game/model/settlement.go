package model

import "NewWorld/internal/game/spec"

// Settlement 是地图上的定居点：殖民地或原住民聚落。
type Settlement interface {
	ID() string
	Name() string
	Owner() *Player
	Tile() *Tile
	LineOfSight() int
	NewTurn()

	setOwner(p *Player)
}

type baseSettlement struct {
	id          string
	name        string
	owner       *Player
	tile        *Tile
	lineOfSight int
}

func (s *baseSettlement) ID() string { return s.id }
func (s *baseSettlement) Name() string { return s.name }
func (s *baseSettlement) Owner() *Player { return s.owner }
func (s *baseSettlement) Tile() *Tile { return s.tile }

func (s *baseSettlement) LineOfSight() int {
	if s.lineOfSight <= 0 {
		return 1
	}
	return s.lineOfSight
}

func (s *baseSettlement) setOwner(p *Player) {
	s.owner = p
}

// Colony 是欧洲玩家的殖民地。
type Colony struct {
	baseSettlement

	sol       int
	buildings map[string]bool

	// 每回合产出，记入所属玩家。
	bellsPerTurn   int
	crossesPerTurn int
}

func (c *Colony) SoL() int { return c.sol }

func (c *Colony) SetSoL(v int) {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	c.sol = v
}

func (c *Colony) AddSoL(amount int) {
	c.SetSoL(c.sol + amount)
}

func (c *Colony) HasBuilding(typeID string) bool {
	return c.buildings[typeID]
}

func (c *Colony) AddBuilding(typeID string) {
	c.buildings[typeID] = true
}

func (c *Colony) SetProduction(bells, crosses int) {
	c.bellsPerTurn = bells
	c.crossesPerTurn = crosses
}

// HasAbility 查询殖民地建筑赋予的能力。
func (c *Colony) HasAbility(rules *spec.Specification, abilityID string) bool {
	for typeID := range c.buildings {
		bt := rules.BuildingType(typeID)
		if bt == nil {
			continue
		}
		for _, a := range bt.Abilities {
			if a == abilityID {
				return true
			}
		}
	}
	return false
}

// NewTurn 结算本地产出。
func (c *Colony) NewTurn() {
	if c.owner == nil {
		return
	}
	if c.bellsPerTurn != 0 {
		c.owner.AddBells(c.bellsPerTurn)
	}
	if c.crossesPerTurn != 0 {
		c.owner.IncrementCrosses(c.crossesPerTurn)
	}
}

// Goods 是一批货物：类型 + 数量。
type Goods struct {
	Type   string
	Amount int
}

// IndianSettlement 是原住民聚落，维护对各玩家的警戒值和当前出售清单。
type IndianSettlement struct {
	baseSettlement

	alarm     map[string]*Tension
	sellGoods []*Goods
}

// NewIndianSettlement 建立聚落并归入所属的原住民玩家。
func NewIndianSettlement(owner *Player, name string, tile *Tile) (*IndianSettlement, error) {
	if owner == nil || tile == nil {
		return nil, ErrInvalidState.WithData("reason", "settlement needs an owner and a tile")
	}
	s := &IndianSettlement{
		baseSettlement: baseSettlement{
			id:   owner.game.NewID("indianSettlement"),
			name: name,
			tile: tile,
		},
		alarm: make(map[string]*Tension),
	}
	owner.AddSettlement(s)
	tile.SetExplored(owner.ID())
	return s, nil
}

// Alarm 返回对某玩家的警戒值，按需创建。
func (s *IndianSettlement) Alarm(playerID string) *Tension {
	t, ok := s.alarm[playerID]
	if !ok {
		t = NewTension(0)
		s.alarm[playerID] = t
	}
	return t
}

func (s *IndianSettlement) ModifyAlarm(playerID string, delta int) {
	s.Alarm(playerID).Modify(delta)
}

func (s *IndianSettlement) SetSellGoods(goods []*Goods) {
	s.sellGoods = goods
}

func (s *IndianSettlement) SellGoods() []*Goods {
	return s.sellGoods
}

// IsSelling 判断货物类型是否在当前出售清单里。
func (s *IndianSettlement) IsSelling(goodsType string) bool {
	for _, g := range s.sellGoods {
		if g.Type == goodsType {
			return true
		}
	}
	return false
}

// NewTurn 衰减所有警戒值。
func (s *IndianSettlement) NewTurn() {
	for _, t := range s.alarm {
		t.Decay()
	}
}
