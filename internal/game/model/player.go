package model

import (
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"NewWorld/internal/game/options"
	"NewWorld/internal/game/spec"
)

// PlayerType 是玩家的政体阶段。
type PlayerType int

const (
	PlayerNative PlayerType = iota
	PlayerColonial
	PlayerRebel
	PlayerIndependent
	PlayerRoyal
	PlayerUndead
)

var playerTypeNames = map[PlayerType]string{
	PlayerNative:      "native",
	PlayerColonial:    "colonial",
	PlayerRebel:       "rebel",
	PlayerIndependent: "independent",
	PlayerRoyal:       "royal",
	PlayerUndead:      "undead",
}

func (t PlayerType) String() string {
	if name, ok := playerTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func ParsePlayerType(raw string) (PlayerType, error) {
	for t, name := range playerTypeNames {
		if name == raw {
			return t, nil
		}
	}
	return PlayerNative, fmt.Errorf("unknown player type %q", raw)
}

// Location 是可以容纳单位的地点（殖民地或欧洲母港）。
type Location interface {
	ID() string
	Name() string
}

// Player 是单个国族的全部状态：金库、外交、视野、国会与市场。
// 外交立场存在 Game 的矩阵里，紧张度与接触位按名册序号存本地向量，
// 名册扩张时由 growRoster 跟进。
type Player struct {
	game *Game

	id         string
	username   string
	index      int
	nation     *spec.Nation
	nationType *spec.NationType
	playerType PlayerType

	gold  int
	tax   int
	score int
	dead  bool
	ai    bool
	ready bool
	admin bool

	attackedByPrivateers bool

	crosses         int
	crossesRequired int
	bells           int
	oldSoL          int

	currentFatherID string
	fatherList      []string
	fathers         map[string]bool
	features        *FeatureContainer

	tension   []*Tension
	contacted []bool

	units       map[string]*Unit
	settlements []Settlement

	europe  *Europe
	monarch *Monarch
	market  *Market

	messages    []*ModelMessage
	tradeRoutes []*TradeRoute

	newLandName           string
	independentNationName string
	entryLocation         *Tile

	colonyNameIndex int

	// canSeeTiles 为 nil 表示视野缓存失效，下次查询时重建。
	canSeeTiles [][]bool
}

func newPlayer(g *Game, id, username string, nation *spec.Nation, nt *spec.NationType, index int) *Player {
	pt := PlayerNative
	if nt.REF {
		pt = PlayerRoyal
	} else if nt.European {
		pt = PlayerColonial
	}
	p := &Player{
		game:       g,
		id:         id,
		username:   username,
		index:      index,
		nation:     nation,
		nationType: nt,
		playerType: pt,
		fathers:    make(map[string]bool),
		features:   NewFeatureContainer(),
		units:      make(map[string]*Unit),
	}
	for _, a := range nt.Abilities {
		p.features.AddAbility(NewAbilityFrom(a, true, nt.ID))
	}
	for _, m := range nt.Modifiers {
		p.features.AddFeatureDef(m, nt.ID)
	}
	if nt.European && !nt.REF {
		p.crossesRequired = g.rules.Difficulty().CrossesIncrement
	}
	return p
}

// growRoster 在名册扩张后补齐紧张度与接触向量。
func (p *Player) growRoster(n int) {
	for len(p.tension) < n {
		p.tension = append(p.tension, NewTension(0))
	}
	for len(p.contacted) < n {
		p.contacted = append(p.contacted, false)
	}
}

func (p *Player) ID() string { return p.id }
func (p *Player) Username() string { return p.username }
func (p *Player) Index() int { return p.index }
func (p *Player) Nation() *spec.Nation { return p.nation }
func (p *Player) NationType() *spec.NationType { return p.nationType }
func (p *Player) PlayerType() PlayerType { return p.playerType }
func (p *Player) Game() *Game { return p.game }
func (p *Player) Gold() int { return p.gold }
func (p *Player) Tax() int { return p.tax }
func (p *Player) Score() int { return p.score }
func (p *Player) Dead() bool { return p.dead }
func (p *Player) AI() bool { return p.ai }
func (p *Player) Ready() bool { return p.ready }
func (p *Player) Europe() *Europe { return p.europe }
func (p *Player) Monarch() *Monarch { return p.monarch }
func (p *Player) Market() *Market { return p.market }
func (p *Player) Features() *FeatureContainer { return p.features }
func (p *Player) EntryLocation() *Tile { return p.entryLocation }

func (p *Player) Admin() bool { return p.admin }

func (p *Player) AttackedByPrivateers() bool { return p.attackedByPrivateers }

func (p *Player) SetPlayerType(t PlayerType) { p.playerType = t }
func (p *Player) SetDead(dead bool)          { p.dead = dead }
func (p *Player) SetAI(ai bool)              { p.ai = ai }
func (p *Player) SetReady(ready bool)        { p.ready = ready }
func (p *Player) SetAdmin(admin bool)        { p.admin = admin }
func (p *Player) SetTax(tax int)             { p.tax = tax }

func (p *Player) SetAttackedByPrivateers() { p.attackedByPrivateers = true }

func (p *Player) SetEntryLocation(t *Tile) { p.entryLocation = t }

func (p *Player) IsEuropean() bool { return p.nationType.European }
func (p *Player) IsIndian() bool   { return !p.nationType.European }
func (p *Player) IsREF() bool      { return p.nationType.REF }

// CanRecruitUnits 判断能否靠十字架移民；只有殖民阶段可以。
func (p *Player) CanRecruitUnits() bool {
	return p.playerType == PlayerColonial
}

// CanHaveFoundingFathers 判断能否选举开国元勋入阁。
func (p *Player) CanHaveFoundingFathers() bool {
	return p.playerType == PlayerColonial ||
		p.playerType == PlayerRebel ||
		p.playerType == PlayerIndependent
}

func (p *Player) HasAbility(id string) bool {
	return p.features.HasAbility(id)
}

// ModifyGold 调整金库；不允许透支，越界收敛到零并告警。
func (p *Player) ModifyGold(amount int) {
	p.gold += amount
	if p.gold < 0 {
		if p.game.log != nil {
			p.game.log.Warn("player gold below zero, clamping",
				zap.String("playerId", p.id), zap.Int("amount", amount))
		}
		p.gold = 0
	}
}

// CheckGold 判断金库是否付得起指定金额。
func (p *Player) CheckGold(amount int) bool {
	return p.gold >= amount
}

// ---------------------------------------------------------------- 外交

// Stance 返回与另一名玩家的外交立场。
func (p *Player) Stance(other *Player) Stance {
	return p.game.Stance(p, other)
}

// SetStance 变更外交立场。立场对整局对称生效，控制器只收到一次通知。
// 停火只能从战争状态宣布；重复设置当前立场是无动作。
func (p *Player) SetStance(other *Player, newStance Stance) error {
	if other == nil || other == p {
		return ErrInvalidState.WithData("reason", "cannot set stance towards self")
	}
	old := p.game.Stance(p, other)
	if newStance == old {
		return nil
	}
	if newStance == StanceCeaseFire && old != StanceWar {
		return ErrInvalidState.WithData("reason", "cease fire requires war")
	}
	p.game.setStance(p, other, newStance)
	if old == StancePeace && newStance == StanceWar {
		p.ModifyTension(other, TensionAddDeclareWarFromPeace, nil)
		other.ModifyTension(p, TensionAddDeclareWarFromPeace, nil)
	} else if old == StanceCeaseFire && newStance == StanceWar {
		p.ModifyTension(other, TensionAddDeclareWarFromCeaseFire, nil)
		other.ModifyTension(p, TensionAddDeclareWarFromCeaseFire, nil)
	}
	p.game.controller.StanceChanged(p, other, old, newStance)
	return nil
}

// Tension 返回对另一名玩家的紧张度。
func (p *Player) Tension(other *Player) *Tension {
	if other == nil || other == p {
		return NewTension(0)
	}
	return p.tension[other.index]
}

// ModifyTension 调整对另一名玩家的紧张度。对原住民玩家，来自某个
// 聚落的刺激还会扩散到自己其余的聚落（不含来源本身）。
func (p *Player) ModifyTension(other *Player, delta int, origin *IndianSettlement) {
	if other == nil || other == p {
		return
	}
	p.tension[other.index].Modify(delta)
	if origin == nil || !p.IsIndian() || origin.Owner() != p {
		return
	}
	for _, s := range p.settlements {
		is, ok := s.(*IndianSettlement)
		if !ok || is == origin {
			continue
		}
		is.ModifyAlarm(other.id, delta/2)
	}
}

// HasContacted 判断是否已与另一名玩家接触；对自身恒为真。
func (p *Player) HasContacted(other *Player) bool {
	if other == nil || other == p {
		return true
	}
	return p.contacted[other.index]
}

// SetContacted 记录首次接触，双向生效，并给双方各发一条通知。
func (p *Player) SetContacted(other *Player) {
	if other == nil || other == p {
		return
	}
	if p.contacted[other.index] {
		return
	}
	p.contacted[other.index] = true
	other.contacted[p.index] = true
	p.AddMessage(NewModelMessage(p.id, other.id, "model.player.firstContact",
		map[string]string{"%nation%": other.nation.ID}))
	other.AddMessage(NewModelMessage(other.id, p.id, "model.player.firstContact",
		map[string]string{"%nation%": p.nation.ID}))
}

// ---------------------------------------------------------------- 视野

// InvalidateCanSeeTiles 作废视野缓存。单位移动、定居点易手后调用。
func (p *Player) InvalidateCanSeeTiles() {
	p.canSeeTiles = nil
}

// CanSee 判断玩家当前能否看到某格。缓存按需重建：开战争迷雾时视野
// 是单位与定居点视距的并集，关掉时等于全部已探索格。
func (p *Player) CanSee(t *Tile) bool {
	if t == nil || p.game.gameMap == nil {
		return false
	}
	if p.canSeeTiles == nil {
		p.rebuildCanSeeTiles()
	}
	pos := t.Position()
	return p.canSeeTiles[pos.X][pos.Y]
}

func (p *Player) rebuildCanSeeTiles() {
	m := p.game.gameMap
	grid := make([][]bool, m.Width())
	for x := range grid {
		grid[x] = make([]bool, m.Height())
	}
	if !p.game.opts.GetBool(options.KeyFogOfWar) {
		for x := 0; x < m.Width(); x++ {
			for y := 0; y < m.Height(); y++ {
				if m.Tile(x, y).ExploredBy(p.id) {
					grid[x][y] = true
				}
			}
		}
		p.canSeeTiles = grid
		return
	}
	mark := func(center Position, radius int) {
		for _, t := range m.CircleTiles(center, true, radius) {
			pos := t.Position()
			grid[pos.X][pos.Y] = true
			t.SetExplored(p.id)
		}
	}
	for _, u := range p.units {
		if u.Disposed() || u.Tile() == nil {
			continue
		}
		mark(u.Tile().Position(), u.LineOfSight())
	}
	for _, s := range p.settlements {
		if s.Tile() == nil {
			continue
		}
		mark(s.Tile().Position(), s.LineOfSight())
	}
	p.canSeeTiles = grid
}

// ---------------------------------------------------------------- 单位

func (p *Player) addUnit(u *Unit) {
	p.units[u.ID()] = u
	p.InvalidateCanSeeTiles()
}

func (p *Player) removeUnit(u *Unit) {
	delete(p.units, u.ID())
}

// Unit 按 id 取己方单位；不存在或已销毁返回 nil。
func (p *Player) Unit(id string) *Unit {
	u := p.units[id]
	if u == nil || u.Disposed() {
		return nil
	}
	return u
}

// Units 返回全部己方单位，按 id 排序保证遍历顺序稳定。
func (p *Player) Units() []*Unit {
	out := make([]*Unit, 0, len(p.units))
	for _, u := range p.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// RepairLocation 为受损海军单位选维修点：离得最近的有修船能力的
// 殖民地，等距取先建立的；没有就回欧洲母港。
func (p *Player) RepairLocation(u *Unit) (Location, error) {
	if u == nil || !u.Naval() {
		return nil, ErrInvalidState.WithData("reason", "repair location is for naval units")
	}
	if u.Tile() == nil {
		if p.europe == nil {
			return nil, ErrResolveFailed.WithData("reason", "no repair location available")
		}
		return p.europe, nil
	}
	var closest *Colony
	shortest := int(^uint(0) >> 1)
	for _, c := range p.Colonies() {
		if c.Tile() == nil || c.Tile() == u.Tile() {
			continue
		}
		if !c.HasAbility(p.game.rules, spec.AbilityRepairShips) {
			continue
		}
		d := Distance(u.Tile().Position(), c.Tile().Position())
		if d < shortest {
			closest = c
			shortest = d
		}
	}
	if closest != nil {
		return closest, nil
	}
	if p.europe == nil {
		return nil, ErrResolveFailed.WithData("reason", "no repair location available")
	}
	return p.europe, nil
}

// ---------------------------------------------------------------- 定居点

// AddSettlement 接收一个定居点。易手时先改归属再从旧主名单摘除，
// 中途任何观察者都能看到一致的归属。
func (p *Player) AddSettlement(s Settlement) {
	if s == nil {
		return
	}
	old := s.Owner()
	if old == p {
		return
	}
	s.setOwner(p)
	if old != nil {
		old.dropSettlement(s)
	}
	p.settlements = append(p.settlements, s)
	p.game.Register(s)
	p.InvalidateCanSeeTiles()
}

// RemoveSettlement 把定居点移出名单（被摧毁时）。
func (p *Player) RemoveSettlement(s Settlement) {
	if s == nil || s.Owner() != p {
		return
	}
	s.setOwner(nil)
	p.dropSettlement(s)
	p.InvalidateCanSeeTiles()
}

func (p *Player) dropSettlement(s Settlement) {
	for i, cur := range p.settlements {
		if cur == s {
			p.settlements = append(p.settlements[:i], p.settlements[i+1:]...)
			return
		}
	}
}

func (p *Player) Settlements() []Settlement { return p.settlements }

func (p *Player) Colonies() []*Colony {
	var out []*Colony
	for _, s := range p.settlements {
		if c, ok := s.(*Colony); ok {
			out = append(out, c)
		}
	}
	return out
}

func (p *Player) IndianSettlements() []*IndianSettlement {
	var out []*IndianSettlement
	for _, s := range p.settlements {
		if is, ok := s.(*IndianSettlement); ok {
			out = append(out, is)
		}
	}
	return out
}

// ColonyByName 按名称取己方殖民地。
func (p *Player) ColonyByName(name string) *Colony {
	for _, c := range p.Colonies() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// DefaultColonyName 产生一个未用过的殖民地名：先走国家预设名单，
// 用完落回 Colony<N> 编号。
func (p *Player) DefaultColonyName() string {
	for p.colonyNameIndex < len(p.nation.ColonyNames) {
		name := p.nation.ColonyNames[p.colonyNameIndex]
		p.colonyNameIndex++
		if p.ColonyByName(name) == nil {
			return name
		}
	}
	for {
		p.colonyNameIndex++
		name := fmt.Sprintf("Colony%d", p.colonyNameIndex)
		if p.ColonyByName(name) == nil {
			return name
		}
	}
}

// FoundColony 在指定格建立殖民地。
func (p *Player) FoundColony(name string, tile *Tile) (*Colony, error) {
	if tile == nil {
		return nil, ErrInvalidState.WithData("reason", "colony needs a tile")
	}
	if name == "" {
		name = p.DefaultColonyName()
	} else if p.ColonyByName(name) != nil {
		return nil, ErrInvalidState.WithData("reason", "colony name in use").WithData("name", name)
	}
	c := &Colony{
		baseSettlement: baseSettlement{
			id:          p.game.NewID("colony"),
			name:        name,
			tile:        tile,
			lineOfSight: 2,
		},
		buildings: make(map[string]bool),
	}
	p.AddSettlement(c)
	tile.SetExplored(p.id)
	return c, nil
}

// ---------------------------------------------------------------- 移民

// IncrementCrosses 累积十字架；非殖民阶段不计。
func (p *Player) IncrementCrosses(num int) {
	if !p.CanRecruitUnits() {
		return
	}
	p.crosses += num
}

func (p *Player) Crosses() int {
	if !p.CanRecruitUnits() {
		return 0
	}
	return p.crosses
}

func (p *Player) CrossesRequired() int {
	if !p.CanRecruitUnits() {
		return 0
	}
	return p.crossesRequired
}

// CheckEmigrate 判断本回合是否有移民抵达。
func (p *Player) CheckEmigrate() bool {
	if !p.CanRecruitUnits() {
		return false
	}
	return p.crosses >= p.crossesRequired
}

// ReduceCrosses 在移民发生后扣减。开了产量结转就只扣门槛，
// 否则清空累积。
func (p *Player) ReduceCrosses() {
	if !p.CanRecruitUnits() {
		return
	}
	if p.game.opts.GetBool(options.KeySaveProductionOverflow) {
		p.crosses -= p.crossesRequired
	} else {
		p.crosses = 0
	}
}

// UpdateCrossesRequired 抬高下一名移民的门槛。
func (p *Player) UpdateCrossesRequired() {
	if !p.CanRecruitUnits() {
		return
	}
	inc := p.game.rules.Difficulty().CrossesIncrement
	p.crossesRequired += int(p.features.ApplyModifier(spec.ModifierReligiousUnrest, float64(inc)))
}

// ---------------------------------------------------------------- 国会

func (p *Player) AddBells(num int) {
	if !p.CanHaveFoundingFathers() {
		return
	}
	p.bells += num
}

func (p *Player) Bells() int {
	if !p.CanHaveFoundingFathers() {
		return 0
	}
	return p.bells
}

func (p *Player) HasFather(id string) bool { return p.fathers[id] }
func (p *Player) Fathers() []string        { return p.fatherList }
func (p *Player) CurrentFather() string    { return p.currentFatherID }

func (p *Player) SetCurrentFather(id string) error {
	if id != "" && p.game.rules.FoundingFather(id) == nil {
		return ErrResolveFailed.WithData("fatherId", id)
	}
	p.currentFatherID = id
	return nil
}

// TotalFoundingFatherCost 是下一位元勋的钟声总价。
func (p *Player) TotalFoundingFatherCost() int {
	n := len(p.fatherList)
	return n*n*p.game.rules.Difficulty().FoundingFatherFactor + 50
}

// AddFather 让一位开国元勋入阁：套上特性、欧洲赠兵、兵种升级，
// 再逐条兑现入阁事件。
func (p *Player) AddFather(f *spec.FoundingFather) {
	if f == nil || p.fathers[f.ID] {
		return
	}
	p.fathers[f.ID] = true
	p.fatherList = append(p.fatherList, f.ID)
	p.AddMessage(NewModelMessage(p.id, p.id, "model.player.foundingFatherJoinedCongress",
		map[string]string{"%foundingFather%": f.ID}))

	for _, feat := range f.Features {
		p.features.AddFeatureDef(feat, f.ID)
	}
	for _, typeID := range f.Units {
		if u, err := p.game.CreateUnit(p, typeID, nil); err == nil {
			u.SetInEurope()
		}
	}
	if len(f.Upgrades) > 0 {
		for _, u := range p.Units() {
			if to, ok := f.Upgrades[u.Type().ID]; ok {
				if nt := p.game.rules.UnitType(to); nt != nil {
					u.SetType(nt)
				}
			}
		}
	}
	for _, ev := range f.Events {
		p.applyFatherEvent(f, ev)
	}
}

func (p *Player) applyFatherEvent(f *spec.FoundingFather, ev *spec.Event) {
	switch ev.Kind {
	case spec.EventResetNativeAlarm:
		for _, other := range p.game.players {
			if !other.IsIndian() {
				continue
			}
			other.Tension(p).SetValue(TensionMin)
			for _, is := range other.IndianSettlements() {
				is.Alarm(p.id).SetValue(TensionMin)
			}
		}
	case spec.EventBoycottsLifted:
		if p.market != nil {
			p.market.ResetAllArrears()
		}
	case spec.EventFreeBuilding:
		for _, c := range p.Colonies() {
			if !c.HasBuilding(ev.Value) {
				c.AddBuilding(ev.Value)
			}
		}
	case spec.EventSeeAllColonies:
		p.exploreAllColonies()
	case spec.EventIncreaseSonsOfLiberty:
		value, err := strconv.Atoi(ev.Value)
		if err != nil {
			if p.game.log != nil {
				p.game.log.Warn("bad increaseSonsOfLiberty value",
					zap.String("fatherId", f.ID), zap.String("value", ev.Value))
			}
			return
		}
		for _, c := range p.Colonies() {
			c.AddSoL(value)
		}
	}
}

// exploreAllColonies 把全图所有殖民地及其八邻格标记为已探索。
func (p *Player) exploreAllColonies() {
	m := p.game.gameMap
	if m == nil {
		return
	}
	for _, other := range p.game.players {
		for _, c := range other.Colonies() {
			if c.Tile() == nil {
				continue
			}
			for _, t := range m.CircleTiles(c.Tile().Position(), true, 1) {
				t.SetExplored(p.id)
			}
		}
	}
	p.InvalidateCanSeeTiles()
}

// ---------------------------------------------------------------- 独立

// SoL 是各殖民地自由之子比例的平均值。
func (p *Player) SoL() int {
	colonies := p.Colonies()
	if len(colonies) == 0 {
		return 0
	}
	sum := 0
	for _, c := range colonies {
		sum += c.SoL()
	}
	return sum / len(colonies)
}

// REFPlayer 返回与本国对应的王军玩家。
func (p *Player) REFPlayer() *Player {
	if p.nation.REFNation == "" {
		return nil
	}
	for _, other := range p.game.players {
		if other.nation.ID == p.nation.REFNation {
			return other
		}
	}
	return nil
}

// DeclareIndependence 宣布独立：转入叛军阶段，与王军开战，税率归零，
// 滞留欧洲的单位被宗主国扣押，高自由度殖民地里的老兵就地晋升。
func (p *Player) DeclareIndependence() error {
	if p.playerType != PlayerColonial {
		return ErrInvalidState.WithData("reason", "independence already declared")
	}
	required := p.game.opts.GetInt(options.KeyIndependenceSoL)
	if p.SoL() < required {
		return ErrInvalidState.WithData("reason", "not enough sons of liberty").
			WithData("sol", p.SoL()).WithData("required", required)
	}
	p.playerType = PlayerRebel
	p.features.AddAbility(NewAbility(spec.AbilityIndependenceDeclared, true))
	if ref := p.REFPlayer(); ref != nil {
		if err := p.SetStance(ref, StanceWar); err != nil {
			return err
		}
	}
	p.tax = 0

	if p.europe != nil {
		seized := p.europe.Units()
		if len(seized) > 0 {
			names := ""
			for i, u := range seized {
				if i > 0 {
					names += ", "
				}
				names += u.ID()
			}
			p.AddMessage(NewModelMessage(p.id, p.id, "model.player.independence.unitsSeized",
				map[string]string{"%units%": names}))
			for _, u := range seized {
				u.Dispose()
			}
		}
		p.europe.Dispose()
	}

	for _, c := range p.Colonies() {
		sol := c.SoL()
		if sol <= 50 || c.Tile() == nil {
			continue
		}
		var veterans []*Unit
		for _, u := range p.Units() {
			if u.Tile() == c.Tile() && u.Type().HasAbility(spec.AbilityExpertSoldier) {
				veterans = append(veterans, u)
			}
		}
		limit := len(veterans) * (sol - 50) / 100
		if limit <= 0 {
			continue
		}
		for i := 0; i < limit; i++ {
			promo := p.game.rules.UnitType(veterans[i].Type().Promotion)
			if promo != nil {
				veterans[i].SetType(promo)
			}
		}
		p.AddMessage(NewModelMessage(p.id, c.ID(), "model.player.continentalArmyMuster",
			map[string]string{"%colony%": c.Name(), "%number%": strconv.Itoa(limit)}))
	}
	return nil
}

// GiveIndependence 承认独立：叛军转入独立阶段并与王军恢复和平。
func (p *Player) GiveIndependence() error {
	if !p.IsEuropean() {
		return ErrInvalidState.WithData("reason", "only european players gain independence")
	}
	if p.playerType != PlayerRebel {
		return ErrInvalidState.WithData("reason", "independence not declared")
	}
	p.playerType = PlayerIndependent
	if ref := p.REFPlayer(); ref != nil {
		if err := p.SetStance(ref, StancePeace); err != nil {
			return err
		}
	}
	p.AddMessage(NewModelMessage(p.id, p.id, "model.player.independence", nil))
	return nil
}

// ---------------------------------------------------------------- 市场

// Arrears 返回货物的欠税。
func (p *Player) Arrears(goodsType string) int {
	if p.market == nil {
		return 0
	}
	return p.market.Arrears(goodsType)
}

// SetArrears 按难度档开出抵制欠税。
func (p *Player) SetArrears(goodsType string) {
	if p.market == nil {
		return
	}
	data := p.market.Data(goodsType)
	data.SetArrears(p.game.rules.Difficulty().ArrearsFactor * 100 * data.PaidForSale())
}

// CanTrade 判断某货物能否在指定场所交易。欠税封死欧洲市场；
// 海关在开了无视抵制选项时仍可出货。
func (p *Player) CanTrade(goodsType string, access MarketAccess) bool {
	if p.market == nil {
		return false
	}
	if p.market.Arrears(goodsType) == 0 {
		return true
	}
	return access == MarketCustomHouse &&
		p.game.opts.GetBool(options.KeyCustomIgnoreBoycott)
}

// ---------------------------------------------------------------- 土地

// LandPrice 估算向原住民购地的价格；欧洲人地盘和无主地免费。
func (p *Player) LandPrice(tile *Tile) int {
	if tile == nil || tile.OwnerID() == "" || tile.OwnerID() == p.id {
		return 0
	}
	owner := p.game.Player(tile.OwnerID())
	if owner == nil || owner.IsEuropean() {
		return 0
	}
	price := p.game.rules.Difficulty().LandPriceFactor + 100
	return int(p.features.ApplyModifier(spec.ModifierLandPayment, float64(price)))
}

// BuyLand 购买一格原住民土地，价款转入对方金库。
func (p *Player) BuyLand(tile *Tile) error {
	if tile == nil || tile.OwnerID() == "" {
		return ErrInvalidState.WithData("reason", "tile has no owner")
	}
	if tile.OwnerID() == p.id {
		return ErrInvalidState.WithData("reason", "tile already owned")
	}
	owner := p.game.Player(tile.OwnerID())
	if owner == nil {
		return ErrResolveFailed.WithData("ownerId", tile.OwnerID())
	}
	if owner.IsEuropean() {
		return ErrInvalidState.WithData("reason", "cannot buy land from european players")
	}
	price := p.LandPrice(tile)
	if !p.CheckGold(price) {
		return ErrInvalidState.WithData("reason", "not enough gold").WithData("price", price)
	}
	p.ModifyGold(-price)
	owner.ModifyGold(price)
	tile.SetOwnerID(p.id)
	return nil
}

// ---------------------------------------------------------------- 杂项

func (p *Player) NewLandName() string { return p.newLandName }

func (p *Player) SetNewLandName(name string) {
	p.newLandName = name
}

// IndependentNationName 是独立后采用的国名，宣布前为空。
func (p *Player) IndependentNationName() string { return p.independentNationName }

func (p *Player) SetIndependentNationName(name string) {
	p.independentNationName = name
}

func (p *Player) AddMessage(m *ModelMessage) {
	if m != nil {
		p.messages = append(p.messages, m)
	}
}

func (p *Player) Messages() []*ModelMessage { return p.messages }
func (p *Player) ClearMessages()            { p.messages = nil }

func (p *Player) TradeRoutes() []*TradeRoute { return p.tradeRoutes }

func (p *Player) SetTradeRoutes(routes []*TradeRoute) {
	p.tradeRoutes = routes
}

// ---------------------------------------------------------------- 回合

// UpdateScore 重算玩家积分：单位分值（工作地翻倍）加自由度加成，
// 再加金库零头。
func (p *Player) UpdateScore() {
	score := 0
	for _, u := range p.units {
		if u.Disposed() || u.Type() == nil {
			continue
		}
		score += u.Type().ScoreValue
		if u.InWorkLocation() {
			score += u.Type().ScoreValue
		}
	}
	score += score * p.oldSoL / 100
	score += p.gold / 1000
	p.score = score
}

// NewTurn 结算一名玩家的回合。原住民只做紧张度衰减、聚落与单位；
// 欧洲玩家依次走殖民地、国会、单位、母港、市场、自由度统计和积分。
func (p *Player) NewTurn() {
	if p.IsIndian() {
		for _, t := range p.tension {
			t.Decay()
		}
		for _, s := range p.settlements {
			s.NewTurn()
		}
		for _, u := range p.Units() {
			u.NewTurn()
		}
		return
	}

	newSoL := 0
	for _, s := range p.settlements {
		s.NewTurn()
		if c, ok := s.(*Colony); ok {
			newSoL += c.SoL()
		}
	}

	if p.CanHaveFoundingFathers() && p.currentFatherID != "" &&
		p.Bells() >= p.TotalFoundingFatherCost() {
		cost := p.TotalFoundingFatherCost()
		father := p.game.rules.FoundingFather(p.currentFatherID)
		p.currentFatherID = ""
		if p.game.opts.GetBool(options.KeySaveProductionOverflow) {
			p.bells -= cost
		} else {
			p.bells = 0
		}
		p.AddFather(father)
	}

	for _, u := range p.Units() {
		u.NewTurn()
	}
	if p.europe != nil && !p.europe.Disposed() {
		p.europe.NewTurn()
	}
	if p.market != nil {
		p.market.NewTurn()
	}

	if n := len(p.settlements); n > 0 {
		newSoL /= n
		if p.oldSoL/10 != newSoL/10 {
			key := "model.player.SoLIncrease"
			if newSoL < p.oldSoL {
				key = "model.player.SoLDecrease"
			}
			p.AddMessage(NewModelMessage(p.id, p.id, key, map[string]string{
				"%oldSoL%": strconv.Itoa(p.oldSoL),
				"%newSoL%": strconv.Itoa(newSoL),
			}))
		}
	}
	p.oldSoL = newSoL
	p.UpdateScore()
}
