package model

import (
	"fmt"
	"sync"

	"NewWorld/internal/game/options"
	"NewWorld/internal/game/spec"
	"NewWorld/modules/kit/logx"
	"go.uber.org/zap"
)

// Controller 是模型向外通知状态变化的唯一出口。
// 每次变化只通知一次，由接收方负责扇出。
type Controller interface {
	StanceChanged(first, second *Player, old, now Stance)
	UnitMoved(u *Unit)
	UnitDisposed(u *Unit)
}

type noopController struct{}

func (noopController) StanceChanged(first, second *Player, old, now Stance) {}
func (noopController) UnitMoved(u *Unit)                                    {}
func (noopController) UnitDisposed(u *Unit)                                 {}

// Game 是一局对局的聚合根：玩家名册、对象注册表、地图与回合计数。
// 玩家间外交立场由对局统一持有，players[i] 与 players[j] 的立场存在
// stance[i][j]，矩阵始终对称。
type Game struct {
	mu sync.Mutex

	rules *spec.Specification
	opts  *options.GameOptions
	log   logx.Logger

	turn    int
	players []*Player
	objects map[string]any
	gameMap *GameMap
	stance  [][]Stance

	controller Controller
	idSeq      map[string]int
}

func NewGame(rules *spec.Specification, opts *options.GameOptions, log logx.Logger) *Game {
	return &Game{
		rules:      rules,
		opts:       opts,
		log:        log,
		turn:       1,
		objects:    make(map[string]any),
		controller: noopController{},
		idSeq:      make(map[string]int),
	}
}

// Lock 串行化对整局状态的修改。消息处理前加锁，处理完释放。
func (g *Game) Lock()   { g.mu.Lock() }
func (g *Game) Unlock() { g.mu.Unlock() }

func (g *Game) Spec() *spec.Specification { return g.rules }
func (g *Game) Options() *options.GameOptions { return g.opts }
func (g *Game) Turn() int { return g.turn }
func (g *Game) Map() *GameMap { return g.gameMap }

func (g *Game) SetMap(m *GameMap) {
	g.gameMap = m
	if m != nil {
		for y := 0; y < m.Height(); y++ {
			for x := 0; x < m.Width(); x++ {
				g.Register(m.Tile(x, y))
			}
		}
	}
}

func (g *Game) SetController(c Controller) {
	if c == nil {
		c = noopController{}
	}
	g.controller = c
}

// NewID 为对局内对象分配稳定的字符串 id。
func (g *Game) NewID(prefix string) string {
	g.idSeq[prefix]++
	return fmt.Sprintf("%s:%d", prefix, g.idSeq[prefix])
}

// Register 把对象登记进注册表，后续一律按 id 解析引用。
func (g *Game) Register(obj interface{ ID() string }) {
	if obj == nil {
		return
	}
	g.objects[obj.ID()] = obj
}

func (g *Game) Unregister(id string) {
	delete(g.objects, id)
}

// Lookup 按 id 解析对局内对象；未登记返回 nil。
func (g *Game) Lookup(id string) any {
	return g.objects[id]
}

// AddPlayer 把一个国族加入名册：扩展立场矩阵与各玩家的
// 接触/紧张度向量，欧洲玩家再配齐母港、君主和市场。
func (g *Game) AddPlayer(id, username, nationID string) (*Player, error) {
	nation := g.rules.Nation(nationID)
	if nation == nil {
		return nil, ErrResolveFailed.WithData("nationId", nationID)
	}
	nt := g.rules.NationType(nation.NationType)
	if nt == nil {
		return nil, ErrResolveFailed.WithData("nationTypeId", nation.NationType)
	}

	p := newPlayer(g, id, username, nation, nt, len(g.players))
	g.players = append(g.players, p)
	g.Register(p)

	n := len(g.players)
	for i := range g.stance {
		g.stance[i] = append(g.stance[i], StancePeace)
	}
	row := make([]Stance, n)
	for i := range row {
		row[i] = StancePeace
	}
	g.stance = append(g.stance, row)
	for _, q := range g.players {
		q.growRoster(n)
	}

	if nt.European {
		p.gold = g.opts.GetInt(options.KeyStartingMoney)
		p.europe = &Europe{
			id:               g.NewID("europe"),
			name:             "Europe",
			owner:            p,
			recruitBasePrice: recruitBasePrice,
			recruitPrice:     recruitBasePrice,
		}
		p.monarch = &Monarch{id: g.NewID("monarch"), name: nation.RulerName}
		p.market = newMarket(p)
		g.Register(p.europe)
		g.Register(p.monarch)
	}
	return p, nil
}

func (g *Game) Players() []*Player { return g.players }

func (g *Game) PlayerByIndex(i int) *Player {
	if i < 0 || i >= len(g.players) {
		return nil
	}
	return g.players[i]
}

func (g *Game) Player(id string) *Player {
	p, _ := g.Lookup(id).(*Player)
	return p
}

// Stance 返回两名玩家之间的外交立场。对自身恒为和平。
func (g *Game) Stance(a, b *Player) Stance {
	if a == nil || b == nil || a == b {
		return StancePeace
	}
	return g.stance[a.index][b.index]
}

// setStance 对称写入矩阵，不做合法性检查。入口在 Player.SetStance。
func (g *Game) setStance(a, b *Player, s Stance) {
	g.stance[a.index][b.index] = s
	g.stance[b.index][a.index] = s
}

// CreateUnit 创建一个单位并放到棋盘上。tile 可为 nil（欧洲或运输中）。
func (g *Game) CreateUnit(owner *Player, typeID string, tile *Tile) (*Unit, error) {
	ut := g.rules.UnitType(typeID)
	if ut == nil {
		return nil, ErrResolveFailed.WithData("unitTypeId", typeID)
	}
	u := &Unit{
		id:        g.NewID("unit"),
		owner:     owner,
		unitType:  ut,
		tile:      tile,
		movesLeft: ut.Moves,
		state:     UnitActive,
	}
	owner.addUnit(u)
	g.Register(u)
	if tile != nil {
		tile.SetExplored(owner.ID())
		owner.InvalidateCanSeeTiles()
	}
	return u, nil
}

// NewTurn 推进回合计数并让每名玩家依次结算。
func (g *Game) NewTurn() {
	g.turn++
	if g.log != nil {
		g.log.Debug("game.newTurn", zap.Int("turn", g.turn))
	}
	for _, p := range g.players {
		p.NewTurn()
	}
}

const recruitBasePrice = 200
