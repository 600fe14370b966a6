package model

import "fmt"

type Position struct {
	X int
	Y int
}

// Distance 取棋盘距离（坐标差的最大值）。
func Distance(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Tile 是地图格。探索状态按玩家记录；地权归属用于土地购买。
type Tile struct {
	pos        Position
	exploredBy map[string]bool
	// ownerID 是地权所属玩家（通常是原住民），空串表示无主。
	ownerID string
}

func newTile(x, y int) *Tile {
	return &Tile{
		pos:        Position{X: x, Y: y},
		exploredBy: make(map[string]bool),
	}
}

func (t *Tile) ID() string {
	return fmt.Sprintf("tile(%d,%d)", t.pos.X, t.pos.Y)
}

func (t *Tile) Position() Position {
	return t.pos
}

func (t *Tile) ExploredBy(playerID string) bool {
	return t.exploredBy[playerID]
}

func (t *Tile) SetExplored(playerID string) {
	t.exploredBy[playerID] = true
}

func (t *Tile) OwnerID() string {
	return t.ownerID
}

func (t *Tile) SetOwnerID(id string) {
	t.ownerID = id
}

// GameMap 是矩形地图。
type GameMap struct {
	width  int
	height int
	tiles  [][]*Tile
}

func NewGameMap(width, height int) *GameMap {
	tiles := make([][]*Tile, width)
	for x := 0; x < width; x++ {
		tiles[x] = make([]*Tile, height)
		for y := 0; y < height; y++ {
			tiles[x][y] = newTile(x, y)
		}
	}
	return &GameMap{width: width, height: height, tiles: tiles}
}

func (m *GameMap) Width() int  { return m.width }
func (m *GameMap) Height() int { return m.height }

// Tile 返回坐标处的地图格；越界返回 nil。
func (m *GameMap) Tile(x, y int) *Tile {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return nil
	}
	return m.tiles[x][y]
}

// CircleTiles 返回以 center 为中心、半径 radius 的邻域内的所有格子。
func (m *GameMap) CircleTiles(center Position, includeCenter bool, radius int) []*Tile {
	var out []*Tile
	for x := center.X - radius; x <= center.X+radius; x++ {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			t := m.Tile(x, y)
			if t == nil {
				continue
			}
			if !includeCenter && x == center.X && y == center.Y {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

// Adjacent 判断两格相邻（含对角）。
func Adjacent(a, b *Tile) bool {
	if a == nil || b == nil {
		return false
	}
	d := Distance(a.pos, b.pos)
	return d == 1
}
