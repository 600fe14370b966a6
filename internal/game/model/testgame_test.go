package model

import (
	"testing"

	"NewWorld/internal/game/options"
	"NewWorld/internal/game/spec"
	"NewWorld/modules/kit/logx"
)

const testRulesYAML = `
difficulty: model.difficulty.medium
difficultyLevels:
  - id: model.difficulty.easy
    arrearsFactor: 1
    foundingFatherFactor: 6
    crossesIncrement: 6
    landPriceFactor: 2
  - id: model.difficulty.medium
    arrearsFactor: 2
    foundingFatherFactor: 7
    crossesIncrement: 8
    landPriceFactor: 3
goodsTypes:
  - id: model.goods.tobacco
    storable: true
    initialPrice: 3
    paidForSale: 2
  - id: model.goods.furs
    storable: true
    initialPrice: 4
    paidForSale: 3
unitTypes:
  - id: model.unit.freeColonist
    scoreValue: 2
    moves: 3
    lineOfSight: 1
  - id: model.unit.frigate
    scoreValue: 6
    moves: 6
    lineOfSight: 2
    naval: true
  - id: model.unit.veteranSoldier
    scoreValue: 4
    moves: 3
    lineOfSight: 1
    abilities: [model.ability.expertSoldier]
    promotion: model.unit.colonialRegular
  - id: model.unit.colonialRegular
    scoreValue: 5
    moves: 3
    lineOfSight: 1
buildingTypes:
  - id: model.building.drydock
    abilities: [model.ability.repairShips]
  - id: model.building.customHouse
  - id: model.building.chapel
nationTypes:
  - id: model.nationType.trade
    european: true
  - id: model.nationType.ref
    european: true
    ref: true
  - id: model.nationType.tupi
    european: false
nations:
  - id: model.nation.dutch
    nationType: model.nationType.trade
    rulerName: Willem
    colonyNames: [NewAmsterdam, FortOrange]
    refNation: model.nation.dutchREF
  - id: model.nation.french
    nationType: model.nationType.trade
    rulerName: Louis
    colonyNames: [Quebec]
    refNation: model.nation.frenchREF
  - id: model.nation.dutchREF
    nationType: model.nationType.ref
  - id: model.nation.frenchREF
    nationType: model.nationType.ref
  - id: model.nation.tupi
    nationType: model.nationType.tupi
foundingFathers:
  - id: model.foundingFather.jakobFugger
    type: trade
    events:
      - kind: boycottsLifted
  - id: model.foundingFather.williamBrewster
    type: religious
    events:
      - kind: freeBuilding
        value: model.building.chapel
      - kind: increaseSonsOfLiberty
        value: "10"
`

func testRules(t *testing.T) *spec.Specification {
	t.Helper()
	rules, err := spec.Load([]byte(testRulesYAML))
	if err != nil {
		t.Fatalf("加载测试规则失败: %v", err)
	}
	return rules
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	log := logx.NewZapLogger(nil)
	opts := options.New(log)
	return NewGame(testRules(t), opts, log)
}

func addTestPlayer(t *testing.T, g *Game, id, nationID string) *Player {
	t.Helper()
	p, err := g.AddPlayer(id, id, nationID)
	if err != nil {
		t.Fatalf("加入玩家 %s 失败: %v", id, err)
	}
	return p
}

// recordingController 记录模型回调，供断言通知次数与内容。
type recordingController struct {
	stanceChanges []stanceChange
	moved         []string
	disposed      []string
}

type stanceChange struct {
	first, second string
	old, now      Stance
}

func (c *recordingController) StanceChanged(first, second *Player, old, now Stance) {
	c.stanceChanges = append(c.stanceChanges, stanceChange{first.ID(), second.ID(), old, now})
}

func (c *recordingController) UnitMoved(u *Unit) {
	c.moved = append(c.moved, u.ID())
}

func (c *recordingController) UnitDisposed(u *Unit) {
	c.disposed = append(c.disposed, u.ID())
}
