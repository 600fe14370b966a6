package model

import (
	"errors"
	"testing"

	"NewWorld/internal/game/options"
	"NewWorld/internal/game/spec"
)

func TestSetStance_对称生效且只通知一次(t *testing.T) {
	g := newTestGame(t)
	ctrl := &recordingController{}
	g.SetController(ctrl)
	a := addTestPlayer(t, g, "A", "model.nation.dutch")
	b := addTestPlayer(t, g, "B", "model.nation.french")

	if err := a.SetStance(b, StanceWar); err != nil {
		t.Fatalf("宣战失败: %v", err)
	}
	if a.Stance(b) != StanceWar || b.Stance(a) != StanceWar {
		t.Fatalf("立场不对称: a=%v b=%v", a.Stance(b), b.Stance(a))
	}
	if got := a.Tension(b).Value(); got != TensionAddDeclareWarFromPeace {
		t.Fatalf("和平转战争的敌意增量 = %d, 期望 %d", got, TensionAddDeclareWarFromPeace)
	}
	if got := b.Tension(a).Value(); got != TensionAddDeclareWarFromPeace {
		t.Fatalf("对方敌意增量 = %d, 期望 %d", got, TensionAddDeclareWarFromPeace)
	}
	if len(ctrl.stanceChanges) != 1 {
		t.Fatalf("控制器收到 %d 次通知, 期望 1", len(ctrl.stanceChanges))
	}
}

func TestSetStance_停火只能从战争进入(t *testing.T) {
	g := newTestGame(t)
	a := addTestPlayer(t, g, "A", "model.nation.dutch")
	b := addTestPlayer(t, g, "B", "model.nation.french")

	if err := a.SetStance(b, StanceCeaseFire); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("和平直接停火应失败, err=%v", err)
	}
	if err := a.SetStance(b, StanceWar); err != nil {
		t.Fatalf("宣战失败: %v", err)
	}
	if err := a.SetStance(b, StanceCeaseFire); err != nil {
		t.Fatalf("战争转停火应成功: %v", err)
	}
	// 停火再宣战的增量更大。先清零避免撞上刻度上限。
	a.Tension(b).SetValue(0)
	b.Tension(a).SetValue(0)
	if err := a.SetStance(b, StanceWar); err != nil {
		t.Fatalf("再次宣战失败: %v", err)
	}
	if got := a.Tension(b).Value(); got != TensionAddDeclareWarFromCeaseFire {
		t.Fatalf("停火转战争的敌意增量 = %d, 期望 %d", got, TensionAddDeclareWarFromCeaseFire)
	}
}

func TestSetStance_重复设置是无动作(t *testing.T) {
	g := newTestGame(t)
	ctrl := &recordingController{}
	g.SetController(ctrl)
	a := addTestPlayer(t, g, "A", "model.nation.dutch")
	b := addTestPlayer(t, g, "B", "model.nation.french")

	if err := a.SetStance(b, StancePeace); err != nil {
		t.Fatalf("设置当前立场应是无动作: %v", err)
	}
	if a.Tension(b).Value() != 0 || len(ctrl.stanceChanges) != 0 {
		t.Fatal("无动作路径不应有敌意变化或通知")
	}
	if err := a.SetStance(a, StanceWar); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("对自身设置立场应失败, err=%v", err)
	}
}

func TestModifyGold_不允许透支(t *testing.T) {
	g := newTestGame(t)
	a := addTestPlayer(t, g, "A", "model.nation.dutch")
	a.ModifyGold(100)
	a.ModifyGold(-250)
	if a.Gold() != 0 {
		t.Fatalf("gold = %d, 期望收敛到 0", a.Gold())
	}
	if !a.CheckGold(0) || a.CheckGold(1) {
		t.Fatal("CheckGold 判断错误")
	}
}

func TestCanSee_战争迷雾下按视距重建(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(10, 10))
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	u, err := g.CreateUnit(a, "model.unit.frigate", g.Map().Tile(5, 5))
	if err != nil {
		t.Fatalf("创建单位失败: %v", err)
	}
	if !a.CanSee(g.Map().Tile(5, 5)) {
		t.Fatal("自身所在格应可见")
	}
	if !a.CanSee(g.Map().Tile(7, 5)) {
		t.Fatal("视距 2 内应可见")
	}
	if a.CanSee(g.Map().Tile(8, 5)) {
		t.Fatal("视距外不应可见")
	}

	u.SetTile(g.Map().Tile(1, 1))
	if a.CanSee(g.Map().Tile(5, 5)) {
		t.Fatal("移动后旧位置应不可见")
	}
	if !a.CanSee(g.Map().Tile(1, 2)) {
		t.Fatal("新位置邻格应可见")
	}
}

func TestCanSee_关迷雾时等于已探索格(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(4, 4))
	g.Options().Set(options.KeyFogOfWar, false)
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	g.Map().Tile(3, 3).SetExplored(a.ID())
	a.InvalidateCanSeeTiles()
	if !a.CanSee(g.Map().Tile(3, 3)) {
		t.Fatal("已探索格应可见")
	}
	if a.CanSee(g.Map().Tile(0, 0)) {
		t.Fatal("未探索格不应可见")
	}
}

func TestDeclareIndependence_自由之子门槛(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(4, 4))
	a := addTestPlayer(t, g, "A", "model.nation.dutch")
	addTestPlayer(t, g, "REF", "model.nation.dutchREF")

	c, err := a.FoundColony("", g.Map().Tile(1, 1))
	if err != nil {
		t.Fatalf("建殖民地失败: %v", err)
	}
	c.SetSoL(49)
	if err := a.DeclareIndependence(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("SoL=49 应失败, err=%v", err)
	}

	c.SetSoL(50)
	if err := a.DeclareIndependence(); err != nil {
		t.Fatalf("SoL=50 应成功: %v", err)
	}
	if a.PlayerType() != PlayerRebel {
		t.Fatalf("playerType = %v, 期望 rebel", a.PlayerType())
	}
	if !a.HasAbility(spec.AbilityIndependenceDeclared) {
		t.Fatal("应获得 independenceDeclared 能力")
	}
	ref := a.REFPlayer()
	if ref == nil || a.Stance(ref) != StanceWar {
		t.Fatal("应与王军开战")
	}
	if a.Tax() != 0 {
		t.Fatalf("tax = %d, 期望 0", a.Tax())
	}
	if !a.Europe().Disposed() {
		t.Fatal("母港应被关闭")
	}

	if err := a.GiveIndependence(); err != nil {
		t.Fatalf("承认独立失败: %v", err)
	}
	if a.PlayerType() != PlayerIndependent || a.Stance(ref) != StancePeace {
		t.Fatal("独立后应与王军恢复和平")
	}
}

func TestDeclareIndependence_扣押欧洲单位并晋升老兵(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(4, 4))
	a := addTestPlayer(t, g, "A", "model.nation.dutch")
	addTestPlayer(t, g, "REF", "model.nation.dutchREF")

	c, _ := a.FoundColony("", g.Map().Tile(1, 1))
	c.SetSoL(100)

	seized, _ := g.CreateUnit(a, "model.unit.freeColonist", nil)
	seized.SetInEurope()
	var veterans []*Unit
	for i := 0; i < 4; i++ {
		v, _ := g.CreateUnit(a, "model.unit.veteranSoldier", g.Map().Tile(1, 1))
		veterans = append(veterans, v)
	}

	if err := a.DeclareIndependence(); err != nil {
		t.Fatalf("宣布独立失败: %v", err)
	}
	if !seized.Disposed() {
		t.Fatal("滞留欧洲的单位应被扣押销毁")
	}
	// 4 名老兵 × (100-50)/100 = 2 名晋升
	promoted := 0
	for _, v := range veterans {
		if v.Type().ID == "model.unit.colonialRegular" {
			promoted++
		}
	}
	if promoted != 2 {
		t.Fatalf("晋升 %d 名, 期望 2", promoted)
	}
}

func TestRepairLocation_取最近修船点且等距保持先来顺序(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(12, 12))
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	first, _ := a.FoundColony("First", g.Map().Tile(2, 0))
	first.AddBuilding("model.building.drydock")
	second, _ := a.FoundColony("Second", g.Map().Tile(0, 2))
	second.AddBuilding("model.building.drydock")
	far, _ := a.FoundColony("Far", g.Map().Tile(9, 9))
	far.AddBuilding("model.building.drydock")

	u, _ := g.CreateUnit(a, "model.unit.frigate", g.Map().Tile(0, 0))
	loc, err := a.RepairLocation(u)
	if err != nil {
		t.Fatalf("取维修点失败: %v", err)
	}
	if loc != Location(first) {
		t.Fatalf("等距时应取先建立的殖民地, got %s", loc.ID())
	}

	land, _ := g.CreateUnit(a, "model.unit.freeColonist", g.Map().Tile(0, 0))
	if _, err := a.RepairLocation(land); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("陆军求维修点应失败, err=%v", err)
	}
}

func TestDefaultColonyName_先走预设名单再落编号(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(8, 8))
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	if name := a.DefaultColonyName(); name != "NewAmsterdam" {
		t.Fatalf("第一个名字 = %s", name)
	}
	if name := a.DefaultColonyName(); name != "FortOrange" {
		t.Fatalf("第二个名字 = %s", name)
	}
	if name := a.DefaultColonyName(); name != "Colony3" {
		t.Fatalf("名单用尽后 = %s", name)
	}
}

func TestArrears_欠税与交易资格(t *testing.T) {
	g := newTestGame(t)
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	const tobacco = "model.goods.tobacco"
	if !a.CanTrade(tobacco, MarketEurope) {
		t.Fatal("无欠税时应可交易")
	}
	a.SetArrears(tobacco)
	// arrearsFactor(2) × 100 × paidForSale(2)
	if got := a.Arrears(tobacco); got != 400 {
		t.Fatalf("arrears = %d, 期望 400", got)
	}
	if a.CanTrade(tobacco, MarketEurope) {
		t.Fatal("欠税后欧洲市场应被封死")
	}
	if a.CanTrade(tobacco, MarketCustomHouse) {
		t.Fatal("默认配置下海关也不能出货")
	}
	g.Options().Set(options.KeyCustomIgnoreBoycott, true)
	if !a.CanTrade(tobacco, MarketCustomHouse) {
		t.Fatal("开了无视抵制后海关应可出货")
	}
	a.Market().ResetAllArrears()
	if a.Arrears(tobacco) != 0 {
		t.Fatal("清欠后 arrears 应为 0")
	}
}

func TestCheckEmigrate_十字架门槛(t *testing.T) {
	g := newTestGame(t)
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	required := a.CrossesRequired()
	if required == 0 {
		t.Fatal("殖民阶段的移民门槛应大于 0")
	}
	a.IncrementCrosses(required - 1)
	if a.CheckEmigrate() {
		t.Fatal("未到门槛不应移民")
	}
	a.IncrementCrosses(1)
	if !a.CheckEmigrate() {
		t.Fatal("到门槛应移民")
	}
	a.ReduceCrosses()
	a.UpdateCrossesRequired()
	if a.Crosses() != 0 {
		t.Fatalf("默认配置下移民后十字架应清零, got %d", a.Crosses())
	}
	if a.CrossesRequired() <= required {
		t.Fatal("门槛应逐次抬高")
	}
}

func TestAddFather_入阁事件逐条兑现(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(6, 6))
	a := addTestPlayer(t, g, "A", "model.nation.dutch")
	c, _ := a.FoundColony("", g.Map().Tile(2, 2))
	c.SetSoL(20)

	a.SetArrears("model.goods.tobacco")
	a.AddFather(g.Spec().FoundingFather("model.foundingFather.jakobFugger"))
	if a.Arrears("model.goods.tobacco") != 0 {
		t.Fatal("boycottsLifted 应清空全部欠税")
	}

	a.AddFather(g.Spec().FoundingFather("model.foundingFather.williamBrewster"))
	if !c.HasBuilding("model.building.chapel") {
		t.Fatal("freeBuilding 应补齐缺失建筑")
	}
	if c.SoL() != 30 {
		t.Fatalf("increaseSonsOfLiberty 后 SoL = %d, 期望 30", c.SoL())
	}
	if !a.HasFather("model.foundingFather.jakobFugger") || len(a.Fathers()) != 2 {
		t.Fatal("国会名单不完整")
	}
}

func TestUnitView_折返一次后复位(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(6, 6))
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	u1, _ := g.CreateUnit(a, "model.unit.freeColonist", g.Map().Tile(1, 1))
	u2, _ := g.CreateUnit(a, "model.unit.freeColonist", g.Map().Tile(2, 2))

	view := a.ActiveUnits()
	first := view.Next()
	second := view.Next()
	if first == nil || second == nil || first == second {
		t.Fatal("两个活跃单位应依次命中")
	}
	// 折返回开头
	if view.Next() != first {
		t.Fatal("游标应折返到第一个单位")
	}

	u1.SetMovesLeft(0)
	u2.SetDestination("somewhere")
	if view.Next() != nil {
		t.Fatal("无命中时应返回 nil")
	}
	if !a.GoingToUnits().HasNext() {
		t.Fatal("设了目的地的单位应进 going-to 视图")
	}
}

func TestNewTurn_原住民敌意衰减(t *testing.T) {
	g := newTestGame(t)
	tupi := addTestPlayer(t, g, "T", "model.nation.tupi")
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	tupi.Tension(a).SetValue(500)
	tupi.NewTurn()
	// 500 - (4 + 500/100) = 491
	if got := tupi.Tension(a).Value(); got != 491 {
		t.Fatalf("衰减后敌意 = %d, 期望 491", got)
	}
}

func TestNewTurn_欧洲玩家重算积分(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(6, 6))
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	u, _ := g.CreateUnit(a, "model.unit.freeColonist", g.Map().Tile(1, 1))
	u.SetInWorkLocation(true)
	g.CreateUnit(a, "model.unit.frigate", g.Map().Tile(2, 2))
	a.ModifyGold(3000)

	a.NewTurn()
	// 2×2（工作地翻倍）+ 6 + 3000/1000
	if a.Score() != 13 {
		t.Fatalf("score = %d, 期望 13", a.Score())
	}
}

func TestModifyTension_警戒扩散不含来源聚落(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(8, 8))
	tupi := addTestPlayer(t, g, "T", "model.nation.tupi")
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	origin := &IndianSettlement{
		baseSettlement: baseSettlement{id: "is:1", name: "origin", tile: g.Map().Tile(1, 1), lineOfSight: 2},
		alarm:          map[string]*Tension{},
	}
	other := &IndianSettlement{
		baseSettlement: baseSettlement{id: "is:2", name: "other", tile: g.Map().Tile(5, 5), lineOfSight: 2},
		alarm:          map[string]*Tension{},
	}
	tupi.AddSettlement(origin)
	tupi.AddSettlement(other)

	tupi.ModifyTension(a, 200, origin)
	if tupi.Tension(a).Value() != 200 {
		t.Fatalf("主敌意 = %d, 期望 200", tupi.Tension(a).Value())
	}
	if origin.Alarm(a.ID()).Value() != 0 {
		t.Fatal("来源聚落不应收到扩散")
	}
	if other.Alarm(a.ID()).Value() != 100 {
		t.Fatalf("其余聚落应收到一半扩散, got %d", other.Alarm(a.ID()).Value())
	}
}

func TestBuyLand_价款转入原住民金库(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(4, 4))
	tupi := addTestPlayer(t, g, "T", "model.nation.tupi")
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	tile := g.Map().Tile(2, 2)
	tile.SetOwnerID(tupi.ID())
	price := a.LandPrice(tile)
	if price <= 0 {
		t.Fatalf("地价 = %d, 应为正", price)
	}
	a.ModifyGold(price)
	if err := a.BuyLand(tile); err != nil {
		t.Fatalf("购地失败: %v", err)
	}
	if tile.OwnerID() != a.ID() || tupi.Gold() != price || a.Gold() != 0 {
		t.Fatal("购地后的地权或金库不对")
	}
	if err := a.BuyLand(tile); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("重复购地应失败, err=%v", err)
	}
}
