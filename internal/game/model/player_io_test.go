package model

import (
	"bytes"
	"strings"
	"testing"

	"NewWorld/internal/game/xmlio"
)

func TestPlayerIO_存档全量往返(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(6, 6))
	a := addTestPlayer(t, g, "A", "model.nation.dutch")
	b := addTestPlayer(t, g, "B", "model.nation.french")

	a.ModifyGold(500)
	a.IncrementCrosses(10)
	a.SetTax(15)
	a.SetNewLandName("Nieuw Nederland")
	a.SetContacted(b)
	a.Tension(b).SetValue(123)
	if err := a.SetStance(b, StanceWar); err != nil {
		t.Fatalf("宣战失败: %v", err)
	}
	a.AddFather(g.Spec().FoundingFather("model.foundingFather.jakobFugger"))
	a.SetArrears("model.goods.tobacco")

	var buf bytes.Buffer
	w := xmlio.NewWriter(&buf, xmlio.SaveScope())
	if err := a.WriteTo(w); err != nil {
		t.Fatalf("写出失败: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("flush 失败: %v", err)
	}

	// 读进一局干净对局里的同名玩家
	g2 := newTestGame(t)
	a2 := addTestPlayer(t, g2, "A", "model.nation.dutch")
	b2 := addTestPlayer(t, g2, "B", "model.nation.french")

	r := xmlio.NewReader(bytes.NewReader(buf.Bytes()), g2, nil)
	if _, err := r.FindStart(); err != nil {
		t.Fatalf("定位根元素失败: %v", err)
	}
	if err := a2.ReadFrom(r); err != nil {
		t.Fatalf("读回失败: %v", err)
	}

	if a2.Gold() != 500 || a2.Crosses() != 10 || a2.Tax() != 15 {
		t.Fatalf("基础数值不一致: gold=%d crosses=%d tax=%d", a2.Gold(), a2.Crosses(), a2.Tax())
	}
	if a2.NewLandName() != "Nieuw Nederland" {
		t.Fatalf("newLandName = %s", a2.NewLandName())
	}
	if !a2.HasContacted(b2) {
		t.Fatal("接触位图未恢复")
	}
	if a2.Tension(b2).Value() != a.Tension(b).Value() {
		t.Fatalf("敌意未恢复: %d", a2.Tension(b2).Value())
	}
	if a2.Stance(b2) != StanceWar || b2.Stance(a2) != StanceWar {
		t.Fatal("立场行未恢复进对局矩阵")
	}
	if !a2.HasFather("model.foundingFather.jakobFugger") {
		t.Fatal("国会名单未恢复")
	}
	if a2.Arrears("model.goods.tobacco") != a.Arrears("model.goods.tobacco") {
		t.Fatal("市场欠税未恢复")
	}
}

func TestPlayerIO_客户端视角他人写哨兵(t *testing.T) {
	g := newTestGame(t)
	g.SetMap(NewGameMap(6, 6))
	a := addTestPlayer(t, g, "A", "model.nation.dutch")
	b := addTestPlayer(t, g, "B", "model.nation.french")

	a.ModifyGold(500)
	a.IncrementCrosses(10)

	var buf bytes.Buffer
	w := xmlio.NewWriter(&buf, xmlio.ClientScope(b))
	if err := a.WriteTo(w); err != nil {
		t.Fatalf("写出失败: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("flush 失败: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `gold="-1"`) || !strings.Contains(out, `crosses="-1"`) {
		t.Fatalf("私有数值应写哨兵: %s", out)
	}
	if strings.Contains(out, "<contacts") || strings.Contains(out, "<tension") ||
		strings.Contains(out, "<stances") || strings.Contains(out, "<market") {
		t.Fatalf("接触/敌意/立场/市场不应对他人可见: %s", out)
	}

	g2 := newTestGame(t)
	a2 := addTestPlayer(t, g2, "A", "model.nation.dutch")
	addTestPlayer(t, g2, "B", "model.nation.french")

	r := xmlio.NewReader(bytes.NewReader(buf.Bytes()), g2, nil)
	if _, err := r.FindStart(); err != nil {
		t.Fatalf("定位根元素失败: %v", err)
	}
	if err := a2.ReadFrom(r); err != nil {
		t.Fatalf("读回失败: %v", err)
	}
	if a2.Gold() != -1 || a2.Username() != "A" {
		t.Fatalf("哨兵或公开属性不对: gold=%d username=%s", a2.Gold(), a2.Username())
	}
}

func TestPlayerIO_客户端视角本人写全量(t *testing.T) {
	g := newTestGame(t)
	a := addTestPlayer(t, g, "A", "model.nation.dutch")
	a.ModifyGold(500)

	var buf bytes.Buffer
	w := xmlio.NewWriter(&buf, xmlio.ClientScope(a))
	if err := a.WriteTo(w); err != nil {
		t.Fatalf("写出失败: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("flush 失败: %v", err)
	}
	if !strings.Contains(buf.String(), `gold="500"`) {
		t.Fatalf("本人视角应写全量: %s", buf.String())
	}
}

func TestPlayerIO_老拼法与未知子元素(t *testing.T) {
	g := newTestGame(t)
	a := addTestPlayer(t, g, "A", "model.nation.dutch")

	doc := `<player username="Willem" nationID="model.nation.french" gold="7">` +
		`<somethingNew fancy="true"><inner/></somethingNew>` +
		`</player>`
	r := xmlio.NewReader(strings.NewReader(doc), g, nil)
	if _, err := r.FindStart(); err != nil {
		t.Fatalf("定位根元素失败: %v", err)
	}
	if err := a.ReadFrom(r); err != nil {
		t.Fatalf("未知子元素应被跳过: %v", err)
	}
	if a.Nation().ID != "model.nation.french" {
		t.Fatalf("老拼法 nationID 应被接受, got %s", a.Nation().ID)
	}
	if a.Username() != "Willem" || a.Gold() != 7 {
		t.Fatal("属性读取错误")
	}
}
