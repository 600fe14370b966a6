package model

import (
	"strconv"

	"go.uber.org/zap"

	"NewWorld/internal/game/xmlio"
)

// 私有数值在客户端视角下对外国玩家写出的哨兵值。
const hiddenValue = -1

// WriteTo 按写入器当前 scope 序列化玩家。
// SAVE 与 SERVER 写全量；CLIENT 只对 scope 的目标玩家写全量，
// 其余玩家的金库、十字架、钟声、移民门槛和积分一律写 -1，
// 接触位图、紧张度与立场行也整体省略。
func (p *Player) WriteTo(w *xmlio.Writer) error {
	if err := w.WriteStartElement("player"); err != nil {
		return err
	}
	if err := w.WriteAttribute("id", p.id); err != nil {
		return err
	}
	if err := w.WriteAttribute("username", p.username); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("index", p.index); err != nil {
		return err
	}
	if err := w.WriteAttribute("nationId", p.nation.ID); err != nil {
		return err
	}
	if err := w.WriteAttribute("nationTypeId", p.nationType.ID); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("color", int(p.nation.Color)); err != nil {
		return err
	}
	if err := w.WriteEnumAttribute("playerType", p.playerType); err != nil {
		return err
	}
	if err := w.WriteBoolAttribute("admin", p.admin); err != nil {
		return err
	}
	if err := w.WriteBoolAttribute("ai", p.ai); err != nil {
		return err
	}
	if err := w.WriteBoolAttribute("ready", p.ready); err != nil {
		return err
	}
	if err := w.WriteBoolAttribute("dead", p.dead); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("tax", p.tax); err != nil {
		return err
	}
	if err := w.WriteBoolAttribute("attackedByPrivateers", p.attackedByPrivateers); err != nil {
		return err
	}

	full := w.SeesAllOf(p)
	gold, crosses, bells, required, score := p.gold, p.crosses, p.bells, p.crossesRequired, p.score
	if !full {
		gold, crosses, bells, required, score = hiddenValue, hiddenValue, hiddenValue, hiddenValue, hiddenValue
	}
	if err := w.WriteIntAttribute("gold", gold); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("crosses", crosses); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("bells", bells); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("crossesRequired", required); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("score", score); err != nil {
		return err
	}

	if full {
		if err := w.WriteIntAttribute("oldSoL", p.oldSoL); err != nil {
			return err
		}
		if p.currentFatherID != "" {
			if err := w.WriteAttribute("currentFather", p.currentFatherID); err != nil {
				return err
			}
		}
		if p.newLandName != "" {
			if err := w.WriteAttribute("newLandName", p.newLandName); err != nil {
				return err
			}
		}
		if p.independentNationName != "" {
			if err := w.WriteAttribute("independentNationName", p.independentNationName); err != nil {
				return err
			}
		}
		if p.entryLocation != nil {
			if err := w.WriteIDAttribute("entryLocation", p.entryLocation); err != nil {
				return err
			}
		}
	}

	if len(p.fatherList) > 0 {
		if err := w.WriteListElement("foundingFathers", p.fatherList); err != nil {
			return err
		}
	}

	if full {
		if err := p.writeRosterVectors(w); err != nil {
			return err
		}
		if p.market != nil {
			if err := p.writeMarket(w); err != nil {
				return err
			}
		}
		if p.europe != nil {
			if err := p.writeEurope(w); err != nil {
				return err
			}
		}
		if p.monarch != nil {
			if err := w.WriteStartElement("monarch"); err != nil {
				return err
			}
			if err := w.WriteAttribute("id", p.monarch.ID()); err != nil {
				return err
			}
			if err := w.WriteAttribute("name", p.monarch.Name()); err != nil {
				return err
			}
			if err := w.WriteEndElement(); err != nil {
				return err
			}
		}
	}
	return w.WriteEndElement()
}

// 接触位图、紧张度与立场行都按名册序号展开成平铺列表。
func (p *Player) writeRosterVectors(w *xmlio.Writer) error {
	var contacts []string
	for i, c := range p.contacted {
		if c {
			contacts = append(contacts, strconv.Itoa(i))
		}
	}
	if err := w.WriteListElement("contacts", contacts); err != nil {
		return err
	}

	tension := make([]string, len(p.tension))
	for i, t := range p.tension {
		tension[i] = strconv.Itoa(t.Value())
	}
	if err := w.WriteListElement("tension", tension); err != nil {
		return err
	}

	stances := make([]string, len(p.game.players))
	for i, other := range p.game.players {
		stances[i] = p.game.Stance(p, other).String()
	}
	return w.WriteListElement("stances", stances)
}

func (p *Player) writeMarket(w *xmlio.Writer) error {
	if err := w.WriteStartElement("market"); err != nil {
		return err
	}
	for _, goodsType := range p.game.rules.GoodsTypes {
		d, ok := p.market.data[goodsType.ID]
		if !ok {
			continue
		}
		if err := w.WriteStartElement("marketData"); err != nil {
			return err
		}
		if err := w.WriteAttribute("goodsType", d.goodsType); err != nil {
			return err
		}
		if err := w.WriteIntAttribute("costToBuy", d.costToBuy); err != nil {
			return err
		}
		if err := w.WriteIntAttribute("paidForSale", d.paidForSale); err != nil {
			return err
		}
		if err := w.WriteIntAttribute("arrears", d.arrears); err != nil {
			return err
		}
		if err := w.WriteIntAttribute("sales", d.sales); err != nil {
			return err
		}
		if err := w.WriteIntAttribute("incomeBeforeTaxes", d.incomeBeforeTaxes); err != nil {
			return err
		}
		if err := w.WriteIntAttribute("incomeAfterTaxes", d.incomeAfterTaxes); err != nil {
			return err
		}
		if err := w.WriteEndElement(); err != nil {
			return err
		}
	}
	return w.WriteEndElement()
}

func (p *Player) writeEurope(w *xmlio.Writer) error {
	if err := w.WriteStartElement("europe"); err != nil {
		return err
	}
	if err := w.WriteAttribute("id", p.europe.ID()); err != nil {
		return err
	}
	if err := w.WriteAttribute("name", p.europe.Name()); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("recruitBasePrice", p.europe.recruitBasePrice); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("recruitPrice", p.europe.recruitPrice); err != nil {
		return err
	}
	if err := w.WriteBoolAttribute("disposed", p.europe.disposed); err != nil {
		return err
	}
	return w.WriteEndElement()
}

// ReadFrom 从当前 player 元素恢复状态。缺失或写成哨兵的属性按
// 读到的值原样落回；老存档的 nationID/nationTypeID 拼法照收；
// 不认识的子元素告警后整棵跳过。
func (p *Player) ReadFrom(r *xmlio.Reader) error {
	p.username = r.Attr("username", p.username)

	nationID := r.Attr("nationId", "")
	if nationID == "" {
		nationID = r.Attr("nationID", "")
	}
	if nationID != "" {
		if n := p.game.rules.Nation(nationID); n != nil {
			p.nation = n
			if nt := p.game.rules.NationType(n.NationType); nt != nil {
				p.nationType = nt
			}
		}
	}

	if pt, err := ParsePlayerType(r.Attr("playerType", p.playerType.String())); err == nil {
		p.playerType = pt
	}
	p.admin = r.BoolAttr("admin", p.admin)
	p.ai = r.BoolAttr("ai", p.ai)
	p.ready = r.BoolAttr("ready", p.ready)
	p.dead = r.BoolAttr("dead", p.dead)
	p.tax = r.IntAttr("tax", p.tax)
	p.attackedByPrivateers = r.BoolAttr("attackedByPrivateers", p.attackedByPrivateers)

	p.gold = r.IntAttr("gold", p.gold)
	p.crosses = r.IntAttr("crosses", p.crosses)
	p.bells = r.IntAttr("bells", p.bells)
	p.crossesRequired = r.IntAttr("crossesRequired", p.crossesRequired)
	p.score = r.IntAttr("score", p.score)
	p.oldSoL = r.IntAttr("oldSoL", p.oldSoL)
	p.currentFatherID = r.Attr("currentFather", p.currentFatherID)
	p.newLandName = r.Attr("newLandName", p.newLandName)
	p.independentNationName = r.Attr("independentNationName", p.independentNationName)
	if t, ok := r.Resolve("entryLocation").(*Tile); ok {
		p.entryLocation = t
	}

	for {
		tag, ok, err := r.NextChild()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch tag {
		case "foundingFathers":
			ids, err := r.ListElement()
			if err != nil {
				return err
			}
			p.fatherList = ids
			p.fathers = make(map[string]bool, len(ids))
			for _, id := range ids {
				p.fathers[id] = true
			}
		case "contacts":
			if err := p.readContacts(r); err != nil {
				return err
			}
		case "tension":
			if err := p.readTension(r); err != nil {
				return err
			}
		case "stances":
			if err := p.readStances(r); err != nil {
				return err
			}
		case "market":
			if err := p.readMarket(r); err != nil {
				return err
			}
		case "europe":
			p.readEurope(r)
			if err := r.Skip(); err != nil {
				return err
			}
		case "monarch":
			if p.monarch == nil {
				p.monarch = &Monarch{}
			}
			p.monarch.id = r.Attr("id", p.monarch.id)
			p.monarch.name = r.Attr("name", p.monarch.name)
			if err := r.Skip(); err != nil {
				return err
			}
		default:
			if p.game.log != nil {
				p.game.log.Warn("unknown player child element, skipping",
					zap.String("tag", tag), zap.String("playerId", p.id))
			}
			if err := r.Skip(); err != nil {
				return err
			}
		}
	}
}

func (p *Player) readContacts(r *xmlio.Reader) error {
	ids, err := r.ListElement()
	if err != nil {
		return err
	}
	p.growRoster(len(p.game.players))
	for i := range p.contacted {
		p.contacted[i] = false
	}
	for _, raw := range ids {
		i, err := strconv.Atoi(raw)
		if err != nil || i < 0 {
			continue
		}
		p.growRoster(i + 1)
		p.contacted[i] = true
	}
	return nil
}

func (p *Player) readTension(r *xmlio.Reader) error {
	values, err := r.ListElement()
	if err != nil {
		return err
	}
	p.growRoster(len(values))
	for i, raw := range values {
		v, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		p.tension[i].SetValue(v)
	}
	return nil
}

func (p *Player) readStances(r *xmlio.Reader) error {
	values, err := r.ListElement()
	if err != nil {
		return err
	}
	for i, raw := range values {
		other := p.game.PlayerByIndex(i)
		if other == nil || other == p {
			continue
		}
		s, err := ParseStance(raw)
		if err != nil {
			continue
		}
		p.game.setStance(p, other, s)
	}
	return nil
}

func (p *Player) readMarket(r *xmlio.Reader) error {
	if p.market == nil {
		p.market = newMarket(p)
	}
	for {
		tag, ok, err := r.NextChild()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if tag != "marketData" {
			if err := r.Skip(); err != nil {
				return err
			}
			continue
		}
		goodsType := r.Attr("goodsType", "")
		d := p.market.Data(goodsType)
		d.costToBuy = r.IntAttr("costToBuy", d.costToBuy)
		d.paidForSale = r.IntAttr("paidForSale", d.paidForSale)
		d.arrears = r.IntAttr("arrears", d.arrears)
		d.sales = r.IntAttr("sales", d.sales)
		d.incomeBeforeTaxes = r.IntAttr("incomeBeforeTaxes", d.incomeBeforeTaxes)
		d.incomeAfterTaxes = r.IntAttr("incomeAfterTaxes", d.incomeAfterTaxes)
		if err := r.Skip(); err != nil {
			return err
		}
	}
}

func (p *Player) readEurope(r *xmlio.Reader) {
	if p.europe == nil {
		p.europe = &Europe{owner: p}
	}
	p.europe.id = r.Attr("id", p.europe.id)
	p.europe.name = r.Attr("name", p.europe.name)
	p.europe.recruitBasePrice = r.IntAttr("recruitBasePrice", p.europe.recruitBasePrice)
	p.europe.recruitPrice = r.IntAttr("recruitPrice", p.europe.recruitPrice)
	p.europe.disposed = r.BoolAttr("disposed", p.europe.disposed)
}
