package model

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"NewWorld/internal/game/xmlio"
	"NewWorld/modules/kit/logx"
)

// ScoreLevel 是排行榜上的称号段位，按积分门槛降序排列。
type ScoreLevel struct {
	name string
	min  int
}

func (l ScoreLevel) Name() string { return l.name }
func (l ScoreLevel) MinScore() int { return l.min }
func (l ScoreLevel) String() string { return l.name }

// scoreLevels 按门槛从高到低；最后一档门槛为 0，兜住所有积分。
var scoreLevels = []ScoreLevel{
	{"continent", 40000},
	{"country", 35000},
	{"state", 30000},
	{"city", 25000},
	{"mountain_range", 20000},
	{"river", 15000},
	{"institute", 12000},
	{"university", 10000},
	{"street", 8000},
	{"school", 7000},
	{"bird_of_prey", 6000},
	{"tree", 5000},
	{"flower", 4000},
	{"rodent", 3200},
	{"foul_smelling_plant", 2400},
	{"poisonous_plant", 1600},
	{"slime_mold_beetle", 800},
	{"blood_sucking_insect", 400},
	{"infectious_disease", 200},
	{"parasitic_worm", 0},
}

// LevelForScore 取积分够得上的最高段位。
func LevelForScore(score int) ScoreLevel {
	for _, l := range scoreLevels {
		if score >= l.min {
			return l
		}
	}
	return scoreLevels[len(scoreLevels)-1]
}

// LowestScoreLevel 是兜底段位。
func LowestScoreLevel() ScoreLevel {
	return scoreLevels[len(scoreLevels)-1]
}

func ParseScoreLevel(raw string) (ScoreLevel, bool) {
	raw = strings.ToLower(raw)
	for _, l := range scoreLevels {
		if l.name == raw {
			return l, true
		}
	}
	return LowestScoreLevel(), false
}

const (
	highScoreDateLayout  = "2006-01-02 15:04:05-0700"
	highScoreDefaultDate = "2008-01-01 00:00:00+0000"
)

// HighScore 是退休或独立时拍下的一条成绩，落库后不再变化。
type HighScore struct {
	date             time.Time
	retirementTurn   int
	independenceTurn int
	playerName       string
	nationID         string
	nationTypeID     string
	score            int
	level            ScoreLevel
	nationName       string
	newLandName      string
	difficulty       string
	units            int
	colonies         int
}

// NewHighScore 在给定时刻为玩家拍照计分。
func NewHighScore(p *Player, date time.Time) *HighScore {
	h := &HighScore{
		date:             date,
		retirementTurn:   p.Game().Turn(),
		independenceTurn: -1,
		playerName:       p.Username(),
		nationID:         p.Nation().ID,
		nationTypeID:     p.NationType().ID,
		score:            p.Score(),
		level:            LevelForScore(p.Score()),
		nationName:       p.IndependentNationName(),
		newLandName:      p.NewLandName(),
		difficulty:       p.Game().Spec().Difficulty().ID,
		units:            len(p.Units()),
		colonies:         len(p.Colonies()),
	}
	if p.PlayerType() == PlayerIndependent {
		h.independenceTurn = p.Game().Turn()
	}
	return h
}

func (h *HighScore) Date() time.Time { return h.date }
func (h *HighScore) RetirementTurn() int { return h.retirementTurn }
func (h *HighScore) IndependenceTurn() int { return h.independenceTurn }
func (h *HighScore) PlayerName() string { return h.playerName }
func (h *HighScore) NationID() string { return h.nationID }
func (h *HighScore) NationTypeID() string { return h.nationTypeID }
func (h *HighScore) Score() int { return h.score }
func (h *HighScore) Level() ScoreLevel { return h.level }
func (h *HighScore) NationName() string { return h.nationName }
func (h *HighScore) NewLandName() string { return h.newLandName }
func (h *HighScore) Difficulty() string { return h.difficulty }
func (h *HighScore) Units() int { return h.units }
func (h *HighScore) Colonies() int { return h.colonies }

// SortHighScores 按积分降序排名，同分早到者靠前。
func SortHighScores(scores []*HighScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].date.Before(scores[j].date)
	})
}

// WriteTo 只写属性，没有子元素。
func (h *HighScore) WriteTo(w *xmlio.Writer) error {
	if err := w.WriteStartElement("highScore"); err != nil {
		return err
	}
	if err := w.WriteAttribute("date", h.date.Format(highScoreDateLayout)); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("retirementTurn", h.retirementTurn); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("independenceTurn", h.independenceTurn); err != nil {
		return err
	}
	if err := w.WriteAttribute("playerName", h.playerName); err != nil {
		return err
	}
	if err := w.WriteAttribute("nationId", h.nationID); err != nil {
		return err
	}
	if err := w.WriteAttribute("nationTypeId", h.nationTypeID); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("score", h.score); err != nil {
		return err
	}
	if err := w.WriteEnumAttribute("level", h.level); err != nil {
		return err
	}
	if h.nationName != "" {
		if err := w.WriteAttribute("nationName", h.nationName); err != nil {
			return err
		}
	}
	if h.newLandName != "" {
		if err := w.WriteAttribute("newLandName", h.newLandName); err != nil {
			return err
		}
	}
	if err := w.WriteAttribute("difficulty", h.difficulty); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("units", h.units); err != nil {
		return err
	}
	if err := w.WriteIntAttribute("colonies", h.colonies); err != nil {
		return err
	}
	return w.WriteEndElement()
}

// ReadHighScore 从当前元素重建一条成绩。坏属性不让读取失败：
// 告警后落到文档化的默认值。老存档里的 nationID/nationTypeID 拼法照收。
func ReadHighScore(r *xmlio.Reader, log logx.Logger) *HighScore {
	h := &HighScore{
		retirementTurn:   r.IntAttr("retirementTurn", 0),
		independenceTurn: r.IntAttr("independenceTurn", 0),
		playerName:       r.Attr("playerName", "anonymous"),
		nationID:         r.Attr("nationId", ""),
		nationTypeID:     r.Attr("nationTypeId", ""),
		score:            r.IntAttr("score", 0),
		nationName:       r.Attr("nationName", "Freedonia"),
		newLandName:      r.Attr("newLandName", "New World"),
		difficulty:       r.Attr("difficulty", "model.difficulty.medium"),
		units:            r.IntAttr("units", 0),
		colonies:         r.IntAttr("colonies", 0),
	}
	if h.nationID == "" {
		h.nationID = r.Attr("nationID", "model.nation.dutch")
	}
	if h.nationTypeID == "" {
		h.nationTypeID = r.Attr("nationTypeID", "model.nationType.trade")
	}

	raw := r.Attr("date", highScoreDefaultDate)
	date, err := time.Parse(highScoreDateLayout, raw)
	if err != nil {
		if log != nil {
			log.Warn("bad high score date, using default", zap.String("value", raw))
		}
		date, _ = time.Parse(highScoreDateLayout, highScoreDefaultDate)
	}
	h.date = date

	level, ok := ParseScoreLevel(r.Attr("level", ""))
	if !ok && log != nil && r.HasAttr("level") {
		log.Warn("unknown high score level, using lowest band",
			zap.String("value", r.Attr("level", "")))
	}
	h.level = level
	return h
}
