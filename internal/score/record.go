package score

import (
	"time"

	"NewWorld/internal/game/model"
)

// Record 是名人堂里的一行：玩家退役或独立时的结算快照。
type Record struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	PlayerName       string    `gorm:"size:64;index" json:"playerName"`
	NationID         string    `gorm:"size:64" json:"nationId"`
	NationTypeID     string    `gorm:"size:64" json:"nationTypeId"`
	NationName       string    `gorm:"size:64" json:"nationName,omitempty"`
	NewLandName      string    `gorm:"size:64" json:"newLandName,omitempty"`
	Score            int       `gorm:"index" json:"score"`
	Level            string    `gorm:"size:32" json:"level"`
	Date             time.Time `json:"date"`
	RetirementTurn   int       `json:"retirementTurn"`
	IndependenceTurn int       `json:"independenceTurn"`
	Difficulty       string    `gorm:"size:64" json:"difficulty"`
	Units            int       `json:"units"`
	Colonies         int       `json:"colonies"`
}

func (Record) TableName() string {
	return "high_scores"
}

func newRecord(h *model.HighScore) *Record {
	return &Record{
		PlayerName:       h.PlayerName(),
		NationID:         h.NationID(),
		NationTypeID:     h.NationTypeID(),
		NationName:       h.NationName(),
		NewLandName:      h.NewLandName(),
		Score:            h.Score(),
		Level:            h.Level().Name(),
		Date:             h.Date(),
		RetirementTurn:   h.RetirementTurn(),
		IndependenceTurn: h.IndependenceTurn(),
		Difficulty:       h.Difficulty(),
		Units:            h.Units(),
		Colonies:         h.Colonies(),
	}
}
