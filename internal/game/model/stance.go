package model

import "fmt"

// Stance 是两名玩家之间的外交关系。
type Stance int

const (
	StanceWar Stance = iota
	StanceCeaseFire
	StancePeace
	StanceAlliance
)

var stanceNames = map[Stance]string{
	StanceWar:       "war",
	StanceCeaseFire: "cease_fire",
	StancePeace:     "peace",
	StanceAlliance:  "alliance",
}

func (s Stance) String() string {
	if name, ok := stanceNames[s]; ok {
		return name
	}
	return "unknown"
}

func ParseStance(raw string) (Stance, error) {
	for s, name := range stanceNames {
		if name == raw {
			return s, nil
		}
	}
	return StancePeace, fmt.Errorf("unknown stance %q", raw)
}
