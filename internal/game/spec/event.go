package spec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// EventKind 是开国元勋入阁事件的判别值。
type EventKind int

const (
	EventUnknown EventKind = iota
	EventResetNativeAlarm
	EventBoycottsLifted
	EventFreeBuilding
	EventSeeAllColonies
	EventIncreaseSonsOfLiberty
)

var eventKindNames = map[EventKind]string{
	EventResetNativeAlarm:      "resetNativeAlarm",
	EventBoycottsLifted:        "boycottsLifted",
	EventFreeBuilding:          "freeBuilding",
	EventSeeAllColonies:        "seeAllColonies",
	EventIncreaseSonsOfLiberty: "increaseSonsOfLiberty",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return "unknown"
}

func ParseEventKind(s string) (EventKind, error) {
	for k, name := range eventKindNames {
		if name == s {
			return k, nil
		}
	}
	return EventUnknown, fmt.Errorf("unknown event kind %q", s)
}

// UnmarshalYAML 让规则数据直接写事件名。
func (k *EventKind) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseEventKind(raw)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
