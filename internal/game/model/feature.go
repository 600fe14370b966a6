package model

import (
	"sort"

	"NewWorld/internal/game/spec"
)

// ModifierType 决定修正值的合成方式。
type ModifierType int

const (
	ModifierAdditive ModifierType = iota
	ModifierMultiplicative
	ModifierPercentage
)

func ParseModifierType(raw string) ModifierType {
	switch raw {
	case "multiplicative":
		return ModifierMultiplicative
	case "percentage":
		return ModifierPercentage
	default:
		return ModifierAdditive
	}
}

// Ability 是按 id 查询的布尔能力。
type Ability struct {
	id     string
	value  bool
	source string
}

func NewAbility(id string, value bool) *Ability {
	return &Ability{id: id, value: value}
}

func NewAbilityFrom(id string, value bool, source string) *Ability {
	return &Ability{id: id, value: value, source: source}
}

func (a *Ability) ID() string { return a.id }
func (a *Ability) Value() bool { return a.value }
func (a *Ability) Source() string { return a.source }

// Modifier 是按 id 查询的数值修正。
type Modifier struct {
	id      string
	modType ModifierType
	value   float64
	source  string
}

func NewModifier(id string, modType ModifierType, value float64) *Modifier {
	return &Modifier{id: id, modType: modType, value: value}
}

func (m *Modifier) ID() string { return m.id }
func (m *Modifier) Type() ModifierType { return m.modType }
func (m *Modifier) Value() float64 { return m.value }

// Apply 把修正作用到基数上。
func (m *Modifier) Apply(base float64) float64 {
	switch m.modType {
	case ModifierMultiplicative:
		return base * m.value
	case ModifierPercentage:
		return base + base*m.value/100
	default:
		return base + m.value
	}
}

// FeatureContainer 持有玩家/单位/殖民地身上的能力与修正值。
// 同 id 再次加入即替换（规则数据里不存在可合并的重名特性）。
type FeatureContainer struct {
	abilities map[string]*Ability
	modifiers map[string]*Modifier
}

func NewFeatureContainer() *FeatureContainer {
	return &FeatureContainer{
		abilities: make(map[string]*Ability),
		modifiers: make(map[string]*Modifier),
	}
}

func (fc *FeatureContainer) HasAbility(id string) bool {
	a, ok := fc.abilities[id]
	return ok && a.value
}

func (fc *FeatureContainer) GetAbility(id string) *Ability {
	return fc.abilities[id]
}

func (fc *FeatureContainer) GetModifier(id string) *Modifier {
	return fc.modifiers[id]
}

func (fc *FeatureContainer) AddAbility(a *Ability) {
	if a == nil {
		return
	}
	fc.abilities[a.id] = a
}

func (fc *FeatureContainer) AddModifier(m *Modifier) {
	if m == nil {
		return
	}
	fc.modifiers[m.id] = m
}

// AddFeatureDef 把规则数据里声明的特性实例化进容器。
func (fc *FeatureContainer) AddFeatureDef(def *spec.FeatureDef, source string) {
	if def == nil {
		return
	}
	if def.Kind == "modifier" {
		fc.AddModifier(&Modifier{
			id:      def.ID,
			modType: ParseModifierType(def.Type),
			value:   def.Value,
			source:  source,
		})
		return
	}
	fc.AddAbility(&Ability{id: def.ID, value: true, source: source})
}

// ApplyModifier 返回按 id 修正后的数值；无修正时原样返回。
func (fc *FeatureContainer) ApplyModifier(id string, base float64) float64 {
	m := fc.modifiers[id]
	if m == nil {
		return base
	}
	return m.Apply(base)
}

// AbilityIDs 按字典序导出生效的能力 id（序列化用）。
func (fc *FeatureContainer) AbilityIDs() []string {
	out := make([]string, 0, len(fc.abilities))
	for id, a := range fc.abilities {
		if a.value {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
