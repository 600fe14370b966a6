package spec

import "fmt"

// Specification 是只读的规则数据：国家、兵种、货物、建筑、开国元勋与难度档。
// 模型层只通过它查询规则，不反向修改。
type Specification struct {
	DefaultDifficulty string             `yaml:"difficulty"`
	GoodsTypes        []*GoodsType       `yaml:"goodsTypes"`
	UnitTypes         []*UnitType        `yaml:"unitTypes"`
	BuildingTypes     []*BuildingType    `yaml:"buildingTypes"`
	Nations           []*Nation          `yaml:"nations"`
	NationTypes       []*NationType      `yaml:"nationTypes"`
	FoundingFathers   []*FoundingFather  `yaml:"foundingFathers"`
	DifficultyLevels  []*DifficultyLevel `yaml:"difficultyLevels"`

	difficulty *DifficultyLevel

	goodsByID    map[string]*GoodsType
	unitsByID    map[string]*UnitType
	buildingByID map[string]*BuildingType
	nationByID   map[string]*Nation
	natTypeByID  map[string]*NationType
	fatherByID   map[string]*FoundingFather
	diffByID     map[string]*DifficultyLevel
}

type GoodsType struct {
	ID           string `yaml:"id"`
	Storable     bool   `yaml:"storable"`
	InitialPrice int    `yaml:"initialPrice"`
	// PaidForSale 是海关初始收购价（市场行情基准）。
	PaidForSale int `yaml:"paidForSale"`
}

type UnitType struct {
	ID          string   `yaml:"id"`
	ScoreValue  int      `yaml:"scoreValue"`
	Moves       int      `yaml:"moves"`
	LineOfSight int      `yaml:"lineOfSight"`
	Naval       bool     `yaml:"naval"`
	RecruitCost int      `yaml:"recruitCost"`
	Abilities   []string `yaml:"abilities"`
	// Promotion 是晋升后的兵种 id（独立战争老兵晋升用），可为空。
	Promotion string `yaml:"promotion"`
}

func (t *UnitType) HasAbility(id string) bool {
	for _, a := range t.Abilities {
		if a == id {
			return true
		}
	}
	return false
}

type BuildingType struct {
	ID        string   `yaml:"id"`
	Abilities []string `yaml:"abilities"`
}

type Nation struct {
	ID          string   `yaml:"id"`
	NationType  string   `yaml:"nationType"`
	Color       int32    `yaml:"color"`
	RulerName   string   `yaml:"rulerName"`
	ColonyNames []string `yaml:"colonyNames"`
	// REFNation 是宣布独立后对阵的王军玩家国家 id。
	REFNation string `yaml:"refNation"`
}

type NationType struct {
	ID        string        `yaml:"id"`
	European  bool          `yaml:"european"`
	REF       bool          `yaml:"ref"`
	Abilities []string      `yaml:"abilities"`
	Modifiers []*FeatureDef `yaml:"modifiers"`
}

func (t *NationType) HasAbility(id string) bool {
	for _, a := range t.Abilities {
		if a == id {
			return true
		}
	}
	return false
}

// FeatureDef 描述规则数据里声明的能力/修正值，由模型层实例化进 FeatureContainer。
type FeatureDef struct {
	ID    string  `yaml:"id"`
	Kind  string  `yaml:"kind"` // ability | modifier
	Type  string  `yaml:"type"` // additive | multiplicative | percentage
	Value float64 `yaml:"value"`
}

type FoundingFather struct {
	ID       string        `yaml:"id"`
	Type     string        `yaml:"type"` // trade/exploration/military/political/religious
	Features []*FeatureDef `yaml:"features"`
	// Units 是入阁时在欧洲赠送的兵种 id。
	Units []string `yaml:"units"`
	// Upgrades 把现役兵种整体升级：from -> to。
	Upgrades map[string]string `yaml:"upgrades"`
	Events   []*Event          `yaml:"events"`
}

type Event struct {
	Kind  EventKind `yaml:"kind"`
	Value string    `yaml:"value"`
}

type DifficultyLevel struct {
	ID                   string `yaml:"id"`
	ArrearsFactor        int    `yaml:"arrearsFactor"`
	FoundingFatherFactor int    `yaml:"foundingFatherFactor"`
	CrossesIncrement     int    `yaml:"crossesIncrement"`
	LandPriceFactor      int    `yaml:"landPriceFactor"`
}

// 模型层引用的规则 id。
const (
	AbilityIndependenceDeclared = "model.ability.independenceDeclared"
	AbilityRepairShips          = "model.ability.repairShips"
	AbilityExpertSoldier        = "model.ability.expertSoldier"
	AbilityVeteranUnit          = "model.ability.veteranUnit"

	ModifierLandPayment     = "model.modifier.landPaymentModifier"
	ModifierReligiousUnrest = "model.modifier.religiousUnrestBonus"

	BuildingCustomHouse = "model.building.customHouse"
)

// finish 建索引并选定难度档。
func (s *Specification) finish() error {
	s.goodsByID = make(map[string]*GoodsType, len(s.GoodsTypes))
	for _, g := range s.GoodsTypes {
		s.goodsByID[g.ID] = g
	}
	s.unitsByID = make(map[string]*UnitType, len(s.UnitTypes))
	for _, u := range s.UnitTypes {
		s.unitsByID[u.ID] = u
	}
	s.buildingByID = make(map[string]*BuildingType, len(s.BuildingTypes))
	for _, b := range s.BuildingTypes {
		s.buildingByID[b.ID] = b
	}
	s.nationByID = make(map[string]*Nation, len(s.Nations))
	for _, n := range s.Nations {
		s.nationByID[n.ID] = n
	}
	s.natTypeByID = make(map[string]*NationType, len(s.NationTypes))
	for _, n := range s.NationTypes {
		s.natTypeByID[n.ID] = n
	}
	s.fatherByID = make(map[string]*FoundingFather, len(s.FoundingFathers))
	for _, f := range s.FoundingFathers {
		s.fatherByID[f.ID] = f
	}
	s.diffByID = make(map[string]*DifficultyLevel, len(s.DifficultyLevels))
	for _, d := range s.DifficultyLevels {
		s.diffByID[d.ID] = d
	}

	if len(s.DifficultyLevels) == 0 {
		return fmt.Errorf("specification has no difficulty levels")
	}
	s.difficulty = s.diffByID[s.DefaultDifficulty]
	if s.difficulty == nil {
		s.difficulty = s.DifficultyLevels[len(s.DifficultyLevels)/2]
	}
	return nil
}

func (s *Specification) GoodsType(id string) *GoodsType {
	return s.goodsByID[id]
}

func (s *Specification) UnitType(id string) *UnitType {
	return s.unitsByID[id]
}

func (s *Specification) BuildingType(id string) *BuildingType {
	return s.buildingByID[id]
}

func (s *Specification) Nation(id string) *Nation {
	return s.nationByID[id]
}

func (s *Specification) NationType(id string) *NationType {
	return s.natTypeByID[id]
}

func (s *Specification) FoundingFather(id string) *FoundingFather {
	return s.fatherByID[id]
}

// Difficulty 返回当前难度档。
func (s *Specification) Difficulty() *DifficultyLevel {
	return s.difficulty
}

// SelectDifficulty 按序号切换难度档；越界时取就近档位。
func (s *Specification) SelectDifficulty(index int) {
	if len(s.DifficultyLevels) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(s.DifficultyLevels) {
		index = len(s.DifficultyLevels) - 1
	}
	s.difficulty = s.DifficultyLevels[index]
}
