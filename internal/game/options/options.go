package options

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"NewWorld/modules/kit/logx"
)

// 对局选项 id。
const (
	KeyDifficulty             = "difficulty"
	KeyFogOfWar               = "fogOfWar"
	KeySaveProductionOverflow = "saveProductionOverflow"
	KeyCustomIgnoreBoycott    = "customIgnoreBoycott"
	KeyStartingMoney          = "startingMoney"
	// KeyIndependenceSoL 是宣布独立所需的自由之子百分比。
	KeyIndependenceSoL = "independenceSoL"
)

// declaredDefaults 是注册表：未知 id 一律按声明的默认值读取。
var declaredDefaults = map[string]any{
	KeyDifficulty:             2,
	KeyFogOfWar:               true,
	KeySaveProductionOverflow: false,
	KeyCustomIgnoreBoycott:    false,
	KeyStartingMoney:          0,
	KeyIndependenceSoL:        50,
}

// percentageKeys 标记按百分比解释的选项，写入时收敛到 0..100。
var percentageKeys = map[string]bool{
	KeyIndependenceSoL: true,
}

// GameOptions 是对局选项注册表，底层用独立的 viper 实例承载。
type GameOptions struct {
	v   *viper.Viper
	log logx.Logger
}

func New(log logx.Logger) *GameOptions {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	v := viper.New()
	for key, def := range declaredDefaults {
		v.SetDefault(key, def)
	}
	return &GameOptions{v: v, log: log}
}

// Apply 批量覆盖选项（通常来自配置文件的 rules.options 段）。
// 未注册的 id 记一条警告后忽略。
func (o *GameOptions) Apply(values map[string]any) {
	for key, val := range values {
		if _, ok := declaredDefaults[key]; !ok {
			o.log.Warn("ignoring unknown game option", zap.String("option", key))
			continue
		}
		o.Set(key, val)
	}
}

func (o *GameOptions) Set(key string, value any) {
	if percentageKeys[key] {
		if n, ok := toInt(value); ok {
			value = clampPercent(o.log, key, n)
		}
	}
	o.v.Set(key, value)
}

// GetBool 读取布尔选项；未知 id 返回声明默认（布尔零值为 false）。
func (o *GameOptions) GetBool(key string) bool {
	if _, ok := declaredDefaults[key]; !ok {
		return false
	}
	return o.v.GetBool(key)
}

// GetInt 读取整数选项；未知 id 返回 0。
func (o *GameOptions) GetInt(key string) int {
	if _, ok := declaredDefaults[key]; !ok {
		return 0
	}
	return o.v.GetInt(key)
}

func clampPercent(log logx.Logger, key string, n int) int {
	if n < 0 {
		log.Warn("percentage option below range, clamping", zap.String("option", key), zap.Int("value", n))
		return 0
	}
	if n > 100 {
		log.Warn("percentage option above range, clamping", zap.String("option", key), zap.Int("value", n))
		return 100
	}
	return n
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
