package serverconfig

type Config struct {
	GameServer GameServerConfig `yaml:"gameserver" mapstructure:"gameserver"`
	Score      ScoreConfig      `yaml:"score" mapstructure:"score"`
	Rules      RulesConfig      `yaml:"rules" mapstructure:"rules"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	JWTSecret  string           `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

// GameServerConfig 是对局服务的监听配置；WebSocket 和 HTTP 共用一个端口。
type GameServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// ScoreConfig 是退役榜单的本地 sqlite 存储配置。
type ScoreConfig struct {
	DBFile string `yaml:"db_file" mapstructure:"db_file"`
	TopN   int    `yaml:"top_n" mapstructure:"top_n"`
}

// RulesConfig 指向规则数据文件与对局选项。
type RulesConfig struct {
	File    string         `yaml:"file" mapstructure:"file"`
	Options map[string]any `yaml:"options" mapstructure:"options"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}
