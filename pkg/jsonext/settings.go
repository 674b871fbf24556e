package jsonext

import (
	"strings"

	"github.com/lk2023060901/jsonext-go/pkg/log"
	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
	"github.com/lk2023060901/jsonext-go/pkg/util/viper"
)

// Settings 是 Factory 构造 preset 配置时共享的参数。
type Settings struct {
	// Indent 缩进单位，只允许空格和制表符。
	Indent string `mapstructure:"indent" json:"indent"`
	// SortMapKeys 序列化 map 时按 key 排序，保证输出稳定。
	SortMapKeys bool `mapstructure:"sort-map-keys" json:"sort-map-keys"`
	// DisallowUnknownFields 反序列化遇到未知字段时报错。
	DisallowUnknownFields bool `mapstructure:"disallow-unknown-fields" json:"disallow-unknown-fields"`
	// UseNumber 反序列化到 any 时数字保留为 json.Number。
	UseNumber bool `mapstructure:"use-number" json:"use-number"`

	Log log.Config `mapstructure:"log" json:"log"`
}

// DefaultSettings 返回默认参数：两个空格缩进、map key 排序、允许未知字段。
func DefaultSettings() Settings {
	return Settings{
		Indent:      defaultIndent,
		SortMapKeys: true,
		Log: log.Config{
			Level:  "info",
			Format: "json",
			Stdout: true,
		},
	}
}

func (s Settings) Validate() error {
	if s.Indent == "" {
		return merr.WrapErrParameterMissing("indent")
	}
	if strings.Trim(s.Indent, " \t") != "" {
		return merr.WrapErrParameterInvalid("spaces or tabs", s.Indent, "invalid indent")
	}
	return nil
}

// LoadSettings 从 YAML/JSON/TOML 文件读取 Settings，文件中未出现的项保持默认值。
func LoadSettings(path string) (Settings, error) {
	cfg := viper.New()
	if err := cfg.LoadFile(path); err != nil {
		return Settings{}, err
	}
	settings := DefaultSettings()
	if err := cfg.Unmarshal(&settings); err != nil {
		return Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// InitLogger 按 Settings.Log 初始化并替换全局 Logger。
// 未设置 ReflectedEncoder 时，zap.Any 等反射字段使用 EncOnly 编码，非 ASCII 字符按原样输出。
func InitLogger(s Settings) error {
	cfg := s.Log
	if cfg.ReflectedEncoder == nil {
		cfg.ReflectedEncoder = ZapReflectedEncoder(EncOnly)
	}
	logger, props, err := log.InitLogger(&cfg)
	if err != nil {
		return err
	}
	log.ReplaceGlobals(logger, props)
	return nil
}
