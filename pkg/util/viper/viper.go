package viper

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	spfviper "github.com/spf13/viper"

	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

// Config 封装 spf13/viper 实例，对外提供精简的配置文件加载接口。
type Config struct {
	v *spfviper.Viper
}

// New 创建一个空的 Config。
// 在调用 Unmarshal/UnmarshalKey 之前需要先调用 LoadFile 加载配置文件。
func New() *Config {
	return &Config{
		v: spfviper.New(),
	}
}

// configType 通过扩展名推断配置类型，支持 yaml/yml/json/toml。
func configType(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml", true
	case ".json":
		return "json", true
	case ".toml":
		return "toml", true
	default:
		return "", false
	}
}

// LoadFile 将配置文件加载到 Config 中，不支持的扩展名返回 ErrParameterInvalid。
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return merr.WrapErrParameterMissing("path")
	}
	typ, ok := configType(path)
	if !ok {
		return merr.WrapErrParameterInvalid(".yaml|.yml|.json|.toml", filepath.Ext(path), "unsupported config file")
	}
	if c.v == nil {
		c.v = spfviper.New()
	}

	c.v.SetConfigFile(path)
	c.v.SetConfigType(typ)
	if err := c.v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "load config file %s", path)
	}
	return nil
}

// SetDefault 设置 key 的默认值，文件中未出现的 key 会使用该值。
func (c *Config) SetDefault(key string, value any) {
	if c.v == nil {
		c.v = spfviper.New()
	}
	c.v.SetDefault(key, value)
}

// IsSet 判断 key 是否在配置文件或默认值中出现。
func (c *Config) IsSet(key string) bool {
	return c.v != nil && c.v.IsSet(key)
}

// GetString 返回 key 对应的字符串值。
func (c *Config) GetString(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// Unmarshal 将完整配置反序列化到 dst。
// dst 应为结构体或 map 的指针，已有的字段值在文件未覆盖时保持不变。
func (c *Config) Unmarshal(dst any) error {
	if c.v == nil {
		return nil
	}
	return errors.Wrap(c.v.Unmarshal(dst), "unmarshal config")
}

// UnmarshalKey 将指定 key 对应的子配置反序列化到 dst。
func (c *Config) UnmarshalKey(key string, dst any) error {
	if c.v == nil {
		return nil
	}
	return errors.Wrapf(c.v.UnmarshalKey(key, dst), "unmarshal config key %s", key)
}
