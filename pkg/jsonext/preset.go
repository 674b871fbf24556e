// Package jsonext 在 json-iterator 之上提供一组预设的序列化配置，
// 并按 preset 缓存配置实例，以及围绕这些配置的序列化/反序列化辅助函数。
package jsonext

import (
	"strconv"
	"strings"

	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

// Preset 表示常用的序列化配置组合。
// 所有 preset 都只做 JSON 语法要求的转义，任何 Unicode 字符都按原样输出。
type Preset int32

const (
	// IndentEnc 缩进输出。
	IndentEnc Preset = iota
	// EncOnly 紧凑输出。
	EncOnly
	// EncFields 紧凑输出，并序列化未导出字段。
	EncFields
	// IndentEncEnumStr 缩进输出，已注册的枚举按名字输出。
	IndentEncEnumStr
	// EncEnumStrFields 紧凑输出，枚举按名字输出，并序列化未导出字段。
	EncEnumStrFields
	// IndentEncEnumStrFields 缩进输出，枚举按名字输出，并序列化未导出字段。
	IndentEncEnumStrFields
)

// DefaultPreset 为未显式指定 preset 时使用的配置。
const DefaultPreset = EncEnumStrFields

type presetFlags struct {
	indented      bool
	includeFields bool
	enumAsString  bool
}

var presetNames = map[Preset]string{
	IndentEnc:              "IndentEnc",
	EncOnly:                "EncOnly",
	EncFields:              "EncFields",
	IndentEncEnumStr:       "IndentEncEnumStr",
	EncEnumStrFields:       "EncEnumStrFields",
	IndentEncEnumStrFields: "IndentEncEnumStrFields",
}

var presetTable = map[Preset]presetFlags{
	IndentEnc:              {indented: true},
	EncOnly:                {},
	EncFields:              {includeFields: true},
	IndentEncEnumStr:       {indented: true, enumAsString: true},
	EncEnumStrFields:       {includeFields: true, enumAsString: true},
	IndentEncEnumStrFields: {indented: true, includeFields: true, enumAsString: true},
}

// Presets 按声明顺序返回全部 preset。
func Presets() []Preset {
	return []Preset{
		IndentEnc,
		EncOnly,
		EncFields,
		IndentEncEnumStr,
		EncEnumStrFields,
		IndentEncEnumStrFields,
	}
}

// IsValid 判断 p 是否为已定义的 preset。
func (p Preset) IsValid() bool {
	_, ok := presetTable[p]
	return ok
}

func (p Preset) String() string {
	if name, ok := presetNames[p]; ok {
		return name
	}
	return "Preset(" + strconv.FormatInt(int64(p), 10) + ")"
}

// Indented 表示该 preset 是否缩进输出。
func (p Preset) Indented() bool {
	return presetTable[p].indented
}

// IncludeFields 表示该 preset 是否序列化未导出字段。
func (p Preset) IncludeFields() bool {
	return presetTable[p].includeFields
}

// EnumAsString 表示该 preset 是否把已注册的枚举按名字输出。
func (p Preset) EnumAsString() bool {
	return presetTable[p].enumAsString
}

// ParsePreset 按名字（忽略大小写）解析 preset。
func ParsePreset(name string) (Preset, error) {
	name = strings.TrimSpace(name)
	for p, n := range presetNames {
		if strings.EqualFold(n, name) {
			return p, nil
		}
	}
	return 0, merr.WrapErrPresetInvalid(strconv.Quote(name))
}

func (p Preset) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, merr.WrapErrPresetInvalid(p)
	}
	return []byte(p.String()), nil
}

func (p *Preset) UnmarshalText(text []byte) error {
	parsed, err := ParsePreset(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
