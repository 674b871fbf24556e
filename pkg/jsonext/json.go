package jsonext

import (
	"github.com/cockroachdb/errors"
)

var errEmptyInput = errors.New("empty json input")

// Marshal 使用 preset 对应的配置序列化 v。
func Marshal(v any, p Preset) ([]byte, error) {
	opts, err := GetOptions(p)
	if err != nil {
		return nil, err
	}
	return opts.Marshal(v)
}

// Unmarshal 使用 preset 对应的配置把 data 反序列化到 v。
func Unmarshal(data []byte, v any, p Preset) error {
	opts, err := GetOptions(p)
	if err != nil {
		return err
	}
	return opts.Unmarshal(data, v)
}

// ToJSON 使用 preset 对应的配置把 v 序列化为 JSON 文本。
// 无法表示的值（channel、函数、NaN、循环引用）返回 ErrSerialization。
func ToJSON(v any, p Preset) (string, error) {
	opts, err := GetOptions(p)
	if err != nil {
		return "", err
	}
	return opts.MarshalToString(v)
}

// ToJSONDefault 使用 DefaultPreset 序列化 v。
func ToJSONDefault(v any) (string, error) {
	return ToJSON(v, DefaultPreset)
}

// ToJSONWith 使用给定配置序列化 v，opts 为 nil 时使用底层库的默认行为。
func ToJSONWith(v any, opts *Options) (string, error) {
	return opts.MarshalToString(v)
}

// FromJSON 使用 preset 对应的配置把 text 反序列化为 T。
func FromJSON[T any](text string, p Preset) (T, error) {
	opts, err := GetOptions(p)
	if err != nil {
		var zero T
		return zero, err
	}
	return FromJSONWith[T](text, opts)
}

func FromJSONDefault[T any](text string) (T, error) {
	return FromJSON[T](text, DefaultPreset)
}

// FromJSONWith 使用给定配置把 text 反序列化为 T，opts 为 nil 时使用底层库的默认行为。
func FromJSONWith[T any](text string, opts *Options) (T, error) {
	var result T
	if err := opts.UnmarshalFromString(text, &result); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
