package jsonext

import (
	"io"

	"go.uber.org/zap/zapcore"
)

// ZapReflectedEncoder 返回一个 zap ReflectedEncoder 构造函数，
// 使 zap.Any/zap.Reflect 字段按 preset 编码。日志行内总是紧凑输出。
func ZapReflectedEncoder(p Preset) func(io.Writer) zapcore.ReflectedEncoder {
	return func(w io.Writer) zapcore.ReflectedEncoder {
		return &reflectedEncoder{w: w, preset: p}
	}
}

type reflectedEncoder struct {
	w      io.Writer
	preset Preset
}

func (e *reflectedEncoder) Encode(v any) error {
	opts, err := GetOptions(e.preset)
	if err != nil {
		return err
	}
	data, err := opts.marshalCompact(v)
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}
