// Package serializer 把 jsonext 的 preset 配置与 Protobuf 编解码统一为“对象 <-> 字节流”接口。
package serializer

import (
	"strings"

	"github.com/lk2023060901/jsonext-go/pkg/jsonext"
	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

// Serializer 抽象了“对象 <-> 字节流”的序列化能力。
type Serializer interface {
	// Marshal 将任意对象编码为字节序列。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到目标对象。
	//
	// v 通常为指针类型，用于接收解码结果。
	Unmarshal(data []byte, v any) error

	// Name 返回可以传给 Lookup 的名字。
	Name() string
}

const (
	NameJSON      = "json"
	NameProto     = "proto"
	NameProtoJSON = "protojson"
)

// Lookup 按名字返回 Serializer，名字形如 json、json:<preset>、proto、protojson、protojson:<preset>。
// 省略 preset 时使用 jsonext.DefaultPreset。名字后加 +zstd 表示输出再经过 zstd 压缩。
func Lookup(name string) (Serializer, error) {
	base, compressor, hasCompressor := strings.Cut(strings.TrimSpace(name), "+")
	inner, err := lookupBase(base)
	if err != nil {
		return nil, err
	}
	if !hasCompressor {
		return inner, nil
	}
	switch strings.ToLower(compressor) {
	case CompressorZstd:
		zstd, err := SharedZstd()
		if err != nil {
			return nil, err
		}
		return NewCompressedSerializer(inner, zstd), nil
	case CompressorNone:
		return NewCompressedSerializer(inner, NopCompressor{}), nil
	default:
		return nil, merr.WrapErrParameterInvalid("zstd|none", compressor, "unknown compressor")
	}
}

func lookupBase(name string) (Serializer, error) {
	kind, presetName, hasPreset := strings.Cut(name, ":")
	preset := jsonext.DefaultPreset
	if hasPreset {
		p, err := jsonext.ParsePreset(presetName)
		if err != nil {
			return nil, err
		}
		preset = p
	}

	switch strings.ToLower(kind) {
	case NameJSON:
		return NewJSONSerializer(preset), nil
	case NameProtoJSON:
		return NewProtoJSONSerializer(preset), nil
	case NameProto:
		if hasPreset {
			return nil, merr.WrapErrParameterInvalidMsg("serializer %s does not take a preset", name)
		}
		return ProtoSerializer{}, nil
	default:
		return nil, merr.WrapErrParameterInvalid("json|proto|protojson", name, "unknown serializer")
	}
}
