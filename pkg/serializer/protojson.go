package serializer

import (
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/lk2023060901/jsonext-go/pkg/jsonext"
	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

// ProtoJSONSerializer 使用 protojson 编解码 proto.Message，输出格式遵循 preset：
// 缩进与转义同 jsonext，EnumAsString 决定枚举输出名字还是数字，IncludeFields 决定是否输出零值字段。
type ProtoJSONSerializer struct {
	Preset jsonext.Preset
}

// 编译期断言：确保 ProtoJSONSerializer 实现了 Serializer 接口。
var _ Serializer = (*ProtoJSONSerializer)(nil)

func NewProtoJSONSerializer(p jsonext.Preset) *ProtoJSONSerializer {
	return &ProtoJSONSerializer{Preset: p}
}

func (s ProtoJSONSerializer) Marshal(v any) ([]byte, error) {
	msg, err := asMessage(v)
	if err != nil {
		return nil, err
	}
	opts, err := jsonext.GetOptions(s.Preset)
	if err != nil {
		return nil, err
	}

	mo := protojson.MarshalOptions{
		UseEnumNumbers:  !opts.EnumAsString(),
		EmitUnpopulated: opts.IncludeFields(),
	}
	data, err := mo.Marshal(msg)
	if err != nil {
		return nil, merr.WrapErrSerialization(err, v)
	}
	// protojson 的空白是随机的，统一按 preset 重新排版。
	return opts.Reformat(data)
}

func (s ProtoJSONSerializer) Unmarshal(data []byte, v any) error {
	msg, err := asMessage(v)
	if err != nil {
		return err
	}
	opts, err := jsonext.GetOptions(s.Preset)
	if err != nil {
		return err
	}

	uo := protojson.UnmarshalOptions{
		DiscardUnknown: !opts.DisallowUnknownFields(),
	}
	if err := uo.Unmarshal(data, msg); err != nil {
		return merr.WrapErrDeserialization(err, targetName(v))
	}
	return nil
}

func (s ProtoJSONSerializer) Name() string {
	return NameProtoJSON + ":" + s.Preset.String()
}
