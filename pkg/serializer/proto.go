package serializer

import (
	"google.golang.org/protobuf/proto"

	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

// ProtoSerializer 使用 Protobuf 进行二进制序列化。
//
// 注意：传入/传出的对象必须实现 proto.Message。
type ProtoSerializer struct{}

// 编译期断言：确保 ProtoSerializer 实现了 Serializer 接口。
var _ Serializer = (*ProtoSerializer)(nil)

func (ProtoSerializer) Marshal(v any) ([]byte, error) {
	msg, err := asMessage(v)
	if err != nil {
		return nil, err
	}
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, merr.WrapErrSerialization(err, v)
	}
	return data, nil
}

func (ProtoSerializer) Unmarshal(data []byte, v any) error {
	msg, err := asMessage(v)
	if err != nil {
		return err
	}
	if err := proto.Unmarshal(data, msg); err != nil {
		return merr.WrapErrDeserialization(err, targetName(v))
	}
	return nil
}

func (ProtoSerializer) Name() string {
	return NameProto
}

func asMessage(v any) (proto.Message, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, merr.WrapErrParameterInvalidMsg("serializer requires proto.Message, got %T", v)
	}
	return msg, nil
}

func targetName(v any) string {
	if msg, ok := v.(proto.Message); ok {
		return string(msg.ProtoReflect().Descriptor().FullName())
	}
	return "unknown"
}
