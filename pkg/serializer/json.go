package serializer

import (
	"github.com/lk2023060901/jsonext-go/pkg/jsonext"
)

// JSONSerializer 使用 jsonext 的 preset 配置进行 JSON 编解码。
// 零值使用 jsonext.IndentEnc。
type JSONSerializer struct {
	Preset jsonext.Preset
}

// 编译期断言：确保 JSONSerializer 实现了 Serializer 接口。
var _ Serializer = (*JSONSerializer)(nil)

func NewJSONSerializer(p jsonext.Preset) *JSONSerializer {
	return &JSONSerializer{Preset: p}
}

func (s JSONSerializer) Marshal(v any) ([]byte, error) {
	return jsonext.Marshal(v, s.Preset)
}

func (s JSONSerializer) Unmarshal(data []byte, v any) error {
	return jsonext.Unmarshal(data, v, s.Preset)
}

func (s JSONSerializer) Name() string {
	return NameJSON + ":" + s.Preset.String()
}
