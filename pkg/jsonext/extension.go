package jsonext

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
	"unsafe"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// unexportedFieldsExtension 让未导出字段参与编解码。
// 字段名优先取 json tag，没有 tag 时使用字段本身的名字。
type unexportedFieldsExtension struct {
	jsoniter.DummyExtension
}

func (e *unexportedFieldsExtension) UpdateStructDescriptor(sd *jsoniter.StructDescriptor) {
	for _, binding := range sd.Fields {
		name := binding.Field.Name()
		if isExported(name) {
			continue
		}
		tagName := strings.Split(binding.Field.Tag().Get("json"), ",")[0]
		if tagName == "-" {
			continue
		}
		if tagName == "" {
			tagName = name
		}
		binding.FromNames = []string{tagName}
		binding.ToNames = []string{tagName}
	}
}

func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// enumExtension 为已注册的枚举类型提供按名字编解码的能力。
type enumExtension struct {
	jsoniter.DummyExtension
}

func (e *enumExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if codec, ok := enumRegistry.Get(typ.Type1()); ok {
		return codec
	}
	return nil
}

func (e *enumExtension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	if codec, ok := enumRegistry.Get(typ.Type1()); ok {
		return codec
	}
	return nil
}

// cycleCheckDepth 之后才开始记录访问过的指针，浅层结构不付出额外开销。
const cycleCheckDepth = 1000

// cycleExtension 为指针、map 和 slice 的编码器加上循环引用检测。
// 发现循环时设置 stream.Error，编码以错误结束而不是无限递归。
type cycleExtension struct {
	jsoniter.DummyExtension
}

func (e *cycleExtension) DecorateEncoder(typ reflect2.Type, encoder jsoniter.ValEncoder) jsoniter.ValEncoder {
	switch typ.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		return &cycleGuardEncoder{typ: typ, encoder: encoder}
	default:
		return encoder
	}
}

// cycleState 挂在 stream.Attachment 上，随 stream 归还而清空。
type cycleState struct {
	depth int
	seen  map[cycleKey]struct{}
}

// cycleKey 对 slice 额外记录长度，同一底层数组的不同切片不算循环。
type cycleKey struct {
	ptr unsafe.Pointer
	len int
}

type cycleGuardEncoder struct {
	typ     reflect2.Type
	encoder jsoniter.ValEncoder
}

func (e *cycleGuardEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return e.encoder.IsEmpty(ptr)
}

func (e *cycleGuardEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	state, ok := stream.Attachment.(*cycleState)
	if !ok {
		if stream.Attachment != nil {
			e.encoder.Encode(ptr, stream)
			return
		}
		state = &cycleState{}
		stream.Attachment = state
	}

	state.depth++
	defer func() { state.depth-- }()

	if state.depth > cycleCheckDepth {
		key := e.key(ptr)
		if key.ptr != nil {
			if _, seen := state.seen[key]; seen {
				if stream.Error == nil {
					stream.Error = errors.Newf("encountered a cycle via %s", e.typ.String())
				}
				return
			}
			if state.seen == nil {
				state.seen = make(map[cycleKey]struct{})
			}
			state.seen[key] = struct{}{}
			defer delete(state.seen, key)
		}
	}
	if stream.Error != nil {
		return
	}
	e.encoder.Encode(ptr, stream)
}

func (e *cycleGuardEncoder) key(ptr unsafe.Pointer) cycleKey {
	if e.typ.Kind() == reflect.Slice {
		header := (*sliceHeader)(ptr)
		return cycleKey{ptr: header.data, len: header.len}
	}
	// 指针和 map 变量本身就是一个指针。
	return cycleKey{ptr: *(*unsafe.Pointer)(ptr)}
}

type sliceHeader struct {
	data unsafe.Pointer
	len  int
	cap  int
}
