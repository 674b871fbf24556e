package jsonext

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/exp/constraints"

	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
	"github.com/lk2023060901/jsonext-go/pkg/util/typeutil"
)

// Enum 约束可以按名字序列化的枚举类型：底层为整数并实现 fmt.Stringer。
type Enum interface {
	constraints.Integer
	fmt.Stringer
}

type enumCodec interface {
	jsoniter.ValEncoder
	jsoniter.ValDecoder
}

// enumRegistry 保存所有已注册枚举类型的编解码器。
var enumRegistry = typeutil.NewConcurrentMap[reflect.Type, enumCodec]()

// RegisterEnum 注册枚举类型 E 及其全部取值，名字取自各取值的 String()。
// 注册后，开启 EnumAsString 的配置会把 E 按名字序列化，反序列化时名字和数字都接受。
//
// 注册需要在该类型第一次被序列化之前完成，一般放在 init 中。
// 同一类型重复注册、名字为空或两个取值同名都会返回 ErrEnumInvalid。
func RegisterEnum[E Enum](values ...E) error {
	typ := reflect.TypeOf((*E)(nil)).Elem()
	if len(values) == 0 {
		return merr.WrapErrEnumInvalid(typ.String(), "no values")
	}

	codec := &enumValueCodec[E]{
		typ:    typ,
		names:  make(map[E]string, len(values)),
		values: make(map[string]E, len(values)),
		folded: make(map[string]E, len(values)),
	}
	for _, v := range values {
		name := v.String()
		if name == "" {
			return merr.WrapErrEnumInvalid(typ.String(), fmt.Sprintf("empty name for value %d", v))
		}
		if other, ok := codec.values[name]; ok && other != v {
			return merr.WrapErrEnumInvalid(typ.String(), fmt.Sprintf("duplicate name %q", name))
		}
		codec.names[v] = name
		codec.values[name] = v
		if _, ok := codec.folded[strings.ToLower(name)]; !ok {
			codec.folded[strings.ToLower(name)] = v
		}
	}

	if _, loaded := enumRegistry.GetOrInsert(typ, codec); loaded {
		return merr.WrapErrEnumInvalid(typ.String(), "already registered")
	}
	return nil
}

// MustRegisterEnum 与 RegisterEnum 相同，失败时 panic。
func MustRegisterEnum[E Enum](values ...E) {
	if err := RegisterEnum(values...); err != nil {
		panic(err)
	}
}

// IsEnumRegistered 判断类型 E 是否已注册。
func IsEnumRegistered[E Enum]() bool {
	return enumRegistry.Contain(reflect.TypeOf((*E)(nil)).Elem())
}

type enumValueCodec[E Enum] struct {
	typ    reflect.Type
	names  map[E]string
	values map[string]E
	folded map[string]E
}

func (c *enumValueCodec[E]) IsEmpty(ptr unsafe.Pointer) bool {
	return *(*E)(ptr) == 0
}

// Encode 有名字的取值输出名字，其余取值输出数字。
func (c *enumValueCodec[E]) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	v := *(*E)(ptr)
	if name, ok := c.names[v]; ok {
		stream.WriteString(name)
		return
	}
	if signed[E]() {
		stream.WriteInt64(int64(v))
	} else {
		stream.WriteUint64(uint64(v))
	}
}

func (c *enumValueCodec[E]) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		name := iter.ReadString()
		if v, ok := c.lookup(name); ok {
			*(*E)(ptr) = v
			return
		}
		iter.ReportError("decode "+c.typ.String(), "unknown enum name "+strconv.Quote(name))
	case jsoniter.NumberValue:
		if signed[E]() {
			n := iter.ReadInt64()
			if int64(E(n)) != n {
				iter.ReportError("decode "+c.typ.String(), "value "+strconv.FormatInt(n, 10)+" overflows")
				return
			}
			*(*E)(ptr) = E(n)
			return
		}
		n := iter.ReadUint64()
		if uint64(E(n)) != n {
			iter.ReportError("decode "+c.typ.String(), "value "+strconv.FormatUint(n, 10)+" overflows")
			return
		}
		*(*E)(ptr) = E(n)
	case jsoniter.NilValue:
		iter.ReadNil()
	default:
		iter.ReportError("decode "+c.typ.String(), "expect string or number")
	}
}

func (c *enumValueCodec[E]) lookup(name string) (E, bool) {
	if v, ok := c.values[name]; ok {
		return v, true
	}
	v, ok := c.folded[strings.ToLower(name)]
	return v, ok
}

func signed[E constraints.Integer]() bool {
	var zero E
	return zero-1 < zero
}
