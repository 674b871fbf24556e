package jsonext

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

// render 逐个 token 重写一段 JSON 文本：按 Options 的缩进规则排版，字符串按配置重新转义，
// 数字保持原文，对象字段保持原有顺序。输入必须恰好是一个完整的 JSON 值。
func (o *Options) render(data []byte) ([]byte, error) {
	api := o.API()
	iter := api.BorrowIterator(data)
	defer api.ReturnIterator(iter)
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	r := &renderer{
		iter:       iter,
		stream:     stream,
		escapeHTML: o == nil,
	}
	if o.WriteIndented() {
		r.indent = o.Indent()
	}
	r.value(0)

	if iter.Error != nil && iter.Error != io.EOF {
		return nil, iter.Error
	}
	if iter.WhatIsNext() != jsoniter.InvalidValue || iter.Error != io.EOF {
		iter.ReportError("render", "there are bytes left after the value")
		return nil, iter.Error
	}
	if stream.Error != nil {
		return nil, stream.Error
	}

	out := make([]byte, len(stream.Buffer()))
	copy(out, stream.Buffer())
	return out, nil
}

type renderer struct {
	iter       *jsoniter.Iterator
	stream     *jsoniter.Stream
	indent     string
	escapeHTML bool
}

func (r *renderer) newline(depth int) {
	if r.indent == "" {
		return
	}
	r.stream.WriteRaw("\n")
	for i := 0; i < depth; i++ {
		r.stream.WriteRaw(r.indent)
	}
}

func (r *renderer) writeString(s string) {
	if r.escapeHTML {
		r.stream.WriteStringWithHTMLEscaped(s)
		return
	}
	r.stream.WriteString(s)
}

func (r *renderer) value(depth int) {
	switch r.iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		count := 0
		r.stream.WriteRaw("{")
		r.iter.ReadObjectCB(func(iter *jsoniter.Iterator, field string) bool {
			if count > 0 {
				r.stream.WriteRaw(",")
			}
			count++
			r.newline(depth + 1)
			r.writeString(field)
			if r.indent != "" {
				r.stream.WriteRaw(": ")
			} else {
				r.stream.WriteRaw(":")
			}
			r.value(depth + 1)
			return iter.Error == nil || iter.Error == io.EOF
		})
		if count > 0 {
			r.newline(depth)
		}
		r.stream.WriteRaw("}")
	case jsoniter.ArrayValue:
		count := 0
		r.stream.WriteRaw("[")
		r.iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
			if count > 0 {
				r.stream.WriteRaw(",")
			}
			count++
			r.newline(depth + 1)
			r.value(depth + 1)
			return iter.Error == nil || iter.Error == io.EOF
		})
		if count > 0 {
			r.newline(depth)
		}
		r.stream.WriteRaw("]")
	case jsoniter.StringValue:
		r.writeString(r.iter.ReadString())
	case jsoniter.NumberValue:
		r.stream.WriteRaw(string(r.iter.ReadNumber()))
	case jsoniter.BoolValue:
		r.stream.WriteBool(r.iter.ReadBool())
	case jsoniter.NilValue:
		r.iter.ReadNil()
		r.stream.WriteNil()
	default:
		r.iter.ReportError("render", "unexpected json value")
	}
}

// Reformat 按当前配置重新排版一段 JSON 文本，只改变缩进和字符串转义，不改变内容。
func (o *Options) Reformat(data []byte) ([]byte, error) {
	out, err := o.render(data)
	if err != nil {
		return nil, merr.WrapErrNodeInvalid(err)
	}
	return out, nil
}
