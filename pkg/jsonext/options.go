package jsonext

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/lk2023060901/jsonext-go/pkg/metrics"
	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

const defaultIndent = "  "

// compatibleAPI 是 nil *Options 使用的配置，与 jsoniter.ConfigCompatibleWithStandardLibrary 的设置相同，
// 另外加上循环引用检测。
var compatibleAPI = func() jsoniter.API {
	api := jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(&cycleExtension{})
	return api
}()

// Options 是一份不可变的序列化配置，底层为冻结后的 jsoniter.API。
//
// nil *Options 表示底层库的默认行为（与标准库 encoding/json 兼容），
// 此时不做缩进，也不处理未导出字段和枚举名。
type Options struct {
	preset   Preset
	isPreset bool

	indented              bool
	includeFields         bool
	enumAsString          bool
	indent                string
	sortMapKeys           bool
	disallowUnknownFields bool
	useNumber             bool

	api jsoniter.API
}

// Option 用于构造自定义 Options 的选项函数。
type Option func(o *Options)

func WithIndented(v bool) Option {
	return func(o *Options) {
		o.indented = v
	}
}

func WithIncludeFields(v bool) Option {
	return func(o *Options) {
		o.includeFields = v
	}
}

func WithEnumAsString(v bool) Option {
	return func(o *Options) {
		o.enumAsString = v
	}
}

// WithIndent 设置缩进单位，只在开启缩进时生效。
func WithIndent(indent string) Option {
	return func(o *Options) {
		o.indent = indent
	}
}

func WithSortMapKeys(v bool) Option {
	return func(o *Options) {
		o.sortMapKeys = v
	}
}

func WithDisallowUnknownFields(v bool) Option {
	return func(o *Options) {
		o.disallowUnknownFields = v
	}
}

// WithUseNumber 使反序列化到 any 时数字保留为 json.Number。
func WithUseNumber(v bool) Option {
	return func(o *Options) {
		o.useNumber = v
	}
}

// NewOptions 构造一份不属于任何 preset 的自定义配置，不会进入缓存。
func NewOptions(opts ...Option) *Options {
	o := &Options{
		indent:      defaultIndent,
		sortMapKeys: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.indent == "" {
		o.indent = defaultIndent
	}
	o.api = o.freeze()
	return o
}

func newPresetOptions(p Preset, settings Settings) *Options {
	o := &Options{
		preset:                p,
		isPreset:              true,
		indented:              p.Indented(),
		includeFields:         p.IncludeFields(),
		enumAsString:          p.EnumAsString(),
		indent:                settings.Indent,
		sortMapKeys:           settings.SortMapKeys,
		disallowUnknownFields: settings.DisallowUnknownFields,
		useNumber:             settings.UseNumber,
	}
	o.api = o.freeze()
	return o
}

// freeze 为每份 Options 冻结一个独立的 jsoniter.API，
// 扩展只注册在该 API 上，互不影响。
func (o *Options) freeze() jsoniter.API {
	api := jsoniter.Config{
		EscapeHTML:             false,
		SortMapKeys:            o.sortMapKeys,
		ValidateJsonRawMessage: true,
		UseNumber:              o.useNumber,
		DisallowUnknownFields:  o.disallowUnknownFields,
	}.Froze()
	api.RegisterExtension(&cycleExtension{})
	if o.includeFields {
		api.RegisterExtension(&unexportedFieldsExtension{})
	}
	if o.enumAsString {
		api.RegisterExtension(&enumExtension{})
	}
	return api
}

// Preset 返回该配置对应的 preset，自定义配置返回 false。
func (o *Options) Preset() (Preset, bool) {
	if o == nil {
		return 0, false
	}
	return o.preset, o.isPreset
}

func (o *Options) WriteIndented() bool {
	return o != nil && o.indented
}

func (o *Options) IncludeFields() bool {
	return o != nil && o.includeFields
}

func (o *Options) EnumAsString() bool {
	return o != nil && o.enumAsString
}

// UnicodeSafe 表示输出时所有 Unicode 字符都按原样输出，只做 JSON 必需的转义。
func (o *Options) UnicodeSafe() bool {
	return o != nil
}

// Indent 返回缩进单位。
func (o *Options) Indent() string {
	if o == nil {
		return ""
	}
	return o.indent
}

func (o *Options) SortMapKeys() bool {
	return o != nil && o.sortMapKeys
}

func (o *Options) DisallowUnknownFields() bool {
	return o != nil && o.disallowUnknownFields
}

func (o *Options) UseNumber() bool {
	return o != nil && o.useNumber
}

// API 返回底层的 jsoniter.API，可直接用于流式编解码。
func (o *Options) API() jsoniter.API {
	if o == nil {
		return compatibleAPI
	}
	return o.api
}

func (o *Options) String() string {
	if o == nil {
		return "Options(default)"
	}
	name := "custom"
	if o.isPreset {
		name = o.preset.String()
	}
	return fmt.Sprintf("Options(%s indented=%t fields=%t enumStr=%t indent=%s)",
		name, o.indented, o.includeFields, o.enumAsString, strconv.Quote(o.indent))
}

// Marshal 按当前配置序列化 v。
func (o *Options) Marshal(v any) ([]byte, error) {
	data, err := o.marshalCompact(v)
	if err != nil {
		return nil, err
	}
	if !o.WriteIndented() {
		return data, nil
	}
	data, err = o.render(data)
	if err != nil {
		metrics.CodecFailuresTotal.WithLabelValues(metrics.OperationMarshal).Inc()
		return nil, merr.WrapErrSerialization(err, v)
	}
	return data, nil
}

func (o *Options) MarshalToString(v any) (string, error) {
	data, err := o.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (o *Options) marshalCompact(v any) ([]byte, error) {
	data, err := o.API().Marshal(v)
	if err != nil {
		metrics.CodecFailuresTotal.WithLabelValues(metrics.OperationMarshal).Inc()
		return nil, merr.WrapErrSerialization(err, v)
	}
	return data, nil
}

// Unmarshal 按当前配置把 data 反序列化到 v，v 必须为非 nil 指针。
// 空输入、非法 JSON、多余的尾部内容以及类型不匹配都会返回 ErrDeserialization。
func (o *Options) Unmarshal(data []byte, v any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		metrics.CodecFailuresTotal.WithLabelValues(metrics.OperationUnmarshal).Inc()
		return merr.WrapErrDeserialization(errEmptyInput, targetName(v))
	}
	if err := o.API().Unmarshal(data, v); err != nil {
		metrics.CodecFailuresTotal.WithLabelValues(metrics.OperationUnmarshal).Inc()
		return merr.WrapErrDeserialization(err, targetName(v))
	}
	return nil
}

func (o *Options) UnmarshalFromString(text string, v any) error {
	return o.Unmarshal([]byte(text), v)
}

func targetName(v any) string {
	return fmt.Sprintf("%T", v)
}
