package jsonext

import (
	"github.com/bytedance/sonic/ast"

	"github.com/lk2023060901/jsonext-go/pkg/metrics"
	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

// ToJSONNode 使用 preset 对应的配置把 v 转换为 JSON 节点树。
// v 为 nil 或序列化结果为 null 时返回 nil 节点。
func ToJSONNode(v any, p Preset) (*ast.Node, error) {
	opts, err := GetOptions(p)
	if err != nil {
		return nil, err
	}
	return ToJSONNodeWith(v, opts)
}

func ToJSONNodeDefault(v any) (*ast.Node, error) {
	return ToJSONNode(v, DefaultPreset)
}

// ToJSONNodeWith 使用给定配置把 v 转换为 JSON 节点树。
// 节点内容与 ToJSONWith 的紧凑输出一致。
func ToJSONNodeWith(v any, opts *Options) (*ast.Node, error) {
	if v == nil {
		return nil, nil
	}
	data, err := opts.marshalCompact(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return nil, nil
	}
	return newNode(string(data), metrics.OperationToNode)
}

// NodeToJSON 使用 preset 对应的配置把节点渲染为 JSON 文本，只有缩进和转义规则生效。
// nil 节点渲染为 null。
func NodeToJSON(node *ast.Node, p Preset) (string, error) {
	opts, err := GetOptions(p)
	if err != nil {
		return "", err
	}
	return NodeToJSONWith(node, opts)
}

func NodeToJSONDefault(node *ast.Node) (string, error) {
	return NodeToJSON(node, DefaultPreset)
}

func NodeToJSONWith(node *ast.Node, opts *Options) (string, error) {
	if node == nil {
		return "null", nil
	}
	raw, err := node.Raw()
	if err != nil {
		metrics.CodecFailuresTotal.WithLabelValues(metrics.OperationNodeToJSON).Inc()
		return "", merr.WrapErrNodeInvalid(err)
	}
	data, err := opts.render([]byte(raw))
	if err != nil {
		metrics.CodecFailuresTotal.WithLabelValues(metrics.OperationNodeToJSON).Inc()
		return "", merr.WrapErrNodeInvalid(err)
	}
	return string(data), nil
}

// ParseNode 把 JSON 文本解析为节点树，text 必须恰好是一个合法的 JSON 值。
func ParseNode(text string) (*ast.Node, error) {
	data, err := (*Options)(nil).render([]byte(text))
	if err != nil {
		metrics.CodecFailuresTotal.WithLabelValues(metrics.OperationToNode).Inc()
		return nil, merr.WrapErrNodeInvalid(err)
	}
	return newNode(string(data), metrics.OperationToNode)
}

func newNode(raw string, operation string) (*ast.Node, error) {
	node := ast.NewRaw(raw)
	if err := node.Check(); err != nil {
		metrics.CodecFailuresTotal.WithLabelValues(operation).Inc()
		return nil, merr.WrapErrNodeInvalid(err)
	}
	return &node, nil
}
