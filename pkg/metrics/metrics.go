// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// jsonextNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	jsonextNamespace = "jsonext"

	presetLabelName    = "preset"
	operationLabelName = "operation"
)

// 编解码操作名，用作 operation 标签取值。
const (
	OperationMarshal    = "marshal"
	OperationUnmarshal  = "unmarshal"
	OperationToNode     = "to_node"
	OperationNodeToJSON = "node_to_json"
)

var (
	// OptionsBuiltTotal 统计每个 preset 的配置被构造的次数。
	// 对同一个 Factory 而言，每个 preset 至多计数一次。
	OptionsBuiltTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: jsonextNamespace,
			Name:      "options_built_total",
			Help:      "number of serializer options constructed per preset",
		}, []string{presetLabelName})

	// CodecFailuresTotal 统计编解码失败次数。
	CodecFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: jsonextNamespace,
			Name:      "codec_failures_total",
			Help:      "number of failed json codec operations",
		}, []string{operationLabelName})

	registerOnce     sync.Once
	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
// GetRegisterer 返回 Register 使用的 Registerer，尚未注册时返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标，重复调用只生效一次。
// Register 把 jsonext_* 指标注册到 r，进程内只有第一次调用生效。
// 指标在注册前照常计数，但只有注册后才会被采集；jsonext 命令行在启动时注册到默认 Registerer。
func Register(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(OptionsBuiltTotal)
		r.MustRegister(CodecFailuresTotal)
		metricRegisterer = r
	})
}
