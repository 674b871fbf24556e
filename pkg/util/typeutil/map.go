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

package typeutil

import (
	"sync"

	"go.uber.org/atomic"
)

// ConcurrentMap 是基于 sync.Map 的泛型并发 map。
// 读路径无锁；GetOrCreate 的构造路径由互斥锁串行化，
// 保证同一个 key 的 create 至多成功执行一次。
type ConcurrentMap[K comparable, V any] struct {
	inner sync.Map
	mu    sync.Mutex
	count atomic.Int64
}

func NewConcurrentMap[K comparable, V any]() *ConcurrentMap[K, V] {
	return &ConcurrentMap[K, V]{}
}

// Len 返回 map 中元素的个数。
func (m *ConcurrentMap[K, V]) Len() int {
	return int(m.count.Load())
}

// Insert 写入 key 对应的值，已存在时覆盖。
func (m *ConcurrentMap[K, V]) Insert(key K, value V) {
	_, loaded := m.inner.Swap(key, value)
	if !loaded {
		m.count.Inc()
	}
}

// Get 返回 key 对应的值以及是否存在。
func (m *ConcurrentMap[K, V]) Get(key K) (V, bool) {
	var zeroValue V
	value, ok := m.inner.Load(key)
	if !ok {
		return zeroValue, false
	}
	return value.(V), true
}

func (m *ConcurrentMap[K, V]) Contain(key K) bool {
	_, ok := m.inner.Load(key)
	return ok
}

// GetOrInsert 在 key 不存在时写入 value。
// 返回 map 中最终保存的值，以及该值是否原本就存在。
func (m *ConcurrentMap[K, V]) GetOrInsert(key K, value V) (V, bool) {
	actual, loaded := m.inner.LoadOrStore(key, value)
	if !loaded {
		m.count.Inc()
	}
	return actual.(V), loaded
}

// GetOrCreate 返回 key 对应的值，不存在时调用 create 构造并写入。
// 并发调用者观察到的是同一个值；create 返回错误时不写入任何内容。
// 第二个返回值表示值是否原本就存在。
func (m *ConcurrentMap[K, V]) GetOrCreate(key K, create func() (V, error)) (V, bool, error) {
	if value, ok := m.Get(key); ok {
		return value, true, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.Get(key); ok {
		return value, true, nil
	}

	value, err := create()
	if err != nil {
		var zeroValue V
		return zeroValue, false, err
	}
	actual, loaded := m.inner.LoadOrStore(key, value)
	if loaded {
		// 被并发的 Insert/GetOrInsert 抢先写入
		return actual.(V), true, nil
	}
	m.count.Inc()
	return value, false, nil
}

// Remove 删除 key，返回被删除的值以及 key 是否存在。
func (m *ConcurrentMap[K, V]) Remove(key K) (V, bool) {
	var zeroValue V
	value, loaded := m.inner.LoadAndDelete(key)
	if !loaded {
		return zeroValue, false
	}
	m.count.Dec()
	return value.(V), true
}

// Range 遍历 map 中所有元素，回调返回 false 时提前终止。
func (m *ConcurrentMap[K, V]) Range(f func(key K, value V) bool) {
	m.inner.Range(func(key, value any) bool {
		return f(key.(K), value.(V))
	})
}

// Keys 返回 map 中所有的 key，顺序不保证。
func (m *ConcurrentMap[K, V]) Keys() []K {
	ret := make([]K, 0, m.Len())
	m.inner.Range(func(key, value any) bool {
		ret = append(ret, key.(K))
		return true
	})
	return ret
}
