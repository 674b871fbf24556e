package jsonext

import (
	"sync"

	"github.com/samber/lo"

	"github.com/lk2023060901/jsonext-go/pkg/util/conc"
)

var (
	batchPool     *conc.Pool[[]byte]
	batchPoolOnce sync.Once
)

func getBatchPool() *conc.Pool[[]byte] {
	batchPoolOnce.Do(func() {
		batchPool = conc.NewDefaultPool[[]byte](conc.WithConcealPanic(true))
	})
	return batchPool
}

// MarshalBatch 使用 preset 对应的配置并发序列化 values，结果与输入按下标一一对应。
// 任一元素失败时返回下标最小的那个错误，元素的 MarshalJSON 发生 panic 时同样以错误返回。
func MarshalBatch(values []any, p Preset) ([][]byte, error) {
	opts, err := GetOptions(p)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return [][]byte{}, nil
	}

	pool := getBatchPool()
	futures := make([]*conc.Future[[]byte], 0, len(values))
	for _, v := range values {
		v := v
		futures = append(futures, pool.Submit(func() ([]byte, error) {
			return opts.Marshal(v)
		}))
	}
	if err := conc.AwaitAll(futures...); err != nil {
		return nil, err
	}
	return lo.Map(futures, func(f *conc.Future[[]byte], _ int) []byte {
		return f.Value()
	}), nil
}
