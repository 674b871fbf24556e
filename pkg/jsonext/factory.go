package jsonext

import (
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lk2023060901/jsonext-go/pkg/log"
	"github.com/lk2023060901/jsonext-go/pkg/metrics"
	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
	"github.com/lk2023060901/jsonext-go/pkg/util/typeutil"
)

// Factory 按 preset 惰性构造并缓存 Options。
// 同一个 Factory 对同一个 preset 始终返回同一个 *Options，并发调用也只会构造一次。
type Factory struct {
	log.Binder

	settings Settings
	cache    *typeutil.ConcurrentMap[Preset, *Options]
	builds   atomic.Int64
}

// NewFactory 使用给定的 Settings 创建 Factory，Settings 非法时返回错误。
func NewFactory(settings Settings) (*Factory, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Factory{
		settings: settings,
		cache:    typeutil.NewConcurrentMap[Preset, *Options](),
	}, nil
}

// Get 返回 preset 对应的 Options。
// 未定义的 preset 返回 ErrPresetInvalid，且不会在缓存中留下任何条目。
func (f *Factory) Get(p Preset) (*Options, error) {
	if !p.IsValid() {
		return nil, merr.WrapErrPresetInvalid(p)
	}
	opts, _, err := f.cache.GetOrCreate(p, func() (*Options, error) {
		return f.build(p), nil
	})
	return opts, err
}

// MustGet 与 Get 相同，preset 非法时 panic。
func (f *Factory) MustGet(p Preset) *Options {
	opts, err := f.Get(p)
	if err != nil {
		panic(err)
	}
	return opts
}

// Len 返回已缓存的 preset 数量。
func (f *Factory) Len() int {
	return f.cache.Len()
}

func (f *Factory) Settings() Settings {
	return f.settings
}

func (f *Factory) build(p Preset) *Options {
	opts := newPresetOptions(p, f.settings)
	f.builds.Inc()
	metrics.OptionsBuiltTotal.WithLabelValues(p.String()).Inc()
	f.Logger().Debug("json options built",
		log.FieldPreset(p),
		zap.Bool("indented", opts.WriteIndented()),
		zap.Bool("includeFields", opts.IncludeFields()),
		zap.Bool("enumAsString", opts.EnumAsString()))
	return opts
}

var (
	defaultFactory     *Factory
	defaultFactoryOnce sync.Once
)

// Default 返回进程级的默认 Factory，使用 DefaultSettings 构造。
func Default() *Factory {
	defaultFactoryOnce.Do(func() {
		f, err := NewFactory(DefaultSettings())
		if err != nil {
			panic(err)
		}
		defaultFactory = f
	})
	return defaultFactory
}

// GetOptions 从默认 Factory 获取 preset 对应的 Options。
func GetOptions(p Preset) (*Options, error) {
	return Default().Get(p)
}

func MustGetOptions(p Preset) *Options {
	return Default().MustGet(p)
}

// DefaultOptions 返回 DefaultPreset 对应的 Options。
func DefaultOptions() *Options {
	return MustGetOptions(DefaultPreset)
}
