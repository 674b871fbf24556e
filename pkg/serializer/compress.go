package serializer

import (
	"runtime"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

const (
	CompressorNone = "none"
	CompressorZstd = "zstd"
)

// Compressor 抽象了“单次压缩/解压”能力。
type Compressor interface {
	// Compress 将 src 压缩后追加到 dst[:0]，返回完整的压缩数据。
	Compress(dst, src []byte) ([]byte, error)

	// Decompress 与 Compress 对称，src 必须是 Compress 的输出。
	Decompress(dst, src []byte) ([]byte, error)

	Name() string
}

// NopCompressor 不做任何压缩/解压，直接返回输入内容。
type NopCompressor struct{}

// 编译期断言：确保 NopCompressor 实现了 Compressor 接口。
var _ Compressor = NopCompressor{}

func (NopCompressor) Compress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

func (NopCompressor) Decompress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

func (NopCompressor) Name() string {
	return CompressorNone
}

// ZstdCompressor 基于 github.com/klauspost/compress/zstd 的压缩实现。
// EncodeAll/DecodeAll 可以并发调用，同一实例可被多个 Serializer 共享。
type ZstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// 编译期断言：确保 ZstdCompressor 实现了 Compressor 接口。
var _ Compressor = (*ZstdCompressor)(nil)

// NewZstdCompressor 创建一个 ZstdCompressor。
// concurrency <= 0 时使用 GOMAXPROCS。
func NewZstdCompressor(concurrency int) (*ZstdCompressor, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithZeroFrames(true),
		zstd.WithEncoderConcurrency(concurrency))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(concurrency))
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &ZstdCompressor{
		enc: enc,
		dec: dec,
	}, nil
}

func (c *ZstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	if c == nil || c.enc == nil {
		return nil, zstd.ErrEncoderClosed
	}
	return c.enc.EncodeAll(src, dst[:0]), nil
}

func (c *ZstdCompressor) Decompress(dst, src []byte) ([]byte, error) {
	if c == nil || c.dec == nil {
		return nil, zstd.ErrDecoderClosed
	}
	return c.dec.DecodeAll(src, dst[:0])
}

func (c *ZstdCompressor) Name() string {
	return CompressorZstd
}

// Close 释放内部 encoder/decoder 持有的资源，关闭后再使用会返回 ErrEncoderClosed/ErrDecoderClosed。
func (c *ZstdCompressor) Close() {
	if c == nil {
		return
	}
	if c.enc != nil {
		_ = c.enc.Close()
		c.enc = nil
	}
	if c.dec != nil {
		c.dec.Close()
		c.dec = nil
	}
}

var (
	sharedZstd     *ZstdCompressor
	sharedZstdErr  error
	sharedZstdOnce sync.Once
)

// SharedZstd 返回进程级共享的 ZstdCompressor，不要对它调用 Close。
func SharedZstd() (*ZstdCompressor, error) {
	sharedZstdOnce.Do(func() {
		sharedZstd, sharedZstdErr = NewZstdCompressor(0)
	})
	return sharedZstd, sharedZstdErr
}

// CompressedSerializer 在内层 Serializer 的输出上再做一次压缩。
type CompressedSerializer struct {
	inner      Serializer
	compressor Compressor
}

// 编译期断言：确保 CompressedSerializer 实现了 Serializer 接口。
var _ Serializer = (*CompressedSerializer)(nil)

func NewCompressedSerializer(inner Serializer, compressor Compressor) *CompressedSerializer {
	if compressor == nil {
		compressor = NopCompressor{}
	}
	return &CompressedSerializer{
		inner:      inner,
		compressor: compressor,
	}
}

func (s *CompressedSerializer) Marshal(v any) ([]byte, error) {
	plain, err := s.inner.Marshal(v)
	if err != nil {
		return nil, err
	}
	packet, err := s.compressor.Compress(nil, plain)
	if err != nil {
		return nil, merr.WrapErrSerialization(err, v)
	}
	return packet, nil
}

func (s *CompressedSerializer) Unmarshal(data []byte, v any) error {
	plain, err := s.compressor.Decompress(nil, data)
	if err != nil {
		return merr.WrapErrDeserialization(err, s.compressor.Name())
	}
	return s.inner.Unmarshal(plain, v)
}

func (s *CompressedSerializer) Name() string {
	return s.inner.Name() + "+" + s.compressor.Name()
}
