package log

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type fixedEncoder struct {
	w io.Writer
}

func (e fixedEncoder) Encode(v interface{}) error {
	_, err := e.w.Write([]byte(`"reflected"`))
	return err
}

func TestInitLoggerWithWriteSyncer(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := &Config{Level: "info", Format: "json", DisableTimestamp: true}
	lg, props, err := InitLoggerWithWriteSyncer(cfg, zapcore.AddSync(buf))
	require.NoError(t, err)

	lg.Debug("hidden")
	lg.Info("shown", zap.String("k", "v"))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
	assert.NotContains(t, buf.String(), `"ts"`)

	props.Level.SetLevel(zapcore.DebugLevel)
	lg.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestInitLoggerBadLevel(t *testing.T) {
	_, _, err := InitLoggerWithWriteSyncer(&Config{Level: "loud"}, zapcore.AddSync(io.Discard))
	assert.Error(t, err)
}

func TestReflectedEncoder(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := &Config{
		Level:  "info",
		Format: "json",
		ReflectedEncoder: func(w io.Writer) zapcore.ReflectedEncoder {
			return fixedEncoder{w: w}
		},
	}
	lg, _, err := InitLoggerWithWriteSyncer(cfg, zapcore.AddSync(buf))
	require.NoError(t, err)

	lg.Info("object", zap.Any("payload", struct{ A int }{A: 1}))
	assert.Contains(t, buf.String(), `"payload":"reflected"`)
}

func TestFileLog(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Level: "info", File: FileLogConfig{RootPath: dir, Filename: "jsonext.log"}}
	lg, _, err := InitLogger(cfg)
	require.NoError(t, err)
	assert.Equal(t, defaultLogMaxSize, cfg.File.MaxSize)

	lg.Info("to file")
	content, err := os.ReadFile(filepath.Join(dir, "jsonext.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "to file")

	_, _, err = InitLogger(&Config{Level: "info", File: FileLogConfig{RootPath: filepath.Dir(dir), Filename: filepath.Base(dir)}})
	assert.Error(t, err)
}

func TestGlobalsAndContext(t *testing.T) {
	oldL, oldP := L(), Props()
	defer ReplaceGlobals(oldL, oldP)

	buf := &bytes.Buffer{}
	lg, props, err := InitLoggerWithWriteSyncer(&Config{Level: "debug", Format: "json"}, zapcore.AddSync(buf))
	require.NoError(t, err)
	ReplaceGlobals(lg, props)

	Info("global info")
	assert.Contains(t, buf.String(), "global info")

	SetLevel(zapcore.WarnLevel)
	assert.Equal(t, zapcore.WarnLevel, GetLevel())
	Info("suppressed")
	assert.NotContains(t, buf.String(), "suppressed")
	SetLevel(zapcore.DebugLevel)

	ctx := WithModule(context.Background(), "jsonext")
	Ctx(ctx).Info("with module")
	assert.Contains(t, buf.String(), `"module":"jsonext"`)

	With(FieldComponent("factory")).Debug("with component")
	assert.Contains(t, buf.String(), `"component":"factory"`)

	assert.NotNil(t, Ctx(nil))
	assert.NotNil(t, Ctx(context.Background()))
}

func TestBinder(t *testing.T) {
	b := &Binder{}
	assert.NotNil(t, b.Logger())

	lg, _, err := InitTestLogger(t, &Config{Level: "debug"})
	require.NoError(t, err)
	custom := &MLogger{Logger: lg}
	b.SetLogger(custom)
	assert.Same(t, custom, b.Logger())
	b.Logger().Named("binder").Info("bound logger")

	lg, recorder, err := InitRecordedTestLogger(t, &Config{Level: "info", Format: "json"})
	require.NoError(t, err)
	b.SetLogger(&MLogger{Logger: lg})
	b.Logger().Debug("dropped")
	b.Logger().Info("kept", FieldComponent("binder"))
	require.Len(t, recorder.Lines(), 1)
	assert.Equal(t, 1, recorder.Count(`"component":"binder"`))

	b.SetLogger(nil)
	assert.NotSame(t, lg, b.Logger().Logger)
}
