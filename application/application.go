package application

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/lk2023060901/jsonext-go/pkg/jsonext"
	zlog "github.com/lk2023060901/jsonext-go/pkg/log"
	"github.com/lk2023060901/jsonext-go/pkg/metrics"
	"github.com/lk2023060901/jsonext-go/pkg/util/conc"
	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

const (
	defaultConfigPath = "./jsonext.yaml"

	envConfigPath = "JSONEXT_CONFIG_FILE_PATH"
	envLogEnable  = "JSONEXT_LOG_ENABLE"
	envLogLevel   = "JSONEXT_LOG_LEVEL"
	envLogFormat  = "JSONEXT_LOG_FORMAT"
	envLogDir     = "JSONEXT_LOG_FILE_DIR"
	envLogFile    = "JSONEXT_LOG_FILE"
)

// version 在构建时通过 -ldflags "-X" 覆盖。
var version = "0.1.0"

// Version 返回当前程序的版本号，无法解析时返回 0.0.0。
func Version() semver.Version {
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return semver.Version{}
	}
	return v
}

// Application 是 jsonext 命令行工具的运行时容器。
// 它负责解析参数、加载配置、初始化日志，然后按 preset 重新排版输入的 JSON。
type Application struct {
	settings   jsonext.Settings
	configPath string
	factory    *jsonext.Factory
}

// New 创建一个新的 Application。
func New() *Application {
	return &Application{
		settings: jsonext.DefaultSettings(),
	}
}

// Settings 返回已加载的配置。
func (a *Application) Settings() jsonext.Settings {
	return a.settings
}

// Factory 返回 Run 期间创建的 Factory，Run 之前为 nil。
func (a *Application) Factory() *jsonext.Factory {
	return a.factory
}

// ConfigPath 返回实际加载的配置文件路径，未加载任何文件时为空。
func (a *Application) ConfigPath() string {
	return a.configPath
}

// Run 是命令行入口。
//
// 配置文件按以下优先级确定：
//  1. CLI: --config <path>
//  2. Env: JSONEXT_CONFIG_FILE_PATH
//  3. 默认: ./jsonext.yaml（不存在时使用默认配置）
//
// 没有位置参数时从 stdin 读取一个 JSON 值，否则依次处理每个文件。
func (a *Application) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("jsonext", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "path of the settings file")
	presetName := fs.StringP("preset", "p", jsonext.IndentEnc.String(), "output preset")
	check := fs.Bool("check", false, "only validate the input")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return merr.WrapErrParameterInvalidMsg("%s", err.Error())
	}

	if *showVersion {
		_, err := fmt.Fprintln(stdout, Version().String())
		return err
	}

	if err := a.loadSettings(*configPath); err != nil {
		return err
	}
	if err := a.initLogging(); err != nil {
		return err
	}
	metrics.Register(prometheus.DefaultRegisterer)

	factory, err := jsonext.NewFactory(a.settings)
	if err != nil {
		return err
	}
	a.factory = factory

	preset, err := jsonext.ParsePreset(*presetName)
	if err != nil {
		return err
	}
	opts, err := factory.Get(preset)
	if err != nil {
		return err
	}

	outputs, err := a.reformat(fs.Args(), stdin, opts)
	if err != nil {
		return err
	}
	if *check {
		return nil
	}
	for _, out := range outputs {
		if _, err := stdout.Write(append(out, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// reformat 并发处理所有输入，结果按输入顺序返回。
func (a *Application) reformat(files []string, stdin io.Reader, opts *jsonext.Options) ([][]byte, error) {
	if len(files) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		out, err := opts.Reformat(bytes.TrimSpace(data))
		if err != nil {
			return nil, err
		}
		return [][]byte{out}, nil
	}

	pool := conc.NewDefaultPool[[]byte](conc.WithConcealPanic(true))
	defer pool.Release()

	futures := make([]*conc.Future[[]byte], 0, len(files))
	for _, file := range files {
		file := file
		futures = append(futures, pool.Submit(func() ([]byte, error) {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, err
			}
			out, err := opts.Reformat(data)
			if err != nil {
				zlog.Warn("invalid json file", zap.String("file", file), zap.Error(err))
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			return out, nil
		}))
	}
	if err := conc.AwaitAll(futures...); err != nil {
		return nil, err
	}

	outputs := make([][]byte, 0, len(futures))
	for _, f := range futures {
		outputs = append(outputs, f.Value())
	}
	return outputs, nil
}

// loadSettings 解析配置文件路径并加载配置。
func (a *Application) loadSettings(flagPath string) error {
	path := flagPath
	if path == "" {
		path = strings.TrimSpace(os.Getenv(envConfigPath))
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			a.settings = jsonext.DefaultSettings()
			return nil
		}
		path = defaultConfigPath
	}

	settings, err := jsonext.LoadSettings(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %q: %w", path, err)
	}
	a.settings = settings
	a.configPath = path
	return nil
}

// initLogging 以配置文件中的 log 段为基础，叠加 JSONEXT_LOG_* 环境变量后初始化全局 Logger。
//
//   - JSONEXT_LOG_ENABLE: "1"/"true" 开启输出，默认关闭，避免日志混入标准输出。
//   - JSONEXT_LOG_LEVEL: 日志级别。
//   - JSONEXT_LOG_FORMAT: 日志格式（json 或 console）。
//   - JSONEXT_LOG_FILE_DIR/JSONEXT_LOG_FILE: 日志文件目录和文件名。
func (a *Application) initLogging() error {
	cfg := a.settings.Log
	cfg.Level = getenvDefault(envLogLevel, cfg.Level)
	cfg.Format = getenvDefault(envLogFormat, cfg.Format)
	cfg.File.RootPath = getenvDefault(envLogDir, cfg.File.RootPath)
	cfg.File.Filename = getenvDefault(envLogFile, cfg.File.Filename)
	// 标准输出留给格式化结果。
	cfg.Stdout = false

	if !getenvBool(envLogEnable, false) {
		cfg.File.Filename = ""
	}

	settings := a.settings
	settings.Log = cfg
	if err := jsonext.InitLogger(settings); err != nil {
		return fmt.Errorf("init global logger: %w", err)
	}
	zlog.Debug("jsonext settings loaded", zap.String("config", a.configPath), zap.String("indent", a.settings.Indent))
	return nil
}

func getenvDefault(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getenvBool(key string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
