package application

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/jsonext-go/pkg/jsonext"
	zlog "github.com/lk2023060901/jsonext-go/pkg/log"
	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

type ApplicationSuite struct {
	suite.Suite

	dir string
}

func (s *ApplicationSuite) SetupTest() {
	l, p := zlog.L(), zlog.Props()
	s.T().Cleanup(func() { zlog.ReplaceGlobals(l, p) })
	s.dir = s.T().TempDir()
}

func (s *ApplicationSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ApplicationSuite) run(stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	err := New().Run(args, strings.NewReader(stdin), &out)
	return out.String(), err
}

func (s *ApplicationSuite) TestStdinDefaultPreset() {
	out, err := s.run(` {"name" : "张三", "tags":[ ]} `)
	s.Require().NoError(err)
	s.Equal("{\n  \"name\": \"张三\",\n  \"tags\": []\n}\n", out)
}

func (s *ApplicationSuite) TestStdinPreset() {
	out, err := s.run("{ \"b\" : \"\\u4e2d\" , \"a\" : [ 1 ] }", "-p", "EncOnly")
	s.Require().NoError(err)
	s.Equal("{\"b\":\"中\",\"a\":[1]}\n", out)

	_, err = s.run(`{}`, "--preset", "Pretty")
	s.ErrorIs(err, merr.ErrPresetInvalid)

	_, err = s.run(`{"a":`, "-p", "EncOnly")
	s.Error(err)
}

func (s *ApplicationSuite) TestFiles() {
	first := s.writeFile("first.json", `{"x": 1}`)
	second := s.writeFile("second.json", `[true, null]`)

	out, err := s.run("", "--preset=EncOnly", first, second)
	s.Require().NoError(err)
	s.Equal("{\"x\":1}\n[true,null]\n", out)

	broken := s.writeFile("broken.json", `{"x": }`)
	_, err = s.run("", "-p", "EncOnly", first, broken)
	s.Require().Error(err)
	s.Contains(err.Error(), "broken.json")

	_, err = s.run("", filepath.Join(s.dir, "missing.json"))
	s.Error(err)
}

func (s *ApplicationSuite) TestMetricsRegistered() {
	_, err := s.run(`{"a":1}`, "-p", "EncFields")
	s.Require().NoError(err)

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "jsonext_options_built_total")
	s.Require().NoError(err)
	s.GreaterOrEqual(n, 1)
}

func (s *ApplicationSuite) TestCheck() {
	out, err := s.run(`{"ok":true}`, "--check")
	s.NoError(err)
	s.Empty(out)
}

func (s *ApplicationSuite) TestVersion() {
	out, err := s.run("", "--version")
	s.Require().NoError(err)
	s.Equal(Version().String()+"\n", out)
	s.Equal(uint64(0), Version().Major)

	_, err = s.run("", "--unknown")
	s.ErrorIs(err, merr.ErrParameterInvalid)
}

func (s *ApplicationSuite) TestConfigFromFlag() {
	path := s.writeFile("jsonext.yaml", "indent: \"\\t\"\n")

	app := New()
	var out bytes.Buffer
	s.Require().NoError(app.Run([]string{"--config", path}, strings.NewReader(`{"a":1}`), &out))
	s.Equal("{\n\t\"a\": 1\n}\n", out.String())
	s.Equal(path, app.ConfigPath())
	s.Equal("\t", app.Settings().Indent)
	s.NotNil(app.Factory())
	s.Equal(1, app.Factory().Len())
}

func (s *ApplicationSuite) TestConfigFromEnv() {
	path := s.writeFile("env.json", `{"indent":"   "}`)
	s.T().Setenv(envConfigPath, path)

	app := New()
	var out bytes.Buffer
	s.Require().NoError(app.Run(nil, strings.NewReader(`[1]`), &out))
	s.Equal("[\n   1\n]\n", out.String())
	s.Equal(path, app.ConfigPath())

	bad := s.writeFile("bad.yaml", "indent: \"xx\"\n")
	s.T().Setenv(envConfigPath, bad)
	_, err := s.run(`[1]`)
	s.ErrorIs(err, merr.ErrParameterInvalid)
}

func (s *ApplicationSuite) TestDefaultSettingsWithoutFile() {
	app := New()
	var out bytes.Buffer
	s.Require().NoError(app.Run([]string{"-p", "EncOnly"}, strings.NewReader(`1`), &out))
	s.Empty(app.ConfigPath())
	s.Equal(jsonext.DefaultSettings().Indent, app.Settings().Indent)
}

func (s *ApplicationSuite) TestLoggingFromEnv() {
	s.T().Setenv(envLogEnable, "true")
	s.T().Setenv(envLogLevel, "debug")
	s.T().Setenv(envLogFormat, "json")
	s.T().Setenv(envLogDir, s.dir)
	s.T().Setenv(envLogFile, "jsonext.log")

	out, err := s.run(`{}`, "-p", "EncOnly")
	s.Require().NoError(err)
	s.Equal("{}\n", out)

	content, err := os.ReadFile(filepath.Join(s.dir, "jsonext.log"))
	s.Require().NoError(err)
	s.Contains(string(content), "jsonext settings loaded")
	s.Contains(string(content), "json options built")
}

func TestApplication(t *testing.T) {
	suite.Run(t, new(ApplicationSuite))
}
