package jsonext

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/jsonext-go/pkg/metrics"
	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

type JSONSuite struct {
	suite.Suite
}

func (s *JSONSuite) TestCompactUnicode() {
	out, err := ToJSON(struct {
		Name string `json:"name"`
	}{Name: "José"}, EncOnly)
	s.Require().NoError(err)
	s.Equal(`{"name":"José"}`, out)

	out, err = ToJSON(user{Name: "张三", Age: 30}, EncOnly)
	s.Require().NoError(err)
	s.Equal(`{"name":"张三","age":30}`, out)
	s.NotContains(out, `\u`)

	out, err = ToJSON(map[string]string{"html": "<a href='x'>&</a>", "quote": "say \"hi\"\n"}, EncOnly)
	s.Require().NoError(err)
	s.Equal(`{"html":"<a href='x'>&</a>","quote":"say \"hi\"\n"}`, out)
}

func (s *JSONSuite) TestUnicodeEveryPreset() {
	in := map[string]any{"name": "José", "user": user{Name: "张三", Age: 1}}
	for _, p := range Presets() {
		out, err := ToJSON(in, p)
		s.Require().NoError(err)
		s.NotContains(out, `\u`, p.String())
		s.Contains(out, "José", p.String())
		s.Contains(out, "张三", p.String())
	}
}

func (s *JSONSuite) TestIndented() {
	out, err := ToJSON(user{Name: "张三", Age: 30}, IndentEnc)
	s.Require().NoError(err)
	s.Equal("{\n  \"name\": \"张三\",\n  \"age\": 30\n}", out)

	out, err = ToJSON(map[string]any{"b": []int{}, "a": map[string]int{}, "c": []int{1, 2}}, IndentEnc)
	s.Require().NoError(err)
	s.Equal("{\n  \"a\": {},\n  \"b\": [],\n  \"c\": [\n    1,\n    2\n  ]\n}", out)

	out, err = ToJSON([]string{}, IndentEnc)
	s.Require().NoError(err)
	s.Equal("[]", out)

	out, err = ToJSON("文本", IndentEnc)
	s.Require().NoError(err)
	s.Equal(`"文本"`, out)
}

func (s *JSONSuite) TestCompactHasNoWhitespace() {
	for _, p := range []Preset{EncOnly, EncFields, EncEnumStrFields} {
		out, err := ToJSON(map[string]any{"list": []int{1, 2}, "obj": user{Name: "a b"}}, p)
		s.Require().NoError(err)
		s.NotContains(out, "\n")
		s.Equal(`{"list":[1,2],"obj":{"name":"a b","age":0}}`, out)
	}
}

func (s *JSONSuite) TestRoundTripAllPresets() {
	in := user{Name: "李四 <José>", Age: 42}
	for _, p := range Presets() {
		text, err := ToJSON(in, p)
		s.Require().NoError(err)
		out, err := FromJSON[user](text, p)
		s.Require().NoError(err)
		s.Equal(in, out, p.String())

		data, err := Marshal(in, p)
		s.Require().NoError(err)
		var again user
		s.Require().NoError(Unmarshal(data, &again, p))
		s.Equal(in, again)
	}
}

func (s *JSONSuite) TestIncludeFields() {
	in := account{Name: "n", secret: "s"}

	out, err := ToJSON(in, EncFields)
	s.Require().NoError(err)
	s.Equal(`{"name":"n","secret":"s"}`, out)

	out, err = ToJSON(in, EncOnly)
	s.Require().NoError(err)
	s.Equal(`{"name":"n"}`, out)

	decoded, err := FromJSON[account](`{"name":"n","secret":"s"}`, EncEnumStrFields)
	s.Require().NoError(err)
	s.Equal(in, decoded)

	decoded, err = FromJSON[account](`{"name":"n","secret":"s"}`, EncOnly)
	s.Require().NoError(err)
	s.Equal(account{Name: "n"}, decoded)
}

func (s *JSONSuite) TestDefaultPreset() {
	out, err := ToJSONDefault(palette{Primary: Green})
	s.Require().NoError(err)
	s.Equal(`{"primary":"Green","colors":null}`, out)

	back, err := FromJSONDefault[palette](out)
	s.Require().NoError(err)
	s.Equal(Green, back.Primary)

	out, err = ToJSONDefault(account{Name: "n", secret: "s"})
	s.Require().NoError(err)
	s.Equal(`{"name":"n","secret":"s"}`, out)
}

func (s *JSONSuite) TestInvalidPreset() {
	_, err := ToJSON(user{}, Preset(42))
	s.ErrorIs(err, merr.ErrPresetInvalid)

	_, err = FromJSON[user](`{}`, Preset(-1))
	s.ErrorIs(err, merr.ErrPresetInvalid)

	_, err = Marshal(1, Preset(7))
	s.ErrorIs(err, merr.ErrPresetInvalid)
	s.ErrorIs(Unmarshal([]byte(`1`), new(int), Preset(7)), merr.ErrPresetInvalid)
}

func (s *JSONSuite) TestSerializationErrors() {
	counter := metrics.CodecFailuresTotal.WithLabelValues(metrics.OperationMarshal)
	before := testutil.ToFloat64(counter)

	_, err := ToJSON(make(chan int), EncOnly)
	s.Require().Error(err)
	s.True(errors.Is(err, merr.ErrSerialization))
	s.Equal(merr.Code(merr.ErrSerialization), merr.Code(err))

	_, err = ToJSON(math.NaN(), IndentEnc)
	s.True(errors.Is(err, merr.ErrSerialization))

	s.Equal(before+2, testutil.ToFloat64(counter))
}

func (s *JSONSuite) TestCyclicValues() {
	a := &chain{Name: "a"}
	a.Next = &chain{Name: "b", Next: a}

	for _, p := range Presets() {
		_, err := ToJSON(a, p)
		s.Require().Error(err, p.String())
		s.True(errors.Is(err, merr.ErrSerialization), p.String())
		s.Contains(err.Error(), "encountered a cycle")
	}
	_, err := ToJSONWith(a, nil)
	s.True(errors.Is(err, merr.ErrSerialization))
	_, err = ToJSONNode(a, EncOnly)
	s.True(errors.Is(err, merr.ErrSerialization))

	m := map[string]any{"k": 1}
	m["self"] = m
	_, err = ToJSON(m, EncOnly)
	s.True(errors.Is(err, merr.ErrSerialization))
	_, err = ToJSONWith(m, NewOptions(WithSortMapKeys(false)))
	s.True(errors.Is(err, merr.ErrSerialization))

	list := make([]any, 1)
	list[0] = list
	_, err = ToJSON(list, IndentEnc)
	s.True(errors.Is(err, merr.ErrSerialization))
}

func (s *JSONSuite) TestDeepAcyclicValues() {
	head := &chain{Name: "0"}
	tail := head
	for i := 1; i < 1500; i++ {
		tail.Next = &chain{Name: "n"}
		tail = tail.Next
	}
	out, err := ToJSON(head, EncOnly)
	s.Require().NoError(err)
	s.Equal(1500, strings.Count(out, `"name"`))

	shared := &user{Name: "s"}
	out, err = ToJSON(map[string]*user{"a": shared, "b": shared}, EncOnly)
	s.Require().NoError(err)
	s.Equal(`{"a":{"name":"s","age":0},"b":{"name":"s","age":0}}`, out)
}

func (s *JSONSuite) TestDeserializationErrors() {
	counter := metrics.CodecFailuresTotal.WithLabelValues(metrics.OperationUnmarshal)
	before := testutil.ToFloat64(counter)

	bad := []string{
		``,
		`   `,
		`{"name":`,
		`{"name":"a"} trailing`,
		`{"name":1}`,
		`[1,2]`,
	}
	for _, text := range bad {
		_, err := FromJSON[user](text, EncOnly)
		s.Require().Error(err, text)
		s.True(errors.Is(err, merr.ErrDeserialization), text)
		s.True(merr.IsInputError(err))
		s.Contains(err.Error(), "jsonext.user")
	}
	s.Equal(before+float64(len(bad)), testutil.ToFloat64(counter))
}

func (s *JSONSuite) TestNilOptions() {
	var opts *Options
	s.False(opts.WriteIndented())
	s.False(opts.UnicodeSafe())
	s.Equal("Options(default)", opts.String())

	out, err := ToJSONWith(map[string]string{"a": "<b>"}, opts)
	s.Require().NoError(err)
	s.Equal(`{"a":"\u003cb\u003e"}`, out)

	u, err := FromJSONWith[user](`{"name":"x","age":2}`, nil)
	s.Require().NoError(err)
	s.Equal(user{Name: "x", Age: 2}, u)

	out, err = ToJSONWith(account{Name: "n", secret: "s"}, nil)
	s.Require().NoError(err)
	s.Equal(`{"name":"n"}`, out)
}

func (s *JSONSuite) TestCustomOptions() {
	opts := NewOptions(WithIndented(true), WithIndent("\t"), WithIncludeFields(true))
	_, ok := opts.Preset()
	s.False(ok)
	s.Equal("\t", opts.Indent())
	s.Contains(opts.String(), "custom")

	out, err := ToJSONWith(account{Name: "n", secret: "s"}, opts)
	s.Require().NoError(err)
	s.Equal("{\n\t\"name\": \"n\",\n\t\"secret\": \"s\"\n}", out)

	numbers := NewOptions(WithUseNumber(true), WithSortMapKeys(false))
	s.True(numbers.UseNumber())
	s.False(numbers.SortMapKeys())
	m, err := FromJSONWith[map[string]any](`{"n":12345678901234567890}`, numbers)
	s.Require().NoError(err)
	s.Equal(json.Number("12345678901234567890"), m["n"])

	strict := NewOptions(WithDisallowUnknownFields(true))
	s.True(strict.DisallowUnknownFields())
	_, err = FromJSONWith[user](`{"unknown":true}`, strict)
	s.Error(err)
}

func (s *JSONSuite) TestOptionsMethods() {
	opts := MustGetOptions(IndentEnc)
	data, err := opts.Marshal([]int{1})
	s.Require().NoError(err)
	s.Equal("[\n  1\n]", string(data))

	var v []int
	s.Require().NoError(opts.UnmarshalFromString("[3, 4]", &v))
	s.Equal([]int{3, 4}, v)
	s.NotNil(opts.API())
}

func TestJSON(t *testing.T) {
	suite.Run(t, new(JSONSuite))
}

func TestSortedMapKeys(t *testing.T) {
	out, err := ToJSON(map[string]int{"z": 1, "a": 2, "m": 3}, EncOnly)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"m":3,"z":1}`, out)
}
