package jsonext

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/jsonext-go/pkg/util/merr"
)

func TestMarshalBatch(t *testing.T) {
	values := make([]any, 0, 100)
	for i := 0; i < 100; i++ {
		values = append(values, user{Name: fmt.Sprintf("用户%d", i), Age: i})
	}

	out, err := MarshalBatch(values, IndentEnc)
	require.NoError(t, err)
	require.Len(t, out, len(values))
	for i, v := range values {
		expect, err := ToJSON(v, IndentEnc)
		require.NoError(t, err)
		assert.Equal(t, expect, string(out[i]))
	}

	empty, err := MarshalBatch(nil, EncOnly)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = MarshalBatch([]any{1, make(chan int), 3}, EncOnly)
	assert.True(t, errors.Is(err, merr.ErrSerialization))

	_, err = MarshalBatch([]any{user{}, panicky{}}, EncOnly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicky value")

	_, err = MarshalBatch(values, Preset(42))
	assert.ErrorIs(t, err, merr.ErrPresetInvalid)
}

type panicky struct{}

func (panicky) MarshalJSON() ([]byte, error) {
	panic("panicky value")
}
