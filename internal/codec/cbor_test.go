package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type envelope struct {
	ID     string `cbor:"id"`
	Key    int64  `cbor:"key"`
	Detail []byte `cbor:"detail,omitempty"`
}

func TestMarshalIsDeterministic(t *testing.T) {
	a, err := Marshal(map[string]any{"b": 1, "a": "x"})
	require.NoError(t, err)
	b, err := Marshal(map[string]any{"a": "x", "b": 1})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRoundTrip(t *testing.T) {
	in := envelope{ID: "e1", Key: 42, Detail: []byte(`{"pathname":"/board"}`)}
	data, err := Marshal(in)
	require.NoError(t, err)

	var out envelope
	require.NoError(t, Unmarshal(data, &out))
	require.Equal(t, in, out)
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"nested": map[string]any{"k": "v"}})
	require.NoError(t, err)

	var out any
	require.NoError(t, Unmarshal(data, &out))
	m, ok := out.(map[string]any)
	require.True(t, ok)
	_, ok = m["nested"].(map[string]any)
	require.True(t, ok)
}
