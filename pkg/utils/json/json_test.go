package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	data, err := Marshal(payload{Name: "echo", Count: 3})
	require.NoError(t, err)

	var got payload
	require.NoError(t, Unmarshal(data, &got))
	assert.Equal(t, payload{Name: "echo", Count: 3}, got)
}

func TestMarshalString(t *testing.T) {
	assert.JSONEq(t, `{"name":"echo","count":3}`, MarshalString(payload{Name: "echo", Count: 3}))
	assert.Empty(t, MarshalString(func() {}), "unencodable values format as empty, not panic")
}
