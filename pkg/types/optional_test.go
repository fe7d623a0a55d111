package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalAbsent(t *testing.T) {
	var dst struct {
		Name Optional[string] `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &dst))
	assert.False(t, dst.Name.Set)
	assert.Nil(t, dst.Name.Value)
}

func TestOptionalExplicitNull(t *testing.T) {
	var dst struct {
		Name Optional[string] `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &dst))
	assert.True(t, dst.Name.Set)
	assert.Nil(t, dst.Name.Value)
}

func TestOptionalValue(t *testing.T) {
	var dst struct {
		Qty Optional[int] `json:"qty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"qty":7}`), &dst))
	require.True(t, dst.Qty.Set)
	require.NotNil(t, dst.Qty.Value)
	assert.Equal(t, 7, *dst.Qty.Value)
}

func TestOptionalMarshal(t *testing.T) {
	out, err := json.Marshal(Some("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(out))

	out, err = json.Marshal(Null[string]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
