package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonString(t *testing.T) {
	assert.Equal(t, `{"a":1}`, JsonString(map[string]int{"a": 1}))
}

func TestJsonIndent(t *testing.T) {
	data, err := JsonIndent(struct {
		Name string `json:"name"`
	}{Name: "fling"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"fling\"\n}", string(data))
}
