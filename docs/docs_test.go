package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec_EsJSONValidoConRutas(t *testing.T) {
	require.NotEmpty(t, Spec, "la especificación embebida no puede estar vacía")

	var doc struct {
		Swagger string                 `json:"swagger"`
		Paths   map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(Spec, &doc))

	assert.Equal(t, "2.0", doc.Swagger)
	assert.NotEmpty(t, doc.Paths)
	assert.Contains(t, doc.Paths, "/api/sales")
	assert.Contains(t, doc.Paths, "/api/stock/adjust")
}
