package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/kitchenscan/models"
)

func decodeKeys(t *testing.T, v any) map[string]json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestExtractionResult_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("success without items writes an empty array", func(t *testing.T) {
		t.Parallel()

		keys := decodeKeys(t, &models.ExtractionResult{Success: true, ExtractionHash: "0123456789ab"})
		require.Contains(t, keys, "items")
		assert.JSONEq(t, `[]`, string(keys["items"]))
		assert.JSONEq(t, `"0123456789ab"`, string(keys["extraction_hash"]))
	})

	t.Run("success with items", func(t *testing.T) {
		t.Parallel()

		keys := decodeKeys(t, models.ExtractionResult{
			Success: true,
			Items:   []models.Item{{RawName: "Hotte", ArticleNumber: "203.456.12", Qty: 1}},
		})
		assert.JSONEq(t,
			`[{"raw_name":"Hotte","article_number":"203.456.12","qty":1}]`,
			string(keys["items"]),
		)
	})

	t.Run("failure omits items and hash", func(t *testing.T) {
		t.Parallel()

		keys := decodeKeys(t, models.NewFailure(models.ErrCodeBusy, "busy"))
		assert.NotContains(t, keys, "items")
		assert.NotContains(t, keys, "extraction_hash")
		assert.JSONEq(t, `false`, string(keys["success"]))
		assert.Contains(t, keys, "error")
	})

	t.Run("round trip keeps items", func(t *testing.T) {
		t.Parallel()

		in := models.ExtractionResult{
			Success: true,
			Items:   []models.Item{{RawName: "METOD 60x80", Gamme: "METOD", Qty: 2}},
		}
		b, err := json.Marshal(in)
		require.NoError(t, err)

		var out models.ExtractionResult
		require.NoError(t, json.Unmarshal(b, &out))
		assert.Equal(t, in.Items, out.Items)
	})
}
