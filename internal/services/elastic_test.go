package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSearchQuery(t *testing.T) {
	t.Run("sans catégorie, multi_match seul", func(t *testing.T) {
		q := buildSearchQuery("paracetamol", "")

		boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
		assert.Contains(t, boolQuery, "must")
		assert.NotContains(t, boolQuery, "filter")

		mm := boolQuery["must"].(map[string]interface{})["multi_match"].(map[string]interface{})
		assert.Equal(t, "paracetamol", mm["query"])
	})

	t.Run("la catégorie devient un filtre exact", func(t *testing.T) {
		q := buildSearchQuery("paracetamol", "analgesique")

		boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
		filter := boolQuery["filter"].(map[string]interface{})
		term := filter["term"].(map[string]interface{})
		assert.Equal(t, "analgesique", term["category"])

		// Le multi_match reste intact à côté du filtre
		mm := boolQuery["must"].(map[string]interface{})["multi_match"].(map[string]interface{})
		assert.Equal(t, "paracetamol", mm["query"])
	})
}
