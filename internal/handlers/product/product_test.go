package product

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meds4you_back_end/internal/models"
)

// Une mise à jour admin ne doit jamais réécrire created_at :
// le document $set contient les champs éditables et updated_at, rien d'autre.
func TestUpdateFieldsPreserveCreatedAt(t *testing.T) {
	now := time.Now()
	product := models.Product{
		DrugName:     "Doliprane 500",
		Manufacturer: "Sanofi",
		Category:     "analgesique",
		Salt:         "paracetamol",
		Price:        25,
		MRP:          30,
		Margin:       5,
	}

	fields := updateFields(product, now)

	assert.NotContains(t, fields, "created_at")
	assert.NotContains(t, fields, "_id")

	assert.Equal(t, now, fields["updated_at"])
	assert.Equal(t, "Doliprane 500", fields["drugName"])
	assert.Equal(t, 25.0, fields["price"])
	assert.Equal(t, 30.0, fields["mrp"])
}
