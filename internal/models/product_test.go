package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductNormalize(t *testing.T) {
	t.Run("marge absente calculée depuis mrp - price", func(t *testing.T) {
		p := Product{DrugName: "Paracetamol", Price: 100, MRP: 120}
		p.Normalize()
		assert.Equal(t, float64(20), p.Margin)
	})

	t.Run("marge explicite conservée", func(t *testing.T) {
		p := Product{DrugName: "Paracetamol", Price: 100, MRP: 120, Margin: 15}
		p.Normalize()
		assert.Equal(t, float64(15), p.Margin)
	})
}

func TestProductValidate(t *testing.T) {
	valid := Product{
		DrugName: "Paracetamol 500",
		Price:    100,
		MRP:      120,
		AlternateMedicines: []AlternateMedicine{
			{Name: "Dolo 650", Manufacturer: "Micro Labs", Price: 80},
		},
	}
	assert.NoError(t, valid.Validate())

	t.Run("nom obligatoire", func(t *testing.T) {
		p := valid
		p.DrugName = ""
		assert.Error(t, p.Validate())
	})

	t.Run("prix positif", func(t *testing.T) {
		p := valid
		p.Price = 0
		assert.Error(t, p.Validate())
	})

	t.Run("mrp positif", func(t *testing.T) {
		p := valid
		p.MRP = -5
		assert.Error(t, p.Validate())
	})

	t.Run("alternative sans nom", func(t *testing.T) {
		p := valid
		p.AlternateMedicines = []AlternateMedicine{{Price: 80}}
		assert.Error(t, p.Validate())
	})

	t.Run("alternative avec prix nul", func(t *testing.T) {
		p := valid
		p.AlternateMedicines = []AlternateMedicine{{Name: "Dolo 650"}}
		assert.Error(t, p.Validate())
	})
}

func TestUserPrimaryAddress(t *testing.T) {
	u := User{}
	assert.Nil(t, u.PrimaryAddress())

	u.Addresses = []Address{
		{Street: "A", IsPrimary: false},
		{Street: "B", IsPrimary: true},
	}
	primary := u.PrimaryAddress()
	assert.NotNil(t, primary)
	assert.Equal(t, "B", primary.Street)
}
