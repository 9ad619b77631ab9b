package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AlternateMedicine struct {
	Name            string  `json:"name" bson:"name"`
	Manufacturer    string  `json:"manufacturer" bson:"manufacturer"`
	ManufacturerURL string  `json:"manufacturerUrl" bson:"manufacturerUrl"`
	Price           float64 `json:"price" bson:"price"`
}

type Product struct {
	ID                 primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	DrugName           string              `json:"drugName" bson:"drugName"`
	Manufacturer       string              `json:"manufacturer" bson:"manufacturer"`
	Category           string              `json:"category" bson:"category"`
	Salt               string              `json:"salt" bson:"salt"`
	Price              float64             `json:"price" bson:"price"`
	MRP                float64             `json:"mrp" bson:"mrp"`
	Margin             float64             `json:"margin" bson:"margin"`
	ImageURL           string              `json:"imageUrl" bson:"imageUrl"`
	Size               string              `json:"size" bson:"size"`
	AlternateMedicines []AlternateMedicine `json:"alternateMedicines" bson:"alternateMedicines"`
	CreatedAt          *time.Time          `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt          *time.Time          `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Normalize applique la marge par défaut : mrp - price si absente
func (p *Product) Normalize() {
	if p.Margin <= 0 {
		p.Margin = p.MRP - p.Price
	}
}

// Validate vérifie les invariants du catalogue
func (p *Product) Validate() error {
	if p.DrugName == "" {
		return errors.New("le champ 'drugName' est obligatoire")
	}
	if p.Price <= 0 {
		return errors.New("le prix doit être positif")
	}
	if p.MRP <= 0 {
		return errors.New("le MRP doit être positif")
	}
	for _, alt := range p.AlternateMedicines {
		if alt.Name == "" {
			return errors.New("chaque alternative doit avoir un nom")
		}
		if alt.Price <= 0 {
			return errors.New("le prix d'une alternative doit être positif")
		}
	}
	return nil
}
