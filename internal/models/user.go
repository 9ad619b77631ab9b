package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Street    string             `json:"street" bson:"street"`
	City      string             `json:"city" bson:"city"`
	State     string             `json:"state" bson:"state"`
	ZipCode   string             `json:"zipCode" bson:"zipCode"`
	Country   string             `json:"country" bson:"country"`
	IsPrimary bool               `json:"isPrimary" bson:"isPrimary"`
}

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PhoneNumber  string             `json:"phoneNumber" bson:"phoneNumber"`
	Password     string             `json:"-" bson:"password"`
	Role         string             `json:"role" bson:"role"`
	ReferralCode string             `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	ReferredBy   string             `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	Addresses    []Address          `json:"addresses" bson:"addresses"`
}

// PrimaryAddress retourne l'adresse par défaut, ou nil s'il n'y en a pas
func (u *User) PrimaryAddress() *Address {
	for i := range u.Addresses {
		if u.Addresses[i].IsPrimary {
			return &u.Addresses[i]
		}
	}
	return nil
}

// AddressByID retourne l'adresse correspondante, ou nil
func (u *User) AddressByID(id primitive.ObjectID) *Address {
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			return &u.Addresses[i]
		}
	}
	return nil
}
