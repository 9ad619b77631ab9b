package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Referrer struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PhoneNumber  string             `json:"phoneNumber" bson:"phoneNumber"`
	Password     string             `json:"-" bson:"password"`
	Approved     bool               `json:"approved" bson:"approved"`
	ReferralCode string             `json:"referralCode" bson:"referralCode"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
