package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BankDetails struct {
	AccountHolder string `json:"accountHolder" bson:"accountHolder"`
	AccountNumber string `json:"accountNumber" bson:"accountNumber"`
	IFSC          string `json:"ifsc" bson:"ifsc"`
	BankName      string `json:"bankName" bson:"bankName"`
}

type Partner struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PhoneNumber  string             `json:"phoneNumber" bson:"phoneNumber"`
	Password     string             `json:"-" bson:"password"`
	Approved     bool               `json:"approved" bson:"approved"`
	KYCDocuments []string           `json:"kycDocuments" bson:"kycDocuments"`
	BankDetails  *BankDetails       `json:"bankDetails,omitempty" bson:"bankDetails,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
