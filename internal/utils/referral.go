package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateReferralCode produit un code court de type MED-1A2B3C4D
func GenerateReferralCode() string {
	id := uuid.New().String()
	return "MED-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}
