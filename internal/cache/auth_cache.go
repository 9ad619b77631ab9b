package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"meds4you_back_end/internal/database"
)

// Durée de validité d'une vérification de mot de passe réussie.
// Argon2 est volontairement coûteux, on ne le rejoue pas à chaque login.
const pwdCheckTTL = 15 * time.Minute

// pwdCheckKey dérive la clé Redis depuis l'email et une empreinte
// sha256 du mot de passe. Le mot de passe en clair ne touche jamais Redis.
func pwdCheckKey(email, password string) string {
	digest := sha256.Sum256([]byte(password))
	return "pwdcheck:" + email + ":" + hex.EncodeToString(digest[:])
}

// GetPasswordHashFromCache renvoie true si ce couple email/mot de passe
// a déjà été validé récemment
func GetPasswordHashFromCache(email, password string) (bool, error) {
	ctx := context.Background()

	value, err := database.Redis.Get(ctx, pwdCheckKey(email, password)).Result()
	if err != nil {
		return false, err
	}
	return value == "ok", nil
}

// SetPasswordHashInCache enregistre une vérification réussie
func SetPasswordHashInCache(email, password string) {
	ctx := context.Background()
	database.Redis.Set(ctx, pwdCheckKey(email, password), "ok", pwdCheckTTL)
}

// InvalidateAuthCache purge toutes les entrées d'un email,
// à appeler dès qu'un mot de passe change
func InvalidateAuthCache(email string) {
	ctx := context.Background()

	iter := database.Redis.Scan(ctx, 0, "pwdcheck:"+email+":*", 100).Iterator()
	for iter.Next(ctx) {
		database.Redis.Del(ctx, iter.Val())
	}
}
