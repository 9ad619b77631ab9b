package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Role est l'ensemble fermé des rôles connus du système.
// Toute valeur hors de cet ensemble est rejetée à la frontière d'autorisation.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RolePartner  Role = "partner"
	RoleReferrer Role = "referrer"
)

// ParseRole valide une claim de rôle contre l'ensemble fermé
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RolePartner, RoleReferrer:
		return Role(s), true
	}
	return "", false
}

// RequireRoles n'autorise que les rôles déclarés par la route
func RequireRoles(allowed ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claim, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
			c.Abort()
			return
		}

		roleStr, _ := claim.(string)
		role, ok := ParseRole(roleStr)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Rôle inconnu"})
			c.Abort()
			return
		}

		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Accès non autorisé pour ce rôle"})
		c.Abort()
	}
}

// RequireAdmin vérifie que l'utilisateur a le rôle "admin"
func RequireAdmin(c *gin.Context) {
	RequireRoles(RoleAdmin)(c)
}
