package referrer

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"meds4you_back_end/internal/database"
	"meds4you_back_end/internal/models"
	"meds4you_back_end/internal/utils"
)

// 🟢 POST /api/referrers/register
// Comme pour les partenaires, l'approbation admin est requise avant
// que le code de parrainage soit utilisable à l'inscription.
func Register(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
		PhoneNumber string `json:"phoneNumber"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.Referrer
	if database.Referrers().FindOne(ctx, bson.M{"email": email}).Decode(&existing) == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un parrain avec cet email existe déjà"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
		return
	}

	referrer := models.Referrer{
		ID:           primitive.NewObjectID(),
		Name:         input.Name,
		Email:        email,
		PhoneNumber:  input.PhoneNumber,
		Password:     hashed,
		Approved:     false,
		ReferralCode: utils.GenerateReferralCode(),
		CreatedAt:    time.Now(),
	}

	if _, err := database.Referrers().InsertOne(ctx, referrer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création parrain"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           referrer.ID.Hex(),
		"email":        referrer.Email,
		"referralCode": referrer.ReferralCode,
		"approved":     referrer.Approved,
	})
}

// 🟢 POST /api/referrers/login
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var referrer models.Referrer
	if err := database.Referrers().FindOne(ctx, bson.M{"email": email}).Decode(&referrer); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	valid, err := utils.VerifyPassword(input.Password, referrer.Password)
	if err != nil || !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	if !referrer.Approved {
		c.JSON(http.StatusForbidden, gin.H{"error": "Compte parrain en attente d'approbation"})
		return
	}

	token, err := utils.GenerateJWT(referrer.ID.Hex(), referrer.Email, "referrer")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"id":           referrer.ID.Hex(),
		"name":         referrer.Name,
		"email":        referrer.Email,
		"referralCode": referrer.ReferralCode,
		"role":         "referrer",
	})
}

// 🔒 GET /api/referrers/me
func Me(c *gin.Context) {
	referrerID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var referrer models.Referrer
	err = database.Referrers().FindOne(ctx, bson.M{"_id": referrerID}).Decode(&referrer)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parrain introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture parrain"})
		return
	}

	c.JSON(http.StatusOK, referrer)
}

// 🔒 GET /api/referrers/referrals
// Liste les utilisateurs inscrits avec le code du parrain courant
func GetReferrals(c *gin.Context) {
	referrerID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var referrer models.Referrer
	if err := database.Referrers().FindOne(ctx, bson.M{"_id": referrerID}).Decode(&referrer); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parrain introuvable"})
		return
	}

	cursor, err := database.Users().Find(ctx, bson.M{"referredBy": referrer.ReferralCode})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture filleuls"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage filleuls"})
		return
	}

	// On n'expose que le minimum sur les filleuls
	referrals := make([]gin.H, 0, len(users))
	for _, u := range users {
		referrals = append(referrals, gin.H{
			"name":  u.Name,
			"email": u.Email,
		})
	}

	c.JSON(http.StatusOK, referrals)
}
