package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"meds4you_back_end/internal/cache"
	"meds4you_back_end/internal/database"
	"meds4you_back_end/internal/models"
	"meds4you_back_end/internal/utils"
)

// ================== AUTH LOCALE ==================

func Register(c *gin.Context) {
	var input struct {
		Name        string `json:"name"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
		PhoneNumber string `json:"phoneNumber"`
		ReferredBy  string `json:"referredBy"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// ⚡ Vérifier si l'email existe déjà
	var existing models.User
	err := database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		// utilisateur trouvé → doublon
		c.JSON(http.StatusConflict, gin.H{
			"error": "Un compte avec cet email existe déjà",
			"email": email,
		})
		return
	}

	// ✅ hash password (argon2id)
	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
		return
	}

	newUser := models.User{
		ID:           primitive.NewObjectID(),
		Name:         input.Name,
		Email:        email,
		PhoneNumber:  input.PhoneNumber,
		Password:     hashedPassword,
		Role:         "user",
		ReferralCode: utils.GenerateReferralCode(),
		Addresses:    []models.Address{},
	}

	// Lier le parrain si le code est connu, sans bloquer l'inscription sinon
	if input.ReferredBy != "" {
		var referrer models.Referrer
		if database.Referrers().FindOne(ctx, bson.M{"referralCode": input.ReferredBy, "approved": true}).Decode(&referrer) == nil {
			newUser.ReferredBy = input.ReferredBy
		}
	}

	_, err = database.Users().InsertOne(ctx, newUser)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           newUser.ID.Hex(),
		"email":        newUser.Email,
		"role":         newUser.Role,
		"referralCode": newUser.ReferralCode,
	})
}

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

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	// ⚡ Court-circuit si la vérification est déjà en cache Redis
	cached, _ := cache.GetPasswordHashFromCache(email, input.Password)
	if !cached {
		valid, err := utils.VerifyPassword(input.Password, user.Password)
		if err != nil || !valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
			return
		}
		cache.SetPasswordHashInCache(email, input.Password)
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID.Hex(),
		"name":   user.Name,
		"email":  user.Email,
		"role":   user.Role,
	})
}

// Me renvoie les claims du token courant
func Me(c *gin.Context) {
	userID, _ := c.Get("user_id")
	email, _ := c.Get("email")
	role, _ := c.Get("role")

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"email":   email,
		"role":    role,
	})
}

// ChangePassword vérifie l'ancien mot de passe puis remplace le hash
func ChangePassword(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	valid, err := utils.VerifyPassword(input.OldPassword, user.Password)
	if err != nil || !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Mot de passe actuel incorrect"})
		return
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
		return
	}

	_, err = database.Users().UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"password": hashed}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour mot de passe"})
		return
	}

	// Les anciennes vérifications en cache ne doivent plus passer
	cache.InvalidateAuthCache(user.Email)
	cache.InvalidateUserCache(userID)

	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe mis à jour"})
}
