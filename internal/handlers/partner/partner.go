package partner

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
	"meds4you_back_end/internal/services"
	"meds4you_back_end/internal/utils"
)

// 🟢 POST /api/partners/register
// Le compte est créé non approuvé : un admin doit valider le dossier
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

	var existing models.Partner
	if database.Partners().FindOne(ctx, bson.M{"email": email}).Decode(&existing) == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un partenaire avec cet email existe déjà"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
		return
	}

	partner := models.Partner{
		ID:           primitive.NewObjectID(),
		Name:         input.Name,
		Email:        email,
		PhoneNumber:  input.PhoneNumber,
		Password:     hashed,
		Approved:     false,
		KYCDocuments: []string{},
		CreatedAt:    time.Now(),
	}

	if _, err := database.Partners().InsertOne(ctx, partner); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création partenaire"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       partner.ID.Hex(),
		"email":    partner.Email,
		"approved": partner.Approved,
	})
}

// 🟢 POST /api/partners/login
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

	var partner models.Partner
	if err := database.Partners().FindOne(ctx, bson.M{"email": email}).Decode(&partner); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	valid, err := utils.VerifyPassword(input.Password, partner.Password)
	if err != nil || !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	if !partner.Approved {
		c.JSON(http.StatusForbidden, gin.H{"error": "Compte partenaire en attente d'approbation"})
		return
	}

	token, err := utils.GenerateJWT(partner.ID.Hex(), partner.Email, "partner")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"id":    partner.ID.Hex(),
		"name":  partner.Name,
		"email": partner.Email,
		"role":  "partner",
	})
}

// 🔒 GET /api/partners/me
func Me(c *gin.Context) {
	partnerID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var partner models.Partner
	err = database.Partners().FindOne(ctx, bson.M{"_id": partnerID}).Decode(&partner)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partenaire introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture partenaire"})
		return
	}

	c.JSON(http.StatusOK, partner)
}

// 🔒 POST /api/partners/kyc
// Les pièces KYC vont dans MinIO, seule la référence objet est stockée
func UploadKYC(c *gin.Context) {
	partnerID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	objectPath, err := services.UploadFile(ctx, services.PrefixKYC, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload document"})
		return
	}

	res, err := database.Partners().UpdateOne(ctx,
		bson.M{"_id": partnerID},
		bson.M{"$push": bson.M{"kycDocuments": objectPath}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement document"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partenaire introuvable"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": objectPath})
}

// 🔒 PUT /api/partners/bank-details
func UpdateBankDetails(c *gin.Context) {
	partnerID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var details models.BankDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if details.AccountNumber == "" || details.IFSC == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Numéro de compte et IFSC obligatoires"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := database.Partners().UpdateOne(ctx,
		bson.M{"_id": partnerID},
		bson.M{"$set": bson.M{"bankDetails": details}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour coordonnées bancaires"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partenaire introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coordonnées bancaires mises à jour"})
}
