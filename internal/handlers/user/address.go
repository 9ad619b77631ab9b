package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"meds4you_back_end/internal/cache"
	"meds4you_back_end/internal/database"
	"meds4you_back_end/internal/models"
	"meds4you_back_end/internal/services"
)

// 🟢 GET /api/users/addresses
func GetAddresses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture adresses"})
		return
	}

	if user.Addresses == nil {
		user.Addresses = []models.Address{}
	}
	c.JSON(http.StatusOK, user.Addresses)
}

// 🟢 POST /api/users/address
func AddAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Tous les champs sont requis sauf isPrimary
	var input struct {
		Street    string `json:"street" binding:"required"`
		City      string `json:"city" binding:"required"`
		State     string `json:"state" binding:"required"`
		ZipCode   string `json:"zipCode" binding:"required"`
		Country   string `json:"country" binding:"required"`
		IsPrimary bool   `json:"isPrimary"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr := models.Address{
		Street:    input.Street,
		City:      input.City,
		State:     input.State,
		ZipCode:   input.ZipCode,
		Country:   input.Country,
		IsPrimary: input.IsPrimary,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := services.AddAddress(ctx, database.Users(), userID, addr)
	if errors.Is(err, services.ErrAddressNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout adresse"})
		return
	}

	cache.InvalidateUserCache(userID.Hex())
	c.JSON(http.StatusCreated, user.Addresses)
}

// 🟢 PUT /api/users/address/:addressId/primary
func SetPrimaryAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	addressID, err := primitive.ObjectIDFromHex(c.Param("addressId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant adresse invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := services.SetPrimaryAddress(ctx, database.Users(), userID, addressID)
	if errors.Is(err, services.ErrAddressNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour adresse"})
		return
	}

	cache.InvalidateUserCache(userID.Hex())
	c.JSON(http.StatusOK, user.Addresses)
}

// 🟢 DELETE /api/users/address/:addressId
func DeleteAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	addressID, err := primitive.ObjectIDFromHex(c.Param("addressId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant adresse invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := services.DeleteAddress(ctx, database.Users(), userID, addressID)
	if errors.Is(err, services.ErrAddressNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression adresse"})
		return
	}

	cache.InvalidateUserCache(userID.Hex())
	c.JSON(http.StatusOK, user.Addresses)
}
