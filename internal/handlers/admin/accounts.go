package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"meds4you_back_end/internal/database"
	"meds4you_back_end/internal/models"
	"meds4you_back_end/internal/utils"
)

// 🔒 GET /api/admin/users
func GetAllUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cursor, err := database.Users().Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateurs"})
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage utilisateurs"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// 🔒 GET /api/admin/partners?approved=
func GetPartners(c *gin.Context) {
	filter := bson.M{}
	if approved := c.Query("approved"); approved != "" {
		filter["approved"] = approved == "true"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Partners().Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture partenaires"})
		return
	}
	defer cursor.Close(ctx)

	partners := []models.Partner{}
	if err := cursor.All(ctx, &partners); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage partenaires"})
		return
	}

	c.JSON(http.StatusOK, partners)
}

// 🔒 PUT /api/admin/partners/:id/approve
func ApprovePartner(c *gin.Context) {
	approveAccount(c, database.Partners(), "partner", "Partenaire introuvable")
}

// 🔒 GET /api/admin/referrers?approved=
func GetReferrers(c *gin.Context) {
	filter := bson.M{}
	if approved := c.Query("approved"); approved != "" {
		filter["approved"] = approved == "true"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Referrers().Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture parrains"})
		return
	}
	defer cursor.Close(ctx)

	referrers := []models.Referrer{}
	if err := cursor.All(ctx, &referrers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage parrains"})
		return
	}

	c.JSON(http.StatusOK, referrers)
}

// 🔒 PUT /api/admin/referrers/:id/approve
func ApproveReferrer(c *gin.Context) {
	approveAccount(c, database.Referrers(), "referrer", "Parrain introuvable")
}

func approveAccount(c *gin.Context, col *mongo.Collection, resource, notFoundMsg string) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"approved": true}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur approbation"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}

	utils.LogAction(c, "approve_"+resource, resource, oid.Hex(),
		gin.H{"approved": false}, gin.H{"approved": true})

	c.JSON(http.StatusOK, gin.H{"message": "Compte approuvé"})
}
