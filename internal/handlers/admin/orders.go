package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"meds4you_back_end/internal/database"
	"meds4you_back_end/internal/models"
	"meds4you_back_end/internal/services"
	"meds4you_back_end/internal/utils"
)

// 🔒 GET /api/orders/admin/orders?status=&paymentStatus=
func GetAllOrders(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu"})
			return
		}
		filter["orderStatus"] = status
	}
	if payment := c.Query("paymentStatus"); payment != "" {
		if !models.ValidPaymentStatus(payment) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Statut de paiement inconnu"})
			return
		}
		filter["paymentStatus"] = payment
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Orders().Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage commandes"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// 🔒 PUT /api/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	adminID := c.GetString("user_id")

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant commande invalide"})
		return
	}

	var upd services.StatusUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = database.Orders().FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	prevOrderStatus := order.OrderStatus
	prevPaymentStatus := order.PaymentStatus

	err = services.ApplyStatusUpdate(&order, upd, adminID)
	switch {
	case errors.Is(err, services.ErrEmptyUpdate), errors.Is(err, services.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrIllegalTransition), errors.Is(err, services.ErrConfirmedUnpaid):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}

	// Update conditionnelle : si un autre admin a changé le statut entre
	// temps, le filtre ne matche plus et on renvoie un conflit.
	res, err := database.Orders().UpdateOne(ctx,
		bson.M{
			"_id":           orderID,
			"orderStatus":   prevOrderStatus,
			"paymentStatus": prevPaymentStatus,
		},
		bson.M{"$set": bson.M{
			"orderStatus":   order.OrderStatus,
			"paymentStatus": order.PaymentStatus,
			"updatedBy":     order.UpdatedBy,
			"updated_at":    order.UpdatedAt,
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "La commande a été modifiée entre temps, réessayez"})
		return
	}

	utils.LogAction(c, "update_order_status", "order", orderID.Hex(),
		gin.H{"orderStatus": prevOrderStatus, "paymentStatus": prevPaymentStatus},
		gin.H{"orderStatus": order.OrderStatus, "paymentStatus": order.PaymentStatus},
	)

	c.JSON(http.StatusOK, order)
}

// 🔒 GET /api/admin/stats
func GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Répartition des commandes par statut + chiffre d'affaires encaissé
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$orderStatus",
			"count": bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$paymentStatus", models.PaymentPaid}},
				"$totalAmount",
				0,
			}}},
		}}},
	}

	cursor, err := database.Orders().Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur agrégation commandes"})
		return
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status  string  `bson:"_id"`
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage statistiques"})
		return
	}

	byStatus := gin.H{}
	var totalOrders int64
	var totalRevenue float64
	for _, row := range rows {
		byStatus[row.Status] = row.Count
		totalOrders += row.Count
		totalRevenue += row.Revenue
	}

	userCount, _ := database.Users().CountDocuments(ctx, bson.M{})
	productCount, _ := database.Products().CountDocuments(ctx, bson.M{})

	c.JSON(http.StatusOK, gin.H{
		"totalOrders":    totalOrders,
		"totalRevenue":   totalRevenue,
		"ordersByStatus": byStatus,
		"totalUsers":     userCount,
		"totalProducts":  productCount,
	})
}
