package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"meds4you_back_end/internal/cache"
	"meds4you_back_end/internal/database"
	"meds4you_back_end/internal/models"
	"meds4you_back_end/internal/services"
)

// mongoProductFinder résout les produits du checkout via le cache puis MongoDB
type mongoProductFinder struct{}

func (mongoProductFinder) FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if product, ok := cache.GetProduct(id.Hex()); ok {
		return product, nil
	}

	var product models.Product
	err := database.Products().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cache.SetProduct(&product)
	return &product, nil
}

// 🟢 POST /api/orders/create
func CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Items           []services.OrderLine `json:"items"`
		AddressID       string               `json:"addressId"`
		PrescriptionURL string               `json:"prescriptionUrl"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	// Adresse explicite du payload, sinon la primaire du carnet
	var address *models.Address
	if input.AddressID != "" {
		addrID, err := primitive.ObjectIDFromHex(input.AddressID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant adresse invalide"})
			return
		}
		address = user.AddressByID(addrID)
		if address == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
			return
		}
	} else {
		address = user.PrimaryAddress()
		if address == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune adresse de livraison enregistrée"})
			return
		}
	}

	order, err := services.BuildOrder(ctx, mongoProductFinder{}, userID, *address, input.Items, input.PrescriptionURL)
	switch {
	case errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrMissingAddress),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidSelection),
		errors.Is(err, services.ErrInvalidVariant):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	order.ID = primitive.NewObjectID()
	if _, err := database.Orders().InsertOne(ctx, order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement commande"})
		return
	}

	// Le panier a été converti en commande
	if err := services.ClearCart(ctx, database.Carts(), userID); err != nil {
		// La commande existe, on ne la casse pas pour un panier non vidé
		c.JSON(http.StatusCreated, order)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// 🟢 GET /api/orders/order-history
func GetOrderHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Orders().Find(ctx, bson.M{"userId": userID}, opts)
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

// 🟢 POST /api/orders/upload-prescription
func UploadPrescription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	objectPath, err := services.UploadFile(ctx, services.PrefixPrescriptions, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload ordonnance"})
		return
	}

	// Rattache l'ordonnance à une commande existante si demandé
	if orderID := c.PostForm("orderId"); orderID != "" {
		oid, err := primitive.ObjectIDFromHex(orderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant commande invalide"})
			return
		}

		res, err := database.Orders().UpdateOne(ctx,
			bson.M{"_id": oid, "userId": userID},
			bson.M{"$set": bson.M{"prescriptionUrl": objectPath, "updated_at": time.Now()}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur rattachement ordonnance"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
	}

	signedURL, err := services.GenerateSignedURL(ctx, objectPath, 1*time.Hour)
	if err != nil {
		// Le chemin objet suffit, l'URL signée est un confort
		c.JSON(http.StatusCreated, gin.H{"path": objectPath})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": objectPath, "url": signedURL})
}

// 🟢 POST /api/orders/payment/:id
// Enregistrement de paiement simplifié : pas de passerelle externe,
// l'encaissement réel est géré hors système.
func RecordPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant commande invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	paymentID := "pay_" + uuid.New().String()

	// Update conditionnelle : seul un paiement pending ou failed peut passer à paid
	res, err := database.Orders().UpdateOne(ctx,
		bson.M{
			"_id":    orderID,
			"userId": userID,
			"paymentStatus": bson.M{"$in": bson.A{
				models.PaymentPending, models.PaymentFailed,
			}},
		},
		bson.M{"$set": bson.M{
			"paymentStatus": models.PaymentPaid,
			"paymentId":     paymentID,
			"updated_at":    time.Now(),
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement paiement"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Commande introuvable ou paiement déjà traité"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paymentId":     paymentID,
		"paymentStatus": models.PaymentPaid,
	})
}
