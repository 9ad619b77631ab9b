package product

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"meds4you_back_end/internal/cache"
	"meds4you_back_end/internal/database"
	"meds4you_back_end/internal/models"
	"meds4you_back_end/internal/services"
	"meds4you_back_end/internal/utils"
)

// 🟢 GET /api/products?search=&category=
func ListProducts(c *gin.Context) {
	search := c.Query("search")
	category := c.Query("category")

	// 1. Recherche plein texte via Elasticsearch si disponible
	if search != "" {
		results, err := services.SearchProducts(search, category)
		if err == nil {
			c.JSON(http.StatusOK, results)
			return
		}
		// Elastic absent ou index vide : on retombe sur MongoDB
		log.Println("⚠️ Recherche Elastic indisponible, fallback MongoDB:", err)
	}

	// 2. Liste complète servie depuis le cache Redis
	if search == "" && category == "" {
		if products, ok := cache.GetProductList(); ok {
			c.JSON(http.StatusOK, products)
			return
		}
	}

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if search != "" {
		filter["$or"] = []bson.M{
			{"drugName": bson.M{"$regex": search, "$options": "i"}},
			{"salt": bson.M{"$regex": search, "$options": "i"}},
			{"manufacturer": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Products().Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage catalogue"})
		return
	}

	if search == "" && category == "" {
		cache.SetProductList(products)
	}

	c.JSON(http.StatusOK, products)
}

// 🟢 GET /api/products/:id
func GetProduct(c *gin.Context) {
	id := c.Param("id")

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	if product, ok := cache.GetProduct(id); ok {
		c.JSON(http.StatusOK, product)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	err = database.Products().FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	cache.SetProduct(&product)
	c.JSON(http.StatusOK, product)
}

// 🔒 POST /api/products/createProduct (admin)
func CreateProduct(c *gin.Context) {
	var product models.Product

	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product.Normalize()
	if err := product.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := database.Products().InsertOne(ctx, product)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	// Indexation Elastic en arrière-plan, la réponse n'attend pas
	go services.IndexProduct(product)
	cache.InvalidateProductCache("")

	utils.LogAction(c, "create_product", "product", product.ID.Hex(), nil, product)

	c.JSON(http.StatusCreated, product)
}

// updateFields liste les champs modifiables par un admin.
// created_at n'en fait pas partie : la date de création ne bouge jamais.
func updateFields(p models.Product, now time.Time) bson.M {
	return bson.M{
		"drugName":           p.DrugName,
		"manufacturer":       p.Manufacturer,
		"category":           p.Category,
		"salt":               p.Salt,
		"price":              p.Price,
		"mrp":                p.MRP,
		"margin":             p.Margin,
		"imageUrl":           p.ImageURL,
		"size":               p.Size,
		"alternateMedicines": p.AlternateMedicines,
		"updated_at":         now,
	}
}

// 🔒 PUT /api/products/:id (admin)
func UpdateProduct(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product.Normalize()
	if err := product.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product.ID = oid

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// $set des seuls champs éditables : created_at reste intact
	now := time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var old models.Product
	err = database.Products().FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": updateFields(product, now)},
		opts,
	).Decode(&old)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	product.CreatedAt = old.CreatedAt
	product.UpdatedAt = &now

	go services.IndexProduct(product)
	cache.InvalidateProductCache(oid.Hex())

	utils.LogAction(c, "update_product", "product", oid.Hex(), old, product)

	c.JSON(http.StatusOK, product)
}

// 🔒 DELETE /api/products/:id (admin)
func DeleteProduct(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Products().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	go services.RemoveProductFromIndex(oid.Hex())
	cache.InvalidateProductCache(oid.Hex())

	utils.LogAction(c, "delete_product", "product", oid.Hex(), nil, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}
