package cache

import (
	"context"
	"encoding/json"
	"time"

	"meds4you_back_end/internal/database"
	"meds4you_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductListTTL  = 10 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

const productListKey = "products:all"

// GetProductList récupère la liste catalogue complète depuis Redis
func GetProductList() ([]models.Product, bool) {
	ctx := context.Background()

	data, err := database.Redis.Get(ctx, productListKey).Result()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if json.Unmarshal([]byte(data), &products) != nil {
		return nil, false
	}
	return products, true
}

// SetProductList met la liste catalogue en cache
func SetProductList(products []models.Product) {
	ctx := context.Background()

	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, productListKey, data, ProductListTTL)
}

// GetProduct récupère un produit unique depuis Redis
func GetProduct(productID string) (*models.Product, bool) {
	ctx := context.Background()

	data, err := database.Redis.Get(ctx, "product:"+productID).Result()
	if err != nil {
		return nil, false
	}

	var product models.Product
	if json.Unmarshal([]byte(data), &product) != nil {
		return nil, false
	}
	return &product, true
}

// SetProduct met un produit unique en cache
func SetProduct(product *models.Product) {
	ctx := context.Background()

	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, "product:"+product.ID.Hex(), data, ProductCacheTTL)
}

// InvalidateProductCache invalide le cache après toute écriture catalogue
func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, productListKey)
	if productID != "" {
		database.Redis.Del(ctx, "product:"+productID)
	}
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}
