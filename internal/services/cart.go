package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"meds4you_back_end/internal/models"
)

var ErrCartLineNotFound = errors.New("produit absent du panier")

// CartCollection est la surface MongoDB utilisée par le panier
// (satisfaite par *mongo.Collection, mockée dans les tests).
type CartCollection interface {
	UpdateOne(ctx context.Context, filter interface{}, update interface{},
		opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// AddCartItem ajoute qty au même produit ou crée la ligne, sans jamais
// produire de doublon : deux updates atomiques, pas de read-modify-write.
func AddCartItem(ctx context.Context, col CartCollection, userID, productID primitive.ObjectID, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	// 1. Incrémente la ligne existante
	res, err := col.UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": productID},
		bson.M{"$inc": bson.M{"items.$.quantity": qty}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// 2. Sinon, pousse une nouvelle ligne. Le filtre $ne garantit qu'un
	// ajout concurrent ne crée pas une deuxième ligne pour le même produit.
	_, err = col.UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": bson.M{"$ne": productID}},
		bson.M{
			"$push":        bson.M{"items": models.CartItem{ProductID: productID, Quantity: qty}},
			"$setOnInsert": bson.M{"userId": userID},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// UpdateCartItem remplace la quantité d'une ligne existante (qty >= 1)
func UpdateCartItem(ctx context.Context, col CartCollection, userID, productID primitive.ObjectID, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": productID},
		bson.M{"$set": bson.M{"items.$.quantity": qty}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

// RemoveCartItem retire la ligne ; l'absence n'est pas une erreur
func RemoveCartItem(ctx context.Context, col CartCollection, userID, productID primitive.ObjectID) error {
	_, err := col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$pull": bson.M{"items": bson.M{"productId": productID}}},
	)
	return err
}

// ClearCart vide le panier après confirmation du paiement
func ClearCart(ctx context.Context, col CartCollection, userID primitive.ObjectID) error {
	_, err := col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}}},
	)
	return err
}
