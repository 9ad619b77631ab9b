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

var ErrAddressNotFound = errors.New("adresse introuvable")

// UserCollection est la surface MongoDB utilisée par le carnet d'adresses
// (satisfaite par *mongo.Collection, mockée dans les tests).
type UserCollection interface {
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{},
		opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter interface{}, update interface{},
		opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// AddAddress ajoute une adresse au carnet. La première adresse devient
// primaire ; si isPrimary est demandé, les autres sont rétrogradées dans
// la même update pour garder l'invariant « au plus une primaire ».
func AddAddress(ctx context.Context, col UserCollection, userID primitive.ObjectID, addr models.Address) (*models.User, error) {
	if addr.ID.IsZero() {
		addr.ID = primitive.NewObjectID()
	}

	pipeline := mongo.Pipeline{
		// Rétrograde tout le monde si la nouvelle adresse est primaire
		bson.D{{Key: "$set", Value: bson.M{
			"addresses": bson.M{"$map": bson.M{
				"input": bson.M{"$ifNull": bson.A{"$addresses", bson.A{}}},
				"as":    "a",
				"in": bson.M{"$mergeObjects": bson.A{
					"$$a",
					bson.M{"isPrimary": bson.M{"$cond": bson.A{addr.IsPrimary, false, "$$a.isPrimary"}}},
				}},
			}},
		}}},
		// La première adresse du carnet est toujours primaire
		bson.D{{Key: "$set", Value: bson.M{
			"addresses": bson.M{"$concatArrays": bson.A{
				"$addresses",
				bson.A{bson.M{
					"_id":       addr.ID,
					"street":    addr.Street,
					"city":      addr.City,
					"state":     addr.State,
					"zipCode":   addr.ZipCode,
					"country":   addr.Country,
					"isPrimary": bson.M{"$cond": bson.A{
						bson.M{"$eq": bson.A{bson.M{"$size": "$addresses"}, 0}},
						true,
						addr.IsPrimary,
					}},
				}},
			}},
		}}},
	}

	return runAddressUpdate(ctx, col, bson.M{"_id": userID}, pipeline)
}

// SetPrimaryAddress marque l'adresse donnée comme primaire et toutes les
// autres comme secondaires, en une seule update atomique.
func SetPrimaryAddress(ctx context.Context, col UserCollection, userID, addressID primitive.ObjectID) (*models.User, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"addresses": bson.M{"$map": bson.M{
				"input": "$addresses",
				"as":    "a",
				"in": bson.M{"$mergeObjects": bson.A{
					"$$a",
					bson.M{"isPrimary": bson.M{"$eq": bson.A{"$$a._id", addressID}}},
				}},
			}},
		}}},
	}

	// Le filtre exige la présence de l'adresse : pas de match = 404
	return runAddressUpdate(ctx, col,
		bson.M{"_id": userID, "addresses._id": addressID}, pipeline)
}

// DeleteAddress retire l'adresse. Si c'était la primaire, la première
// adresse restante est promue pour que le carnet non vide en garde une.
func DeleteAddress(ctx context.Context, col UserCollection, userID, addressID primitive.ObjectID) (*models.User, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"addresses": bson.M{"$filter": bson.M{
				"input": "$addresses",
				"as":    "a",
				"cond":  bson.M{"$ne": bson.A{"$$a._id", addressID}},
			}},
		}}},
		bson.D{{Key: "$set", Value: bson.M{
			"addresses": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$gt": bson.A{bson.M{"$size": "$addresses"}, 0}},
					bson.M{"$not": bson.M{"$anyElementTrue": bson.M{"$map": bson.M{
						"input": "$addresses",
						"as":    "a",
						"in":    "$$a.isPrimary",
					}}}},
				}},
				bson.M{"$concatArrays": bson.A{
					bson.A{bson.M{"$mergeObjects": bson.A{
						bson.M{"$arrayElemAt": bson.A{"$addresses", 0}},
						bson.M{"isPrimary": true},
					}}},
					bson.M{"$slice": bson.A{"$addresses", 1, bson.M{"$size": "$addresses"}}},
				}},
				"$addresses",
			}},
		}}},
	}

	return runAddressUpdate(ctx, col,
		bson.M{"_id": userID, "addresses._id": addressID}, pipeline)
}

func runAddressUpdate(ctx context.Context, col UserCollection, filter bson.M, pipeline mongo.Pipeline) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := col.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
