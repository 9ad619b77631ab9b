package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MockCartCollection struct {
	mock.Mock
}

func (m *MockCartCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{},
	opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, filter, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func TestAddCartItem_ExistingLine(t *testing.T) {
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	col := new(MockCartCollection)
	// La ligne existe : un seul $inc suffit
	col.On("UpdateOne", mock.Anything,
		bson.M{"userId": userID, "items.productId": productID},
		mock.Anything,
	).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil).Once()

	err := AddCartItem(context.Background(), col, userID, productID, 2)

	assert.NoError(t, err)
	col.AssertExpectations(t)
	col.AssertNumberOfCalls(t, "UpdateOne", 1)
}

func TestAddCartItem_NewLine(t *testing.T) {
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	col := new(MockCartCollection)
	// Pas de ligne existante
	col.On("UpdateOne", mock.Anything,
		bson.M{"userId": userID, "items.productId": productID},
		mock.Anything,
	).Return(&mongo.UpdateResult{MatchedCount: 0}, nil).Once()
	// Le $push guardé par $ne prend le relais, avec upsert
	col.On("UpdateOne", mock.Anything,
		bson.M{"userId": userID, "items.productId": bson.M{"$ne": productID}},
		mock.Anything,
	).Return(&mongo.UpdateResult{MatchedCount: 0, UpsertedCount: 1}, nil).Once()

	err := AddCartItem(context.Background(), col, userID, productID, 1)

	assert.NoError(t, err)
	col.AssertExpectations(t)
	col.AssertNumberOfCalls(t, "UpdateOne", 2)
}

func TestAddCartItem_InvalidQuantity(t *testing.T) {
	col := new(MockCartCollection)

	err := AddCartItem(context.Background(), col, primitive.NewObjectID(), primitive.NewObjectID(), 0)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	col.AssertNumberOfCalls(t, "UpdateOne", 0)
}

func TestUpdateCartItem(t *testing.T) {
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	t.Run("ligne existante", func(t *testing.T) {
		col := new(MockCartCollection)
		col.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
			Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

		err := UpdateCartItem(context.Background(), col, userID, productID, 5)
		assert.NoError(t, err)
	})

	t.Run("ligne absente", func(t *testing.T) {
		col := new(MockCartCollection)
		col.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
			Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

		err := UpdateCartItem(context.Background(), col, userID, productID, 5)
		assert.ErrorIs(t, err, ErrCartLineNotFound)
	})

	t.Run("quantité invalide", func(t *testing.T) {
		col := new(MockCartCollection)

		err := UpdateCartItem(context.Background(), col, userID, productID, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		col.AssertNumberOfCalls(t, "UpdateOne", 0)
	})
}

func TestRemoveCartItem(t *testing.T) {
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	col := new(MockCartCollection)
	col.On("UpdateOne", mock.Anything,
		bson.M{"userId": userID},
		bson.M{"$pull": bson.M{"items": bson.M{"productId": productID}}},
	).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	err := RemoveCartItem(context.Background(), col, userID, productID)

	assert.NoError(t, err)
	col.AssertExpectations(t)
}

func TestClearCart(t *testing.T) {
	userID := primitive.NewObjectID()

	col := new(MockCartCollection)
	col.On("UpdateOne", mock.Anything, bson.M{"userId": userID}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	err := ClearCart(context.Background(), col, userID)

	assert.NoError(t, err)
	col.AssertExpectations(t)
}
