package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"meds4you_back_end/internal/models"
)

type MockProductFinder struct {
	mock.Mock
}

func (m *MockProductFinder) FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func testAddress() models.Address {
	return models.Address{
		ID:        primitive.NewObjectID(),
		Street:    "12 rue des Lilas",
		City:      "Pune",
		State:     "Maharashtra",
		ZipCode:   "411001",
		Country:   "India",
		IsPrimary: true,
	}
}

func testProduct(id primitive.ObjectID) *models.Product {
	return &models.Product{
		ID:           id,
		DrugName:     "Paracetamol 500",
		Manufacturer: "Cipla",
		Category:     "analgesique",
		Salt:         "paracetamol",
		Price:        100,
		MRP:          120,
		Margin:       20,
		ImageURL:     "https://img.example/para.png",
		Size:         "10 comprimés",
		AlternateMedicines: []models.AlternateMedicine{
			{Name: "Dolo 650", Manufacturer: "Micro Labs", Price: 80},
			{Name: "Calpol 500", Manufacturer: "GSK", Price: 90},
		},
	}
}

func TestBuildOrder(t *testing.T) {
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	tests := []struct {
		name          string
		address       models.Address
		lines         []OrderLine
		setupMocks    func(*MockProductFinder)
		expectedErr   error
		expectedTotal float64
		check         func(*testing.T, *models.Order)
	}{
		{
			name:    "produit original, total recalculé côté serveur",
			address: testAddress(),
			lines: []OrderLine{
				{ProductID: productID, Quantity: 2, Selection: SelectionOriginal},
			},
			setupMocks: func(finder *MockProductFinder) {
				finder.On("FindProduct", mock.Anything, productID).Return(testProduct(productID), nil)
			},
			expectedTotal: 200,
			check: func(t *testing.T, order *models.Order) {
				assert.Equal(t, "Paracetamol 500", order.Items[0].ProductDetails.DrugName)
				assert.Equal(t, "Cipla", order.Items[0].ProductDetails.Manufacturer)
				assert.Equal(t, float64(100), order.Items[0].Price)
			},
		},
		{
			name:    "alternative recommandée, prix de l'alternative",
			address: testAddress(),
			lines: []OrderLine{
				{ProductID: productID, Quantity: 2, Selection: SelectionRecommended},
			},
			setupMocks: func(finder *MockProductFinder) {
				finder.On("FindProduct", mock.Anything, productID).Return(testProduct(productID), nil)
			},
			expectedTotal: 160,
			check: func(t *testing.T, order *models.Order) {
				item := order.Items[0]
				// Nom, fabricant et prix viennent de l'alternative
				assert.Equal(t, "Dolo 650", item.ProductDetails.DrugName)
				assert.Equal(t, "Micro Labs", item.ProductDetails.Manufacturer)
				assert.Equal(t, float64(80), item.Price)
				// Le reste du snapshot vient du produit d'origine
				assert.Equal(t, "paracetamol", item.ProductDetails.Salt)
				assert.Equal(t, "analgesique", item.ProductDetails.Category)
				assert.Equal(t, "10 comprimés", item.ProductDetails.Size)
				assert.Equal(t, float64(120), item.ProductDetails.MRP)
				assert.Equal(t, float64(20), item.ProductDetails.Margin)
			},
		},
		{
			name:    "variantIndex explicite sur la deuxième alternative",
			address: testAddress(),
			lines: []OrderLine{
				{ProductID: productID, Quantity: 1, Selection: SelectionRecommended, VariantIndex: 1},
			},
			setupMocks: func(finder *MockProductFinder) {
				finder.On("FindProduct", mock.Anything, productID).Return(testProduct(productID), nil)
			},
			expectedTotal: 90,
			check: func(t *testing.T, order *models.Order) {
				assert.Equal(t, "Calpol 500", order.Items[0].ProductDetails.DrugName)
			},
		},
		{
			name:    "recommandée sans alternatives retombe sur l'original",
			address: testAddress(),
			lines: []OrderLine{
				{ProductID: productID, Quantity: 1, Selection: SelectionRecommended},
			},
			setupMocks: func(finder *MockProductFinder) {
				p := testProduct(productID)
				p.AlternateMedicines = nil
				finder.On("FindProduct", mock.Anything, productID).Return(p, nil)
			},
			expectedTotal: 100,
			check: func(t *testing.T, order *models.Order) {
				assert.Equal(t, "Paracetamol 500", order.Items[0].ProductDetails.DrugName)
			},
		},
		{
			name:    "variantIndex hors limites",
			address: testAddress(),
			lines: []OrderLine{
				{ProductID: productID, Quantity: 1, Selection: SelectionRecommended, VariantIndex: 5},
			},
			setupMocks: func(finder *MockProductFinder) {
				finder.On("FindProduct", mock.Anything, productID).Return(testProduct(productID), nil)
			},
			expectedErr: ErrInvalidVariant,
		},
		{
			name:    "sélection inconnue",
			address: testAddress(),
			lines: []OrderLine{
				{ProductID: productID, Quantity: 1, Selection: "cheapest"},
			},
			setupMocks: func(finder *MockProductFinder) {
				finder.On("FindProduct", mock.Anything, productID).Return(testProduct(productID), nil)
			},
			expectedErr: ErrInvalidSelection,
		},
		{
			name:    "produit inconnu",
			address: testAddress(),
			lines: []OrderLine{
				{ProductID: productID, Quantity: 1},
			},
			setupMocks: func(finder *MockProductFinder) {
				finder.On("FindProduct", mock.Anything, productID).Return(nil, nil)
			},
			expectedErr: ErrProductNotFound,
		},
		{
			name:        "liste vide",
			address:     testAddress(),
			lines:       []OrderLine{},
			setupMocks:  func(finder *MockProductFinder) {},
			expectedErr: ErrEmptyOrder,
		},
		{
			name:        "adresse manquante",
			address:     models.Address{},
			lines:       []OrderLine{{ProductID: productID, Quantity: 1}},
			setupMocks:  func(finder *MockProductFinder) {},
			expectedErr: ErrMissingAddress,
		},
		{
			name:    "quantité nulle",
			address: testAddress(),
			lines: []OrderLine{
				{ProductID: productID, Quantity: 0},
			},
			setupMocks:  func(finder *MockProductFinder) {},
			expectedErr: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := new(MockProductFinder)
			tt.setupMocks(finder)

			order, err := BuildOrder(context.Background(), finder, userID, tt.address, tt.lines, "")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, order)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedTotal, order.TotalAmount)
			assert.Equal(t, userID, order.UserID)
			assert.Equal(t, models.OrderPending, order.OrderStatus)
			assert.Equal(t, models.PaymentPending, order.PaymentStatus)
			if tt.check != nil {
				tt.check(t, order)
			}
			finder.AssertExpectations(t)
		})
	}
}

func TestBuildOrder_MultiLineTotal(t *testing.T) {
	userID := primitive.NewObjectID()
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	finder := new(MockProductFinder)
	finder.On("FindProduct", mock.Anything, p1).Return(testProduct(p1), nil)

	other := testProduct(p2)
	other.DrugName = "Azithromycine 250"
	other.Price = 50
	finder.On("FindProduct", mock.Anything, p2).Return(other, nil)

	order, err := BuildOrder(context.Background(), finder, userID, testAddress(), []OrderLine{
		{ProductID: p1, Quantity: 2, Selection: SelectionRecommended}, // 2 × 80
		{ProductID: p2, Quantity: 3},                                  // 3 × 50
	}, "")

	assert.NoError(t, err)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, float64(310), order.TotalAmount)
}

func TestBuildOrder_FinderError(t *testing.T) {
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	finder := new(MockProductFinder)
	finder.On("FindProduct", mock.Anything, productID).Return(nil, errors.New("mongo down"))

	order, err := BuildOrder(context.Background(), finder, userID, testAddress(),
		[]OrderLine{{ProductID: productID, Quantity: 1}}, "")

	assert.Error(t, err)
	assert.Nil(t, order)
}

func TestApplyStatusUpdate(t *testing.T) {
	tests := []struct {
		name            string
		orderStatus     string
		paymentStatus   string
		update          StatusUpdate
		expectedErr     error
		expectedOrder   string
		expectedPayment string
	}{
		{
			name:            "confirmation avec paiement dans la même requête",
			orderStatus:     models.OrderPending,
			paymentStatus:   models.PaymentPending,
			update:          StatusUpdate{OrderStatus: models.OrderConfirmed, PaymentStatus: models.PaymentPaid},
			expectedOrder:   models.OrderConfirmed,
			expectedPayment: models.PaymentPaid,
		},
		{
			name:          "confirmation refusée si paiement pending",
			orderStatus:   models.OrderPending,
			paymentStatus: models.PaymentPending,
			update:        StatusUpdate{OrderStatus: models.OrderConfirmed},
			expectedErr:   ErrConfirmedUnpaid,
		},
		{
			name:          "confirmation refusée si paiement passe à failed",
			orderStatus:   models.OrderPending,
			paymentStatus: models.PaymentPending,
			update:        StatusUpdate{OrderStatus: models.OrderConfirmed, PaymentStatus: models.PaymentFailed},
			expectedErr:   ErrConfirmedUnpaid,
		},
		{
			name:            "confirmation acceptée si le paiement est déjà paid",
			orderStatus:     models.OrderProcessing,
			paymentStatus:   models.PaymentPaid,
			update:          StatusUpdate{OrderStatus: models.OrderConfirmed},
			expectedOrder:   models.OrderConfirmed,
			expectedPayment: models.PaymentPaid,
		},
		{
			name:            "paiement seul, statut de commande inchangé",
			orderStatus:     models.OrderPending,
			paymentStatus:   models.PaymentPending,
			update:          StatusUpdate{PaymentStatus: models.PaymentPaid},
			expectedOrder:   models.OrderPending,
			expectedPayment: models.PaymentPaid,
		},
		{
			name:          "statut inconnu rejeté",
			orderStatus:   models.OrderPending,
			paymentStatus: models.PaymentPending,
			update:        StatusUpdate{OrderStatus: "expedie"},
			expectedErr:   ErrUnknownStatus,
		},
		{
			name:          "paiement inconnu rejeté",
			orderStatus:   models.OrderPending,
			paymentStatus: models.PaymentPending,
			update:        StatusUpdate{PaymentStatus: "done"},
			expectedErr:   ErrUnknownStatus,
		},
		{
			name:          "update vide rejetée",
			orderStatus:   models.OrderPending,
			paymentStatus: models.PaymentPending,
			update:        StatusUpdate{},
			expectedErr:   ErrEmptyUpdate,
		},
		{
			name:          "état terminal delivered verrouillé",
			orderStatus:   models.OrderDelivered,
			paymentStatus: models.PaymentPaid,
			update:        StatusUpdate{OrderStatus: models.OrderShipped},
			expectedErr:   ErrIllegalTransition,
		},
		{
			name:          "paiement refunded verrouillé",
			orderStatus:   models.OrderCancelled,
			paymentStatus: models.PaymentRefunded,
			update:        StatusUpdate{PaymentStatus: models.PaymentPaid},
			expectedErr:   ErrIllegalTransition,
		},
		{
			name:          "saut pending vers delivered interdit",
			orderStatus:   models.OrderPending,
			paymentStatus: models.PaymentPaid,
			update:        StatusUpdate{OrderStatus: models.OrderDelivered},
			expectedErr:   ErrIllegalTransition,
		},
		{
			name:            "même statut accepté (idempotent)",
			orderStatus:     models.OrderShipped,
			paymentStatus:   models.PaymentPaid,
			update:          StatusUpdate{OrderStatus: models.OrderShipped},
			expectedOrder:   models.OrderShipped,
			expectedPayment: models.PaymentPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &models.Order{
				OrderStatus:   tt.orderStatus,
				PaymentStatus: tt.paymentStatus,
			}

			err := ApplyStatusUpdate(order, tt.update, "admin-42")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				// La commande ne doit pas bouger en cas de refus
				assert.Equal(t, tt.orderStatus, order.OrderStatus)
				assert.Equal(t, tt.paymentStatus, order.PaymentStatus)
				assert.Empty(t, order.UpdatedBy)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedOrder, order.OrderStatus)
			assert.Equal(t, tt.expectedPayment, order.PaymentStatus)
			assert.Equal(t, "admin-42", order.UpdatedBy)
			assert.False(t, order.UpdatedAt.IsZero())
		})
	}
}
