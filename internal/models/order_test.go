package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

// Les tris et les $set des handlers visent created_at/updated_at :
// les noms de champs persistés ne doivent pas dériver vers du camelCase.
func TestOrderBsonFieldNames(t *testing.T) {
	now := time.Now()
	order := Order{
		OrderStatus:   OrderPending,
		PaymentStatus: PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	raw, err := bson.Marshal(order)
	assert.NoError(t, err)

	var doc bson.M
	assert.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Contains(t, doc, "created_at")
	assert.Contains(t, doc, "updated_at")
	assert.NotContains(t, doc, "createdAt")
	assert.NotContains(t, doc, "updatedAt")
}

func TestValidOrderStatus(t *testing.T) {
	valid := []string{
		OrderPending, OrderOnHold, OrderProcessing, OrderConfirmed,
		OrderShipped, OrderOutForDelivery, OrderDelivered,
		OrderCancelled, OrderReturned, OrderFailed,
	}
	for _, s := range valid {
		assert.True(t, ValidOrderStatus(s), s)
	}

	assert.False(t, ValidOrderStatus("expedie"))
	assert.False(t, ValidOrderStatus(""))
	assert.False(t, ValidOrderStatus("Pending"))
}

func TestValidPaymentStatus(t *testing.T) {
	valid := []string{PaymentPending, PaymentFailed, PaymentPaid, PaymentRefunded, PaymentChargeback}
	for _, s := range valid {
		assert.True(t, ValidPaymentStatus(s), s)
	}

	assert.False(t, ValidPaymentStatus("done"))
	assert.False(t, ValidPaymentStatus(""))
}

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderCancelled, true},
		{OrderProcessing, OrderConfirmed, true},
		{OrderConfirmed, OrderShipped, true},
		{OrderShipped, OrderOutForDelivery, true},
		{OrderOutForDelivery, OrderDelivered, true},
		{OrderShipped, OrderReturned, true},

		// Même état, toujours permis
		{OrderShipped, OrderShipped, true},
		{OrderDelivered, OrderDelivered, true},

		// Sauts et retours interdits
		{OrderPending, OrderDelivered, false},
		{OrderShipped, OrderPending, false},
		{OrderConfirmed, OrderProcessing, false},

		// États terminaux verrouillés
		{OrderDelivered, OrderReturned, false},
		{OrderCancelled, OrderPending, false},
		{OrderReturned, OrderShipped, false},
		{OrderFailed, OrderPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransitionOrder(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestCanTransitionPayment(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{PaymentPending, PaymentPaid, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentFailed, PaymentPaid, true},
		{PaymentFailed, PaymentPending, true},
		{PaymentPaid, PaymentRefunded, true},
		{PaymentPaid, PaymentChargeback, true},

		{PaymentPaid, PaymentPending, false},
		{PaymentRefunded, PaymentPaid, false},
		{PaymentChargeback, PaymentPending, false},
		{PaymentPending, PaymentRefunded, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransitionPayment(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}
