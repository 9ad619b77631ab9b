package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts de commande
const (
	OrderPending        = "pending"
	OrderOnHold         = "on_hold"
	OrderProcessing     = "processing"
	OrderConfirmed      = "confirmed"
	OrderShipped        = "shipped"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
	OrderReturned       = "returned"
	OrderFailed         = "failed"
)

// Statuts de paiement
const (
	PaymentPending    = "pending"
	PaymentFailed     = "failed"
	PaymentPaid       = "paid"
	PaymentRefunded   = "refunded"
	PaymentChargeback = "chargeback"
)

// Snapshot dénormalisé du produit au moment de la commande.
// Les prix du catalogue peuvent changer ensuite : la commande, jamais.
type ProductDetails struct {
	DrugName     string  `json:"drugName" bson:"drugName"`
	ImageURL     string  `json:"imageUrl" bson:"imageUrl"`
	Size         string  `json:"size" bson:"size"`
	Manufacturer string  `json:"manufacturer" bson:"manufacturer"`
	Category     string  `json:"category" bson:"category"`
	Salt         string  `json:"salt" bson:"salt"`
	MRP          float64 `json:"mrp" bson:"mrp"`
	Margin       float64 `json:"margin" bson:"margin"`
}

type OrderItem struct {
	ProductID      primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity       int                `json:"quantity" bson:"quantity"`
	Price          float64            `json:"price" bson:"price"`
	ProductDetails ProductDetails     `json:"productDetails" bson:"productDetails"`
}

type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	Items           []OrderItem        `json:"items" bson:"items"`
	TotalAmount     float64            `json:"totalAmount" bson:"totalAmount"`
	ShippingAddress Address            `json:"shippingAddress" bson:"shippingAddress"`
	PaymentStatus   string             `json:"paymentStatus" bson:"paymentStatus"`
	OrderStatus     string             `json:"orderStatus" bson:"orderStatus"`
	PaymentID       string             `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	PrescriptionURL string             `json:"prescriptionUrl,omitempty" bson:"prescriptionUrl,omitempty"`
	UpdatedBy       string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// Graphe de transitions des statuts de commande.
// Les états delivered, cancelled, returned et failed sont terminaux.
var orderTransitions = map[string][]string{
	OrderPending:        {OrderOnHold, OrderProcessing, OrderConfirmed, OrderCancelled, OrderFailed},
	OrderOnHold:         {OrderPending, OrderProcessing, OrderConfirmed, OrderCancelled, OrderFailed},
	OrderProcessing:     {OrderOnHold, OrderConfirmed, OrderCancelled, OrderFailed},
	OrderConfirmed:      {OrderShipped, OrderCancelled, OrderFailed},
	OrderShipped:        {OrderOutForDelivery, OrderDelivered, OrderReturned, OrderFailed},
	OrderOutForDelivery: {OrderDelivered, OrderReturned, OrderFailed},
	OrderDelivered:      {},
	OrderCancelled:      {},
	OrderReturned:       {},
	OrderFailed:         {},
}

// Graphe de transitions des statuts de paiement.
// refunded et chargeback sont terminaux.
var paymentTransitions = map[string][]string{
	PaymentPending:    {PaymentPaid, PaymentFailed},
	PaymentFailed:     {PaymentPending, PaymentPaid},
	PaymentPaid:       {PaymentRefunded, PaymentChargeback},
	PaymentRefunded:   {},
	PaymentChargeback: {},
}

func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

func ValidPaymentStatus(s string) bool {
	_, ok := paymentTransitions[s]
	return ok
}

func CanTransitionOrder(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CanTransitionPayment(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
