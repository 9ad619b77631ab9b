package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"meds4you_back_end/internal/models"
)

// Choix du médicament sur une ligne de commande
const (
	SelectionOriginal    = "original"
	SelectionRecommended = "recommended"
)

var (
	ErrEmptyOrder        = errors.New("la commande ne contient aucun produit")
	ErrMissingAddress    = errors.New("adresse de livraison manquante")
	ErrProductNotFound   = errors.New("produit introuvable")
	ErrInvalidQuantity   = errors.New("quantité invalide")
	ErrInvalidSelection  = errors.New("sélection invalide (original ou recommended)")
	ErrInvalidVariant    = errors.New("index d'alternative hors limites")
	ErrEmptyUpdate       = errors.New("aucun statut fourni")
	ErrUnknownStatus     = errors.New("statut inconnu")
	ErrConfirmedUnpaid   = errors.New("une commande ne peut être confirmée que si le paiement est 'paid'")
	ErrIllegalTransition = errors.New("transition de statut interdite")
)

// OrderLine est une ligne du payload de checkout. Le total éventuellement
// calculé côté client n'apparaît volontairement pas ici : il n'est jamais lu.
type OrderLine struct {
	ProductID    primitive.ObjectID `json:"productId" binding:"required"`
	Quantity     int                `json:"quantity"`
	Selection    string             `json:"selection"`
	VariantIndex int                `json:"variantIndex"`
}

// ProductFinder résout une référence produit du catalogue
type ProductFinder interface {
	FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// BuildOrder construit une commande tarifée à partir du panier soumis.
// Le total est toujours recalculé côté serveur à partir du catalogue.
func BuildOrder(ctx context.Context, finder ProductFinder, userID primitive.ObjectID,
	address models.Address, lines []OrderLine, prescriptionURL string) (*models.Order, error) {

	if address.Street == "" || address.City == "" {
		return nil, ErrMissingAddress
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &models.Order{
		UserID:          userID,
		ShippingAddress: address,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderPending,
		PrescriptionURL: prescriptionURL,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	var total float64
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}

		product, err := finder.FindProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}

		item, err := buildItem(product, line)
		if err != nil {
			return nil, err
		}

		total += item.Price * float64(item.Quantity)
		order.Items = append(order.Items, item)
	}

	order.TotalAmount = total
	return order, nil
}

// buildItem fige la ligne : nom, fabricant et prix viennent de l'alternative
// choisie le cas échéant ; size, category, salt, mrp et margin viennent
// toujours du produit d'origine.
func buildItem(product *models.Product, line OrderLine) (models.OrderItem, error) {
	selection := line.Selection
	if selection == "" {
		selection = SelectionOriginal
	}
	if selection != SelectionOriginal && selection != SelectionRecommended {
		return models.OrderItem{}, ErrInvalidSelection
	}

	name := product.DrugName
	manufacturer := product.Manufacturer
	price := product.Price
	imageURL := product.ImageURL

	if selection == SelectionRecommended && len(product.AlternateMedicines) > 0 {
		if line.VariantIndex < 0 || line.VariantIndex >= len(product.AlternateMedicines) {
			return models.OrderItem{}, ErrInvalidVariant
		}
		alt := product.AlternateMedicines[line.VariantIndex]
		name = alt.Name
		manufacturer = alt.Manufacturer
		price = alt.Price
	}

	return models.OrderItem{
		ProductID: product.ID,
		Quantity:  line.Quantity,
		Price:     price,
		ProductDetails: models.ProductDetails{
			DrugName:     name,
			ImageURL:     imageURL,
			Size:         product.Size,
			Manufacturer: manufacturer,
			Category:     product.Category,
			Salt:         product.Salt,
			MRP:          product.MRP,
			Margin:       product.Margin,
		},
	}, nil
}

// StatusUpdate porte les nouveaux statuts demandés par l'admin.
// Un champ vide signifie « inchangé ».
type StatusUpdate struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

// ApplyStatusUpdate applique une mise à jour de statuts sur la commande,
// en respectant le graphe de transitions et la règle confirmed/paid.
// La commande n'est pas modifiée en cas d'erreur.
func ApplyStatusUpdate(order *models.Order, upd StatusUpdate, adminID string) error {
	if upd.OrderStatus == "" && upd.PaymentStatus == "" {
		return ErrEmptyUpdate
	}
	if upd.OrderStatus != "" && !models.ValidOrderStatus(upd.OrderStatus) {
		return ErrUnknownStatus
	}
	if upd.PaymentStatus != "" && !models.ValidPaymentStatus(upd.PaymentStatus) {
		return ErrUnknownStatus
	}

	nextOrder := order.OrderStatus
	if upd.OrderStatus != "" {
		nextOrder = upd.OrderStatus
	}
	nextPayment := order.PaymentStatus
	if upd.PaymentStatus != "" {
		nextPayment = upd.PaymentStatus
	}

	if !models.CanTransitionOrder(order.OrderStatus, nextOrder) {
		return ErrIllegalTransition
	}
	if !models.CanTransitionPayment(order.PaymentStatus, nextPayment) {
		return ErrIllegalTransition
	}

	// Règle métier : pas de confirmation sans paiement encaissé
	if nextOrder == models.OrderConfirmed && order.OrderStatus != models.OrderConfirmed &&
		nextPayment != models.PaymentPaid {
		return ErrConfirmedUnpaid
	}

	order.OrderStatus = nextOrder
	order.PaymentStatus = nextPayment
	order.UpdatedBy = adminID
	order.UpdatedAt = time.Now()
	return nil
}
