// Package checkout transforme un panier ou une liste d'articles soumise par
// le client en commande validée et intégralement tarifée, avant toute
// persistance. Toute l'arithmétique monétaire est décimale : les montants
// sont persistés et affichés tels quels, la dérive binaire est interdite.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"mfhome_back_end/internal/models"
	"mfhome_back_end/internal/store"
)

var (
	// Livraison offerte à partir de 50, sinon forfait de 5.
	freeShippingThreshold = decimal.NewFromInt(50)
	flatShippingFee       = decimal.NewFromInt(5)

	// TVA fixe de 11%.
	taxRate = decimal.NewFromFloat(0.11)
)

// ValidationError : échec de validation à la frontière, avant toute écriture.
// Fields liste les champs requis manquants quand c'est utile au client.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (champs requis: %s)", e.Message, strings.Join(e.Fields, ", "))
}

// Catalog : la seule vue du catalogue dont l'assemblage a besoin.
type Catalog interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// OrderCreator : le contrat de persistance consommé par PlaceOrder.
type OrderCreator interface {
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
}

// Customer : champs client soumis au checkout.
type Customer struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Notes    string `json:"notes"`
}

// SubmittedItem : ligne soumise sur le chemin direct. Les valeurs monétaires
// du client sont acceptées dans le payload mais jamais crues : le prix est
// toujours relu du catalogue à l'assemblage.
type SubmittedItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// Assembler : moteur de tarification et de validation des commandes.
type Assembler struct {
	catalog Catalog
}

func NewAssembler(catalog Catalog) *Assembler {
	return &Assembler{catalog: catalog}
}

// FromCart assemble une commande depuis les lignes du panier (chemin invité).
// L'email est optionnel ici — le checkout panier reste accessible sans.
func (a *Assembler) FromCart(items []models.CartItemDetail, cust Customer, sessionID string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Message: "Cart is empty"}
	}
	if err := requireCustomerFields(cust, false); err != nil {
		return nil, err
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid quantity for product %q", it.Name)}
		}
		pid := it.ProductID
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   &pid,
			ProductName: it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
			TotalPrice:  it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}

	order := buildOrder(orderItems, cust)
	order.SessionID = &sessionID
	return order, nil
}

// FromSubmission assemble une commande depuis une liste d'articles soumise
// directement (chemin strict) : email requis, et chaque article doit
// référencer un produit résolvable — le prix unitaire est repris du
// catalogue vivant, jamais du payload.
func (a *Assembler) FromSubmission(ctx context.Context, items []SubmittedItem, cust Customer, sessionID string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Message: "Order must have at least one item"}
	}
	if err := requireCustomerFields(cust, true); err != nil {
		return nil, err
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid quantity for product %d", it.ProductID)}
		}
		if it.ProductID == 0 {
			return nil, &ValidationError{Message: "Each item needs a product_id", Fields: []string{"product_id"}}
		}
		product, err := a.catalog.FindByID(ctx, it.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, &ValidationError{Message: fmt.Sprintf("Unknown product %d", it.ProductID)}
		}
		if err != nil {
			return nil, fmt.Errorf("résolution produit %d: %w", it.ProductID, err)
		}

		name := product.Name
		if name == "" {
			name = it.ProductName
		}
		pid := product.ID
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   &pid,
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   product.Price,
			TotalPrice:  product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}

	order := buildOrder(orderItems, cust)
	if sessionID != "" {
		order.SessionID = &sessionID
	}
	return order, nil
}

// buildOrder calcule les montants une seule fois ; ils ne seront jamais
// recalculés depuis le catalogue.
func buildOrder(items []models.OrderItem, cust Customer) *models.Order {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.TotalPrice)
	}
	subtotal = subtotal.Round(2)

	shipping := flatShippingFee
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(shipping).Add(tax)

	var email *string
	if cust.Email != "" {
		e := cust.Email
		email = &e
	}
	city := cust.City
	if city == "" {
		city = "Unknown"
	}

	return &models.Order{
		OrderNumber:     GenerateOrderNumber(),
		CustomerName:    cust.FullName,
		CustomerEmail:   email,
		CustomerPhone:   cust.Phone,
		CustomerAddress: cust.Address,
		CustomerCity:    city,
		Notes:           cust.Notes,
		Subtotal:        subtotal,
		ShippingFee:     shipping,
		TaxAmount:       tax,
		TotalAmount:     total,
		Status:          models.StatusPending,
		Items:           items,
	}
}

// requireCustomerFields vérifie les champs obligatoires dans l'ordre, et
// renvoie la liste complète des manquants en une fois. L'email n'est requis
// que sur le chemin direct — asymétrie voulue, le checkout panier doit
// rester accessible aux invités.
func requireCustomerFields(cust Customer, emailRequired bool) error {
	missing := []string{}
	if strings.TrimSpace(cust.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if emailRequired && strings.TrimSpace(cust.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(cust.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(cust.Address) == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "Missing customer information", Fields: missing}
	}
	return nil
}
