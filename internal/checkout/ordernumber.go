package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"mfhome_back_end/internal/models"
	"mfhome_back_end/internal/store"
)

// maxCreateAttempts borne les régénérations du numéro de commande en cas
// de collision sur la contrainte unique.
const maxCreateAttempts = 3

// GenerateOrderNumber : préfixe horodaté + suffixe aléatoire. La
// probabilité de collision est négligeable, mais la contrainte unique du
// store reste l'autorité — voir PlaceOrder.
func GenerateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102150405"), suffix)
}

// PlaceOrder persiste la commande, en régénérant le numéro et en
// réessayant un nombre borné de fois si le store signale une collision.
// Toute autre erreur est renvoyée telle quelle.
func PlaceOrder(ctx context.Context, orders OrderCreator, o *models.Order) (*models.Order, error) {
	var lastErr error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		created, err := orders.Create(ctx, o)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}
		lastErr = err
		o.OrderNumber = GenerateOrderNumber()
		log.Printf("⚠️  Collision numéro de commande (tentative %d/%d), régénération", attempt, maxCreateAttempts)
	}
	return nil, fmt.Errorf("échec création commande après %d tentatives: %w", maxCreateAttempts, lastErr)
}
