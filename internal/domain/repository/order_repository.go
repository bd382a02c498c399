package repository

import (
	"context"

	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	GetByConfirmationCode(ctx context.Context, code string, source enum.SignupSource) (*entity.Order, error)
	// Upsert creates or updates the order and replaces its line items and
	// transactions wholesale in a single database transaction. Webhook
	// payloads are full snapshots, not deltas.
	Upsert(ctx context.Context, order *entity.Order, lineItems []entity.OrderLineItem, transactions []entity.Transaction) error
}

// ItemRepository defines the interface for catalog item operations
type ItemRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (*entity.Item, error)
	// GetOrCreate returns the item matching item.ExternalID, creating it
	// from the given template when absent.
	GetOrCreate(ctx context.Context, item *entity.Item) (*entity.Item, error)
}
