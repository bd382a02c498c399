package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
	domainRepo "github.com/rosedale/studio-api/internal/domain/repository"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetByConfirmationCode(ctx context.Context, code string, source enum.SignupSource) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Transactions").
		First(&order, "confirmation_code = ? AND source = ?", code, source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Upsert writes the order snapshot atomically: the order row is created or
// saved, then line items and transactions are deleted and reinserted so
// repeated webhooks never accumulate duplicates.
func (r *orderRepository) Upsert(ctx context.Context, order *entity.Order, lineItems []entity.OrderLineItem, transactions []entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.ID == 0 {
			if err := tx.Create(order).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Omit("LineItems", "Transactions").Save(order).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&entity.OrderLineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&entity.Transaction{}).Error; err != nil {
			return err
		}

		for i := range lineItems {
			lineItems[i].ID = 0
			lineItems[i].OrderID = order.ID
		}
		if len(lineItems) > 0 {
			if err := tx.Create(&lineItems).Error; err != nil {
				return err
			}
		}

		for i := range transactions {
			transactions[i].ID = 0
			transactions[i].OrderID = order.ID
		}
		if len(transactions) > 0 {
			if err := tx.Create(&transactions).Error; err != nil {
				return err
			}
		}

		order.LineItems = lineItems
		order.Transactions = transactions
		return nil
	})
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new catalog item repository
func NewItemRepository(db *gorm.DB) domainRepo.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).First(&item, "external_id = ?", externalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetOrCreate(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	existing, err := r.GetByExternalID(ctx, item.ExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	err = r.db.WithContext(ctx).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Raced with a concurrent webhook for the same item, or the name
		// collided with an existing item under a different external id.
		existing, fetchErr := r.GetByExternalID(ctx, item.ExternalID)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if existing == nil {
			existing, fetchErr = r.getByName(ctx, item.Name)
			if fetchErr != nil {
				return nil, fetchErr
			}
		}
		if existing == nil {
			return nil, fmt.Errorf("item %q conflicts with an existing row that could not be found", item.Name)
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) getByName(ctx context.Context, name string) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).First(&item, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
