package order

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/pkg/id"
	"github.com/storefront-api/internal/pkg/validate"
)

type OrderStore interface {
	Put(ctx context.Context, o *domain.Order) error
	PutLines(ctx context.Context, lines []domain.OrderItem) error
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	GetLines(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	ListByPhone(ctx context.Context, phone string) ([]domain.Order, error)
	Update(ctx context.Context, orderID string, updates map[string]interface{}) error
}

type ItemStore interface {
	Get(ctx context.Context, itemID string) (*domain.Item, error)
}

type Service interface {
	// Create builds an order from catalog items. Prices and totals come from
	// the catalog, never from the request.
	Create(ctx context.Context, phone string, req domain.CreateOrderRequest) (*domain.Order, error)
	ListMine(ctx context.Context, phone string) ([]domain.Order, error)
	// GetMine returns the order with its lines; an order belonging to a
	// different phone reads as not found.
	GetMine(ctx context.Context, phone, orderID string) (*domain.Order, error)
	// CancelMine cancels a still-pending order of the caller.
	CancelMine(ctx context.Context, phone, orderID string) (*domain.Order, error)

	// Admin operations.
	ListByPhone(ctx context.Context, phone string) ([]domain.Order, error)
	SetStatus(ctx context.Context, orderID, status string) (*domain.Order, error)
}

type service struct {
	orderRepo OrderStore
	itemRepo  ItemStore
}

func NewService(orderRepo OrderStore, itemRepo ItemStore) Service {
	return &service{orderRepo: orderRepo, itemRepo: itemRepo}
}

func (s *service) Create(ctx context.Context, phone string, req domain.CreateOrderRequest) (*domain.Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	orderID := id.New()
	var total int64
	currency := ""
	lines := make([]domain.OrderItem, 0, len(req.Lines))
	for _, l := range req.Lines {
		it, err := s.itemRepo.Get(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if it.Active != 1 {
			return nil, fmt.Errorf("item %s is not available: %w", l.ItemID, domain.ErrConflict)
		}
		if currency == "" {
			currency = it.Currency
		} else if currency != it.Currency {
			return nil, fmt.Errorf("mixed currencies in one order: %w", domain.ErrBadRequest)
		}
		total += it.PriceCents * int64(l.Quantity)
		lines = append(lines, domain.OrderItem{
			OrderID:    orderID,
			ItemID:     it.ItemID,
			Title:      it.Title,
			PriceCents: it.PriceCents,
			Quantity:   l.Quantity,
		})
	}

	o := &domain.Order{
		OrderID:    orderID,
		Phone:      phone,
		Status:     domain.OrderPending,
		TotalCents: total,
		Currency:   currency,
		Note:       req.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.orderRepo.Put(ctx, o); err != nil {
		return nil, err
	}
	if err := s.orderRepo.PutLines(ctx, lines); err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

func (s *service) ListMine(ctx context.Context, phone string) ([]domain.Order, error) {
	return s.orderRepo.ListByPhone(ctx, phone)
}

func (s *service) GetMine(ctx context.Context, phone, orderID string) (*domain.Order, error) {
	o, err := s.orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Phone != phone {
		// Don't leak other customers' order IDs.
		return nil, fmt.Errorf("order not found: %w", domain.ErrNotFound)
	}
	lines, err := s.orderRepo.GetLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

func (s *service) CancelMine(ctx context.Context, phone, orderID string) (*domain.Order, error) {
	o, err := s.GetMine(ctx, phone, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.OrderPending {
		return nil, fmt.Errorf("order is %s: %w", o.Status, domain.ErrConflict)
	}
	if err := s.orderRepo.Update(ctx, orderID, map[string]interface{}{"status": domain.OrderCancelled}); err != nil {
		return nil, err
	}
	o.Status = domain.OrderCancelled
	return o, nil
}

func (s *service) ListByPhone(ctx context.Context, phone string) ([]domain.Order, error) {
	return s.orderRepo.ListByPhone(ctx, phone)
}

func (s *service) SetStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	o, err := s.orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionOrder(o.Status, status) {
		return nil, fmt.Errorf("cannot move order from %s to %s: %w", o.Status, status, domain.ErrConflict)
	}
	if err := s.orderRepo.Update(ctx, orderID, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}
	o.Status = status
	return o, nil
}
