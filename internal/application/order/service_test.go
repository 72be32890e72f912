package order

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) Put(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockOrderStore) PutLines(ctx context.Context, lines []domain.OrderItem) error {
	return m.Called(ctx, lines).Error(0)
}
func (m *mockOrderStore) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if o, _ := args.Get(0).(*domain.Order); o != nil {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOrderStore) GetLines(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if l, _ := args.Get(0).([]domain.OrderItem); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOrderStore) ListByPhone(ctx context.Context, phone string) ([]domain.Order, error) {
	args := m.Called(ctx, phone)
	if l, _ := args.Get(0).([]domain.Order); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOrderStore) Update(ctx context.Context, orderID string, updates map[string]interface{}) error {
	return m.Called(ctx, orderID, updates).Error(0)
}

type mockItemStore struct{ mock.Mock }

func (m *mockItemStore) Get(ctx context.Context, itemID string) (*domain.Item, error) {
	args := m.Called(ctx, itemID)
	if it, _ := args.Get(0).(*domain.Item); it != nil {
		return it, args.Error(1)
	}
	return nil, args.Error(1)
}

const testPhone = "+15550001111"

func activeItem(id string, priceCents int64) *domain.Item {
	return &domain.Item{
		ItemID:     id,
		Title:      "Item " + id,
		PriceCents: priceCents,
		Currency:   "USD",
		Active:     1,
	}
}

func TestCreate_ComputesTotalFromCatalog(t *testing.T) {
	os := &mockOrderStore{}
	is := &mockItemStore{}

	is.On("Get", mock.Anything, "i1").Return(activeItem("i1", 1500), nil)
	is.On("Get", mock.Anything, "i2").Return(activeItem("i2", 700), nil)
	os.On("Put", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Phone == testPhone && o.Status == domain.OrderPending &&
			o.TotalCents == 2*1500+3*700 && o.Currency == "USD"
	})).Return(nil)
	os.On("PutLines", mock.Anything, mock.MatchedBy(func(lines []domain.OrderItem) bool {
		return len(lines) == 2 && lines[0].PriceCents == 1500 && lines[1].Quantity == 3
	})).Return(nil)

	svc := NewService(os, is)
	o, err := svc.Create(context.Background(), testPhone, domain.CreateOrderRequest{
		Lines: []domain.CreateOrderLine{
			{ItemID: "i1", Quantity: 2},
			{ItemID: "i2", Quantity: 3},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5100), o.TotalCents)
	assert.Len(t, o.Lines, 2)
	os.AssertExpectations(t)
}

func TestCreate_EmptyLines_BadRequest(t *testing.T) {
	svc := NewService(nil, nil)
	_, err := svc.Create(context.Background(), testPhone, domain.CreateOrderRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_DelistedItem_Refused(t *testing.T) {
	is := &mockItemStore{}
	delisted := activeItem("i1", 1000)
	delisted.Active = 0
	is.On("Get", mock.Anything, "i1").Return(delisted, nil)

	svc := NewService(nil, is)
	_, err := svc.Create(context.Background(), testPhone, domain.CreateOrderRequest{
		Lines: []domain.CreateOrderLine{{ItemID: "i1", Quantity: 1}},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCreate_MixedCurrencies_Refused(t *testing.T) {
	is := &mockItemStore{}
	eur := activeItem("i2", 900)
	eur.Currency = "EUR"
	is.On("Get", mock.Anything, "i1").Return(activeItem("i1", 1000), nil)
	is.On("Get", mock.Anything, "i2").Return(eur, nil)

	svc := NewService(nil, is)
	_, err := svc.Create(context.Background(), testPhone, domain.CreateOrderRequest{
		Lines: []domain.CreateOrderLine{
			{ItemID: "i1", Quantity: 1},
			{ItemID: "i2", Quantity: 1},
		},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestGetMine_OtherCustomersOrder_ReadsAsNotFound(t *testing.T) {
	os := &mockOrderStore{}
	os.On("Get", mock.Anything, "o1").Return(&domain.Order{
		OrderID: "o1",
		Phone:   "+15559998888",
	}, nil)

	svc := NewService(os, nil)
	_, err := svc.GetMine(context.Background(), testPhone, "o1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	os.AssertNotCalled(t, "GetLines", mock.Anything, mock.Anything)
}

func TestCancelMine_PendingOrder(t *testing.T) {
	os := &mockOrderStore{}
	os.On("Get", mock.Anything, "o1").Return(&domain.Order{
		OrderID: "o1",
		Phone:   testPhone,
		Status:  domain.OrderPending,
	}, nil)
	os.On("GetLines", mock.Anything, "o1").Return([]domain.OrderItem{}, nil)
	os.On("Update", mock.Anything, "o1", map[string]interface{}{"status": domain.OrderCancelled}).Return(nil)

	svc := NewService(os, nil)
	o, err := svc.CancelMine(context.Background(), testPhone, "o1")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, o.Status)
}

func TestCancelMine_PaidOrder_Refused(t *testing.T) {
	os := &mockOrderStore{}
	os.On("Get", mock.Anything, "o1").Return(&domain.Order{
		OrderID: "o1",
		Phone:   testPhone,
		Status:  domain.OrderPaid,
	}, nil)
	os.On("GetLines", mock.Anything, "o1").Return([]domain.OrderItem{}, nil)

	svc := NewService(os, nil)
	_, err := svc.CancelMine(context.Background(), testPhone, "o1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestSetStatus_ValidTransition(t *testing.T) {
	os := &mockOrderStore{}
	os.On("Get", mock.Anything, "o1").Return(&domain.Order{
		OrderID: "o1",
		Status:  domain.OrderPending,
	}, nil)
	os.On("Update", mock.Anything, "o1", map[string]interface{}{"status": domain.OrderPaid}).Return(nil)

	svc := NewService(os, nil)
	o, err := svc.SetStatus(context.Background(), "o1", domain.OrderPaid)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, o.Status)
}

func TestSetStatus_InvalidTransition_Refused(t *testing.T) {
	os := &mockOrderStore{}
	os.On("Get", mock.Anything, "o1").Return(&domain.Order{
		OrderID: "o1",
		Status:  domain.OrderFulfilled,
	}, nil)

	svc := NewService(os, nil)
	_, err := svc.SetStatus(context.Background(), "o1", domain.OrderPending)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	os.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCanTransitionOrder(t *testing.T) {
	assert.True(t, domain.CanTransitionOrder(domain.OrderPending, domain.OrderPaid))
	assert.True(t, domain.CanTransitionOrder(domain.OrderPaid, domain.OrderFulfilled))
	assert.False(t, domain.CanTransitionOrder(domain.OrderCancelled, domain.OrderPaid))
	assert.False(t, domain.CanTransitionOrder(domain.OrderFulfilled, domain.OrderPending))
}
