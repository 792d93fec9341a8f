package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/client/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/inputx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/metrics"
)

// PlaceOrderInput is the checkout form.
type PlaceOrderInput struct {
	Customer      models.Customer
	DeliveryZone  string
	PaymentMethod string
	TransactionID *string
}

// OrderService is the order book written by checkout and read by the
// account store.
type OrderService interface {
	Init(ctx context.Context) error
	Place(ctx context.Context, in PlaceOrderInput, lines []models.CartLine) (*models.Order, error)
	List() models.Orders
	SetStatus(ctx context.Context, id string, status models.OrderStatus) error
}

type orderService struct {
	mu     sync.Mutex
	store  Persister
	log    logging.Logger
	now    func() time.Time
	ready  bool
	orders models.Orders
}

func NewOrderService(store Persister, log logging.Logger) OrderService {
	if log == nil {
		log = logging.Discard()
	}
	return &orderService{store: store, log: log.With("component", "orders"), now: time.Now}
}

func (o *orderService) Init(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ready {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var orders models.Orders
	if o.store.Available() {
		if err := o.store.LoadAll(ctx, common.CollectionOrders, &orders); err != nil {
			o.log.Debug(ctx, "orders not loaded from primary", "error", err)
			orders = nil
		}
	}
	if len(orders) == 0 {
		var flat models.Orders
		if err := o.store.LoadFlat(ctx, common.FlatKeyOrders, &flat); err == nil {
			orders = flat
		}
	}

	o.orders = orders
	o.ready = true
	return nil
}

// Place validates the customer block and appends a pending order built from
// lines. The total is the sum of line subtotals.
func (o *orderService) Place(ctx context.Context, in PlaceOrderInput, lines []models.CartLine) (*models.Order, error) {
	customer := models.Customer{
		Name:    inputx.Sanitize(in.Customer.Name),
		Email:   inputx.NormalizeEmail(in.Customer.Email),
		Phone:   inputx.NormalizePhone(in.Customer.Phone),
		Address: inputx.Sanitize(in.Customer.Address),
	}

	switch {
	case customer.Name == "":
		return nil, common.NewValidationError("name", "name is required")
	case !inputx.ValidEmail(customer.Email):
		return nil, common.NewValidationError("email", "invalid email address")
	case !inputx.ValidPhone(customer.Phone):
		return nil, common.NewValidationError("phone", "invalid phone number")
	case customer.Address == "":
		return nil, common.NewValidationError("address", "address is required")
	case len(lines) == 0:
		return nil, common.NewValidationError("items", "cart is empty")
	}

	payment := inputx.Sanitize(in.PaymentMethod)
	if payment == "" {
		return nil, common.NewValidationError("paymentMethod", "payment method is required")
	}

	var total int64
	for _, l := range lines {
		total += l.Price * int64(l.Quantity)
	}

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("generate order id: %w", err)
	}

	order := models.Order{
		ID:            id,
		Customer:      customer,
		Items:         append([]models.CartLine(nil), lines...),
		DeliveryZone:  inputx.Sanitize(in.DeliveryZone),
		PaymentMethod: payment,
		TransactionID: in.TransactionID,
		Total:         total,
		Status:        models.StatusPending,
		Date:          o.now().UTC(),
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.orders = append(o.orders, order)
	o.persist(ctx)

	metrics.OrdersPlaced.Inc()
	o.log.Info(ctx, "order placed", "order_id", id, "total", total)

	placed := order.Clone()
	return &placed, nil
}

func (o *orderService) List() models.Orders {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make(models.Orders, len(o.orders))
	for i := range o.orders {
		out[i] = o.orders[i].Clone()
	}
	return out
}

func (o *orderService) SetStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if !status.Valid() {
		return common.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.orders {
		if o.orders[i].ID == id {
			o.orders[i].Status = status
			o.persist(ctx)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (o *orderService) persist(ctx context.Context) {
	o.store.Save(ctx, common.CollectionOrders, common.FlatKeyOrders, o.orders)
}
