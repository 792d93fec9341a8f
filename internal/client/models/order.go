package models

import (
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

var validStatuses = map[OrderStatus]struct{}{
	StatusPending:    {},
	StatusProcessing: {},
	StatusShipped:    {},
	StatusDelivered:  {},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := validStatuses[s]
	return ok
}

// Customer is the contact block captured at checkout.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order is a placed order. Totals are in minor currency units.
type Order struct {
	ID            string      `json:"id"`
	Customer      Customer    `json:"customer"`
	Items         []CartLine  `json:"items"`
	DeliveryZone  string      `json:"deliveryZone"`
	PaymentMethod string      `json:"paymentMethod"`
	TransactionID *string     `json:"transactionId"`
	Total         int64       `json:"total"`
	Status        OrderStatus `json:"status"`
	Date          time.Time   `json:"date"`
}

func (o Order) RecordID() string { return o.ID }

func (o Order) RecordIndex() (string, string) { return o.Customer.Email, o.Customer.Phone }

func (o Order) Clone() Order {
	c := o
	c.Items = append([]CartLine(nil), o.Items...)
	if o.TransactionID != nil {
		tx := *o.TransactionID
		c.TransactionID = &tx
	}
	return c
}

// Orders is the whole order book.
type Orders []Order

func (list Orders) Records() []storage.Record {
	out := make([]storage.Record, len(list))
	for i := range list {
		out[i] = list[i]
	}
	return out
}
