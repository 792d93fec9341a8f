package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_RecordInterfaces(t *testing.T) {
	u := User{ID: "u1", Email: "a@b.co", Phone: "+123"}

	var rec storage.Record = u
	assert.Equal(t, "u1", rec.RecordID())

	idx, ok := rec.(storage.Indexed)
	require.True(t, ok)
	email, phone := idx.RecordIndex()
	assert.Equal(t, "a@b.co", email)
	assert.Equal(t, "+123", phone)

	recs := Users{u, {ID: "u2"}}.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "u2", recs[1].RecordID())
}

func TestUser_CloneIsDeep(t *testing.T) {
	tx := "tx-1"
	u := &User{ID: "u1", Orders: []Order{{ID: "o1", TransactionID: &tx, Items: []CartLine{{ProductID: "p"}}}}}

	c := u.Clone()
	c.Orders[0].Items[0].ProductID = "changed"
	*c.Orders[0].TransactionID = "changed"
	c.Orders = append(c.Orders, Order{ID: "o2"})

	assert.Equal(t, "p", u.Orders[0].Items[0].ProductID)
	assert.Equal(t, "tx-1", *u.Orders[0].TransactionID)
	assert.Len(t, u.Orders, 1)

	var nilUser *User
	assert.Nil(t, nilUser.Clone())
}

func TestUser_JSONShape(t *testing.T) {
	u := User{
		ID:           "u1",
		Name:         "Alice",
		Email:        "alice@example.com",
		Phone:        "+15551234567",
		PasswordHash: "abc",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Orders:       []Order{},
	}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, k := range []string{"id", "name", "email", "phone", "passwordHash", "createdAt", "orders"} {
		assert.Contains(t, raw, k)
	}
}

func TestOrder_TransactionIDNullable(t *testing.T) {
	b, err := json.Marshal(Order{ID: "o1", Status: StatusPending})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"transactionId":null`)
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, StatusShipped.Valid())
	assert.False(t, OrderStatus("lost").Valid())
}

func TestCart_TotalsAndLines(t *testing.T) {
	c := Cart{
		{ID: "p1", ProductID: "p1", Name: "Shirt", Price: 1500, Quantity: 2},
		{ID: "p2:M:red", ProductID: "p2", Name: "Hat", Price: 700, Quantity: 1, SelectedSize: "M", SelectedColor: "red"},
	}

	assert.Equal(t, int64(3700), c.Total())

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, CartLine{ProductID: "p2", Name: "Hat", Price: 700, Quantity: 1, SelectedSize: "M", SelectedColor: "red"}, lines[1])
}

func TestCartItemID(t *testing.T) {
	assert.Equal(t, "p1", CartItemID("p1", Variant{}))
	assert.Equal(t, "p1:M:", CartItemID("p1", Variant{Size: "M"}))
	assert.Equal(t, "p1:L:blue", CartItemID("p1", Variant{Size: "L", Color: "blue"}))
}
