package services

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/client/models"
)

// Checkout places an order from the cart, links it to the signed-in user
// and empties the cart. Customer fields left blank are taken from the
// signed-in user.
func Checkout(ctx context.Context, cart CartService, orders OrderService, accounts AccountService, in PlaceOrderInput) (*models.Order, error) {
	if u := accounts.CurrentUser(); u != nil {
		if in.Customer.Name == "" {
			in.Customer.Name = u.Name
		}
		if in.Customer.Email == "" {
			in.Customer.Email = u.Email
		}
		if in.Customer.Phone == "" {
			in.Customer.Phone = u.Phone
		}
	}

	order, err := orders.Place(ctx, in, cart.Lines())
	if err != nil {
		return nil, err
	}

	accounts.AddOrderToUser(ctx, *order)
	cart.Clear(ctx)

	return order, nil
}
