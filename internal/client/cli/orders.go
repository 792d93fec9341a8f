package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/client/services"
	"github.com/dmitrijs2005/shopkeeper/internal/metrics"
)

// Checkout collects the delivery form and places an order from the cart.
// Blank contact fields are taken from the signed-in user.
func (a *App) Checkout(ctx context.Context) error {
	if len(a.cart.Items()) == 0 {
		fmt.Fprintln(a.out, "Cart is empty")
		return nil
	}

	var in services.PlaceOrderInput
	answers := []struct {
		prompt string
		dst    *string
	}{
		{"Name (blank to use your profile)", &in.Customer.Name},
		{"Email (blank to use your profile)", &in.Customer.Email},
		{"Phone (blank to use your profile)", &in.Customer.Phone},
		{"Delivery address", &in.Customer.Address},
		{"Delivery zone", &in.DeliveryZone},
		{"Payment method (cash/card)", &in.PaymentMethod},
	}
	for _, q := range answers {
		v, err := getSimpleText(a.reader, q.prompt, a.out)
		if err != nil {
			return err
		}
		*q.dst = v
	}

	if in.PaymentMethod == "card" {
		tx, err := getSimpleText(a.reader, "Transaction id", a.out)
		if err != nil {
			return err
		}
		if tx != "" {
			in.TransactionID = &tx
		}
	}

	o, err := services.Checkout(ctx, a.cart, a.orders, a.accounts, in)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Order %s placed, total %s\n", o.ID, formatMoney(o.Total))
	return nil
}

// Orders prints the signed-in user's order history, newest first.
func (a *App) Orders(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please sign in first")
		return nil
	}

	list := a.accounts.GetUserOrders(ctx)
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No orders yet")
		return nil
	}
	for _, o := range list {
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%d item(s)\t%s\n",
			o.ID, o.Date.Format("2006-01-02 15:04"), o.Status, len(o.Items), formatMoney(o.Total))
	}
	return nil
}

// Stats prints storage failure and sign-in counters.
func (a *App) Stats(ctx context.Context) error {
	samples, err := metrics.Snapshot()
	if err != nil {
		a.log.Error(ctx, "metrics snapshot failed", "error", err)
		return err
	}
	if len(samples) == 0 {
		fmt.Fprintln(a.out, "No activity recorded")
		return nil
	}
	for _, s := range samples {
		fmt.Fprintln(a.out, s.String())
	}
	return nil
}
