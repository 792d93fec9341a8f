package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/shopkeeper/internal/client/models"
)

// ShowCart prints every cart line and the running total.
func (a *App) ShowCart(ctx context.Context) error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Cart is empty")
		return nil
	}
	for _, it := range items {
		fmt.Fprintf(a.out, "%s\t%s%s\t%d x %s = %s\n",
			it.ID, it.Name, variantLabel(it.SelectedSize, it.SelectedColor),
			it.Quantity, formatMoney(it.Price), formatMoney(it.Subtotal()))
	}
	fmt.Fprintf(a.out, "Total: %s\n", formatMoney(a.cart.Total()))
	return nil
}

// AddItem prompts for a product and puts it in the cart. Adding the same
// product and variant again increases the quantity.
func (a *App) AddItem(ctx context.Context) error {
	var p models.Product
	var v models.Variant
	var err error

	if p.ID, err = getSimpleText(a.reader, "Product id", a.out); err != nil {
		return err
	}
	if p.Name, err = getSimpleText(a.reader, "Product name", a.out); err != nil {
		return err
	}
	price, err := getSimpleText(a.reader, "Unit price (e.g. 12.50)", a.out)
	if err != nil {
		return err
	}
	if p.Price, err = parseMoney(price); err != nil {
		fmt.Fprintln(a.out, "Invalid price")
		return err
	}
	qty, err := getSimpleText(a.reader, "Quantity", a.out)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(qty)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid quantity")
		return err
	}
	if v.Size, err = getSimpleText(a.reader, "Size (optional)", a.out); err != nil {
		return err
	}
	if v.Color, err = getSimpleText(a.reader, "Color (optional)", a.out); err != nil {
		return err
	}

	item, err := a.cart.AddItem(ctx, p, n, v)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}
	fmt.Fprintf(a.out, "Added %s (now %d in cart)\n", item.ID, item.Quantity)
	return nil
}

// SetQuantity changes a cart line; zero or less removes it.
func (a *App) SetQuantity(ctx context.Context, id, qty string) error {
	n, err := strconv.Atoi(qty)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid quantity")
		return err
	}
	if err := a.cart.UpdateQuantity(ctx, id, n); err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}
	fmt.Fprintln(a.out, "Cart updated")
	return nil
}

func (a *App) RemoveItem(ctx context.Context, id string) error {
	if err := a.cart.RemoveItem(ctx, id); err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}
	fmt.Fprintln(a.out, "Removed", id)
	return nil
}

func (a *App) ClearCart(ctx context.Context) error {
	a.cart.Clear(ctx)
	fmt.Fprintln(a.out, "Cart cleared")
	return nil
}

func variantLabel(size, color string) string {
	switch {
	case size != "" && color != "":
		return fmt.Sprintf(" (%s, %s)", size, color)
	case size != "":
		return fmt.Sprintf(" (%s)", size)
	case color != "":
		return fmt.Sprintf(" (%s)", color)
	}
	return ""
}
