package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/shopkeeper/internal/client/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// CartService holds the shopping cart.
type CartService interface {
	Init(ctx context.Context) error
	Items() models.Cart
	AddItem(ctx context.Context, product models.Product, quantity int, variant models.Variant) (models.CartItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	RemoveItem(ctx context.Context, id string) error
	Clear(ctx context.Context)
	Total() int64
	Lines() []models.CartLine
}

type cartService struct {
	mu    sync.Mutex
	store Persister
	log   logging.Logger
	ready bool
	items models.Cart
}

func NewCartService(store Persister, log logging.Logger) CartService {
	if log == nil {
		log = logging.Discard()
	}
	return &cartService{store: store, log: log.With("component", "cart")}
}

// Init reads the flat mirror first and the primary collection second.
func (c *cartService) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var items models.Cart
	if err := c.store.LoadFlat(ctx, common.FlatKeyCart, &items); err != nil && c.store.Available() {
		items = nil
		if err := c.store.LoadAll(ctx, common.CollectionCart, &items); err != nil {
			c.log.Debug(ctx, "cart not loaded", "error", err)
			items = nil
		}
	}

	c.items = items
	c.ready = true
	return nil
}

func (c *cartService) Items() models.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(models.Cart(nil), c.items...)
}

// AddItem merges into an existing line with the same product and variant.
func (c *cartService) AddItem(ctx context.Context, product models.Product, quantity int, variant models.Variant) (models.CartItem, error) {
	if product.ID == "" {
		return models.CartItem{}, common.NewValidationError("productId", "product id is required")
	}
	if quantity <= 0 {
		return models.CartItem{}, common.NewValidationError("quantity", "quantity must be positive")
	}
	if product.Price < 0 {
		return models.CartItem{}, common.NewValidationError("price", "price must not be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := models.CartItemID(product.ID, variant)
	if i := c.index(id); i >= 0 {
		c.items[i].Quantity += quantity
		c.persist(ctx)
		return c.items[i], nil
	}

	item := models.CartItem{
		ID:              id,
		ProductID:       product.ID,
		Name:            product.Name,
		NameTranslation: product.NameTranslation,
		Brand:           product.Brand,
		Price:           product.Price,
		Quantity:        quantity,
		SelectedSize:    variant.Size,
		SelectedColor:   variant.Color,
		Image:           product.Image,
		Slug:            product.Slug,
	}
	c.items = append(c.items, item)
	c.persist(ctx)
	return item, nil
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *cartService) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return common.ErrorNotFound
	}

	if quantity <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	} else {
		c.items[i].Quantity = quantity
	}
	c.persist(ctx)
	return nil
}

func (c *cartService) RemoveItem(ctx context.Context, id string) error {
	return c.UpdateQuantity(ctx, id, 0)
}

func (c *cartService) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = models.Cart{}
	c.persist(ctx)
}

func (c *cartService) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Total()
}

func (c *cartService) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Lines()
}

func (c *cartService) index(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *cartService) persist(ctx context.Context) {
	c.store.Replace(ctx, common.CollectionCart, common.FlatKeyCart, c.items)
}
