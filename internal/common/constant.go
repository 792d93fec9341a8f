package common

// Primary store collections.
const (
	CollectionUsers      = "users"
	CollectionOrders     = "orders"
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionAnalytics  = "analytics"
	CollectionCart       = "cart"
)

// Flat keys used for the fallback mirror.
const (
	FlatKeyUsers       = "users"
	FlatKeyOrders      = "orders"
	FlatKeyCurrentUser = "currentUser"
	FlatKeyCart        = "cart"
)

// Collections lists every collection the primary store accepts.
var Collections = []string{
	CollectionUsers,
	CollectionOrders,
	CollectionProducts,
	CollectionCategories,
	CollectionAnalytics,
	CollectionCart,
}
