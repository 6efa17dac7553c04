package api

import "slices"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Order statuses accepted by the admin order update.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Categories lists the product categories the storefront offers.
var Categories = []string{
	"T-Shirts",
	"Shirts",
	"Jeans",
	"Pants",
	"Suits",
	"Jackets",
	"Sweaters",
	"Activewear",
	"Shorts",
	"Accessories",
	"Footwear",
	"Watches",
	"Hats",
	"Sunglasses",
	"Belts",
}

// Pagination sizes.
const (
	ItemsPerPage      = 10
	AdminItemsPerPage = 25
)

// Product and account limits enforced by the validation engine.
const (
	PriceMin          = 0
	PriceMax          = 1_000_000
	StockMin          = 0
	RatingMin         = 1
	RatingMax         = 5
	PasswordMinLength = 6
	PasswordMaxLength = 50
	NameMinLength     = 2
)

// Error messages shown to users.
const (
	MsgNetworkError      = "Network error. Please check your connection and try again."
	MsgServerError       = "Server error. Please try again later."
	MsgInvalidEmail      = "Please enter a valid email address."
	MsgPasswordsMismatch = "Passwords do not match."
	MsgProductNotFound   = "Product not found."
	MsgGenericFailure    = "An error occurred. Please try again."
)

// Success messages printed by the command line client.
const (
	MsgLoginSuccess  = "Logged in successfully!"
	MsgLogoutSuccess = "Logged out successfully!"
)

// Storage keys used by clients that keep local state. Only the auth token
// and user data are persisted by the credential store.
const (
	StorageUserData        = "userData"
	StorageAuthToken       = "authToken"
	StorageCartItems       = "cartItems"
	StorageStripeAPIKey    = "stripeApiKey"
	StorageUserPreferences = "userPreferences"
)

// HasPermission reports whether role matches any of the required roles.
func HasPermission(role string, required ...string) bool {
	return slices.Contains(required, role)
}
