package api

// Endpoint paths relative to the configured base URL. Paths ending in a
// resource id take it as the final segment.
const (
	PathLogin          = "/api/v1/login"
	PathRegister       = "/api/v1/register"
	PathLogout         = "/api/v1/logout"
	PathMe             = "/api/v1/me"
	PathUpdateProfile  = "/api/v1/me/update"
	PathUpdatePassword = "/api/v1/password/update"
	PathForgotPassword = "/api/v1/password/forgot"
	PathResetPassword  = "/api/v1/password/reset"

	PathProducts      = "/api/v1/products"
	PathProduct       = "/api/v1/product"
	PathAdminProducts = "/api/v1/admin/products"
	PathNewProduct    = "/api/v1/admin/product/new"
	PathAdminProduct  = "/api/v1/admin/product"

	PathReviews = "/api/v1/reviews"
	PathReview  = "/api/v1/review"

	PathAdminOrders = "/api/v1/admin/orders"
	PathMyOrders    = "/api/v1/orders/me"
	PathOrder       = "/api/v1/order"
	PathNewOrder    = "/api/v1/order/new"
	PathAdminOrder  = "/api/v1/admin/order"

	PathAdminUsers = "/api/v1/admin/users"
	PathAdminUser  = "/api/v1/admin/user"

	PathStripeKey      = "/api/v1/stripeapikey"
	PathProcessPayment = "/api/v1/payment/process"
)
