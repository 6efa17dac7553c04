package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/manhhung3004/Gentsshop/credentials"
)

// User is the profile returned by auth and admin user endpoints.
type User = credentials.UserProfile

// Image is a hosted product image.
type Image struct {
	PublicID string `json:"public_id" yaml:"public_id"`
	URL      string `json:"url" yaml:"url"`
}

// Upload is a file sent in a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Ref is a reference to another document. The backend sends either the bare
// id or the populated document.
type Ref struct {
	ID    string `json:"_id" yaml:"id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// UnmarshalJSON accepts a string id or an object.
func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	type plain Ref
	return json.Unmarshal(b, (*plain)(r))
}

// Product is a catalog entry.
type Product struct {
	ID           string    `json:"_id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Description  string    `json:"description" yaml:"description"`
	Price        float64   `json:"price" yaml:"price"`
	Ratings      float64   `json:"ratings" yaml:"ratings"`
	Images       []Image   `json:"images,omitempty" yaml:"images,omitempty"`
	Category     string    `json:"category" yaml:"category"`
	Stock        int       `json:"stock" yaml:"stock"`
	NumOfReviews int       `json:"numOfReviews" yaml:"num_of_reviews"`
	Reviews      []Review  `json:"reviews,omitempty" yaml:"reviews,omitempty"`
	User         string    `json:"user,omitempty" yaml:"user,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitzero" yaml:"created_at,omitempty"`
}

// ProductPage is one page of the public catalog.
type ProductPage struct {
	Products              []Product `json:"products" yaml:"products"`
	ProductsCount         int       `json:"productsCount" yaml:"products_count"`
	ResultPerPage         int       `json:"resultPerPage" yaml:"result_per_page"`
	FilteredProductsCount int       `json:"filteredProductsCount" yaml:"filtered_products_count"`
}

// Review is a customer review of a product.
type Review struct {
	ID        string  `json:"_id" yaml:"id"`
	User      string  `json:"user" yaml:"user"`
	Name      string  `json:"name" yaml:"name"`
	Rating    float64 `json:"rating" yaml:"rating"`
	Comment   string  `json:"comment" yaml:"comment"`
	Recommend bool    `json:"recommend" yaml:"recommend"`
}

// ShippingInfo is the delivery address of an order.
type ShippingInfo struct {
	Address string `json:"address" yaml:"address" validate:"required"`
	City    string `json:"city" yaml:"city" validate:"required"`
	State   string `json:"state" yaml:"state" validate:"required"`
	Country string `json:"country" yaml:"country" validate:"required"`
	PinCode int    `json:"pinCode" yaml:"pin_code" validate:"required"`
	PhoneNo string `json:"phoneNo" yaml:"phone_no" validate:"required,gs_phone"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	Name     string  `json:"name" yaml:"name" validate:"required"`
	Price    float64 `json:"price" yaml:"price" validate:"gs_price"`
	Quantity int     `json:"quantity" yaml:"quantity" validate:"min=1"`
	Image    string  `json:"image" yaml:"image"`
	Product  string  `json:"product" yaml:"product" validate:"required"`
}

// PaymentInfo records the payment provider result.
type PaymentInfo struct {
	ID     string `json:"id" yaml:"id" validate:"required"`
	Status string `json:"status" yaml:"status" validate:"required"`
}

// Order is a placed order.
type Order struct {
	ID            string       `json:"_id" yaml:"id"`
	ShippingInfo  ShippingInfo `json:"shippingInfo" yaml:"shipping_info"`
	OrderItems    []OrderItem  `json:"orderItems" yaml:"order_items"`
	User          Ref          `json:"user" yaml:"user"`
	PaymentInfo   PaymentInfo  `json:"paymentInfo" yaml:"payment_info"`
	PaidAt        time.Time    `json:"paidAt,omitzero" yaml:"paid_at,omitempty"`
	ItemsPrice    float64      `json:"itemsPrice" yaml:"items_price"`
	TaxPrice      float64      `json:"taxPrice" yaml:"tax_price"`
	ShippingPrice float64      `json:"shippingPrice" yaml:"shipping_price"`
	TotalPrice    float64      `json:"totalPrice" yaml:"total_price"`
	OrderStatus   string       `json:"orderStatus" yaml:"order_status"`
	DeliveredAt   time.Time    `json:"deliveredAt,omitzero" yaml:"delivered_at,omitempty"`
	CreatedAt     time.Time    `json:"createdAt,omitzero" yaml:"created_at,omitempty"`
}

// OrderList is the admin view of all orders.
type OrderList struct {
	Orders      []Order `json:"orders" yaml:"orders"`
	TotalAmount float64 `json:"totalAmount" yaml:"total_amount"`
}

// AuthResult is returned by endpoints that issue a token.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Credential converts the result for the credential store.
func (a *AuthResult) Credential() credentials.Credential {
	user := a.User
	return credentials.Credential{Token: a.Token, User: &user}
}

// PaymentIntent is the result of starting a card payment.
type PaymentIntent struct {
	ClientSecret string `json:"client_secret" yaml:"client_secret"`
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,gs_email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is sent as multipart form data.
type SignupRequest struct {
	Name     string  `json:"name" validate:"required,gs_name"`
	Email    string  `json:"email" validate:"required,gs_email"`
	Password string  `json:"password" validate:"required,gs_password"`
	Avatar   *Upload `json:"-"`
}

// ProfileUpdate is sent as multipart form data.
type ProfileUpdate struct {
	Name   string  `json:"name" validate:"required,gs_name"`
	Email  string  `json:"email" validate:"required,gs_email"`
	Avatar *Upload `json:"-"`
}

// PasswordUpdate changes the signed-in user's password.
type PasswordUpdate struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,gs_password"`
}

// PasswordReset completes the forgot-password flow.
type PasswordReset struct {
	Password        string `json:"password" validate:"required,gs_password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// ProductInput creates or updates a product. It is sent as multipart form
// data with one part per image.
type ProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"gs_price"`
	Category    string   `json:"category" validate:"required"`
	Stock       int      `json:"stock" validate:"gs_stock"`
	Images      []Upload `json:"-"`
}

// ReviewInput creates or replaces the caller's review of a product.
type ReviewInput struct {
	ProductID string  `json:"productId" validate:"required"`
	Rating    float64 `json:"rating" validate:"gs_rating"`
	Comment   string  `json:"comment" validate:"required"`
	Recommend bool    `json:"recommend"`
}

// OrderInput places an order.
type OrderInput struct {
	ShippingInfo  ShippingInfo `json:"shippingInfo" validate:"required"`
	OrderItems    []OrderItem  `json:"orderItems" validate:"required,min=1,dive"`
	PaymentInfo   PaymentInfo  `json:"paymentInfo" validate:"required"`
	ItemsPrice    float64      `json:"itemsPrice" validate:"gte=0"`
	TaxPrice      float64      `json:"taxPrice" validate:"gte=0"`
	ShippingPrice float64      `json:"shippingPrice" validate:"gte=0"`
	TotalPrice    float64      `json:"totalPrice" validate:"gt=0"`
}

// OrderStatusUpdate moves an order to a new status.
type OrderStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// UserUpdate is the admin edit of a user.
type UserUpdate struct {
	Name  string `json:"name" validate:"required,gs_name"`
	Email string `json:"email" validate:"required,gs_email"`
	Role  string `json:"role" validate:"required,oneof=admin user"`
}

// PaymentInput starts a card payment. Amount is in the smallest currency unit.
type PaymentInput struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}
