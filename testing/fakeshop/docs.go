package fakeshop

import "time"

type imageDoc struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

type userDoc struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Avatar    imageDoc  `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

type reviewDoc struct {
	ID        string  `json:"_id"`
	User      string  `json:"user"`
	Name      string  `json:"name"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment"`
	Recommend bool    `json:"recommend"`
}

type productDoc struct {
	ID           string      `json:"_id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Price        float64     `json:"price"`
	Ratings      float64     `json:"ratings"`
	Images       []imageDoc  `json:"images"`
	Category     string      `json:"category"`
	Stock        int         `json:"stock"`
	NumOfReviews int         `json:"numOfReviews"`
	Reviews      []reviewDoc `json:"reviews"`
	User         string      `json:"user"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type shippingDoc struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	PinCode int    `json:"pinCode"`
	PhoneNo string `json:"phoneNo"`
}

type orderItemDoc struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
	Product  string  `json:"product"`
}

type paymentDoc struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// orderDoc is stored with the buyer id. User is replaced by a populated
// object when a single order is fetched.
type orderDoc struct {
	ID            string         `json:"_id"`
	ShippingInfo  shippingDoc    `json:"shippingInfo"`
	OrderItems    []orderItemDoc `json:"orderItems"`
	User          any            `json:"user"`
	PaymentInfo   paymentDoc     `json:"paymentInfo"`
	PaidAt        time.Time      `json:"paidAt"`
	ItemsPrice    float64        `json:"itemsPrice"`
	TaxPrice      float64        `json:"taxPrice"`
	ShippingPrice float64        `json:"shippingPrice"`
	TotalPrice    float64        `json:"totalPrice"`
	OrderStatus   string         `json:"orderStatus"`
	DeliveredAt   *time.Time     `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`

	buyer string
}

func (s *Shop) seed() {
	now := s.now()
	admin := &userDoc{ID: "user-admin", Name: "Shop Admin", Email: AdminEmail, Password: AdminPassword, Role: "admin", CreatedAt: now}
	ann := &userDoc{
		ID: "user-ann", Name: "Ann", Email: UserEmail, Password: UserPassword, Role: "user",
		Avatar:    imageDoc{PublicID: "avatars/ann", URL: "https://img.fakeshop.test/avatars/ann.png"},
		CreatedAt: now,
	}
	s.users[admin.ID] = admin
	s.users[ann.ID] = ann

	for _, p := range []*productDoc{
		{ID: ProductTee, Name: "Classic Tee", Description: "Cotton crew neck", Price: 19.99, Category: "T-Shirts", Stock: 40},
		{ID: ProductJeans, Name: "Slim Jeans", Description: "Stretch denim", Price: 59.5, Category: "Jeans", Stock: 12},
		{ID: ProductWatch, Name: "Field Watch", Description: "Steel case, leather strap", Price: 189, Category: "Watches", Stock: 0},
	} {
		p.Images = []imageDoc{{PublicID: "products/" + p.ID, URL: "https://img.fakeshop.test/products/" + p.ID + ".jpg"}}
		p.Reviews = []reviewDoc{}
		p.User = admin.ID
		p.CreatedAt = now
		s.products[p.ID] = p
	}

	tee := s.products[ProductTee]
	tee.Reviews = append(tee.Reviews, reviewDoc{ID: "review-1", User: ann.ID, Name: ann.Name, Rating: 4, Comment: "Fits well", Recommend: true})
	recount(tee)
}

func recount(p *productDoc) {
	p.NumOfReviews = len(p.Reviews)
	if p.NumOfReviews == 0 {
		p.Ratings = 0
		return
	}
	var sum float64
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Ratings = sum / float64(p.NumOfReviews)
}
