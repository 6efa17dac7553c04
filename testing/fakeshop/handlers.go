package fakeshop

import (
	"errors"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// fieldFailure is a 400 answer carrying per-field messages.
type fieldFailure struct {
	message string
	fields  map[string]string
}

func (f *fieldFailure) Error() string { return f.message }

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	body := map[string]any{"success": false}
	status := http.StatusInternalServerError
	body["message"] = "Internal Server Error"

	var ff *fieldFailure
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ff):
		status = http.StatusBadRequest
		body["message"] = ff.message
		body["errors"] = ff.fields
	case errors.As(err, &he):
		status = he.Code
		if m, ok := he.Message.(string); ok {
			body["message"] = m
		}
	}
	_ = c.JSON(status, body)
}

func fail(status int, message string) error {
	return echo.NewHTTPError(status, message)
}

func ok(c echo.Context, status int, fields map[string]any) error {
	body := map[string]any{"success": true}
	maps.Copy(body, fields)
	return c.JSON(status, body)
}

func (s *Shop) routes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.POST("/login", s.login)
	g.POST("/register", s.register)
	g.GET("/logout", s.logout)
	g.GET("/me", s.me)
	g.PUT("/me/update", s.updateProfile)
	g.PUT("/password/update", s.updatePassword)
	g.POST("/password/forgot", s.forgotPassword)
	g.PUT("/password/reset/:token", s.resetPassword)

	g.GET("/products", s.listProducts)
	g.GET("/product/:id", s.getProduct)
	g.GET("/admin/products", s.adminProducts)
	g.POST("/admin/product/new", s.createProduct)
	g.PUT("/admin/product/:id", s.updateProduct)
	g.DELETE("/admin/product/:id", s.deleteProduct)

	g.GET("/reviews", s.listReviews)
	g.POST("/review", s.createReview)
	g.DELETE("/review/:id", s.deleteReview)

	g.GET("/admin/orders", s.adminOrders)
	g.GET("/orders/me", s.myOrders)
	g.GET("/order/:id", s.getOrder)
	g.POST("/order/new", s.createOrder)
	g.PUT("/admin/order/:id", s.updateOrder)
	g.DELETE("/admin/order/:id", s.deleteOrder)

	g.GET("/admin/users", s.listUsers)
	g.GET("/admin/user/:id", s.getUser)
	g.PUT("/admin/user/:id", s.updateUser)
	g.DELETE("/admin/user/:id", s.deleteUser)

	g.GET("/stripeapikey", s.stripeKey)
	g.POST("/payment/process", s.processPayment)
}

// authenticated resolves the bearer token. The caller holds s.mu.
func (s *Shop) authenticated(c echo.Context) (*userDoc, error) {
	token, found := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if !found || token == "" {
		return nil, fail(http.StatusUnauthorized, "Please Login to access this resource")
	}
	u, exists := s.users[s.tokens[token]]
	if !exists {
		return nil, fail(http.StatusUnauthorized, "Please Login to access this resource")
	}
	return u, nil
}

func (s *Shop) admin(c echo.Context) (*userDoc, error) {
	u, err := s.authenticated(c)
	if err != nil {
		return nil, err
	}
	if u.Role != "admin" {
		return nil, fail(http.StatusForbidden, "Role: "+u.Role+" is not allowed to access this resource")
	}
	return u, nil
}

func (s *Shop) login(c echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil || in.Email == "" || in.Password == "" {
		return fail(http.StatusBadRequest, "Please Enter Email & Password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByEmail(in.Email)
	if u == nil || u.Password != in.Password {
		return fail(http.StatusUnauthorized, "Invalid email or password")
	}
	return ok(c, http.StatusOK, map[string]any{"user": u, "token": s.issue(u.ID)})
}

func (s *Shop) register(c echo.Context) error {
	name, email, password := c.FormValue("name"), strings.ToLower(c.FormValue("email")), c.FormValue("password")
	fields := map[string]string{}
	if len(strings.TrimSpace(name)) < 2 {
		fields["name"] = "Name should have more than 2 characters"
	}
	if !strings.Contains(email, "@") {
		fields["email"] = "Please Enter a valid Email"
	}
	if len(password) < 6 {
		fields["password"] = "Password should be greater than 6 characters"
	}
	if len(fields) > 0 {
		return &fieldFailure{message: "Validation failed", fields: fields}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userByEmail(email) != nil {
		return fail(http.StatusBadRequest, "Duplicate email Entered")
	}
	u := &userDoc{ID: newID(), Name: name, Email: email, Password: password, Role: "user", CreatedAt: s.now()}
	if img, found := uploaded(c, "avatar"); found {
		u.Avatar = img
	}
	s.users[u.ID] = u
	return ok(c, http.StatusCreated, map[string]any{"user": u, "token": s.issue(u.ID)})
}

func (s *Shop) logout(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token, found := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer "); found {
		delete(s.tokens, token)
	}
	return ok(c, http.StatusOK, map[string]any{"message": "Logged Out"})
}

func (s *Shop) me(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.authenticated(c)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]any{"user": u})
}

func (s *Shop) updateProfile(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.authenticated(c)
	if err != nil {
		return err
	}
	if name := c.FormValue("name"); name != "" {
		u.Name = name
	}
	if email := c.FormValue("email"); email != "" {
		u.Email = strings.ToLower(email)
	}
	if img, found := uploaded(c, "avatar"); found {
		u.Avatar = img
	}
	return ok(c, http.StatusOK, nil)
}

func (s *Shop) updatePassword(c echo.Context) error {
	var in struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.authenticated(c)
	if err != nil {
		return err
	}
	if u.Password != in.OldPassword {
		return fail(http.StatusBadRequest, "Old password is incorrect")
	}
	u.Password = in.NewPassword
	return ok(c, http.StatusOK, map[string]any{"user": u, "token": s.issue(u.ID)})
}

func (s *Shop) forgotPassword(c echo.Context) error {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByEmail(in.Email)
	if u == nil {
		return fail(http.StatusNotFound, "User not found")
	}
	s.resets[newID()] = u.ID
	return ok(c, http.StatusOK, map[string]any{"message": "Email sent to " + u.Email + " successfully"})
}

func (s *Shop) resetPassword(c echo.Context) error {
	var in struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	token := c.Param("token")
	u, found := s.users[s.resets[token]]
	if !found {
		return fail(http.StatusBadRequest, "Reset Password Token is invalid or has been expired")
	}
	if in.Password != in.ConfirmPassword {
		return fail(http.StatusBadRequest, "Password does not match")
	}
	delete(s.resets, token)
	u.Password = in.Password
	return ok(c, http.StatusOK, map[string]any{"user": u, "token": s.issue(u.ID)})
}

func (s *Shop) listProducts(c echo.Context) error {
	keyword := strings.ToLower(c.QueryParam("keyword"))
	category := c.QueryParam("category")
	minPrice, hasMin := queryFloat(c, "price[gte]")
	maxPrice, hasMax := queryFloat(c, "price[lte]")
	minRatings, _ := queryFloat(c, "ratings[gte]")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.sortedProducts()
	var filtered []*productDoc
	for _, p := range all {
		switch {
		case keyword != "" && !strings.Contains(strings.ToLower(p.Name), keyword):
		case category != "" && p.Category != category:
		case hasMin && p.Price < minPrice:
		case hasMax && p.Price > maxPrice:
		case p.Ratings < minRatings:
		default:
			filtered = append(filtered, p)
		}
	}

	start := min((page-1)*ResultPerPage, len(filtered))
	end := min(start+ResultPerPage, len(filtered))
	return ok(c, http.StatusOK, map[string]any{
		"products":              append([]*productDoc{}, filtered[start:end]...),
		"productsCount":         len(all),
		"resultPerPage":         ResultPerPage,
		"filteredProductsCount": len(filtered),
	})
}

func (s *Shop) getProduct(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.products[c.Param("id")]
	if !found {
		return fail(http.StatusNotFound, "Product not found.")
	}
	return ok(c, http.StatusOK, map[string]any{"product": p})
}

func (s *Shop) adminProducts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.admin(c); err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]any{"products": s.sortedProducts()})
}

func (s *Shop) createProduct(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.admin(c)
	if err != nil {
		return err
	}

	p := &productDoc{ID: newID(), User: u.ID, Reviews: []reviewDoc{}, CreatedAt: s.now()}
	if err := applyProductForm(c, p); err != nil {
		return err
	}
	s.products[p.ID] = p
	return ok(c, http.StatusCreated, map[string]any{"product": p})
}

func (s *Shop) updateProduct(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.admin(c); err != nil {
		return err
	}
	p, found := s.products[c.Param("id")]
	if !found {
		return fail(http.StatusNotFound, "Product not found.")
	}
	if err := applyProductForm(c, p); err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]any{"product": p})
}

func (s *Shop) deleteProduct(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.admin(c); err != nil {
		return err
	}
	id := c.Param("id")
	if _, found := s.products[id]; !found {
		return fail(http.StatusNotFound, "Product not found.")
	}
	delete(s.products, id)
	return ok(c, http.StatusOK, map[string]any{"message": "Product Delete Successfully"})
}

func (s *Shop) listReviews(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.products[c.QueryParam("id")]
	if !found {
		return fail(http.StatusNotFound, "Product not found.")
	}
	return ok(c, http.StatusOK, map[string]any{"reviews": p.Reviews})
}

func (s *Shop) createReview(c echo.Context) error {
	var in struct {
		ProductID string  `json:"productId"`
		Rating    float64 `json:"rating"`
		Comment   string  `json:"comment"`
		Recommend bool    `json:"recommend"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.authenticated(c)
	if err != nil {
		return err
	}
	p, found := s.products[in.ProductID]
	if !found {
		return fail(http.StatusNotFound, "Product not found.")
	}

	review := reviewDoc{User: u.ID, Name: u.Name, Rating: in.Rating, Comment: in.Comment, Recommend: in.Recommend}
	idx := slices.IndexFunc(p.Reviews, func(r reviewDoc) bool { return r.User == u.ID })
	if idx >= 0 {
		review.ID = p.Reviews[idx].ID
		p.Reviews[idx] = review
	} else {
		review.ID = newID()
		p.Reviews = append(p.Reviews, review)
	}
	recount(p)
	return ok(c, http.StatusOK, nil)
}

func (s *Shop) deleteReview(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.authenticated(c)
	if err != nil {
		return err
	}

	id, productID := c.Param("id"), c.QueryParam("productId")
	for _, p := range s.products {
		if productID != "" && p.ID != productID {
			continue
		}
		idx := slices.IndexFunc(p.Reviews, func(r reviewDoc) bool { return r.ID == id })
		if idx < 0 {
			continue
		}
		if p.Reviews[idx].User != u.ID && u.Role != "admin" {
			return fail(http.StatusForbidden, "You can only delete your own review")
		}
		p.Reviews = slices.Delete(p.Reviews, idx, idx+1)
		recount(p)
		return ok(c, http.StatusOK, nil)
	}
	return fail(http.StatusNotFound, "Review not found")
}

func (s *Shop) adminOrders(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.admin(c); err != nil {
		return err
	}
	orders := s.sortedOrders(func(*orderDoc) bool { return true })
	var total float64
	for _, o := range orders {
		total += o.TotalPrice
	}
	return ok(c, http.StatusOK, map[string]any{"orders": orders, "totalAmount": total})
}

func (s *Shop) myOrders(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.authenticated(c)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]any{
		"orders": s.sortedOrders(func(o *orderDoc) bool { return o.buyer == u.ID }),
	})
}

func (s *Shop) getOrder(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.authenticated(c); err != nil {
		return err
	}
	o, found := s.orders[c.Param("id")]
	if !found {
		return fail(http.StatusNotFound, "Order not found.")
	}

	view := *o
	if buyer, known := s.users[o.buyer]; known {
		view.User = map[string]string{"_id": buyer.ID, "name": buyer.Name, "email": buyer.Email}
	}
	return ok(c, http.StatusOK, map[string]any{"order": view})
}

func (s *Shop) createOrder(c echo.Context) error {
	var in struct {
		ShippingInfo  shippingDoc    `json:"shippingInfo"`
		OrderItems    []orderItemDoc `json:"orderItems"`
		PaymentInfo   paymentDoc     `json:"paymentInfo"`
		ItemsPrice    float64        `json:"itemsPrice"`
		TaxPrice      float64        `json:"taxPrice"`
		ShippingPrice float64        `json:"shippingPrice"`
		TotalPrice    float64        `json:"totalPrice"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.authenticated(c)
	if err != nil {
		return err
	}
	if len(in.OrderItems) == 0 {
		return fail(http.StatusBadRequest, "Order has no items")
	}

	o := &orderDoc{
		ID:            newID(),
		ShippingInfo:  in.ShippingInfo,
		OrderItems:    in.OrderItems,
		User:          u.ID,
		PaymentInfo:   in.PaymentInfo,
		PaidAt:        s.now(),
		ItemsPrice:    in.ItemsPrice,
		TaxPrice:      in.TaxPrice,
		ShippingPrice: in.ShippingPrice,
		TotalPrice:    in.TotalPrice,
		OrderStatus:   "processing",
		CreatedAt:     s.now(),
		buyer:         u.ID,
	}
	s.orders[o.ID] = o
	return ok(c, http.StatusCreated, map[string]any{"order": o})
}

func (s *Shop) updateOrder(c echo.Context) error {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.admin(c); err != nil {
		return err
	}
	o, found := s.orders[c.Param("id")]
	if !found {
		return fail(http.StatusNotFound, "Order not found.")
	}
	if o.OrderStatus == "delivered" {
		return fail(http.StatusBadRequest, "You have already delivered this order")
	}

	if in.Status == "shipped" {
		for _, item := range o.OrderItems {
			if p, known := s.products[item.Product]; known {
				p.Stock = max(p.Stock-item.Quantity, 0)
			}
		}
	}
	o.OrderStatus = in.Status
	if in.Status == "delivered" {
		at := s.now()
		o.DeliveredAt = &at
	}
	return ok(c, http.StatusOK, nil)
}

func (s *Shop) deleteOrder(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.admin(c); err != nil {
		return err
	}
	id := c.Param("id")
	if _, found := s.orders[id]; !found {
		return fail(http.StatusNotFound, "Order not found.")
	}
	delete(s.orders, id)
	return ok(c, http.StatusOK, nil)
}

func (s *Shop) listUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.admin(c); err != nil {
		return err
	}
	users := slices.SortedFunc(maps.Values(s.users), func(a, b *userDoc) int { return strings.Compare(a.ID, b.ID) })
	return ok(c, http.StatusOK, map[string]any{"users": users})
}

func (s *Shop) getUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.admin(c); err != nil {
		return err
	}
	u, found := s.users[c.Param("id")]
	if !found {
		return fail(http.StatusNotFound, "User does not exist with Id: "+c.Param("id"))
	}
	return ok(c, http.StatusOK, map[string]any{"user": u})
}

func (s *Shop) updateUser(c echo.Context) error {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.admin(c); err != nil {
		return err
	}
	u, found := s.users[c.Param("id")]
	if !found {
		return fail(http.StatusNotFound, "User does not exist with Id: "+c.Param("id"))
	}
	u.Name, u.Email, u.Role = in.Name, strings.ToLower(in.Email), in.Role
	return ok(c, http.StatusOK, nil)
}

func (s *Shop) deleteUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.admin(c); err != nil {
		return err
	}
	id := c.Param("id")
	if _, found := s.users[id]; !found {
		return fail(http.StatusNotFound, "User does not exist with Id: "+id)
	}
	delete(s.users, id)
	for tok, uid := range s.tokens {
		if uid == id {
			delete(s.tokens, tok)
		}
	}
	return ok(c, http.StatusOK, map[string]any{"message": "User Deleted Successfully"})
}

func (s *Shop) stripeKey(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.authenticated(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"stripeApiKey": StripeKey})
}

func (s *Shop) processPayment(c echo.Context) error {
	var in struct {
		Amount int64 `json:"amount"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.authenticated(c); err != nil {
		return err
	}
	if in.Amount <= 0 {
		return fail(http.StatusBadRequest, "Amount must be positive")
	}
	return ok(c, http.StatusOK, map[string]any{"client_secret": "pi_" + newID() + "_secret_fake"})
}

func (s *Shop) sortedProducts() []*productDoc {
	return slices.SortedFunc(maps.Values(s.products), func(a, b *productDoc) int { return strings.Compare(a.ID, b.ID) })
}

func (s *Shop) sortedOrders(keep func(*orderDoc) bool) []*orderDoc {
	out := []*orderDoc{}
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b *orderDoc) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func applyProductForm(c echo.Context, p *productDoc) error {
	fields := map[string]string{}
	if v := c.FormValue("name"); v != "" {
		p.Name = v
	} else if p.Name == "" {
		fields["name"] = "Please Enter product Name"
	}
	if v := c.FormValue("description"); v != "" {
		p.Description = v
	}
	if v := c.FormValue("category"); v != "" {
		p.Category = v
	}
	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price <= 0 {
			fields["price"] = "Please Enter a valid product Price"
		} else {
			p.Price = price
		}
	}
	if v := c.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			fields["stock"] = "Please Enter a valid product Stock"
		} else {
			p.Stock = stock
		}
	}
	if len(fields) > 0 {
		return &fieldFailure{message: "Validation failed", fields: fields}
	}

	if form, err := c.MultipartForm(); err == nil && len(form.File["images"]) > 0 {
		p.Images = p.Images[:0]
		for _, fh := range form.File["images"] {
			p.Images = append(p.Images, imageDoc{
				PublicID: "products/" + fh.Filename,
				URL:      "https://img.fakeshop.test/products/" + fh.Filename + "?size=" + strconv.FormatInt(fh.Size, 10),
			})
		}
	}
	return nil
}

// uploaded returns the hosted image for a single file field.
func uploaded(c echo.Context, field string) (imageDoc, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		return imageDoc{}, false
	}
	return imageDoc{
		PublicID: "avatars/" + fh.Filename,
		URL:      "https://img.fakeshop.test/avatars/" + fh.Filename + "?size=" + strconv.FormatInt(fh.Size, 10),
	}, true
}

func queryFloat(c echo.Context, name string) (float64, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}
