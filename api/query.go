package api

import (
	"net/url"
	"strconv"
)

// PriceRange filters products by price, both bounds inclusive.
type PriceRange struct {
	Min, Max float64
}

// ProductQuery is the catalog search. Zero fields are left out of the query.
type ProductQuery struct {
	Keyword    string
	Page       int
	Category   string
	Price      *PriceRange
	MinRatings float64
}

// Values encodes the query in the backend's bracket syntax, for example
// price[gte]=0&price[lte]=25000.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Price != nil {
		v.Set("price[gte]", formatFloat(q.Price.Min))
		v.Set("price[lte]", formatFloat(q.Price.Max))
	}
	if q.MinRatings > 0 {
		v.Set("ratings[gte]", formatFloat(q.MinRatings))
	}
	return v
}
