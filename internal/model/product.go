package model

import "time"

// Product represents an item in the storefront catalogue.
// Products are supplied by the catalogue provider and never mutated afterwards.
type Product struct {
	ID          string     `json:"id" db:"id" validate:"required"`
	Name        string     `json:"name" db:"name" validate:"required"`
	Price       float64    `json:"price" db:"price" validate:"gte=0"`
	Image       string     `json:"image" db:"image"`
	Category    string     `json:"category" db:"category" validate:"required"`
	Description string     `json:"description" db:"description"`
	Rating      float64    `json:"rating" db:"rating" validate:"gte=0,lte=5"`
	InStock     bool       `json:"inStock" db:"in_stock"`
	Stock       *int       `json:"stock,omitempty" db:"stock" validate:"omitempty,gte=0"`
	CreatedAt   *time.Time `json:"createdAt,omitempty" db:"created_at"`
	Popularity  *float64   `json:"popularity,omitempty" db:"popularity"`
}

// Clone returns a copy of p whose optional fields point at their own values.
func (p Product) Clone() Product {
	if p.Stock != nil {
		stock := *p.Stock
		p.Stock = &stock
	}
	if p.CreatedAt != nil {
		createdAt := *p.CreatedAt
		p.CreatedAt = &createdAt
	}
	if p.Popularity != nil {
		popularity := *p.Popularity
		p.Popularity = &popularity
	}
	return p
}
