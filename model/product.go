package model

// Product is the subset of the external catalog's product payload that the
// API exposes and caches.
type Product struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}
