package models

import (
	"encoding/json"
	"time"
)

// Facet identifies one of the independent live-data categories.
type Facet string

const (
	FacetPrice        Facet = "price"
	FacetFundamentals Facet = "fundamentals"
	FacetNews         Facet = "news"
)

// Facets lists all facets in fetch order.
var Facets = []Facet{FacetPrice, FacetFundamentals, FacetNews}

// LiveContext holds the live market data gathered for one analysis run.
// Each facet is kept as the raw JSON returned by the provider; a nil facet
// means the fetch failed or was skipped, and rendering substitutes a
// no-data marker instead.
type LiveContext struct {
	Symbol       string          `json:"symbol"`
	Price        json.RawMessage `json:"price,omitempty"`
	Fundamentals json.RawMessage `json:"fundamentals,omitempty"`
	News         json.RawMessage `json:"news,omitempty"`
	FetchedAt    time.Time       `json:"fetched_at"`
}

// Get returns the raw blob for a facet, nil if absent.
func (c *LiveContext) Get(f Facet) json.RawMessage {
	if c == nil {
		return nil
	}
	switch f {
	case FacetPrice:
		return c.Price
	case FacetFundamentals:
		return c.Fundamentals
	case FacetNews:
		return c.News
	}
	return nil
}

// Set stores the raw blob for a facet.
func (c *LiveContext) Set(f Facet, data json.RawMessage) {
	switch f {
	case FacetPrice:
		c.Price = data
	case FacetFundamentals:
		c.Fundamentals = data
	case FacetNews:
		c.News = data
	}
}

// Complete reports whether all three facets were fetched.
func (c *LiveContext) Complete() bool {
	return c != nil && c.Price != nil && c.Fundamentals != nil && c.News != nil
}

// Empty reports whether no facet was fetched at all.
func (c *LiveContext) Empty() bool {
	return c == nil || (c.Price == nil && c.Fundamentals == nil && c.News == nil)
}
