package handlers

import (
	"strings"
	"unicode/utf8"
)

// maxNameLen caps category and product names.
const maxNameLen = 255

// priceInput is one price tier in a product request body. Price is a
// pointer so a missing field is distinguishable from zero; Quantity
// defaults to 100 when omitted.
type priceInput struct {
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

// productInput is the request body for product create and update.
type productInput struct {
	Name        string       `json:"name"`
	CategoryIDs []int64      `json:"category_id"`
	Prices      []priceInput `json:"prices"`
}

// validateProduct checks a product request body and returns the first
// error found, or "" when valid. Category existence is checked separately
// since it needs the database.
func validateProduct(in *productInput) string {
	if strings.TrimSpace(in.Name) == "" || len(in.CategoryIDs) == 0 || len(in.Prices) == 0 {
		return "name, category_id and prices are required"
	}
	if utf8.RuneCountInString(in.Name) > maxNameLen {
		return "name is too long (max 255 characters)"
	}
	for _, p := range in.Prices {
		if p.Price == nil {
			return `each price must have a "price" field`
		}
	}
	return ""
}

// validateCategoryName checks a category name, returning "" when valid.
func validateCategoryName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "name is too long (max 255 characters)"
	}
	return ""
}
