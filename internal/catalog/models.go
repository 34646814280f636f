// Package catalog holds the read-only registries an invoice is priced
// against: the primary services on offer and the discount codes.
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownService    = errors.New("unknown_service")
	ErrInvalidService    = errors.New("invalid_service")
	ErrDuplicateService  = errors.New("duplicate_service")
	ErrInvalidPercentage = errors.New("invalid_percentage")
)

// ServiceDefinition is one primary service offering.
type ServiceDefinition struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	NetPrice    decimal.Decimal `json:"net_price"`
	Description string          `json:"description"`
}

// Snapshot pairs a catalog with the discount codes that were loaded with it.
type Snapshot struct {
	Services *Catalog
	Codes    *DiscountCodes
}
