package catalog

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/glanzwerk/invoicing/internal/config"
	"github.com/shopspring/decimal"
)

// Source hands out the snapshot a single calculation should use.
type Source interface {
	Current() Snapshot
}

// Store keeps the active snapshot and swaps it as a whole on reload.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore(snap Snapshot) *Store {
	s := &Store{}
	s.current.Store(&snap)
	return s
}

func (s *Store) Current() Snapshot {
	return *s.current.Load()
}

func (s *Store) Replace(snap Snapshot) {
	s.current.Store(&snap)
}

// Static is a fixed Source, handy for tests and one-shot tools.
type Static Snapshot

func (s Static) Current() Snapshot { return Snapshot(s) }

// FromConfig builds a snapshot from the operator config.
func FromConfig(cfg config.InvoiceConfig) (Snapshot, error) {
	defs := make([]ServiceDefinition, 0, len(cfg.Services))
	for _, svc := range cfg.Services {
		price, err := decimal.NewFromString(strings.TrimSpace(svc.NetPrice))
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %s price: %v", ErrInvalidService, svc.Key, err)
		}
		defs = append(defs, ServiceDefinition{
			Key:         svc.Key,
			Name:        svc.Name,
			NetPrice:    price,
			Description: strings.TrimSpace(svc.Description),
		})
	}
	services, err := New(defs)
	if err != nil {
		return Snapshot{}, err
	}

	percents := make(map[string]decimal.Decimal, len(cfg.DiscountCodes))
	for _, code := range cfg.DiscountCodes {
		pct, err := decimal.NewFromString(strings.TrimSpace(code.Percent))
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrInvalidPercentage, code.Code, err)
		}
		percents[code.Code] = pct
	}
	codes, err := NewDiscountCodes(percents)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Services: services, Codes: codes}, nil
}
