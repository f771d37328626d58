// Package pricing manages package prices for the two relocation tracks,
// including per-user overrides negotiated by the back office.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	id "relomate/pkg/domain"
)

// Price is what a given user pays for a relocation package.
type Price struct {
	Track      id.RelocationType `json:"track"`
	Amount     decimal.Decimal   `json:"amount"`
	Currency   string            `json:"currency"`
	Overridden bool              `json:"overridden"`
}

// Override is a per-user price set by an operator. It replaces the list
// price for one track only.
type Override struct {
	UserID    id.UserID         `json:"userId"`
	Track     id.RelocationType `json:"track"`
	Amount    decimal.Decimal   `json:"amount"`
	Currency  string            `json:"currency"`
	Note      string            `json:"note,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Validate returns field-keyed messages for an unacceptable override.
func (o Override) Validate() map[string]string {
	fields := make(map[string]string)
	if !o.Track.IsValid() {
		fields["track"] = "must be one of: europe, gcc"
	}
	if o.Amount.LessThanOrEqual(decimal.Zero) {
		fields["amount"] = "must be greater than zero"
	}
	if o.Currency == "" {
		fields["currency"] = "this field is required"
	} else if len(o.Currency) != 3 {
		fields["currency"] = "must be a three-letter currency code"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// List prices charged when no override exists.
var defaultPrices = map[id.RelocationType]Price{
	id.RelocationEurope: {
		Track:    id.RelocationEurope,
		Amount:   decimal.NewFromInt(1499),
		Currency: "USD",
	},
	id.RelocationGCC: {
		Track:    id.RelocationGCC,
		Amount:   decimal.NewFromInt(999),
		Currency: "USD",
	},
}
