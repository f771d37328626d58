package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
	"relomate/pkg/platform/audit"
	"relomate/pkg/platform/audit/publisher"
	auditmemory "relomate/pkg/platform/audit/store/memory"
	"relomate/pkg/requestcontext"
)

func newTestService() (*Service, *auditmemory.InMemoryStore) {
	auditStore := auditmemory.NewInMemoryStore()
	svc := New(NewInMemoryStore(), WithAuditPublisher(publisher.NewPublisher(auditStore)))
	return svc, auditStore
}

func TestGetPrice_DefaultsAndOverride(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	svc, _ := newTestService()
	userID := id.NewUserID()

	price, err := svc.GetPrice(ctx, userID, id.RelocationEurope)
	require.NoError(t, err)
	assert.False(t, price.Overridden)
	assert.True(t, price.Amount.Equal(decimal.NewFromInt(1499)))
	assert.Equal(t, "USD", price.Currency)

	_, err = svc.SetOverride(ctx, Override{
		UserID:   userID,
		Track:    id.RelocationEurope,
		Amount:   decimal.RequireFromString("1199.50"),
		Currency: "usd",
		Note:     "returning customer",
	})
	require.NoError(t, err)

	price, err = svc.GetPrice(ctx, userID, id.RelocationEurope)
	require.NoError(t, err)
	assert.True(t, price.Overridden)
	assert.Equal(t, "1199.5", price.Amount.String())
	assert.Equal(t, "USD", price.Currency, "currency is normalized to upper case")

	// The other track keeps its list price.
	price, err = svc.GetPrice(ctx, userID, id.RelocationGCC)
	require.NoError(t, err)
	assert.False(t, price.Overridden)
}

func TestSetOverride_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	tests := []struct {
		name     string
		override Override
		field    string
	}{
		{"bad track", Override{UserID: id.NewUserID(), Track: "mars", Amount: decimal.NewFromInt(10), Currency: "USD"}, "track"},
		{"zero amount", Override{UserID: id.NewUserID(), Track: id.RelocationGCC, Currency: "USD"}, "amount"},
		{"negative amount", Override{UserID: id.NewUserID(), Track: id.RelocationGCC, Amount: decimal.NewFromInt(-5), Currency: "USD"}, "amount"},
		{"missing currency", Override{UserID: id.NewUserID(), Track: id.RelocationGCC, Amount: decimal.NewFromInt(10)}, "currency"},
		{"long currency", Override{UserID: id.NewUserID(), Track: id.RelocationGCC, Amount: decimal.NewFromInt(10), Currency: "EURO"}, "currency"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SetOverride(ctx, tc.override)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, dErrors.FieldErrors(err), tc.field)
		})
	}
}

func TestSetOverride_PreservesCreatedAt(t *testing.T) {
	svc, _ := newTestService()
	userID := id.NewUserID()

	first := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), first)
	created, err := svc.SetOverride(ctx, Override{
		UserID: userID, Track: id.RelocationGCC,
		Amount: decimal.NewFromInt(899), Currency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, first, created.CreatedAt)

	later := first.Add(48 * time.Hour)
	ctx = requestcontext.WithTime(context.Background(), later)
	updated, err := svc.SetOverride(ctx, Override{
		UserID: userID, Track: id.RelocationGCC,
		Amount: decimal.NewFromInt(849), Currency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, first, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
}

func TestRemoveOverride(t *testing.T) {
	ctx := context.Background()
	svc, auditStore := newTestService()
	userID := id.NewUserID()

	err := svc.RemoveOverride(ctx, userID, id.RelocationEurope)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = svc.SetOverride(ctx, Override{
		UserID: userID, Track: id.RelocationEurope,
		Amount: decimal.NewFromInt(1000), Currency: "USD",
	})
	require.NoError(t, err)
	require.NoError(t, svc.RemoveOverride(ctx, userID, id.RelocationEurope))

	price, err := svc.GetPrice(ctx, userID, id.RelocationEurope)
	require.NoError(t, err)
	assert.False(t, price.Overridden)

	events, err := auditStore.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, string(audit.EventPricingOverrideSet), events[0].Action)
	assert.Equal(t, string(audit.EventPricingOverrideRemoved), events[1].Action)
	assert.Equal(t, "admin", events[1].ActorID)
}
