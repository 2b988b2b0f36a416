// Package service holds outbound collaborators the handlers depend on:
// the payment provider, the visual search engine and the queue publisher.
// Provider-shaped dependencies are interfaces so the stub implementations
// used today can be swapped for real integrations without touching the
// handlers.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/commerce-admin-api/internal/model"
)

// ProviderIntent is what the payment provider returns when an intent is
// opened on its side.
type ProviderIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// PaymentProvider opens payment intents with an external gateway.  The
// admin backend only does bookkeeping; charging happens elsewhere.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (ProviderIntent, error)
}

// StubPaymentProvider issues provider-shaped identifiers locally without
// talking to any gateway.  It stands in for a real integration in
// development and test environments.
type StubPaymentProvider struct{}

func (StubPaymentProvider) CreateIntent(_ context.Context, _ int64, _ string) (ProviderIntent, error) {
	id := uuid.NewString()
	return ProviderIntent{
		ID:           "pi_" + id,
		ClientSecret: fmt.Sprintf("pi_%s_secret_%s", id, uuid.NewString()),
		Status:       model.IntentRequiresPayment,
	}, nil
}
