package auth

import (
	"context"

	"github.com/batalabs/pinchat/internal/provider"
)

// CreditsFetcher reports the account balance for a key.
// *provider.OpenRouter satisfies it.
type CreditsFetcher interface {
	Credits(ctx context.Context, apiKey string) (provider.Credits, error)
}

// BalanceValidator accepts a key when the balance query succeeds and the
// remaining credit is positive. Query failures count as rejection.
type BalanceValidator struct {
	Fetcher CreditsFetcher
}

// Check implements SecretValidator.
func (v BalanceValidator) Check(ctx context.Context, secret string) (bool, error) {
	credits, err := v.Fetcher.Credits(ctx, secret)
	if err != nil {
		return false, err
	}
	return credits.Balance() > 0, nil
}
