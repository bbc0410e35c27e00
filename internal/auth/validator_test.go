package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batalabs/pinchat/internal/provider"
)

type stubFetcher struct {
	credits provider.Credits
	err     error
	gotKey  string
}

func (f *stubFetcher) Credits(_ context.Context, key string) (provider.Credits, error) {
	f.gotKey = key
	return f.credits, f.err
}

func TestBalanceValidator(t *testing.T) {
	tests := []struct {
		name    string
		credits provider.Credits
		err     error
		want    bool
		wantErr bool
	}{
		{"positive balance", provider.Credits{TotalCredits: 10, TotalUsage: 2.5}, nil, true, false},
		{"exhausted", provider.Credits{TotalCredits: 5, TotalUsage: 5}, nil, false, false},
		{"overdrawn", provider.Credits{TotalCredits: 1, TotalUsage: 3}, nil, false, false},
		{"query failure", provider.Credits{}, errors.New("dial tcp"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{credits: tt.credits, err: tt.err}
			ok, err := BalanceValidator{Fetcher: f}.Check(context.Background(), "sk-key")
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, "sk-key", f.gotKey)
		})
	}
}

func TestBalanceValidator_OpenRouter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"total_credits":3,"total_usage":1.25}}`))
	}))
	t.Cleanup(srv.Close)

	v := BalanceValidator{Fetcher: provider.NewOpenRouter(srv.URL)}

	ok, err := v.Check(context.Background(), "sk-good")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Check(context.Background(), "sk-bad")
	assert.Error(t, err)
	assert.False(t, ok)
}
