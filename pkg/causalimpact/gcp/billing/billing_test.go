package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestChecker(t *testing.T, handler http.HandlerFunc) *Checker {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	checker, err := NewChecker(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	return checker
}

func TestBillingEnabled(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
	}{
		{name: "enabled", enabled: true},
		{name: "disabled", enabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/projects/causal-impact-test/billingInfo", r.URL.Path)

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"name":               "projects/causal-impact-test/billingInfo",
					"projectId":          "causal-impact-test",
					"billingAccountName": "billingAccounts/000000-000000-000000",
					"billingEnabled":     tt.enabled,
				})
			})

			enabled, err := checker.BillingEnabled(context.Background(), "causal-impact-test")
			require.NoError(t, err)
			assert.Equal(t, tt.enabled, enabled)
		})
	}
}

func TestBillingEnabledPropagatesAPIErrors(t *testing.T) {
	checker := newTestChecker(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"permission denied"}}`, http.StatusForbidden)
	})

	enabled, err := checker.BillingEnabled(context.Background(), "causal-impact-test")
	require.Error(t, err)
	assert.False(t, enabled)
	assert.Contains(t, err.Error(), "causal-impact-test")
}
