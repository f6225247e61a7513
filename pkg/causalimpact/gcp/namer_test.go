package gcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResourceName(t *testing.T) {
	tests := []struct {
		name          string
		componentName string
		serviceName   string
		resourceType  string
		maxLength     int
		expected      string
	}{
		{
			name:          "fits",
			componentName: "causal-impact",
			serviceName:   "app",
			resourceType:  "token-creator",
			maxLength:     63,
			expected:      "causal-impact-app-token-creator",
		},
		{
			name:          "no resource type",
			componentName: "causal-impact",
			serviceName:   "app",
			maxLength:     63,
			expected:      "causal-impact-app",
		},
		{
			name:          "long prefix",
			componentName: "this-is-a-long-prefix",
			serviceName:   "ok-name",
			maxLength:     20,
			expected:      "this-is-a-long-p-ok",
		},
		{
			name:          "long service name",
			componentName: "ok-prefix",
			serviceName:   "this-is-a-long-name",
			maxLength:     15,
			expected:      "ok-this-is-a-lo",
		},
		{
			name:          "all parts truncated",
			componentName: "causal-impact",
			serviceName:   "secretmanager",
			resourceType:  "secret-accessor",
			maxLength:     28,
			expected:      "causal-i-secretma-secret-acc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CausalImpact{name: tt.componentName}

			got := c.NewResourceName(tt.serviceName, tt.resourceType, tt.maxLength)

			assert.Equal(t, tt.expected, got)
			assert.LessOrEqual(t, len(got), tt.maxLength)
		})
	}
}
