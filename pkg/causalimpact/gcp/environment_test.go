package gcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessMembers(t *testing.T) {
	t.Run("organization account grants its domain", func(t *testing.T) {
		members, err := accessMembers("analyst@acme.io")
		require.NoError(t, err)
		assert.Equal(t, []string{"user:analyst@acme.io", "domain:acme.io"}, members)
	})

	t.Run("consumer account grants only the user", func(t *testing.T) {
		members, err := accessMembers("someone@gmail.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"user:someone@gmail.com"}, members)
	})

	for _, account := range []string{"", "analyst", "@acme.io", "analyst@"} {
		t.Run("rejects "+account, func(t *testing.T) {
			_, err := accessMembers(account)
			assert.Error(t, err)
		})
	}
}
