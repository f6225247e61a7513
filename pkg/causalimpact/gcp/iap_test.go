package gcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOAuthCredentials(t *testing.T) {
	credentials, err := newOAuthCredentials(testClientID, testClientSecret)
	require.NoError(t, err)
	assert.Equal(t, testClientID, credentials.ClientID)
	assert.Equal(t, testClientSecret, credentials.Secret)

	_, err = newOAuthCredentials("", testClientSecret)
	require.ErrorIs(t, err, ErrInvalidOAuthClient)

	_, err = newOAuthCredentials(testClientID, "")
	require.ErrorIs(t, err, ErrInvalidOAuthClient)
	assert.Contains(t, err.Error(), testClientID)
}
