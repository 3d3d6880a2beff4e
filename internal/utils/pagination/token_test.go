package pagination_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonvq/ketoan_backend/internal/utils/pagination"
)

func TestEncodeDecodeToken_RoundTrip(t *testing.T) {
	postingDate := time.Date(2025, 1, 15, 10, 30, 0, 123456789, time.UTC)
	documentID := int64(42)

	token := pagination.EncodeToken(postingDate, documentID)
	require.NotEmpty(t, token)

	decodedDate, decodedID, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, postingDate.Equal(decodedDate))
	assert.Equal(t, documentID, decodedID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		token string
	}{
		{"not base64", "not-base64!!!"},
		{"missing separator", base64.StdEncoding.EncodeToString([]byte("2025-01-15T10:30:00Z"))},
		{"bad date", base64.StdEncoding.EncodeToString([]byte("yesterday|42"))},
		{"bad document id", base64.StdEncoding.EncodeToString([]byte("2025-01-15T10:30:00Z|forty-two"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := pagination.DecodeToken(tc.token)
			assert.Error(t, err)
		})
	}
}
