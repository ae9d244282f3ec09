package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("chart-secret", time.Hour)

	token, expiresAt, err := signer.Generate("job-42", "arr-1/job-42.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	jobID, path, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "job-42", jobID)
	require.Equal(t, "arr-1/job-42.pdf", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("chart-secret", time.Hour)

	token, _, err := signer.Generate("job-42", "arr-1/job-42.csv")
	require.NoError(t, err)

	forged := strings.Replace(token, "job-42", "job-43", 1)
	_, _, _, err = signer.Parse(forged, false)
	require.ErrorIs(t, err, ErrTokenInvalid)

	other := NewSignedURLSigner("different-secret", time.Hour)
	_, _, _, err = other.Parse(token, false)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSignedURLSignerExpiry(t *testing.T) {
	signer := NewSignedURLSigner("chart-secret", time.Hour)
	signer.ttl = -time.Minute

	token, _, err := signer.Generate("job-42", "arr-1/job-42.csv")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token, false)
	require.ErrorIs(t, err, ErrTokenExpired)

	jobID, path, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "job-42", jobID)
	require.Equal(t, "arr-1/job-42.csv", path)
}
