package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewIssuer("secret", "offerhub", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(Identity{UserID: "alice", Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	identity, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "alice", Username: "alice", Email: "alice@example.com"}, identity)
}

func TestVerifyRejectsForeignSecretAndIssuer(t *testing.T) {
	issuer, err := NewIssuer("secret", "offerhub", time.Hour)
	require.NoError(t, err)
	other, err := NewIssuer("other-secret", "offerhub", time.Hour)
	require.NoError(t, err)
	foreign, err := NewIssuer("secret", "someone-else", time.Hour)
	require.NoError(t, err)

	token, err := other.Issue(Identity{UserID: "alice"})
	require.NoError(t, err)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err = foreign.Issue(Identity{UserID: "alice"})
	require.NoError(t, err)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer, err := NewIssuer("secret", "offerhub", time.Minute)
	require.NoError(t, err)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := issuer.Issue(Identity{UserID: "alice"})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer   "} {
		_, err := BearerToken(header)
		assert.ErrorIs(t, err, ErrMissingToken, header)
	}
}
