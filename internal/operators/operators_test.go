package operators

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/playpool/cuebot/internal/models"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hashed, err := HashPassword("chalk-the-cue")
	require.NoError(t, err)
	require.NotEqual(t, "chalk-the-cue", hashed)

	require.True(t, VerifyPassword(hashed, "chalk-the-cue"))
	require.False(t, VerifyPassword(hashed, "chalk"))
	require.False(t, VerifyPassword("not-a-hash", "chalk-the-cue"))
}

func TestTokenRoundTrip(t *testing.T) {
	op := &models.Operator{ID: 7, Username: "lab"}
	token, exp, err := IssueToken(op, "secret", time.Hour)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, 7, claims.OperatorID)
	require.Equal(t, "lab", claims.Username)
	require.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestParseTokenRejects(t *testing.T) {
	op := &models.Operator{ID: 1, Username: "lab"}

	token, _, err := IssueToken(op, "secret", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(token, "other-secret")
	require.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := IssueToken(op, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, "secret")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("garbage", "secret")
	require.ErrorIs(t, err, ErrInvalidToken)

	// HS384 is not accepted even with the right key
	other := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{"operator_id": 1, "exp": time.Now().Add(time.Hour).Unix()})
	signed, err := other.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseToken(signed, "secret")
	require.ErrorIs(t, err, ErrInvalidToken)

	// missing operator id
	bare := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, err = bare.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseToken(signed, "secret")
	require.ErrorIs(t, err, ErrInvalidToken)
}
