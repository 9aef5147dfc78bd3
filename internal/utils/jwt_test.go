package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
    tok, err := NewAccessToken("secret", 42, "organizer", 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

    claims, err := ParseAccessToken("secret", tok.Token)
    require.NoError(t, err)
    assert.Equal(t, Claims{UserID: 42, Role: "organizer"}, claims)
}

func TestParseAccessToken_Rejects(t *testing.T) {
    good, err := NewAccessToken("secret", 1, "buyer", 5)
    require.NoError(t, err)
    expired, err := NewAccessToken("secret", 1, "buyer", -5)
    require.NoError(t, err)
    noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("secret"))
    require.NoError(t, err)
    badSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub": "ana", "exp": time.Now().Add(time.Hour).Unix(),
    }).SignedString([]byte("secret"))
    require.NoError(t, err)
    hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
        "sub": "1", "exp": time.Now().Add(time.Hour).Unix(),
    }).SignedString([]byte("secret"))
    require.NoError(t, err)

    cases := map[string]struct{ secret, raw string }{
        "wrong secret":   {"other", good.Token},
        "expired":        {"secret", expired.Token},
        "no expiry":      {"secret", noExp},
        "non-numeric id": {"secret", badSub},
        "other method":   {"secret", hs512},
        "garbage":        {"secret", "a.b.c"},
    }
    for name, tc := range cases {
        t.Run(name, func(t *testing.T) {
            _, err := ParseAccessToken(tc.secret, tc.raw)
            assert.Error(t, err)
        })
    }
}
