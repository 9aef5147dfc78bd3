package utils // package utils provides helper functions for token creation and parsing

import (
    "errors"  // errors reports malformed claims
    "strconv" // strconv renders the numeric subject as a string
    "time"    // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are sent in the Authorization header when calling the
// mutating endpoints while authentication is enabled.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims are the values carried by an access token.
type Claims struct {
    UserID int64
    Role   string
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The subject
// (sub) is the decimal user id, as RFC 7519 requires sub to be a string;
// role is the user's type.
func NewAccessToken(secret string, userID int64, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  strconv.FormatInt(userID, 10),
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies an HS256 token signed with secret and returns
// its claims.  Expired tokens and other signing methods are rejected.
func ParseAccessToken(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil {
        return Claims{}, err
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, errors.New("unexpected claims type")
    }
    sub, err := mc.GetSubject()
    if err != nil {
        return Claims{}, err
    }
    id, err := strconv.ParseInt(sub, 10, 64)
    if err != nil {
        return Claims{}, errors.New("subject is not a user id")
    }
    role, _ := mc["role"].(string)
    return Claims{UserID: id, Role: role}, nil
}
