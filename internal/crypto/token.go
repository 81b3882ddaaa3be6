package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Token purposes. A token issued for one purpose never validates for another,
// so a leaked reset link cannot be replayed as a session credential.
const (
	PurposeSession = "session"
	PurposeReset   = "password_reset"
)

const (
	tokenIssuer   = "coursetrack"
	tokenAudience = "coursetrack-api"
)

// Claims represents the JWT claims for CourseTrack tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID  int64  `json:"user_id"`
	Purpose string `json:"purpose"`

	// PasswordFP binds a reset token to the credential it was issued against;
	// changing the password invalidates every outstanding reset token.
	PasswordFP string `json:"pwd_fp,omitempty"`
}

// GenerateSessionToken creates a signed session JWT for the given user.
func GenerateSessionToken(userID int64, secret string, expiry time.Duration) (string, error) {
	return signToken(Claims{
		RegisteredClaims: registeredClaims(expiry),
		UserID:           userID,
		Purpose:          PurposeSession,
	}, secret)
}

// GenerateResetToken creates a signed short-lived password-reset JWT.
// passwordHash is the user's current stored hash; its fingerprint is embedded
// so the token dies with the credential it was issued against.
func GenerateResetToken(userID int64, passwordHash, secret string, expiry time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: registeredClaims(expiry),
		UserID:           userID,
		Purpose:          PurposeReset,
		PasswordFP:       HashFingerprint(passwordHash),
	}
	claims.ID = uuid.NewString()
	return signToken(claims, secret)
}

// ValidateToken parses and validates a token string, returning the claims only
// if the signature, expiry, issuer, audience and purpose all check out.
func ValidateToken(tokenString, secret, expectedPurpose string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Purpose != expectedPurpose {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func signToken(claims Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// HashFingerprint returns a short stable fingerprint of a stored password hash.
func HashFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return base64.RawURLEncoding.EncodeToString(sum[:12])
}

func registeredClaims(expiry time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}
