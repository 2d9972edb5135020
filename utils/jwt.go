package utils

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var JWTSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Development fallback, matches .env.example
		secret = "MessAppSecretKeyAUTH1945"
	}
	JWTSecret = []byte(secret)
}

type CustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	MessID uint   `json:"mess_id"`
	// Purpose distinguishes access tokens from password-reset tokens so a
	// reset link can never be replayed as a login.
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

const (
	purposeAccess = "access"
	purposeReset  = "reset"

	accessTokenTTL = 24 * time.Hour
	resetTokenTTL  = 15 * time.Minute
)

func GenerateToken(userID uint, role string, messID uint) (string, error) {
	return signToken(userID, role, messID, purposeAccess, accessTokenTTL)
}

func GenerateResetToken(userID uint) (string, error) {
	return signToken(userID, "", 0, purposeReset, resetTokenTTL)
}

func signToken(userID uint, role string, messID uint, purpose string, ttl time.Duration) (string, error) {
	claims := &CustomClaims{
		UserID:  userID,
		Role:    role,
		MessID:  messID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "MessApp",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	return parseToken(tokenString, purposeAccess)
}

func ParseResetToken(tokenString string) (*CustomClaims, error) {
	return parseToken(tokenString, purposeReset)
}

func parseToken(tokenString, purpose string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if claims.Purpose != purpose {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

// BlacklistToken keeps a logged-out token rejected until it would have
// expired anyway.
func BlacklistToken(token string) {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = time.Now().Add(accessTokenTTL)
}

func IsTokenBlacklisted(token string) bool {
	blacklistMutex.RLock()
	expiry, exists := blacklistedTokens[token]
	blacklistMutex.RUnlock()

	if !exists {
		return false
	}
	if time.Now().Before(expiry) {
		return true
	}

	blacklistMutex.Lock()
	delete(blacklistedTokens, token)
	blacklistMutex.Unlock()
	return false
}
