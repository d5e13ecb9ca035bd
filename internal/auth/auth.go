// Package auth covers password hashing and the JWT session layer. A token
// carries only the account id; handlers load the account when they need
// the role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey string

const ctxAccountID ctxKey = "account_id"

// ErrNoAccount is returned by AccountID when the request context carries
// no authenticated account.
var ErrNoAccount = errors.New("no account in context")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Tokens issues and verifies the HS256 session tokens.
type Tokens struct {
	secret   string
	duration time.Duration
}

func NewTokens(secret string, duration time.Duration) *Tokens {
	return &Tokens{secret: secret, duration: duration}
}

func (t *Tokens) Issue(accountID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": accountID,
		"exp":        time.Now().Add(t.duration).Unix(),
	})
	return token.SignedString([]byte(t.secret))
}

func (t *Tokens) Parse(tokenStr string) (int, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}
	id, ok := claims["account_id"].(float64)
	if !ok {
		return 0, errors.New("missing account_id claim")
	}
	return int(id), nil
}

// Middleware rejects requests without a valid Bearer token and puts the
// account id into the request context.
func (t *Tokens) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenStr == "" {
			http.Error(w, "Missing or invalid Authorization header", http.StatusUnauthorized)
			return
		}

		accountID, err := t.Parse(tokenStr)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
	})
}

func WithAccountID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, ctxAccountID, id)
}

func AccountID(ctx context.Context) (int, error) {
	id, ok := ctx.Value(ctxAccountID).(int)
	if !ok {
		return 0, ErrNoAccount
	}
	return id, nil
}
