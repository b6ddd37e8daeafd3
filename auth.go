package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenCookieName = "token"
	passwordCost    = 10
)

// Claims is the payload of a session token. Tokens carry no expiry.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	ID       string `json:"id"`
	jwt.RegisteredClaims
}

// Auth registers and logs in users and signs session tokens.
type Auth struct {
	store  *Store
	secret []byte
	now    func() time.Time
}

func NewAuth(store *Store, secret string) *Auth {
	return &Auth{
		store:  store,
		secret: []byte(secret),
		now:    time.Now,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (a *Auth) Register(ctx context.Context, username, password, email string) (*User, error) {
	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Record: "user", Fields: missing}
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return a.store.CreateUser(ctx, username, hash, strings.ToLower(email))
}

// Login checks the credentials and returns the user with a freshly signed
// token. The email is matched as given.
func (a *Auth) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	if !checkPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.Sign(Claims{Email: email, Username: user.Username, ID: user.ID})
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (a *Auth) Sign(claims Claims) (string, error) {
	claims.IssuedAt = jwt.NewNumericDate(a.now())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

func (a *Auth) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// verifyRequest verifies the token cookie of r. A missing cookie verifies as
// an empty token and fails the same way.
func (a *Auth) verifyRequest(r *http.Request) (*Claims, error) {
	var token string
	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		token = cookie.Value
	}
	return a.Verify(token)
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}
