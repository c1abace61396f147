package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const identityKey = "identity"

// Claims carries the display name inside the identity cookie
type Claims struct {
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// Signer issues and verifies identity tokens
type Signer struct {
	secret []byte
	maxAge time.Duration
}

// NewSigner creates a Signer. maxAge bounds both the token expiry and the cookie.
func NewSigner(secret string, maxAge time.Duration) *Signer {
	return &Signer{secret: []byte(secret), maxAge: maxAge}
}

// Sign generates a token for the display name
func (s *Signer) Sign(name string) (string, error) {
	now := time.Now()
	claims := &Claims{
		DisplayName: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   name,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates a token and returns its claims
func (s *Signer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// CookieStore keeps the display name in a signed cookie on the current request.
type CookieStore struct {
	c      *gin.Context
	name   string
	signer *Signer
}

// NewCookieStore binds a store to one request.
func NewCookieStore(c *gin.Context, cookieName string, signer *Signer) *CookieStore {
	return &CookieStore{c: c, name: cookieName, signer: signer}
}

// Load returns "" for a missing, tampered or expired cookie.
func (s *CookieStore) Load() (string, error) {
	raw, err := s.c.Cookie(s.name)
	if err != nil || raw == "" {
		return "", nil
	}
	claims, err := s.signer.Parse(raw)
	if err != nil {
		return "", nil
	}
	return claims.DisplayName, nil
}

func (s *CookieStore) Save(name string) error {
	token, err := s.signer.Sign(name)
	if err != nil {
		return err
	}
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.name, token, int(s.signer.maxAge/time.Second), "/", "", false, true)
	return nil
}

func (s *CookieStore) Clear() error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.name, "", -1, "/", "", false, true)
	return nil
}

// Middleware attaches the request's Identity to the gin context.
func Middleware(cookieName string, signer *Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := NewIdentity(NewCookieStore(c, cookieName, signer))
		c.Set(identityKey, id)
		c.Next()
	}
}

// FromContext returns the Identity set by Middleware, or a signed-out
// in-memory identity when the middleware did not run.
func FromContext(c *gin.Context) *Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return &Identity{store: &MemoryStore{}}
}
