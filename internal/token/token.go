// Package token emite e verifica os links de confirmação de e-mail.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type claims struct {
	// Fingerprint muda quando a conta muda (ativação, troca de senha),
	// o que invalida os links antigos.
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock troca o relógio usado na emissão e na verificação.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	return &Issuer{secret: i.secret, ttl: i.ttl, now: now}
}

func fingerprint(state string) string {
	sum := sha256.Sum256([]byte(state))
	return hex.EncodeToString(sum[:8])
}

// Issue gera um token para userID vinculado ao estado atual da conta.
func (i *Issuer) Issue(userID int64, state string) (string, error) {
	now := i.now()
	c := claims{
		Fingerprint: fingerprint(state),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify confere assinatura, validade, usuário e estado da conta.
func (i *Issuer) Verify(raw string, userID int64, state string) error {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject != strconv.FormatInt(userID, 10) {
		return fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}
	if c.Fingerprint != fingerprint(state) {
		return fmt.Errorf("%w: account state changed", ErrInvalidToken)
	}
	return nil
}
