// Package jwt issues and verifies the HMAC signed tokens used by managers
// and by participants returning to a campaign.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds
const (
	KindManager     = "manager"
	KindParticipant = "participant"
)

var (
	ErrTokenExpired = jwt.ErrTokenExpired
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the decoded payload of a token
type Claims struct {
	Kind       string
	Subject    string
	Email      string
	Role       string
	CampaignID string
}

// TokenService signs and verifies tokens with one shared secret
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueManagerToken signs a manager session token
func (s *TokenService) IssueManagerToken(managerID, email, role string) (string, error) {
	return s.sign(jwt.MapClaims{
		"typ":   KindManager,
		"sub":   managerID,
		"email": email,
		"role":  role,
	})
}

// IssueParticipantToken signs a token tying a participant to one campaign
func (s *TokenService) IssueParticipantToken(campaignID, participantID string) (string, error) {
	return s.sign(jwt.MapClaims{
		"typ": KindParticipant,
		"sub": participantID,
		"cmp": campaignID,
	})
}

func (s *TokenService) sign(claims jwt.MapClaims) (string, error) {
	now := s.now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.ttl).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its claims. Expired tokens match ErrTokenExpired.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims := &Claims{
		Kind:       stringClaim(mc, "typ"),
		Subject:    stringClaim(mc, "sub"),
		Email:      stringClaim(mc, "email"),
		Role:       stringClaim(mc, "role"),
		CampaignID: stringClaim(mc, "cmp"),
	}
	if claims.Subject == "" || claims.Kind == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, _ := mc[key].(string)
	return v
}
