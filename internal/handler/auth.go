package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

const TokenCookieName = "__availability_sync_token"

var ErrMissingToken = errors.New("缺少令牌")

type AuthClaims struct {
	TenantID int64  `json:"tenantId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken 签发网关使用的 HS256 令牌
func IssueToken(secret string, subject string, tenantID int64, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		TenantID: tenantID,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   subject,
		},
	})
	return token.SignedString([]byte(secret))
}

// tokenFromRequest 优先读取 Authorization 头，其次读取 cookie
func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}

	cookie, err := r.Cookie(TokenCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrMissingToken
		}
		return "", err
	}
	return cookie.Value, nil
}

func (h *Handler) parseToken(tokenString string) (*domain.User, error) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	role := domain.Role(claims.Role)
	if !role.IsValid() {
		return nil, errors.New("未知的角色")
	}
	if role != domain.RoleAdmin && claims.TenantID <= 0 {
		return nil, errors.New("令牌缺少租户")
	}

	return &domain.User{
		Subject:  claims.Subject,
		TenantID: claims.TenantID,
		Role:     role,
	}, nil
}
