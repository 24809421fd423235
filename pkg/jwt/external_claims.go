package jwt

import (
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/golang-jwt/jwt/v5"
)

// ExternalClaims represents a token minted by the marketing site's hosted
// auth provider. Only the subject is trusted; everything else is defaulted.
type ExternalClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseExternalToken parses a hosted-auth token and maps it onto portal
// claims. The subject becomes the portal user id as-is; callers that need
// CRM-prefixed ids go through common.Actor instead.
func ParseExternalToken(tokenString, secret, defaultRole string, defaultPlatformId int) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ExternalClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errcode.ErrTokenInvalid.Wrap(err)
	}

	ext, ok := token.Claims.(*ExternalClaims)
	if !ok || !token.Valid {
		return nil, errcode.ErrTokenInvalid
	}
	if ext.Subject == "" {
		return nil, errcode.ErrTokenInvalid
	}

	return &Claims{
		UserId:           ext.Subject,
		PlatformId:       defaultPlatformId,
		RegisteredClaims: ext.RegisteredClaims,
	}, nil
}
