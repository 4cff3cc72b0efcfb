package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la
// aplicación. Role permite al middleware RBAC decidir sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"` // "admin" | "cajero" | "vendedor"
}

// Generate genera un token JWT firmado que incluye userID, tenantID y role.
func Generate(secret, userID, tenantID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve userID, tenantID y role.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (userID, tenantID, role string, err error) {
	if secret == "" {
		return "", "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", "", fmt.Errorf("claims inválidos")
	}
	return claims.UserID, claims.TenantID, claims.Role, nil
}
