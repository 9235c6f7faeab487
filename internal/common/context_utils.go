package common

import (
	"context"
	"fmt"
	"strings"

	"sgspadmin/internal/models"

	"github.com/google/uuid"
)

type contextKey string

const ClaimsKey contextKey = "identity_claims"

// WithClaims returns a copy of ctx carrying the verified identity.
func WithClaims(ctx context.Context, claims *models.IdentityClaims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// ClaimsFromContext extracts the identity attached by the auth gate.
func ClaimsFromContext(ctx context.Context) (*models.IdentityClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*models.IdentityClaims)
	return claims, ok && claims != nil
}

// ValidateUUID parses a path or body identifier
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid id", fieldName)
	}
	return id, nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SanitizeSearchQuery strips LIKE wildcards from user search input
func SanitizeSearchQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	query = strings.ReplaceAll(query, "%", "")
	query = strings.ReplaceAll(query, "_", "")
	if len(query) > 100 {
		query = query[:100]
	}
	return strings.TrimSpace(query)
}
