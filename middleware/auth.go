// Package middleware provides identity extraction for the blog API.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/nblog/structs"
	"github.com/ncobase/ncore/ctxutil"
	"github.com/ncobase/ncore/logging/logger"
	securityjwt "github.com/ncobase/ncore/security/jwt"
)

// Identify decodes the identity provider's session token when one is
// presented and places the subject id and role into the request context.
// It never aborts: routes that need a caller enforce that in the service
// gate, so public routes stay public and the gate owns the 401.
func Identify(secret string, log *logger.Logger) gin.HandlerFunc {
	manager := securityjwt.NewTokenManager(secret)

	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		claims, err := manager.DecodeToken(token)
		if err != nil {
			// An undecodable token is the same as no token; the gate
			// reports NotAuthenticated if the route needs a caller.
			log.Warn(c.Request.Context(), "session token rejected", "error", err)
			c.Next()
			return
		}

		subject := securityjwt.GetSubject(claims)
		if subject == "" {
			c.Next()
			return
		}

		role := structs.RoleFromClaim(metadataRole(claims))

		ctx := ctxutil.SetUserID(c.Request.Context(), subject)
		ctx = ctxutil.SetUserIsAdmin(ctx, role.IsAdmin())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// bearerToken extracts the credential from an Authorization header.
func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// metadataRole reads the provider's role claim from session metadata.
func metadataRole(claims map[string]any) string {
	metadata, ok := claims["metadata"].(map[string]any)
	if !ok {
		return ""
	}
	role, _ := metadata["role"].(string)
	return role
}
