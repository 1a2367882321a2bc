// auth.go
//
// Resolves the owner identity of a request
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of studyhub.
// studyhub is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// studyhub is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with studyhub.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	authorizer "github.com/localnerve/authorizer-go"
	"github.com/localnerve/studyhub/internal/config"
	"github.com/localnerve/studyhub/internal/types"
	"github.com/localnerve/studyhub/internal/utils"
)

// SessionCookie is the Authorizer session cookie name
const SessionCookie = "cookie_session"

const ownerKey = "ownerID"

// SessionValidator resolves an Authorizer session cookie to a user id
type SessionValidator interface {
	ValidateSession(cookie string) (string, error)
}

// AuthorizerSessions validates session cookies with an Authorizer server
type AuthorizerSessions struct {
	client *authorizer.AuthorizerClient
	roles  []string
}

// NewAuthorizerSessions pings the Authorizer server and creates a client for it
func NewAuthorizerSessions(cfg *config.Config, roles ...string) (*AuthorizerSessions, error) {
	if err := utils.PingAuthorizer(context.Background(), cfg.AuthzURL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}
	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}
	if len(roles) == 0 {
		roles = []string{"user"}
	}
	return &AuthorizerSessions{client: client, roles: roles}, nil
}

// ValidateSession returns the id of the user the session belongs to
func (a *AuthorizerSessions) ValidateSession(cookie string) (string, error) {
	roles := make([]*string, len(a.roles))
	for i := range a.roles {
		roles[i] = &a.roles[i]
	}

	res, err := a.client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  roles,
	})
	if err != nil {
		return "", fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid || res.User == nil {
		return "", errors.New("session is not valid")
	}
	return res.User.ID, nil
}

// AuthConfig selects how owners are resolved. A bearer token is tried first, then the session cookie.
type AuthConfig struct {
	JWTSecret string
	Sessions  SessionValidator
}

// RequireOwner rejects requests that carry no verifiable owner identity and
// stores the owner id for OwnerID otherwise
func RequireOwner(ac AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if header := c.Get(fiber.HeaderAuthorization); header != "" && ac.JWTSecret != "" {
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return authError(fiber.StatusUnauthorized, "Authorization header must use the Bearer scheme")
			}
			owner, err := ownerFromToken(strings.TrimSpace(token), ac.JWTSecret)
			if err != nil {
				return authError(fiber.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			c.Locals(ownerKey, owner)
			return c.Next()
		}

		if ac.Sessions != nil {
			session := c.Cookies(SessionCookie)
			if session == "" {
				return authError(fiber.StatusForbidden, fmt.Sprintf("Authorizer cookie %q not found", SessionCookie))
			}
			owner, err := ac.Sessions.ValidateSession(session)
			if err != nil {
				return authError(fiber.StatusForbidden, fmt.Sprintf("Invalid session: %v", err))
			}
			c.Locals(ownerKey, owner)
			return c.Next()
		}

		return authError(fiber.StatusUnauthorized, "Missing bearer token")
	}
}

// OwnerID returns the owner stored by RequireOwner, or "" when the route is unauthenticated
func OwnerID(c *fiber.Ctx) string {
	owner, _ := c.Locals(ownerKey).(string)
	return owner
}

func ownerFromToken(raw, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func authError(code int, message string) error {
	return &types.CustomError{
		Code:    code,
		Message: message,
		Type:    "authorization",
	}
}
