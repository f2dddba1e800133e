package middleware

import (
	"context"  // Lookups are request scoped
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // Header parsing

	"blog_system/internal/domain"    // Domain models and errors
	"blog_system/internal/httperror" // JSON error responses
	"blog_system/internal/metrics"   // Auth failure counter
	"blog_system/internal/utils"     // JWT parsing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

const principalKey = "principal" // gin context key holding the authenticated user

// UserLookup is what the strategies need from the user repository
type UserLookup interface {
	Get(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Strategy verifies the credentials on one request
type Strategy interface {
	Scheme() string                                    // Authorization scheme it handles, e.g. "Basic"
	Challenge() string                                 // WWW-Authenticate value sent on failure
	Authenticate(c *gin.Context) (*domain.User, error) // Resolved principal or an Unauthenticated error
}

// BasicStrategy checks "Authorization: Basic base64(username:password)"
type BasicStrategy struct {
	Users UserLookup // Username lookup
}

func (BasicStrategy) Scheme() string { return "Basic" }

func (BasicStrategy) Challenge() string { return `Basic realm="Authentication Required"` }

func (s BasicStrategy) Authenticate(c *gin.Context) (*domain.User, error) {
	username, password, ok := c.Request.BasicAuth() // Decode the header
	if !ok {
		return nil, domain.Unauthenticated("Invalid credentials")
	}
	user, err := s.Users.FindByUsername(c.Request.Context(), username)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.Unauthenticated("Invalid credentials") // Unknown user looks like a bad password
		}
		return nil, err
	}
	valid, err := user.VerifyPassword(password)
	if err != nil {
		return nil, err // Malformed stored hash
	}
	if !valid {
		return nil, domain.Unauthenticated("Invalid credentials")
	}
	return user, nil
}

// TokenResolver maps a bearer token to a user. It is the extension point for
// real token schemes.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// TokenStrategy checks "Authorization: Bearer <token>"
type TokenStrategy struct {
	Resolver TokenResolver // Token to principal mapping
}

func (TokenStrategy) Scheme() string { return "Bearer" }

func (TokenStrategy) Challenge() string { return `Bearer realm="Authentication Required"` }

func (s TokenStrategy) Authenticate(c *gin.Context) (*domain.User, error) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, s.Scheme()) || strings.TrimSpace(token) == "" {
		return nil, domain.Unauthenticated("Invalid token")
	}
	user, err := s.Resolver.Resolve(c.Request.Context(), strings.TrimSpace(token))
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			return nil, err
		}
		return nil, domain.Unauthenticated("Invalid token")
	}
	return user, nil
}

// StaticTokenResolver accepts exactly one configured token and resolves it to
// a fixed user id. It exists for development and tests only: the token never
// expires and cannot be revoked.
type StaticTokenResolver struct {
	Token  string     // The single accepted token
	UserID uint       // User the token stands for
	Users  UserLookup // Principal lookup
}

func (r StaticTokenResolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if r.Token == "" || token != r.Token {
		return nil, domain.Unauthenticated("Invalid token")
	}
	return r.Users.Get(ctx, r.UserID)
}

// JWTResolver accepts HS256 tokens from utils.TokenIssuer carrying a user_id claim
type JWTResolver struct {
	Secret string     // Signing secret
	Users  UserLookup // Principal lookup
}

func (r JWTResolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	userID, err := utils.VerifyToken(token, r.Secret) // Signature, issuer and expiry
	if err != nil {
		return nil, domain.Unauthenticated("Invalid token")
	}
	return r.Users.Get(ctx, userID)
}

// RequireAuth guards a route. The strategy whose scheme matches the
// Authorization header runs; without a match the first strategy runs and
// produces its own failure. On success the principal is attached to the
// request context before the handler executes.
func RequireAuth(strategies ...Strategy) gin.HandlerFunc {
	if len(strategies) == 0 {
		panic("middleware: RequireAuth needs at least one strategy")
	}
	return func(c *gin.Context) {
		strategy := pickStrategy(c.GetHeader("Authorization"), strategies)
		user, err := strategy.Authenticate(c)
		if err != nil {
			if domain.KindOf(err) == domain.KindInternal {
				httperror.FromError(c, err) // Integrity or storage fault, not a credentials problem
				return
			}
			metrics.AuthFailuresTotal.WithLabelValues(strings.ToLower(strategy.Scheme())).Inc()
			logrus.WithFields(logrus.Fields{
				"request_id": c.GetString("requestId"),
				"scheme":     strategy.Scheme(),
				"path":       c.Request.URL.Path,
			}).Warn("Authentication failed")
			c.Header("WWW-Authenticate", strategy.Challenge())
			message := "Unauthorized"
			var de *domain.Error
			if errors.As(err, &de) {
				message = de.Message
			}
			httperror.Abort(c, http.StatusUnauthorized, message)
			return
		}
		c.Set(principalKey, user) // Request scoped, gone when the request ends
		c.Next()
	}
}

func pickStrategy(header string, strategies []Strategy) Strategy {
	scheme, _, _ := strings.Cut(header, " ")
	for _, s := range strategies {
		if strings.EqualFold(scheme, s.Scheme()) {
			return s
		}
	}
	return strategies[0]
}

// Principal returns the user attached by RequireAuth, or nil on unguarded routes
func Principal(c *gin.Context) *domain.User {
	if v, ok := c.Get(principalKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}
