package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/policy"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

// Resolver turns a verified company id into the current company record.
type Resolver interface {
	Resolve(ctx context.Context, companyID int64) (*domain.Company, error)
}

// Handler is a protected operation. It receives the authenticated company
// explicitly instead of reading it from request-local storage.
type Handler func(c *fiber.Ctx, actor *domain.Company) error

// Check is a predicate evaluated after authentication, such as a role gate.
type Check func(actor *domain.Company) error

// Gate authenticates bearer tokens and resolves the calling company.
type Gate struct {
	tokens   *TokenManager
	resolver Resolver
	logger   *zap.Logger
}

// NewGate constructs the authentication gate.
func NewGate(tokens *TokenManager, resolver Resolver, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{tokens: tokens, resolver: resolver, logger: logger}
}

// Authenticate runs header extraction, token verification and identity
// resolution. Every failure yields the same UNAUTHORIZED error; the cause is
// only logged.
func (g *Gate) Authenticate(c *fiber.Ctx) (*domain.Company, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, g.reject(c, "missing authorization header", nil)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, g.reject(c, "invalid authorization header", nil)
	}

	claims, err := g.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, g.reject(c, "token verification failed", err)
	}

	company, err := g.resolver.Resolve(c.UserContext(), claims.CompanyID)
	if err != nil {
		return nil, g.reject(c, "company resolution failed", err)
	}
	return company, nil
}

// Protect composes authentication, optional checks and the operation body
// into a fiber handler.
func (g *Gate) Protect(next Handler, checks ...Check) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := g.Authenticate(c)
		if err != nil {
			return err
		}
		for _, check := range checks {
			if err := check(actor); err != nil {
				return err
			}
		}
		return next(c, actor)
	}
}

func (g *Gate) reject(c *fiber.Ctx, cause string, err error) error {
	g.logger.Debug("request rejected by auth gate",
		zap.String("cause", cause),
		zap.String("path", c.Path()),
		zap.Error(err))
	return apperrors.NewUnauthorized(policy.ReasonUnauthenticated)
}
