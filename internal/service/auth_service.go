package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tcnexs/backend/internal/auth"
	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/events"
	"github.com/tcnexs/backend/internal/repository"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

const msgInvalidCredentials = "Invalid email or password"

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name        string
	Industry    string
	Email       string
	Password    string
	FoundedYear int
	Services    []string
	Description string
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	companies  repository.CompanyRepository
	tokens     *auth.TokenManager
	bcryptCost int
	events     publisher
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	CompanyRepo repository.CompanyRepository
	Tokens      *auth.TokenManager
	BcryptCost  int
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		companies:  deps.CompanyRepo,
		tokens:     deps.Tokens,
		bcryptCost: deps.BcryptCost,
		events:     publisher{dispatcher: deps.Dispatcher, logger: loggerOrNop(deps.Logger)},
	}
}

// Register creates a company with the user role and signs a token for it.
// A taken email yields a conflict and writes nothing.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Company, string, time.Time, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.companies.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict(msgDuplicateEmail, nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	company := &domain.Company{
		Name:         strings.TrimSpace(in.Name),
		Industry:     strings.TrimSpace(in.Industry),
		Email:        email,
		PasswordHash: hash,
		FoundedYear:  in.FoundedYear,
		Services:     nonNil(in.Services),
		Description:  in.Description,
		Role:         domain.RoleUser,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, "", time.Time{}, mapRepoError(err, "Company")
	}

	token, exp, err := s.tokens.Issue(company.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventCompanyRegistered,
		SubjectID: company.ID,
		ActorID:   company.ID,
		Payload: events.CompanyRegisteredPayload{
			Email:    company.Email,
			Name:     company.Name,
			Industry: company.Industry,
		},
	})
	return company, token, exp, nil
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Company, string, time.Time, error) {
	company, err := s.companies.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized(msgInvalidCredentials)
		}
		return nil, "", time.Time{}, err
	}
	if !auth.PasswordMatches(company.PasswordHash, password) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(msgInvalidCredentials)
	}

	token, exp, err := s.tokens.Issue(company.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return company, token, exp, nil
}

// Me returns the authenticated company.
func (s *AuthService) Me(_ context.Context, actor *domain.Company) (*domain.Company, error) {
	if actor == nil {
		return nil, apperrors.NewNotFound("Company", nil)
	}
	return actor, nil
}

// Logout is stateless: tokens stay valid until they expire.
func (s *AuthService) Logout(context.Context, *domain.Company) error {
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
