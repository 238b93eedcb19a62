package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/minicms-backend/internal/content"
	"github.com/yungbote/minicms-backend/internal/platform/github"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
)

// ErrNoAccountProvider is returned when the content store has no notion of accounts.
var ErrNoAccountProvider = errors.New("account lookups need the github store")

type AccountProvider interface {
	CurrentUser(ctx context.Context) (*github.User, error)
	CheckRepoAccess(ctx context.Context, repo string) (*github.RepoAccess, error)
}

type AccountService interface {
	Me(ctx context.Context) (*github.User, error)
	RepoAccess(ctx context.Context) (*github.RepoAccess, error)
}

type accountService struct {
	log      *logger.Logger
	repo     string
	provider AccountProvider
}

// NewAccountService accepts a nil provider, in which case every call fails with
// ErrNoAccountProvider.
func NewAccountService(baseLog *logger.Logger, repo string, provider AccountProvider) AccountService {
	return &accountService{
		log:      baseLog.With("service", "AccountService"),
		repo:     repo,
		provider: provider,
	}
}

func (s *accountService) Me(ctx context.Context) (*github.User, error) {
	if s.provider == nil {
		return nil, ErrNoAccountProvider
	}
	u, err := s.provider.CurrentUser(ctx)
	if err != nil {
		s.log.Warn("Me: current user lookup failed", "error", err)
		return nil, accountFailure(err)
	}
	return u, nil
}

func (s *accountService) RepoAccess(ctx context.Context) (*github.RepoAccess, error) {
	if s.provider == nil {
		return nil, ErrNoAccountProvider
	}
	access, err := s.provider.CheckRepoAccess(ctx, s.repo)
	if err != nil {
		s.log.Warn("RepoAccess: lookup failed", "repo", s.repo, "error", err)
		return nil, accountFailure(err)
	}
	return access, nil
}

// accountFailure keeps GitHub auth statuses visible and wraps the rest as store failures.
func accountFailure(err error) error {
	switch github.StatusCode(err) {
	case 401, 403:
		return err
	default:
		return fmt.Errorf("%w: %w", content.ErrStoreUnavailable, err)
	}
}
