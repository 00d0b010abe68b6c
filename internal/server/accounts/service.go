package accounts

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/booklib/internal/common"
	"github.com/dmitrijs2005/booklib/internal/server/catalog"
	"golang.org/x/crypto/bcrypt"
)

var errPasswordTooLong = common.NewError(common.ErrorValidation, "Password is too long")

// TokenIssuer mints an access token for a verified username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// Service implements registration and login.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates an account with an empty favorites set. Usernames are
// taken verbatim. It never issues a token.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return common.ErrCredentialsRequired
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return errPasswordTooLong
		}
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.repo.Create(ctx, Account{Username: username, Password: hash, Favorites: []catalog.BookID{}})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return common.ErrAccountAlreadyExists
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// Login checks the credentials and returns a fresh access token. Unknown
// users, wrong passwords and missing fields all yield
// common.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", common.ErrInvalidCredentials
	}

	a, err := s.repo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// spend the same time as a real comparison
			_ = s.hasher.Compare(s.dummy(), password)
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get account: %w", err)
	}

	if err := s.hasher.Compare(a.Password, password); err != nil {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(a.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("booklib-dummy-password")
	})
	return s.dummyHash
}
