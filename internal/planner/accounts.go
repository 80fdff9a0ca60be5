package planner

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/taskminder/internal/database"
	"github.com/dukerupert/taskminder/internal/model"
	"github.com/dukerupert/taskminder/internal/store"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6"`
}

type AccountService struct {
	users      *store.UserStore
	validate   *validator.Validate
	bcryptCost int
}

func NewAccountService(us *store.UserStore) *AccountService {
	return &AccountService{
		users:      us,
		validate:   newValidator(),
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *AccountService) Register(in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := checkStruct(s.validate, in); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	existing, err = s.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(in.Username, in.Email, string(hash))
	if database.IsUniqueViolation(err) {
		// Lost a race with a concurrent registration.
		if strings.Contains(err.Error(), "users.email") {
			return nil, ErrEmailTaken
		}
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *AccountService) Authenticate(username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Delete removes the account together with everything it owns.
func (s *AccountService) Delete(userID int64) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return s.users.Delete(userID)
}
