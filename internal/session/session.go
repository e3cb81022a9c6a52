package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kmdsweets/storefront/internal/logging"
	"github.com/kmdsweets/storefront/internal/storage"
)

const StorageKey = "kmd_user"

const (
	ModeLogin    = "login"
	ModeRegister = "register"
)

var ErrValidation = errors.New("validation")

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginRequest mirrors the sign-in / create-account form. Credentials are not
// checked, signing in only remembers who the visitor says they are.
type LoginRequest struct {
	Mode      string `json:"mode"       validate:"omitempty,oneof=login register"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name" validate:"required_if=Mode register"`
	LastName  string `json:"last_name"`
}

type Service struct {
	KV       storage.KV
	validate *validator.Validate
}

func NewService(kv storage.KV) *Service {
	return &Service{KV: kv, validate: validator.New()}
}

func (s *Service) Login(ctx context.Context, namespace string, req LoginRequest) (*User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	u := User{Email: req.Email, Name: "User"}
	if req.Mode == ModeRegister {
		u.Name = req.FirstName
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	if err := s.KV.Set(ctx, namespace, StorageKey, raw); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &u, nil
}

func (s *Service) Current(ctx context.Context, namespace string) (*User, bool) {
	raw, err := s.KV.Get(ctx, namespace, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logging.FromContext(ctx).Error("session_load_failed", "error", err)
		}
		return nil, false
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil || u.Email == "" {
		logging.FromContext(ctx).Warn("session_load_failed", "reason", "malformed session", "error", err)
		return nil, false
	}
	return &u, true
}

func (s *Service) Logout(ctx context.Context, namespace string) error {
	if err := s.KV.Delete(ctx, namespace, StorageKey); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
