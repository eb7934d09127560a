package setting

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/pkg/errors"

	"github.com/scwportal/backend/core"
)

// AccessPasswordKey holds the shared secret gating student self-registration.
const AccessPasswordKey = "universal_access_password"

const maxAccessPasswordLen = 64

var (
	ErrNotFound              = errors.New("setting not found")
	ErrInvalidAccessPassword = errors.New("access password must be between 1 and 64 characters")
)

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type (
	Repository interface {
		GetSetting(ctx context.Context, key string) (Setting, error)
		SetSetting(ctx context.Context, s Setting) (Setting, error)
	}

	Service struct {
		repo                  Repository
		defaultAccessPassword string
	}
)

func NewService(repo Repository, defaultAccessPassword string) *Service {
	return &Service{repo: repo, defaultAccessPassword: defaultAccessPassword}
}

// AccessPassword reads the shared secret on every call; a missing or empty value yields the default.
func (svc *Service) AccessPassword(ctx context.Context) (string, error) {
	s, err := svc.repo.GetSetting(ctx, AccessPasswordKey)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return svc.defaultAccessPassword, nil
		}
		return "", core.NewDependencyError("Failed to read settings", err)
	}
	if s.Value == "" {
		return svc.defaultAccessPassword, nil
	}
	return s.Value, nil
}

// CheckAccessPassword reports whether pwd matches the shared secret.
func (svc *Service) CheckAccessPassword(ctx context.Context, pwd string) (bool, error) {
	want, err := svc.AccessPassword(ctx)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(pwd), []byte(want)) == 1, nil
}

func (svc *Service) SetAccessPassword(ctx context.Context, pwd string) error {
	pwd = core.CleanString(pwd)
	if pwd == "" || len([]rune(pwd)) > maxAccessPasswordLen {
		return core.NewValidationError(ErrInvalidAccessPassword)
	}
	s := Setting{Key: AccessPasswordKey, Value: pwd, UpdatedAt: time.Now().UTC()}
	if _, err := svc.repo.SetSetting(ctx, s); err != nil {
		return errors.Wrap(err, "saving access password")
	}
	return nil
}
