package authService

import (
	"testing"

	"ProjectMonitoring/internal/api/auth"
	"ProjectMonitoring/pkg/bcrypt"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func newTestService(t *testing.T, password string) IAuthService {
	t.Helper()

	hasher := bcrypt.NewWithCost(4)
	hash, err := hasher.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	t.Setenv("OPERATOR_USERNAME", "operator")
	t.Setenv("OPERATOR_PASSWORD_HASH", hash)
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return NewAuthService(log, hasher)
}

func TestLoginIssuesToken(t *testing.T) {
	service := newTestService(t, "hunter2")

	result, err := service.Login(context.Background(), auth.LoginRequest{
		Username: "operator",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if result.AccessToken == "" {
		t.Error("AccessToken is empty")
	}
	if result.ExpiredAt == 0 {
		t.Error("ExpiredAt is zero")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	service := newTestService(t, "hunter2")

	_, err := service.Login(context.Background(), auth.LoginRequest{
		Username: "operator",
		Password: "wrong",
	})
	if err != auth.ErrInvalidCredentials {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginRejectsUnknownUsername(t *testing.T) {
	service := newTestService(t, "hunter2")

	_, err := service.Login(context.Background(), auth.LoginRequest{
		Username: "intruder",
		Password: "hunter2",
	})
	if err != auth.ErrInvalidCredentials {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginFailsWhenUnconfigured(t *testing.T) {
	t.Setenv("OPERATOR_USERNAME", "")
	t.Setenv("OPERATOR_PASSWORD_HASH", "")

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	service := NewAuthService(log, bcrypt.New())

	_, err := service.Login(context.Background(), auth.LoginRequest{
		Username: "operator",
		Password: "hunter2",
	})
	if err != auth.ErrOperatorNotConfigured {
		t.Errorf("err = %v, want ErrOperatorNotConfigured", err)
	}
}
