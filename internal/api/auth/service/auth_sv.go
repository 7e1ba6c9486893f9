package authService

import (
	"os"
	"time"

	"ProjectMonitoring/internal/api/auth"
	contextPkg "ProjectMonitoring/pkg/context"
	jwtPkg "ProjectMonitoring/pkg/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const tokenLifetime = 24 * time.Hour

// Login checks the request against the single operator account from the
// environment and issues an access token. There is no user store; this
// service guards one dashboard, not a user base.
func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	operatorUsername := os.Getenv("OPERATOR_USERNAME")
	operatorPasswordHash := os.Getenv("OPERATOR_PASSWORD_HASH")

	if operatorUsername == "" || operatorPasswordHash == "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Error("Operator credentials not configured")
		return auth.LoginResponse{}, auth.ErrOperatorNotConfigured
	}

	if req.Username != operatorUsername {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Login attempt with unknown username")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if err := s.bcrypt.ComparePassword(operatorPasswordHash, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Login attempt with wrong password")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	accessToken, expiredAt, err := jwtPkg.Sign(map[string]interface{}{
		"id":       "operator",
		"username": operatorUsername,
	}, tokenLifetime)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign access token")
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		AccessToken: accessToken,
		ExpiredAt:   expiredAt,
	}, nil
}
