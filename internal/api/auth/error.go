package auth

import "ProjectMonitoring/pkg/response"

var (
	ErrInvalidCredentials    = response.NewError(401, "invalid username or password")
	ErrOperatorNotConfigured = response.NewError(500, "operator account not configured")
)
