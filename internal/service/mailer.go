package service

import "megamind_api/internal/logger"

// Mailer delivers verification codes. Real delivery is an external concern;
// the default implementation just logs the code.
type Mailer interface {
	SendVerificationCode(email, code string) error
}

type LogMailer struct{}

func (LogMailer) SendVerificationCode(email, code string) error {
	logger.Info("verification code issued", "email", email, "code", code)
	return nil
}
