package services

// Notifier delivers outbound email. Sends are best effort: a delivery
// failure never rolls back the state change that triggered it.
type Notifier interface {
	SendInvite(email, token string) bool
	SendVerification(email, otp string) bool
	SendPasswordReset(email, otp string) bool
}
