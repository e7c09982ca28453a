package email

import (
	"context"
	"fmt"
	"time"
)

// OTPPurpose определяет, какое письмо с кодом отправить.
type OTPPurpose string

const (
	PurposeVerification  OTPPurpose = "verification"
	PurposePasswordReset OTPPurpose = "password_reset"
)

// Notifier доставляет одноразовые коды пользователю.
type Notifier interface {
	SendOTP(ctx context.Context, to, code string, purpose OTPPurpose, ttl time.Duration) error
}

type otpLetter struct {
	subject  string
	template string
	text     string
}

var otpLetters = map[OTPPurpose]otpLetter{
	PurposeVerification: {
		subject:  "Verify Your Email",
		template: "otp_verification",
		text:     "Your verification code is %s. It expires in %d minutes.",
	},
	PurposePasswordReset: {
		subject:  "Reset Your Password",
		template: "password_reset",
		text:     "Your password reset code is %s. It expires in %d minutes.",
	},
}

// OTPNotifier отправляет коды по email через Provider.
type OTPNotifier struct {
	provider Provider
	renderer TemplateRenderer
}

func NewOTPNotifier(provider Provider, renderer TemplateRenderer) *OTPNotifier {
	return &OTPNotifier{provider: provider, renderer: renderer}
}

func (n *OTPNotifier) SendOTP(ctx context.Context, to, code string, purpose OTPPurpose, ttl time.Duration) error {
	letter, ok := otpLetters[purpose]
	if !ok {
		return fmt.Errorf("unknown otp purpose: %s", purpose)
	}
	minutes := int(ttl / time.Minute)

	msg := &Email{
		To:      []string{to},
		Subject: letter.subject,
		Body:    fmt.Sprintf(letter.text, code, minutes),
	}
	if n.renderer != nil {
		html, err := n.renderer.Render(letter.template, TemplateData{"Code": code, "Minutes": minutes})
		if err != nil {
			return err
		}
		msg.HTMLBody = html
	}

	return n.provider.Send(ctx, msg)
}
