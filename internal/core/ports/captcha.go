package ports

import "context"

// CaptchaVerifier checks a client-supplied CAPTCHA token. A rejected token
// yields domain.ErrCaptchaFailed.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}
