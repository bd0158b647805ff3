// Package captcha verifies client CAPTCHA tokens against reCAPTCHA siteverify.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Config holds the siteverify endpoint settings.
type Config struct {
	SecretKey string
	VerifyURL string
	Timeout   time.Duration
}

// Recaptcha implements ports.CaptchaVerifier over the siteverify API.
type Recaptcha struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

func NewRecaptcha(cfg Config, logger zerolog.Logger) *Recaptcha {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Recaptcha{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify rejects empty tokens without a network call. Tokens refused by the
// provider yield domain.ErrCaptchaFailed; transport failures are returned as is.
func (r *Recaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	if strings.TrimSpace(token) == "" {
		return domain.ErrCaptchaFailed
	}

	form := url.Values{
		"secret":   {r.cfg.SecretKey},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("captcha verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("captcha verify: unexpected status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("captcha decode: %w", err)
	}
	if !body.Success {
		r.logger.Debug().Strs("error_codes", body.ErrorCodes).Msg("captcha rejected")
		return domain.ErrCaptchaFailed
	}
	return nil
}

// Disabled accepts every token. Used when CAPTCHA checks are switched off.
type Disabled struct{}

func (Disabled) Verify(context.Context, string, string) error { return nil }
