package vote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/gaurv/sitegen/pkg/config"
)

// Verifier checks CAPTCHA tokens against the external verification service.
// The service contract is Turnstile-shaped: a form POST returning a JSON
// body with a boolean success field.
type Verifier struct {
	client    *http.Client
	secret    string
	verifyURL string
}

// NewVerifier creates a verifier from configuration
func NewVerifier(cfg config.CaptchaConfig) *Verifier {
	return &Verifier{
		client:    &http.Client{Timeout: cfg.Timeout},
		secret:    cfg.Secret,
		verifyURL: cfg.VerifyURL,
	}
}

// Verify checks the token for the given client address. Transport failures
// are retried with backoff, a definite rejection is not an error.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
		"remoteip": {remoteIP},
	}

	var result struct {
		Success bool `json:"success"`
	}

	retrier := repeater.NewBackoff(3, 100*time.Millisecond, repeater.WithMaxDelay(time.Second))
	err := retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := v.client.Do(req)
		if err != nil {
			return fmt.Errorf("verify request: %w", err)
		}
		defer resp.Body.Close() //nolint:errcheck // nothing to do with close error

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("captcha verification: %w", err)
	}

	return result.Success, nil
}
