package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
)

const (
	facebookMeURL     = "https://graph.facebook.com/me"
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// HTTPVerifier resolves social access tokens against the provider's own
// identity endpoint. A token the provider does not recognize is an
// authentication failure, not a transport error.
type HTTPVerifier struct {
	http *http.Client
	log  *zap.Logger
}

func NewHTTPVerifier(log *zap.Logger) ports.SocialVerifier {
	return &HTTPVerifier{
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, provider, accessToken string) (*ports.SocialUser, error) {
	if accessToken == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	switch provider {
	case "facebook":
		return v.verifyFacebook(ctx, accessToken)
	case "google":
		return v.verifyGoogle(ctx, accessToken)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", domain.ErrInvalidInput, provider)
	}
}

func (v *HTTPVerifier) verifyFacebook(ctx context.Context, accessToken string) (*ports.SocialUser, error) {
	q := url.Values{}
	q.Set("fields", "id,name,email")
	q.Set("access_token", accessToken)

	var user struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := v.fetch(ctx, facebookMeURL+"?"+q.Encode(), "", &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	return &ports.SocialUser{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (v *HTTPVerifier) verifyGoogle(ctx context.Context, accessToken string) (*ports.SocialUser, error) {
	var user struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := v.fetch(ctx, googleUserinfoURL, accessToken, &user); err != nil {
		return nil, err
	}
	if user.Sub == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	return &ports.SocialUser{ID: user.Sub, Name: user.Name, Email: user.Email}, nil
}

func (v *HTTPVerifier) fetch(ctx context.Context, rawURL, bearer string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("social: build request: %w", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := v.http.Do(req)
	if err != nil {
		v.log.Warn("Social provider unreachable", zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return domain.ErrAuthenticationFailed
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: provider returned status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("social: decode response: %w", err)
	}
	return nil
}
