package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/artfit-app/backend/internal/apperr"
)

// Service verifies Google ID tokens against the tokeninfo endpoint.
type Service struct {
	Client   *http.Client
	ClientID string
	BaseURL  string
}

func New(clientID string) *Service {
	return &Service{
		Client:   &http.Client{Timeout: 10 * time.Second},
		ClientID: clientID,
		BaseURL:  "https://oauth2.googleapis.com",
	}
}

// IDTokenClaims is the subset of tokeninfo fields the account flow needs.
type IDTokenClaims struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// VerifyIDToken checks the token signature via Google and validates the
// audience and email claims. Missing configuration or an unreachable
// provider surfaces as ErrIntegration; a bad token as ErrAuth.
func (s *Service) VerifyIDToken(ctx context.Context, idToken string) (*IDTokenClaims, error) {
	if s.ClientID == "" {
		return nil, fmt.Errorf("%w: google client id not configured", apperr.ErrIntegration)
	}

	endpoint := strings.TrimRight(s.BaseURL, "/") + "/tokeninfo?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrIntegration, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: tokeninfo request failed: %v", apperr.ErrIntegration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: token rejected by provider", apperr.ErrAuth)
	}

	var claims IDTokenClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: decoding tokeninfo response: %v", apperr.ErrIntegration, err)
	}

	if claims.Aud != s.ClientID {
		return nil, fmt.Errorf("%w: token audience mismatch", apperr.ErrAuth)
	}
	if strings.TrimSpace(claims.Email) == "" {
		return nil, fmt.Errorf("%w: email claim missing", apperr.ErrValidation)
	}

	return &claims, nil
}
