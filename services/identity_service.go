package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// IdentityService lists users from the external identity provider and
// normalizes them into guest-shaped records. The provider exposes a
// server-side user listing endpoint guarded by a service key; both are
// configured through the environment.
type IdentityService struct {
	BaseURL    string
	ServiceKey string
	Client     *http.Client
}

func NewIdentityServiceFromEnv() *IdentityService {
	return &IdentityService{
		BaseURL:    strings.TrimRight(strings.TrimSpace(os.Getenv("IDENTITY_URL")), "/"),
		ServiceKey: strings.TrimSpace(os.Getenv("IDENTITY_SERVICE_KEY")),
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type identityUserRecord struct {
	ID       uint              `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"user_metadata"`
}

// LoadIdentityUsers fetches the provider's user list. An unconfigured
// provider is not an error: the form can run on the guest directory alone,
// so an empty list comes back. Transport and decode failures are LoadErrors;
// the caller degrades those to an empty list as well.
func (s *IdentityService) LoadIdentityUsers(ctx context.Context) ([]IdentityUser, error) {
	if s.BaseURL == "" {
		return []IdentityUser{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/users", nil)
	if err != nil {
		return nil, &LoadError{Source: "identity users", Err: err}
	}
	if s.ServiceKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.ServiceKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: "identity users", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Source: "identity users", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body struct {
		Users []identityUserRecord `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &LoadError{Source: "identity users", Err: err}
	}

	users := make([]IdentityUser, 0, len(body.Users))
	for _, u := range body.Users {
		if strings.TrimSpace(u.Email) == "" {
			continue
		}
		name := u.Metadata["full_name"]
		if name == "" {
			name = u.Metadata["fullName"]
		}
		if name == "" {
			name = u.Email
		}
		users = append(users, IdentityUser{ID: u.ID, Email: u.Email, FullName: name})
	}
	return users, nil
}
