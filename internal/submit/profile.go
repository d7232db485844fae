package submit

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

var ErrProfileNotFound = errors.New("submit profile not found")
var ErrProfileInvalid = errors.New("submit profile is invalid")

// Profile configures access to the pipeline execution service.
type Profile struct {
	// APIRoot is the base URL of the execution service.
	APIRoot string `yaml:"apiRoot"`
	Auth    Auth   `yaml:"auth,omitempty"`
}

// Auth holds either a static bearer token or OAuth2 client credentials.
type Auth struct {
	Token        string `yaml:"token,omitempty"`
	TokenURL     string `yaml:"tokenUrl,omitempty"`
	ClientID     string `yaml:"clientId,omitempty"`
	ClientSecret string `yaml:"clientSecret,omitempty"`
}

func (a Auth) hasStaticToken() bool {
	return strings.TrimSpace(a.Token) != ""
}

func (a Auth) hasClientCredentials() bool {
	return strings.TrimSpace(a.TokenURL) != "" ||
		strings.TrimSpace(a.ClientID) != "" ||
		strings.TrimSpace(a.ClientSecret) != ""
}

func (p Profile) Verify() error {
	u, err := url.Parse(strings.TrimSpace(p.APIRoot))
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: apiRoot is not an absolute URL: %q", ErrProfileInvalid, p.APIRoot)
	}
	if p.Auth.hasStaticToken() && p.Auth.hasClientCredentials() {
		return fmt.Errorf("%w: auth must set token or client credentials, not both", ErrProfileInvalid)
	}
	if p.Auth.hasClientCredentials() {
		if strings.TrimSpace(p.Auth.TokenURL) == "" {
			return fmt.Errorf("%w: auth.tokenUrl is required for client credentials", ErrProfileInvalid)
		}
		if strings.TrimSpace(p.Auth.ClientID) == "" {
			return fmt.Errorf("%w: auth.clientId is required for client credentials", ErrProfileInvalid)
		}
		if strings.TrimSpace(p.Auth.ClientSecret) == "" {
			return fmt.Errorf("%w: auth.clientSecret is required for client credentials", ErrProfileInvalid)
		}
	}
	return nil
}

// ProfilePath resolves the profile location: $QUARRY_PROFILE when set,
// otherwise ~/.config/quarry/profile.yaml.
func ProfilePath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("QUARRY_PROFILE")); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "quarry", "profile.yaml"), nil
}

// LoadProfile reads and verifies the profile at path.
func LoadProfile(path string) (Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, fmt.Errorf("%w at %s", ErrProfileNotFound, path)
		}
		return Profile{}, err
	}
	return ParseProfile(raw)
}

// ParseProfile decodes a YAML profile document.
func ParseProfile(raw []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if err := p.Verify(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
