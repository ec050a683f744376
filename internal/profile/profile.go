package profile

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// DSN points to where steamates stores its own data
	DSN string
	// Secret signs session tokens
	Secret string
	// Version is the current version of server
	Version string

	// PublicURL is the externally reachable URL of this server, used as the
	// OpenID return target.
	PublicURL string
	// ClientURL is the frontend origin users are redirected back to after
	// login. Also added to the CORS allowlist.
	ClientURL string

	// SteamAPIKey authorizes Steam Web API calls. Empty means Steam features
	// are disabled, not misconfigured.
	SteamAPIKey string // STEAMATES_STEAM_API_KEY

	// GroqAPIKey authorizes chat completions. Empty means chat is disabled.
	GroqAPIKey  string // STEAMATES_GROQ_API_KEY
	GroqBaseURL string // STEAMATES_GROQ_BASE_URL (default: https://api.groq.com/openai/v1)
	GroqModel   string // STEAMATES_GROQ_MODEL (default: llama-3.3-70b-versatile)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsSteamEnabled returns true if a Steam Web API key is configured.
func (p *Profile) IsSteamEnabled() bool {
	return p.SteamAPIKey != ""
}

// IsChatEnabled returns true if a completion credential is configured.
func (p *Profile) IsChatEnabled() bool {
	return p.GroqAPIKey != ""
}

func (p *Profile) Validate() error {
	if !filepath.IsAbs(p.Data) {
		absDir, err := filepath.Abs(p.Data)
		if err != nil {
			return errors.Wrapf(err, "unable to resolve data directory %q", p.Data)
		}
		p.Data = absDir
	}
	if err := os.MkdirAll(p.Data, 0o770); err != nil {
		return errors.Wrapf(err, "unable to create data directory %q", p.Data)
	}

	switch p.Driver {
	case "sqlite":
		if p.DSN == "" {
			dbFile := fmt.Sprintf("steamates_%s.db", p.Mode)
			p.DSN = filepath.Join(p.Data, dbFile)
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("dsn is required for postgres driver")
		}
	default:
		return errors.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}

	if p.PublicURL == "" {
		p.PublicURL = fmt.Sprintf("http://localhost:%d", p.Port)
	}
	if _, err := url.Parse(p.PublicURL); err != nil {
		return errors.Wrapf(err, "invalid public url %q", p.PublicURL)
	}
	p.PublicURL = strings.TrimSuffix(p.PublicURL, "/")
	p.ClientURL = strings.TrimSuffix(p.ClientURL, "/")

	if p.GroqBaseURL == "" {
		p.GroqBaseURL = "https://api.groq.com/openai/v1"
	}
	if p.GroqModel == "" {
		p.GroqModel = "llama-3.3-70b-versatile"
	}
	return nil
}

// GetFromViper builds a profile from viper-bound flags and STEAMATES_*
// environment variables.
func GetFromViper(v *viper.Viper) (*Profile, error) {
	profile := &Profile{
		Mode:        v.GetString("mode"),
		Addr:        v.GetString("addr"),
		Port:        v.GetInt("port"),
		Data:        v.GetString("data"),
		Driver:      v.GetString("driver"),
		DSN:         v.GetString("dsn"),
		Secret:      v.GetString("secret"),
		PublicURL:   v.GetString("public-url"),
		ClientURL:   v.GetString("client-url"),
		SteamAPIKey: v.GetString("steam-api-key"),
		GroqAPIKey:  v.GetString("groq-api-key"),
		GroqBaseURL: v.GetString("groq-base-url"),
		GroqModel:   v.GetString("groq-model"),
	}

	if profile.Mode != "prod" {
		profile.Mode = "dev"
	}
	if profile.Secret == "" {
		profile.Secret = "steamates-secret-key"
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}
