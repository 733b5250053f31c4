package config

import "fmt"

type Blizzard struct {
	ClientID     string `env:"BLIZZARD_CLIENT_ID,notEmpty" json:"-"`
	ClientSecret string `env:"BLIZZARD_CLIENT_SECRET,notEmpty" json:"-"`
	Region       string `env:"BLIZZARD_REGION" envDefault:"eu"`
	Locale       string `env:"BLIZZARD_LOCALE" envDefault:"en_GB"`

	// Overrides for tests and proxies; empty means the regional defaults.
	APIBaseURL string `env:"BLIZZARD_API_BASE_URL"`
	TokenURL   string `env:"BLIZZARD_TOKEN_URL"`

	LogBodyMaxLen int `env:"BLIZZARD_LOG_BODY_MAX_LEN" envDefault:"2048"`
}

func (b Blizzard) BaseURL() string {
	if b.APIBaseURL != "" {
		return b.APIBaseURL
	}
	return fmt.Sprintf("https://%s.api.blizzard.com", b.Region)
}

func (b Blizzard) OAuthTokenURL() string {
	if b.TokenURL != "" {
		return b.TokenURL
	}
	return "https://oauth.battle.net/token"
}
