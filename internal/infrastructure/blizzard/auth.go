package blizzard

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/nefeygt/wowscraper/internal/domain"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// tokenExpirySkew is subtracted from the reported token lifetime so a token
// is never presented within a minute of its upstream expiry.
const tokenExpirySkew = time.Minute

// Authenticator exchanges battle.net client credentials for a bearer token.
// It satisfies the auth round tripper contract: BearerToken returns the
// cached token or empty when a refresh is due, Authenticate performs one.
type Authenticator struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func NewAuthenticator(tokenURL, clientID, clientSecret string, httpClient *http.Client) *Authenticator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Authenticator{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Authenticate runs the client-credentials grant and stores the token.
func (a *Authenticator) Authenticate(ctx context.Context) error {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.WrapError(err, errcodes.AuthFailed, "failed to build token request")
	}

	req.SetBasicAuth(a.clientID, a.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(err, errcodes.AuthFailed, "token request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.NewError(errcodes.AuthFailed,
			fmt.Sprintf("token endpoint answered %d", resp.StatusCode))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return domain.WrapError(err, errcodes.AuthFailed, "failed to decode token response")
	}

	if token.AccessToken == "" {
		return domain.NewError(errcodes.AuthFailed, "token endpoint returned no access token")
	}

	a.mu.Lock()
	a.token = token.AccessToken
	a.expiresAt = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpirySkew)
	a.mu.Unlock()

	return nil
}

func (a *Authenticator) BearerToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.token == "" || time.Now().After(a.expiresAt) {
		return ""
	}

	return a.token
}
