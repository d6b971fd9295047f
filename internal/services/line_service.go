package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// LINE OAuth endpoints.
const (
	lineAuthURL    = "https://access.line.me/oauth2/v2.1/authorize"
	lineTokenURL   = "https://api.line.me/oauth2/v2.1/token"
	lineProfileURL = "https://api.line.me/v2/profile"
)

const virtualEmailDomain = "@jojo-pasta.virtual"

// LineService drives the LINE login flow: authorize URL generation, code
// exchange and profile lookup.
type LineService struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

// NewLineService creates a new LineService.
func NewLineService(clientID, clientSecret, redirectURI string) *LineService {
	return &LineService{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   http.DefaultClient,
	}
}

// LineTokenResponse is the token endpoint payload.
type LineTokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

// LineProfile is the subset of the profile endpoint payload we use.
type LineProfile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
	Email         string `json:"email,omitempty"`
}

// AuthorizeURL builds the LINE authorization redirect for the given state
// nonce.
func (s *LineService) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", s.clientID)
	params.Set("redirect_uri", s.redirectURI)
	params.Set("state", state)
	params.Set("scope", "profile openid")

	return lineAuthURL + "?" + params.Encode()
}

// ExchangeCode trades an authorization code for tokens.
func (s *LineService) ExchangeCode(code string) (*LineTokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.redirectURI)
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)

	resp, err := s.httpClient.Post(lineTokenURL, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logrus.WithField("status", resp.StatusCode).
			WithField("body", string(body)).
			Error("LINE token exchange failed")
		return nil, fmt.Errorf("line token endpoint returned status %d", resp.StatusCode)
	}

	var token LineTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

// FetchProfile loads the LINE profile for an access token.
func (s *LineService) FetchProfile(accessToken string) (*LineProfile, error) {
	req, err := http.NewRequest(http.MethodGet, lineProfileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Error("LINE profile fetch failed")
		return nil, fmt.Errorf("line profile endpoint returned status %d", resp.StatusCode)
	}

	var profile LineProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// VirtualEmail derives the placeholder address for LINE users who did not
// share an email.
func VirtualEmail(lineUserID string) string {
	return "line_" + lineUserID + virtualEmailDomain
}

// IsVirtualEmail reports whether the address was generated by VirtualEmail.
func IsVirtualEmail(email string) bool {
	return strings.HasSuffix(email, virtualEmailDomain)
}
