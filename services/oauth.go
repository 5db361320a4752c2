package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"google.golang.org/api/idtoken"
)

// OAuthIdentity is the verified profile returned by an identity provider
type OAuthIdentity struct {
	Provider  string
	Email     string
	Name      string
	AvatarURL string
}

// IdentityProvider turns a provider credential (id token, authorization code) into an identity
type IdentityProvider interface {
	Identify(ctx context.Context, credential string) (*OAuthIdentity, error)
}

// GoogleVerifier validates Google id tokens issued for clientID
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

func (g *GoogleVerifier) Identify(ctx context.Context, token string) (*OAuthIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, g.clientID)
	if err != nil {
		return nil, err
	}
	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, fmt.Errorf("google email missing or not verified")
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	return &OAuthIdentity{Provider: "google", Email: email, Name: name, AvatarURL: picture}, nil
}

// GithubOAuth runs the authorization code flow against GitHub
type GithubOAuth struct {
	cfg     *oauth2.Config
	apiBase string
}

func NewGithubOAuth(clientID, clientSecret, redirectURL string) *GithubOAuth {
	return &GithubOAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		apiBase: "https://api.github.com",
	}
}

// AuthCodeURL is where the browser is sent to start the flow
func (g *GithubOAuth) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

type githubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GithubOAuth) Identify(ctx context.Context, code string) (*OAuthIdentity, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github exchange: %w", err)
	}
	client := g.cfg.Client(ctx, tok)

	var u githubUser
	if err := getJSON(ctx, client, g.apiBase+"/user", &u); err != nil {
		return nil, err
	}
	var emails []githubEmail
	if err := getJSON(ctx, client, g.apiBase+"/user/emails", &emails); err != nil {
		return nil, err
	}

	var email string
	for _, e := range emails {
		if e.Primary && e.Verified {
			email = e.Email
			break
		}
	}
	if email == "" {
		return nil, fmt.Errorf("github account has no verified primary email")
	}
	name := u.Name
	if name == "" {
		name = u.Login
	}
	return &OAuthIdentity{Provider: "github", Email: email, Name: name, AvatarURL: u.AvatarURL}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.Unmarshal(body, out)
}
