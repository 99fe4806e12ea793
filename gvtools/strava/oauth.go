package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"

	"github.com/go-msvc/errors"
	"golang.org/x/oauth2"
)

const callbackPath = "/exchange_token"

var endpoint = oauth2.Endpoint{
	AuthURL:   "https://www.strava.com/oauth/authorize",
	TokenURL:  "https://www.strava.com/oauth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

func oauthConfig(httpPort, clientID int, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     fmt.Sprintf("%d", clientID),
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
		RedirectURL:  fmt.Sprintf("http://localhost:%d%s", httpPort, callbackPath),
		Scopes:       []string{"activity:read"},
	}
}

type callbackResult struct {
	code string
	err  error
}

// callbackHandler completes the authorization once the user granted access
// on strava.com and got redirected back to us with a code.
func callbackHandler(results chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var res callbackResult
		switch {
		case r.FormValue("error") == "access_denied":
			res.err = errors.Errorf("authorization denied on strava.com")
		case r.FormValue("code") == "":
			res.err = errors.Errorf("authorization callback without code")
		default:
			res.code = r.FormValue("code")
		}

		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Authorization Failure: %s\n", res.err)
		} else {
			fmt.Fprint(w, "Authorization granted, you can close this window.\n")
		}

		select {
		case results <- res:
		default:
		}
	}
}

// tokenFromWeb runs the authorization code flow, listening for the redirect on the callback port
func (c *Client) tokenFromWeb(ctx context.Context) (*oauth2.Token, error) {
	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, callbackHandler(results))

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", c.HTTPPort))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot listen for the authorization callback")
	}
	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	defer srv.Close()

	url := c.oauth.AuthCodeURL("geoview-tools", oauth2.SetAuthURLParam("approval_prompt", "force"))
	if err := c.OpenBrowser(url); err != nil {
		log.Errorf("cannot open browser, please visit %s", url)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := c.oauth.Exchange(ctx, res.code)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot exchange authorization code")
		}
		return tok, nil
	}
}

// tokenFromFile retrieves a token from a local file
func tokenFromFile(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, errors.Wrapf(err, "invalid token file %s", path)
	}
	return &tok, nil
}

// saveToken saves a token to a local file, readable only by the user
func saveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", " ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrapf(err, "unable to cache oauth token")
	}
	return nil
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return errors.Errorf("unsupported platform")
	}
}
