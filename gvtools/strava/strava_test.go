package strava

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestParseActivityID(t *testing.T) {
	require := require.New(t)

	tests := map[string]struct {
		input   string
		want    int64
		wantErr bool
	}{
		"full_link":      {input: "https://www.strava.com/activities/3581046137", want: 3581046137},
		"trailing_slash": {input: "https://www.strava.com/activities/3581046137/", want: 3581046137},
		"bare_id":        {input: "42", want: 42},
		"not_a_number":   {input: "https://www.strava.com/activities/abc", wantErr: true},
		"empty":          {input: "", wantErr: true},
		"negative":       {input: "-5", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			id, err := ParseActivityID(tc.input)
			if tc.wantErr {
				require.Error(err)
				return
			}
			require.NoError(err)
			require.Equal(tc.want, id)
		})
	}
}

func TestSamplesFromStreams(t *testing.T) {
	require := require.New(t)
	start := time.Date(2020, time.June, 2, 7, 30, 0, 0, time.UTC)

	samples := samplesFromStreams(start,
		[][2]float64{{47.5835, -121.9506}, {47.5887, -121.9444}, {47.5862, -121.9381}},
		[]int{0, 12, 30, 45},
	)

	require.Len(samples, 3)
	require.Equal(47.5887, samples[1].Latitude)
	require.Equal(-121.9444, samples[1].Longitude)
	require.Equal(0.0, samples[1].Accuracy)
	require.Equal(start.Add(30*time.Second), samples[2].Timestamp)
}

func TestActivityLink(t *testing.T) {
	c := NewClient(8089, 1234, "secret", filepath.Join(t.TempDir(), "token.json"))
	require.Equal(t, "https://strava.com/activities/42", c.ActivityLink(42))
}

func TestTokenFile(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "token.json")

	_, err := tokenFromFile(path)
	require.Error(err)

	tok := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(saveToken(path, tok))

	loaded, err := tokenFromFile(path)
	require.NoError(err)
	require.Equal(tok.AccessToken, loaded.AccessToken)
	require.Equal(tok.RefreshToken, loaded.RefreshToken)
	require.True(tok.Expiry.Equal(loaded.Expiry))
}

func TestRetrieveCachedToken(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "token.json")

	require.NoError(saveToken(path, &oauth2.Token{
		AccessToken: "cached",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	c := NewClient(8089, 1234, "secret", path)
	c.OpenBrowser = func(string) error {
		t.Fatal("browser must not be opened when a token is cached")
		return nil
	}

	require.NoError(c.RetrieveAuthToken(context.Background()))
	token, err := c.accessToken(context.Background())
	require.NoError(err)
	require.Equal("cached", token)
}

func TestAccessTokenWithoutToken(t *testing.T) {
	c := NewClient(8089, 1234, "secret", filepath.Join(t.TempDir(), "token.json"))
	_, err := c.accessToken(context.Background())
	require.Error(t, err)
}

func TestCallbackHandler(t *testing.T) {
	require := require.New(t)

	tests := map[string]struct {
		query      string
		wantStatus int
		wantCode   string
		wantErr    bool
	}{
		"granted": {query: "?code=abc&scope=read,activity:read", wantStatus: http.StatusOK, wantCode: "abc"},
		"denied":  {query: "?error=access_denied", wantStatus: http.StatusBadRequest, wantErr: true},
		"no_code": {query: "", wantStatus: http.StatusBadRequest, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			results := make(chan callbackResult, 1)
			rec := httptest.NewRecorder()
			callbackHandler(results)(rec, httptest.NewRequest(http.MethodGet, callbackPath+tc.query, nil))

			require.Equal(tc.wantStatus, rec.Code)
			res := <-results
			if tc.wantErr {
				require.Error(res.err)
				return
			}
			require.NoError(res.err)
			require.Equal(tc.wantCode, res.code)
		})
	}
}

func TestOAuthConfig(t *testing.T) {
	require := require.New(t)
	conf := oauthConfig(8089, 1234, "secret")

	require.Equal("1234", conf.ClientID)
	require.Equal("http://localhost:8089/exchange_token", conf.RedirectURL)
	require.Equal(oauth2.AuthStyleInParams, conf.Endpoint.AuthStyle)
	require.Contains(conf.AuthCodeURL("state"), "client_id=1234")
}
