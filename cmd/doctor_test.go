package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/portfolio-api/internal/config"
	"github.com/naka-gawa/portfolio-api/internal/domain"
	"github.com/naka-gawa/portfolio-api/internal/gateway"
	"github.com/naka-gawa/portfolio-api/internal/testutil"
	"github.com/naka-gawa/portfolio-api/internal/usecase"
)

type fakeSheets map[string]string

func (f fakeSheets) FetchTab(_ context.Context, _, tabID string) (string, error) {
	text, ok := f[tabID]
	if !ok {
		return "", &domain.UpstreamError{Source: "sheet", ID: tabID, Err: errors.New("unexpected status 404")}
	}
	return text, nil
}

type fakeProfiles struct {
	profile *gateway.Profile
	err     error
}

func (f fakeProfiles) FetchProfile(context.Context, string) (*gateway.Profile, error) {
	return f.profile, f.err
}

const doctorMeta = "key,value\nsupported_langs,\"en,id\"\ndefault_lang,en\nHome_gid,1\nAbout_gid,2\nProjects_gid,3\nContact_gid,4\n"

func TestRunDoctorChecks(t *testing.T) {
	testCases := []struct {
		name           string
		cfg            *config.Config
		sheets         fakeSheets
		profiles       gateway.ProfileFetcher
		expectedStatus []string
		expectedFailed int
	}{
		{
			name:     "everything healthy",
			cfg:      &config.Config{SpreadsheetID: "sheet-1", MetaTab: "0", GitHubUser: "octo", GitHubToken: "t"},
			sheets:   fakeSheets{"0": doctorMeta},
			profiles: fakeProfiles{profile: &gateway.Profile{HTMLURL: "https://github.com/octo", Followers: 1, PublicRepos: 2}},
			expectedStatus: []string{
				statusPass, statusPass, statusPass, statusPass,
			},
		},
		{
			name:           "missing config skips upstream checks",
			cfg:            &config.Config{},
			expectedStatus: []string{statusFail, statusFail, statusSkip, statusSkip},
			expectedFailed: 2,
		},
		{
			name:           "meta tab without section ids and unknown account",
			cfg:            &config.Config{SpreadsheetID: "sheet-1", MetaTab: "0", GitHubUser: "ghost", GitHubToken: "t"},
			sheets:         fakeSheets{"0": "key,value\nsupported_langs,en\ndefault_lang,en\n"},
			profiles:       fakeProfiles{err: &domain.UpstreamError{Source: "github", ID: "ghost", Err: errors.New("404")}},
			expectedStatus: []string{statusPass, statusPass, statusFail, statusFail},
			expectedFailed: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var content *usecase.ContentService
			if tc.sheets != nil {
				content = usecase.NewContentService(tc.sheets, tc.cfg.SpreadsheetID, tc.cfg.MetaTab, testutil.NewTestLogger(t))
			}

			checks := runDoctorChecks(context.Background(), tc.cfg, content, tc.profiles)

			require.Len(t, checks, len(tc.expectedStatus))
			for i, status := range tc.expectedStatus {
				assert.Equal(t, status, checks[i].Status, checks[i].Name)
			}
			var out bytes.Buffer
			assert.Equal(t, tc.expectedFailed, printChecks(&out, checks))
			assert.Contains(t, out.String(), "meta tab")
		})
	}
}
