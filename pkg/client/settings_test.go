package client

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/docship/pkg/secret"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErrs int
		contains string
	}{
		{
			name:     "valid",
			settings: Settings{URL: "https://erp.example.com", Key: "k", Secret: secret.New("s")},
		},
		{
			name:     "everything missing",
			settings: Settings{},
			wantErrs: 3,
			contains: "url is required",
		},
		{
			name:     "relative url",
			settings: Settings{URL: "erp.example.com", Key: "k", Secret: secret.New("s")},
			wantErrs: 1,
			contains: "absolute http(s) URL",
		},
		{
			name:     "credentials in url",
			settings: Settings{URL: "https://user:pw@erp.example.com", Key: "k", Secret: secret.New("s")},
			wantErrs: 1,
			contains: "must not embed credentials",
		},
		{
			name:     "missing secret",
			settings: Settings{URL: "http://localhost:8000", Key: "k"},
			wantErrs: 1,
			contains: "secret is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErrs == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var merr *multierror.Error
			require.ErrorAs(t, err, &merr)
			assert.Len(t, merr.Errors, tt.wantErrs)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestSettingsValidateNeverLeaksSecret(t *testing.T) {
	err := Settings{URL: "::bad", Secret: secret.New("hunter2")}.Validate()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "hunter2")
}

func TestSettingsBaseURL(t *testing.T) {
	assert.Equal(t, "https://erp.example.com", Settings{URL: "https://erp.example.com//"}.baseURL())
	assert.Equal(t, "https://erp.example.com/sub", Settings{URL: "https://erp.example.com/sub"}.baseURL())
}
