package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/bft-labs/docship/pkg/secret"
)

// Settings holds the connection details for a remote API.
type Settings struct {
	// URL is the base URL of the site, e.g. https://erp.example.com.
	URL string `json:"url"`

	// Key is the API key sent as the basic-auth user.
	Key string `json:"key"`

	// Secret is the API secret sent as the basic-auth password.
	Secret secret.String `json:"secret"`
}

// Validate reports every problem with the settings at once.
func (s Settings) Validate() error {
	var result *multierror.Error

	if s.URL == "" {
		result = multierror.Append(result, errors.New("url is required"))
	} else if u, err := url.Parse(s.URL); err != nil {
		result = multierror.Append(result, fmt.Errorf("parse url: %w", err))
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("url %q must be an absolute http(s) URL", s.URL))
	} else if u.User != nil {
		result = multierror.Append(result, errors.New("url must not embed credentials"))
	}
	if s.Key == "" {
		result = multierror.Append(result, errors.New("key is required"))
	}
	if s.Secret.IsEmpty() {
		result = multierror.Append(result, errors.New("secret is required"))
	}

	return result.ErrorOrNil()
}

func (s Settings) baseURL() string {
	return strings.TrimRight(s.URL, "/")
}
