package tablesnap

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateURL returns the parsed URL if raw passes the validator "url"
// rule and is an absolute http or https URL with a host. Returns EINVALID
// otherwise. Every path that may issue a request validates through here.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, Errorf(EINVALID, "URL required")
	}
	if err := validate.Var(raw, "url"); err != nil {
		return nil, Errorf(EINVALID, "invalid URL %q", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, Errorf(EINVALID, "URL %q has no host", raw)
	}
	return u, nil
}
