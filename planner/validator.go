// Package planner validates kitchen-planner links and extracts the planner ID.
package planner

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/use-agent/kitchenscan/models"
)

// uuidPattern matches an 8-4-4-4-12 hex identifier anywhere in a string.
var uuidPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// Reference is a validated planner link.
type Reference struct {
	URL string
	// ID is the planner UUID, uppercased.
	ID string
}

// Validator checks planner URLs against a fixed host.
type Validator struct {
	host string
}

// NewValidator returns a Validator accepting host and its subdomains.
func NewValidator(host string) *Validator {
	return &Validator{host: normalizeHost(host)}
}

// Validate checks rawURL and returns its planner reference.
//
// The host check runs first so a foreign link is reported as
// INVALID_DOMAIN even when it happens to carry a UUID.
func (v *Validator) Validate(rawURL string) (Reference, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return Reference{}, models.NewExtractError(
			models.ErrCodeInvalidDomain,
			fmt.Sprintf("not a valid planner link: %q", rawURL),
			err,
		)
	}

	if !v.matchHost(u.Hostname()) {
		return Reference{}, models.NewExtractError(
			models.ErrCodeInvalidDomain,
			fmt.Sprintf("host %q is not %s", u.Hostname(), v.host),
			nil,
		)
	}

	id := uuidPattern.FindString(rawURL)
	if id == "" {
		return Reference{}, models.NewExtractError(
			models.ErrCodeMissingPlannerID,
			"no planner ID found in URL",
			nil,
		)
	}

	return Reference{URL: rawURL, ID: strings.ToUpper(id)}, nil
}

func (v *Validator) matchHost(host string) bool {
	host = normalizeHost(host)
	return host == v.host || strings.HasSuffix(host, "."+v.host)
}

func normalizeHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
}
