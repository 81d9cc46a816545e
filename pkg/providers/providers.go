package providers

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// ProviderConfig describes one upstream movie provider.
type ProviderConfig struct {
	Name    string `mapstructure:"name" json:"name" yaml:"name"`
	BaseURL string `mapstructure:"baseurl" json:"baseUrl" yaml:"baseurl"`
	// Host is the registrable domain of BaseURL, filled in by NewRegistry.
	Host string `mapstructure:"-" json:"host" yaml:"host"`
}

// Registry is the read-only, ordered list of configured providers.
// Iteration order decides tie-breaks when two providers share the lowest price.
type Registry struct {
	ordered []ProviderConfig
	byName  map[string]int
}

// NewRegistry validates and normalizes the given provider configs.
// An empty registry is valid; callers report it per request.
func NewRegistry(configs ...ProviderConfig) (*Registry, error) {
	r := &Registry{
		ordered: make([]ProviderConfig, 0, len(configs)),
		byName:  make(map[string]int, len(configs)),
	}
	for i, c := range configs {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("provider #%d: name is required", i+1)
		}
		key := strings.ToLower(name)
		if _, ok := r.byName[key]; ok {
			return nil, fmt.Errorf("duplicate provider %q", name)
		}

		baseURL, err := normalizeBaseURL(c.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", name, err)
		}

		r.byName[key] = len(r.ordered)
		r.ordered = append(r.ordered, ProviderConfig{
			Name:    name,
			BaseURL: baseURL,
			Host:    RegistrableHost(baseURL),
		})
	}
	return r, nil
}

// All returns a copy of the providers in configuration order.
func (r *Registry) All() []ProviderConfig {
	if r == nil {
		return nil
	}
	out := make([]ProviderConfig, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ordered)
}

// Get looks a provider up by name, case-insensitively.
func (r *Registry) Get(name string) (ProviderConfig, bool) {
	if r == nil {
		return ProviderConfig{}, false
	}
	i, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ProviderConfig{}, false
	}
	return r.ordered[i], true
}

// Hosts returns the distinct upstream base addresses (scheme://host) in
// configuration order. Providers served by the same site share one entry.
func (r *Registry) Hosts() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool, len(r.ordered))
	var hosts []string
	for _, p := range r.ordered {
		u, err := url.Parse(p.BaseURL)
		if err != nil {
			continue
		}
		origin := u.Scheme + "://" + u.Host
		if seen[origin] {
			continue
		}
		seen[origin] = true
		hosts = append(hosts, origin)
	}
	return hosts
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "", fmt.Errorf("base url is required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base url %q must use http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q has no host", raw)
	}
	return trimmed, nil
}

// RegistrableHost returns the registrable domain (eTLD+1) of rawURL,
// e.g. "https://api.cinemaworld.example.co.uk/api" -> "example.co.uk".
// IPs, localhost and unparseable inputs fall back to the bare hostname.
func RegistrableHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return host
	}
	return domain
}
