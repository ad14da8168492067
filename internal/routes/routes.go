// Package routes resolves named catalog routes to paths and absolute URLs.
package routes

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	HomeIndex         = "home.index"
	DatasetSearch     = "dataset.search"
	OrganizationIndex = "organization.index"
	GroupIndex        = "group.index"
	DatasetRead       = "dataset.read"
	ResourceRead      = "dataset_resource.read"
)

var (
	ErrUnknownRoute = errors.New("unknown route")
	ErrMissingParam = errors.New("missing route parameter")
)

// DefaultPatterns mirrors the CKAN URL layout.
var DefaultPatterns = map[string]string{
	HomeIndex:         "/",
	DatasetSearch:     "/dataset/",
	OrganizationIndex: "/organization/",
	GroupIndex:        "/group/",
	DatasetRead:       "/dataset/{id}",
	ResourceRead:      "/dataset/{id}/resource/{resource_id}",
}

// URLGenerator turns a route name and parameters into a URL.
type URLGenerator interface {
	Path(name string, params map[string]string) (string, error)
	URL(name string, params map[string]string) (string, error)
	SiteURL() string
}

// Generator resolves routes against a fixed site base URL.
type Generator struct {
	siteURL  string
	patterns map[string]string
}

// NewGenerator builds a Generator for siteURL. Entries in overrides replace
// the default pattern of the same name.
func NewGenerator(siteURL string, overrides map[string]string) (*Generator, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("parse site url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("site url %q must be absolute", siteURL)
	}

	patterns := make(map[string]string, len(DefaultPatterns)+len(overrides))
	for name, p := range DefaultPatterns {
		patterns[name] = p
	}
	for name, p := range overrides {
		if !strings.HasPrefix(p, "/") {
			return nil, fmt.Errorf("route %s: pattern %q must start with /", name, p)
		}
		patterns[name] = p
	}

	return &Generator{
		siteURL:  strings.TrimRight(siteURL, "/"),
		patterns: patterns,
	}, nil
}

func (g *Generator) SiteURL() string {
	return g.siteURL
}

// Path expands the pattern registered under name. Every {param} in the
// pattern must be present in params; values are path-escaped.
func (g *Generator) Path(name string, params map[string]string) (string, error) {
	pattern, ok := g.patterns[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}

	var b strings.Builder
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("route %s: unterminated parameter in %q", name, pattern)
		}
		key := rest[open+1 : open+end]
		val, ok := params[key]
		if !ok || strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("%w: %s needs %q", ErrMissingParam, name, key)
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(strings.TrimSpace(val)))
		rest = rest[open+end+1:]
	}
	return b.String(), nil
}

// URL is Path prefixed with the site base URL.
func (g *Generator) URL(name string, params map[string]string) (string, error) {
	p, err := g.Path(name, params)
	if err != nil {
		return "", err
	}
	return g.siteURL + p, nil
}
