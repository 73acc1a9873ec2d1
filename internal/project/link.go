package project

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/quartz-framework/start/internal/catalog"
	oerrors "github.com/quartz-framework/start/internal/errors"
)

// Query parameter names. They match the JSON field names of Request.
const (
	paramGroupID            = "groupId"
	paramArtifactID         = "artifactId"
	paramName               = "name"
	paramMainClass          = "mainClass"
	paramJavaVersion        = "javaVersion"
	paramPlatform           = "platform"
	paramCompiler           = "compiler"
	paramVersion            = "version"
	paramPlatformAPIVersion = "platformApiVersion"
	paramDependencies       = "dependencies"
)

// EncodeQuery encodes every non-empty field of r as a query parameter.
// Dependencies are joined with commas.
func EncodeQuery(r Request) url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}

	set(paramGroupID, r.GroupID)
	set(paramArtifactID, r.ArtifactID)
	set(paramName, r.Name)
	set(paramMainClass, r.MainClass)
	if r.JavaVersion != 0 {
		set(paramJavaVersion, r.JavaVersion.String())
	}
	set(paramPlatform, string(r.Platform))
	set(paramCompiler, string(r.Compiler))
	set(paramVersion, r.Version)
	set(paramPlatformAPIVersion, r.PlatformAPIVersion)

	if len(r.Dependencies) > 0 {
		deps := make([]string, len(r.Dependencies))
		for i, id := range r.Dependencies {
			deps[i] = string(id)
		}
		set(paramDependencies, strings.Join(deps, ","))
	}

	return q
}

// DecodeQuery is the inverse of EncodeQuery. Repeated dependencies
// parameters are merged. A non-numeric javaVersion is a validation error.
func DecodeQuery(q url.Values) (Request, error) {
	r := Request{
		GroupID:            q.Get(paramGroupID),
		ArtifactID:         q.Get(paramArtifactID),
		Name:               q.Get(paramName),
		MainClass:          q.Get(paramMainClass),
		Platform:           catalog.Platform(q.Get(paramPlatform)),
		Compiler:           catalog.BuildTool(q.Get(paramCompiler)),
		Version:            q.Get(paramVersion),
		PlatformAPIVersion: q.Get(paramPlatformAPIVersion),
	}

	if jv := q.Get(paramJavaVersion); jv != "" {
		n, err := strconv.Atoi(jv)
		if err != nil {
			return Request{}, oerrors.NewValidationError(
				fmt.Sprintf("javaVersion %q is not a number", jv), "", paramJavaVersion, "")
		}
		r.JavaVersion = catalog.JavaVersion(n)
	}

	for _, v := range q[paramDependencies] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				r.Dependencies = append(r.Dependencies, catalog.OptionID(id))
			}
		}
	}

	return r, nil
}

// ShareURL returns base with the encoded request as its query string.
func ShareURL(base string, r Request) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url %q: %w", base, err)
	}
	u.RawQuery = EncodeQuery(r).Encode()
	return u.String(), nil
}

// ParseLink decodes a request from a share URL, a bare query string, or a
// query string with a leading '?'.
func ParseLink(link string) (Request, error) {
	link = strings.TrimSpace(link)

	raw := link
	if strings.Contains(link, "://") {
		u, err := url.Parse(link)
		if err != nil {
			return Request{}, oerrors.NewValidationError(
				fmt.Sprintf("invalid link: %v", err), "", "link", "")
		}
		raw = u.RawQuery
	}
	raw = strings.TrimPrefix(raw, "?")

	q, err := url.ParseQuery(raw)
	if err != nil {
		return Request{}, oerrors.NewValidationError(
			fmt.Sprintf("invalid link query: %v", err), "", "link", "")
	}
	return DecodeQuery(q)
}
