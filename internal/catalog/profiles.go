// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

// DefaultProfile is used when no profile is named.
const DefaultProfile = "wbc-poznan"

const defaultExtension = "pdf"

var (
	// ErrUnknownProfile is returned by Lookup for a name with no definition.
	ErrUnknownProfile = errors.New("unknown catalog profile")

	// ErrInvalidProfile is returned when a profile is missing a required
	// field or carries a pattern that does not compile.
	ErrInvalidProfile = errors.New("invalid catalog profile")
)

//go:embed profiles.yaml
var builtinYAML []byte

// profileFile is the on-disk layout of a profiles file.
type profileFile struct {
	Profiles []types.CatalogProfile `yaml:"profiles"`
}

// Profiles is a set of catalog profiles indexed by name.
type Profiles map[string]types.CatalogProfile

// Builtin returns the profiles shipped with the binary.
func Builtin() (Profiles, error) {
	return parseProfiles(builtinYAML)
}

// LoadProfiles returns the built-in profiles overlaid with those defined in
// path. Profiles in the file replace built-ins of the same name. An empty path
// returns the built-ins alone.
func LoadProfiles(path string) (Profiles, error) {
	set, err := Builtin()
	if err != nil {
		return nil, fmt.Errorf("parsing built-in profiles: %w", err)
	}
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}
	user, err := parseProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("parsing profiles file %s: %w", path, err)
	}
	for name, p := range user {
		set[name] = p
	}
	return set, nil
}

// Lookup returns the named profile.
func (s Profiles) Lookup(name string) (types.CatalogProfile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := s[name]
	if !ok {
		return types.CatalogProfile{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(s.Names(), ", "))
	}
	return p, nil
}

// Names returns the profile names in sorted order.
func (s Profiles) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseProfiles(data []byte) (Profiles, error) {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	set := make(Profiles, len(f.Profiles))
	for _, p := range f.Profiles {
		p = withDefaults(p)
		if err := Validate(p); err != nil {
			return nil, err
		}
		set[p.Name] = p
	}
	return set, nil
}

func withDefaults(p types.CatalogProfile) types.CatalogProfile {
	if p.ItemTag == "" {
		p.ItemTag = "div"
	}
	if p.Undated == "" {
		p.Undated = types.UndatedReject
	}
	p.Extension = strings.TrimPrefix(p.Extension, ".")
	if p.Extension == "" {
		p.Extension = defaultExtension
	}
	return p
}

// Validate checks that a profile has every field the pipeline needs and that
// its patterns compile with the expected capture groups.
func Validate(p types.CatalogProfile) error {
	required := []struct{ field, value string }{
		{"name", p.Name},
		{"item_tag", p.ItemTag},
		{"item_class", p.ItemClass},
		{"content_label", p.ContentLabel},
		{"title_class", p.TitleClass},
		{"edition_pattern", p.EditionPattern},
		{"download_url", p.DownloadURL},
		{"date_pattern", p.DatePattern},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w %q: %s is required", ErrInvalidProfile, p.Name, r.field)
		}
	}

	edition, err := regexp.Compile(p.EditionPattern)
	if err != nil {
		return fmt.Errorf("%w %q: edition_pattern: %v", ErrInvalidProfile, p.Name, err)
	}
	if edition.NumSubexp() < 1 {
		return fmt.Errorf("%w %q: edition_pattern needs a capture group", ErrInvalidProfile, p.Name)
	}

	date, err := regexp.Compile(p.DatePattern)
	if err != nil {
		return fmt.Errorf("%w %q: date_pattern: %v", ErrInvalidProfile, p.Name, err)
	}
	if date.NumSubexp() < 1 {
		return fmt.Errorf("%w %q: date_pattern needs a year capture group", ErrInvalidProfile, p.Name)
	}

	if !strings.Contains(p.DownloadURL, "{id}") {
		return fmt.Errorf("%w %q: download_url must contain {id}", ErrInvalidProfile, p.Name)
	}

	switch p.Undated {
	case types.UndatedReject, types.UndatedInclude:
	default:
		return fmt.Errorf("%w %q: undated must be %q or %q", ErrInvalidProfile, p.Name, types.UndatedReject, types.UndatedInclude)
	}
	return nil
}
