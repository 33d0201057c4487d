// Package countries holds the ISO 3166-1 alpha-2 reference list used to pick
// new countries for node placement and to normalize country names to codes.
package countries

import (
	_ "embed"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed iso3166.yaml
var defaultAsset []byte

type Country struct {
	Code    string   `yaml:"code"`
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type asset struct {
	Countries []Country `yaml:"countries"`
}

// List is read-only after construction and safe for concurrent use.
type List struct {
	countries []Country
	byCode    map[string]int
	byName    map[string]string
}

// Default parses the embedded ISO 3166 asset.
func Default() (*List, error) {
	return Parse(defaultAsset)
}

// Load reads the list from path, or the embedded asset when path is empty.
func Load(path string) (*List, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading countries file %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML country asset. Codes are lower-cased and duplicates
// keep their first occurrence.
func Parse(data []byte) (*List, error) {
	var a asset
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "decoding countries asset")
	}

	l := &List{
		byCode: make(map[string]int, len(a.Countries)),
		byName: make(map[string]string, len(a.Countries)),
	}
	for _, c := range a.Countries {
		code := strings.ToLower(strings.TrimSpace(c.Code))
		if len(code) != 2 {
			return nil, errors.Errorf("invalid country code %q", c.Code)
		}
		if _, dup := l.byCode[code]; dup {
			continue
		}
		c.Code = code
		l.byCode[code] = len(l.countries)
		l.countries = append(l.countries, c)

		l.byName[strings.ToLower(c.Name)] = code
		for _, alias := range c.Aliases {
			l.byName[strings.ToLower(alias)] = code
		}
	}
	if len(l.countries) == 0 {
		return nil, errors.New("countries asset is empty")
	}
	return l, nil
}

func (l *List) Len() int {
	return len(l.countries)
}

// Codes returns the lower-case codes in list order.
func (l *List) Codes() []string {
	codes := make([]string, len(l.countries))
	for i, c := range l.countries {
		codes[i] = c.Code
	}
	return codes
}

func (l *List) Contains(code string) bool {
	_, ok := l.byCode[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// Name returns the English name for a code, or "" when unknown.
func (l *List) Name(code string) string {
	i, ok := l.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return ""
	}
	return l.countries[i].Name
}

// Normalize maps a code, name or alias to a lower-case code.
func (l *List) Normalize(s string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := l.byCode[key]; ok {
		return key, true
	}
	code, ok := l.byName[key]
	return code, ok
}

// Absent returns up to limit codes, in list order, that are not in present.
// Keys of present must be lower case.
func (l *List) Absent(present map[string]struct{}, limit int) []string {
	var out []string
	for _, c := range l.countries {
		if len(out) >= limit {
			break
		}
		if _, ok := present[c.Code]; ok {
			continue
		}
		out = append(out, c.Code)
	}
	return out
}
