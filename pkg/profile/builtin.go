package profile

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
)

//go:embed profiles/*.yaml
var profileFS embed.FS

// builtins parses every embedded profile on first use, keyed by lower-case
// model number.
var builtins = sync.OnceValues(func() (map[string]*Profile, error) {
	entries, err := profileFS.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading profiles directory: %w", err)
	}
	byModel := make(map[string]*Profile, len(entries))
	for _, e := range entries {
		model, ok := strings.CutSuffix(e.Name(), ".yaml")
		if !ok {
			continue
		}
		data, err := profileFS.ReadFile(path.Join("profiles", e.Name()))
		if err != nil {
			return nil, err
		}
		p, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("built-in profile %q: %w", model, err)
		}
		byModel[strings.ToLower(model)] = p
	}
	return byModel, nil
})

// Load returns the built-in profile for a model number such as "a3028",
// ignoring case. Repeated calls return the same *Profile.
func Load(modelNumber string) (*Profile, error) {
	all, err := builtins()
	if err != nil {
		return nil, err
	}
	p, ok := all[strings.ToLower(modelNumber)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, modelNumber)
	}
	return p, nil
}

// Models returns the sorted model numbers of the built-in profiles.
func Models() ([]string, error) {
	all, err := builtins()
	if err != nil {
		return nil, err
	}
	models := make([]string, 0, len(all))
	for k := range all {
		models = append(models, k)
	}
	slices.Sort(models)
	return models, nil
}
