package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source says where a secret may come from. The first non-empty of File, Env and
// Value wins.
type Source struct {
	// Name only appears in error messages.
	Name  string
	File  string
	Env   string
	Value string
}

// Load resolves src and returns the trimmed secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if src.Env != "" {
		return "", fmt.Errorf("%s is not configured (%s is unset)", name, src.Env)
	}
	return "", fmt.Errorf("%s is not configured", name)
}
