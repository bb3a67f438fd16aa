package model

import (
	"sort"

	"distbuild/internal/config"
)

// Platform is an operating system and architecture pair builds run on,
// together with the machine groups (providers) that can host it.
type Platform struct {
	ID        string   `yaml:"id"`
	OS        string   `yaml:"os"`
	OSVersion string   `yaml:"osVersion"`
	Arch      string   `yaml:"arch"`
	Alias     string   `yaml:"alias,omitempty"`
	Providers []string `yaml:"providers"`
}

// String returns the two-token platform string used in archive
// identifiers, e.g. "el7.x86_64".
func (p *Platform) String() string {
	return p.OS + p.OSVersion + "." + p.Arch
}

// HasProvider reports whether provider is one of the platform's providers.
func (p *Platform) HasProvider(provider string) bool {
	for _, candidate := range p.Providers {
		if candidate == provider {
			return true
		}
	}
	return false
}

// Validate checks that the platform can be encoded in identifiers.
func (p *Platform) Validate() error {
	var errs config.ValidationErrors
	if err := config.ValidateEntityName(p.ID, "platform"); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if err := config.ValidateToken("os", p.OS); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if p.OSVersion != "" {
		if err := config.ValidateToken("osVersion", p.OSVersion); err != nil {
			errs = append(errs, err.(config.ValidationError))
		}
	}
	if err := config.ValidateToken("arch", p.Arch); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if len(p.Providers) == 0 {
		errs.Add("providers", "must have at least one provider")
	}
	seen := make(map[string]bool)
	for _, provider := range p.Providers {
		if seen[provider] {
			errs.Add("providers", "duplicate provider", provider)
		}
		seen[provider] = true
	}
	if errs.HasErrors() {
		return config.FormatValidationError("platform", p.ID, errs)
	}
	return nil
}

// SortPlatforms orders platforms by ID.
func SortPlatforms(platforms []*Platform) {
	sort.Slice(platforms, func(i, j int) bool {
		return platforms[i].ID < platforms[j].ID
	})
}
