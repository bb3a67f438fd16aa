package job

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"distbuild/internal/config"
	"distbuild/internal/nvr"
	pkgstrings "distbuild/pkg/strings"
)

// HashLength is the number of hex characters kept from the name digest.
const HashLength = 16

// Hash returns a short, filesystem-safe identity derived from the full
// job name.
func Hash(j Job) string {
	sum := sha256.Sum256([]byte(j.Name()))
	return hex.EncodeToString(sum[:])[:HashLength]
}

// ShortName returns the job name when it fits in maxLen and is safe as a
// file name, otherwise the hash of the name. Names are never truncated.
func ShortName(j Job, maxLen int) string {
	name := j.Name()
	if len(name) <= maxLen && pkgstrings.IsFilesystemSafe(name) {
		return name
	}
	return Hash(j)
}

// ArchiveTarget returns the build target whose output a job produces or
// consumes: a Build job's own target, a Test job's parent. Pull jobs and
// test-only Test jobs have none.
func ArchiveTarget(j Job) (Target, bool) {
	target := Switch(j,
		func(*Pull) Target { return Target{} },
		func(b *Build) Target { return b.Target },
		func(t *Test) Target { return t.Parent },
	)
	return target, !target.IsZero()
}

// Archive returns the identifier record of the archive a job builds or
// tests. Variant values equal to their default are left out of the
// identifier. The release fields must fit the identifier grammar, so the
// result always parses back.
func Archive(j Job, pkg, version, changeSet, suffix string) (nvr.Archive, error) {
	if err := validateRelease(pkg, version, changeSet, suffix); err != nil {
		return nvr.Archive{}, fmt.Errorf("job %s: %w", j.Name(), err)
	}
	target, ok := ArchiveTarget(j)
	if !ok {
		return nvr.Archive{}, fmt.Errorf("job %s has no build archive", j.Name())
	}
	if target.PlatformString == "" {
		return nvr.Archive{}, fmt.Errorf("job %s has no platform string", j.Name())
	}
	variants := make([]nvr.Variant, 0, len(target.Variants))
	for _, ch := range target.Variants {
		variants = append(variants, nvr.Variant{Category: ch.Category, Value: ch.Value, Explicit: !ch.Default})
	}
	return nvr.Archive{
		Build: nvr.Build{
			Package:   pkg,
			Version:   version,
			ChangeSet: changeSet,
			Project:   j.Shared().Project,
		},
		Variants: variants,
		Platform: target.PlatformString,
		Suffix:   suffix,
	}, nil
}

// ArchiveIdentifier renders Archive as an identifier string.
func ArchiveIdentifier(j Job, pkg, version, changeSet, suffix string) (string, error) {
	a, err := Archive(j, pkg, version, changeSet, suffix)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

func validateRelease(pkg, version, changeSet, suffix string) error {
	var errs config.ValidationErrors
	if err := config.ValidateRequired("package", pkg, "archive identifier"); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if err := config.ValidateVersion("version", version); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if err := config.ValidateToken("changeSet", changeSet); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if err := config.ValidateToken("suffix", suffix); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
