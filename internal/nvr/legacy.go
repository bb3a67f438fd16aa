package nvr

import (
	"fmt"
	"strings"
)

// NVR is a legacy name-version-release identifier.
type NVR struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Release string `json:"release" yaml:"release"`
}

func (n NVR) String() string {
	return n.Name + Separator + n.Version + Separator + n.Release
}

func (n NVR) Fields() []Field {
	return []Field{{"name", n.Name}, {"version", n.Version}, {"release", n.Release}}
}

// NVRA is NVR.os.arch.
type NVRA struct {
	NVR  `yaml:",inline"`
	OS   string `json:"os" yaml:"os"`
	Arch string `json:"arch" yaml:"arch"`
}

func (n NVRA) String() string {
	return n.NVR.String() + Delimiter + n.OS + Delimiter + n.Arch
}

func (n NVRA) Fields() []Field {
	return append(n.NVR.Fields(), Field{"os", n.OS}, Field{"arch", n.Arch})
}

// NVRASuffix is NVRA.suffix.
type NVRASuffix struct {
	NVRA   `yaml:",inline"`
	Suffix string `json:"suffix" yaml:"suffix"`
}

func (n NVRASuffix) String() string {
	return n.NVRA.String() + Delimiter + n.Suffix
}

func (n NVRASuffix) Fields() []Field {
	return append(n.NVRA.Fields(), Field{"suffix", n.Suffix})
}

// ParseNVR splits at the last two separators. The name keeps any
// separators before them.
func ParseNVR(id string) (NVR, error) {
	rest, release, ok := cutLast(id, Separator)
	if !ok {
		return NVR{}, newError(MalformedNVR, id, "")
	}
	name, version, ok := cutLast(rest, Separator)
	if !ok {
		return NVR{}, newError(MalformedNVR, id, rest)
	}
	return NVR{Name: name, Version: version, Release: release}, nil
}

// ParseNVRA strips the last two tokens as os and arch and parses the rest as
// NVR.
func ParseNVRA(id string) (NVRA, error) {
	rest, arch, ok := cutLast(id, Delimiter)
	if !ok {
		return NVRA{}, newError(MalformedNVR, id, "")
	}
	rest, os, ok := cutLast(rest, Delimiter)
	if !ok {
		return NVRA{}, newError(MalformedNVR, id, rest)
	}
	n, err := ParseNVR(rest)
	if err != nil {
		return NVRA{}, newError(MalformedNVR, id, rest)
	}
	return NVRA{NVR: n, OS: os, Arch: arch}, nil
}

// ParseNVRASuffix strips the last token as suffix and parses the rest as
// NVRA.
func ParseNVRASuffix(id string) (NVRASuffix, error) {
	rest, suffix, ok := cutLast(id, Delimiter)
	if !ok {
		return NVRASuffix{}, newError(MalformedNVR, id, "")
	}
	n, err := ParseNVRA(rest)
	if err != nil {
		return NVRASuffix{}, newError(MalformedNVR, id, rest)
	}
	return NVRASuffix{NVRA: n, Suffix: suffix}, nil
}

// cutLast splits s around the last sep. Both sides must be non-empty.
func cutLast(s, sep string) (before, after string, ok bool) {
	i := strings.LastIndex(s, sep)
	if i <= 0 || i+len(sep) >= len(s) {
		return "", "", false
	}
	return s[:i], s[i+len(sep):], true
}

// Format selects the parser used by Parse.
type Format string

const (
	FormatBuild      Format = "build"
	FormatArchive    Format = "archive"
	FormatNVR        Format = "nvr"
	FormatNVRA       Format = "nvra"
	FormatNVRASuffix Format = "nvra-suffix"
)

// Formats lists every format Parse accepts.
var Formats = []Format{FormatBuild, FormatArchive, FormatNVR, FormatNVRA, FormatNVRASuffix}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown identifier format %q", name)
}

// Parse parses id with the parser for format. Legacy formats ignore dict.
func Parse(format Format, id string, dict Dictionaries) (Record, error) {
	var (
		r   Record
		err error
	)
	switch format {
	case FormatBuild:
		r, err = ParseBuild(id, dict)
	case FormatArchive:
		r, err = ParseArchive(id, dict)
	case FormatNVR:
		r, err = ParseNVR(id)
	case FormatNVRA:
		r, err = ParseNVRA(id)
	case FormatNVRASuffix:
		r, err = ParseNVRASuffix(id)
	default:
		return nil, fmt.Errorf("unknown identifier format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}
