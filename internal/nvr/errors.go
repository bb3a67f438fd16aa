package nvr

import "fmt"

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// UnknownPackageName: no known package name prefixes the identifier.
	UnknownPackageName ErrorKind = iota + 1
	// MalformedNVR: the version/release split does not yield two parts.
	MalformedNVR
	// MissingChangeSetOrProject: the release is too short to hold a
	// change-set and a project.
	MissingChangeSetOrProject
	// UnknownProjectName: the last release token is not a known project.
	UnknownProjectName
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownPackageName:
		return "UnknownPackageName"
	case MalformedNVR:
		return "MalformedNVR"
	case MissingChangeSetOrProject:
		return "MissingChangeSetOrProject"
	case UnknownProjectName:
		return "UnknownProjectName"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError is returned by every parser in this package.
type ParseError struct {
	Kind       ErrorKind
	Identifier string
	// Token is the part of the identifier the parser rejected, if any.
	Token string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %q", e.Kind, e.Identifier)
	}
	return fmt.Sprintf("%s: %q in %q", e.Kind, e.Token, e.Identifier)
}

func newError(kind ErrorKind, identifier, token string) *ParseError {
	return &ParseError{Kind: kind, Identifier: identifier, Token: token}
}
