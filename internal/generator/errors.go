package generator

import "fmt"

// ErrorKind classifies generation failures.
type ErrorKind int

const (
	UnknownProduct ErrorKind = iota + 1
	UnknownBuildProvider
	UnknownVariantCategory
	UnknownVariant
	// SettingPlatformError: the tree nests a configuration where no further
	// level exists (below a test variant, or anywhere in a test-only project).
	SettingPlatformError
	// ResettingPlatformError is reserved. Levels are left by returning from
	// the walk, so an unset level can never be reset.
	ResettingPlatformError
	UnknownPlatform
	UnknownTask
	WrongTaskKind
	TaskNotAllowed
	// DuplicateJob: two configuration nodes produce the same job name.
	DuplicateJob
)

var kindNames = map[ErrorKind]string{
	UnknownProduct:         "UnknownProduct",
	UnknownBuildProvider:   "UnknownBuildProvider",
	UnknownVariantCategory: "UnknownVariantCategory",
	UnknownVariant:         "UnknownVariant",
	SettingPlatformError:   "SettingPlatformError",
	ResettingPlatformError: "ResettingPlatformError",
	UnknownPlatform:        "UnknownPlatform",
	UnknownTask:            "UnknownTask",
	WrongTaskKind:          "WrongTaskKind",
	TaskNotAllowed:         "TaskNotAllowed",
	DuplicateJob:           "DuplicateJob",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ManagementError is returned by Generate.
type ManagementError struct {
	Kind    ErrorKind
	Project string
	// Subject is the offending value: a product, provider, platform, task,
	// category, value or job name.
	Subject string
	// Path locates the node in the configuration tree, if any.
	Path   string
	Detail string
}

func (e *ManagementError) Error() string {
	msg := fmt.Sprintf("project %s: %s %q", e.Project, e.Kind, e.Subject)
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Fatal reports an invariant violation: the configuration tree has a shape
// validation should have rejected. Other kinds are configuration mistakes.
func (e *ManagementError) Fatal() bool {
	return e.Kind == SettingPlatformError || e.Kind == ResettingPlatformError
}
