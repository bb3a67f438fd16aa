// Package nvr parses build and archive identifiers.
//
// A build identifier has the form
//
//	package-version-changeset[.garbage...].project
//
// and an archive identifier extends it with the non-default build variant
// values, the platform and a suffix:
//
//	package-version-changeset[.garbage...].project[.value...].os.arch.suffix
//	package-version-changeset[.garbage...].project.src.suffix
//
// Package names may contain '-', so the package is cut by the longest known
// name. Variant values equal to their category default are omitted, so the
// variant segment is decoded by category membership, walking categories from
// the last declared to the first.
//
// The legacy fixed-arity formats NVR, NVRA and NVRASuffix are parsed by
// position and never guessed: callers pick the format explicitly.
package nvr
