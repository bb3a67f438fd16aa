// Package logging provides the subsystem logger used throughout distbuild.
//
// It is a thin layer over log/slog. Every entry carries a subsystem
// attribute so that generator, parser, catalog and CLI output can be told
// apart when several of them write to the same stream.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Catalog", "Loaded %d platforms from %s", n, dir)
//	logging.Debug("Generator", "Emitted build job %s", name)
//	logging.Error("Store", err, "Failed to decode %s", path)
//
// InitJSON switches the handler to slog's JSON handler, which is what the
// CLI uses when --log-format=json is given.
//
// Before initialisation every call is dropped, so library packages may log
// freely from tests without configuring anything.
package logging
