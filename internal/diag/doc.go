// Package diag defines the diagnostic model shared by every generation stage.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the cleaner, the discovery engine and the descriptor synthesizer.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model the fatal error taxonomy as coded Failure values.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration.
// Rendering lives in internal/diagfmt, orchestration in internal/pipeline.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Path – workspace-relative path the finding is about, or empty.
//   - Notes – optional secondary messages.
//
// # Failures
//
// Failure is the error counterpart of a Diagnostic. Codes in the FS range
// match ErrFilesystemAccess, codes in the CFG range match ErrMalformedConfig:
//
//	if errors.Is(err, diag.ErrMalformedConfig) { ... }
//
// A run that merely found no sources is not a failure: the pipeline records a
// NoSources warning and keeps going.
package diag
