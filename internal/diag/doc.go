// Package diag defines the diagnostic model used by the batch runner
// and the CLI.
//
// A Diagnostic carries a Severity, a numeric Code with a stable string
// form (IO1xxx input/output, REC2xxx record structure, NUM3xxx arithmetic,
// CFG4xxx configuration), a short message, a primary source.Span and
// optional notes. Diagnostics that have no location inside a loaded file
// set Path instead of Primary.
//
// Producers emit through a Reporter, usually a BagReporter feeding a Bag,
// or build values directly with New / NewError and add them to a Bag.
// Rendering lives in internal/diagfmt; FormatShort gives a stable
// one-line-per-entry form for terminals and golden tests.
package diag
