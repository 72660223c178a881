// Package diag defines the data model shared by every stage of the
// concurrency-warning pipeline.
//
// # Data model
//
//   - RawDiagnostic – what the extractor pulls out of a build log or JSON
//     result bundle: location, message and (optionally) source context that
//     was embedded in the input. No classification yet.
//   - Warning – the durable unit. It carries the classification
//     (WarningType, Severity), the resolved CodeContext, an optional
//     suggested fix and a stable ID derived from location and message.
//   - Report – the aggregate handed to formatters: warnings in a
//     deterministic order plus counters and optional baseline diff fields.
//
// # Scope
//
// Package diag performs no IO and no formatting. Extraction lives in
// internal/extract, rendering in internal/diagfmt, orchestration in
// internal/driver.
//
// Keep the model deterministic: the JSON form of Report is read back as a
// baseline by later runs, so field names and ordering are part of the
// contract.
package diag
