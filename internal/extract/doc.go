// Package extract turns build output into a stream of diag.RawDiagnostic.
//
// Two readers are provided. The text reader scans a build log line by line
// and matches the compiler's "path:line:col: warning: message" shape. The
// JSON reader walks xcresult, xcodebuild and swiftconcur JSON token by token,
// keeping only the fields of the object currently open, so memory does not
// grow with the size of the input.
//
// Both readers are exposed through Extractor.All, a single-use iterator.
// Errors end the iteration and are reported by Extractor.Err.
package extract
