// Package ident computes the stable identity of a warning across runs.
package ident

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Size is the id length in bytes (128 bits).
const Size = 16

// ID is a truncated SHA-256 over the normalised (path, line, message) tuple.
type ID [Size]byte

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Compute hashes path \x00 line \x00 message after normalisation. The column
// is not part of the identity.
func Compute(path string, line int, message string) ID {
	h := sha256.New()
	_, _ = h.Write([]byte(NormalizePath(path)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strconv.Itoa(line)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(NormalizeMessage(message)))
	var sum [sha256.Size]byte
	h.Sum(sum[:0])
	var out ID
	copy(out[:], sum[:Size])
	return out
}

// Of is Compute rendered as lower-case hex.
func Of(path string, line int, message string) string {
	return Compute(path, line, message).String()
}

// NormalizePath cleans the path and uses forward slashes.
func NormalizePath(p string) string {
	if p == "" {
		return p
	}
	return filepath.ToSlash(filepath.Clean(p))
}

// NormalizeMessage applies NFC, trims the text and collapses whitespace runs
// into a single space.
func NormalizeMessage(msg string) string {
	msg = norm.NFC.String(msg)
	var b strings.Builder
	b.Grow(len(msg))
	space := false
	for _, r := range msg {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// Valid reports whether s looks like an id produced by Of.
func Valid(s string) bool {
	if len(s) != Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
