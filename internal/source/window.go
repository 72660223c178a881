package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"swiftconcur/internal/diag"
)

// MaxLineBytes caps a single source line; longer lines are cut.
const MaxLineBytes = 64 << 10

// ErrLineOutOfRange is returned when the file has fewer lines than asked.
var ErrLineOutOfRange = errors.New("line out of range")

// ReadWindow returns up to n lines before and after the 1-based line of the
// file at path. Reading stops after line+n.
func ReadWindow(path string, line, n int) (diag.CodeContext, error) {
	// #nosec G304 -- path comes from compiler diagnostics
	f, err := os.Open(path)
	if err != nil {
		return diag.EmptyContext(""), err
	}
	defer f.Close()
	return Window(f, line, n)
}

// Window is ReadWindow over an arbitrary reader.
func Window(r io.Reader, line, n int) (diag.CodeContext, error) {
	out := diag.EmptyContext("")
	if line < 1 {
		return out, fmt.Errorf("%w: %d", ErrLineOutOfRange, line)
	}
	if n < 0 {
		n = 0
	}
	first := max(1, line-n)
	last := line + n

	br := bufio.NewReaderSize(r, 32<<10)
	found := false
	for num := 1; num <= last; num++ {
		text, err := readLine(br)
		if err != nil && len(text) == 0 {
			if errors.Is(err, io.EOF) {
				break
			}
			return out, err
		}
		if num == 1 {
			text, _ = removeBOM(text)
		}
		switch {
		case num < first:
		case num < line:
			out.Before = append(out.Before, string(text))
		case num == line:
			out.Line = string(text)
			found = true
		default:
			out.After = append(out.After, string(text))
		}
		if err != nil {
			break
		}
	}
	if !found {
		return diag.EmptyContext(""), fmt.Errorf("%w: %d", ErrLineOutOfRange, line)
	}
	return out, nil
}

// readLine returns the next line without its ending. Bytes past
// MaxLineBytes are discarded without being buffered.
func readLine(br *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if len(line) < MaxLineBytes {
			room := MaxLineBytes - len(line)
			line = append(line, chunk[:min(room, len(chunk))]...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return trimEOL(line), err
	}
}
