package extract

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind is the declared shape of the input.
type Kind uint8

const (
	KindAuto Kind = iota
	KindXCResultJSON
	KindXcodebuildJSON
	KindBuildLogText
)

var kindNames = [...]string{
	KindAuto:           "auto",
	KindXCResultJSON:   "xcresult-json",
	KindXcodebuildJSON: "xcodebuild-json",
	KindBuildLogText:   "build-log-text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsJSON reports whether the kind is read by the JSON walker.
func (k Kind) IsJSON() bool {
	return k == KindXCResultJSON || k == KindXcodebuildJSON
}

// ParseKind accepts the names printed by String plus a few short aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return KindAuto, nil
	case "xcresult-json", "xcresult", "json":
		return KindXCResultJSON, nil
	case "xcodebuild-json", "xcodebuild":
		return KindXcodebuildJSON, nil
	case "build-log-text", "text", "log":
		return KindBuildLogText, nil
	}
	return KindAuto, fmt.Errorf("unknown input kind %q (expected auto|xcresult-json|xcodebuild-json|build-log-text)", s)
}

const sniffBytes = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// sniff drops a leading BOM and guesses the kind from the first
// non-space byte: '{' or '[' means JSON.
func sniff(br *bufio.Reader) (Kind, error) {
	head, err := br.Peek(len(utf8BOM))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return KindAuto, err
	}
	if bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return KindAuto, err
		}
	}
	buf, err := br.Peek(sniffBytes)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return KindAuto, err
	}
	for _, b := range buf {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return KindXCResultJSON, nil
		default:
			return KindBuildLogText, nil
		}
	}
	return KindBuildLogText, nil
}
