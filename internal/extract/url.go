package extract

import "net/url"

// parseLocationURL reads Xcode document locations of the form
// file:///path/A.swift#CharacterRangeLen=0&StartingLineNumber=9&StartingColumnNumber=4.
// Line numbers are taken as written.
func parseLocationURL(raw string) (path string, line, col int, ok bool) {
	if raw == "" {
		return "", 0, 0, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "", 0, 0, false
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", 0, 0, false
	}
	q, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return "", 0, 0, false
	}
	line, ok = atoiString(q.Get("StartingLineNumber"))
	if !ok {
		return "", 0, 0, false
	}
	col, _ = atoiString(q.Get("StartingColumnNumber"))
	return u.Path, line, col, true
}
