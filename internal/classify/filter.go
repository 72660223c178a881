package classify

import "swiftconcur/internal/diag"

// Filter decides which classified warnings reach the report.
type Filter struct {
	// Only keeps a single category when set.
	Only *diag.WarningType
	// IncludeUnknown keeps warnings no rule matched.
	IncludeUnknown bool
}

// Keep reports whether a warning of the given type passes the filter.
func (f Filter) Keep(typ diag.WarningType) bool {
	if f.Only != nil {
		return typ == *f.Only
	}
	if typ == diag.Unknown {
		return f.IncludeUnknown
	}
	return true
}

// ParseFilter builds a Filter from a --filter value; "" means no type filter.
func ParseFilter(only string, includeUnknown bool) (Filter, error) {
	f := Filter{IncludeUnknown: includeUnknown}
	if only == "" {
		return f, nil
	}
	typ, err := diag.ParseWarningType(only)
	if err != nil {
		return Filter{}, err
	}
	f.Only = &typ
	return f, nil
}
