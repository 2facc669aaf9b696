// Package aggregation provides the weighted-aggregation primitive shared by
// the portfolio scoring tools. A weighting method decides how much each
// holding contributes to a portfolio-level figure.
package aggregation

import (
	"fmt"
	"strings"
)

// Method determines how per-company values are weighted into a single
// portfolio value.
type Method int

const (
	// WATS weights by investment value (weighted average temperature score).
	WATS Method = iota + 1
	// TETS weights by total (scope 1+2 plus scope 3) emissions.
	TETS
	// MOTS weights by emissions owned through market capitalization.
	MOTS
	// EOTS weights by emissions owned through enterprise value.
	EOTS
	// ECOTS weights by emissions owned through enterprise value plus cash.
	ECOTS
	// AOTS weights by emissions owned through total assets.
	AOTS
	// ROTS weights by emissions owned through revenue.
	ROTS
)

var methodNames = map[Method]string{
	WATS:  "WATS",
	TETS:  "TETS",
	MOTS:  "MOTS",
	EOTS:  "EOTS",
	ECOTS: "ECOTS",
	AOTS:  "AOTS",
	ROTS:  "ROTS",
}

// String returns the canonical name of the method
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// MethodFromString parses a weighting method name (case-insensitive)
func MethodFromString(value string) (Method, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for method, name := range methodNames {
		if name == normalized {
			return method, nil
		}
	}
	return 0, fmt.Errorf("unknown aggregation method %q", value)
}
