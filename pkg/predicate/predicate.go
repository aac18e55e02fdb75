package predicate

import (
	"regexp"
	"slices"
	"strings"
)

var (
	// ZeroThresholds are the accepted spellings of "the first result is zero".
	ZeroThresholds = []string{
		"result[0]==0",
		"result[0]<1",
		"result[0]<=0",
		"0==result[0]",
		"1>result[0]",
		"0>=result[0]",
	}

	// AtLeastOneThresholds are the accepted spellings of "the first result
	// is at least one".
	AtLeastOneThresholds = []string{
		"result[0]>=1",
		"result[0]>0",
		"1<=result[0]",
		"0<result[0]",
	}
)

// RestartQueryTemplate is the normalized container restart query that must
// appear unchanged in the analysis template.
const RestartQueryTemplate = `sum(increase(kube_pod_container_status_restarts_total{namespace="{{args.namespace}}",pod=~"echo-server-.*"}[1m]))orvector(0)`

// Clause is a named requirement on a normalized query.
type Clause struct {
	Match func(normalized string) bool
	Name  string
	Want  string
}

var aggregationPrefix = regexp.MustCompile(`^(sum|count)\(`)

// ReadyContainersClauses are the requirements a ready containers query must
// meet. They are independent of each other.
var ReadyContainersClauses = []Clause{
	containsClause("metric", "kube_pod_container_status_ready"),
	containsClause("namespace filter", `namespace="{{args.namespace}}"`),
	containsClause("pod filter", `pod=~"echo-server-.*"`),
	{
		Name:  "aggregation",
		Want:  "sum( or count( at the start of the query",
		Match: aggregationPrefix.MatchString,
	},
}

func containsClause(name, want string) Clause {
	return Clause{
		Name: name,
		Want: want,
		Match: func(normalized string) bool {
			return strings.Contains(normalized, want)
		},
	}
}

// MatchesZeroThreshold reports whether condition is one of [ZeroThresholds],
// ignoring whitespace.
func MatchesZeroThreshold(condition string) bool {
	return slices.Contains(ZeroThresholds, Normalize(condition))
}

// MatchesAtLeastOneThreshold reports whether condition is one of
// [AtLeastOneThresholds], ignoring whitespace.
func MatchesAtLeastOneThreshold(condition string) bool {
	return slices.Contains(AtLeastOneThresholds, Normalize(condition))
}

// IsValidReadyContainersQuery reports whether query meets every one of
// [ReadyContainersClauses].
func IsValidReadyContainersQuery(query string) bool {
	return len(MissingReadyContainersClauses(query)) == 0
}

// MissingReadyContainersClauses returns the clauses query does not meet, in
// declaration order.
func MissingReadyContainersClauses(query string) []Clause {
	normalized := Normalize(query)

	var missing []Clause

	for _, c := range ReadyContainersClauses {
		if !c.Match(normalized) {
			missing = append(missing, c)
		}
	}

	return missing
}

// MatchesRestartQueryTemplate reports whether query contains
// [RestartQueryTemplate] once whitespace is removed. Equivalent PromQL in a
// different shape does not match.
func MatchesRestartQueryTemplate(query string) bool {
	return strings.Contains(Normalize(query), RestartQueryTemplate)
}

// ContainsPlaceholder reports whether value contains any of spellings
// verbatim. Whitespace is significant here.
func ContainsPlaceholder(value string, spellings ...string) bool {
	for _, s := range spellings {
		if strings.Contains(value, s) {
			return true
		}
	}

	return false
}
