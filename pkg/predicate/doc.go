// Package predicate contains the text predicates used to grade analysis
// templates: success conditions and PromQL queries.
//
// None of the predicates parse their input. Each one strips all whitespace
// and then checks the result against a closed list of accepted forms or
// required clauses. The accepted lists are part of the grading contract:
// widening them changes which submissions pass.
package predicate
