// Package manifest loads the YAML manifests a learner submits.
//
// [Load] reads and decodes a single YAML document into a generic tree. Every
// failure is reported as a [*LoadError] carrying one of four kinds
// ([KindNotFound], [KindReadError], [KindParseError], [KindEmptyDocument]),
// so callers can turn it into a structured result instead of aborting.
package manifest
