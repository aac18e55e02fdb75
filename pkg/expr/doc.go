// Package expr selects values from decoded manifests with CEL.
//
// Documents are bound to [DocumentVar], and the environment enables CEL
// optional types so that selectors such as `doc[?"spec"][?"template"]` or
// `doc[?"containers"][?0]` yield an empty optional instead of an error when
// a key or index is absent. [Environment.Select] unwraps that optional.
package expr
