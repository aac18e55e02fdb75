// Package challenge defines the challenge variants the verifier can grade.
//
// Each [Variant] maps to an ordered list of [objective.Check]s and to the
// metadata of the embedded challenge catalog. [Parse] resolves a selector
// such as "01-echoes-lost-in-orbit_beginner" into a [Variant], and
// [Challenge.Verify] loads the manifests and evaluates every objective.
package challenge
