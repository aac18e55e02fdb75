// Package objective evaluates an ordered list of objective checks against a
// set of loaded manifests.
//
// Every check is attempted, even after an earlier one has failed, so that a
// single run reports everything a learner has to fix. A check that depends
// on a manifest which failed to load is reported as failed with the loader's
// message, while checks that do not depend on it still run.
package objective
