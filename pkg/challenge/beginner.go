package challenge

import (
	"context"
	"fmt"
	"strings"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/field"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/predicate"
)

const (
	appSetKey = "appset"

	// ApplicationSetDocs documents the ApplicationSet specification.
	ApplicationSetDocs = "https://argo-cd.readthedocs.io/en/stable/operator-manual/applicationset/"
)

// PathBasenamePlaceholders are the accepted spellings of the generator
// placeholder that makes templated values unique per environment.
var PathBasenamePlaceholders = []string{"{{path.basename}}", "{{ path.basename }}"}

// appSetField is a field the ApplicationSet must carry. An empty want only
// requires presence.
type appSetField struct {
	path string
	want string
}

var appSetSpecFields = []appSetField{
	{path: "apiVersion", want: "argoproj.io/v1alpha1"},
	{path: "kind", want: "ApplicationSet"},
	{path: "metadata.name"},
	{path: "metadata.namespace", want: "argocd"},
	{path: "spec.template.metadata.name"},
	{path: "spec.template.spec.source"},
	{path: "spec.template.spec.destination"},
}

func adventure01BeginnerChecks() []objective.Check {
	requires := []string{appSetKey}

	return []objective.Check{
		{
			Name:        "specification",
			Description: "ApplicationSet follows the Argo CD specification",
			Requires:    requires,
			Run:         checkAppSetSpecification,
		},
		{
			Name:        "generators",
			Description: "ApplicationSet generates Applications from the environments",
			Requires:    requires,
			Run:         checkAppSetGenerators,
		},
		{
			Name:        "distinct-names",
			Description: "See two distinct Applications in the Argo CD dashboard (one per environment)",
			Requires:    requires,
			Run:         checkDistinctNames,
		},
		{
			Name:        "isolated-namespaces",
			Description: "Ensure each Application deploys to its own isolated namespace",
			Requires:    requires,
			Run:         checkIsolatedNamespaces,
		},
		{
			Name:        "self-heal",
			Description: "Make the system resilient so changes from outside Git cannot break it",
			Requires:    requires,
			Run:         checkSelfHeal,
		},
		{
			Name:        "prune",
			Description: "Confirm that updates happen automatically without leaving stale resources behind",
			Requires:    requires,
			Run:         checkPrune,
		},
	}
}

func checkAppSetSpecification(_ context.Context, in objective.Input) objective.Result {
	var (
		details    []string
		excerptAt  string
		mismatched bool
	)

	for _, f := range appSetSpecFields {
		v := in.Lookup(appSetKey, f.path)

		switch {
		case !v.Present():
			details = append(details, fmt.Sprintf("%s is missing", f.path))
		case f.want == "" && !v.Truthy():
			details = append(details, fmt.Sprintf("%s is empty", f.path))
		case f.want != "" && v.Raw() != f.want:
			details = append(details, fmt.Sprintf("%s: expected %s, found %s", f.path, f.want, v.Format()))
			mismatched = true

			if excerptAt == "" {
				excerptAt = f.path
			}
		}
	}

	if len(details) == 0 {
		return objective.Pass("ApplicationSet specification is valid")
	}

	reason := objective.ReasonFieldMissing
	if mismatched {
		reason = objective.ReasonValueMismatch
	}

	r := objective.Fail(reason,
		"ApplicationSet specification is invalid or incomplete. "+
			"Please ensure your ApplicationSet follows the Argo CD specification: "+ApplicationSetDocs,
		details...,
	)

	if excerptAt != "" {
		r = r.WithExcerpt(in.Manifest(appSetKey).Excerpt(excerptAt, false))
	}

	return r
}

func checkAppSetGenerators(_ context.Context, in objective.Input) objective.Result {
	generators := in.Lookup(appSetKey, "spec.generators")

	list, ok := generators.List()
	if !ok || len(list) == 0 {
		return objective.Fail(objective.ReasonFieldMissing,
			"ApplicationSet does not define any generators. Found: "+generators.Format()+
				". See "+ApplicationSetDocs,
		)
	}

	return objective.Pass(fmt.Sprintf("ApplicationSet defines %d generator(s)", len(list)))
}

func checkDistinctNames(_ context.Context, in objective.Input) objective.Result {
	return checkPlaceholder(in, "spec.template.metadata.name",
		"Application name is not configured",
		"Application names will not be distinct",
		"Application names are configured to be distinct",
	)
}

func checkIsolatedNamespaces(_ context.Context, in objective.Input) objective.Result {
	return checkPlaceholder(in, "spec.template.spec.destination.namespace",
		"Application namespace is not configured",
		"Applications will not deploy to isolated namespaces",
		"Each Application is configured to deploy to its own isolated namespace",
	)
}

func checkPlaceholder(in objective.Input, path, missingMsg, mismatchMsg, passMsg string) objective.Result {
	v := in.Lookup(appSetKey, path)
	if !v.Truthy() {
		return objective.Fail(objective.ReasonFieldMissing, missingMsg)
	}

	s, _ := v.String()
	if !predicate.ContainsPlaceholder(s, PathBasenamePlaceholders...) {
		return objective.Fail(objective.ReasonPatternMismatch,
			fmt.Sprintf("%s. Found: %s", mismatchMsg, v.Format()),
			"Expected a value containing "+strings.Join(PathBasenamePlaceholders, " or "),
		).WithExcerpt(in.Manifest(appSetKey).Excerpt(path, false))
	}

	return objective.Pass(passMsg)
}

func automated(in objective.Input) field.Value {
	return in.Lookup(appSetKey, "spec.template.spec.syncPolicy.automated")
}

func checkSelfHeal(_ context.Context, in objective.Input) objective.Result {
	if !automated(in).Get("selfHeal").Truthy() {
		return objective.Fail(objective.ReasonValueMismatch, "System is not resilient to manual changes")
	}

	return objective.Pass("System is resilient to changes from outside Git")
}

func checkPrune(_ context.Context, in objective.Input) objective.Result {
	auto := automated(in)
	if !auto.Present() {
		return objective.Fail(objective.ReasonFieldMissing, "Automated updates are not configured")
	}

	if !auto.Get("prune").Truthy() {
		return objective.Fail(objective.ReasonValueMismatch, "Stale resources will not be removed automatically")
	}

	return objective.Pass("Updates are configured to happen automatically without leaving stale resources behind")
}
