package challenge

import (
	"context"
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/field"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/predicate"
)

const (
	rolloutKey  = "rollout"
	analysisKey = "analysis-template"

	// ExpectedImage is the image the Rollout must deploy.
	ExpectedImage = "stefanprodan/podinfo:6.9.3"
	// PrometheusAddress is the in-cluster Prometheus every metric must query.
	PrometheusAddress = "http://prometheus-server.prometheus.svc.cluster.local"

	imagePath = "spec.template.spec.containers[0].image"

	queriesDescription = "Two working PromQL queries in the `AnalysisTemplate` that validate application health during releases"
)

// metricRequirement describes a metric the AnalysisTemplate must define.
type metricRequirement struct {
	query          func(query string) objective.Result
	threshold      func(condition string) bool
	name           string
	thresholdMsg   string
	thresholdWants []string
}

var (
	restartsMetric = metricRequirement{
		name:           "container-restarts",
		threshold:      predicate.MatchesZeroThreshold,
		thresholdWants: predicate.ZeroThresholds,
		thresholdMsg:   "The analysis template does not check for zero container restarts during rollout",
		query:          checkRestartQuery,
	}

	readyMetric = metricRequirement{
		name:           "ready-containers",
		threshold:      predicate.MatchesAtLeastOneThreshold,
		thresholdWants: predicate.AtLeastOneThresholds,
		thresholdMsg:   "The analysis template does not check for at least one ready container during rollout",
		query:          checkReadyQuery,
	}
)

func adventure01IntermediateChecks() []objective.Check {
	return []objective.Check{
		{
			Name:        "image",
			Description: "Pod info version 6.9.3 deployed successfully in both staging and production environments",
			Requires:    []string{rolloutKey},
			Run:         checkImage,
		},
		{
			Name:        restartsMetric.name,
			Description: queriesDescription,
			Requires:    []string{analysisKey},
			Run:         restartsMetric.check,
		},
		{
			Name:        readyMetric.name,
			Description: queriesDescription,
			Requires:    []string{analysisKey},
			Run:         readyMetric.check,
		},
		{
			Name: "progression",
			Description: "Rollouts automatically progress through canary stages based on health metrics\n" +
				"All rollouts complete successfully",
			Run: checkProgression,
		},
	}
}

func checkImage(_ context.Context, in objective.Input) objective.Result {
	image := in.Lookup(rolloutKey, imagePath)
	if !image.Truthy() {
		return objective.Fail(objective.ReasonFieldMissing, "Unable to find pod info image in Rollout manifest")
	}

	if image.Raw() != ExpectedImage {
		return objective.Failf(objective.ReasonValueMismatch,
			"Image and/or tag is incorrect. Found: %s. Expected: %s", image.Format(), ExpectedImage,
		).WithExcerpt(in.Manifest(rolloutKey).Excerpt(imagePath, false))
	}

	return objective.Pass(fmt.Sprintf("Correct image and tag found (%s)", ExpectedImage))
}

// findMetric returns the entry of spec.metrics named name.
func findMetric(in objective.Input, name string) (field.Value, bool) {
	metrics := in.Lookup(analysisKey, "spec.metrics")

	list, _ := metrics.List()
	for i := range list {
		m := metrics.Get(fmt.Sprintf("[%d]", i))
		if n, _ := m.Get("name").String(); n == name {
			return m, true
		}
	}

	return metrics, false
}

func (mr metricRequirement) check(_ context.Context, in objective.Input) objective.Result {
	doc := in.Manifest(analysisKey)

	metric, ok := findMetric(in, mr.name)
	if !ok {
		return objective.Failf(objective.ReasonFieldMissing,
			"Unable to find '%s' metric query in AnalysisTemplate", mr.name)
	}

	prometheus := metric.Get("provider.prometheus")
	if !prometheus.Truthy() {
		return objective.Failf(objective.ReasonFieldMissing,
			"'%s' metric does not use Prometheus as data provider", mr.name)
	}

	address := prometheus.Get("address")
	if address.Raw() != PrometheusAddress {
		return objective.Fail(objective.ReasonValueMismatch,
			"The analysis template can't read Prometheus metrics in all queries",
			fmt.Sprintf("Found: %s. Expected: %s", address.Format(), PrometheusAddress),
		).WithExcerpt(doc.Excerpt(address.Path(), false))
	}

	condition := metric.Get("successCondition")

	cond, _ := condition.String()
	if !condition.Truthy() || !mr.threshold(cond) {
		return objective.Fail(objective.ReasonPatternMismatch, mr.thresholdMsg,
			"Found: "+condition.Format(),
			"Accepted: "+strings.Join(mr.thresholdWants, ", "),
		).WithExcerpt(doc.Excerpt(condition.Path(), false))
	}

	query := prometheus.Get("query")

	q, _ := query.String()

	r := mr.query(q)
	if !r.Passed {
		r = r.WithExcerpt(doc.Excerpt(query.Path(), false))
	}

	return r
}

func checkRestartQuery(query string) objective.Result {
	if query == "" || !predicate.MatchesRestartQueryTemplate(query) {
		diff := udiff.Unified("expected", "found",
			predicate.RestartQueryTemplate+"\n",
			predicate.Normalize(query)+"\n",
		)

		return objective.Fail(objective.ReasonPatternMismatch,
			"The PromQL query to check for container restarts has been changed",
			strings.Split(strings.TrimRight(diff, "\n"), "\n")...,
		)
	}

	return objective.Pass("`container-restarts` metric query is correctly configured")
}

func checkReadyQuery(query string) objective.Result {
	missing := predicate.MissingReadyContainersClauses(query)
	if query == "" || len(missing) > 0 {
		details := make([]string, 0, len(missing))
		for _, c := range missing {
			details = append(details, fmt.Sprintf("Missing %s: %s", c.Name, c.Want))
		}

		return objective.Fail(objective.ReasonPatternMismatch,
			"The PromQL query to check for ready containers is incorrect or missing. "+
				"It should check how many containers of echo-server pods are ready in the correct namespace.",
			details...,
		)
	}

	return objective.Pass("`ready-containers` metric query is correctly configured")
}

func checkProgression(_ context.Context, in objective.Input) objective.Result {
	var failed []string

	for _, r := range in.Previous {
		if !r.Passed {
			failed = append(failed, r.Name)
		}
	}

	if len(failed) > 0 {
		return objective.Fail(objective.ReasonDependency,
			"Rollouts may not be progressing automatically due to previous errors",
			"Failed objectives: "+strings.Join(failed, ", "),
		)
	}

	return objective.Pass("Rollouts should be automatically progressing and completing successfully if all other objectives are met")
}
