package odal

import (
	"regexp"
	"strconv"
	"strings"

	"sentinel-hq/minerva/pkg/policy"
)

// keyword cost table for the heuristic classifier. Destructive actions
// carry no direct cost; their risk is expressed through policy rules.
const (
	deployCost = 100
	scaleCost  = 200
)

var instanceCount = regexp.MustCompile(`\b(\d+)\b`)

// KeywordClassifier is the deterministic substring classifier. It is
// deliberately not an NLP system: the governance core needs a structured
// proposal to evaluate, not an understanding of the request.
type KeywordClassifier struct{}

// Classify maps input keywords to an action proposal.
//
// "deploy" tags a deploy at cost 100, "scale" a scale at cost 200 (with the
// first number in the input taken as the requested instance count),
// "delete"/"remove" a delete at cost 0; anything else is unknown at cost 0.
// "production"/"prod" retargets the environment and doubles the estimated
// cost.
func (KeywordClassifier) Classify(input string) policy.Action {
	lower := strings.ToLower(input)

	action := policy.Action{
		Type:        "unknown",
		Environment: "development",
		Input:       input,
	}

	switch {
	case strings.Contains(lower, "deploy"):
		action.Type = "deploy"
		action.EstimatedCost = deployCost
	case strings.Contains(lower, "scale"):
		action.Type = "scale"
		action.EstimatedCost = scaleCost
		if m := instanceCount.FindString(lower); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				action.RequestedInstances = n
			}
		}
	case strings.Contains(lower, "delete"), strings.Contains(lower, "remove"):
		action.Type = "delete"
	}

	if strings.Contains(lower, "production") || strings.Contains(lower, "prod") {
		action.Environment = "production"
		action.EstimatedCost *= 2
	}

	return action
}
