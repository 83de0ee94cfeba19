package insight

import (
	"strings"

	"supptruth/domain/core"
	"supptruth/domain/effect"
)

// Input carries everything the rule tables key on: the supplement's mechanism
// metadata, the primary metric, and the observed direction.
type Input struct {
	MechanismTags  []string
	PathwaySummary string
	Metric         core.MetricKey
	Direction      effect.Direction
}

// HasTag reports whether the supplement metadata carries a mechanism tag,
// case-insensitively
func (in Input) HasTag(tag string) bool {
	for _, t := range in.MechanismTags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}

// Rule pairs a predicate with explanatory copy. Rules are evaluated
// top-to-bottom; the first match wins.
type Rule struct {
	Name     string
	Matches  func(in Input) bool
	Template string
}

// Explainer resolves mechanism and biology copy from ordered rule tables.
// It is a pure lookup, kept swappable so copy changes never touch the
// statistics engine.
type Explainer struct {
	mechanismRules []Rule
	biologyRules   []Rule
}

// NewExplainer creates an explainer with the default rule tables
func NewExplainer() *Explainer {
	return &Explainer{
		mechanismRules: defaultMechanismRules,
		biologyRules:   defaultBiologyRules,
	}
}

// NewExplainerWithRules creates an explainer with custom tables, for tests
// and future copy experiments
func NewExplainerWithRules(mechanism, biology []Rule) *Explainer {
	return &Explainer{mechanismRules: mechanism, biologyRules: biology}
}

// Mechanism returns the mechanism explanation for the observed result
func (e *Explainer) Mechanism(in Input) string {
	return firstMatch(e.mechanismRules, in, genericMechanism)
}

// Biology returns the longer-form biology explanation for the observed
// result. When no rule matches, a curated pathway summary from the canonical
// supplement record takes precedence over the generic fallback.
func (e *Explainer) Biology(in Input) string {
	fallback := genericBiology
	if s := strings.TrimSpace(in.PathwaySummary); s != "" {
		fallback = s
	}
	return firstMatch(e.biologyRules, in, fallback)
}

func firstMatch(rules []Rule, in Input, fallback string) string {
	for _, r := range rules {
		if r.Matches(in) {
			return r.Template
		}
	}
	return fallback
}

const (
	genericMechanism = "Your response pattern matches a general responder profile for this supplement."
	genericBiology   = "Individual biochemistry varies widely; your data shows how this supplement behaves in your system, which is more reliable than population averages."
)

var defaultMechanismRules = []Rule{
	{
		Name: "gaba_sleep_positive",
		Matches: func(in Input) bool {
			return in.HasTag("gaba") && in.Metric == core.MetricSleepQuality && in.Direction == effect.DirectionPositive
		},
		Template: "This supplement appears to work through GABA-pathway modulation, which is consistent with the sleep improvement in your data.",
	},
	{
		Name: "gaba_calm_positive",
		Matches: func(in Input) bool {
			return in.HasTag("gaba") && in.Metric == core.MetricMood && in.Direction == effect.DirectionPositive
		},
		Template: "GABA-pathway supplements tend to reduce neural excitability; your mood data suggests you respond to that calming mechanism.",
	},
	{
		Name: "dopamine_focus_positive",
		Matches: func(in Input) bool {
			return in.HasTag("dopamine") && in.Metric == core.MetricFocus && in.Direction == effect.DirectionPositive
		},
		Template: "Dopamine-precursor pathways support attention and drive, which matches the focus gains in your data.",
	},
	{
		Name: "mitochondrial_energy_positive",
		Matches: func(in Input) bool {
			return in.HasTag("mitochondrial") && in.Metric == core.MetricEnergy && in.Direction == effect.DirectionPositive
		},
		Template: "This supplement supports mitochondrial ATP production, consistent with the energy improvement you measured.",
	},
	{
		Name: "adaptogen_energy",
		Matches: func(in Input) bool {
			return in.HasTag("adaptogen") && in.Metric == core.MetricEnergy
		},
		Template: "Adaptogens modulate the stress response rather than stimulating directly; effects on energy are typically gradual and vary by baseline stress load.",
	},
	{
		Name: "stimulant_sleep_negative",
		Matches: func(in Input) bool {
			return in.HasTag("stimulant") && in.Metric == core.MetricSleepQuality && in.Direction == effect.DirectionNegative
		},
		Template: "Stimulant-pathway supplements commonly degrade sleep when dosed late in the day; your data shows that cost clearly.",
	},
	{
		Name: "any_negative",
		Matches: func(in Input) bool {
			return in.Direction == effect.DirectionNegative
		},
		Template: "Your data shows this supplement moving the metric the wrong way; paradoxical responses are documented for many compounds and are worth taking seriously.",
	},
}

var defaultBiologyRules = []Rule{
	{
		Name: "gaba",
		Matches: func(in Input) bool {
			return in.HasTag("gaba")
		},
		Template: "GABA is the brain's primary inhibitory neurotransmitter. Compounds that enhance GABAergic signaling reduce the time to sleep onset and deepen slow-wave sleep in responders, though receptor sensitivity varies by individual.",
	},
	{
		Name: "dopamine",
		Matches: func(in Input) bool {
			return in.HasTag("dopamine")
		},
		Template: "Dopaminergic compounds influence motivation, working memory, and sustained attention. Response depends heavily on baseline dopamine tone, which is why the same supplement can be transformative for one person and inert for another.",
	},
	{
		Name: "mitochondrial",
		Matches: func(in Input) bool {
			return in.HasTag("mitochondrial")
		},
		Template: "Cellular energy production runs through the mitochondrial electron transport chain. Cofactors that support it tend to show effects over weeks rather than days, and most clearly in people with a depleted baseline.",
	},
}

// Recommend returns the next-step recommendation for a verdict status
func Recommend(status effect.TruthStatus, metricLabel string) string {
	switch status {
	case effect.StatusTooEarly:
		return "Keep logging daily check-ins. A few more ON and OFF days will let the analysis reach a verdict."
	case effect.StatusConfounded:
		return "Your data is too noisy to trust yet. Try holding other variables steady for two weeks, and log confound days honestly."
	case effect.StatusNoDetectableEffect:
		return "No measurable effect on " + metricLabel + " so far. Consider whether this supplement earns its place in your stack, or test a higher-leverage change."
	case effect.StatusProvenPositive:
		return "This supplement measurably improves your " + metricLabel + ". Keep it in your stack and consider retesting in a few months to confirm the effect holds."
	case effect.StatusNegative:
		return "This supplement measurably worsens your " + metricLabel + ". Consider stopping it and retesting after a washout period."
	}
	return "Keep logging daily check-ins."
}
