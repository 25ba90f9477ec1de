package wizard

import "DatePlanBot/model"

// Step is one screen of the wizard.
type Step int

const (
	StepIntro Step = iota
	StepDateTime
	StepCuisine
	StepDessert
	StepActivities
	StepLocation
	StepDone
)

type transition struct {
	name  string
	prev  Step
	next  Step
	ready func(model.Answers) bool
}

func always(model.Answers) bool { return true }

// steps is the total order of the wizard. Intro has no predecessor and
// Done no successor; both point at themselves.
var steps = [...]transition{
	StepIntro:      {name: "intro", prev: StepIntro, next: StepDateTime, ready: model.Answers.HasRecipient},
	StepDateTime:   {name: "date", prev: StepIntro, next: StepCuisine, ready: func(a model.Answers) bool { return a.When != nil }},
	StepCuisine:    {name: "cuisine", prev: StepDateTime, next: StepDessert, ready: func(a model.Answers) bool { return a.Cuisine != "" }},
	StepDessert:    {name: "dessert", prev: StepCuisine, next: StepActivities, ready: func(a model.Answers) bool { return a.Dessert != "" }},
	StepActivities: {name: "places", prev: StepDessert, next: StepLocation, ready: always},
	StepLocation:   {name: "location", prev: StepActivities, next: StepDone, ready: func(a model.Answers) bool { return a.Place != nil }},
	StepDone:       {name: "end", prev: StepLocation, next: StepDone, ready: always},
}

// Steps lists every step in wizard order.
func Steps() []Step {
	out := make([]Step, len(steps))
	for i := range steps {
		out[i] = Step(i)
	}
	return out
}

func (s Step) Valid() bool {
	return s >= StepIntro && s <= StepDone
}

func (s Step) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return steps[s].name
}

// Ready reports whether a holds everything needed to leave s forward.
func (s Step) Ready(a model.Answers) bool {
	return s.Valid() && steps[s].ready(a)
}
