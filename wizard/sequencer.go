package wizard

import (
	"errors"
	"fmt"

	"DatePlanBot/model"
)

var (
	ErrStepIncomplete   = errors.New("step is incomplete")
	ErrGenerateRequired = errors.New("location step is left by generating the plan")
	ErrFinished         = errors.New("wizard is already finished")
	ErrNotAtLocation    = errors.New("plan can only be generated from the location step")
)

// Sequencer is the step pointer together with the answers it gates on.
type Sequencer struct {
	step    Step
	answers model.Answers
}

func NewSequencer() *Sequencer {
	return &Sequencer{step: StepIntro}
}

func (s *Sequencer) Step() Step {
	return s.step
}

func (s *Sequencer) Answers() model.Answers {
	return s.answers
}

// Update replaces the answers with edit(current).
func (s *Sequencer) Update(edit func(model.Answers) model.Answers) model.Answers {
	s.answers = edit(s.answers)
	return s.answers
}

// Advance moves to the next step when the current one is complete.
func (s *Sequencer) Advance() error {
	switch s.step {
	case StepDone:
		return ErrFinished
	case StepLocation:
		return ErrGenerateRequired
	}
	if !s.step.Ready(s.answers) {
		return fmt.Errorf("%s: %w", s.step, ErrStepIncomplete)
	}
	s.step = steps[s.step].next
	return nil
}

// Retreat moves to the previous step. It reports false at Intro, where
// there is nothing to go back to.
func (s *Sequencer) Retreat() bool {
	if s.step == StepIntro {
		return false
	}
	s.step = steps[s.step].prev
	return true
}

// Finish runs gen on the answers and, if it succeeds, moves to Done.
// At Done it runs gen again without changing the step.
func (s *Sequencer) Finish(gen func(model.Answers) error) error {
	switch s.step {
	case StepLocation:
		if !s.step.Ready(s.answers) {
			return fmt.Errorf("%s: %w", s.step, ErrStepIncomplete)
		}
	case StepDone:
	default:
		return fmt.Errorf("at %s: %w", s.step, ErrNotAtLocation)
	}
	if err := gen(s.answers); err != nil {
		return err
	}
	s.step = StepDone
	return nil
}
