package wizard

import (
	"context"

	"github.com/mmynk/schoolfees/internal/apperr"
	"github.com/mmynk/schoolfees/internal/models"
)

// Creator persists the reviewed structure and returns the physical structures created.
type Creator func(ctx context.Context, form ReviewFields) ([]models.FeeStructure, error)

// Machine drives one wizard session. It is not safe for concurrent use; the caller
// issues one transition at a time.
type Machine struct {
	state State
}

// New opens a wizard on the setup step.
func New() *Machine {
	return &Machine{state: Initial()}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Step returns the current step.
func (m *Machine) Step() Step {
	return m.state.Step
}

// Dispatch applies updates in order.
func (m *Machine) Dispatch(updates ...Update) {
	for _, u := range updates {
		m.state = Apply(m.state, u)
	}
}

// Next moves one step forward when the current step validates.
func (m *Machine) Next() error {
	if m.state.Step == StepReview {
		return apperr.Validationf("already on the review step")
	}
	if err := validator(m.state.Step)(m.state); err != nil {
		return err
	}
	m.state.Step++
	return nil
}

// Back moves one step backward. Entered fields are kept.
func (m *Machine) Back() error {
	if m.state.Step == StepSetup {
		return apperr.Validationf("already on the setup step")
	}
	m.state.Step--
	return nil
}

// Submit validates every step and hands the reviewed fields to create. On success the
// wizard is reset to its initial state; on failure the state is kept for a retry.
func (m *Machine) Submit(ctx context.Context, create Creator) ([]models.FeeStructure, error) {
	if m.state.Step != StepReview {
		return nil, apperr.Validationf("submit is only allowed on the review step, current step is %s", m.state.Step)
	}
	form := m.state.Review()
	if err := ValidateReview(form); err != nil {
		return nil, err
	}

	created, err := create(ctx, form)
	if err != nil {
		return created, err
	}

	m.state = Initial()
	return created, nil
}
