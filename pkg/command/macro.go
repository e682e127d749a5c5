package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/triagekit/triage/pkg/ports"
)

// Macro is a composite command. Members execute in declared order and undo
// in strictly reversed order. The reversal matters whenever members are not
// commutative: the net effect of the macro is only invertible back-to-front.
type Macro struct {
	name    string
	members []ports.Command
}

// NewMacro groups the given commands under one name.
func NewMacro(name string, members ...ports.Command) *Macro {
	return &Macro{name: name, members: members}
}

// Name returns the macro's name.
func (m *Macro) Name() string {
	return m.name
}

// Members returns the member command names in execution order.
func (m *Macro) Members() []string {
	names := make([]string, len(m.members))
	for i, c := range m.members {
		names[i] = c.Name()
	}
	return names
}

// Execute runs members in order. If member i fails, members i-1..0 are
// compensated in reverse so the receiver is never left half-mutated.
// Compensation failures are joined onto the original error.
func (m *Macro) Execute(ctx context.Context) error {
	for i, member := range m.members {
		err := member.Execute(ctx)
		if err == nil {
			continue
		}
		err = fmt.Errorf("macro %s: member %s: %w", m.name, member.Name(), err)

		// Unwind the members that already ran.
		for j := i - 1; j >= 0; j-- {
			if undoErr := m.members[j].Undo(ctx); undoErr != nil {
				err = errors.Join(err, fmt.Errorf("compensating %s: %w", m.members[j].Name(), undoErr))
			}
		}
		return err
	}
	return nil
}

// Undo reverses all members back-to-front.
func (m *Macro) Undo(ctx context.Context) error {
	for i := len(m.members) - 1; i >= 0; i-- {
		if err := m.members[i].Undo(ctx); err != nil {
			return fmt.Errorf("macro %s: undo %s: %w", m.name, m.members[i].Name(), err)
		}
	}
	return nil
}
