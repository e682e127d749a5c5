/*
Package command implements reified, undoable operations and the invoker
that records them.

A Command pairs a forward operation with its exact inverse. The Invoker
executes commands and keeps them on a history stack; Undo pops the most
recent command and runs its inverse. Undoing an empty history is a signal
(domain.ErrNothingToUndo), not a failure.

Macro groups commands into one unit: members execute in declared order and
undo in strictly reversed order, which keeps non-commutative sequences
correct. If a member fails mid-execute, the already-executed members are
compensated in reverse before the error is returned.
*/
package command
