/*
Package runner drives a machine from the outside.

The engine itself has no step limit: Machine.Run never returns for a machine
that does not halt. The runner is the caller-side loop that adds the controls
a host program needs.

# Key Components

  - Run: steps a machine until it halts, the context is cancelled or the step
    budget is exhausted.
  - Result: the machine configuration at the point the loop stopped.
  - SignalManager: turns SIGINT/SIGTERM into context cancellation for CLIs.

A transition function that has no rule for the current (state, symbol) pair
panics with *domain.MissingTransitionError; Run recovers it and returns it as
an ordinary error alongside the partial Result.

# Usage

	res, err := runner.Run(ctx, m, runner.WithBudget(10_000))
	var budget *domain.BudgetExceededError
	if errors.As(err, &budget) {
		log.Printf("gave up after %d steps in state %s", budget.Budget, budget.State)
	}
	fmt.Println(res.Tape)
*/
package runner
