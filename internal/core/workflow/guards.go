package workflow

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// TransitionContext provides context for status transition guards.
type TransitionContext struct {
	ReceiptNumber  string
	CurrentStatus  string
	NewStatus      string
	ActorRole      string
	HasCertificate bool
}

// CanLeaveCompletion evaluates whether a record may change status at all.
// Rules:
// - A record holding an issued certificate stays completed
func CanLeaveCompletion(ctx TransitionContext) GuardResult {
	if ctx.HasCertificate && ctx.NewStatus != StatusAfterIssuance {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("land request %s already holds a patta certificate (status is terminal)", ctx.ReceiptNumber),
		}
	}
	return GuardResult{Allowed: true}
}

// CanTransition evaluates a move against the transition table.
// Rules:
// - Some rule for the current status (or "*") must list the new status
// - When that rule names roles, the actor's role must be among them
func CanTransition(table *Table, ctx TransitionContext) GuardResult {
	rules := table.rulesFor(ctx.CurrentStatus)
	if len(rules) == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("no transitions allowed from status %q", ctx.CurrentStatus),
		}
	}

	targetKnown := false
	for _, rule := range rules {
		if !rule.allowsTarget(ctx.NewStatus) {
			continue
		}
		targetKnown = true
		if rule.allowsRole(ctx.ActorRole) {
			return GuardResult{Allowed: true}
		}
	}

	if !targetKnown {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("transition %q -> %q is not allowed", ctx.CurrentStatus, ctx.NewStatus),
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("role %q may not move %q -> %q", ctx.ActorRole, ctx.CurrentStatus, ctx.NewStatus),
	}
}
