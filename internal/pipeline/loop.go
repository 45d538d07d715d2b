// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

// maxIterations is the hard cap on draft cycles. It is the only
// safeguard against unbounded looping and overrides every other signal.
const maxIterations = 3

// decision is the loop controller's verdict after a verify pass.
type decision int

const (
	decisionRetry decision = iota
	decisionFinalize
)

func (d decision) String() string {
	if d == decisionRetry {
		return "retry"
	}
	return "finalize"
}

// decide is a pure function over the current state; it mutates nothing.
// First match wins:
//  1. iteration cap reached -> finalize, regardless of quality signals
//  2. critic verdict failed -> retry
//  3. any unsupported claim -> retry
//  4. otherwise -> finalize
func decide(st *State) decision {
	if st.Iteration >= maxIterations {
		return decisionFinalize
	}
	if st.CriticFeedback != nil && !st.CriticFeedback.Passed {
		return decisionRetry
	}
	for _, draft := range st.Drafts {
		for _, claim := range draft.Claims {
			if !claim.IsSupported {
				return decisionRetry
			}
		}
	}
	return decisionFinalize
}
