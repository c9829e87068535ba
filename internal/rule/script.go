package rule

import "context"

// Script is a scripted Engine for tests: each expression maps to a fixed
// verdict, and every invocation is recorded so callers can assert that a rule
// was evaluated exactly once per request. Expressions not in Verdicts resolve
// to the caller default, like an unconfigured or failing rule.
type Script struct {
	Verdicts map[string]bool
	Calls    []string
}

var _ Engine = (*Script)(nil)

// Evaluate records the invocation and returns the scripted verdict, or def
// when the expression has no script entry.
func (s *Script) Evaluate(_ context.Context, expression string, _ EvaluableContext, def bool) bool {
	s.Calls = append(s.Calls, expression)
	if v, ok := s.Verdicts[expression]; ok {
		return v
	}
	return def
}

// CallCount returns how many times expression was evaluated.
func (s *Script) CallCount(expression string) int {
	n := 0
	for _, c := range s.Calls {
		if c == expression {
			n++
		}
	}
	return n
}
