package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// TriggerKind enumerates the condition forms understood by expansion rules.
type TriggerKind int

const (
	TriggerNever TriggerKind = iota
	TriggerYesEquals
	TriggerFrequencyIn
	TriggerNumericGreaterThan
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerYesEquals:
		return "yes"
	case TriggerFrequencyIn:
		return "often_or_always"
	case TriggerNumericGreaterThan:
		return "greater_than"
	default:
		return "never"
	}
}

// Trigger is a compiled expansion condition.
type Trigger struct {
	Kind      TriggerKind
	Threshold float64
	// valid is false when a ">" condition carried no parseable threshold.
	valid bool
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseCondition compiles a condition string. Checks run in priority order:
// YES, then OFTEN/ALWAYS, then ">" threshold; anything else never fires.
func ParseCondition(condition string) Trigger {
	cond := strings.ToUpper(condition)
	switch {
	// "ANY YES" is matched by the plain YES check and behaves the same.
	case strings.Contains(cond, "ANY YES"), strings.Contains(cond, "YES"):
		return Trigger{Kind: TriggerYesEquals, valid: true}
	case strings.Contains(cond, "OFTEN"), strings.Contains(cond, "ALWAYS"):
		return Trigger{Kind: TriggerFrequencyIn, valid: true}
	case strings.Contains(cond, ">"):
		parts := strings.SplitN(cond, ">", 3)
		threshold, ok := parseLeadingFloat(parts[1])
		return Trigger{Kind: TriggerNumericGreaterThan, Threshold: threshold, valid: ok}
	}
	return Trigger{Kind: TriggerNever}
}

// Matches reports whether a recorded answer satisfies the trigger.
func (t Trigger) Matches(value string) bool {
	switch t.Kind {
	case TriggerYesEquals:
		return strings.ToUpper(value) == "YES"
	case TriggerFrequencyIn:
		v := strings.ToUpper(value)
		return v == "OFTEN" || v == "ALWAYS"
	case TriggerNumericGreaterThan:
		if !t.valid {
			return false
		}
		n, ok := parseLeadingFloat(value)
		return ok && n > t.Threshold
	}
	return false
}

// Evaluate parses condition and applies it to value.
func Evaluate(condition, value string) bool {
	return ParseCondition(condition).Matches(value)
}

// parseLeadingFloat reads the number at the start of s, ignoring leading
// whitespace and anything after the number.
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
