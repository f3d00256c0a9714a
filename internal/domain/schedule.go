package domain

import (
	"fmt"
	"sort"
)

// Schedule is the compiled, read-only 14-day plan.
type Schedule struct {
	days map[int]DaySchedule
	bank map[string]Question
}

// NewSchedule validates raw schedule data, fills id-only questions from the
// question bank and compiles every expansion condition.
func NewSchedule(data ScheduleData) (Schedule, error) {
	bank := make(map[string]Question, len(data.Questions))
	for _, q := range data.Questions {
		bank[q.ID] = q
	}

	days := make(map[int]DaySchedule, TotalDays)
	for _, raw := range data.Days {
		if raw.Day < 1 || raw.Day > TotalDays {
			return Schedule{}, fmt.Errorf("day %d: %w", raw.Day, ErrIncompleteSchedule)
		}
		if _, dup := days[raw.Day]; dup {
			return Schedule{}, fmt.Errorf("day %d defined twice: %w", raw.Day, ErrIncompleteSchedule)
		}
		day, err := compileDay(raw, bank)
		if err != nil {
			return Schedule{}, fmt.Errorf("day %d: %w", raw.Day, err)
		}
		days[raw.Day] = day
	}
	for d := 1; d <= TotalDays; d++ {
		if _, ok := days[d]; !ok {
			return Schedule{}, fmt.Errorf("day %d missing: %w", d, ErrIncompleteSchedule)
		}
	}
	return Schedule{days: days, bank: bank}, nil
}

// Day returns the definition for day n. ok is false outside 1..14, which
// callers treat as the end of the journey.
func (s Schedule) Day(n int) (DaySchedule, bool) {
	day, ok := s.days[n]
	return day, ok
}

// Days returns all day definitions in day order.
func (s Schedule) Days() []DaySchedule {
	out := make([]DaySchedule, 0, len(s.days))
	for _, d := range s.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Question looks up a bank entry by id.
func (s Schedule) Question(id string) (Question, bool) {
	q, ok := s.bank[id]
	return q, ok
}

func compileDay(raw DaySchedule, bank map[string]Question) (DaySchedule, error) {
	day := raw
	core, err := fillQuestions(raw.CoreQuestions, bank)
	if err != nil {
		return DaySchedule{}, err
	}
	day.CoreQuestions = core

	day.PossibleExpansions = make([]ExpansionRule, 0, len(raw.PossibleExpansions))
	for _, r := range raw.PossibleExpansions {
		rule := r
		rule.Modules = make([]Module, 0, len(r.Modules))
		added := 0
		for _, m := range r.Modules {
			qs, err := fillQuestions(m.Questions, bank)
			if err != nil {
				return DaySchedule{}, fmt.Errorf("module %s: %w", m.Name, err)
			}
			added += len(qs)
			rule.Modules = append(rule.Modules, Module{Name: m.Name, Questions: qs})
		}
		if rule.TotalAdditionalQuestions == 0 {
			rule.TotalAdditionalQuestions = added
		}
		if rule.EstimatedAdditionalMinutes == 0 {
			rule.EstimatedAdditionalMinutes = rule.TotalAdditionalQuestions / 2
		}
		rule.compile()
		day.PossibleExpansions = append(day.PossibleExpansions, rule)
	}
	return day, nil
}

func fillQuestions(in []Question, bank map[string]Question) ([]Question, error) {
	out := make([]Question, 0, len(in))
	for _, q := range in {
		if q.Text == "" {
			full, ok := bank[q.ID]
			if !ok {
				return nil, fmt.Errorf("%s: %w", q.ID, ErrUnknownQuestion)
			}
			q = full
		}
		q.Options = append([]string(nil), q.Options...)
		out = append(out, q)
	}
	return out, nil
}
