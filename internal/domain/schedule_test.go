package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestScheduleDefinesEveryDay(t *testing.T) {
	schedule, err := NewSchedule(sampleData())
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}
	for d := 1; d <= TotalDays; d++ {
		day, ok := schedule.Day(d)
		if !ok {
			t.Fatalf("expected day %d to be defined", d)
		}
		if day.Day != d {
			t.Fatalf("expected day %d, got %d", d, day.Day)
		}
	}
	for _, d := range []int{0, 15, 16, 100} {
		if _, ok := schedule.Day(d); ok {
			t.Fatalf("expected day %d to be not found", d)
		}
	}
	if len(schedule.Days()) != TotalDays || schedule.Days()[0].Day != 1 {
		t.Fatalf("expected ordered days, got %d", len(schedule.Days()))
	}
}

func TestScheduleRejectsMissingOrDuplicateDays(t *testing.T) {
	data := sampleData()
	data.Days = data.Days[:13]
	if _, err := NewSchedule(data); !errors.Is(err, ErrIncompleteSchedule) {
		t.Fatalf("expected incomplete schedule, got %v", err)
	}

	data = sampleData()
	data.Days[13].Day = 1
	if _, err := NewSchedule(data); !errors.Is(err, ErrIncompleteSchedule) {
		t.Fatalf("expected duplicate day error, got %v", err)
	}

	data = sampleData()
	data.Days[0].Day = 15
	if _, err := NewSchedule(data); !errors.Is(err, ErrIncompleteSchedule) {
		t.Fatalf("expected out of range error, got %v", err)
	}
}

func TestScheduleFillsQuestionsFromBank(t *testing.T) {
	data := sampleData()
	data.Questions = []Question{{ID: "bank_1", Text: "Do you snore?", AnswerType: AnswerBoolean, Options: []string{"Yes", "No"}}}
	data.Days[2].CoreQuestions = []Question{{ID: "bank_1"}}

	schedule, err := NewSchedule(data)
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}
	day, _ := schedule.Day(3)
	if day.CoreQuestions[0].Text != "Do you snore?" || len(day.CoreQuestions[0].Options) != 2 {
		t.Fatalf("expected question filled from bank, got %+v", day.CoreQuestions[0])
	}
	if _, ok := schedule.Question("bank_1"); !ok {
		t.Fatalf("expected bank lookup to succeed")
	}

	data.Days[2].CoreQuestions = []Question{{ID: "missing"}}
	if _, err := NewSchedule(data); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected unknown question, got %v", err)
	}
}

func TestScheduleParsesSourceFormat(t *testing.T) {
	raw := `{
		"day": 4,
		"title": "Sleep Difficulties",
		"description": "Understanding your sleep patterns.",
		"core_questions": [{"id": "CORE_10", "text": "Do you have trouble falling asleep?", "answer_type": "boolean", "options": ["Yes", "No"]}],
		"possible_expansions": [{
			"trigger_question": {"id": "CORE_10", "text": "Do you have trouble falling asleep?"},
			"condition": "YES",
			"expansion_modules": [
				{"module": "INSOMNIA", "question_count": 2, "questions": [
					{"id": "INS_1", "text": "How long does it take?", "answer_type": "numeric"},
					{"id": "INS_2", "text": "How often?", "answer_type": "frequency", "options": ["Never", "Often", "Always"]}
				]}
			]
		}]
	}`
	var day DaySchedule
	if err := json.Unmarshal([]byte(raw), &day); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if day.PossibleExpansions[0].TriggerQuestionID != "CORE_10" {
		t.Fatalf("expected trigger id from embedded question, got %q", day.PossibleExpansions[0].TriggerQuestionID)
	}

	data := sampleData()
	data.Days[3] = day
	schedule, err := NewSchedule(data)
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}
	compiled, _ := schedule.Day(4)
	rule := compiled.PossibleExpansions[0]
	if rule.TotalAdditionalQuestions != 2 || rule.EstimatedAdditionalMinutes != 1 {
		t.Fatalf("expected derived totals 2/1, got %d/%d", rule.TotalAdditionalQuestions, rule.EstimatedAdditionalMinutes)
	}
	if rule.Trigger().Kind != TriggerYesEquals {
		t.Fatalf("expected compiled yes trigger, got %s", rule.Trigger().Kind)
	}
	if names := rule.ModuleNames(); len(names) != 1 || names[0] != "INSOMNIA" {
		t.Fatalf("unexpected module names %v", names)
	}
}

func TestQuestionScaleRange(t *testing.T) {
	if lo, hi := (Question{Text: "Rate from 1-10"}).ScaleRange(); lo != 1 || hi != 10 {
		t.Fatalf("expected 1..10, got %d..%d", lo, hi)
	}
	if lo, hi := (Question{Text: "How rested do you feel?"}).ScaleRange(); lo != 0 || hi != 10 {
		t.Fatalf("expected 0..10, got %d..%d", lo, hi)
	}
}

func sampleData() ScheduleData {
	days := make([]DaySchedule, 0, TotalDays)
	for d := 1; d <= TotalDays; d++ {
		days = append(days, DaySchedule{
			Day:   d,
			Title: fmt.Sprintf("Day %d", d),
			CoreQuestions: []Question{
				{ID: fmt.Sprintf("d%d_q1", d), Text: "How did you sleep?", AnswerType: AnswerText},
			},
		})
	}
	return ScheduleData{Days: days}
}
