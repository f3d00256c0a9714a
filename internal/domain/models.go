package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// AnswerType describes how a question expects to be answered.
type AnswerType string

const (
	AnswerBoolean      AnswerType = "boolean"
	AnswerFrequency    AnswerType = "frequency"
	AnswerSingleChoice AnswerType = "single_choice"
	AnswerScale        AnswerType = "scale"
	AnswerNumeric      AnswerType = "numeric"
	AnswerEmail        AnswerType = "email"
	AnswerDate         AnswerType = "date"
	AnswerText         AnswerType = "text"
)

// TotalDays is the length of the assessment journey.
const TotalDays = 14

// FinishedDay marks a journey whose last day has been completed.
const FinishedDay = TotalDays + 1

// Question is a single entry of the question bank.
type Question struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	AnswerType AnswerType `json:"answer_type"`
	Options    []string   `json:"options"`
	Section    string     `json:"section,omitempty"`
	Module     string     `json:"module,omitempty"`
}

// IsChoice reports whether the answer is picked from Options.
func (q Question) IsChoice() bool {
	switch q.AnswerType {
	case AnswerBoolean, AnswerFrequency, AnswerSingleChoice:
		return len(q.Options) > 0
	}
	return false
}

// ScaleRange returns the bounds offered for scale questions.
func (q Question) ScaleRange() (int, int) {
	text := strings.ToLower(q.Text)
	if strings.Contains(text, "1-10") || strings.Contains(text, "1 to 10") {
		return 1, 10
	}
	return 0, 10
}

// Module is a named bundle of questions added by a fired expansion rule.
type Module struct {
	Name      string     `json:"module"`
	Questions []Question `json:"questions"`
}

// ExpansionRule adds modules to a day when the trigger question's answer meets Condition.
type ExpansionRule struct {
	TriggerQuestionID          string   `json:"trigger_question_id"`
	Condition                  string   `json:"condition"`
	Modules                    []Module `json:"expansion_modules"`
	TotalAdditionalQuestions   int      `json:"total_additional_questions"`
	EstimatedAdditionalMinutes int      `json:"estimated_additional_minutes"`

	trigger  Trigger
	compiled bool
}

// UnmarshalJSON accepts both trigger_question_id and the embedded trigger_question object.
func (r *ExpansionRule) UnmarshalJSON(data []byte) error {
	type plain ExpansionRule
	var raw struct {
		plain
		TriggerQuestion *struct {
			ID string `json:"id"`
		} `json:"trigger_question"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = ExpansionRule(raw.plain)
	if r.TriggerQuestionID == "" && raw.TriggerQuestion != nil {
		r.TriggerQuestionID = raw.TriggerQuestion.ID
	}
	return nil
}

// Trigger returns the compiled condition, parsing it if the rule was built by hand.
func (r ExpansionRule) Trigger() Trigger {
	if r.compiled {
		return r.trigger
	}
	return ParseCondition(r.Condition)
}

// ModuleNames lists the rule's modules in order.
func (r ExpansionRule) ModuleNames() []string {
	names := make([]string, 0, len(r.Modules))
	for _, m := range r.Modules {
		names = append(names, m.Name)
	}
	return names
}

func (r *ExpansionRule) compile() {
	r.trigger = ParseCondition(r.Condition)
	r.compiled = true
}

// DaySchedule is the fixed set of questions and rules for one day.
type DaySchedule struct {
	Day                int             `json:"day"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	CoreQuestions      []Question      `json:"core_questions"`
	PossibleExpansions []ExpansionRule `json:"possible_expansions"`
	EstimatedMinutes   int             `json:"estimated_minutes,omitempty"`
}

// ScheduleData is the raw schedule plus question bank as read from a source.
type ScheduleData struct {
	Days      []DaySchedule `json:"days"`
	Questions []Question    `json:"questions"`
}

// Response is a recorded answer.
type Response struct {
	QuestionID   string    `json:"question_id"`
	QuestionText string    `json:"question_text"`
	Value        string    `json:"response"`
	Day          int       `json:"day"`
	Timestamp    time.Time `json:"timestamp"`
}

// ExpansionEvent records which modules a day's rules activated.
type ExpansionEvent struct {
	Day           int      `json:"day"`
	ModuleNames   []string `json:"modules"`
	QuestionCount int      `json:"questionCount"`
}

// UserProfile identifies the respondent.
type UserProfile struct {
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	StartedAt time.Time `json:"startedAt,omitempty"`
}

// Progress is the persisted form of a session.
type Progress struct {
	CurrentDay          int                 `json:"currentDay"`
	UserResponses       map[string]Response `json:"userResponses"`
	UserData            UserProfile         `json:"userData"`
	ExpansionsTriggered []ExpansionEvent    `json:"expansionsTriggered"`
	LastUpdated         time.Time           `json:"lastUpdated"`
}

// Resumable reports whether the record belongs to a started journey.
func (p Progress) Resumable() bool {
	return strings.TrimSpace(p.UserData.Name) != ""
}

// Export is the downloadable results document.
type Export struct {
	UserData            UserProfile         `json:"userData"`
	CurrentDay          int                 `json:"currentDay"`
	Responses           map[string]Response `json:"responses"`
	ExpansionsTriggered []ExpansionEvent    `json:"expansionsTriggered"`
	CompletedAt         time.Time           `json:"completedAt"`
}
