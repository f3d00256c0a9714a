package app

import (
	"sort"
	"strings"
	"time"

	"adaptive-assessment-service/internal/domain"
)

// Session is the mutable progress record of one respondent's journey.
// It is owned by a single Controller and is not safe for concurrent use.
type Session struct {
	currentDay   int
	responses    map[string]domain.Response
	expansionLog []domain.ExpansionEvent
	profile      domain.UserProfile
	now          func() time.Time
}

// NewSession starts an empty journey at day 1.
func NewSession() *Session {
	return NewSessionWithClock(time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(now func() time.Time) *Session {
	return &Session{
		currentDay: 1,
		responses:  make(map[string]domain.Response),
		now:        now,
	}
}

// RestoreSession rebuilds a session from its persisted form.
func RestoreSession(p domain.Progress, now func() time.Time) *Session {
	s := NewSessionWithClock(now)
	if p.CurrentDay >= 1 {
		s.currentDay = min(p.CurrentDay, domain.FinishedDay)
	}
	for id, r := range p.UserResponses {
		s.responses[id] = r
	}
	s.expansionLog = append(s.expansionLog, p.ExpansionsTriggered...)
	s.profile = p.UserData
	return s
}

// Start records the respondent profile. It is only allowed once per journey.
func (s *Session) Start(name, email string) error {
	if s.profile.Name != "" {
		return domain.ErrAlreadyStarted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrNameRequired
	}
	s.profile = domain.UserProfile{
		Name:      name,
		Email:     strings.TrimSpace(email),
		StartedAt: s.now(),
	}
	return nil
}

// RecordResponse stores value for question, replacing any previous answer.
// The day of the first answer is kept on overwrite.
func (s *Session) RecordResponse(question domain.Question, value string, day int) domain.Response {
	if prev, ok := s.responses[question.ID]; ok {
		day = prev.Day
	}
	r := domain.Response{
		QuestionID:   question.ID,
		QuestionText: question.Text,
		Value:        value,
		Day:          day,
		Timestamp:    s.now(),
	}
	s.responses[question.ID] = r
	return r
}

// ReplaceExpansionEvents swaps the log entries for day with events.
func (s *Session) ReplaceExpansionEvents(day int, events []domain.ExpansionEvent) {
	kept := s.expansionLog[:0:0]
	for _, e := range s.expansionLog {
		if e.Day != day {
			kept = append(kept, e)
		}
	}
	for _, e := range events {
		e.Day = day
		kept = append(kept, e)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Day < kept[j].Day })
	s.expansionLog = kept
}

// AdvanceDay moves to the next day, stopping at the finished marker.
func (s *Session) AdvanceDay() int {
	if s.currentDay < domain.FinishedDay {
		s.currentDay++
	}
	return s.currentDay
}

// CurrentDay returns the day in progress, or FinishedDay.
func (s *Session) CurrentDay() int { return s.currentDay }

// Profile returns the respondent profile.
func (s *Session) Profile() domain.UserProfile { return s.profile }

// Response returns the recorded answer for a question.
func (s *Session) Response(questionID string) (domain.Response, bool) {
	r, ok := s.responses[questionID]
	return r, ok
}

// Responses returns a copy of all recorded answers.
func (s *Session) Responses() map[string]domain.Response {
	out := make(map[string]domain.Response, len(s.responses))
	for id, r := range s.responses {
		out[id] = r
	}
	return out
}

// ExpansionLog returns a copy of the expansion log.
func (s *Session) ExpansionLog() []domain.ExpansionEvent {
	return append([]domain.ExpansionEvent(nil), s.expansionLog...)
}

// EventsForDay returns the expansion events recorded for day.
func (s *Session) EventsForDay(day int) []domain.ExpansionEvent {
	var out []domain.ExpansionEvent
	for _, e := range s.expansionLog {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot returns the persisted form of the session.
func (s *Session) Snapshot() domain.Progress {
	return domain.Progress{
		CurrentDay:          s.currentDay,
		UserResponses:       s.Responses(),
		UserData:            s.profile,
		ExpansionsTriggered: s.ExpansionLog(),
		LastUpdated:         s.now(),
	}
}
