package app

import (
	"context"
	"math"
	"strings"
	"time"

	"adaptive-assessment-service/internal/domain"
	"github.com/charmbracelet/log"
)

// Phase is the controller's position in the journey.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseDayIntro
	PhaseQuestion
	PhaseDayComplete
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseDayIntro:
		return "day_intro"
	case PhaseQuestion:
		return "question"
	case PhaseDayComplete:
		return "day_complete"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// ProgressStore persists the full session snapshot under a single key.
type ProgressStore interface {
	Load(ctx context.Context) (domain.Progress, error)
	Save(ctx context.Context, progress domain.Progress) error
	Delete(ctx context.Context) error
}

// Controller drives one respondent through the schedule. Every action runs
// one transition to completion; it is not safe for concurrent use.
type Controller struct {
	schedule domain.Schedule
	store    ProgressStore
	logger   *log.Logger
	now      func() time.Time

	session  *Session
	pending  *domain.Progress
	phase    Phase
	day      domain.DaySchedule
	queue    []domain.Question
	fired    []domain.ExpansionRule
	index    int
	dayStart time.Time
}

// NewController returns a controller in the NotStarted phase. A resumable
// persisted record, if given, is offered through Resume.
func NewController(schedule domain.Schedule, store ProgressStore, persisted *domain.Progress, logger *log.Logger) *Controller {
	return NewControllerWithClock(schedule, store, persisted, logger, time.Now)
}

// NewControllerWithClock allows deterministic timestamps in tests.
func NewControllerWithClock(schedule domain.Schedule, store ProgressStore, persisted *domain.Progress, logger *log.Logger, now func() time.Time) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	c := &Controller{
		schedule: schedule,
		store:    store,
		logger:   logger,
		now:      now,
		session:  NewSessionWithClock(now),
		phase:    PhaseNotStarted,
	}
	if persisted != nil && persisted.Resumable() {
		p := *persisted
		c.pending = &p
	}
	return c
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Session exposes the session for read access.
func (c *Controller) Session() *Session { return c.session }

// Queue returns the resolved question queue for the current day.
func (c *Controller) Queue() []domain.Question {
	return append([]domain.Question(nil), c.queue...)
}

// Index returns the position of the current question in the queue.
func (c *Controller) Index() int { return c.index }

// ResumeAvailable reports whether a persisted journey can be resumed.
func (c *Controller) ResumeAvailable() bool {
	return c.phase == PhaseNotStarted && c.pending != nil
}

// Start begins a new journey for name and enters day 1.
func (c *Controller) Start(ctx context.Context, name, email string) error {
	if c.phase != PhaseNotStarted {
		return domain.ErrInvalidTransition
	}
	session := NewSessionWithClock(c.now)
	if err := session.Start(name, email); err != nil {
		return err
	}
	c.session = session
	c.pending = nil
	c.logger.Info("journey started", "name", session.Profile().Name)
	c.enterDay(ctx)
	return nil
}

// Resume adopts the persisted journey when confirm is true and re-enters
// its current day. Declining keeps the persisted record for a later resume.
func (c *Controller) Resume(ctx context.Context, confirm bool) error {
	if !c.ResumeAvailable() {
		return domain.ErrNothingToResume
	}
	if !confirm {
		return nil
	}
	c.session = RestoreSession(*c.pending, c.now)
	c.pending = nil
	c.enterDay(ctx)
	return nil
}

// BeginDay moves from the day intro to the first question.
func (c *Controller) BeginDay() error {
	if c.phase != PhaseDayIntro {
		return domain.ErrInvalidTransition
	}
	c.index = 0
	if len(c.queue) == 0 {
		c.phase = PhaseDayComplete
		return nil
	}
	c.phase = PhaseQuestion
	return nil
}

// Submit records an answer for the current question and moves forward.
// A blank answer leaves the controller on the same question.
func (c *Controller) Submit(ctx context.Context, answer string) error {
	if c.phase != PhaseQuestion {
		return domain.ErrInvalidTransition
	}
	value := strings.TrimSpace(answer)
	if value == "" {
		return domain.ErrEmptyAnswer
	}
	q := c.queue[c.index]
	c.session.RecordResponse(q, value, c.day.Day)
	c.persist(ctx)

	c.index++
	if c.index >= len(c.queue) {
		c.index = len(c.queue) - 1
		c.phase = PhaseDayComplete
		c.logger.Info("day complete", "day", c.day.Day, "questions", len(c.queue))
	}
	return nil
}

// Back returns to the previous question without discarding answers.
func (c *Controller) Back() error {
	if c.phase != PhaseQuestion {
		return domain.ErrInvalidTransition
	}
	if c.index == 0 {
		return domain.ErrNoPreviousQuestion
	}
	c.index--
	return nil
}

// Continue leaves a completed day for the next day or the end of the journey.
func (c *Controller) Continue(ctx context.Context) error {
	if c.phase != PhaseDayComplete {
		return domain.ErrInvalidTransition
	}
	finishedDay := c.day.Day
	c.session.AdvanceDay()
	c.persist(ctx)
	if finishedDay >= domain.TotalDays {
		c.finish()
		return nil
	}
	c.enterDay(ctx)
	return nil
}

// Reset clears this controller back to a fresh, unstarted journey. Removing
// the persisted record is the caller's concern.
func (c *Controller) Reset() {
	c.session = NewSessionWithClock(c.now)
	c.pending = nil
	c.queue = nil
	c.fired = nil
	c.index = 0
	c.day = domain.DaySchedule{}
	c.phase = PhaseNotStarted
}

// Export builds the results document from the in-memory session.
func (c *Controller) Export() domain.Export {
	return NewExport(c.session.Snapshot(), c.now())
}

func (c *Controller) enterDay(ctx context.Context) {
	day, ok := c.schedule.Day(c.session.CurrentDay())
	if !ok {
		c.finish()
		return
	}
	queue, events := ResolveDay(day, c.session.Responses())
	c.session.ReplaceExpansionEvents(day.Day, events)
	c.persist(ctx)

	c.day = day
	c.queue = queue
	c.fired = firedRules(day, c.session.Responses())
	c.index = 0
	c.dayStart = c.now()
	c.phase = PhaseDayIntro
	for _, e := range events {
		c.logger.Info("expansion triggered", "day", e.Day, "modules", strings.Join(e.ModuleNames, ","), "questions", e.QuestionCount)
	}
}

func (c *Controller) finish() {
	c.phase = PhaseFinished
	c.queue = nil
	c.fired = nil
	c.index = 0
}

// persist writes the snapshot; failures leave the in-memory session authoritative.
func (c *Controller) persist(ctx context.Context) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(ctx, c.session.Snapshot()); err != nil {
		c.logger.Warn("progress not saved", "day", c.session.CurrentDay(), "err", err)
	}
}

func firedRules(day domain.DaySchedule, prior map[string]domain.Response) []domain.ExpansionRule {
	var out []domain.ExpansionRule
	for _, rule := range day.PossibleExpansions {
		if r, ok := prior[rule.TriggerQuestionID]; ok && rule.Trigger().Matches(r.Value) {
			out = append(out, rule)
		}
	}
	return out
}

// View is a read-only picture of the controller for rendering adapters.
type View struct {
	Phase           string           `json:"phase"`
	ResumeAvailable bool             `json:"resumeAvailable,omitempty"`
	UserName        string           `json:"userName,omitempty"`
	CurrentDay      int              `json:"currentDay"`
	TotalDays       int              `json:"totalDays"`
	ProgressPercent int              `json:"progressPercent"`
	Day             *DayView         `json:"day,omitempty"`
	Question        *QuestionView    `json:"question,omitempty"`
	Summary         *DaySummaryView  `json:"summary,omitempty"`
	Expansions      []ExpansionAlert `json:"expansions,omitempty"`
}

// DayView describes the day being worked on.
type DayView struct {
	Number           int    `json:"number"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	QuestionCount    int    `json:"questionCount"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

// QuestionView describes the question being presented.
type QuestionView struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	AnswerType domain.AnswerType `json:"answerType"`
	Options    []string          `json:"options,omitempty"`
	ScaleMin   *int              `json:"scaleMin,omitempty"`
	ScaleMax   *int              `json:"scaleMax,omitempty"`
	Position   int               `json:"position"`
	Total      int               `json:"total"`
	Previous   string            `json:"previous,omitempty"`
	CanGoBack  bool              `json:"canGoBack"`
	IsLast     bool              `json:"isLast"`
}

// DaySummaryView is shown once a day's questions are all answered.
type DaySummaryView struct {
	QuestionsAnswered int      `json:"questionsAnswered"`
	MinutesSpent      int      `json:"minutesSpent"`
	ExpandedModules   []string `json:"expandedModules,omitempty"`
	CompletedDays     []int    `json:"completedDays"`
	LastDay           bool     `json:"lastDay"`
}

// ExpansionAlert tells the respondent why extra questions were added.
type ExpansionAlert struct {
	Modules                    []string `json:"modules"`
	AdditionalQuestions        int      `json:"additionalQuestions"`
	EstimatedAdditionalMinutes int      `json:"estimatedAdditionalMinutes"`
}

// View returns the current state for display.
func (c *Controller) View() View {
	day := c.session.CurrentDay()
	v := View{
		Phase:           c.phase.String(),
		ResumeAvailable: c.ResumeAvailable(),
		UserName:        c.session.Profile().Name,
		CurrentDay:      day,
		TotalDays:       domain.TotalDays,
		ProgressPercent: progressPercent(day),
	}
	if c.phase == PhaseNotStarted || c.phase == PhaseFinished {
		return v
	}

	v.Day = &DayView{
		Number:           c.day.Day,
		Title:            c.day.Title,
		Description:      c.day.Description,
		QuestionCount:    len(c.queue),
		EstimatedMinutes: int(math.Ceil(float64(len(c.queue)) / 2)),
	}
	for _, rule := range c.fired {
		v.Expansions = append(v.Expansions, ExpansionAlert{
			Modules:                    rule.ModuleNames(),
			AdditionalQuestions:        rule.TotalAdditionalQuestions,
			EstimatedAdditionalMinutes: rule.EstimatedAdditionalMinutes,
		})
	}

	switch c.phase {
	case PhaseQuestion:
		v.Question = c.questionView()
	case PhaseDayComplete:
		v.Summary = c.summaryView()
	}
	return v
}

func (c *Controller) questionView() *QuestionView {
	q := c.queue[c.index]
	qv := &QuestionView{
		ID:         q.ID,
		Text:       q.Text,
		AnswerType: q.AnswerType,
		Options:    q.Options,
		Position:   c.index + 1,
		Total:      len(c.queue),
		CanGoBack:  c.index > 0,
		IsLast:     c.index == len(c.queue)-1,
	}
	if q.AnswerType == domain.AnswerScale {
		lo, hi := q.ScaleRange()
		qv.ScaleMin, qv.ScaleMax = &lo, &hi
	}
	if prev, ok := c.session.Response(q.ID); ok {
		qv.Previous = prev.Value
	}
	return qv
}

func (c *Controller) summaryView() *DaySummaryView {
	s := &DaySummaryView{
		QuestionsAnswered: len(c.queue),
		MinutesSpent:      int(math.Round(c.now().Sub(c.dayStart).Minutes())),
		LastDay:           c.day.Day >= domain.TotalDays,
		CompletedDays:     []int{},
	}
	for _, e := range c.session.EventsForDay(c.day.Day) {
		s.ExpandedModules = append(s.ExpandedModules, e.ModuleNames...)
	}
	for d := 1; d < c.session.CurrentDay() && d <= domain.TotalDays; d++ {
		s.CompletedDays = append(s.CompletedDays, d)
	}
	return s
}

func progressPercent(day int) int {
	return int(math.Round(float64(day-1) / float64(domain.TotalDays) * 100))
}
