package app

import "adaptive-assessment-service/internal/domain"

// ResolveDay builds the day's question queue: the core questions followed by
// the modules of every rule whose trigger answer satisfies its condition.
// A rule whose trigger question has no recorded response does not fire.
// The result depends only on its inputs, so re-entering a day is safe.
func ResolveDay(day domain.DaySchedule, prior map[string]domain.Response) ([]domain.Question, []domain.ExpansionEvent) {
	queue := make([]domain.Question, 0, len(day.CoreQuestions))
	queue = append(queue, day.CoreQuestions...)

	var events []domain.ExpansionEvent
	for _, rule := range day.PossibleExpansions {
		response, ok := prior[rule.TriggerQuestionID]
		if !ok {
			continue
		}
		if !rule.Trigger().Matches(response.Value) {
			continue
		}
		for _, module := range rule.Modules {
			queue = append(queue, module.Questions...)
		}
		events = append(events, domain.ExpansionEvent{
			Day:           day.Day,
			ModuleNames:   rule.ModuleNames(),
			QuestionCount: rule.TotalAdditionalQuestions,
		})
	}
	return queue, events
}
