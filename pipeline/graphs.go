package pipeline

import "recruitment-agent/domain"

// BuildMatchingGraph wires the stage sequence run for a fresh
// submission: Parse -> FetchRequirements -> Match.
func BuildMatchingGraph(
	extractor domain.TextExtractor,
	completer domain.Completer,
	requirements domain.RequirementRepository,
	engine Scorer,
) *Executor {
	return NewExecutor("matching",
		NewParseStage(extractor, completer),
		NewFetchRequirementsStage(requirements),
		NewMatchStage(engine),
	)
}

// BuildApprovalGraph wires the stage sequence run against a persisted
// Pending record: Approve -> Finalize -> GenerateQuestions.
func BuildApprovalGraph(
	notifier domain.Notifier,
	defaultRecipient string,
	generator *QuestionGenerator,
	questions domain.QuestionRepository,
) *Executor {
	return NewExecutor("approval",
		NewApproveStage(),
		NewFinalizeStage(notifier, defaultRecipient),
		NewGenerateQuestionsStage(generator, questions),
	)
}
