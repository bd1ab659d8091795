package stage

// Kind is the pedagogical stage of a problem. It selects the evaluator and
// the view used for the problem.
type Kind int

const (
	KindPreparation Kind = iota
	KindExplanation
	KindPractice
	KindAssessment
)

func (k Kind) String() string {
	switch k {
	case KindExplanation:
		return "explanation"
	case KindPractice:
		return "practice"
	case KindAssessment:
		return "assessment"
	default:
		return "preparation"
	}
}

// FinalAnswerOnly reports whether the stage is checked on a single final
// answer rather than steps.
func (k Kind) FinalAnswerOnly() bool {
	return k == KindPreparation || k == KindAssessment
}
