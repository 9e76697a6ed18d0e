package entities

// QuestionResult is the graded outcome for one assessment question.
type QuestionResult struct {
	QuestionID string  `json:"questionId"`
	Grade      string  `json:"grade"`
	Feedback   string  `json:"feedback"`
	Confidence float64 `json:"confidence"`
}

// AssessmentResult is the full per-question grading collection produced
// by the scoring tool call or the transcript fallback path.
type AssessmentResult struct {
	Questions []QuestionResult `json:"questions"`
}

// Grades used across all assessment kinds.
const (
	GradeNotYetCompetent = "NYC"
	GradeCompetent       = "C"
)

// Material is one searchable course material chunk.
type Material struct {
	Title   string
	Content string
	Module  string
	Type    string
}
