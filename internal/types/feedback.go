package types

// BehavioralScores is the feedback schema shared by the technical and
// behavioral round scorers.
type BehavioralScores struct {
	Relevance     float64 `json:"relevance"`
	Clarity       float64 `json:"clarity"`
	Depth         float64 `json:"depth"`
	Examples      float64 `json:"examples"`
	Communication float64 `json:"communication"`
	Overall       float64 `json:"overall"`
	Summary       string  `json:"summary"`
}

// SalesScores is the feedback schema for the sales round scorer.
type SalesScores struct {
	SalesAcumen    float64 `json:"sales_acumen"`
	Communication  float64 `json:"communication"`
	ProblemSolving float64 `json:"problem_solving"`
	Examples       float64 `json:"examples"`
	Overall        float64 `json:"overall"`
	Summary        string  `json:"summary"`
}

// CodingScores is the feedback schema for the coding round scorer.
type CodingScores struct {
	Correctness float64 `json:"correctness"`
	Clarity     float64 `json:"clarity"`
	EdgeCases   float64 `json:"edge_cases"`
	Efficiency  float64 `json:"efficiency"`
	Overall     float64 `json:"overall"`
	Summary     string  `json:"summary"`
}

// Report is the merged feedback response for a completed interview.
// Rounds maps a round label (e.g. "technical", "hiring_manager") to that
// round's score object.
type Report struct {
	Rounds            map[string]any `json:"rounds"`
	AverageConfidence float64        `json:"average_confidence"`
	AverageFocus      float64        `json:"average_focus"`
}
