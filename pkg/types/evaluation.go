package types

// Metadata identifies the provider run that produced an extraction.
type Metadata struct {
	Provider       string  `json:"provider"`
	PromptVersion  string  `json:"prompt_version"`
	ProcessingTime float64 `json:"processing_time"`
	Cost           float64 `json:"cost"`
}

// Known extraction providers. The set is open: an unknown provider string
// still aggregates under its own group key.
const (
	ProviderGoogleVision = "google_vision"
	ProviderGPT4oMini    = "gpt4o_mini"
	ProviderDeepSeekR1   = "deepseek_r1"
)

// ConsistencyCheck is the outcome of one business rule on an extraction.
type ConsistencyCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// EvaluationRecord is the immutable result of evaluating one
// (receipt, provider, prompt-version) triple. It carries no random identity:
// evaluating identical inputs twice yields identical records.
type EvaluationRecord struct {
	ReceiptID         string             `json:"receipt_id"`
	Provider          string             `json:"provider"`
	PromptVersion     string             `json:"prompt_version"`
	Comparisons       []FieldComparison  `json:"comparisons,omitempty"`
	ConsistencyScore  float64            `json:"consistency_score"`
	ConsistencyChecks []ConsistencyCheck `json:"consistency_checks,omitempty"`
	SpuriousItems     int                `json:"spurious_items"`
	FieldAccuracy     float64            `json:"field_accuracy"`
	FuzzyAccuracy     float64            `json:"fuzzy_accuracy"`
	ProcessingTime    float64            `json:"processing_time"`
	Cost              float64            `json:"cost"`
	Failed            bool               `json:"failed"`
	FailureReason     string             `json:"failure_reason,omitempty"`
}

// GroupKey partitions aggregated statistics.
type GroupKey struct {
	Provider      string `json:"provider"`
	PromptVersion string `json:"prompt_version"`
}

// Stat is a mean plus nearest-rank percentiles over one metric's samples.
type Stat struct {
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
}

// BenchmarkSummary is the folded view of all evaluation records sharing one
// group key. Accuracy stats cover the successfully evaluated subset;
// count, cost, and timing cover every record including failures.
type BenchmarkSummary struct {
	Provider         string  `json:"provider"`
	PromptVersion    string  `json:"prompt_version"`
	Count            int     `json:"count"`
	FailureCount     int     `json:"failure_count"`
	FailureRate      float64 `json:"failure_rate"`
	FieldAccuracy    Stat    `json:"field_accuracy"`
	FuzzyAccuracy    Stat    `json:"fuzzy_accuracy"`
	ConsistencyScore Stat    `json:"consistency_score"`
	ProcessingTime   Stat    `json:"processing_time"`
	TotalCost        float64 `json:"total_cost"`
	SpuriousItems    int     `json:"spurious_items"`
}

// Recommendation reason tags emitted by ranking.
const (
	ReasonBestAccuracy = "best_accuracy"
	ReasonBestSpeed    = "best_speed"
	ReasonBestCost     = "best_cost"
)

// Ranking is one entry of the ordered recommendation list.
type Ranking struct {
	Provider      string `json:"provider"`
	PromptVersion string `json:"prompt_version"`
	Reason        string `json:"reason,omitempty"`
}

// BenchmarkReport is the serializable output of one aggregation run.
type BenchmarkReport struct {
	RunID        string             `json:"run_id"`
	GeneratedAt  string             `json:"generated_at"`
	TotalRecords int                `json:"total_records"`
	Summaries    []BenchmarkSummary `json:"summaries"`
	Rankings     []Ranking          `json:"rankings"`
}
