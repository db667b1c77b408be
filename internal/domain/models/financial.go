package models

// MonthsPerModel is the length of every monthly series in a FinancialModel.
const MonthsPerModel = 12

// RevenueProjection is the revenue side of a financial model.
type RevenueProjection struct {
	Monthly     [MonthsPerModel]float64 `json:"monthly"`
	AnnualTotal float64                 `json:"annualTotal"`
	GrowthRate  float64                 `json:"growthRate"`
	Streams     []string                `json:"streams"`
}

// CostBreakdown splits the base monthly cost into fixed categories.
type CostBreakdown struct {
	Personnel  float64 `json:"personnel"`
	Marketing  float64 `json:"marketing"`
	Operations float64 `json:"operations"`
	Overhead   float64 `json:"overhead"`
	Technology float64 `json:"technology"`
}

// CostProjection is the cost side of a financial model.
type CostProjection struct {
	Monthly   [MonthsPerModel]float64 `json:"monthly"`
	Fixed     float64                 `json:"fixed"`    // per month
	Variable  float64                 `json:"variable"` // annual total of variable costs
	Breakdown CostBreakdown           `json:"breakdown"`
}

// UnitMetrics holds the model's unit economics. The LTV:CAC ratio is always
// recomputed from the current LTV and CAC, never cached independently.
type UnitMetrics struct {
	CAC         float64 `json:"cac"`
	LTV         float64 `json:"ltv"`
	ChurnRate   float64 `json:"churnRate"`
	ARPU        float64 `json:"arpu"`
	GrossMargin float64 `json:"grossMargin"`
}

// LTVCACRatio derives the ratio from the current fields.
func (m UnitMetrics) LTVCACRatio() float64 {
	if m.CAC <= 0 {
		return 0
	}
	return m.LTV / m.CAC
}

// CashFlowProjection is the cash side of a financial model.
type CashFlowProjection struct {
	MonthlyNet     [MonthsPerModel]float64 `json:"monthlyNet"`
	Cumulative     [MonthsPerModel]float64 `json:"cumulative"`
	BreakEvenMonth int                     `json:"breakEvenMonth"`
	RunwayMonths   int                     `json:"runwayMonths"`
}

// FundingRequirement totals the capital the plan needs.
type FundingRequirement struct {
	Initial        float64 `json:"initial"`
	WorkingCapital float64 `json:"workingCapital"`
	GrowthCapital  float64 `json:"growthCapital"`
	Total          float64 `json:"total"`
}

// FinancialModel is a twelve-month projection.
type FinancialModel struct {
	BusinessType string             `json:"businessType"`
	Revenue      RevenueProjection  `json:"revenue"`
	Costs        CostProjection     `json:"costs"`
	Metrics      UnitMetrics        `json:"metrics"`
	CashFlow     CashFlowProjection `json:"cashFlow"`
	Funding      FundingRequirement `json:"funding"`
}

// Validation issue severities.
const (
	SeverityError      = "ERROR"
	SeverityWarning    = "WARNING"
	SeveritySuggestion = "SUGGESTION"
)

// ValidationIssue is one cross-check finding. Data, never an exception.
type ValidationIssue struct {
	Severity       string `json:"severity"`
	Category       string `json:"category"`
	Message        string `json:"message"`
	Impact         string `json:"impact"`
	Recommendation string `json:"recommendation"`
}

// ValidationReport cross-validates a model against industry benchmarks.
type ValidationReport struct {
	ConsistencyScore float64           `json:"consistencyScore"` // [0, 100]
	IsRealistic      bool              `json:"isRealistic"`      // score >= 70
	Issues           []ValidationIssue `json:"issues"`
	Improvements     *FinancialModel   `json:"improvements,omitempty"`
}

// InitialProjections carries the caller's starting numbers into the enhancer.
type InitialProjections struct {
	MonthlyRevenue    float64  `json:"monthlyRevenue"`
	MonthlyCost       float64  `json:"monthlyCost"`
	InitialInvestment float64  `json:"initialInvestment"`
	CustomerCount     int      `json:"customerCount"`
	CAC               float64  `json:"cac,omitempty"` // 0 means "derive from ARPU"
	GrowthCapital     float64  `json:"growthCapital,omitempty"`
	RevenueStreams    []string `json:"revenueStreams,omitempty"`
}
