package models

type Integration struct {
	DIY string `json:"diy"`
	DWY string `json:"dwy"`
	DFY string `json:"dfy"`
}

type SolutionsInventory struct {
	Clarity     string      `json:"clarity"`
	Plan        string      `json:"plan"`
	Integration Integration `json:"integration"`
}

type OutcomeStatement struct {
	Limitation   string `json:"limitation"`
	DesiredState string `json:"desiredState"`
	Measurable   string `json:"measurable"`
	Timeframe    string `json:"timeframe"`
	Specific     string `json:"specific"`
	Final        string `json:"final"`
}

type RoadmapPhase struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Motivation  string `json:"motivation"`
}

type Roadmap struct {
	Phase1 RoadmapPhase `json:"phase1"`
	Phase2 RoadmapPhase `json:"phase2"`
	Phase3 RoadmapPhase `json:"phase3"`
}

func (r Roadmap) Phases() []RoadmapPhase {
	return []RoadmapPhase{r.Phase1, r.Phase2, r.Phase3}
}

type DeliveryOption struct {
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

type SelfSorting struct {
	Enabled bool   `json:"enabled"`
	Option1 string `json:"option1"`
	Option2 string `json:"option2"`
}

type DeliveryModel struct {
	DFY         DeliveryOption `json:"dfy"`
	DWY         DeliveryOption `json:"dwy"`
	DIY         DeliveryOption `json:"diy"`
	SelfSorting SelfSorting    `json:"selfSorting"`
}

type PricingStructure string

const (
	PricingOneTime     PricingStructure = "one-time"
	PricingPaymentPlan PricingStructure = "payment-plan"
	PricingWeekly      PricingStructure = "weekly"
	PricingPayAsProfit PricingStructure = "pay-as-profit"
)

type PaymentPlan struct {
	FirstPayment  float64 `json:"firstPayment"`
	NumPayments   int     `json:"numPayments"`
	PaymentAmount float64 `json:"paymentAmount"`
}

type WeeklyPlan struct {
	WeeklyAmount float64 `json:"weeklyAmount"`
	Duration     string  `json:"duration"`
}

type PayAsProfit struct {
	InitialPayment     float64 `json:"initialPayment"`
	PerformanceTrigger string  `json:"performanceTrigger"`
	PerformanceAmount  float64 `json:"performanceAmount"`
}

type Pricing struct {
	Amount      float64          `json:"amount"`
	Structure   PricingStructure `json:"structure"`
	PaymentPlan *PaymentPlan     `json:"paymentPlan,omitempty"`
	Weekly      *WeeklyPlan      `json:"weekly,omitempty"`
	PayAsProfit *PayAsProfit     `json:"payAsProfit,omitempty"`
	Ascension   string           `json:"ascension,omitempty"`
}
