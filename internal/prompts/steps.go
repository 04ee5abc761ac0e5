package prompts

import "gravity/internal/models"

type Step struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	guidance    string
}

var steps = []Step{
	{1, "Ideal Client", "Define your perfect customer",
		`Help me identify my ideal client and their biggest limitation for a No-Phone Offer. Interview me with one question at a time. After enough info, create an Ideal Client Profile. Focus on: who they are, their specific situation, and the thorn in their paw.`},
	{2, "Solutions Inventory", "Catalog your expertise",
		`Help me create my Solutions Inventory. Ask about my existing products/services and organize them into three buckets: CLARITY (trainings, courses, frameworks), PLAN (roadmaps, workbooks, blueprints), and INTEGRATION split into DIY (templates, scripts), DWY (coaching, calls), and DFY (done for them). Ask one question at a time.`},
	{3, "Thorn in the Paw", "Score their pain points",
		`Help me score my limitations using the Thorn in the Paw scorecard. For each limitation, I need to rate: To-Do List frequency (Daily=3, Weekly=2, Monthly=1), Mind Share (worry frequency), Emotional Temperature (High Fever=3, Warm=2, Cold=0), TAI - do they talk about it (Yes=1, No=0), and Hard to Find Solution (Hard=3, Med=2, Easy=1). Help me identify which limitation scores highest.`},
	{4, "Outcome Statement", "Craft the transformation",
		`Help me craft my Outcome Statement using the formula: [Number] + [Specific Result] + [Timeframe] + [Optional Method]. Start with my limitation, flip it, make it measurable, add timeframe, make it more specific, test believability, then simplify. Push me toward measurable, tangible outcomes.`},
	{5, "Roadmap", "Map the journey",
		`Help me build my 3-Step Roadmap. Ask about my outcome and help me identify the 3 critical pillars. Put them in chronological order. Each phase should be desirable on its own. Follow the pattern: Create/Build → System to Sell/Deliver → Traffic/Scale.`},
	{6, "Delivery Model", "Choose how you'll deliver",
		`Help me choose my Delivery Model. Start by asking if I can do things FOR them (DFY has highest value). Then figure out DWY support level. Then DIY components. Ask about my capacity and what I enjoy delivering. Optionally help create self-sorting options (max 2).`},
	{7, "Pricing", "Set your investment",
		`Help me price my No-Phone Offer. Start with: what do I want to be paid? Then help structure the payment for lowest friction. Consider: one-time below $2K, weekly payments, first payment + performance, payment plans. Remind me about ascension thinking and backend value.`},
	{8, "Final Document", "Review and polish",
		`Help me finalize my No-Phone Offer document. Review what I've built across all steps and help me write it in the Google Doc format: Story (if cold traffic) → Outcome → Roadmap → Delivery → Pricing → Bonuses/FAQ → Scarcity. Add transition sentences, motivational copy, and "so that you can" language.`},
}

// Steps returns the wizard steps in order.
func Steps() []Step {
	return append([]Step(nil), steps...)
}

// StepGuidance returns the assistant guidance for a builder step.
func StepGuidance(step int) (string, bool) {
	if !models.StepInRange(step) {
		return "", false
	}
	return steps[step-1].guidance, true
}
