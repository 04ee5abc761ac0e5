package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gravity/internal/models"
)

func TestSystemWithoutStep(t *testing.T) {
	assert.Equal(t, systemPrompt, System(0))
	assert.Equal(t, systemPrompt, System(9))
	assert.NotContains(t, System(0), "## CURRENT TASK")
}

func TestSystemAppendsStepGuidance(t *testing.T) {
	got := System(3)
	assert.True(t, strings.HasPrefix(got, systemPrompt))
	assert.Contains(t, got, "\n\n## CURRENT TASK\nThe user is on Step 3 of the offer builder. ")
	assert.Contains(t, got, "Thorn in the Paw scorecard")
}

func TestSystemCarriesFullMethod(t *testing.T) {
	for _, section := range []string{
		"### Who This Is For",
		"### Why Now - The Industry Shift",
		"Outcome Killers: Not achievable",
		"### Digital Snacks Funnel Install ($2K)",
		"### The Bugatti ($15K backend)",
		"10. Encourage the catalog model over one-big-flagship thinking",
	} {
		assert.Contains(t, systemPrompt, section)
	}
}

func TestThornGuidanceListsScorecardValues(t *testing.T) {
	g, ok := StepGuidance(3)
	require.True(t, ok)
	assert.Contains(t, g, "Daily=3, Weekly=2, Monthly=1")
	assert.Contains(t, g, "High Fever=3, Warm=2, Cold=0")
	assert.Contains(t, g, "Hard=3, Med=2, Easy=1")
}

func TestStepsCoverWizard(t *testing.T) {
	all := Steps()
	require.Len(t, all, models.LastStep)
	for i, s := range all {
		assert.Equal(t, i+1, s.ID)
		g, ok := StepGuidance(s.ID)
		assert.True(t, ok)
		assert.NotEmpty(t, g)
	}
	all[0].Name = "changed"
	assert.Equal(t, "Ideal Client", Steps()[0].Name)
}

func TestParseLaunchKind(t *testing.T) {
	for _, k := range []string{"document", "dm", "email"} {
		got, err := ParseLaunchKind(k)
		require.NoError(t, err)
		assert.Equal(t, LaunchKind(k), got)
	}
	_, err := ParseLaunchKind("tweet")
	assert.Error(t, err)

	assert.Equal(t, models.FieldDocumentContent, LaunchDocument.Field())
	assert.Equal(t, models.FieldDMScript, LaunchDM.Field())
	assert.Equal(t, models.FieldEmailSequence, LaunchEmail.Field())
}

func TestBuildOfferSummary(t *testing.T) {
	offer := models.Offer{
		Title:            "Client Magnet",
		IdealClient:      models.StringPtr("new fitness coaches"),
		OutcomeStatement: models.StringPtr(`{"final":"Sign 5 clients in 30 days"}`),
		SolutionsInventory: models.StringPtr(`{"clarity":"Lead course","plan":"","integration":{"diy":"DM templates","dwy":"","dfy":""}}`),
		ThornScorecard:   models.StringPtr(`[{"thing":"No leads","todoList":"D","mindShare":5,"emotionalTemp":5,"tai":true,"hardToFind":true}]`),
		Roadmap:          models.StringPtr(`{"phase1":{"name":"Build","description":"the offer"},"phase2":{"name":"","description":""},"phase3":{"name":"Scale","description":"ads"}}`),
		DeliveryModel:    models.StringPtr(`{"dfy":{"enabled":true,"description":"funnel build"},"dwy":{"enabled":false},"diy":{"enabled":true,"description":""},"selfSorting":{"enabled":false}}`),
		Pricing:          models.StringPtr(`{"amount":2000,"structure":"payment-plan","paymentPlan":{"firstPayment":1000,"numPayments":2,"paymentAmount":600}}`),
	}

	got := BuildOfferSummary(offer)
	want := strings.Join([]string{
		"OFFER TITLE: Client Magnet",
		"IDEAL CLIENT: new fitness coaches",
		"OUTCOME STATEMENT: Sign 5 clients in 30 days",
		"SOLUTIONS: Clarity: Lead course; DIY: DM templates",
		"PAIN POINTS: No leads (score 15)",
		"ROADMAP: Phase 1: Build - the offer; Phase 3: Scale - ads",
		"DELIVERY: Done for you: funnel build; Do it yourself",
		"PRICING: $1000 today, then 2 payment(s) of $600",
	}, "\n\n")
	assert.Equal(t, want, got)
}

func TestBuildOfferSummarySkipsAbsentAndMalformed(t *testing.T) {
	offer := models.Offer{
		Title:            "Bare",
		Limitation:       models.StringPtr("  "),
		OutcomeStatement: models.StringPtr("Double revenue in 90 days"),
		Pricing:          models.StringPtr("{oops"),
	}
	assert.Equal(t, "OFFER TITLE: Bare\n\nOUTCOME STATEMENT: Double revenue in 90 days", BuildOfferSummary(offer))
}

func TestLaunchPromptIncludesSummary(t *testing.T) {
	offer := models.Offer{Title: "T"}
	for _, k := range []LaunchKind{LaunchDocument, LaunchDM, LaunchEmail} {
		got := LaunchPrompt(k, offer)
		assert.True(t, strings.HasSuffix(got, "Here is my offer data:\nOFFER TITLE: T"), string(k))
	}
	assert.Contains(t, LaunchPrompt(LaunchEmail, offer), "9-email promotional sequence")
	assert.Contains(t, LaunchPrompt(LaunchDM, offer), "DM script")
}

func TestPricingText(t *testing.T) {
	tests := []struct {
		p    models.Pricing
		want string
	}{
		{models.Pricing{Amount: 1997}, "$1997 (one-time)"},
		{models.Pricing{Amount: 49.5, Structure: models.PricingOneTime, Ascension: "VIP"}, "$49.50 (one-time); ascension: VIP"},
		{models.Pricing{Structure: models.PricingWeekly, Weekly: &models.WeeklyPlan{WeeklyAmount: 150, Duration: "12 weeks"}}, "$150/week for 12 weeks"},
		{models.Pricing{Structure: models.PricingPayAsProfit, PayAsProfit: &models.PayAsProfit{InitialPayment: 500, PerformanceTrigger: "first $10K", PerformanceAmount: 1500}}, "$500 upfront, then $1500 when first $10K"},
		{models.Pricing{Amount: 3000, Structure: models.PricingWeekly}, "$3000 (weekly)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pricingText(tt.p))
	}
}
