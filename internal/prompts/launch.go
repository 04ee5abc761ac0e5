package prompts

import (
	"fmt"
	"strings"

	"gravity/internal/models"
)

type LaunchKind string

const (
	LaunchDocument LaunchKind = "document"
	LaunchDM       LaunchKind = "dm"
	LaunchEmail    LaunchKind = "email"
)

func ParseLaunchKind(s string) (LaunchKind, error) {
	switch k := LaunchKind(s); k {
	case LaunchDocument, LaunchDM, LaunchEmail:
		return k, nil
	}
	return "", fmt.Errorf("unknown launch kind %q", s)
}

// Field is the offer field the generated content is saved to.
func (k LaunchKind) Field() string {
	switch k {
	case LaunchDM:
		return models.FieldDMScript
	case LaunchEmail:
		return models.FieldEmailSequence
	}
	return models.FieldDocumentContent
}

const documentPrompt = `Create a comprehensive offer document in Google Doc format based on the following offer details. Structure it as: Story → Outcome → Roadmap → Delivery → Pricing → Bonuses/FAQ → Scarcity. Make it compelling and sales-focused.`

const dmScriptPrompt = `Based on the following No-Phone Offer details, generate a complete DM script following the proven structure:

1. **Personal Greeting**: Warm, use their name
2. **Limited Opportunity (Scarcity)**: "I'm opening the doors for [X number] [ideal client description], and will [offer in one sentence]"
3. **Specific Outcome + Timeframe**: "Within [timeframe], [specific result]"
4. **Social Proof Suggestion**: Suggest what kind of screenshot/proof to include
5. **Soft CTA**: "I have a Google Doc with all the deets. Want to take a look?"

Also generate:
- A follow-up message if they don't respond
- A response for when they say "yes"
- A response for when they ask questions

Keep it conversational, warm, and low-pressure. The DM should make them curious about the Google Doc, not sell on the spot.`

const emailSequencePrompt = `Based on the following No-Phone Offer details, generate a complete 9-email promotional sequence:

**Email 1: Interest Gauge / Survey**
- Ask which of your offers would serve them most
- Offer a discount for responding
- Not a hard sell

**Email 2: Results Announcement + Offer Opening**
- Share survey results
- Open the offer based on "demand"
- Include offer details

**Email 3: Story-Based Value (The Best First Hire)**
- Personal story about struggling with manual methods
- How systems/automation changed everything
- Soft CTA to get details

**Email 4: Lifestyle Proof**
- Story about enjoying life while business runs
- Phone notifications while on vacation/at gym
- Systems vs hustle message

**Email 5: Bottleneck Awareness**
- "What happens when you take a week off?"
- You ARE the business problem
- Systems remove you as single point of failure

**Email 6: Pain Point (Phone Addiction)**
- Addicted to phone because that's where money came from
- Now phone can be off and customers still flow
- Freedom message

**Email 7: Vacation Contrast Story**
- Compare old vacation (business died) vs new (made money)
- Specific numbers
- Systems working while away

**Email 8: Case Study / Social Proof**
- Real client transformation story
- Specific results and timeline
- "This is what we build for you"

**Email 9: Final Reminder / Doors Closing**
- Urgency: doors close at midnight
- Recap both options
- Clear "take action now or wait" framing

Each email should include: Subject line (+ alternatives), full body copy, and sign-off. Adapt the stories and examples to the user's specific niche and offer.`

// LaunchPrompt builds the generation prompt for a launch asset.
func LaunchPrompt(kind LaunchKind, offer models.Offer) string {
	var head string
	switch kind {
	case LaunchDM:
		head = dmScriptPrompt
	case LaunchEmail:
		head = emailSequencePrompt
	default:
		head = documentPrompt
	}
	return head + "\n\nHere is my offer data:\n" + BuildOfferSummary(offer)
}

// BuildOfferSummary renders the offer as labelled sections, skipping empty ones.
func BuildOfferSummary(o models.Offer) string {
	d := o.Details()
	sections := []string{"OFFER TITLE: " + o.Title}
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			sections = append(sections, label+": "+value)
		}
	}

	add("IDEAL CLIENT", models.Text(o.IdealClient))
	add("CURRENT LIMITATION", models.Text(o.Limitation))
	if d.OutcomeStatement != nil {
		add("OUTCOME STATEMENT", outcomeText(*d.OutcomeStatement))
	}
	if si := d.SolutionsInventory; si != nil {
		add("SOLUTIONS", joinNonEmpty("; ",
			labelled("Clarity", si.Clarity),
			labelled("Plan", si.Plan),
			labelled("DIY", si.Integration.DIY),
			labelled("DWY", si.Integration.DWY),
			labelled("DFY", si.Integration.DFY),
		))
	}
	if len(d.ThornScorecard) > 0 {
		thorns := make([]string, 0, len(d.ThornScorecard))
		for _, t := range d.ThornScorecard {
			if t.Thing != "" {
				thorns = append(thorns, fmt.Sprintf("%s (score %d)", t.Thing, t.Score()))
			}
		}
		add("PAIN POINTS", strings.Join(thorns, "; "))
	}
	if rm := d.Roadmap; rm != nil {
		phases := make([]string, 0, 3)
		for i, p := range rm.Phases() {
			if p.Name == "" && p.Description == "" {
				continue
			}
			phases = append(phases, fmt.Sprintf("Phase %d: %s - %s", i+1, p.Name, p.Description))
		}
		add("ROADMAP", strings.Join(phases, "; "))
	}
	if dm := d.DeliveryModel; dm != nil {
		parts := make([]string, 0, 4)
		for _, opt := range []struct {
			label string
			o     models.DeliveryOption
		}{{"Done for you", dm.DFY}, {"Done with you", dm.DWY}, {"Do it yourself", dm.DIY}} {
			if opt.o.Enabled {
				parts = append(parts, strings.TrimSuffix(opt.label+": "+opt.o.Description, ": "))
			}
		}
		if dm.SelfSorting.Enabled {
			parts = append(parts, fmt.Sprintf("Options: %s or %s", dm.SelfSorting.Option1, dm.SelfSorting.Option2))
		}
		add("DELIVERY", strings.Join(parts, "; "))
	}
	if p := d.Pricing; p != nil {
		add("PRICING", pricingText(*p))
	}
	return strings.Join(sections, "\n\n")
}

func outcomeText(o models.OutcomeStatement) string {
	if o.Final != "" {
		return o.Final
	}
	return joinNonEmpty(" ", o.DesiredState, o.Measurable, o.Timeframe, o.Specific)
}

func pricingText(p models.Pricing) string {
	var s string
	switch p.Structure {
	case models.PricingPaymentPlan:
		if pp := p.PaymentPlan; pp != nil {
			s = fmt.Sprintf("%s today, then %d payment(s) of %s", money(pp.FirstPayment), pp.NumPayments, money(pp.PaymentAmount))
		}
	case models.PricingWeekly:
		if w := p.Weekly; w != nil {
			s = fmt.Sprintf("%s/week for %s", money(w.WeeklyAmount), w.Duration)
		}
	case models.PricingPayAsProfit:
		if pa := p.PayAsProfit; pa != nil {
			s = fmt.Sprintf("%s upfront, then %s when %s", money(pa.InitialPayment), money(pa.PerformanceAmount), pa.PerformanceTrigger)
		}
	}
	if s == "" {
		structure := p.Structure
		if structure == "" {
			structure = models.PricingOneTime
		}
		s = fmt.Sprintf("%s (%s)", money(p.Amount), structure)
	}
	if p.Ascension != "" {
		s += "; ascension: " + p.Ascension
	}
	return s
}

func money(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("$%d", int64(v))
	}
	return fmt.Sprintf("$%.2f", v)
}

func labelled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return label + ": " + value
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
