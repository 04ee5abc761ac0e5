package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThornScore(t *testing.T) {
	item := ThornItem{TodoList: TodoDaily, MindShare: 5, EmotionalTemp: 4, TAI: true, HardToFind: true}
	assert.Equal(t, 14, item.Score())

	tests := []struct {
		todo TodoFrequency
		want int
	}{
		{TodoDaily, 5},
		{TodoWeekly, 4},
		{TodoMonthly, 3},
		{TodoYearly, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ThornItem{TodoList: tt.todo, MindShare: 1, EmotionalTemp: 1}.Score(), string(tt.todo))
	}
}

func TestScoringGuideIsSeparateFromWeights(t *testing.T) {
	weights := TodoWeights()
	for _, g := range ScoringGuide {
		if g.Key == "D" {
			assert.Equal(t, 1, g.Score)
			assert.Equal(t, 3, weights[TodoDaily])
		}
	}
}

func TestThornScorecardHelpers(t *testing.T) {
	var card ThornScorecard
	assert.Equal(t, -1, card.TopScorer())

	card = card.Add(NewThorn("messy books"))
	require.Len(t, card, 1)
	assert.Equal(t, 5, card[0].Total)

	card = card.Add(NewThorn("no leads"))
	card = card.Update(1, func(it *ThornItem) {
		it.MindShare = 5
		it.TAI = true
	})
	assert.Equal(t, 10, card[1].Total)
	assert.Equal(t, 1, card.TopScorer())

	unchanged := card.Update(7, func(it *ThornItem) { it.MindShare = 1 })
	assert.Equal(t, card, unchanged)

	card = card.Remove(0)
	require.Len(t, card, 1)
	assert.Equal(t, "no leads", card[0].Thing)
	assert.Equal(t, 0, card.TopScorer())
}

func TestThornTopScorerPrefersFirstOnTie(t *testing.T) {
	card := ThornScorecard{NewThorn("a"), NewThorn("b")}
	assert.Equal(t, 0, card.TopScorer())
}

func TestParsePatchNormalizesFields(t *testing.T) {
	p, err := ParsePatch([]byte(`{
		"title": "Fix my funnel",
		"status": "ready",
		"currentStep": 3,
		"idealClient": null,
		"pricing": {"amount": 2000, "structure": "one-time"},
		"roadmap": "{\"phase1\":{\"name\":\"x\"}}",
		"unknown": true
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Fix my funnel", p[FieldTitle])
	assert.Equal(t, StatusReady, p[FieldStatus])
	assert.Equal(t, 3, p[FieldCurrentStep])
	assert.Nil(t, p[FieldIdealClient].(*string))
	assert.Equal(t, `{"amount":2000,"structure":"one-time"}`, *p[FieldPricing].(*string))
	assert.Equal(t, `{"phase1":{"name":"x"}}`, *p[FieldRoadmap].(*string))
	assert.NotContains(t, p, "unknown")
}

func TestParsePatchRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"status outside enum", `{"status":"archived"}`, FieldStatus},
		{"step too high", `{"currentStep":9}`, FieldCurrentStep},
		{"step fractional", `{"currentStep":2.5}`, FieldCurrentStep},
		{"numeric title", `{"title":7}`, FieldTitle},
		{"negative step", `{"currentStep":-1}`, FieldCurrentStep},
		{"text not string", `{"limitation":42}`, FieldLimitation},
		{"pricing structure", `{"pricing":{"amount":10,"structure":"barter"}}`, FieldPricing},
		{"thorn mind share", `{"thornScorecard":[{"thing":"x","todoList":"D","mindShare":9}]}`, FieldThornScorecard},
		{"thorn todo", `{"thornScorecard":[{"todoList":"Q"}]}`, FieldThornScorecard},
		{"roadmap type", `{"roadmap":[1,2]}`, FieldRoadmap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePatch([]byte(tt.body))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParsePatchTreatsNullDefaultsAsAbsent(t *testing.T) {
	p, err := ParsePatch([]byte(`{"title":null,"status":null,"currentStep":null}`))
	require.NoError(t, err)
	assert.Empty(t, p)

	p, err = ParsePatch([]byte(`{"status":"","currentStep":0,"limitation":null}`))
	require.NoError(t, err)
	assert.NotContains(t, p, FieldStatus)
	assert.NotContains(t, p, FieldCurrentStep)
	assert.Contains(t, p, FieldLimitation)
}

func TestParsePatchRecomputesThornTotals(t *testing.T) {
	p, err := ParsePatch([]byte(`{"thornScorecard":[{"thing":"x","todoList":"Y","mindShare":1,"emotionalTemp":1,"total":99}]}`))
	require.NoError(t, err)

	var card ThornScorecard
	require.NoError(t, json.Unmarshal([]byte(*p[FieldThornScorecard].(*string)), &card))
	require.Len(t, card, 1)
	assert.Equal(t, "x", card[0].Thing)
	assert.Equal(t, 2, card[0].Total)
}

func TestParsePatchEmptyBody(t *testing.T) {
	p, err := ParsePatch(nil)
	require.NoError(t, err)
	assert.Empty(t, p)

	_, err = ParsePatch([]byte(`[1]`))
	assert.Error(t, err)
}

func TestPatchApplyAndColumns(t *testing.T) {
	p := Patch{}
	p.SetText(FieldLimitation, "no time")
	require.NoError(t, p.SetJSON(FieldRoadmap, &Roadmap{Phase1: RoadmapPhase{Name: "Start"}}))
	require.NoError(t, p.SetJSON(FieldPricing, (*Pricing)(nil)))
	require.NoError(t, p.SetJSON(FieldThornScorecard, ThornScorecard(nil)))
	p[FieldCurrentStep] = 4

	o := Offer{Title: "t", Pricing: StringPtr(`{"amount":1}`)}
	p.ApplyTo(&o)
	assert.Equal(t, "no time", Text(o.Limitation))
	assert.Nil(t, o.Pricing)
	assert.Nil(t, o.ThornScorecard)
	assert.Equal(t, 4, o.CurrentStep)
	assert.Equal(t, "t", o.Title)

	cols := p.Columns()
	assert.Contains(t, cols, "limitation")
	assert.Contains(t, cols, "roadmap")
	assert.Contains(t, cols, "current_step")
	assert.NotContains(t, cols, "title")
}

func TestDetailsDecodesAndTagsMalformed(t *testing.T) {
	o := Offer{
		Pricing:          StringPtr(`{"amount":2000,"structure":"one-time"}`),
		ThornScorecard:   StringPtr(`[{"thing":"x","todoList":"W","mindShare":2,"emotionalTemp":3,"total":7}]`),
		Roadmap:          StringPtr(`{not json`),
		DeliveryModel:    StringPtr(""),
		OutcomeStatement: StringPtr("I help coaches sign 5 clients in 30 days"),
	}
	d := o.Details()

	require.NotNil(t, d.Pricing)
	assert.Equal(t, float64(2000), d.Pricing.Amount)
	assert.Equal(t, PricingOneTime, d.Pricing.Structure)
	require.Len(t, d.ThornScorecard, 1)
	assert.Equal(t, TodoWeekly, d.ThornScorecard[0].TodoList)
	assert.Nil(t, d.Roadmap)
	assert.Nil(t, d.DeliveryModel)
	assert.Equal(t, []string{FieldRoadmap}, d.Malformed)
	require.NotNil(t, d.OutcomeStatement)
	assert.Equal(t, "I help coaches sign 5 clients in 30 days", d.OutcomeStatement.Final)
}

func TestDetailsOutcomeObject(t *testing.T) {
	o := Offer{OutcomeStatement: StringPtr(`{"desiredState":"booked out","final":"Go from empty to booked"}`)}
	d := o.Details()
	require.NotNil(t, d.OutcomeStatement)
	assert.Equal(t, "booked out", d.OutcomeStatement.DesiredState)
	assert.Equal(t, "Go from empty to booked", d.OutcomeStatement.Final)
}

func TestNextUpdatedAtStrictlyIncreases(t *testing.T) {
	prev := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, NextUpdatedAt(prev, prev).After(prev))
	assert.True(t, NextUpdatedAt(prev, prev.Add(-time.Hour)).After(prev))
	later := prev.Add(time.Second)
	assert.Equal(t, later, NextUpdatedAt(prev, later))
}
