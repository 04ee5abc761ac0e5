package models

import (
	"encoding/json"
	"strings"
)

// Details is the typed view of an offer's compound fields. A stored value
// that fails to decode is left nil and its field name recorded in Malformed.
type Details struct {
	SolutionsInventory *SolutionsInventory
	ThornScorecard     ThornScorecard
	OutcomeStatement   *OutcomeStatement
	Roadmap            *Roadmap
	DeliveryModel      *DeliveryModel
	Pricing            *Pricing
	Malformed          []string
}

func (o Offer) Details() Details {
	var d Details
	decode := func(field string, raw *string, dst interface{}) bool {
		if raw == nil || strings.TrimSpace(*raw) == "" {
			return false
		}
		if err := json.Unmarshal([]byte(*raw), dst); err != nil {
			d.Malformed = append(d.Malformed, field)
			return false
		}
		return true
	}

	var si SolutionsInventory
	if decode(FieldSolutionsInventory, o.SolutionsInventory, &si) {
		d.SolutionsInventory = &si
	}
	var thorns ThornScorecard
	if decode(FieldThornScorecard, o.ThornScorecard, &thorns) {
		d.ThornScorecard = thorns
	}
	var rm Roadmap
	if decode(FieldRoadmap, o.Roadmap, &rm) {
		d.Roadmap = &rm
	}
	var dm DeliveryModel
	if decode(FieldDeliveryModel, o.DeliveryModel, &dm) {
		d.DeliveryModel = &dm
	}
	var pr Pricing
	if decode(FieldPricing, o.Pricing, &pr) {
		d.Pricing = &pr
	}
	d.OutcomeStatement = parseOutcome(o.OutcomeStatement)
	return d
}

// parseOutcome reads the outcome column: a JSON object decodes to its fields,
// anything else is treated as the final statement itself.
func parseOutcome(raw *string) *OutcomeStatement {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	text := strings.TrimSpace(*raw)
	if strings.HasPrefix(text, "{") {
		var os OutcomeStatement
		if err := json.Unmarshal([]byte(text), &os); err == nil {
			return &os
		}
	}
	return &OutcomeStatement{Final: *raw}
}

// Text returns the value of a nullable text column.
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
