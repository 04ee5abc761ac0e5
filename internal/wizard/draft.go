package wizard

import (
	"encoding/json"
	"fmt"
	"strings"

	"gravity/internal/models"
)

// Draft is the wizard's in-memory copy of an offer.
type Draft struct {
	ID                 uint
	Title              string
	Status             models.Status
	CurrentStep        int
	IdealClient        string
	Limitation         string
	OutcomeStatement   *models.OutcomeStatement
	SolutionsInventory *models.SolutionsInventory
	ThornScorecard     models.ThornScorecard
	Roadmap            *models.Roadmap
	DeliveryModel      *models.DeliveryModel
	Pricing            *models.Pricing
	DocumentContent    string
}

// Changes is a shallow patch: each non-nil field replaces the draft's value wholesale.
type Changes struct {
	Title              *string
	Status             *models.Status
	IdealClient        *string
	Limitation         *string
	OutcomeStatement   *models.OutcomeStatement
	SolutionsInventory *models.SolutionsInventory
	ThornScorecard     *models.ThornScorecard
	Roadmap            *models.Roadmap
	DeliveryModel      *models.DeliveryModel
	Pricing            *models.Pricing
	DocumentContent    *string
}

func draftFromOffer(o models.Offer) (Draft, []string) {
	d := o.Details()
	step := o.CurrentStep
	if !models.StepInRange(step) {
		step = models.FirstStep
	}
	return Draft{
		ID:                 o.ID,
		Title:              o.Title,
		Status:             o.Status,
		CurrentStep:        step,
		IdealClient:        models.Text(o.IdealClient),
		Limitation:         models.Text(o.Limitation),
		OutcomeStatement:   d.OutcomeStatement,
		SolutionsInventory: d.SolutionsInventory,
		ThornScorecard:     d.ThornScorecard,
		Roadmap:            d.Roadmap,
		DeliveryModel:      d.DeliveryModel,
		Pricing:            d.Pricing,
		DocumentContent:    models.Text(o.DocumentContent),
	}, d.Malformed
}

// apply merges c into the draft and returns the names of the fields it touched.
func (d *Draft) apply(c Changes) ([]string, error) {
	if c.Status != nil && !c.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", *c.Status)
	}
	var touched []string
	set := func(name string, ok bool, fn func()) {
		if ok {
			fn()
			touched = append(touched, name)
		}
	}
	set(models.FieldTitle, c.Title != nil, func() { d.Title = *c.Title })
	set(models.FieldStatus, c.Status != nil, func() { d.Status = *c.Status })
	set(models.FieldIdealClient, c.IdealClient != nil, func() { d.IdealClient = *c.IdealClient })
	set(models.FieldLimitation, c.Limitation != nil, func() { d.Limitation = *c.Limitation })
	set(models.FieldOutcomeStatement, c.OutcomeStatement != nil, func() {
		v := *c.OutcomeStatement
		d.OutcomeStatement = &v
	})
	set(models.FieldSolutionsInventory, c.SolutionsInventory != nil, func() {
		v := *c.SolutionsInventory
		d.SolutionsInventory = &v
	})
	set(models.FieldThornScorecard, c.ThornScorecard != nil, func() {
		d.ThornScorecard = c.ThornScorecard.Recompute()
	})
	set(models.FieldRoadmap, c.Roadmap != nil, func() {
		v := *c.Roadmap
		d.Roadmap = &v
	})
	set(models.FieldDeliveryModel, c.DeliveryModel != nil, func() {
		v := *c.DeliveryModel
		d.DeliveryModel = &v
	})
	set(models.FieldPricing, c.Pricing != nil, func() {
		v := *c.Pricing
		d.Pricing = &v
	})
	set(models.FieldDocumentContent, c.DocumentContent != nil, func() { d.DocumentContent = *c.DocumentContent })
	return touched, nil
}

func (d Draft) clone() Draft {
	c := d
	if d.OutcomeStatement != nil {
		v := *d.OutcomeStatement
		c.OutcomeStatement = &v
	}
	if d.SolutionsInventory != nil {
		v := *d.SolutionsInventory
		c.SolutionsInventory = &v
	}
	if d.ThornScorecard != nil {
		c.ThornScorecard = append(models.ThornScorecard{}, d.ThornScorecard...)
	}
	if d.Roadmap != nil {
		v := *d.Roadmap
		c.Roadmap = &v
	}
	if d.DeliveryModel != nil {
		v := *d.DeliveryModel
		c.DeliveryModel = &v
	}
	if d.Pricing != nil {
		v := *d.Pricing
		c.Pricing = &v
	}
	return c
}

// patch serializes the whole draft. Fields in skip are left out so a stored
// value that could not be decoded is not overwritten by an empty one.
func (d Draft) patch(skip map[string]bool) (models.Patch, error) {
	p := models.Patch{
		models.FieldTitle:       d.Title,
		models.FieldStatus:      d.Status,
		models.FieldCurrentStep: d.CurrentStep,
	}
	p.SetText(models.FieldIdealClient, d.IdealClient)
	p.SetText(models.FieldLimitation, d.Limitation)
	p.SetText(models.FieldDocumentContent, d.DocumentContent)

	for _, f := range []struct {
		name string
		v    interface{}
	}{
		{models.FieldOutcomeStatement, d.OutcomeStatement},
		{models.FieldSolutionsInventory, d.SolutionsInventory},
		{models.FieldThornScorecard, d.ThornScorecard},
		{models.FieldRoadmap, d.Roadmap},
		{models.FieldDeliveryModel, d.DeliveryModel},
		{models.FieldPricing, d.Pricing},
	} {
		if skip[f.name] {
			continue
		}
		if err := p.SetJSON(f.name, f.v); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ParseChange builds a Changes value from a field name and its text form.
// Compound fields take JSON.
func ParseChange(field, value string) (Changes, error) {
	var c Changes
	decode := func(dst interface{}) error {
		if err := json.Unmarshal([]byte(value), dst); err != nil {
			return &models.ValidationError{Field: field, Reason: "must be JSON: " + err.Error()}
		}
		return nil
	}

	var err error
	switch field {
	case models.FieldTitle:
		c.Title = &value
	case models.FieldStatus:
		st := models.Status(value)
		if !st.Valid() {
			return c, &models.ValidationError{Field: field, Reason: "must be one of draft, ready, launched"}
		}
		c.Status = &st
	case models.FieldIdealClient:
		c.IdealClient = &value
	case models.FieldLimitation:
		c.Limitation = &value
	case models.FieldDocumentContent:
		c.DocumentContent = &value
	case models.FieldOutcomeStatement:
		v := models.OutcomeStatement{Final: value}
		if strings.HasPrefix(strings.TrimSpace(value), "{") {
			err = decode(&v)
		}
		c.OutcomeStatement = &v
	case models.FieldSolutionsInventory:
		c.SolutionsInventory = new(models.SolutionsInventory)
		err = decode(c.SolutionsInventory)
	case models.FieldThornScorecard:
		c.ThornScorecard = new(models.ThornScorecard)
		err = decode(c.ThornScorecard)
	case models.FieldRoadmap:
		c.Roadmap = new(models.Roadmap)
		err = decode(c.Roadmap)
	case models.FieldDeliveryModel:
		c.DeliveryModel = new(models.DeliveryModel)
		err = decode(c.DeliveryModel)
	case models.FieldPricing:
		c.Pricing = new(models.Pricing)
		err = decode(c.Pricing)
	default:
		return c, &models.ValidationError{Field: field, Reason: "not editable in the wizard"}
	}
	return c, err
}
