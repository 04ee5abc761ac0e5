package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"
)

const (
	FieldTitle              = "title"
	FieldStatus             = "status"
	FieldIdealClient        = "idealClient"
	FieldLimitation         = "limitation"
	FieldOutcomeStatement   = "outcomeStatement"
	FieldDocumentContent    = "documentContent"
	FieldDMScript           = "dmScript"
	FieldEmailSequence      = "emailSequence"
	FieldCurrentStep        = "currentStep"
	FieldSolutionsInventory = "solutionsInventory"
	FieldThornScorecard     = "thornScorecard"
	FieldRoadmap            = "roadmap"
	FieldDeliveryModel      = "deliveryModel"
	FieldPricing            = "pricing"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindTitle
	kindStatus
	kindStep
	kindJSON
)

type fieldDef struct {
	name   string
	column string
	kind   fieldKind
}

// writableFields 允许写入的字段及其列名，顺序即解析顺序
var writableFields = []fieldDef{
	{FieldTitle, "title", kindTitle},
	{FieldStatus, "status", kindStatus},
	{FieldIdealClient, "ideal_client", kindText},
	{FieldLimitation, "limitation", kindText},
	{FieldOutcomeStatement, "outcome_statement", kindJSON},
	{FieldDocumentContent, "document_content", kindText},
	{FieldDMScript, "dm_script", kindText},
	{FieldEmailSequence, "email_sequence", kindText},
	{FieldCurrentStep, "current_step", kindStep},
	{FieldSolutionsInventory, "solutions_inventory", kindJSON},
	{FieldThornScorecard, "thorn_scorecard", kindJSON},
	{FieldRoadmap, "roadmap", kindJSON},
	{FieldDeliveryModel, "delivery_model", kindJSON},
	{FieldPricing, "pricing", kindJSON},
}

// ValidationError reports a rejected field value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Patch is a partial offer write keyed by JSON field name. Values are already
// normalized: *string for text and serialized compound fields (nil clears the
// column), Status for status and int for currentStep.
type Patch map[string]interface{}

// ParsePatch decodes a request body into a Patch. Unknown keys are ignored,
// as are null title, status and step values. Compound fields given as objects
// are validated and serialized; strings pass through.
func ParsePatch(body []byte) (Patch, error) {
	p := Patch{}
	if len(bytes.TrimSpace(body)) == 0 {
		return p, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ValidationError{Field: "body", Reason: "must be a JSON object"}
	}
	for _, f := range writableFields {
		v, ok := raw[f.name]
		if !ok {
			continue
		}
		if unset(f, v) {
			continue
		}
		val, err := decodeField(f, v)
		if err != nil {
			return nil, err
		}
		p[f.name] = val
	}
	return p, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// unset reports a title, status or step value that counts as not given:
// null, an empty status or step 0. Create then falls back to its defaults.
func unset(f fieldDef, v json.RawMessage) bool {
	switch f.kind {
	case kindTitle:
		return isNull(v)
	case kindStatus:
		return isNull(v) || bytes.Equal(bytes.TrimSpace(v), []byte(`""`))
	case kindStep:
		if isNull(v) {
			return true
		}
		var n float64
		return json.Unmarshal(v, &n) == nil && n == 0
	}
	return false
}

func decodeField(f fieldDef, v json.RawMessage) (interface{}, error) {
	switch f.kind {
	case kindTitle:
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, &ValidationError{Field: f.name, Reason: "must be a string"}
		}
		return s, nil
	case kindStatus:
		var s Status
		if err := json.Unmarshal(v, &s); err != nil || !s.Valid() {
			return nil, &ValidationError{Field: f.name, Reason: "must be one of draft, ready, launched"}
		}
		return s, nil
	case kindStep:
		var n float64
		if err := json.Unmarshal(v, &n); err != nil || n != math.Trunc(n) || !StepInRange(int(n)) {
			return nil, &ValidationError{Field: f.name, Reason: fmt.Sprintf("must be an integer between %d and %d", FirstStep, LastStep)}
		}
		return int(n), nil
	case kindText:
		if isNull(v) {
			return (*string)(nil), nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, &ValidationError{Field: f.name, Reason: "must be a string or null"}
		}
		return &s, nil
	case kindJSON:
		if isNull(v) {
			return (*string)(nil), nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return &s, nil
		}
		if err := validateShape(f.name, v); err != nil {
			return nil, err
		}
		if f.name == FieldThornScorecard {
			return encodeScorecard(v)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, &ValidationError{Field: f.name, Reason: "invalid JSON"}
		}
		out := buf.String()
		return &out, nil
	}
	return nil, fmt.Errorf("unhandled field kind for %s", f.name)
}

// encodeScorecard stores a scorecard with totals derived from its scores;
// client supplied totals are discarded.
func encodeScorecard(v json.RawMessage) (*string, error) {
	var card ThornScorecard
	if err := json.Unmarshal(v, &card); err != nil {
		return nil, &ValidationError{Field: FieldThornScorecard, Reason: "invalid JSON"}
	}
	data, err := json.Marshal(card.Recompute())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", FieldThornScorecard, err)
	}
	out := string(data)
	return &out, nil
}

// SetText stores a plain text value.
func (p Patch) SetText(name, value string) {
	p[name] = &value
}

// SetJSON serializes v into a compound field. A nil pointer or slice clears it.
func (p Patch) SetJSON(name string, v interface{}) error {
	if v == nil {
		p[name] = (*string)(nil)
		return nil
	}
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Slice) && rv.IsNil() {
		p[name] = (*string)(nil)
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	s := string(data)
	p[name] = &s
	return nil
}

// Columns maps the patch onto column names for an UPDATE.
func (p Patch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, len(p))
	for _, f := range writableFields {
		if v, ok := p[f.name]; ok {
			cols[f.column] = v
		}
	}
	return cols
}

// ApplyTo copies the patch onto an offer in memory.
func (p Patch) ApplyTo(o *Offer) {
	for _, f := range writableFields {
		v, ok := p[f.name]
		if !ok {
			continue
		}
		switch f.name {
		case FieldTitle:
			o.Title, _ = v.(string)
		case FieldStatus:
			o.Status, _ = v.(Status)
		case FieldCurrentStep:
			o.CurrentStep, _ = v.(int)
		default:
			s, _ := v.(*string)
			*textField(o, f.name) = s
		}
	}
}

func textField(o *Offer, name string) **string {
	switch name {
	case FieldIdealClient:
		return &o.IdealClient
	case FieldLimitation:
		return &o.Limitation
	case FieldOutcomeStatement:
		return &o.OutcomeStatement
	case FieldDocumentContent:
		return &o.DocumentContent
	case FieldDMScript:
		return &o.DMScript
	case FieldEmailSequence:
		return &o.EmailSequence
	case FieldSolutionsInventory:
		return &o.SolutionsInventory
	case FieldThornScorecard:
		return &o.ThornScorecard
	case FieldRoadmap:
		return &o.Roadmap
	case FieldDeliveryModel:
		return &o.DeliveryModel
	case FieldPricing:
		return &o.Pricing
	}
	panic("models: unknown text field " + name)
}

// NextUpdatedAt returns now truncated to microseconds, nudged past prev so the
// timestamp strictly increases on every write.
func NextUpdatedAt(prev, now time.Time) time.Time {
	ts := now.UTC().Truncate(time.Microsecond)
	if !ts.After(prev) {
		ts = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return ts
}
