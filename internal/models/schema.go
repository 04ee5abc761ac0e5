package models

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

func str() map[string]interface{}  { return map[string]interface{}{"type": "string"} }
func num() map[string]interface{}  { return map[string]interface{}{"type": "number"} }
func flag() map[string]interface{} { return map[string]interface{}{"type": "boolean"} }

func object(props map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": props}
}

func score() map[string]interface{} {
	return map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 5}
}

var phaseSchema = object(map[string]interface{}{
	"name": str(), "description": str(), "motivation": str(),
})

var deliveryOptionSchema = object(map[string]interface{}{
	"enabled": flag(), "description": str(),
})

// fieldSchemas 复合字段写入前的结构校验
var fieldSchemas = map[string]map[string]interface{}{
	FieldSolutionsInventory: object(map[string]interface{}{
		"clarity": str(),
		"plan":    str(),
		"integration": object(map[string]interface{}{
			"diy": str(), "dwy": str(), "dfy": str(),
		}),
	}),
	FieldThornScorecard: {
		"type": "array",
		"items": object(map[string]interface{}{
			"thing":         str(),
			"todoList":      map[string]interface{}{"type": "string", "enum": []interface{}{"D", "W", "M", "Y"}},
			"mindShare":     score(),
			"emotionalTemp": score(),
			"tai":           flag(),
			"hardToFind":    flag(),
			"total":         map[string]interface{}{"type": "integer"},
		}),
	},
	FieldOutcomeStatement: object(map[string]interface{}{
		"limitation": str(), "desiredState": str(), "measurable": str(),
		"timeframe": str(), "specific": str(), "final": str(),
	}),
	FieldRoadmap: object(map[string]interface{}{
		"phase1": phaseSchema, "phase2": phaseSchema, "phase3": phaseSchema,
	}),
	FieldDeliveryModel: object(map[string]interface{}{
		"dfy": deliveryOptionSchema,
		"dwy": deliveryOptionSchema,
		"diy": deliveryOptionSchema,
		"selfSorting": object(map[string]interface{}{
			"enabled": flag(), "option1": str(), "option2": str(),
		}),
	}),
	FieldPricing: object(map[string]interface{}{
		"amount": map[string]interface{}{"type": "number", "minimum": 0},
		"structure": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"one-time", "payment-plan", "weekly", "pay-as-profit"},
		},
		"paymentPlan": object(map[string]interface{}{
			"firstPayment": num(), "numPayments": map[string]interface{}{"type": "integer"}, "paymentAmount": num(),
		}),
		"weekly": object(map[string]interface{}{
			"weeklyAmount": num(), "duration": str(),
		}),
		"payAsProfit": object(map[string]interface{}{
			"initialPayment": num(), "performanceTrigger": str(), "performanceAmount": num(),
		}),
		"ascension": str(),
	}),
}

// validateShape checks a structured value against the field's schema.
func validateShape(field string, doc []byte) error {
	schema, ok := fieldSchemas[field]
	if !ok {
		return nil
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("schema validation failed: %v", err)}
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return &ValidationError{Field: field, Reason: strings.Join(msgs, "; ")}
}
