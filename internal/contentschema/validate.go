package contentschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

// FieldIssue is one structural mismatch found during validation.
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError aggregates every field-level mismatch found in a
// payload, not just the first one.
type ValidationError struct {
	Kind   models.ContentKind `json:"kind"`
	Issues []FieldIssue       `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return fmt.Sprintf("content %q failed validation: %s", e.Kind, strings.Join(parts, "; "))
}

// Validate is the single gate between untrusted structured data and the
// typed content model. It checks shape only (field presence, primitive
// types, enum membership, array element shape) and never business
// rules. Malformed input yields a *ValidationError; an unknown kind is
// programmer error and yields a plain error.
func Validate(kind models.ContentKind, raw json.RawMessage) (models.Content, error) {
	spec, ok := kindSpec(kind)
	if !ok {
		return nil, fmt.Errorf("contentschema: unknown content kind %q", kind)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ValidationError{Kind: kind, Issues: []FieldIssue{{Path: "$", Message: "payload is not a JSON object"}}}
	}

	issues := checkObject("$", spec, payload)
	if len(issues) > 0 {
		return nil, &ValidationError{Kind: kind, Issues: issues}
	}

	return decode(kind, raw)
}

func checkObject(path string, spec []fieldSpec, obj map[string]any) []FieldIssue {
	var issues []FieldIssue
	for _, field := range spec {
		fieldPath := path + "." + field.name
		value, present := obj[field.name]
		if !present || value == nil {
			if field.required {
				issues = append(issues, FieldIssue{Path: fieldPath, Message: "required field is missing"})
			}
			continue
		}
		issues = append(issues, checkValue(fieldPath, field, value)...)
	}
	return issues
}

func checkValue(path string, field fieldSpec, value any) []FieldIssue {
	switch field.typ {
	case ftString:
		s, ok := value.(string)
		if !ok {
			return []FieldIssue{{Path: path, Message: "expected a string"}}
		}
		if field.required && s == "" {
			return []FieldIssue{{Path: path, Message: "must not be empty"}}
		}
		if len(field.enum) > 0 && !contains(field.enum, s) {
			return []FieldIssue{{Path: path, Message: fmt.Sprintf("value %q is not one of %s", s, strings.Join(field.enum, ", "))}}
		}
	case ftNumber:
		if _, ok := value.(float64); !ok {
			return []FieldIssue{{Path: path, Message: "expected a number"}}
		}
	case ftBoolean:
		if _, ok := value.(bool); !ok {
			return []FieldIssue{{Path: path, Message: "expected a boolean"}}
		}
	case ftStringArray:
		list, ok := value.([]any)
		if !ok {
			return []FieldIssue{{Path: path, Message: "expected an array of strings"}}
		}
		var issues []FieldIssue
		for i, item := range list {
			if _, ok := item.(string); !ok {
				issues = append(issues, FieldIssue{Path: fmt.Sprintf("%s[%d]", path, i), Message: "expected a string"})
			}
		}
		return issues
	case ftObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return []FieldIssue{{Path: path, Message: "expected an object"}}
		}
		return checkObject(path, field.fields, obj)
	case ftObjectArray:
		list, ok := value.([]any)
		if !ok {
			return []FieldIssue{{Path: path, Message: "expected an array of objects"}}
		}
		var issues []FieldIssue
		for i, item := range list {
			obj, ok := item.(map[string]any)
			if !ok {
				issues = append(issues, FieldIssue{Path: fmt.Sprintf("%s[%d]", path, i), Message: "expected an object"})
				continue
			}
			issues = append(issues, checkObject(fmt.Sprintf("%s[%d]", path, i), field.fields, obj)...)
		}
		return issues
	case ftAnswerKey:
		switch v := value.(type) {
		case string, float64, bool:
			return nil
		case []any:
			var issues []FieldIssue
			for i, item := range v {
				if _, ok := item.(string); !ok {
					issues = append(issues, FieldIssue{Path: fmt.Sprintf("%s[%d]", path, i), Message: "answer list entries must be strings"})
				}
			}
			return issues
		default:
			return []FieldIssue{{Path: path, Message: "expected a string, number, boolean or string array"}}
		}
	}
	return nil
}

// decode unmarshals a structurally valid payload into its typed form.
func decode(kind models.ContentKind, raw json.RawMessage) (models.Content, error) {
	var (
		content models.Content
		err     error
	)
	switch kind {
	case models.KindLesson, models.KindActivity, models.KindResource, models.KindPrintable:
		v := &models.EducationalContent{}
		err = json.Unmarshal(raw, v)
		content = v
	case models.KindAssessment, models.KindAssessmentQuestions:
		v := &models.Assessment{}
		err = json.Unmarshal(raw, v)
		content = v
	case models.KindRubric:
		v := &models.Rubric{}
		err = json.Unmarshal(raw, v)
		content = v
	case models.KindImage:
		v := &models.ImageContent{}
		err = json.Unmarshal(raw, v)
		content = v
	case models.KindFlashcard:
		v := &models.FlashcardSet{}
		err = json.Unmarshal(raw, v)
		content = v
	case models.KindInfographic:
		v := &models.Infographic{}
		err = json.Unmarshal(raw, v)
		content = v
	default:
		return nil, fmt.Errorf("contentschema: unknown content kind %q", kind)
	}
	if err != nil {
		return nil, &ValidationError{Kind: kind, Issues: []FieldIssue{{Path: "$", Message: err.Error()}}}
	}
	content.Base().Type = kind
	return content, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
