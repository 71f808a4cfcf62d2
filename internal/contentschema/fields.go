// Package contentschema is the content type model: one canonical field
// specification per content kind, consumed both by the validation gate
// (Validate) and by the generation request builder (ResponseSchema).
// Keeping a single definition prevents the two from drifting apart.
package contentschema

import (
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

type fieldType int

const (
	ftString fieldType = iota
	ftNumber
	ftBoolean
	ftStringArray
	ftObject
	ftObjectArray
	// ftAnswerKey is polymorphic: string, number, boolean or a list of
	// strings. The generation schema describes it as a string and the
	// dispatcher repairs bracketed list literals afterwards.
	ftAnswerKey
)

type fieldSpec struct {
	name     string
	typ      fieldType
	required bool
	enum     []string
	desc     string
	fields   []fieldSpec
	// pipeline fields are stamped or merged by the dispatcher rather
	// than requested from the model: they are excluded from the
	// response schema but still enforced by the validation gate.
	pipeline bool
}

func audienceEnum() []string {
	return []string{
		string(models.AudienceEducator),
		string(models.AudienceStudent),
		string(models.AudienceBoth),
		string(models.AudienceSeller),
	}
}

func questionTypeEnum() []string {
	return []string{
		string(models.QuestionMultipleChoice),
		string(models.QuestionShortAnswer),
		string(models.QuestionEssay),
		string(models.QuestionTrueFalse),
	}
}

// baseFields are shared by every kind. id and generatedAt are always
// assigned by the pipeline; whatever the backend echoes is discarded.
func baseFields() []fieldSpec {
	return []fieldSpec{
		{name: "id", typ: ftString, required: true, pipeline: true},
		{name: "title", typ: ftString, required: true, desc: "Short descriptive title"},
		{name: "generatedAt", typ: ftString, required: true, pipeline: true},
	}
}

func educationalFields() []fieldSpec {
	return append(baseFields(),
		fieldSpec{name: "targetAudience", typ: ftString, required: true, enum: audienceEnum(), desc: "Who the material is written for"},
		fieldSpec{name: "subject", typ: ftString, required: true, desc: "Academic subject"},
		fieldSpec{name: "gradeLevel", typ: ftString, required: true, desc: "Target grade level"},
		fieldSpec{name: "standard", typ: ftString, desc: "Curriculum standard alignment label"},
		fieldSpec{name: "content", typ: ftString, required: true, desc: "Full rich-text body in markdown"},
		fieldSpec{name: "metadata", typ: ftObject, fields: []fieldSpec{
			{name: "duration", typ: ftString, desc: "Expected duration"},
			{name: "materials", typ: ftStringArray, desc: "Required materials"},
			{name: "objectives", typ: ftStringArray, desc: "Learning objectives"},
			{name: "differentiation", typ: ftStringArray, desc: "Differentiation strategies"},
			{name: "alignment", typ: ftStringArray, desc: "Standards alignment notes"},
		}},
	)
}

func questionFields() []fieldSpec {
	return []fieldSpec{
		{name: "id", typ: ftString, required: true, pipeline: true},
		{name: "type", typ: ftString, required: true, enum: questionTypeEnum(), desc: "Question format"},
		{name: "prompt", typ: ftString, required: true, desc: "The question text"},
		{name: "choices", typ: ftStringArray, desc: "Answer options, multiple-choice only"},
		{name: "answerKey", typ: ftAnswerKey, required: true, desc: "Correct answer; a JSON array literal when several options are correct"},
		{name: "points", typ: ftNumber, required: true, desc: "Points awarded, greater than zero"},
	}
}

func rubricRowFields() []fieldSpec {
	return []fieldSpec{
		{name: "criterion", typ: ftString, required: true, desc: "What is being assessed"},
		{name: "levels", typ: ftObjectArray, required: true, desc: "Achievement levels in order", fields: []fieldSpec{
			{name: "label", typ: ftString, required: true, desc: "Level name"},
			{name: "points", typ: ftNumber, required: true, desc: "Points for this level"},
			{name: "description", typ: ftString, required: true, desc: "What performance at this level looks like"},
		}},
	}
}

func rubricFields() []fieldSpec {
	return append(baseFields(),
		fieldSpec{name: "rows", typ: ftObjectArray, required: true, desc: "Criteria rows", fields: rubricRowFields()},
		fieldSpec{name: "pointsTotal", typ: ftNumber, required: true, desc: "Total achievable points"},
	)
}

func assessmentFields() []fieldSpec {
	return append(baseFields(),
		fieldSpec{name: "subject", typ: ftString, required: true, desc: "Academic subject"},
		fieldSpec{name: "gradeLevel", typ: ftString, required: true, desc: "Target grade level"},
		fieldSpec{name: "questions", typ: ftObjectArray, required: true, desc: "Assessment items", fields: questionFields()},
		fieldSpec{name: "pointsTotal", typ: ftNumber, required: true, desc: "Total points"},
		// An embedded rubric is attached by the dispatcher from the
		// caller's associated rubric, never requested from the model.
		fieldSpec{name: "rubric", typ: ftObject, pipeline: true, fields: rubricFields()},
	)
}

func imageFields() []fieldSpec {
	return append(baseFields(),
		fieldSpec{name: "prompt", typ: ftString, required: true, pipeline: true},
		fieldSpec{name: "base64Image", typ: ftString, required: true, pipeline: true},
		fieldSpec{name: "style", typ: ftString, pipeline: true},
		fieldSpec{name: "aspectRatio", typ: ftString, pipeline: true},
	)
}

func flashcardFields() []fieldSpec {
	return append(baseFields(),
		fieldSpec{name: "subject", typ: ftString, required: true, desc: "Academic subject"},
		fieldSpec{name: "gradeLevel", typ: ftString, required: true, desc: "Target grade level"},
		fieldSpec{name: "cards", typ: ftObjectArray, required: true, desc: "Study cards", fields: []fieldSpec{
			{name: "front", typ: ftString, required: true, desc: "Prompt side"},
			{name: "back", typ: ftString, required: true, desc: "Answer side"},
		}},
	)
}

func infographicFields() []fieldSpec {
	return append(baseFields(),
		fieldSpec{name: "subject", typ: ftString, required: true, desc: "Academic subject"},
		fieldSpec{name: "gradeLevel", typ: ftString, required: true, desc: "Target grade level"},
		fieldSpec{name: "sections", typ: ftObjectArray, required: true, desc: "Outline sections in display order", fields: []fieldSpec{
			{name: "heading", typ: ftString, required: true, desc: "Section heading"},
			{name: "body", typ: ftString, required: true, desc: "Concise section text"},
		}},
	)
}

// kindSpec returns the canonical field list for a kind; ok is false for
// kinds outside the closed catalog.
func kindSpec(kind models.ContentKind) ([]fieldSpec, bool) {
	switch kind {
	case models.KindLesson, models.KindActivity, models.KindResource, models.KindPrintable:
		return educationalFields(), true
	case models.KindAssessment, models.KindAssessmentQuestions:
		return assessmentFields(), true
	case models.KindRubric:
		return rubricFields(), true
	case models.KindImage:
		return imageFields(), true
	case models.KindFlashcard:
		return flashcardFields(), true
	case models.KindInfographic:
		return infographicFields(), true
	default:
		return nil, false
	}
}
