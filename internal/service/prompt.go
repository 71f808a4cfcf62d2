package service

import (
	"fmt"
	"strings"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

// buildPrompt composes the natural-language instruction for a structured
// generation call. The schema constrains the shape; the prompt carries
// everything the schema cannot express, such as pedagogy and audience.
func buildPrompt(params models.GenerationParams) string {
	var b strings.Builder

	switch params.Kind {
	case models.KindLesson:
		b.WriteString("Create a complete, classroom-ready lesson plan")
	case models.KindActivity:
		b.WriteString("Create an engaging hands-on learning activity")
	case models.KindResource:
		b.WriteString("Create a study guide resource that summarizes the key ideas")
	case models.KindPrintable:
		b.WriteString("Create a printable worksheet with clear instructions")
	case models.KindAssessment:
		b.WriteString("Create an assessment")
	case models.KindAssessmentQuestions:
		b.WriteString("Create a bank of assessment questions")
	case models.KindFlashcard:
		b.WriteString("Create a set of study flashcards")
	case models.KindInfographic:
		b.WriteString("Create the textual content plan for an infographic")
	default:
		b.WriteString("Create educational content")
	}

	if params.Subject != "" {
		fmt.Fprintf(&b, " for %s", params.Subject)
	}
	if params.Grade != "" {
		fmt.Fprintf(&b, " at the %s level", params.Grade)
	}
	if params.Topic != "" {
		fmt.Fprintf(&b, " on the topic %q", params.Topic)
	}
	b.WriteString(".")

	switch params.Audience {
	case models.AudienceStudent:
		b.WriteString(" Write directly to the student in approachable language.")
	case models.AudienceSeller:
		b.WriteString(" Polish the material for publication on a teacher marketplace.")
	default:
		b.WriteString(" Write for a teacher who will deliver this material.")
	}

	if params.Standard != "" {
		fmt.Fprintf(&b, " Align the content to the standard %q.", params.Standard)
	}
	if len(params.Objectives) > 0 {
		fmt.Fprintf(&b, " Target these learning objectives: %s.", strings.Join(params.Objectives, "; "))
	}
	if params.Difficulty != "" {
		fmt.Fprintf(&b, " Difficulty: %s.", params.Difficulty)
	}
	if params.BloomsLevel != "" {
		fmt.Fprintf(&b, " Aim for the %q level of Bloom's taxonomy.", params.BloomsLevel)
	}
	if len(params.DifferentiationProfiles) > 0 {
		fmt.Fprintf(&b, " Include differentiation guidance for: %s.", strings.Join(params.DifferentiationProfiles, ", "))
	}

	if params.Kind == models.KindAssessment || params.Kind == models.KindAssessmentQuestions {
		count := params.QuestionCount
		if count <= 0 {
			count = 10
		}
		fmt.Fprintf(&b, " Produce exactly %d questions, mixing question types where appropriate."+
			" For multiple-choice questions provide the choices and mark the correct answer in the answer key;"+
			" when several options are correct return the answer key as a list.", count)
	}

	if params.Persona != "" {
		fmt.Fprintf(&b, " Follow these standing instructions from the author: %s", params.Persona)
	}

	b.WriteString(" Respond with JSON only.")
	return b.String()
}

// buildRubricPrompt asks only for the description prose of each cell.
// The structure, criterion names, level labels and points are already
// fixed by the builder and must be echoed back unchanged.
func buildRubricPrompt(draft *models.RubricDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write performance-level descriptions for a grading rubric titled %q", draft.Title)
	if draft.Subject != "" {
		fmt.Fprintf(&b, " for %s", draft.Subject)
	}
	if draft.GradeLevel != "" {
		fmt.Fprintf(&b, " at the %s level", draft.GradeLevel)
	}
	b.WriteString(".\n\nThe rubric structure is fixed. Do not rename criteria or levels and do not change points.\n")

	b.WriteString("Levels (best to worst):\n")
	for _, level := range draft.Levels {
		fmt.Fprintf(&b, "- %s (%g points)\n", level.Label, level.Points)
	}
	b.WriteString("Criteria:\n")
	for _, criterion := range draft.Criteria {
		fmt.Fprintf(&b, "- %s\n", criterion.Name)
	}

	b.WriteString("\nFor every criterion, write one concrete, observable description per level." +
		" Each description states what student work looks like at that level." +
		" Echo the criterion names and the level labels and points exactly as given." +
		" Respond with JSON only.")
	return b.String()
}

// buildImagePrompt prepends the style prefix when a non-default style is
// selected. Unknown style ids pass through without a prefix.
func buildImagePrompt(params models.GenerationParams) string {
	prompt := params.Topic
	if prefix, ok := models.ImageStyles[params.ImageStyle]; ok && prefix != "" {
		prompt = prefix + prompt
	}
	return prompt
}
