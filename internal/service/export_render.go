package service

import (
	"fmt"
	"strings"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/export"
)

// contentDocument maps a typed content item onto a printable document.
func contentDocument(content models.Content) (export.Document, error) {
	base := content.Base()
	doc := export.Document{Title: base.Title}

	switch v := content.(type) {
	case *models.EducationalContent:
		doc.Subtitle = compact(v.Subject, v.GradeLevel, v.Standard)
		if len(v.Metadata.Objectives) > 0 {
			doc.Blocks = append(doc.Blocks,
				export.Block{Heading: "Objectives"},
				export.Block{Paragraph: bulleted(v.Metadata.Objectives)})
		}
		if len(v.Metadata.Materials) > 0 {
			doc.Blocks = append(doc.Blocks,
				export.Block{Heading: "Materials"},
				export.Block{Paragraph: bulleted(v.Metadata.Materials)})
		}
		doc.Blocks = append(doc.Blocks, export.Block{Paragraph: v.Body})
		if len(v.Metadata.Differentiation) > 0 {
			doc.Blocks = append(doc.Blocks,
				export.Block{Heading: "Differentiation"},
				export.Block{Paragraph: bulleted(v.Metadata.Differentiation)})
		}

	case *models.Assessment:
		doc.Subtitle = compact(v.Subject, v.GradeLevel, fmt.Sprintf("%g points", v.PointsTotal))
		for i, question := range v.Questions {
			doc.Blocks = append(doc.Blocks, export.Block{
				Heading: fmt.Sprintf("%d. %s (%g pts)", i+1, question.Prompt, question.Points),
			})
			if len(question.Choices) > 0 {
				doc.Blocks = append(doc.Blocks, export.Block{Paragraph: lettered(question.Choices)})
			}
		}
		doc.Blocks = append(doc.Blocks,
			export.Block{Heading: "Answer Key"},
			export.Block{Table: assessmentAnswerTable(v)})
		if v.Rubric != nil {
			doc.Blocks = append(doc.Blocks,
				export.Block{Heading: "Grading Rubric"},
				export.Block{Table: rubricTable(v.Rubric)})
		}

	case *models.Rubric:
		doc.Subtitle = compact(fmt.Sprintf("%g points total", v.PointsTotal))
		doc.Blocks = append(doc.Blocks, export.Block{Table: rubricTable(v)})

	case *models.FlashcardSet:
		doc.Subtitle = compact(v.Subject, v.GradeLevel)
		doc.Blocks = append(doc.Blocks, export.Block{Table: flashcardTable(v)})

	case *models.Infographic:
		doc.Subtitle = compact(v.Subject, v.GradeLevel)
		for _, section := range v.Sections {
			doc.Blocks = append(doc.Blocks,
				export.Block{Heading: section.Heading},
				export.Block{Paragraph: section.Body})
		}

	default:
		return export.Document{}, fmt.Errorf("kind %s cannot be exported as a document", base.Type)
	}
	return doc, nil
}

// contentTable maps tabular kinds onto a single CSV-ready table. Prose
// kinds have no sensible tabular form and are rejected.
func contentTable(content models.Content) (export.Table, error) {
	switch v := content.(type) {
	case *models.Assessment:
		return *assessmentAnswerTable(v), nil
	case *models.Rubric:
		return *rubricTable(v), nil
	case *models.FlashcardSet:
		return *flashcardTable(v), nil
	default:
		return export.Table{}, fmt.Errorf("kind %s has no tabular form; export it as pdf", content.Base().Type)
	}
}

func rubricTable(rubric *models.Rubric) *export.Table {
	headers := []string{"Criterion"}
	if len(rubric.Rows) > 0 {
		for _, level := range rubric.Rows[0].Levels {
			headers = append(headers, fmt.Sprintf("%s (%g)", level.Label, level.Points))
		}
	}
	table := &export.Table{Headers: headers}
	for _, row := range rubric.Rows {
		cells := map[string]string{"Criterion": row.Criterion}
		for _, level := range row.Levels {
			cells[fmt.Sprintf("%s (%g)", level.Label, level.Points)] = level.Description
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func assessmentAnswerTable(assessment *models.Assessment) *export.Table {
	table := &export.Table{Headers: []string{"#", "Type", "Question", "Choices", "Answer", "Points"}}
	for i, question := range assessment.Questions {
		table.Rows = append(table.Rows, map[string]string{
			"#":        fmt.Sprintf("%d", i+1),
			"Type":     string(question.Type),
			"Question": question.Prompt,
			"Choices":  strings.Join(question.Choices, "; "),
			"Answer":   answerText(question.Answer),
			"Points":   fmt.Sprintf("%g", question.Points),
		})
	}
	return table
}

func flashcardTable(set *models.FlashcardSet) *export.Table {
	table := &export.Table{Headers: []string{"Front", "Back"}}
	for _, card := range set.Cards {
		table.Rows = append(table.Rows, map[string]string{"Front": card.Front, "Back": card.Back})
	}
	return table
}

func answerText(answer models.AnswerKey) string {
	if list, ok := answer.List(); ok {
		return strings.Join(list, "; ")
	}
	return fmt.Sprintf("%v", answer.Value())
}

func compact(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func bulleted(items []string) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}

func lettered(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%c) %s\n", 'A'+i, item)
	}
	return b.String()
}
