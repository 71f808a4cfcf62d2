package models

// Tool is one entry of the fixed content-tool catalog: the thing a user
// selects before filling the generation form.
type Tool struct {
	ID              string
	Name            string
	Kind            ContentKind
	RequiresSubject bool
	SupportsRubric  bool
	IsImage         bool
	IsPackage       bool
	PackageKinds    []ContentKind
}

// ToolCatalog is the closed set of selectable tools.
var ToolCatalog = []Tool{
	{ID: "lesson-plan", Name: "Lesson Plan", Kind: KindLesson, RequiresSubject: true},
	{ID: "activity", Name: "Classroom Activity", Kind: KindActivity, RequiresSubject: true},
	{ID: "resource", Name: "Teaching Resource", Kind: KindResource, RequiresSubject: true},
	{ID: "printable", Name: "Printable Worksheet", Kind: KindPrintable, RequiresSubject: true},
	{ID: "assessment", Name: "Assessment", Kind: KindAssessment, RequiresSubject: true, SupportsRubric: true},
	{ID: "question-bank", Name: "Question Bank", Kind: KindAssessmentQuestions, RequiresSubject: true},
	{ID: "rubric", Name: "Rubric", Kind: KindRubric, RequiresSubject: true},
	{ID: "illustration", Name: "Illustration", Kind: KindImage, IsImage: true},
	{ID: "flashcards", Name: "Flashcards", Kind: KindFlashcard, RequiresSubject: true},
	{ID: "infographic", Name: "Infographic Outline", Kind: KindInfographic, RequiresSubject: true},
	{ID: "unit-package", Name: "Unit Package", Kind: KindLesson, RequiresSubject: true, IsPackage: true,
		PackageKinds: []ContentKind{KindLesson, KindAssessment, KindResource}},
}

// ToolByID resolves a catalog entry; ok is false for unknown ids.
func ToolByID(id string) (Tool, bool) {
	for _, tool := range ToolCatalog {
		if tool.ID == id {
			return tool, true
		}
	}
	return Tool{}, false
}

// Subjects is the suggestion catalog shown in the form. Values are free
// text at the type level; the list is not enum-enforced.
var Subjects = []string{
	"Mathematics", "Science", "English Language Arts", "Social Studies",
	"History", "Geography", "Art", "Music", "Physical Education",
	"Computer Science", "World Languages",
}

// GradeLevels is the suggestion catalog for grade selection.
var GradeLevels = []string{
	"Pre-K", "Kindergarten",
	"1st Grade", "2nd Grade", "3rd Grade", "4th Grade", "5th Grade",
	"6th Grade", "7th Grade", "8th Grade",
	"9th Grade", "10th Grade", "11th Grade", "12th Grade",
	"Higher Education", "Adult Education",
}

// BloomsLevels orders the taxonomy options offered by the form.
var BloomsLevels = []string{
	"Remember", "Understand", "Apply", "Analyze", "Evaluate", "Create",
}

// ImageStyles maps style ids to prompt prefixes; the default style adds
// no prefix.
var ImageStyles = map[string]string{
	"default":    "",
	"watercolor": "A soft watercolor illustration of ",
	"line-art":   "Clean black and white line art of ",
	"cartoon":    "A friendly cartoon illustration of ",
	"realistic":  "A photorealistic rendering of ",
}
