package contentschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

func TestResponseSchemaExcludesPipelineFields(t *testing.T) {
	schema, err := ResponseSchema(models.KindLesson)
	require.NoError(t, err)

	assert.NotContains(t, schema.Properties, "id")
	assert.NotContains(t, schema.Properties, "generatedAt")
	assert.Contains(t, schema.Properties, "title")
	assert.Contains(t, schema.Properties, "content")
	assert.NotContains(t, schema.Required, "id")

	assessment, err := ResponseSchema(models.KindAssessment)
	require.NoError(t, err)
	assert.NotContains(t, assessment.Properties, "rubric", "the embedded rubric is attached by the pipeline, never requested")

	questions := assessment.Properties["questions"]
	require.NotNil(t, questions)
	assert.NotContains(t, questions.Items.Properties, "id")
}

func TestResponseSchemaCarriesEnums(t *testing.T) {
	schema, err := ResponseSchema(models.KindLesson)
	require.NoError(t, err)

	audience := schema.Properties["targetAudience"]
	require.NotNil(t, audience)
	assert.Equal(t, genai.TypeString, audience.Type)
	assert.Contains(t, audience.Enum, "educator")
	assert.Contains(t, audience.Enum, "seller")
}

func TestResponseSchemaDescribesAnswerKeyAsString(t *testing.T) {
	schema, err := ResponseSchema(models.KindAssessment)
	require.NoError(t, err)

	answerKey := schema.Properties["questions"].Items.Properties["answerKey"]
	require.NotNil(t, answerKey)
	assert.Equal(t, genai.TypeString, answerKey.Type, "the polymorphic key is requested as a string and repaired afterwards")
}

func TestResponseSchemaUnknownKind(t *testing.T) {
	_, err := ResponseSchema(models.ContentKind("mixtape"))
	require.Error(t, err)
}

func TestEverySupportedKindHasASchema(t *testing.T) {
	for _, kind := range models.Kinds {
		_, err := ResponseSchema(kind)
		require.NoError(t, err, "kind %s", kind)
	}
}
