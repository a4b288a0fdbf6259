package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/BoldMakerAI/ai-candy-generator/internal/generation"
)

func TestToGenaiSchema(t *testing.T) {
	t.Parallel()

	schema := toGenaiSchema(generation.ConceptSchema())

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, []string{"name", "imagePrompt"}, schema.Required)
	assert.Equal(t, []string{"name", "imagePrompt"}, schema.PropertyOrdering)
	require.Len(t, schema.Properties, 2)
	for _, name := range []string{"name", "imagePrompt"} {
		prop := schema.Properties[name]
		require.NotNil(t, prop, name)
		assert.Equal(t, genai.TypeString, prop.Type)
		assert.NotEmpty(t, prop.Description)
	}
}

func TestToTextResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want *generation.TextResponse
	}{
		{
			name: "nil response",
			resp: nil,
			want: &generation.TextResponse{},
		},
		{
			name: "joins text parts and skips thoughts",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{
						{Text: "thinking about candy", Thought: true},
						{Text: `{"name":"Nebula Pop",`},
						nil,
						{Text: `"imagePrompt":"a blue sphere"}`},
					}},
				}},
			},
			want: &generation.TextResponse{Text: `{"name":"Nebula Pop","imagePrompt":"a blue sphere"}`},
		},
		{
			name: "block reason without candidates",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			want: &generation.TextResponse{BlockReason: "SAFETY"},
		},
		{
			name: "unspecified block reason is ignored",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonUnspecified},
				Candidates:     []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "{}"}}}}},
			},
			want: &generation.TextResponse{Text: "{}"},
		},
		{
			name: "candidate without content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			want: &generation.TextResponse{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, toTextResponse(tt.resp))
		})
	}
}

func TestToImageResponse(t *testing.T) {
	t.Parallel()

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Here you go"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("png-bytes")}},
			}}},
			nil,
		},
	}

	got := toImageResponse(resp)

	require.Len(t, got.Candidates, 2)
	assert.Equal(t, []generation.Part{
		{Text: "Here you go"},
		{MIMEType: "image/png", Data: []byte("png-bytes")},
	}, got.Candidates[0].Parts)
	assert.Empty(t, got.Candidates[1].Parts)
	assert.Equal(t, []byte("png-bytes"), generation.FirstInlineData(got.Candidates[0]))
	assert.Empty(t, got.BlockReason)

	blocked := toImageResponse(&genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonProhibitedContent},
	})
	assert.Empty(t, blocked.Candidates)
	assert.Equal(t, "PROHIBITED_CONTENT", blocked.BlockReason)
}
