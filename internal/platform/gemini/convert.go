package gemini

import (
	"strings"

	"google.golang.org/genai"

	"github.com/BoldMakerAI/ai-candy-generator/internal/generation"
)

// toGenaiSchema renders an OutputSchema as an object of string properties,
// keeping field order.
func toGenaiSchema(s generation.OutputSchema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Fields))
	order := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: f.Description,
		}
		order = append(order, f.Name)
	}

	return &genai.Schema{
		Type:             genai.TypeObject,
		Description:      s.Description,
		Properties:       props,
		Required:         append([]string(nil), s.Required...),
		PropertyOrdering: order,
	}
}

func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.PromptFeedback == nil {
		return ""
	}
	reason := resp.PromptFeedback.BlockReason
	if reason == "" || reason == genai.BlockedReasonUnspecified {
		return ""
	}
	return string(reason)
}

// toTextResponse joins the non-thought text parts of the first candidate.
func toTextResponse(resp *genai.GenerateContentResponse) *generation.TextResponse {
	out := &generation.TextResponse{BlockReason: blockReason(resp)}
	if resp == nil || len(resp.Candidates) == 0 {
		return out
	}

	first := resp.Candidates[0]
	if first == nil || first.Content == nil {
		return out
	}

	var sb strings.Builder
	for _, part := range first.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	out.Text = sb.String()
	return out
}

func toImageResponse(resp *genai.GenerateContentResponse) *generation.ImageResponse {
	out := &generation.ImageResponse{BlockReason: blockReason(resp)}
	if resp == nil {
		return out
	}

	out.Candidates = make([]generation.Candidate, 0, len(resp.Candidates))
	for _, cand := range resp.Candidates {
		var c generation.Candidate
		if cand != nil && cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if part == nil {
					continue
				}
				p := generation.Part{Text: part.Text}
				if part.InlineData != nil {
					p.MIMEType = part.InlineData.MIMEType
					p.Data = part.InlineData.Data
				}
				c.Parts = append(c.Parts, p)
			}
		}
		out.Candidates = append(out.Candidates, c)
	}
	return out
}
