package generation

import (
	"fmt"
	"strings"

	"github.com/BoldMakerAI/ai-candy-generator/internal/domain"
)

const conceptPromptTemplate = `You are a world-renowned candy inventor. Create a new candy concept based on the following criteria.
- Keywords: %s
- Candy Type: %s

Invent a candy that fits these descriptions perfectly. Return a creative name and a detailed visual prompt for an image generator. The visual prompt should ONLY describe the visual characteristics of a single piece of candy (e.g., its shape, color, texture, material, sheen) and MUST NOT include any information about the background, setting, or environment.`

const imagePromptTemplate = "A single piece of candy. %s. Centered, isolated on a pure solid white background. Professional product photography, studio lighting, no shadows."

// BuildConceptPrompt renders the stage A prompt for req.
func BuildConceptPrompt(req domain.CandyRequest) string {
	return fmt.Sprintf(conceptPromptTemplate, strings.TrimSpace(req.Keywords), req.CandyType)
}

// BuildImagePrompt wraps the concept's visual description with the fixed
// product-shot framing. The framing is always applied.
func BuildImagePrompt(concept domain.CandyConcept) string {
	description := strings.TrimRight(strings.TrimSpace(concept.ImagePrompt), ".")
	return fmt.Sprintf(imagePromptTemplate, description)
}
