package generation

// OutputSchema describes the JSON object the text model must return. All
// fields are strings.
type OutputSchema struct {
	Description string
	Fields      []SchemaField
	Required    []string
}

// SchemaField is one string property of an OutputSchema.
type SchemaField struct {
	Name        string
	Description string
}

// ConceptSchema is the output contract of the concept stage.
func ConceptSchema() OutputSchema {
	return OutputSchema{
		Description: "A new candy concept.",
		Fields: []SchemaField{
			{
				Name:        "name",
				Description: "A creative and catchy name for the candy, under 5 words.",
			},
			{
				Name: "imagePrompt",
				Description: "A detailed, visually rich prompt for an AI image generator. " +
					"Describe a SINGLE piece of candy's appearance, colors, and texture. " +
					"DO NOT describe the background, setting, or lighting. " +
					`e.g., "A glowing, translucent gummy candy shaped like a tiny galaxy swirl..."`,
			},
		},
		Required: []string{"name", "imagePrompt"},
	}
}
