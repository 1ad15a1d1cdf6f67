package aiservice

/* =================================================================================
							GEMINI SCHEMA DEFINITION
	The structures that tell Gemini exactly how to format its JSON response
=================================================================================*/

// GeminiSchema defines the structure for "Controlled Generation" (Structured
// Output). Recursive via pointers for nested objects and arrays.
type GeminiSchema struct {
	Type        string                   `json:"type"`
	Format      string                   `json:"format,omitempty"`
	Description string                   `json:"description,omitempty"`
	Properties  map[string]*GeminiSchema `json:"properties,omitempty"`
	Items       *GeminiSchema            `json:"items,omitempty"`
	Required    []string                 `json:"required,omitempty"`
	Enum        []string                 `json:"enum,omitempty"`
}

/* =================================================================================
						PROMPT ENGINEERING & GUARDRAILS
=================================================================================*/

/*
SystemPrompt defines the persona and guardrails for the routine generator.
*/
const SystemPrompt = `You are a nutrition and supplement expert with extensive knowledge of scientific research.
Provide evidence-based, personalized recommendations.

DOMAIN RESTRICTION:
You are strictly a supplement and nutrition assistant. Never recommend prescription
medication, never diagnose conditions, and never contradict a user's stated allergies
or dietary preference.

SCHEDULE RULES:
1. Every supplement entry MUST carry a timeOfDay of exactly Morning, Midday, Evening, or Night.
2. The "time" field MUST be a clock time formatted "H:MM AM/PM" (e.g. "7:30 AM")
   that fits between the user's wake and sleep times.
3. Embed the dosage in the supplement name as a parenthetical, e.g. "Vitamin D3 (1000 IU)".
4. Instructions explain HOW to take it (with food, on an empty stomach, etc.).
5. Reasoning is the scientific explanation, kept to two sentences.
6. Respect dietPreference and foodAllergies in both supplements and food suggestions.

RESPONSE FORMAT:
- Return ONLY the JSON structure defined in the schema.
- Do NOT add markdown, explanations, or preamble.`

/*
userPromptTemplate injects the user's profile at runtime via fmt.Sprintf.
*/
const userPromptTemplate = `Please analyze the following user profile and generate a personalized
supplement routine and food suggestions:

Health Goals: %s
Lifestyle Information: %s

Based on this profile, generate a supplement routine and food suggestions with
timing, dosage, food pairing, and scientific reasoning. Include breakfast, lunch,
snack, and dinner options.`

// routineItemSchema is shared by the full-routine and alternative responses.
var routineItemSchema = &GeminiSchema{
	Type: "OBJECT",
	Properties: map[string]*GeminiSchema{
		"timeOfDay": {
			Type:        "STRING",
			Format:      "enum",
			Description: "Bucket the intake belongs to.",
			Enum:        []string{"Morning", "Midday", "Evening", "Night"},
		},
		"supplement": {
			Type:        "STRING",
			Description: "Name with dosage parenthetical, e.g. 'Magnesium Glycinate (400mg)'.",
		},
		"instructions": {
			Type:        "STRING",
			Description: "How to take it (with food, empty stomach, pairing advice).",
		},
		"reasoning": {
			Type:        "STRING",
			Description: "Scientific explanation for the recommendation, max two sentences.",
		},
		"time": {
			Type:        "STRING",
			Description: "Clock time formatted 'H:MM AM/PM', e.g. '7:30 AM'.",
		},
		"brand": {
			Type:        "STRING",
			Description: "Optional suggested brand.",
		},
	},
	Required: []string{"timeOfDay", "supplement", "instructions", "reasoning", "time"},
}

/*
RoutineSchema describes the exact JSON structure of a full recommendation.
*/
var RoutineSchema = &GeminiSchema{
	Type: "OBJECT",
	Properties: map[string]*GeminiSchema{
		"supplementRoutine": {
			Type:        "ARRAY",
			Description: "The day's supplement schedule, at least one entry per bucket used.",
			Items:       routineItemSchema,
		},
		"foodSuggestions": {
			Type: "OBJECT",
			Properties: map[string]*GeminiSchema{
				"breakfast": {Type: "ARRAY", Items: &GeminiSchema{Type: "STRING"}},
				"lunch":     {Type: "ARRAY", Items: &GeminiSchema{Type: "STRING"}},
				"snacks":    {Type: "ARRAY", Items: &GeminiSchema{Type: "STRING"}},
				"dinner":    {Type: "ARRAY", Items: &GeminiSchema{Type: "STRING"}},
			},
			Required: []string{"breakfast", "lunch", "snacks"},
		},
	},
	Required: []string{"supplementRoutine", "foodSuggestions"},
}

/*
AlternativeSchema describes a single replacement candidate for the swap flow.
*/
var AlternativeSchema = routineItemSchema

// alternativeSystemPrompt steers the swap collaborator.
const alternativeSystemPrompt = `You are a supplement expert. The user wants to replace one supplement
in their routine with an alternative that serves a similar function.

RULES:
1. Keep the replacement's timeOfDay and time identical to the original entry.
2. Honor the stated preference (vegan, budget, natural, food-based, non-gmo, organic)
   when one is given.
3. Suggest a reputable brand in the brand field.
4. Return ONLY the JSON structure defined in the schema.`

const alternativePromptTemplate = `Current supplement: %s
Time of day: %s at %s
Current instructions: %s
User health goals: %s
Preference for the alternative: %s

Suggest ONE alternative supplement that serves a similar function.`
