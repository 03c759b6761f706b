package prompt

// GetAnalysisPrompt provides strict directions and schema for the single-image
// skin analysis reply. The model must answer with one JSON object only.
func GetAnalysisPrompt() string {
	return `You are a dermatology assistant. Examine the attached photograph and produce one valid JSON object only (no markdown, no commentary, no code fences) following the schema below.

Requirements:
- First decide whether the photo shows human skin. If it does not, set "isSkin" to false and explain why in "reasons".
- If the photo shows skin, decide whether it looks healthy; if a condition is visible, name it in "diseaseName" and describe it in "description".
- "symptoms", "reasons", "precautions", "prevention", "treatments" are arrays of objects with "title" and "details". Keep each item to one or two sentences.
- "medicines" is an array of plain strings (over-the-counter suggestions only).
- "healingPeriod" is a short free-text estimate such as "2-4 weeks".
- Never leave "precautions" or "treatments" empty when skin is detected.

Schema (example with empty values):
{
  "isSkin": true,
  "isHealthy": false,
  "diseaseName": "<string>",
  "description": "<string>",
  "symptoms": [{"title": "<string>", "details": "<string>"}],
  "reasons": [{"title": "<string>", "details": "<string>"}],
  "precautions": [{"title": "<string>", "details": "<string>"}],
  "prevention": [{"title": "<string>", "details": "<string>"}],
  "treatments": [{"title": "<string>", "details": "<string>"}],
  "medicines": ["<string>"],
  "healingPeriod": "<string>"
}`
}

// GetComparisonPrompt provides directions and schema for the two-image
// progression reply. The first attached image is the earlier photo.
func GetComparisonPrompt() string {
	return `You are a dermatology assistant. Two photographs of the same subject are attached; the first was taken earlier than the second. Produce one valid JSON object only (no markdown, no commentary, no code fences) following the schema below.

Requirements:
- If the two photos do not show a comparable subject (different body region, or one does not show analyzable skin), set "verdict" to "MISMATCH".
- Otherwise set "verdict" to exactly one of "IMPROVED", "WORSENED", "STABLE" or "UNCLEAR".
- "changes" lists the concrete visible differences, one short sentence each; never leave it empty.
- "recommendation" is one or two sentences of practical advice; never leave it empty.

Schema (example with empty values):
{
  "verdict": "<IMPROVED|WORSENED|STABLE|UNCLEAR|MISMATCH>",
  "changes": ["<string>"],
  "recommendation": "<string>"
}`
}
