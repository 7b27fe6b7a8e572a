package openai

import (
	"fmt"
	"strings"
)

const keywordResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "keywords": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {
            "type": "string"
          },
          "relevance": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          }
        },
        "required": ["text", "relevance"],
        "additionalProperties": false
      }
    }
  },
  "required": ["keywords"],
  "additionalProperties": false
}`

const keywordPromptTemplate = `Extract the keywords of the given sentence and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- A keyword is a word or short phrase (1-4 words) copied from the sentence that names what the sentence is about.
- Keep the keyword's original spelling and capitalization from the sentence.
- List keywords in the order they appear in the sentence.
- Relevance is a number from 0 (barely related) to 1 (central to the sentence).
- Include only keywords that appear in the sentence. Do not hallucinate.
- If no keywords can be identified, return "keywords": [].%s
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "The Eiffel Tower is a famous landmark in Paris."
Output:
{
  "keywords": [
    {"text":"Eiffel Tower","relevance":0.95},
    {"text":"famous landmark","relevance":0.6},
    {"text":"Paris","relevance":0.85}
  ]
}

Example (no keywords):
Input: "It was."
Output:
{
  "keywords": []
}`

// buildSystemPrompt creates the system prompt, adding a keyword cap when max > 0.
func buildSystemPrompt(max int) string {
	limit := ""
	if max > 0 {
		limit = fmt.Sprintf("\n- Return at most %d keywords.", max)
	}
	return fmt.Sprintf(keywordPromptTemplate, strings.TrimSpace(keywordResponseSchema), limit)
}
