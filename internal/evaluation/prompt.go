package evaluation

import "fmt"

// SystemPrompt is sent with every evaluation.
const SystemPrompt = "You are a professional English language teacher. Always respond in valid JSON format."

const writingTemplate = `You are an English language teacher evaluating a student's writing.

Student Level: %s
Writing Prompt: %s
Student's Writing: %s

Please provide a comprehensive evaluation in Turkish (for the student) that includes:
1. Overall Score (0-100)
2. Grammar Assessment (with specific examples of errors)
3. Vocabulary Assessment (word choice and variety)
4. Structure and Organization
5. Content Quality (how well they addressed the prompt)
6. Specific Strengths
7. Areas for Improvement
8. Suggestions for next steps

Format your response as JSON with the following structure:
{
  "score": number,
  "grammar": {
    "assessment": "string",
    "errors": ["string"],
    "examples": ["string"]
  },
  "vocabulary": {
    "assessment": "string",
    "strengths": ["string"],
    "suggestions": ["string"]
  },
  "structure": {
    "assessment": "string",
    "strengths": ["string"],
    "improvements": ["string"]
  },
  "content": {
    "assessment": "string",
    "relevance": "string"
  },
  "overall": {
    "strengths": ["string"],
    "improvements": ["string"],
    "nextSteps": ["string"]
  },
  "feedback": "string (overall feedback in Turkish)"
}`

const speakingTemplate = `You are an English language teacher evaluating a student's speaking practice.

Student Level: %s
Speaking Prompt: %s
Student's Transcript: %s

Please provide a comprehensive evaluation in Turkish (for the student) that includes:
1. Overall Score (0-100)
2. Pronunciation Assessment
3. Fluency Assessment
4. Grammar and Vocabulary Usage
5. Content and Ideas
6. Specific Strengths
7. Areas for Improvement
8. Practice Suggestions

Format your response as JSON with the following structure:
{
  "score": number,
  "pronunciation": {
    "assessment": "string",
    "strengths": ["string"],
    "issues": ["string"],
    "suggestions": ["string"]
  },
  "fluency": {
    "assessment": "string",
    "pace": "string",
    "hesitations": "string",
    "suggestions": ["string"]
  },
  "grammar": {
    "assessment": "string",
    "errors": ["string"],
    "suggestions": ["string"]
  },
  "vocabulary": {
    "assessment": "string",
    "strengths": ["string"],
    "suggestions": ["string"]
  },
  "content": {
    "assessment": "string",
    "relevance": "string",
    "ideas": "string"
  },
  "overall": {
    "strengths": ["string"],
    "improvements": ["string"],
    "practiceSuggestions": ["string"]
  },
  "feedback": "string (overall feedback in Turkish)"
}`

// BuildPrompt renders the user prompt for req. Level, prompt and content
// are embedded verbatim. The kind must already be validated.
func BuildPrompt(req Request) string {
	tmpl := writingTemplate
	if req.Type == KindSpeaking {
		tmpl = speakingTemplate
	}
	return fmt.Sprintf(tmpl, req.Level, req.Prompt, req.Content)
}
