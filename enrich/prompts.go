package enrich

import "fmt"

// Template names a prompt rendition used for chunk analysis.
type Template string

const (
	// TemplateDefault asks for a compact five-field analysis.
	TemplateDefault Template = "default"

	// TemplateDetailed adds the document synopsis to the prompt and asks
	// for a deeper reading of the excerpt.
	TemplateDetailed Template = "detailed"

	// TemplateTechnical directs the analysis at terminology and the
	// relationships between components.
	TemplateTechnical Template = "technical"
)

// ParseTemplate maps a configuration string to a Template.
func ParseTemplate(s string) (Template, error) {
	switch Template(s) {
	case TemplateDefault, TemplateDetailed, TemplateTechnical:
		return Template(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
}

const analysisSystemPrompt = "You are an assistant specialized in document analysis " +
	"and contextualization. Always respond in valid JSON format."

const summarySystemPrompt = "You are an expert in document summarization."

const defaultPromptTemplate = `Analyze the following excerpt from a document and provide:

1. A contextual summary in 2-3 sentences capturing the essence and purpose of the text
2. A list of 3-5 main key concepts
3. A list of 5-8 relevant keywords
4. The main topic in a single sentence
5. 2-3 questions this excerpt can answer

TEXT:
%s

Respond ONLY in the following JSON format:
{
  "contextual_summary": "summary here",
  "key_concepts": ["concept1", "concept2", "concept3"],
  "keywords": ["word1", "word2", "word3"],
  "topic": "main topic",
  "questions": ["question1?", "question2?"]
}`

const detailedPromptTemplate = `As an expert document analyst, analyze the following text in depth:

TEXT:
%s

DOCUMENT CONTEXT: %s

Provide a detailed analysis including:
1. CONTEXTUAL SUMMARY: Explain the purpose and meaning of this excerpt within the larger context
2. KEY CONCEPTS: Identify the 3-5 most important and relevant concepts
3. KEYWORDS: List 5-8 terms that best represent the content
4. MAIN TOPIC: Categorize the main subject in one clear sentence
5. ANSWERED QUESTIONS: Which specific questions can this text answer?

Respond in JSON format:
{
  "contextual_summary": "...",
  "key_concepts": [...],
  "keywords": [...],
  "topic": "...",
  "questions": [...]
}`

const technicalPromptTemplate = `Analyze this technical excerpt focusing on:
- Specific technical terminology
- Important concepts and principles
- Relationships between components and concepts
- Practical applications

TEXT:
%s

JSON response format:
{
  "contextual_summary": "...",
  "key_concepts": [...],
  "keywords": [...],
  "topic": "...",
  "questions": [...]
}`

const summaryPromptTemplate = `Generate a concise summary (at most %d characters) of this document,
capturing its main purpose, covered topics, and general context:

%s

Respond with only the summary, no additional formatting.`

// renderPrompt formats the named template with the chunk text. Unknown
// selectors render as TemplateDefault so a configuration typo cannot take
// enrichment down at runtime.
func renderPrompt(template Template, text, docContext string) string {
	switch template {
	case TemplateDetailed:
		if docContext == "" {
			docContext = "not specified"
		}
		return fmt.Sprintf(detailedPromptTemplate, text, docContext)
	case TemplateTechnical:
		return fmt.Sprintf(technicalPromptTemplate, text)
	default:
		return fmt.Sprintf(defaultPromptTemplate, text)
	}
}
