package namer

import "strings"

// DefaultSystemPrompt instructs the model to act as a document-naming
// assistant. Overridable from configuration.
const DefaultSystemPrompt = `You are a document naming assistant. You propose short, descriptive filenames for scanned documents based on their content. A good filename identifies the document type, the involved party, and the date when one is present (for example "Invoice - Acme Corp - March 2024"). Respond with the filename only: no explanation, no quotes, no file extension.`

// DefaultUserPrompt is the per-document instruction. The {page_count} and
// {max_length} placeholders are substituted before dispatch.
const DefaultUserPrompt = `Analyze the first {page_count} page(s) of this scanned document and propose a descriptive filename of at most {max_length} characters.`

// Render substitutes {key} placeholders in template with the supplied
// values. Unknown placeholders are left untouched.
func Render(template string, vars map[string]string) string {
	out := template
	for key, val := range vars {
		out = strings.ReplaceAll(out, "{"+key+"}", val)
	}
	return out
}
