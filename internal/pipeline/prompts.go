package pipeline

import "strings"

// suggestedCategories is the open-ended set the model is nudged towards.
// Anything else it answers still flows through the category resolver.
var suggestedCategories = []string{
	"Groceries",
	"Transport",
	"Electronics",
	"Health",
	"Nightlife",
	"Food Delivery",
	"Services",
	"Other",
}

// BuildExtractionPrompt assembles the instruction sent to the model for one
// statement. rawText is clamped to MaxPromptTextChars; the returned flag
// reports whether anything was cut so the caller can log it.
func BuildExtractionPrompt(rawText string) (string, bool) {
	truncated := false
	if len(rawText) > MaxPromptTextChars {
		rawText = rawText[:MaxPromptTextChars]
		truncated = true
	}

	var b strings.Builder
	b.WriteString("You are a financial data parser.\n")
	b.WriteString("Analyze the following text from a Brazilian credit card bill.\n\n")
	b.WriteString("Extract ALL transactions. Return ONLY a JSON array.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Do NOT use ```json or any Markdown.\n\n")

	b.WriteString("Each object in the array must have this exact schema:\n")
	b.WriteString("{\n")
	b.WriteString("  \"date\": \"YYYY-MM-DD\", (Use the bill year found in the text. If the line only shows day/month like 15/09, infer the year from context)\n")
	b.WriteString("  \"description\": \"string\", (Cleaned merchant name, e.g. \"UBER TRIP\" instead of \"UBER TRIP HELP.UBER.COM\")\n")
	b.WriteString("  \"amount\": number, (Positive. Convert Brazilian notation: \"1.234,56\" becomes 1234.56)\n")
	b.WriteString("  \"category_guess\": \"string\", (Guess the category: ")
	b.WriteString(strings.Join(suggestedCategories, ", "))
	b.WriteString(")\n")
	b.WriteString("  \"installment_current\": number, (1 if single purchase. If the line shows '02/10', then 2)\n")
	b.WriteString("  \"installment_total\": number (1 if single purchase. If the line shows '02/10', then 10)\n")
	b.WriteString("}\n\n")

	b.WriteString("Raw text:\n")
	b.WriteString(rawText)

	return b.String(), truncated
}
