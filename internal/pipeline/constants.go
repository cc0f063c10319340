package pipeline

// Defaults for statement processing and extraction.
const (
	// DefaultModelName is the Gemini model used for structured extraction.
	DefaultModelName = "gemini-2.5-flash"

	// StatementExtension is the file suffix statements must carry to be
	// picked up from the documents directory.
	StatementExtension = ".pdf"

	// MaxPromptTextChars caps how much statement text is sent to the model.
	// Anything past the cap is silently invisible to the extractor, so
	// truncation is logged when it happens.
	MaxPromptTextChars = 30000
)
