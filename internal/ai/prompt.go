package ai

const systemPrompt = `You are an expert content analyzer. Analyze the provided content and return a JSON response with:
- summary: A concise 2-3 sentence summary
- keywords: Array of 5-8 relevant keywords
- classification: Content category (news, blog, product, service, educational, etc.)
- sentiment: Overall sentiment (positive, negative, neutral)

Return only valid JSON, with no markdown, no code blocks, and no explanation.`

const userPromptPrefix = "Analyze this content:\n\n"

// DefaultMaxContentChars bounds how much content is sent to a provider.
const DefaultMaxContentChars = 4000

func buildUserPrompt(content string, maxChars int) string {
	return userPromptPrefix + truncate(content, maxChars)
}

// truncate cuts s to at most max characters. The caller's string is not modified.
func truncate(s string, max int) string {
	if max <= 0 {
		max = DefaultMaxContentChars
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func promptFor(custom string) string {
	if custom != "" {
		return custom
	}
	return systemPrompt
}
