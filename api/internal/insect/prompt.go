package insect

import "strings"

const identificationPrompt = `Identify the insect in the image provided. ` +
	`If the subject is not an insect, set is_insect to false and describe what the subject actually is, ` +
	`filling in every field you can determine.`

// IdentificationPrompt is the fixed instruction paired with the image.
func IdentificationPrompt() string { return identificationPrompt }

// ChatPrompt builds the system instruction for the follow-up chat flow.
// The prior conversation, when present, is appended verbatim; the caller
// owns the transcript, nothing is stored here.
func ChatPrompt(pastConversation, insectName string) string {
	subject := strings.TrimSpace(insectName)
	if subject == "" {
		subject = "insects in general"
	}

	var b strings.Builder
	b.WriteString("You are an entomology assistant. Answer questions about ")
	b.WriteString(subject)
	b.WriteString(". Stay on entomology topics; politely decline anything unrelated. ")
	b.WriteString("Keep answers concise and factual.")
	if past := strings.TrimSpace(pastConversation); past != "" {
		b.WriteString("\n\nPrevious conversation:\n")
		b.WriteString(past)
	}
	return b.String()
}
