package gemini

import (
	"fmt"
	"strings"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildChatPrompt flattens a conversation into the single-prompt form the
// generateContent endpoint consumes: system lines first, one line per
// historical message, and an open "Assistant:" marker telling the model
// where to continue. Any role other than "user" counts as the assistant.
func BuildChatPrompt(systemPreamble, languageNote string, messages []Message) string {
	var lines []string
	if systemPreamble != "" {
		lines = append(lines, "System: "+systemPreamble)
	}
	if languageNote != "" {
		lines = append(lines, "System: "+languageNote)
	}
	for _, m := range messages {
		prefix := "Assistant"
		if m.Role == "user" {
			prefix = "User"
		}
		lines = append(lines, prefix+": "+m.Content)
	}
	lines = append(lines, "Assistant:")
	return strings.Join(lines, "\n")
}

// LanguageNote builds the mandatory target-language clause for chat prompts.
// Empty for English, which is the model's default.
func LanguageNote(language string) string {
	if language == "" || language == "English" {
		return ""
	}
	return fmt.Sprintf("CRITICAL: Respond ONLY in %s language. Translate everything to %s.", language, language)
}

func languageInstruction(language string) string {
	if language == "" || language == "English" {
		return ""
	}
	return fmt.Sprintf(`
CRITICAL INSTRUCTION - MUST FOLLOW:
You MUST respond ENTIRELY in %s language. Every single word, heading, and explanation must be in %s.
Do NOT use English. This is MANDATORY.
`, language, language)
}

// SummarizePrompt interpolates a legal document into the fixed summarization
// template. No conversation history is involved.
func SummarizePrompt(text, language string) string {
	return fmt.Sprintf(`You are "Nyay-AI," an AI legal assistant specialized in understanding Indian legal documents and explaining them in plain, natural language.
%s
Your task: carefully read and summarize the following legal document, covering all of these points:

1. Document type - what kind of document it is (Court Order, FIR, RTI Application, Agreement, Notice, Affidavit, Judgment, Petition, etc.)
2. Key parties involved - the main individuals, organizations, or authorities mentioned
3. Main issue or purpose - what problem or legal matter the document describes
4. Important details - dates and deadlines, monetary values or penalties, obligations and restrictions, rights claimed or violated, case numbers and legal provisions cited
5. Legal implications - what consequence the document carries for each party and what happens next
6. Required actions - what the reader should do next, including deadlines and authorities to contact
7. Risks or concerns - possible penalties, time-sensitive matters, or points of caution

Writing guidelines:
- Use very simple and natural language, understandable to a 10th-grade student
- Avoid legal jargon; if a legal term is necessary, explain it in plain words immediately
- Use bullet points or short paragraphs for clarity
- Focus on what the document means for the common person
- Be neutral, factual, and concise, highlighting urgent actions and deadlines clearly

Legal document:
%s

Simplified legal explanation:`, languageInstruction(language), text)
}

// DraftPrompt interpolates an issue summary into the fixed drafting
// template.
func DraftPrompt(issueText, language string) string {
	return fmt.Sprintf(`You are "Nyay-AI Draft Writer," an experienced Indian legal expert with over 20 years of practice. Your role is to draft accurate, professional, submission-ready legal documents for Indian users.
%s
Your task: generate a formal legal draft based on the issue or summary provided below, written in proper Indian legal format and ready for official submission.

Draft requirements:
1. Choose the most appropriate document type (RTI Application, Legal Notice, FIR, Complaint, Appeal, Affidavit, or Petition)
2. Follow standard Indian legal formatting, tone, and language
3. Include all necessary sections, fields, legal provisions, and closing statements
4. The document should look final and usable as-is
5. Use clear headings, proper spacing, and a professional layout

Reference structures:
- RTI Application: addressee (Public Information Officer), subject under the Right to Information Act 2005, the information sought, applicant details, date and signature line
- Legal Notice: notice header and subject, recipient details, facts in chronological order, legal provisions and claims, demands, response deadline (15-30 days), consequences of non-compliance, sender details, date and signature
- Complaint/FIR: authority with full address, subject, incident details (date, time, place, parties), factual description of events, evidence or witnesses, relief sought, complainant details, date and signature

Issue or summary:
%s

Final legal draft:`, languageInstruction(language), issueText)
}
