package service

import (
	"strings"

	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

// Keyword lists for the patient-context scan. Substring matching with a
// fixed window, not NLP: the output is a best-effort signal only and must
// never be treated as clinically authoritative.
var (
	symptomKeywords    = []string{"sakit", "nyeri", "pain", "hurt", "ache", "flu", "fever", "demam", "batuk", "cough", "pusing", "headache", "mual", "nausea"}
	medicationKeywords = []string{"obat", "medicine", "pill", "tablet", "syrup", "sirup", "antibiotics", "antibiotik", "paracetamol", "ibuprofen"}
	durationKeywords   = []string{"hari", "day", "week", "minggu", "bulan", "month", "hour", "jam", "sejak", "since"}
	severityKeywords   = []string{"parah", "severe", "mild", "ringan", "sedang", "moderate", "berat", "heavy"}

	indonesianKeywords = []string{"saya", "aku", "sakit", "obat", "demam", "batuk", "pusing", "mual", "hari", "minggu", "bulan", "jam", "sejak", "parah", "ringan", "sedang", "berat"}
)

const (
	contextBefore = 20
	contextAfter  = 30
)

// analyzeHistory extracts symptom/medication/duration/severity snippets and
// a language preference from the user's side of the conversation. Returns ""
// when nothing useful was found.
func analyzeHistory(history []ports.ChatMessage) string {
	var userMessages []string
	for _, m := range history {
		if m.Role == "user" {
			userMessages = append(userMessages, m.Content)
		}
	}
	if len(userMessages) == 0 {
		return ""
	}

	var symptoms, medications, duration, severity []string
	indonesianHits := 0

	for _, msg := range userMessages {
		lower := strings.ToLower(msg)
		symptoms = append(symptoms, extractSnippets(lower, symptomKeywords)...)
		medications = append(medications, extractSnippets(lower, medicationKeywords)...)
		duration = append(duration, extractSnippets(lower, durationKeywords)...)
		severity = append(severity, extractSnippets(lower, severityKeywords)...)

		for _, kw := range indonesianKeywords {
			if strings.Contains(lower, kw) {
				indonesianHits++
			}
		}
	}

	var parts []string
	if len(symptoms) > 0 {
		parts = append(parts, "Reported symptoms: "+strings.Join(symptoms, "; "))
	}
	if len(medications) > 0 {
		parts = append(parts, "Mentioned medications: "+strings.Join(medications, "; "))
	}
	if len(duration) > 0 {
		parts = append(parts, "Duration information: "+strings.Join(duration, "; "))
	}
	if len(severity) > 0 {
		parts = append(parts, "Severity indicators: "+strings.Join(severity, "; "))
	}
	if indonesianHits > 3 {
		parts = append(parts, "Language preference: Indonesian")
	}

	return strings.Join(parts, ". ")
}

// extractSnippets returns a fixed-size context window around every keyword
// hit in msg. msg must already be lowercased. Windows are rune-aligned so
// multi-byte text is never split mid-character.
func extractSnippets(msg string, keywords []string) []string {
	var snippets []string
	runes := []rune(msg)
	for _, kw := range keywords {
		idx := strings.Index(msg, kw)
		if idx < 0 {
			continue
		}
		runeIdx := len([]rune(msg[:idx]))
		start := runeIdx - contextBefore
		if start < 0 {
			start = 0
		}
		end := runeIdx + contextAfter
		if end > len(runes) {
			end = len(runes)
		}
		snippets = append(snippets, string(runes[start:end]))
	}
	return snippets
}
