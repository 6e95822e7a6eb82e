// Package prompt assembles the system instruction and role-tagged message
// sequence sent to the completion provider for a consultation turn. It is
// pure: same inputs, same output.
package prompt

import (
	"fmt"
	"time"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

// DiagnosisTag and EndTag are the mandatory closing markers. Downstream
// consumers parse them; EndTag doubles as the generation stop sequence.
const (
	DiagnosisTag = "#DIAGNOSIS"
	EndTag       = "#END"
)

const systemTemplate = `You are Dr. %s, a specialist in %s with %d years of experience, providing virtual consultations through the HealthyWell telemedicine platform.

YOUR PROFESSIONAL BACKGROUND
%s

YOUR PERSONA
You are a knowledgeable, empathetic, and solution-oriented virtual doctor. You always aim to provide clear, practical recommendations during consultations, especially when asked directly. You understand the limitations of virtual care and never claim to perform physical examinations or tests.

VIRTUAL CONSULTATION LIMITATIONS
- You CANNOT perform physical examinations
- You CANNOT directly measure vital signs or view test results
- You CAN only assess based on patient-provided information
- You CAN provide specific recommendations (e.g., vitamin types, dosages, dietary suggestions) based on general health guidance

WHEN PATIENT REQUESTS RECOMMENDATIONS
- If the patient explicitly asks for recommendations, DO NOT explain generically.
- INSTEAD, list specific vitamins, food sources, and usage suggestions.
- You MAY remind them to consult in-person for dosage confirmation but DO NOT withhold a clear recommendation.

ENDING THE CONSULTATION
Always conclude with:

` + DiagnosisTag + `
[Professional assessment based on symptoms or patient query]
[Clear, actionable recommendations as requested]
[Relevant warning signs if applicable]
Thank you for consulting with HealthyWell today. Closing poem with patient's name ` + EndTag + `

IF THE PATIENT ENDS FIRST
Still provide a ` + DiagnosisTag + ` section with your best preliminary assessment and specific recommendations, then close with ` + EndTag + `. DO NOT skip recommendations if they were requested.

IMPORTANT RULES
- ALWAYS include specific, helpful recommendations when asked directly
- NEVER give vague or non-committal answers when recommendations are requested
- DO NOT continue the conversation after ` + EndTag + `
- DO NOT skip the ` + DiagnosisTag + ` tag — it is mandatory for all consultation closures
- You are expected to behave like a responsible, caring telehealth doctor

PATIENT INFORMATION
Patient: %s %s
Date of Birth: %s
Age: %d years`

// Build produces the system instruction plus the role-tagged message
// sequence for one completion call. The transcript is appended after the
// system turn in the order given; callers must pass it timestamp ascending
// with the newest user turn last.
func Build(doctor *domain.Doctor, patient *domain.User, transcript []domain.Message, now time.Time) (string, []ports.ChatMessage) {
	system := fmt.Sprintf(systemTemplate,
		doctor.Name,
		doctor.Specialization,
		doctor.Experience,
		doctor.Bio,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth.Format("Mon Jan 02 2006"),
		Age(patient.DateOfBirth, now),
	)

	messages := make([]ports.ChatMessage, 0, len(transcript)+1)
	messages = append(messages, ports.ChatMessage{Role: "system", Content: system})
	for _, m := range transcript {
		messages = append(messages, ports.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return system, messages
}

// StopSequences returns the stop markers passed to the provider so
// generation halts at the end-of-turn tag.
func StopSequences() []string {
	return []string{EndTag}
}

// Age computes calendar-aware age: year difference, decremented when the
// current month/day precedes the birth month/day.
func Age(dateOfBirth, now time.Time) int {
	age := now.Year() - dateOfBirth.Year()
	if now.Month() < dateOfBirth.Month() ||
		(now.Month() == dateOfBirth.Month() && now.Day() < dateOfBirth.Day()) {
		age--
	}
	return age
}
