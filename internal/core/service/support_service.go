package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/rs/zerolog"

	"github.com/healthywell/telemedicine-api/internal/api/metrics"
	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

// defaultTopic is returned when topic extraction fails for any reason.
const defaultTopic = "Kesehatan Umum"

const supportSystemPrompt = `You are an experienced medical professional providing virtual health consultations.

CONSULTATION APPROACH:
1. Ask relevant follow-up questions to understand the patient's symptoms thoroughly
2. Maintain a professional, empathetic tone
3. Follow a structured medical consultation approach (symptoms, duration, severity, alleviating/aggravating factors)
4. Provide evidence-based information and practical advice
5. Always recommend seeking in-person medical care for serious conditions
6. Respond in the same language the patient uses (support both English and Indonesian)

MEMORY GUIDELINES:
- Remember previous symptoms mentioned by the patient
- Reference earlier parts of the conversation when relevant
- Ask about symptom progression if the patient returns to discuss the same issue
- Track medication or treatment recommendations you've previously suggested

IMPORTANT RULES:
- Never diagnose definitively - only suggest possibilities
- Always clarify you are an AI assistant, not a replacement for in-person medical care
- For emergencies, direct patients to emergency services immediately
- Be particularly cautious with children, pregnant women, elderly patients
- Support both English and Indonesian languages fluently

If the patient speaks Indonesian, respond in Indonesian. If they speak English, respond in English.`

const topicSystemPrompt = `You are a health topic classifier. Based on the conversation between a user and a health assistant, identify the main health topic being discussed. Return ONLY the topic name in Indonesian (2-5 words), with no additional text, explanation or punctuation. For example: "Perawatan Kulit Wajah" or "Manajemen Nyeri Kepala".`

// SupportService answers general health questions without a persisted
// consultation, and labels each exchange with a short topic.
type SupportService struct {
	generator ports.TextGenerator
	client    ports.CompletionClient
	cache     ports.TopicCache
	log       zerolog.Logger
}

// NewSupportService builds a SupportService. generator is the resilient
// path used for the main reply; client is the raw path used for topic
// extraction, where any error simply yields the default label. cache may be
// nil to disable topic caching.
func NewSupportService(generator ports.TextGenerator, client ports.CompletionClient, cache ports.TopicCache, log zerolog.Logger) *SupportService {
	return &SupportService{generator: generator, client: client, cache: cache, log: log}
}

// Chat generates the assistant reply for a stateless health-support turn and
// a topic label for the conversation.
func (s *SupportService) Chat(ctx context.Context, in ports.SupportChatInput) (*ports.SupportChatResult, error) {
	messages := make([]ports.ChatMessage, 0, len(in.History)+3)
	messages = append(messages, ports.ChatMessage{Role: "system", Content: supportSystemPrompt})

	if patientContext := analyzeHistory(in.History); patientContext != "" {
		messages = append(messages, ports.ChatMessage{Role: "system", Content: "PATIENT CONTEXT: " + patientContext})
	}

	messages = append(messages, in.History...)
	messages = append(messages, ports.ChatMessage{Role: "user", Content: in.Message})

	temperature := 0.7
	maxTokens := 1000
	topP := 0.95
	penalty := 0.1
	reply := s.generator.Generate(ctx, messages, ports.GenerateOptions{
		Temperature:      &temperature,
		MaxTokens:        &maxTokens,
		TopP:             &topP,
		PresencePenalty:  &penalty,
		FrequencyPenalty: &penalty,
	})

	topic := s.extractTopic(ctx, in, reply)

	return &ports.SupportChatResult{Message: reply, Topic: topic}, nil
}

// extractTopic asks the model for a 2-5 word label, constrained to low
// temperature and a tiny output budget. Labels are cached per conversation;
// any failure falls back to the fixed default.
func (s *SupportService) extractTopic(ctx context.Context, in ports.SupportChatInput, reply string) string {
	key := conversationKey(in)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
			metrics.TopicCacheTotal.WithLabelValues("hit").Inc()
			return cached
		}
		metrics.TopicCacheTotal.WithLabelValues("miss").Inc()
	}

	var history strings.Builder
	for _, m := range in.History {
		speaker := "User"
		if m.Role == "assistant" {
			speaker = "AI"
		}
		history.WriteString(speaker + ": " + m.Content + "\n\n")
	}

	messages := []ports.ChatMessage{
		{Role: "system", Content: topicSystemPrompt},
		{Role: "user", Content: "User's latest message: \"" + in.Message + "\"\n\n" +
			"AI's latest response: \"" + reply + "\"\n\n" +
			"Previous conversation: " + history.String()},
	}

	temperature := 0.3
	maxTokens := 10
	raw, err := s.client.Generate(ctx, messages, ports.GenerateOptions{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("topic extraction failed, using default")
		return defaultTopic
	}

	topic := cleanTopic(raw)
	if topic == "" {
		return defaultTopic
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, topic); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache topic")
		}
	}
	return topic
}

// cleanTopic strips surrounding whitespace plus any quoting/punctuation the
// model added despite instructions.
func cleanTopic(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch r {
		case '"', '\'', '.', ',', ':', ';', '!', '?':
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// conversationKey derives a stable cache key from the history and latest
// message.
func conversationKey(in ports.SupportChatInput) string {
	h := sha256.New()
	for _, m := range in.History {
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
		h.Write([]byte{0})
	}
	h.Write([]byte(in.Message))
	return "topic:" + hex.EncodeToString(h.Sum(nil))
}
