package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aicaremanager/backend/internal/domain/providers"
)

const advisorySystemPrompt = `너는 응급 분류 보조 안내를 작성하는 의료 앱 어시스턴트다. 진단이나 처방은 하지 않는다. 과장 없이 안전을 우선하는 안내만 작성한다.`

const advisoryInstruction = "한국어로 1~2문장, 과장 없이 안전 중심 안내문 생성"

var advisorySchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"assistant_message": map[string]interface{}{"type": "string"},
	},
	"required":             []string{"assistant_message"},
	"additionalProperties": false,
}

type advisoryTopPlace struct {
	Name       *string  `json:"name"`
	DistanceKm *float64 `json:"distance_km"`
}

type advisoryUserPrompt struct {
	Transcript  string           `json:"transcript"`
	TriageLevel string           `json:"triage_level"`
	TopPlace    advisoryTopPlace `json:"top_place"`
	Instruction string           `json:"instruction"`
}

type advisoryPayload struct {
	AssistantMessage string `json:"assistant_message"`
}

func buildAdvisoryUserPrompt(req providers.AdvisoryRequest) (string, error) {
	data, err := json.Marshal(advisoryUserPrompt{
		Transcript:  req.Transcript,
		TriageLevel: string(req.TriageLevel),
		TopPlace: advisoryTopPlace{
			Name:       req.TopPlaceName,
			DistanceKm: req.TopPlaceDistance,
		},
		Instruction: advisoryInstruction,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseAdvisoryPayload accepts the model text with or without a Markdown fence
func parseAdvisoryPayload(text string) (string, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	var payload advisoryPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return "", fmt.Errorf("failed to parse advisory payload: %w", err)
	}
	msg := strings.TrimSpace(payload.AssistantMessage)
	if msg == "" {
		return "", fmt.Errorf("advisory payload has empty assistant_message")
	}
	return msg, nil
}
