package entities

// TriageLevel is the coarse urgency of a symptom report. RED > AMBER > GREEN.
type TriageLevel string

const (
	TriageGreen TriageLevel = "GREEN"
	TriageAmber TriageLevel = "AMBER"
	TriageRed   TriageLevel = "RED"
)

// VoicePlaceSource tells which lookup produced a voice-turn place
type VoicePlaceSource string

const (
	VoicePlaceSourceHospital  VoicePlaceSource = "HOSPITAL"
	VoicePlaceSourceEmergency VoicePlaceSource = "EMERGENCY"
)

// VoiceTurnPlace is a ranked place returned by a voice turn
type VoiceTurnPlace struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Source           VoicePlaceSource `json:"source"`
	Category         string           `json:"category"`
	Address          string           `json:"address"`
	Latitude         float64          `json:"lat"`
	Longitude        float64          `json:"lng"`
	DistanceKm       float64          `json:"distance_km"`
	OpenStatus       OpenStatus       `json:"open_status"`
	SuitabilityScore float64          `json:"suitability_score"`
	FinalScore       float64          `json:"final_score"`
	SafeModeApplied  bool             `json:"safe_mode_applied"`
	RankReason       *string          `json:"rank_reason"`
}

// SafeModeResult signals that a high-urgency turn had no live data
type SafeModeResult struct {
	Applied  bool `json:"applied"`
	NoResult bool `json:"no_result"`
}

// VoiceTurnResult is the outcome of one voice turn
type VoiceTurnResult struct {
	TurnID           string           `json:"turn_id"`
	Transcript       string           `json:"transcript"`
	TriageLevel      TriageLevel      `json:"triage_level"`
	Top5Places       []VoiceTurnPlace `json:"top5_places"`
	TTSAudioURL      *string          `json:"tts_audio_url"`
	SafeModeResult   SafeModeResult   `json:"safe_mode_result"`
	AssistantMessage string           `json:"assistant_message"`
}
