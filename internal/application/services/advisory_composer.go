package services

import (
	"fmt"
	"hash/fnv"

	"github.com/aicaremanager/backend/internal/domain/entities"
)

var advisoryPhrases = map[entities.TriageLevel][]string{
	entities.TriageRed: {
		"위험 신호가 감지되었습니다. 즉시 119 또는 응급실을 권장합니다.",
		"응급 가능성이 높습니다. 지금 바로 119 연락 또는 응급실 이동을 권장합니다.",
		"현재 증상은 지체 없이 응급 대응이 필요할 수 있습니다. 119 또는 응급실을 우선하세요.",
	},
	entities.TriageAmber: {
		"의료기관 방문이 권장됩니다.",
		"증상이 지속될 수 있어 가까운 병·의원 방문을 권장합니다.",
		"안전을 위해 오늘 중 의료기관 진료를 받아보세요.",
	},
	entities.TriageGreen: {
		"자가 관리가 가능한 수준으로 보입니다.",
		"현재로서는 비교적 경미한 상태로 보입니다.",
		"응급도는 낮아 보이며, 증상 경과를 관찰해 주세요.",
	},
}

// AdvisoryComposer builds the deterministic assistant message used when no
// language model advisory is available.
type AdvisoryComposer struct{}

// NewAdvisoryComposer creates an advisory composer
func NewAdvisoryComposer() *AdvisoryComposer {
	return &AdvisoryComposer{}
}

// Compose picks a phrase for the level and appends the top place, if any
func (c *AdvisoryComposer) Compose(level entities.TriageLevel, places []entities.VoiceTurnPlace) string {
	topName := ""
	if len(places) > 0 {
		topName = places[0].Name
	}
	head := c.Phrase(level, topName)

	if len(places) == 0 {
		return head + " 주변 추천 장소를 찾지 못했습니다."
	}
	return fmt.Sprintf("%s 가장 적합한 곳은 %s이며 거리 %.2fkm입니다.", head, places[0].Name, places[0].DistanceKm)
}

// Phrase returns the variant at FNV-1a(level, topName) mod variant count.
// An empty topName hashes as "none". Unknown levels use GREEN phrasing.
func (c *AdvisoryComposer) Phrase(level entities.TriageLevel, topName string) string {
	variants, ok := advisoryPhrases[level]
	if !ok {
		variants = advisoryPhrases[entities.TriageGreen]
	}
	return variants[VariantIndex(level, topName, len(variants))]
}

// VariantIndex hashes level and topName into [0, n)
func VariantIndex(level entities.TriageLevel, topName string, n int) int {
	if n <= 0 {
		return 0
	}
	if topName == "" {
		topName = "none"
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(level))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(topName))
	return int(h.Sum32() % uint32(n))
}
