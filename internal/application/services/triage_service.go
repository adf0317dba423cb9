package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/infrastructure/observability"
	"gopkg.in/yaml.v3"
)

// TriageKeywords holds the keyword classes, checked RED first
type TriageKeywords struct {
	Red   []string `yaml:"red"`
	Amber []string `yaml:"amber"`
}

// DefaultTriageKeywords returns the built-in keyword sets
func DefaultTriageKeywords() TriageKeywords {
	return TriageKeywords{
		Red: []string{
			"의식", "실신", "경련", "마비", "심한 출혈", "피를 많이",
			"호흡곤란", "숨이 안", "가슴 통증", "압박", "119", "응급",
		},
		Amber: []string{
			"열", "고열", "통증", "어지러움", "복통", "구토",
			"설사", "기침", "몸살", "염증", "붓기",
		},
	}
}

// LoadTriageKeywords reads a YAML override file. Classes left empty in the
// file keep their built-in keywords.
func LoadTriageKeywords(path string) (TriageKeywords, error) {
	keywords := DefaultTriageKeywords()
	if strings.TrimSpace(path) == "" {
		return keywords, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return keywords, fmt.Errorf("read triage keywords: %w", err)
	}

	var override TriageKeywords
	if err := yaml.Unmarshal(data, &override); err != nil {
		return keywords, fmt.Errorf("parse triage keywords %s: %w", path, err)
	}
	if red := cleanKeywords(override.Red); len(red) > 0 {
		keywords.Red = red
	}
	if amber := cleanKeywords(override.Amber); len(amber) > 0 {
		keywords.Amber = amber
	}
	return keywords, nil
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// TriageService classifies free-text symptom reports
type TriageService struct {
	keywords TriageKeywords
	metrics  *observability.Metrics
}

// NewTriageService creates a classifier over the given keyword sets
func NewTriageService(keywords TriageKeywords, metrics *observability.Metrics) *TriageService {
	return &TriageService{
		keywords: TriageKeywords{Red: cleanKeywords(keywords.Red), Amber: cleanKeywords(keywords.Amber)},
		metrics:  metrics,
	}
}

// Classify returns RED when any RED keyword occurs, else AMBER when any
// AMBER keyword occurs, else GREEN. Matching is case-insensitive substring.
func (s *TriageService) Classify(ctx context.Context, text string) entities.TriageLevel {
	level := s.classify(strings.ToLower(text))
	observability.RecordTriage(ctx, s.metrics, string(level))
	return level
}

func (s *TriageService) classify(lowered string) entities.TriageLevel {
	for _, k := range s.keywords.Red {
		if strings.Contains(lowered, k) {
			return entities.TriageRed
		}
	}
	for _, k := range s.keywords.Amber {
		if strings.Contains(lowered, k) {
			return entities.TriageAmber
		}
	}
	return entities.TriageGreen
}
