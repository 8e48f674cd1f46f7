package services

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"

	"kisansathi-backend/internal/models"
)

const (
	maxTreatmentSteps = 5

	defaultDisease    = "Unknown Disease"
	defaultConfidence = 75
	defaultTreatment  = "Consult an agricultural expert"
	genericDisease    = "Analysis Complete"
	genericConfidence = 70
	busyDisease       = "Service Busy"
	busyTreatment     = "The AI limit has been reached. Try again later."
	failedDisease     = "Analysis Failed"
	failedTreatment   = "Please try again with a clearer photo."
)

var fencedJSON = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// ExtractJSON pulls a JSON object out of a model reply. A ```json fence wins
// when present; otherwise the span from the first '{' to the last '}' is
// tried. Returns nil when nothing parses as an object.
func ExtractJSON(reply string) map[string]any {
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		return decodeObject(m[1])
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil
	}
	return decodeObject(reply[start : end+1])
}

func decodeObject(s string) map[string]any {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil
	}
	// trailing garbage after the object means the span was not one value
	if _, err := dec.Token(); err != io.EOF {
		return nil
	}
	return obj
}

// ClassifyFailure maps a raw provider error onto a FailureKind. It is total:
// anything not recognised as a quota or configuration problem is transient.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureTransient
	}
	if errors.Is(err, ErrMissingCredential) {
		return FailureMissingConfig
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return FailureQuotaExceeded
	}

	msg := err.Error()
	if strings.Contains(msg, "429") ||
		strings.Contains(strings.ToLower(msg), "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return FailureQuotaExceeded
	}
	return FailureTransient
}

// DiagnosisFromReply turns a raw model reply into a fully populated result.
// An unparseable reply yields the generic-care result, not an error.
func DiagnosisFromReply(reply string) (models.DiagnosisResult, bool) {
	obj := ExtractJSON(reply)
	if obj == nil {
		return GenericDiagnosis(), false
	}

	return models.DiagnosisResult{
		Disease:    diseaseField(obj["disease"]),
		Confidence: confidenceField(obj["confidence"]),
		Treatment:  treatmentField(obj["treatment"]),
	}, true
}

// GenericDiagnosis is returned when the model reply could not be parsed.
func GenericDiagnosis() models.DiagnosisResult {
	return models.DiagnosisResult{
		Disease:    genericDisease,
		Confidence: genericConfidence,
		Treatment: []string{
			"Remove and destroy affected parts",
			"Ensure proper ventilation",
			"Monitor closely",
		},
	}
}

// FailedDiagnosis is returned when the provider call itself failed.
func FailedDiagnosis(kind FailureKind) models.DiagnosisResult {
	if kind == FailureQuotaExceeded {
		return models.DiagnosisResult{Disease: busyDisease, Treatment: []string{busyTreatment}}
	}
	return models.DiagnosisResult{Disease: failedDisease, Treatment: []string{failedTreatment}}
}

func diseaseField(v any) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return defaultDisease
	}
	return strings.TrimSpace(s)
}

func confidenceField(v any) int {
	var f float64
	switch c := v.(type) {
	case json.Number:
		n, err := c.Float64()
		if err != nil {
			return defaultConfidence
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(c), "%"), 64)
		if err != nil {
			return defaultConfidence
		}
		f = n
	default:
		return defaultConfidence
	}

	if f == 0 || math.IsNaN(f) {
		return defaultConfidence
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func treatmentField(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{defaultTreatment}
	}

	steps := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		steps = append(steps, strings.TrimSpace(s))
		if len(steps) == maxTreatmentSteps {
			break
		}
	}
	if len(steps) == 0 {
		return []string{defaultTreatment}
	}
	return steps
}
