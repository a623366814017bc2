package entity

import (
	"regexp"

	"github.com/hyperjump/erabu/internal/models"
)

const healthSource = "health"

// Health vocabulary. Unlike the food rules, every occurrence is reported:
// "fever" mentioned twice is two spans, which matters for symptom checklists.
var (
	healthSymptoms = byLengthDesc([]string{
		"fever", "cough", "cold", "flu", "headache", "migraine",
		"sore throat", "throat pain", "chest pain", "stomach ache",
		"abdominal pain", "back pain", "vomiting", "diarrhea", "dizziness",
		"fatigue", "rash",
	})
	healthBodyParts = byLengthDesc([]string{
		"head", "chest", "stomach", "abdomen", "back", "leg", "arm", "eye",
		"ear", "nose", "throat", "knee", "shoulder",
	})
	healthMedications = byLengthDesc([]string{
		"paracetamol", "acetaminophen", "ibuprofen", "amoxicillin",
		"azithromycin", "metformin", "insulin", "aspirin", "omeprazole",
		"pantoprazole", "dolo 650", "crocin", "ciprofloxacin",
	})
	healthTests = byLengthDesc([]string{
		"blood test", "cbc", "liver function test", "lft",
		"kidney function test", "kft", "x-ray", "ct scan", "mri",
		"ultrasound", "thyroid test", "tsh", "sugar test", "hba1c", "ecg",
	})
	healthSpecialties = byLengthDesc([]string{
		"dermatology", "dermatologist", "cardiology", "cardiologist",
		"orthopedic", "orthopedics", "ent", "gynecology", "gynecologist",
		"pediatrics", "pediatrician", "neurologist", "neurology",
	})

	healthDosageRes = []*regexp.Regexp{
		regexp.MustCompile(`\b\d+\s*(?:mg|ml|mcg|g)\b`),
	}
	healthDoseFormRe   = regexp.MustCompile(`\b\d+\s*(?:tablet|tablets|capsule|capsules|puff|puffs|spoon|spoons)\b`)
	healthFrequencyRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:once|twice|thrice) (?:a |per )?(?:day|daily|week|month)\b`),
		regexp.MustCompile(`\bevery \d+ (?:hours|hour|days|day|weeks|week)\b`),
	}
	healthDurationRe = regexp.MustCompile(`\bfor \d+ (?:days|day|weeks|week|months|month)\b`)

	// Matched against the original casing: the capitalized surname is the
	// signal that "dr" introduces a name.
	healthDoctorRe = regexp.MustCompile(`\b[Dd]r\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)
)

// HealthExtractor finds medical attributes: symptoms, body parts,
// medications, diagnostic tests, specialties, dosages, frequencies,
// durations and doctor names.
type HealthExtractor struct{}

func (HealthExtractor) Name() string { return healthSource }

func (HealthExtractor) Extract(text string) []models.Span {
	rt := newRuleText(text)
	var out []models.Span

	addAll := func(label string, words []string, score float64) {
		for _, w := range words {
			for _, m := range rt.findAll(w) {
				out = append(out, rt.span(label, m[0], m[1], score, healthSource))
			}
		}
	}
	addAll("symptom", healthSymptoms, 0.98)
	addAll("body_part", healthBodyParts, 0.98)
	addAll("medication", healthMedications, 0.98)
	addAll("test_name", healthTests, 0.98)
	addAll("specialty", healthSpecialties, 0.98)

	for _, re := range healthDosageRes {
		for _, m := range rt.regexAll(re) {
			out = append(out, rt.span("dosage", m[0], m[1], 0.95, healthSource))
		}
	}
	for _, m := range rt.regexAll(healthDoseFormRe) {
		out = append(out, rt.span("dosage", m[0], m[1], 0.92, healthSource))
	}
	for _, re := range healthFrequencyRes {
		for _, m := range rt.regexAll(re) {
			out = append(out, rt.span("frequency", m[0], m[1], 0.9, healthSource))
		}
	}
	for _, m := range rt.regexAll(healthDurationRe) {
		out = append(out, rt.span("duration", m[0], m[1], 0.9, healthSource))
	}
	for _, m := range rt.regexAllRaw(healthDoctorRe) {
		sp := rt.span("doctor_name", m[0], m[1], 0.93, healthSource)
		sp.Text = rt.sliceRaw(m[0], m[1])
		out = append(out, sp)
	}
	return out
}
