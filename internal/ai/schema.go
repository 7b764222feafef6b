package ai

import (
	"strings"

	"google.golang.org/genai"

	"github.com/adala/case-intake/internal/models"
)

const SystemInstruction = `
أنت خبير قانوني في النظام القضائي السعودي.
مهمتك:
1. قراءة صحيفة الدعوى (نص أو ملف صورة/PDF).
2. استخراج البيانات الأساسية (المدعي، المدعى عليه، الوقائع، الطلبات، الأسانيد).
3. تصنيف الدعوى وتحديد المحكمة المختصة (تجارية، عمالية، أحوال، عامة، جزائية، إدارية، تنفيذ).
4. التحقق من استيفاء متطلبات القبول (وضوح الوقائع والطلبات والأسانيد).

إذا كان المدخل ملفاً، قم باستخراج النصوص منه بدقة ثم حللها.
`

const (
	DefaultDocumentInstruction = "قم بتحليل هذا المستند واستخراج بيانات الدعوى وتصنيفها."
	ExtractionInstruction      = "قم باستخراج بيانات الدعوى بدقة من هذا الملف وتصنيفها."
	LegalGroundsNotMentioned   = "غير مذكور"
)

func stringSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func boolSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeBoolean, Description: description}
}

func stringListSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Items:       &genai.Schema{Type: genai.TypeString},
		Description: description,
	}
}

// AnalysisSchema is the response schema every backend requests. It mirrors
// models.AnalysisResult field for field.
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"courtType": {
				Type:        genai.TypeString,
				Enum:        models.CourtTypeValues(),
				Description: "The specific court that has jurisdiction over this case.",
			},
			"priority": {
				Type:        genai.TypeString,
				Enum:        models.PriorityValues(),
				Description: "The urgency level of the case. 'مستعجلة' if immediate action is needed or keywords suggest urgency.",
			},
			"summary":           stringSchema("A concise summary of the case description in Arabic (max 20 words)."),
			"reasoning":         stringSchema("Why this court and priority were chosen."),
			"keywords":          stringListSchema("Key legal terms extracted from the text."),
			"isLikelyMalicious": boolSchema("True if the case seems frivolous, vexatious, or lacks clear legal grounds."),
			"maliciousReason":   stringSchema("If malicious, explain why. Otherwise empty."),
			"legalGrounds":      stringSchema("Extract the legal grounds or contract clauses mentioned, if any. If none, state '" + LegalGroundsNotMentioned + "'."),
			"requirementsCheck": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"hasClearFacts":   boolSchema("True if the incident/facts are described clearly."),
					"hasClearRequest": boolSchema("True if the plaintiff clearly states what they want (compensation, divorce, etc)."),
					"missingElements": stringListSchema("List of missing elements: 'الوقائع', 'الطلبات', or 'الأسانيد'."),
				},
				Required: []string{"hasClearFacts", "hasClearRequest", "missingElements"},
			},
			"extractedInfo": {
				Type:        genai.TypeObject,
				Description: "Extract specific details from the text/file to populate a lawsuit form.",
				Properties: map[string]*genai.Schema{
					"plaintiffName": stringSchema("Name of the plaintiff (المدعي)."),
					"plaintiffId":   stringSchema("ID number of plaintiff if available."),
					"defendantName": stringSchema("Name of the defendant (المدعى عليه)."),
					"subject":       stringSchema("Short subject/title of the lawsuit."),
					"facts":         stringSchema("The section describing the facts/events."),
					"requests":      stringSchema("The section describing the requests."),
					"legalBasis":    stringSchema("The section describing legal basis."),
				},
			},
		},
		Required: []string{"courtType", "priority", "summary", "reasoning", "keywords", "isLikelyMalicious", "legalGrounds", "requirementsCheck"},
	}
}

// JSONSchema renders a genai schema as a plain JSON Schema document for
// backends that accept one (OpenAI-compatible servers, the HTTP service).
func JSONSchema(s *genai.Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{}
	if s.Type != "" {
		out["type"] = strings.ToLower(string(s.Type))
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = JSONSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = JSONSchema(p)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
