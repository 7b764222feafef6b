package store

import (
	"time"

	"github.com/adala/case-intake/internal/models"
)

// DemoCases returns the records a fresh session starts with, most recent
// first.
func DemoCases() []models.CaseRecord {
	complete := func() models.RequirementsCheck {
		return models.RequirementsCheck{HasClearFacts: true, HasClearRequest: true, MissingElements: []string{}}
	}
	return []models.CaseRecord{
		{
			ID:            "55401-C",
			PlaintiffName: "بنك الرياض",
			PlaintiffID:   "7000100200",
			DefendantName: "مؤسسة صالح للتجارة",
			Description:   "تنفيذ شيك بدون رصيد",
			Facts:         "تقدم البنك بشيك مصدق بمبلغ 200,000 ريال، وتم رفضه لعدم كفاية الرصيد.",
			Requests:      "التنفيذ الجبري ومخاطبة الجهات المختصة للحجز.",
			LegalBasis:    "ورقة تجارية (شيك) مستوفية الشروط.",
			Date:          time.Date(2023, 10, 27, 11, 30, 0, 0, time.UTC),
			Status:        models.StatusAnalyzed,
			Analysis: &models.AnalysisResult{
				CourtType:         models.CourtExecution,
				Priority:          models.PriorityUrgent,
				Summary:           "طلب تنفيذ شيك بدون رصيد.",
				Reasoning:         "الشيكات والأوراق التجارية تعتبر سندات تنفيذية تختص بها محكمة التنفيذ.",
				Keywords:          []string{"شيك", "تنفيذ", "سند تنفيذي"},
				LegalGrounds:      "نظام التنفيذ ولائحته",
				RequirementsCheck: complete(),
			},
		},
		{
			ID:            "11202-B",
			PlaintiffName: "سارة أحمد محمد",
			PlaintiffID:   "1012345678",
			DefendantName: "خالد علي عبدالله",
			Description:   "طلب حضانة أطفال مستعجل",
			Facts:         "الأب يهدد بالسفر بالمحضون خارج المملكة دون إذن.",
			Requests:      "إثبات الحضانة ومنع السفر.",
			LegalBasis:    "نظام الأحوال الشخصية.",
			Date:          time.Date(2023, 10, 26, 9, 0, 0, 0, time.UTC),
			Status:        models.StatusAnalyzed,
			Analysis: &models.AnalysisResult{
				CourtType:         models.CourtPersonalStatus,
				Priority:          models.PriorityUrgent,
				Summary:           "طلب حضانة مستعجل لوجود خطر سفر الأب بالمحضون.",
				Reasoning:         "قضايا الحضانة وخطر السفر تعتبر من الأمور المستعجلة في الأحوال الشخصية.",
				Keywords:          []string{"حضانة", "سفر", "مستعجل"},
				LegalGrounds:      "نظام الأحوال الشخصية ومصلحة المحضون",
				RequirementsCheck: complete(),
			},
		},
		{
			ID:            "99283-A",
			PlaintiffName: "شركة البناء الحديثة",
			PlaintiffID:   "7001234567",
			DefendantName: "مؤسسة التوريد السريع",
			Description:   "عدم دفع مستحقات توريد أسمنت",
			Facts:         "تم توريد أسمنت بقيمة 500 ألف ريال بتاريخ 1-1-2023 ولم يتم السداد.",
			Requests:      "إلزام المدعى عليه بسداد المبلغ + التعويض.",
			LegalBasis:    "العقد المبرم بين الطرفين.",
			Date:          time.Date(2023, 10, 25, 10, 0, 0, 0, time.UTC),
			Status:        models.StatusAnalyzed,
			Analysis: &models.AnalysisResult{
				CourtType:         models.CourtCommercial,
				Priority:          models.PriorityMedium,
				Summary:           "مطالبة مالية تجارية بقيمة 500 ألف ريال مقابل توريد مواد بناء.",
				Reasoning:         "نزاع مالي بين كيانين تجاريين يدخل ضمن اختصاص المحاكم التجارية.",
				Keywords:          []string{"توريد", "مستحقات", "عقد تجاري"},
				LegalGrounds:      "العقد التجاري وأنظمة المحكمة التجارية",
				RequirementsCheck: complete(),
			},
		},
	}
}

// Seed loads DemoCases so that List returns them in the same order.
func Seed(s *Store) error {
	demo := DemoCases()
	for i := len(demo) - 1; i >= 0; i-- {
		if err := s.Prepend(demo[i]); err != nil {
			return err
		}
	}
	return nil
}
