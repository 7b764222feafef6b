package models

import "fmt"

// CourtType is the court with jurisdiction over a filing.
type CourtType string

const (
	CourtCommercial     CourtType = "المحكمة التجارية"
	CourtLabor          CourtType = "المحكمة العمالية"
	CourtPersonalStatus CourtType = "محكمة الأحوال الشخصية"
	CourtGeneral        CourtType = "المحكمة العامة"
	CourtCriminal       CourtType = "المحكمة الجزائية"
	CourtAdministrative CourtType = "المحكمة الإدارية"
	CourtExecution      CourtType = "محكمة التنفيذ"
	CourtUnclassified   CourtType = "غير مصنف"
)

// CourtTypes lists every court in schema order.
var CourtTypes = []CourtType{
	CourtCommercial,
	CourtLabor,
	CourtPersonalStatus,
	CourtGeneral,
	CourtCriminal,
	CourtAdministrative,
	CourtExecution,
	CourtUnclassified,
}

func (c CourtType) Valid() bool {
	for _, v := range CourtTypes {
		if v == c {
			return true
		}
	}
	return false
}

// ParseCourtType accepts only the closed court enumeration.
func ParseCourtType(s string) (CourtType, error) {
	c := CourtType(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown court type %q", s)
	}
	return c, nil
}

// Priority is the urgency of a filing, ordered low to high.
type Priority string

const (
	PriorityNormal Priority = "عادية"
	PriorityMedium Priority = "متوسطة"
	PriorityUrgent Priority = "مستعجلة"
)

var Priorities = []Priority{PriorityNormal, PriorityMedium, PriorityUrgent}

func (p Priority) Valid() bool {
	return p.rank() >= 0
}

// rank returns 0..2 for known priorities and -1 otherwise.
func (p Priority) rank() int {
	for i, v := range Priorities {
		if v == p {
			return i
		}
	}
	return -1
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

func stringsOf[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

// CourtTypeValues returns the court enumeration as plain strings.
func CourtTypeValues() []string { return stringsOf(CourtTypes) }

// PriorityValues returns the priority enumeration as plain strings.
func PriorityValues() []string { return stringsOf(Priorities) }
