package services

import (
	"strconv"

	"github.com/aicaremanager/backend/internal/domain/entities"
)

// DutyFields names the duty-hour fields of one facility source
type DutyFields struct {
	// Weekday holds (start, close) field names indexed by weekday, 0 = Monday
	Weekday [7][2]string
	// Holiday is the (start, close) pair used when holiday hours are requested
	Holiday [2]string
	// AlwaysOpenFlag, when set, names a field whose value "Y" marks a
	// designated 24-hour facility
	AlwaysOpenFlag string
}

func standardDutyFields(alwaysOpenFlag string) DutyFields {
	f := DutyFields{
		Holiday:        [2]string{"dutyTime8s", "dutyTime8c"},
		AlwaysOpenFlag: alwaysOpenFlag,
	}
	for i := 0; i < 7; i++ {
		n := strconv.Itoa(i + 1)
		f.Weekday[i] = [2]string{"dutyTime" + n + "s", "dutyTime" + n + "c"}
	}
	return f
}

var (
	// PharmacyDutyFields covers the pharmacy source
	PharmacyDutyFields = standardDutyFields("")
	// HospitalDutyFields covers the clinic/hospital source
	HospitalDutyFields = standardDutyFields("")
	// EmergencyDutyFields covers the emergency source, which carries the 24-hour flag
	EmergencyDutyFields = standardDutyFields("dutyEryn")
)

// OperatingStatusEvaluator derives OPEN/CLOSED/UNKNOWN from a raw record
type OperatingStatusEvaluator struct {
	fields DutyFields
}

// NewOperatingStatusEvaluator creates an evaluator over the given field map
func NewOperatingStatusEvaluator(fields DutyFields) *OperatingStatusEvaluator {
	return &OperatingStatusEvaluator{fields: fields}
}

// Evaluate returns the status at nowHHMM on weekday (0 = Monday) and the
// display close time when open. Close times before start are compared
// numerically and never wrap past midnight.
func (e *OperatingStatusEvaluator) Evaluate(record entities.RawRecord, nowHHMM, weekday int, useHoliday bool) (entities.OpenStatus, *string) {
	if e.fields.AlwaysOpenFlag != "" && record.String(e.fields.AlwaysOpenFlag) == "Y" {
		return entities.OpenStatusOpen, nil
	}

	var pair [2]string
	switch {
	case useHoliday:
		pair = e.fields.Holiday
	case weekday >= 0 && weekday < 7:
		pair = e.fields.Weekday[weekday]
	default:
		return entities.OpenStatusUnknown, nil
	}

	rawStart := record.String(pair[0])
	rawClose := record.String(pair[1])
	start, ok := ParseHHMM(rawStart)
	if !ok {
		return entities.OpenStatusUnknown, nil
	}
	closeAt, ok := ParseHHMM(rawClose)
	if !ok {
		return entities.OpenStatusUnknown, nil
	}

	if start <= nowHHMM && nowHHMM <= closeAt {
		return entities.OpenStatusOpen, DisplayHHMM(rawClose)
	}
	return entities.OpenStatusClosed, nil
}

// ParseHHMM accepts exactly four ASCII digits
func ParseHHMM(raw string) (int, bool) {
	if len(raw) != 4 {
		return 0, false
	}
	n := 0
	for i := 0; i < 4; i++ {
		c := raw[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// DisplayHHMM formats "2130" as "21:30"; any other shape yields nil
func DisplayHHMM(raw string) *string {
	if _, ok := ParseHHMM(raw); !ok {
		return nil
	}
	s := raw[:2] + ":" + raw[2:]
	return &s
}
