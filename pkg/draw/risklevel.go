package draw

import "strings"

// RiskLevel is the closed set of risk ratings used on the worksheet.
type RiskLevel int

const (
	// RiskUnknown is the zero value for input outside the closed set.
	RiskUnknown RiskLevel = iota
	RiskExtremelyHigh
	RiskHigh
	RiskMedium
	RiskLow
)

// ParseRiskLevel resolves a risk level from either its short code
// (EH, H, M, L) or its spelled-out name, case-insensitively. It reports
// false for anything outside the closed set; callers degrade to "no
// indicator set" rather than failing the assembly.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EH", "EXTREMELY HIGH", "EXTREMELY-HIGH", "EXTREMELY_HIGH":
		return RiskExtremelyHigh, true
	case "H", "HIGH":
		return RiskHigh, true
	case "M", "MED", "MEDIUM":
		return RiskMedium, true
	case "L", "LOW":
		return RiskLow, true
	}
	return RiskUnknown, false
}

// Code returns the short code used by the XFA form (EH, H, M, L).
func (l RiskLevel) Code() string {
	switch l {
	case RiskExtremelyHigh:
		return "EH"
	case RiskHigh:
		return "H"
	case RiskMedium:
		return "M"
	case RiskLow:
		return "L"
	}
	return ""
}

// Label returns the spelled-out upper-case label used in the draft table.
func (l RiskLevel) Label() string {
	switch l {
	case RiskExtremelyHigh:
		return "EXTREMELY HIGH"
	case RiskHigh:
		return "HIGH"
	case RiskMedium:
		return "MEDIUM"
	case RiskLow:
		return "LOW"
	}
	return ""
}

func (l RiskLevel) String() string {
	if l == RiskUnknown {
		return "UNKNOWN"
	}
	return l.Label()
}
