package draw

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Record is the normalized risk-assessment record produced by the upstream
// parsing pipeline. Field names mirror the interchange JSON exactly.
type Record struct {
	MissionTask      string           `json:"mission_task_and_description"`
	Date             string           `json:"date"`
	PreparedBy       Preparer         `json:"prepared_by"`
	SupervisionPlan  string           `json:"overall_supervision_plan"`
	OverallRiskLevel string           `json:"overall_residual_risk_level"`
	Approval         ApprovalDecision `json:"approval_or_disapproval_of_mission_or_task"`
	Subtasks         []Subtask        `json:"subtasks"`
}

// Preparer identifies who prepared the worksheet (block 3 of the form).
type Preparer struct {
	Name            string `json:"name_last_first_middle_initial"`
	RankGrade       string `json:"rank_grade"`
	DutyTitle       string `json:"duty_title_position"`
	Unit            string `json:"unit"`
	WorkEmail       string `json:"work_email"`
	Telephone       string `json:"telephone"`
	UICCIN          string `json:"uic_cin"`
	TrainingSupport string `json:"training_support_or_lesson_plan_or_opord"`
}

// ApprovalDecision carries the two approval indicators. They are
// independent booleans; the form itself permits both to be checked, so no
// mutual exclusion is enforced here.
type ApprovalDecision struct {
	Approve    bool `json:"approve"`
	Disapprove bool `json:"disapprove"`
}

// Subtask is one entry of the repeating hazard group.
type Subtask struct {
	Subtask           SubtaskName    `json:"subtask"`
	Hazard            string         `json:"hazard"`
	InitialRiskLevel  string         `json:"initial_risk_level"`
	Control           ValueList      `json:"control"`
	HowToImplement    HowToImplement `json:"how_to_implement"`
	ResidualRiskLevel string         `json:"residual_risk_level"`
}

// SubtaskName wraps the nested subtask object of the interchange JSON.
type SubtaskName struct {
	Name string `json:"name"`
}

// ValueList is an ordered sequence of statements.
type ValueList struct {
	Values []string `json:"values"`
}

// HowToImplement holds the two independently ordered statement lists of
// the implementation column: what is done and who does it.
type HowToImplement struct {
	How ValueList `json:"how"`
	Who ValueList `json:"who"`
}

// DecodeRecord reads a normalized record from JSON.
func DecodeRecord(r io.Reader) (*Record, error) {
	var rec Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &rec, nil
}

// LoadRecord reads a normalized record from a JSON file.
func LoadRecord(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	defer f.Close()

	rec, err := DecodeRecord(f)
	if err != nil {
		return nil, NewDocumentError("decode", path, err)
	}
	return rec, nil
}
