package draw

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordJSON = `{
  "mission_task_and_description": "Convoy operations to FOB Falcon",
  "date": "2025-01-15",
  "prepared_by": {
    "name_last_first_middle_initial": "Doe, John A.",
    "rank_grade": "SSG/E-6",
    "duty_title_position": "Squad Leader",
    "unit": "1-502 IN",
    "work_email": "john.doe@army.mil",
    "telephone": "555-0100",
    "uic_cin": "WABCAA",
    "training_support_or_lesson_plan_or_opord": "OPORD 25-01"
  },
  "overall_supervision_plan": "NCOs supervise all movement phases.",
  "overall_residual_risk_level": "L",
  "approval_or_disapproval_of_mission_or_task": {
    "approve": true,
    "disapprove": false
  },
  "subtasks": [
    {
      "subtask": {"name": "Mounted movement"},
      "hazard": "Vehicle rollover",
      "initial_risk_level": "M",
      "control": {"values": ["Rollover drills", "Speed limits"]},
      "how_to_implement": {
        "how": {"values": ["Brief before movement"]},
        "who": {"values": ["Convoy commander"]}
      },
      "residual_risk_level": "L"
    }
  ]
}`

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord(strings.NewReader(recordJSON))
	require.NoError(t, err)

	assert.Equal(t, "Convoy operations to FOB Falcon", rec.MissionTask)
	assert.Equal(t, "2025-01-15", rec.Date)
	assert.Equal(t, "Doe, John A.", rec.PreparedBy.Name)
	assert.Equal(t, "SSG/E-6", rec.PreparedBy.RankGrade)
	assert.Equal(t, "OPORD 25-01", rec.PreparedBy.TrainingSupport)
	assert.Equal(t, "NCOs supervise all movement phases.", rec.SupervisionPlan)
	assert.Equal(t, "L", rec.OverallRiskLevel)
	assert.True(t, rec.Approval.Approve)
	assert.False(t, rec.Approval.Disapprove)

	require.Len(t, rec.Subtasks, 1)
	st := rec.Subtasks[0]
	assert.Equal(t, "Mounted movement", st.Subtask.Name)
	assert.Equal(t, "Vehicle rollover", st.Hazard)
	assert.Equal(t, []string{"Rollover drills", "Speed limits"}, st.Control.Values)
	assert.Equal(t, []string{"Brief before movement"}, st.HowToImplement.How.Values)
	assert.Equal(t, []string{"Convoy commander"}, st.HowToImplement.Who.Values)
	assert.Equal(t, "L", st.ResidualRiskLevel)
}

func TestDecodeRecordPartial(t *testing.T) {
	rec, err := DecodeRecord(strings.NewReader(`{"overall_residual_risk_level":"EH","subtasks":[]}`))
	require.NoError(t, err)

	assert.Equal(t, "EH", rec.OverallRiskLevel)
	assert.Empty(t, rec.Subtasks)
	assert.Empty(t, rec.MissionTask)
	assert.False(t, rec.Approval.Approve)
}

func TestDecodeRecordMalformed(t *testing.T) {
	_, err := DecodeRecord(strings.NewReader(`{"subtasks": "nope"`))
	require.Error(t, err)
}

func TestLoadRecordMissingFile(t *testing.T) {
	_, err := LoadRecord(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, IsDocumentError(err))
}
