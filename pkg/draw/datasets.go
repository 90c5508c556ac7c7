package draw

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Logical field schema of Page1, mapped to node paths relative to the
// Page1 subtree. The mapping is explicit rather than discovered: the
// template's node names are form-asset identity, not something to guess
// at fill time.
type datasetsField struct {
	name  string
	path  string
	value func(rec *Record) string
}

var page1Fields = []datasetsField{
	{"mission_task", "One", func(r *Record) string { return Sanitize(r.MissionTask) }},
	{"date", "Two", func(r *Record) string { return digitsOnly(Sanitize(r.Date)) }},
	{"preparer_name", "A", func(r *Record) string { return Sanitize(r.PreparedBy.Name) }},
	{"preparer_rank_grade", "B", func(r *Record) string { return Sanitize(r.PreparedBy.RankGrade) }},
	{"preparer_duty_title", "C", func(r *Record) string { return Sanitize(r.PreparedBy.DutyTitle) }},
	{"preparer_unit", "D", func(r *Record) string { return Sanitize(r.PreparedBy.Unit) }},
	{"preparer_work_email", "E", func(r *Record) string { return Sanitize(r.PreparedBy.WorkEmail) }},
	{"preparer_telephone", "F", func(r *Record) string { return Sanitize(r.PreparedBy.Telephone) }},
	{"preparer_uic_cin", "G", func(r *Record) string { return Sanitize(r.PreparedBy.UICCIN) }},
	{"preparer_training_support", "H", func(r *Record) string { return Sanitize(r.PreparedBy.TrainingSupport) }},
	{"supervision_plan", "Eleven", func(r *Record) string { return Sanitize(r.SupervisionPlan) }},
}

// One-hot indicator nodes of the overall risk block (block 10).
var riskIndicators = []struct {
	level RiskLevel
	tag   string
}{
	{RiskExtremelyHigh, "EHigh"},
	{RiskHigh, "High"},
	{RiskMedium, "Med"},
	{RiskLow, "Low"},
}

// FillDatasets renders rec into a DD2977 XFA datasets tree. The caller
// owns the tree; XFAForm.Fill is the usual entry point.
//
// The Page1 container must exist; individual fields the loaded template
// happens to omit are skipped, since the asset is externally controlled
// and legitimately varies.
func FillDatasets(doc *etree.Document, rec *Record, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	page1, err := resolvePage1(doc)
	if err != nil {
		return err
	}

	for _, f := range page1Fields {
		node := page1.FindElement(f.path)
		if node == nil {
			logger.Debug("field not present in template",
				zap.String("field", f.name),
				zap.String("path", f.path))
			continue
		}
		node.SetText(f.value(rec))
	}

	fillOverallRisk(page1, rec, logger)
	fillApproval(page1, rec)
	fillHazardRows(page1, rec)

	return nil
}

// resolvePage1 locates the Page1 data container inside the datasets
// packet. Any missing ancestor is a structure error: without it there is
// nothing to fill.
func resolvePage1(doc *etree.Document) (*etree.Element, error) {
	root := doc.Root()
	if root == nil {
		return nil, NewStructureError("datasets", "packet has no root element")
	}

	data := root.SelectElement("data")
	if data == nil {
		return nil, NewStructureError("datasets", "no xfa:data element")
	}
	form1 := data.SelectElement("form1")
	if form1 == nil {
		return nil, NewStructureError("xfa:data", "no form1 element")
	}
	page1 := form1.SelectElement("Page1")
	if page1 == nil {
		return nil, NewStructureError("form1", "no Page1 element")
	}
	return page1, nil
}

// fillOverallRisk writes the block 10 one-hot indicator set: all four
// indicators are cleared first, then the resolved level is set. Input
// outside the closed set leaves every indicator inactive.
func fillOverallRisk(page1 *etree.Element, rec *Record, logger *zap.Logger) {
	ten := page1.SelectElement("Ten")
	if ten == nil {
		return
	}

	for _, ind := range riskIndicators {
		if node := ten.SelectElement(ind.tag); node != nil {
			node.SetText("0")
		}
	}

	level, ok := ParseRiskLevel(Sanitize(rec.OverallRiskLevel))
	if !ok {
		if rec.OverallRiskLevel != "" {
			logger.Warn("unrecognized overall risk level, leaving indicators unset",
				zap.String("value", rec.OverallRiskLevel))
		}
		return
	}

	for _, ind := range riskIndicators {
		if ind.level != level {
			continue
		}
		if node := ten.SelectElement(ind.tag); node != nil {
			node.SetText("1")
		}
	}
}

// fillApproval writes the block 12 approve/disapprove indicators. The two
// booleans are independent; the form permits both.
func fillApproval(page1 *etree.Element, rec *Record) {
	twelve := page1.SelectElement("Twelve")
	if twelve == nil {
		return
	}

	if node := twelve.SelectElement("Approve"); node != nil {
		node.SetText(boolIndicator(rec.Approval.Approve))
	}
	if node := twelve.SelectElement("Disapprove"); node != nil {
		node.SetText(boolIndicator(rec.Approval.Disapprove))
	}
}

func boolIndicator(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// fillHazardRows expands the repeating hazard group (blocks 4-9). One
// copy of the prototype Row1 is captured, every existing instance is
// removed, and a populated clone is appended per subtask in input order.
// An empty input yields zero rows, not the untouched prototype.
func fillHazardRows(page1 *etree.Element, rec *Record) {
	table := page1.SelectElement("Part4thru9")
	if table == nil {
		return
	}
	proto := table.SelectElement("Row1")
	if proto == nil {
		return
	}

	// The prototype stays read-only; clones are populated, never the
	// captured copy itself.
	prototype := proto.Copy()
	for _, row := range table.SelectElements("Row1") {
		table.RemoveChild(row)
	}

	for _, st := range rec.Subtasks {
		row := prototype.Copy()
		setNodeText(row, "Subtask-Substep", Sanitize(st.Subtask.Name))
		setNodeText(row, "Hazard", Sanitize(st.Hazard))
		setNodeText(row, "InitialRiskLevel", sanitizeUpper(st.InitialRiskLevel))
		setNodeText(row, "Control", joinValues(st.Control.Values))
		setNodeText(row, "Table2/Row1/TextField1", joinValues(st.HowToImplement.How.Values))
		setNodeText(row, "Table2/Row2/TextField2", joinValues(st.HowToImplement.Who.Values))
		setNodeText(row, "RRL", sanitizeUpper(st.ResidualRiskLevel))
		table.AddChild(row)
	}
}

// setNodeText writes text into the node at path below parent, skipping
// silently when the template instance omits the node.
func setNodeText(parent *etree.Element, path, text string) {
	if node := parent.FindElement(path); node != nil {
		node.SetText(text)
	}
}
