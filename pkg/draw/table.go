package draw

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Reserved geometry of the draft template's grid. The template ships with
// exactly one entry slot: a main row at index 8 and its "who" row at
// index 9, followed by the overall-risk trailer row. Every additional
// subtask gets a cloned row pair inserted after the previous pair.
const (
	reservedMainRow = 8
	reservedWhoRow  = 9
)

// Fixed cell addresses, in grid columns (gridSpan-expanded, the way the
// template was laid out).
var draftHeaderCells = []struct {
	name string
	row  int
	col  int
	text func(rec *Record) string
}{
	{"mission_task", 1, 0, func(r *Record) string { return Sanitize(r.MissionTask) }},
	{"date", 1, 13, func(r *Record) string { return Sanitize(r.Date) }},
	{"preparer_name", 3, 0, func(r *Record) string { return Sanitize(r.PreparedBy.Name) }},
	{"preparer_rank_grade", 3, 7, func(r *Record) string { return Sanitize(r.PreparedBy.RankGrade) }},
	{"preparer_duty_title", 3, 11, func(r *Record) string { return Sanitize(r.PreparedBy.DutyTitle) }},
	{"preparer_unit", 4, 0, func(r *Record) string { return Sanitize(r.PreparedBy.Unit) }},
	{"preparer_work_email", 4, 2, func(r *Record) string { return Sanitize(r.PreparedBy.WorkEmail) }},
	{"preparer_telephone", 4, 9, func(r *Record) string { return Sanitize(r.PreparedBy.Telephone) }},
	{"preparer_uic_cin", 5, 0, func(r *Record) string { return Sanitize(r.PreparedBy.UICCIN) }},
	{"preparer_training_support", 5, 2, func(r *Record) string { return Sanitize(r.PreparedBy.TrainingSupport) }},
}

// FillDraftTable renders rec into the draft's grid table. The caller owns
// the table element; DraftDoc.Fill is the usual entry point.
//
// Row bookkeeping: lastWho tracks the index of the most recent "who" row.
// For entry i>0 the reserved who-row and then the reserved main-row are
// cloned and both inserted immediately after lastWho; using the same
// anchor for both insertions puts the main clone first and the who clone
// second. The trailer row always ends up at lastWho+1.
func FillDraftTable(tbl *etree.Element, rec *Record, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, h := range draftHeaderCells {
		if !appendCellText(tbl, h.row, h.col, h.text(rec)) {
			logger.Debug("header cell not present in template",
				zap.String("field", h.name),
				zap.Int("row", h.row),
				zap.Int("col", h.col))
		}
	}

	lastWho := reservedWhoRow
	for i, st := range rec.Subtasks {
		mainIdx, whoIdx := reservedMainRow, reservedWhoRow
		if i > 0 {
			insertRowCopyAfter(tbl, lastWho, reservedWhoRow)
			insertRowCopyAfter(tbl, lastWho, reservedMainRow)
			mainIdx = lastWho + 1
			whoIdx = lastWho + 2
			lastWho += 2
		}
		populateEntryRows(tbl, mainIdx, whoIdx, st)
	}
	if len(rec.Subtasks) == 0 {
		// Degenerate but accepted: the reserved pair is blanked out, not
		// removed, and the trailer stays where the template put it.
		populateEntryRows(tbl, reservedMainRow, reservedWhoRow, Subtask{})
	}

	// The trailer has shifted down two rows per inserted pair.
	level, ok := ParseRiskLevel(Sanitize(rec.OverallRiskLevel))
	overall := sanitizeUpper(rec.OverallRiskLevel)
	if ok {
		overall = level.Label()
	} else if rec.OverallRiskLevel != "" {
		logger.Warn("unrecognized overall risk level, writing literal value",
			zap.String("value", rec.OverallRiskLevel))
	}
	appendCellText(tbl, lastWho+1, 0, overall)

	return nil
}

// populateEntryRows writes one subtask into an established row pair. The
// "who" statements land in the second row; everything else in the first.
func populateEntryRows(tbl *etree.Element, mainIdx, whoIdx int, st Subtask) {
	setCellText(tbl, mainIdx, 1, Sanitize(st.Subtask.Name))
	setCellText(tbl, mainIdx, 3, Sanitize(st.Hazard))
	setCellText(tbl, mainIdx, 5, sanitizeUpper(st.InitialRiskLevel))
	setCellText(tbl, mainIdx, 8, joinValues(st.Control.Values))
	setCellText(tbl, mainIdx, 12, joinValues(st.HowToImplement.How.Values))
	setCellText(tbl, whoIdx, 12, joinValues(st.HowToImplement.Who.Values))
	setCellText(tbl, mainIdx, 14, sanitizeUpper(st.ResidualRiskLevel))
}

// tableRows returns the table's rows in document order.
func tableRows(tbl *etree.Element) []*etree.Element {
	return tbl.SelectElements("tr")
}

func rowAt(tbl *etree.Element, idx int) *etree.Element {
	rows := tableRows(tbl)
	if idx < 0 || idx >= len(rows) {
		return nil
	}
	return rows[idx]
}

// insertRowCopyAfter deep-copies the row at srcIdx and splices the copy
// in directly after the row at anchorIdx. The source row is never
// mutated by the copy.
func insertRowCopyAfter(tbl *etree.Element, anchorIdx, srcIdx int) {
	anchor := rowAt(tbl, anchorIdx)
	src := rowAt(tbl, srcIdx)
	if anchor == nil || src == nil {
		return
	}
	tbl.InsertChildAt(anchor.Index()+1, src.Copy())
}

// cellAt maps a grid column offset to its cell element. A cell spanning
// multiple grid columns (gridSpan) occupies every column it covers, which
// is the addressing scheme the template's fixed offsets were written in.
func cellAt(row *etree.Element, col int) *etree.Element {
	grid := 0
	for _, tc := range row.SelectElements("tc") {
		span := cellGridSpan(tc)
		if col < grid+span {
			return tc
		}
		grid += span
	}
	return nil
}

func cellGridSpan(tc *etree.Element) int {
	pr := tc.SelectElement("tcPr")
	if pr == nil {
		return 1
	}
	gs := pr.SelectElement("gridSpan")
	if gs == nil {
		return 1
	}
	if n, err := strconv.Atoi(gs.SelectAttrValue("val", "")); err == nil && n > 0 {
		return n
	}
	return 1
}

// setCellText replaces a cell's content with a single paragraph holding
// text. The first paragraph's properties survive so the cell keeps its
// formatting. Reports whether the cell exists; a missing address is
// skipped like any other absent field.
func setCellText(tbl *etree.Element, rowIdx, col int, text string) bool {
	tc := cellAddress(tbl, rowIdx, col)
	if tc == nil {
		return false
	}

	paras := tc.SelectElements("p")
	var first *etree.Element
	if len(paras) == 0 {
		first = tc.CreateElement("w:p")
	} else {
		first = paras[0]
		for _, p := range paras[1:] {
			tc.RemoveChild(p)
		}
		for _, r := range first.SelectElements("r") {
			first.RemoveChild(r)
		}
	}

	addTextRuns(first, text, false)
	return true
}

// appendCellText appends a bold run to a cell's last paragraph, keeping
// whatever label text the template already shows there.
func appendCellText(tbl *etree.Element, rowIdx, col int, text string) bool {
	tc := cellAddress(tbl, rowIdx, col)
	if tc == nil {
		return false
	}

	paras := tc.SelectElements("p")
	var p *etree.Element
	if len(paras) == 0 {
		p = tc.CreateElement("w:p")
	} else {
		p = paras[len(paras)-1]
	}

	addTextRuns(p, " "+text, true)
	return true
}

func cellAddress(tbl *etree.Element, rowIdx, col int) *etree.Element {
	row := rowAt(tbl, rowIdx)
	if row == nil {
		return nil
	}
	return cellAt(row, col)
}

// addTextRuns appends text to a paragraph as a run, turning newlines into
// explicit line breaks. Word ignores literal newlines inside text nodes.
func addTextRuns(p *etree.Element, text string, bold bool) {
	r := p.CreateElement("w:r")
	if bold {
		rPr := r.CreateElement("w:rPr")
		rPr.CreateElement("w:b")
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		t := r.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(line)
	}
}
