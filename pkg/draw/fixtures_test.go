// In-memory template fixtures shaped like the DD2977 assets: a datasets
// packet with the Page1 field tree, and a DOCX draft whose first table
// carries the reserved entry-row pair and the overall-risk trailer.

package draw

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

const datasetsFixture = `<xfa:datasets xmlns:xfa="http://www.xfa.org/schema/xfa-data/1.0/">
  <xfa:data>
    <form1>
      <Page1>
        <One/>
        <Two/>
        <A/>
        <B/>
        <C/>
        <D/>
        <E/>
        <F/>
        <G/>
        <H/>
        <Eleven/>
        <Ten>
          <EHigh>0</EHigh>
          <High>0</High>
          <Med>0</Med>
          <Low>0</Low>
        </Ten>
        <Twelve>
          <Approve>0</Approve>
          <Disapprove>0</Disapprove>
        </Twelve>
        <Part4thru9>
          <Row1>
            <Subtask-Substep/>
            <Hazard/>
            <InitialRiskLevel/>
            <Control/>
            <Table2>
              <Row1>
                <TextField1/>
              </Row1>
              <Row2>
                <TextField2/>
              </Row2>
            </Table2>
            <RRL/>
          </Row1>
        </Part4thru9>
      </Page1>
    </form1>
  </xfa:data>
</xfa:datasets>`

func loadDatasetsFixture(t *testing.T) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(datasetsFixture); err != nil {
		t.Fatalf("failed to parse datasets fixture: %v", err)
	}
	return doc
}

// Grid geometry of the draft fixture: 11 rows of 15 single-span cells,
// entry pair at rows 8/9, trailer at row 10.
const (
	fixtureRows    = 11
	fixtureColumns = 15
)

// Template labels the draft fixture carries, to verify that header writes
// append after them instead of replacing them.
var fixtureLabels = map[[2]int]string{
	{1, 0}:  "1. MISSION/TASK:",
	{1, 13}: "2. DATE:",
	{3, 0}:  "3.a. NAME:",
	{8, 1}:  "PROTO-SUBTASK",
	{9, 12}: "WHO:",
	{10, 0}: "10. OVERALL RESIDUAL RISK LEVEL:",
}

const trailerLabel = "10. OVERALL RESIDUAL RISK LEVEL:"

func draftDocumentXML() string {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	document := doc.CreateElement("w:document")
	document.CreateAttr("xmlns:w", "http://schemas.openxmlformats.org/wordprocessingml/2006/main")
	body := document.CreateElement("w:body")
	tbl := body.CreateElement("w:tbl")

	for r := 0; r < fixtureRows; r++ {
		tr := tbl.CreateElement("w:tr")
		for c := 0; c < fixtureColumns; c++ {
			tc := tr.CreateElement("w:tc")
			p := tc.CreateElement("w:p")
			if label, ok := fixtureLabels[[2]int{r, c}]; ok {
				run := p.CreateElement("w:r")
				text := run.CreateElement("w:t")
				text.SetText(label)
			}
		}
	}
	body.CreateElement("w:p")

	out, err := doc.WriteToString()
	if err != nil {
		panic(fmt.Sprintf("failed to serialize draft fixture: %v", err))
	}
	return out
}

func loadDraftTableFixture(t *testing.T) (*etree.Document, *etree.Element) {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(draftDocumentXML()); err != nil {
		t.Fatalf("failed to parse draft fixture: %v", err)
	}
	tbl := doc.Root().SelectElement("body").SelectElement("tbl")
	if tbl == nil {
		t.Fatal("draft fixture has no table")
	}
	return doc, tbl
}

// createDraftDOCXBytes builds a minimal DOCX package around the draft
// fixture, plus a styles part to verify pass-through copying.
func createDraftDOCXBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
		"word/document.xml": draftDocumentXML(),
		"word/styles.xml":   `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	}

	for name, content := range parts {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close fixture zip: %v", err)
	}
	return buf.Bytes()
}

// cellText extracts the visible text of a table cell, with explicit line
// breaks rendered as newlines.
func cellText(tc *etree.Element) string {
	var b strings.Builder
	for _, p := range tc.SelectElements("p") {
		for _, r := range p.SelectElements("r") {
			for _, child := range r.ChildElements() {
				switch child.Tag {
				case "t":
					b.WriteString(child.Text())
				case "br":
					b.WriteString("\n")
				}
			}
		}
	}
	return b.String()
}

func cellTextAt(t *testing.T, tbl *etree.Element, rowIdx, col int) string {
	t.Helper()
	row := rowAt(tbl, rowIdx)
	if row == nil {
		t.Fatalf("no row at index %d", rowIdx)
	}
	tc := cellAt(row, col)
	if tc == nil {
		t.Fatalf("no cell at row %d col %d", rowIdx, col)
	}
	return cellText(tc)
}

// trailerRowIndex finds the row carrying the overall-risk trailer label.
func trailerRowIndex(t *testing.T, tbl *etree.Element) int {
	t.Helper()
	for i, row := range tableRows(tbl) {
		for _, tc := range row.SelectElements("tc") {
			if strings.Contains(cellText(tc), trailerLabel) {
				return i
			}
		}
	}
	t.Fatal("trailer row not found")
	return -1
}

func sampleRecord() *Record {
	return &Record{
		MissionTask: "Convoy operations to FOB Falcon",
		Date:        "2025-01-15",
		PreparedBy: Preparer{
			Name:            "Doe, John A.",
			RankGrade:       "SSG/E-6",
			DutyTitle:       "Squad Leader",
			Unit:            "1-502 IN",
			WorkEmail:       "john.doe@army.mil",
			Telephone:       "555-0100",
			UICCIN:          "WABCAA",
			TrainingSupport: "OPORD 25-01",
		},
		SupervisionPlan:  "NCOs supervise all movement phases.",
		OverallRiskLevel: "L",
		Approval:         ApprovalDecision{Approve: true},
		Subtasks: []Subtask{
			{
				Subtask:          SubtaskName{Name: "Mounted movement"},
				Hazard:           "Vehicle rollover",
				InitialRiskLevel: "m",
				Control:          ValueList{Values: []string{"Rollover drills", "Speed limits"}},
				HowToImplement: HowToImplement{
					How: ValueList{Values: []string{"Brief before movement"}},
					Who: ValueList{Values: []string{"Convoy commander"}},
				},
				ResidualRiskLevel: "l",
			},
		},
	}
}
