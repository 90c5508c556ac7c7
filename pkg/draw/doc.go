// Package draw fills DD Form 2977 (Deliberate Risk Assessment Worksheet)
// templates from a normalized risk-assessment record.
//
// Two template targets are supported:
//
//   - The interactive PDF form. Its values live in the XFA datasets packet,
//     an XML tree embedded in the PDF. OpenXFAForm loads the template,
//     Fill injects the record, and Save writes the filled PDF.
//
//   - The DOCX draft. Its values live in a fixed-grid table whose entry
//     row pair is replicated once per subtask. OpenDraft loads the
//     template, Fill injects the record, and Save writes the filled DOCX,
//     which ConvertToPDF can hand to LibreOffice for final layout.
//
// Both targets are pre-existing assets whose structure is discovered, not
// designed, at fill time: fields the loaded template does not carry are
// skipped, while a missing data container (the datasets packet, the Page1
// subtree, the draft table) aborts the assembly with a StructureError
// before anything is mutated.
//
// Basic usage:
//
//	rec, err := draw.LoadRecord("record.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	form, err := draw.OpenXFAForm("dd2977.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer form.Close()
//
//	if err := form.Fill(rec, nil); err != nil {
//	    log.Fatal(err)
//	}
//	if err := form.Save("dd2977_filled.pdf"); err != nil {
//	    log.Fatal(err)
//	}
package draw
