package draw

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// DraftDoc owns the in-memory copy of the DD2977 DOCX draft template:
// the original package bytes plus the parsed word/document.xml tree being
// mutated. Like XFAForm, a draft is filled at most once; the template
// file is never modified.
type DraftDoc struct {
	source []byte
	doc    *etree.Document
	filled bool
	closed bool
}

// OpenDraft loads the draft template from a file path.
func OpenDraft(path string) (*DraftDoc, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	d, err := NewDraft(content)
	if err != nil {
		return nil, NewDocumentError("parse", path, err)
	}
	return d, nil
}

// NewDraft loads the draft template from DOCX bytes.
func NewDraft(docxBytes []byte) (*DraftDoc, error) {
	zr, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return nil, errors.New("not a valid DOCX file: " + err.Error())
	}

	var docXML []byte
	for _, file := range zr.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		break
	}
	if docXML == nil {
		return nil, errors.New("not a valid DOCX file: missing word/document.xml")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(docXML); err != nil {
		return nil, errors.New("malformed word/document.xml: " + err.Error())
	}

	return &DraftDoc{
		source: docxBytes,
		doc:    doc,
	}, nil
}

// FirstTable locates the data container of the draft: the first table in
// the document body. The worksheet grid is always the first table of the
// template asset.
func (d *DraftDoc) FirstTable() (*etree.Element, error) {
	root := d.doc.Root()
	if root == nil {
		return nil, NewStructureError("document", "empty document.xml")
	}
	body := root.SelectElement("body")
	if body == nil {
		return nil, NewStructureError("document", "no body element")
	}
	tbl := body.SelectElement("tbl")
	if tbl == nil {
		return nil, NewStructureError("body", "draft template has no table")
	}
	return tbl, nil
}

// Fill renders rec into the draft's grid table. It may be called at most
// once per draft; a handle is never reused across assemblies.
func (d *DraftDoc) Fill(rec *Record, logger *zap.Logger) error {
	if d.closed {
		return errors.New("draft already closed")
	}
	if d.filled {
		return errors.New("draft already filled")
	}

	tbl, err := d.FirstTable()
	if err != nil {
		return err
	}
	if err := FillDraftTable(tbl, rec, logger); err != nil {
		return err
	}
	d.filled = true
	return nil
}

// Bytes rebuilds the DOCX package with the mutated document.xml. Every
// other part is copied from the template unchanged.
func (d *DraftDoc) Bytes() ([]byte, error) {
	docXML, err := d.doc.WriteToBytes()
	if err != nil {
		return nil, NewDocumentError("serialize", "document.xml", err)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	zr, err := zip.NewReader(bytes.NewReader(d.source), int64(len(d.source)))
	if err != nil {
		return nil, NewDocumentError("read", "source DOCX", err)
	}

	for _, file := range zr.File {
		fw, err := w.Create(file.Name)
		if err != nil {
			return nil, NewDocumentError("write", file.Name, err)
		}

		if file.Name == "word/document.xml" {
			if _, err := fw.Write(docXML); err != nil {
				return nil, NewDocumentError("write", file.Name, err)
			}
			continue
		}

		fr, err := file.Open()
		if err != nil {
			return nil, NewDocumentError("read", file.Name, err)
		}
		_, err = io.Copy(fw, fr)
		fr.Close()
		if err != nil {
			return nil, NewDocumentError("copy", file.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, NewDocumentError("write", "DOCX package", err)
	}
	return buf.Bytes(), nil
}

// Save writes the rebuilt package to outputPath, atomically. The draft is
// closed afterwards whether or not the write succeeded.
func (d *DraftDoc) Save(outputPath string) error {
	if d.closed {
		return errors.New("draft already closed")
	}
	defer d.Close()

	out, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(outputPath, out); err != nil {
		return NewDocumentError("write", outputPath, err)
	}
	return nil
}

// Close releases the in-memory copy. Safe to call more than once.
func (d *DraftDoc) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.source = nil
	d.doc = nil
	return nil
}

// FillDraft is the one-call form of the draft pipeline: open the
// template, fill its grid table with rec and save the result. Final PDF
// conversion is the Converter's business, not this call's.
func FillDraft(rec *Record, opts FillOptions, logger *zap.Logger) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	draft, err := OpenDraft(opts.TemplatePath)
	if err != nil {
		return err
	}
	defer draft.Close()

	if err := draft.Fill(rec, logger); err != nil {
		return err
	}
	return draft.Save(opts.OutputPath)
}
