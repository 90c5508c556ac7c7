package draw

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"
)

// XFAForm owns the in-memory copy of a DD2977 PDF template and its parsed
// XFA datasets packet. A form is filled at most once and released by Save
// or Close; the template file itself is never modified.
type XFAForm struct {
	ctx      *model.Context
	datasets *etree.Document
	objNr    int
	genNr    int
	filled   bool
	closed   bool
}

// OpenXFAForm loads the template PDF and locates its datasets packet.
// A template without an AcroForm, XFA array or datasets stream fails with
// a StructureError before anything else happens.
func OpenXFAForm(path string) (*XFAForm, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}

	objNr, genNr, content, err := locateDatasets(ctx)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, NewStructureError("datasets", "packet is not well-formed XML: "+err.Error())
	}

	return &XFAForm{
		ctx:      ctx,
		datasets: doc,
		objNr:    objNr,
		genNr:    genNr,
	}, nil
}

// locateDatasets walks Root -> AcroForm -> XFA and returns the object
// number and decoded bytes of the datasets packet stream. The XFA array
// alternates packet names and stream references.
func locateDatasets(ctx *model.Context) (int, int, []byte, error) {
	catalog, err := ctx.Catalog()
	if err != nil {
		return 0, 0, nil, NewDocumentError("read", "catalog", err)
	}

	obj, found := catalog.Find("AcroForm")
	if !found {
		return 0, 0, nil, NewStructureError("catalog", "no AcroForm dictionary")
	}
	acroForm, err := ctx.DereferenceDict(obj)
	if err != nil {
		return 0, 0, nil, NewDocumentError("read", "AcroForm", err)
	}

	xfaObj, found := acroForm.Find("XFA")
	if !found {
		return 0, 0, nil, NewStructureError("AcroForm", "no XFA entry")
	}
	xfa, err := ctx.DereferenceArray(xfaObj)
	if err != nil {
		return 0, 0, nil, NewDocumentError("read", "XFA array", err)
	}

	for i := 0; i+1 < len(xfa); i += 2 {
		key, err := ctx.Dereference(xfa[i])
		if err != nil {
			return 0, 0, nil, NewDocumentError("read", "XFA packet name", err)
		}
		if packetName(key) != "datasets" {
			continue
		}

		ir, ok := xfa[i+1].(types.IndirectRef)
		if !ok {
			return 0, 0, nil, NewStructureError("XFA", "datasets packet is not an indirect stream")
		}
		entry, ok := ctx.FindTableEntryForIndRef(&ir)
		if !ok || entry.Object == nil {
			return 0, 0, nil, NewStructureError("XFA", "datasets stream object missing")
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			return 0, 0, nil, NewStructureError("XFA", "datasets object is not a stream")
		}
		if err := sd.Decode(); err != nil {
			return 0, 0, nil, NewDocumentError("decode", "datasets stream", err)
		}
		return ir.ObjectNumber.Value(), ir.GenerationNumber.Value(), sd.Content, nil
	}

	return 0, 0, nil, NewStructureError("XFA", "datasets packet not found")
}

// packetName extracts an XFA array key. The template in circulation uses
// string literals, but names show up in the wild too.
func packetName(obj types.Object) string {
	switch v := obj.(type) {
	case types.StringLiteral:
		return v.Value()
	case types.HexLiteral:
		return v.Value()
	case types.Name:
		return v.Value()
	}
	return ""
}

// Datasets exposes the parsed packet tree, mainly for tests.
func (f *XFAForm) Datasets() *etree.Document {
	return f.datasets
}

// Fill renders rec into the datasets tree. It may be called at most once
// per form; a handle is never reused across assemblies.
func (f *XFAForm) Fill(rec *Record, logger *zap.Logger) error {
	if f.closed {
		return errors.New("form already closed")
	}
	if f.filled {
		return errors.New("form already filled")
	}
	if err := FillDatasets(f.datasets, rec, logger); err != nil {
		return err
	}
	f.filled = true
	return nil
}

// Save serializes the mutated tree back into the datasets stream and
// writes the whole PDF to outputPath, atomically. The form is closed
// afterwards whether or not the write succeeded.
func (f *XFAForm) Save(outputPath string) error {
	if f.closed {
		return errors.New("form already closed")
	}
	defer f.Close()

	xml, err := f.datasets.WriteToBytes()
	if err != nil {
		return NewDocumentError("serialize", "datasets", err)
	}

	entry, ok := f.ctx.FindTableEntry(f.objNr, f.genNr)
	if !ok {
		return NewStructureError("XFA", "datasets stream object vanished")
	}
	sd, ok := entry.Object.(types.StreamDict)
	if !ok {
		return NewStructureError("XFA", "datasets object is not a stream")
	}

	sd.Content = xml
	sd.Raw = nil
	if err := sd.Encode(); err != nil {
		return NewDocumentError("encode", "datasets stream", err)
	}
	length := int64(len(sd.Raw))
	sd.StreamLength = &length
	sd.Dict["Length"] = types.Integer(length)
	entry.Object = sd

	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, ".mr20-*.pdf")
	if err != nil {
		return NewDocumentError("write", outputPath, err)
	}
	tmpName := tmp.Name()
	tmp.Close()

	if err := api.WriteContextFile(f.ctx, tmpName); err != nil {
		os.Remove(tmpName)
		return NewDocumentError("write", outputPath, err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		os.Remove(tmpName)
		return NewDocumentError("write", outputPath, err)
	}
	return nil
}

// Close releases the in-memory copy. Safe to call more than once.
func (f *XFAForm) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.ctx = nil
	f.datasets = nil
	return nil
}

// FillXFA is the one-call form of the XFA pipeline: open the template,
// fill it with rec and save the result.
func FillXFA(rec *Record, opts FillOptions, logger *zap.Logger) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	form, err := OpenXFAForm(opts.TemplatePath)
	if err != nil {
		return err
	}
	defer form.Close()

	if err := form.Fill(rec, logger); err != nil {
		return err
	}
	return form.Save(opts.OutputPath)
}
