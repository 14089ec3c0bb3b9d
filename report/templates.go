package report

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"

	"github.com/taisugar/toolkit/freebie"
)

// ErrTemplateUnavailable wraps failures to open or read a template file.
var ErrTemplateUnavailable = errors.New("template unavailable")

// TemplateSource opens a fresh copy of a freebie's purchase-order template.
// The caller closes it.
type TemplateSource interface {
	Open(fb freebie.Freebie) (*excelize.File, error)
}

// DirTemplates reads templates named after freebie.TemplateName from a
// file system, usually os.DirFS of the template directory.
type DirTemplates struct {
	fsys fs.FS
}

func NewDirTemplates(fsys fs.FS) *DirTemplates {
	return &DirTemplates{fsys: fsys}
}

func (d *DirTemplates) Open(fb freebie.Freebie) (*excelize.File, error) {
	name := fb.TemplateName()
	file, err := d.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrTemplateUnavailable, name, err)
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrTemplateUnavailable, name, err)
	}
	return f, nil
}
