package document

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// PDFInfo is what Inspect reads back from a written PDF.
type PDFInfo struct {
	Path  string
	Pages int
	Bytes int64
	Title string
}

// Inspect opens a PDF and reports its page count and title. The reader
// panics on some corrupt inputs; those come back as errors.
func Inspect(path string) (info PDFInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading %s: %v", path, r)
		}
	}()

	st, err := os.Stat(path)
	if err != nil {
		return PDFInfo{}, fmt.Errorf("inspecting %s: %w", path, err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return PDFInfo{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return PDFInfo{
		Path:  path,
		Pages: r.NumPage(),
		Bytes: st.Size(),
		Title: r.Trailer().Key("Info").Key("Title").Text(),
	}, nil
}
