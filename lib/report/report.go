package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Row is one user line on a report sheet.
type Row struct {
	UserName      string
	PrimaryGroup  string
	AccountStatus string
	LastLoginDate string
}

var headerCells = []string{"User Name", "Primary Group", "Account Status", "Last Login Date"}

var columnWidths = map[string]float64{
	"A": 35,
	"B": 25,
	"C": 15,
	"D": 18,
}

// Workbook is the growing report artifact. Sheets are only ever
// appended, one per successfully processed server.
type Workbook struct {
	file *excelize.File
	path string
	// the fresh-file placeholder sheet gets renamed by the first append
	placeholder string
}

// Open opens an existing workbook at path for appending, or starts a
// new one when the file does not exist yet.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err == nil {
		file, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open existing report %q: %w", path, err)
		}
		return &Workbook{file: file, path: path}, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	file := excelize.NewFile()
	return &Workbook{
		file:        file,
		path:        path,
		placeholder: file.GetSheetName(file.GetActiveSheetIndex()),
	}, nil
}

var illegalSheetChars = strings.NewReplacer(
	`\`, "_",
	"/", "_",
	"?", "_",
	"*", "_",
	"[", "_",
	"]", "_",
	":", "_",
)

// SanitizeSheetName strips the characters the xlsx format forbids in
// sheet names and enforces the 31 character cap.
func SanitizeSheetName(name string) string {
	name = illegalSheetChars.Replace(name)
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}

const maxSheetNameLen = 31

func (w *Workbook) hasSheet(name string) bool {
	for _, existing := range w.file.GetSheetList() {
		if existing == name {
			return true
		}
	}
	return false
}

// uniqueSheetName suffixes a colliding name with a counter, shortening
// the base so the result stays within the 31 character cap. Collisions
// happen when the same host is entered twice or when distinct long
// names truncate identically.
func (w *Workbook) uniqueSheetName(name string) string {
	if !w.hasSheet(name) {
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := name
		if len(base)+len(suffix) > maxSheetNameLen {
			base = base[:maxSheetNameLen-len(suffix)]
		}
		candidate := base + suffix
		if !w.hasSheet(candidate) {
			return candidate
		}
	}
}

const loginDateFormat = "m/d/yyyy"

// AppendSheet adds a sheet holding one server's rows: bold frozen
// header, filtering enabled, fixed column widths. Login cells that
// normalized to a calendar date are stored as real dates so the
// spreadsheet can sort and filter them chronologically; sentinel text
// stays a plain string.
//
// Sheets are append-only: a name that is already taken gets a counter
// suffix instead of overwriting the existing sheet. The name actually
// used is returned.
func (w *Workbook) AppendSheet(name string, rows []Row) (string, error) {
	name = w.uniqueSheetName(SanitizeSheetName(name))

	if w.placeholder != "" {
		err := w.file.SetSheetName(w.placeholder, name)
		if err != nil {
			return "", err
		}
		w.placeholder = ""
	} else if _, err := w.file.NewSheet(name); err != nil {
		return "", err
	}

	headerStyle, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return "", err
	}
	for i, cell := range headerCells {
		ref, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", err
		}
		if err := w.file.SetCellValue(name, ref, cell); err != nil {
			return "", err
		}
	}
	if err := w.file.SetCellStyle(name, "A1", "D1", headerStyle); err != nil {
		return "", err
	}

	dateFmt := loginDateFormat
	dateStyle, err := w.file.NewStyle(&excelize.Style{
		CustomNumFmt: &dateFmt,
	})
	if err != nil {
		return "", err
	}

	for i, row := range rows {
		rowNum := i + 2
		if err := w.file.SetCellValue(name, fmt.Sprintf("A%d", rowNum), row.UserName); err != nil {
			return "", err
		}
		if err := w.file.SetCellValue(name, fmt.Sprintf("B%d", rowNum), row.PrimaryGroup); err != nil {
			return "", err
		}
		if err := w.file.SetCellValue(name, fmt.Sprintf("C%d", rowNum), row.AccountStatus); err != nil {
			return "", err
		}

		loginCell := fmt.Sprintf("D%d", rowNum)
		if date, err := time.Parse("1/2/2006", row.LastLoginDate); err == nil {
			if err := w.file.SetCellValue(name, loginCell, date); err != nil {
				return "", err
			}
			if err := w.file.SetCellStyle(name, loginCell, loginCell, dateStyle); err != nil {
				return "", err
			}
		} else if err := w.file.SetCellValue(name, loginCell, row.LastLoginDate); err != nil {
			return "", err
		}
	}

	for col, width := range columnWidths {
		if err := w.file.SetColWidth(name, col, col, width); err != nil {
			return "", err
		}
	}
	if err := w.file.AutoFilter(name, "A1:D1", nil); err != nil {
		return "", err
	}
	err = w.file.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// Save writes the workbook out. This is the only failure that is
// allowed to end a whole run.
func (w *Workbook) Save() error {
	return w.file.SaveAs(w.path)
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames lists the sheets currently in the workbook.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}
