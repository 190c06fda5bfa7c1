// Package export renders analysis results as CSV and XLSX reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"privlens/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a requested format. Empty selects CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the section report header row.
var columns = []string{
	"Priority",
	"Section ID",
	"Title",
	"Risk Level",
	"Importance",
	"Sensitivity",
	"Privacy Impact",
	"Data Sharing Risk",
	"User Control",
	"Transparency",
	"Data Types",
	"User Rights",
	"Legal Frameworks",
	"Key Concerns",
	"Mandatory Practices",
	"Component",
	"Quiz Status",
	"Degraded Analyses",
	"Word Count",
	"Summary",
}

// Columns returns a copy of the report header row.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// Writer wraps csv.Writer for exporting section reports.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteSections writes one row per section.
func (w *Writer) WriteSections(sections []domain.SectionResult) error {
	for i := range sections {
		if err := w.csv.Write(sectionToRow(&sections[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes the BOM, header and all sections of res to out.
func WriteCSV(out io.Writer, res *domain.DocumentResult) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteSections(res.Sections); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func sectionToRow(s *domain.SectionResult) []string {
	imp := s.Impact
	return []string{
		strconv.Itoa(s.Priority),
		s.Chunk.ID,
		s.Title,
		string(s.RiskLevel),
		strconv.FormatFloat(s.ImportanceScore, 'f', 4, 64),
		formatScore(imp.SensitivityScore),
		formatScore(imp.PrivacyImpact),
		formatScore(imp.DataSharingRisk),
		formatScore(imp.UserControl),
		formatScore(imp.TransparencyScore),
		joinStrings(s.DataTypes),
		joinStrings(s.UserRights),
		joinStrings(s.LegalFrameworks),
		strings.Join(imp.KeyConcerns, "; "),
		strings.Join(s.Structure.MandatoryPractices, "; "),
		string(s.ComponentType),
		string(s.QuizStatus),
		joinStrings(s.DegradedKinds),
		strconv.Itoa(s.WordCount),
		s.Summary,
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func joinStrings[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a company name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "policy"
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_company}_privacy_{YYYY-MM-DD}.{ext}
func BuildFilename(company string, created time.Time, f Format) string {
	return fmt.Sprintf("%s_privacy_%s.%s", SanitizeFilename(company), created.Format("2006-01-02"), f)
}
