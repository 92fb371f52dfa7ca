package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateCertificate(data CertificateData) ([]byte, error)
}

// CertificateGenerator — реализация на gofpdf.
type CertificateGenerator struct {
	FontPath string // путь до TTF с кириллицей, например "assets/fonts/DejaVuSans.ttf"
	fontName string
}

type CertificateData struct {
	InternName   string
	Position     string
	Department   string
	Period       string
	OverallScore float64
	IssuedAt     time.Time
}

func NewCertificateGenerator(fontPath string) *CertificateGenerator {
	return &CertificateGenerator{
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

// GenerateCertificate — сертификат о прохождении стажировки, возвращает PDF
// как байты (дальше его кладут в объектное хранилище).
func (g *CertificateGenerator) GenerateCertificate(data CertificateData) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Certificate — %s", data.InternName), true)
	pdf.SetAuthor("Office Hub", false)
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(false, 0)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	// рамка
	w, h := pdf.GetPageSize()
	pdf.SetLineWidth(1.2)
	pdf.Rect(12, 12, w-24, h-24, "D")
	pdf.SetLineWidth(0.3)
	pdf.Rect(15, 15, w-30, h-30, "D")

	pdf.Ln(18)
	pdf.SetFont(g.fontName, "B", 30)
	pdf.CellFormat(0, 14, "СЕРТИФИКАТ", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 13)
	pdf.CellFormat(0, 8, "о прохождении стажировки", "", 1, "C", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont(g.fontName, "", 12)
	pdf.CellFormat(0, 7, "Настоящим подтверждается, что", "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "B", 22)
	pdf.CellFormat(0, 12, data.InternName, "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 12)
	line := fmt.Sprintf("успешно прошёл(ла) стажировку по направлению «%s»", data.Position)
	if data.Position == "" {
		line = "успешно прошёл(ла) стажировку"
	}
	pdf.CellFormat(0, 7, line, "", 1, "C", false, 0, "")
	if data.Department != "" {
		pdf.CellFormat(0, 7, fmt.Sprintf("в отделе «%s»", data.Department), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 7, fmt.Sprintf("Период: %s", data.Period), "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("Итоговая оценка: %.1f / 5.0", data.OverallScore), "", 1, "C", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Дата выдачи: %s", data.IssuedAt.Format("02.01.2006")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("certificate render: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *CertificateGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	// встроенные шрифты gofpdf не умеют кириллицу
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}
