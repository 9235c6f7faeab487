package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"sgspadmin/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// MinItemRows is the number of rows the goods table always shows.
const MinItemRows = 15

const (
	margin     = 36.0
	lineHeight = 11.0
	cellPad    = 5.0
	blankRowH  = 18.0
	fontFamily = "Helvetica"
)

var ErrMalformedAmount = errors.New("invoice contains a non-finite amount")

// Issuer is the business printed in the header and the signature line.
type Issuer struct {
	Name    string
	Address string
	GSTIN   string
	Phone   string
}

type BankDetails struct {
	BankName  string
	AccountNo string
	Branch    string
	IFSC      string
}

func DefaultIssuer() Issuer {
	return Issuer{
		Name:    "SHASHANK SAREE CENTER",
		Address: "N9/28 A-1, Choti Patiya, Bajardiha, Varanasi-221109",
		GSTIN:   "09GHBPP6328G1Z2",
		Phone:   "8318325253",
	}
}

func DefaultBankDetails() BankDetails {
	return BankDetails{
		BankName:  "FEDERAL BANK",
		AccountNo: "15950200009321",
		Branch:    "Mahmoorganj, Varanasi",
		IFSC:      "FDRL0001595",
	}
}

func DefaultTerms() []string {
	return []string{
		"Interest will be charged 18% P/A on unpaid balance if not paid within 15 days.",
		"All disputes subject to Varanasi Jurisdiction only.",
		"Goods once sold will not be taken back or exchanged.",
	}
}

// Builder renders invoice requests as A4 PDF documents. A Builder holds only
// static configuration and is safe for concurrent use.
type Builder struct {
	Issuer Issuer
	Bank   BankDetails
	Terms  []string
	// Compress toggles stream compression; tests turn it off to inspect text.
	Compress bool
	// GeneratedAt stamps the document creation date when set.
	GeneratedAt func() time.Time
}

func NewBuilder(issuer Issuer, bank BankDetails) *Builder {
	return &Builder{
		Issuer:   issuer,
		Bank:     bank,
		Terms:    DefaultTerms(),
		Compress: true,
	}
}

// Check reports whether req can be rendered without touching the PDF engine.
func (b *Builder) Check(req *models.InvoiceRequest) error {
	if req == nil {
		return errors.New("invoice request is nil")
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return checkAmounts(req)
}

// Build lays out req and returns the finished PDF.
func (b *Builder) Build(req *models.InvoiceRequest) ([]byte, error) {
	if err := b.Check(req); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCompression(b.Compress)
	pdf.SetTitle("Tax Invoice", true)
	pdf.SetCreator(b.Issuer.Name, true)
	if b.GeneratedAt != nil {
		pdf.SetCreationDate(b.GeneratedAt())
	}

	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetHeaderFunc(r.border)
	pdf.AddPage()

	r.header(b.Issuer, req.InvoiceDate)
	r.parties(req)
	r.items(req.Items)
	r.summary(b.Bank, req.TotalSummary)
	r.amountInWords(req)
	r.footer(b.Issuer, b.Terms)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func checkAmounts(req *models.InvoiceRequest) error {
	values := []float64{req.FreightCharge}
	for _, it := range req.Items {
		values = append(values, it.Rate, it.Amount())
	}
	s := req.TotalSummary
	values = append(values, s.TotalBeforeTax, s.CGSTAmount, s.SGSTAmount, s.IGSTAmount, s.FreightCharge, s.TotalAfterTax)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrMalformedAmount
		}
	}
	return nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type renderer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (r *renderer) contentWidth() float64 {
	w, _ := r.pdf.GetPageSize()
	left, _, right, _ := r.pdf.GetMargins()
	return w - left - right
}

func (r *renderer) border() {
	w, h := r.pdf.GetPageSize()
	r.pdf.SetLineWidth(1.5)
	r.pdf.Rect(margin, margin, w-2*margin, h-2*margin, "D")
	r.pdf.SetLineWidth(0.5)
}

func (r *renderer) font(style string, size float64) {
	r.pdf.SetFont(fontFamily, style, size)
}

func (r *renderer) centered(text, style string, size float64) {
	r.font(style, size)
	r.pdf.CellFormat(0, size+6, r.tr(text), "", 1, "C", false, 0, "")
}

func (r *renderer) header(issuer Issuer, date string) {
	r.pdf.Ln(3)
	r.centered("TAX INVOICE", "B", 10)
	r.centered(issuer.Name, "B", 16)
	r.centered(issuer.Address, "", 9)
	r.centered("GSTIN - "+issuer.GSTIN, "B", 9)
	r.centered("Mob: "+issuer.Phone, "", 9)
	r.pdf.Ln(lineHeight)

	r.font("", 9)
	r.pdf.CellFormat(0, lineHeight, r.tr("Date: "+date), "", 1, "R", false, 0, "")
	r.pdf.Ln(lineHeight)
}

// row draws one table row whose height fits the tallest cell.
func (r *renderer) row(cells []string, widths []float64, aligns []string, minHeight float64) {
	pdf := r.pdf
	lines := 1
	for i, c := range cells {
		n := len(pdf.SplitLines([]byte(r.tr(c)), widths[i]-2*cellPad))
		if n > lines {
			lines = n
		}
	}
	h := math.Max(float64(lines)*lineHeight+2*cellPad, minHeight)

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+h > pageH-bottom {
		pdf.AddPage()
	}

	x, y := pdf.GetXY()
	for i, c := range cells {
		pdf.Rect(x, y, widths[i], h, "D")
		pdf.SetXY(x+cellPad, y+cellPad)
		align := "L"
		if aligns != nil {
			align = aligns[i]
		}
		pdf.MultiCell(widths[i]-2*cellPad, lineHeight, r.tr(c), "", align, false)
		x += widths[i]
	}
	left, _, _, _ := pdf.GetMargins()
	pdf.SetXY(left, y+h)
}

func (r *renderer) shadedRow(cells []string, widths []float64, fill [3]int, text [3]int, align string) {
	pdf := r.pdf
	pdf.SetFillColor(fill[0], fill[1], fill[2])
	pdf.SetTextColor(text[0], text[1], text[2])
	r.font("B", 9)
	for i, c := range cells {
		pdf.CellFormat(widths[i], lineHeight+2*cellPad, r.tr(c), "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func (r *renderer) parties(req *models.InvoiceRequest) {
	half := r.contentWidth() / 2
	widths := []float64{half, half}
	rc, cs := req.Receiver, req.Consignee

	r.shadedRow([]string{"DETAILS OF RECEIVER (BILLED TO)", "DETAILS OF CONSIGNEE (SHIPPED TO)"},
		widths, [3]int{220, 220, 220}, [3]int{0, 0, 0}, "L")

	r.font("", 9)
	field := func(label, value string) string { return label + " : " + value }
	rows := [][2]string{
		{field("Name", rc.Name), field("Name", cs.Name)},
		{field("Address", rc.Address), field("Address", cs.Address)},
		{field("Place of Supply", deref(rc.PlaceOfSupply)), field("Place of Supply", deref(cs.PlaceOfSupply))},
		{field("Transport Mode", deref(rc.TransportMode)), field("Transport Mode", deref(cs.TransportMode))},
		{field("State", deref(rc.State)), field("State / Code", deref(cs.State)+" / "+deref(cs.Code))},
		{field("GSTIN", deref(rc.GSTIN)), field("Invoice No", req.InvoiceNo)},
	}
	for _, row := range rows {
		r.row(row[:], widths, nil, 0)
	}
	r.pdf.Ln(lineHeight)
}

func (r *renderer) items(items []models.InvoiceItem) {
	total := r.contentWidth()
	ratios := []float64{5, 35, 10, 10, 10, 15, 15}
	widths := make([]float64, len(ratios))
	for i, p := range ratios {
		widths[i] = total * p / 100
	}

	r.shadedRow([]string{"S.No", "Description of Goods", "HSN Code", "Quant.", "Rate", "Rs.", "Amount"},
		widths, [3]int{40, 40, 40}, [3]int{255, 255, 255}, "C")

	r.font("", 9)
	aligns := []string{"L", "L", "L", "R", "R", "L", "R"}
	for _, it := range items {
		r.row([]string{
			fmt.Sprintf("%d", it.SerialNo),
			it.Description,
			deref(it.HSNCode),
			fmt.Sprintf("%d", it.Quantity),
			money(it.Rate),
			"",
			money(it.Amount()),
		}, widths, aligns, 0)
	}

	blank := make([]string, len(widths))
	for i := len(items); i < MinItemRows; i++ {
		r.row(blank, widths, nil, blankRowH)
	}
	r.pdf.Ln(lineHeight)
}

func (r *renderer) summary(bank BankDetails, s *models.InvoiceTotalSummary) {
	pdf := r.pdf
	total := r.contentWidth()
	bankW := total * 0.55
	labelW := (total - bankW) * 0.65
	valueW := total - bankW - labelW

	rows := [][2]string{
		{"Total Amount Before Tax", money(s.TotalBeforeTax)},
		{"Add: CGST", money(s.CGSTAmount)},
		{"Add: SGST", money(s.SGSTAmount)},
		{"Add: IGST", money(s.IGSTAmount)},
		{"Freight Charge", money(s.FreightCharge)},
		{"Total Amount After Tax", money(s.TotalAfterTax)},
	}
	rowH := lineHeight + 2*cellPad
	blockH := rowH * float64(len(rows))

	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+blockH > pageH-margin {
		pdf.AddPage()
	}

	r.font("", 9)
	x, y := pdf.GetXY()
	pdf.Rect(x, y, bankW, blockH, "D")
	pdf.SetXY(x+cellPad, y+cellPad)
	bankText := "Bank Details:\n" +
		"Bank Name: " + bank.BankName + "\n" +
		"A/c No: " + bank.AccountNo + "\n" +
		"Branch: " + bank.Branch + "\n" +
		"IFSC Code: " + bank.IFSC
	pdf.MultiCell(bankW-2*cellPad, lineHeight, r.tr(bankText), "", "L", false)

	for i, row := range rows {
		pdf.SetXY(x+bankW, y+float64(i)*rowH)
		pdf.CellFormat(labelW, rowH, r.tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, rowH, row[1], "1", 0, "R", false, 0, "")
	}
	pdf.SetXY(x, y+blockH)
	pdf.Ln(lineHeight)
}

func (r *renderer) amountInWords(req *models.InvoiceRequest) {
	words := AmountInWords(req.TotalSummary.TotalAfterTax)
	if req.AmountInWords != nil && *req.AmountInWords != "" {
		words = *req.AmountInWords
	}
	r.font("B", 9)
	r.pdf.MultiCell(0, lineHeight, r.tr("Amount in Words: "+words), "", "L", false)
	r.pdf.Ln(lineHeight)
}

func (r *renderer) footer(issuer Issuer, terms []string) {
	pdf := r.pdf
	total := r.contentWidth()
	leftW := total * 0.7

	text := ""
	for _, t := range terms {
		text += "• " + t + "\n"
	}
	text += "\nFor: " + issuer.Name

	x, y := pdf.GetXY()
	r.font("", 8)
	pdf.MultiCell(leftW, lineHeight, r.tr(text), "", "L", false)
	endY := pdf.GetY()

	pdf.SetXY(x+leftW, y)
	r.font("", 9)
	pdf.CellFormat(total-leftW, lineHeight, r.tr("Authorised Signatory"), "", 0, "R", false, 0, "")
	pdf.SetXY(x, endY)
}
