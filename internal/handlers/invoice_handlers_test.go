package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sgspadmin/internal/invoice"
	"sgspadmin/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validInvoice = `{
  "invoiceNo": "42",
  "invoiceDate": "2025-03-14",
  "receiver": {"name": "Ravi Traders", "address": "Lanka, Varanasi"},
  "consignee": {"name": "Ravi Traders", "address": "Lanka, Varanasi"},
  "items": [{"serialNo": 1, "description": "Silk Saree", "quantity": 2, "rate": 125}],
  "tax": {"cgstPercent": 2.5, "sgstPercent": 2.5},
  "totalSummary": {"totalBeforeTax": 250, "cgstAmount": 6.25, "sgstAmount": 6.25, "totalAfterTax": 262.5}
}`

// stubBuilder records the last request and returns a fixed document.
type stubBuilder struct {
	last     *models.InvoiceRequest
	err      error
	checkErr error
}

func (b *stubBuilder) Check(req *models.InvoiceRequest) error {
	return b.checkErr
}

func (b *stubBuilder) Build(req *models.InvoiceRequest) ([]byte, error) {
	b.last = req
	if b.err != nil {
		return nil, b.err
	}
	return []byte("%PDF-stub"), nil
}

func serveInvoice(t *testing.T, h *InvoiceHandlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/invoice/generate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.GenerateInvoice(c); err != nil {
		HTTPErrorHandler(err, c)
	}
	return rec
}

func TestGenerateInvoice_ReturnsPDF(t *testing.T) {
	builder := &stubBuilder{}
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), builder, nil, "", t.TempDir())

	rec := serveInvoice(t, h, validInvoice)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="invoice.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "%PDF-stub", rec.Body.String())
	require.NotNil(t, builder.last)
	assert.Equal(t, "42", builder.last.InvoiceNo)
}

func TestGenerateInvoice_AllocatesNumber(t *testing.T) {
	numbers := new(MockInvoiceNumbers)
	numbers.On("Next", mock.Anything).Return("1007", nil)
	builder := &stubBuilder{}
	h := NewInvoiceHandlers(numbers, builder, nil, "", t.TempDir())

	rec := serveInvoice(t, h, strings.Replace(validInvoice, `"invoiceNo": "42",`, "", 1))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1007", builder.last.InvoiceNo)
	numbers.AssertExpectations(t)
}

func TestGenerateInvoice_MalformedJSON(t *testing.T) {
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), &stubBuilder{}, nil, "", t.TempDir())

	rec := serveInvoice(t, h, `{"invoiceDate": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_JSON", env.Error.Code)
	assert.True(t, strings.HasPrefix(env.Error.Message, "Failed to parse JSON body: "))
}

func TestGenerateInvoice_MissingFields(t *testing.T) {
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), &stubBuilder{}, nil, "", t.TempDir())

	rec := serveInvoice(t, h, `{"invoiceDate": "2025-03-14"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_JSON", env.Error.Code)
	assert.Contains(t, env.Error.Message, "receiver")
	assert.Contains(t, env.Error.Message, "totalSummary")
}

func TestGenerateInvoice_BuildFailure(t *testing.T) {
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), &stubBuilder{err: errors.New("font missing")}, nil, "", t.TempDir())

	rec := serveInvoice(t, h, validInvoice)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.Equal(t, "Failed to generate PDF: font missing", env.Error.Message)
}

func TestGenerateInvoice_RejectedBeforeNumberAllocation(t *testing.T) {
	numbers := new(MockInvoiceNumbers)
	builder := &stubBuilder{checkErr: errors.New("malformed amount")}
	h := NewInvoiceHandlers(numbers, builder, nil, "", t.TempDir())

	rec := serveInvoice(t, h, strings.Replace(validInvoice, `"invoiceNo": "42",`, "", 1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Failed to generate PDF: malformed amount", env.Error.Message)
	numbers.AssertNotCalled(t, "Next", mock.Anything)
	assert.Nil(t, builder.last)
}

func TestGenerateInvoice_ServerSideFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "march.json"), []byte(validInvoice), 0o600))
	builder := &stubBuilder{}
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), builder, nil, "", root)

	rec := serveInvoice(t, h, "@march.json")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, builder.last)
	assert.Equal(t, "Ravi Traders", builder.last.Receiver.Name)
}

func TestGenerateInvoice_MissingFileHint(t *testing.T) {
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), &stubBuilder{}, nil, "", t.TempDir())

	rec := serveInvoice(t, h, "@invoice.json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
	assert.Contains(t, env.Error.Message, "do NOT quote the @")
	assert.Contains(t, env.Error.Message, "--data-binary @invoice.json")
	assert.Contains(t, env.Error.Message, "Server-side file 'invoice.json' not found.")
}

func TestGenerateInvoice_FileOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "invoices")
	require.NoError(t, os.Mkdir(root, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.json"), []byte(validInvoice), 0o600))
	builder := &stubBuilder{}
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), builder, nil, "", root)

	for _, ref := range []string{"@../secret.json", "@" + filepath.Join(parent, "secret.json")} {
		rec := serveInvoice(t, h, ref)

		assert.Equal(t, http.StatusBadRequest, rec.Code, ref)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "INVALID_REQUEST", env.Error.Code, ref)
		assert.Contains(t, env.Error.Message, "outside the invoice file directory", ref)
	}
	assert.Nil(t, builder.last)
}

func TestGenerateInvoice_SymlinkOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "invoices")
	require.NoError(t, os.Mkdir(root, 0o700))
	target := filepath.Join(parent, "secret.json")
	require.NoError(t, os.WriteFile(target, []byte(validInvoice), 0o600))
	if err := os.Symlink(target, filepath.Join(root, "link.json")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), &stubBuilder{}, nil, "", root)

	rec := serveInvoice(t, h, "@link.json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeEnvelope(t, rec).Error.Code)
}

func TestGenerateInvoice_BadServerSideJSON(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.json"), []byte("{"), 0o600))
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), &stubBuilder{}, nil, "", root)

	rec := serveInvoice(t, h, "@broken.json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_JSON", env.Error.Code)
	assert.Contains(t, env.Error.Message, "server-side file 'broken.json'")
}

func TestGenerateInvoice_ArchivesDocument(t *testing.T) {
	archive := new(MockMinioService)
	archive.On("Upload", mock.Anything, "invoices", "invoice-42.pdf", mock.Anything, int64(len("%PDF-stub")), "application/pdf").
		Return(errors.New("bucket unavailable"))
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), &stubBuilder{}, archive, "invoices", t.TempDir())

	rec := serveInvoice(t, h, validInvoice)

	// archive failures never fail the download
	assert.Equal(t, http.StatusOK, rec.Code)
	archive.AssertExpectations(t)
}

func TestGenerateInvoice_WithRealBuilder(t *testing.T) {
	builder := invoice.NewBuilder(invoice.DefaultIssuer(), invoice.DefaultBankDetails())
	h := NewInvoiceHandlers(new(MockInvoiceNumbers), builder, nil, "", t.TempDir())

	rec := serveInvoice(t, h, validInvoice)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}
