package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"sgspadmin/internal/common"
	"sgspadmin/internal/models"
	"sgspadmin/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	maxInvoiceBody = 1 << 20
	pdfFilename    = "invoice.pdf"
)

// DocumentBuilder renders an invoice request as a PDF.
type DocumentBuilder interface {
	Check(req *models.InvoiceRequest) error
	Build(req *models.InvoiceRequest) ([]byte, error)
}

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	numbers       services.InvoiceNumberService
	builder       DocumentBuilder
	archive       services.MinioService
	archiveBucket string
	fileRoot      string
}

// NewInvoiceHandlers creates the invoice handlers. archive may be nil, and
// an empty archiveBucket disables archiving.
func NewInvoiceHandlers(numbers services.InvoiceNumberService, builder DocumentBuilder,
	archive services.MinioService, archiveBucket, fileRoot string) *InvoiceHandlers {
	return &InvoiceHandlers{
		numbers:       numbers,
		builder:       builder,
		archive:       archive,
		archiveBucket: archiveBucket,
		fileRoot:      fileRoot,
	}
}

// GenerateInvoice handles POST /api/invoice/generate. The body is either the
// invoice JSON or "@<file>" naming a JSON file under the invoice file root.
func (h *InvoiceHandlers) GenerateInvoice(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxInvoiceBody))
	if err != nil {
		return common.BadRequest(common.CodeInvalidRequest, "Failed to read request body")
	}

	req, appErr := h.parseRequest(strings.TrimSpace(string(body)))
	if appErr != nil {
		return appErr
	}

	if err := h.builder.Check(req); err != nil {
		return common.Internal("Failed to generate PDF: "+err.Error(), err)
	}

	// Numbers are allocated only for requests that passed Check; a render
	// failure past this point still consumes one.
	ctx := c.Request().Context()
	if strings.TrimSpace(req.InvoiceNo) == "" {
		no, err := h.numbers.Next(ctx)
		if err != nil {
			return common.Internal("Failed to allocate invoice number", err)
		}
		req.InvoiceNo = no
	}

	pdf, err := h.builder.Build(req)
	if err != nil {
		return common.Internal("Failed to generate PDF: "+err.Error(), err)
	}

	h.archivePDF(c, req.InvoiceNo, pdf)

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", pdfFilename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

func (h *InvoiceHandlers) parseRequest(body string) (*models.InvoiceRequest, *common.AppError) {
	if strings.HasPrefix(body, "@") {
		return h.parseFileReference(body)
	}

	var req models.InvoiceRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return nil, common.BadRequest(common.CodeInvalidJSON, "Failed to parse JSON body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return nil, common.BadRequest(common.CodeInvalidJSON, "Failed to parse JSON body: "+err.Error())
	}
	return &req, nil
}

func (h *InvoiceHandlers) parseFileReference(body string) (*models.InvoiceRequest, *common.AppError) {
	ref := strings.TrimSpace(strings.TrimPrefix(body, "@"))

	path, err := resolveWithin(h.fileRoot, ref)
	if err != nil {
		return nil, common.BadRequest(common.CodeInvalidRequest,
			fmt.Sprintf("Server-side file '%s' is outside the invoice file directory", ref))
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.BadRequest(common.CodeInvalidRequest, curlHint(body, ref))
	}
	if err != nil {
		return nil, common.BadRequest(common.CodeInvalidRequest,
			fmt.Sprintf("Failed to read server-side file '%s': %v", ref, err))
	}

	var req models.InvoiceRequest
	if err := json.Unmarshal(content, &req); err != nil {
		return nil, common.BadRequest(common.CodeInvalidJSON,
			fmt.Sprintf("Failed to parse JSON from server-side file '%s': %v", ref, err))
	}
	if err := req.Validate(); err != nil {
		return nil, common.BadRequest(common.CodeInvalidJSON,
			fmt.Sprintf("Failed to parse JSON from server-side file '%s': %v", ref, err))
	}
	return &req, nil
}

// resolveWithin joins ref onto root and refuses paths that leave root,
// including through symlinks.
func resolveWithin(root, ref string) (string, error) {
	if ref == "" {
		return "", errors.New("empty file reference")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	candidate := ref
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(absRoot, ref)
	}
	candidate = filepath.Clean(candidate)
	if !within(absRoot, candidate) {
		return "", fmt.Errorf("%s escapes %s", ref, absRoot)
	}

	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		realRoot, rootErr := filepath.EvalSymlinks(absRoot)
		if rootErr != nil {
			realRoot = absRoot
		}
		if !within(realRoot, resolved) {
			return "", fmt.Errorf("%s escapes %s", ref, absRoot)
		}
		candidate = resolved
	}
	return candidate, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func curlHint(body, ref string) string {
	return "Request body looks like a client-side file reference ('" + body + "'). " +
		"When using curl to send a local file, do NOT quote the @. Example:\n\n" +
		"  curl -X POST http://localhost:8080/api/invoice/generate \\\n" +
		"    -H 'Content-Type: application/json' --data-binary @invoice.json -o invoice.pdf\n\n" +
		"You sent the literal string starting with '@' so the server couldn't read JSON. " +
		"Server-side file '" + ref + "' not found."
}

// archivePDF copies the document to object storage. Failures are logged only.
func (h *InvoiceHandlers) archivePDF(c echo.Context, invoiceNo string, pdf []byte) {
	if h.archive == nil || h.archiveBucket == "" {
		return
	}
	object := "invoice-" + invoiceNo + ".pdf"
	err := h.archive.Upload(c.Request().Context(), h.archiveBucket, object, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf")
	if err != nil {
		log.Printf("WARN: failed to archive %s: %v", object, err)
	}
}
