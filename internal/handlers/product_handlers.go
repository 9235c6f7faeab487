package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"sgspadmin/internal/common"
	"sgspadmin/internal/models"
	"sgspadmin/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ProductHandlers handles HTTP requests for products
type ProductHandlers struct {
	productService services.ProductService
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// ListProducts handles GET /products?page&size&status&categoryId&color&search
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	var (
		filter     models.ProductFilter
		categoryID string
	)
	err := echo.QueryParamsBinder(c).
		Int("page", &filter.Page).
		Int("size", &filter.Size).
		String("status", &filter.Status).
		String("categoryId", &categoryID).
		String("color", &filter.Color).
		String("search", &filter.Search).
		BindError()
	if err != nil {
		return common.BadRequest(common.CodeInvalidRequest, "Invalid query parameters")
	}
	if categoryID != "" {
		id, err := common.ValidateUUID(categoryID, "categoryId")
		if err != nil {
			return common.BadRequest(common.CodeInvalidRequest, err.Error())
		}
		filter.CategoryID = &id
	}

	page, err := h.productService.List(c.Request().Context(), filter)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, page)
}

func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req models.Product
	if err := bindBody(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Create(c.Request().Context(), &req)
	if err != nil {
		return toAppError(err)
	}
	return common.SendCreated(c, product)
}

func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, product)
}

// UpdateProduct merges the non-null fields of the body into the product
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var patch models.ProductPatch
	if err := bindBody(c, &patch); err != nil {
		return err
	}

	product, err := h.productService.Update(c.Request().Context(), id, &patch)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, product)
}

// DeleteProduct archives the product
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.productService.Archive(c.Request().Context(), id); err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, nil)
}

func (h *ProductHandlers) PublishProduct(c echo.Context) error {
	return h.setPublished(c, true)
}

func (h *ProductHandlers) UnpublishProduct(c echo.Context) error {
	return h.setPublished(c, false)
}

func (h *ProductHandlers) setPublished(c echo.Context, published bool) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	status, err := h.productService.SetPublished(c.Request().Context(), id, published)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, map[string]interface{}{"id": id, "status": status})
}

func (h *ProductHandlers) UpdatePricing(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var patch models.Pricing
	if err := bindBody(c, &patch); err != nil {
		return err
	}

	pricing, err := h.productService.UpdatePricing(c.Request().Context(), id, &patch)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, pricing)
}

func (h *ProductHandlers) UpdateInventory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var patch models.Inventory
	if err := bindBody(c, &patch); err != nil {
		return err
	}

	inventory, err := h.productService.UpdateInventory(c.Request().Context(), id, &patch)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, inventory)
}

// UploadImages accepts multipart files under "files" or "files[]"
func (h *ProductHandlers) UploadImages(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return common.BadRequest(common.CodeInvalidRequest, "Expected multipart form data")
	}
	headers := append([]*multipart.FileHeader{}, form.File["files"]...)
	headers = append(headers, form.File["files[]"]...)
	if len(headers) == 0 {
		return common.BadRequest(common.CodeInvalidRequest, "No files uploaded")
	}

	uploads := make([]services.ImageUpload, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	for _, fh := range headers {
		if fh.Size > maxImageSize {
			return common.BadRequest(common.CodeInvalidRequest,
				fmt.Sprintf("File %q exceeds the maximum size of 5MB", fh.Filename))
		}
		src, contentType, err := openImage(fh)
		if err != nil {
			return err
		}
		closers = append(closers, src)
		uploads = append(uploads, services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Reader:      src,
		})
	}

	images, err := h.productService.UploadImages(c.Request().Context(), id, uploads)
	if err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, images)
}

// openImage opens an uploaded part and sniffs its content type.
func openImage(fh *multipart.FileHeader) (multipart.File, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", common.Internal("Failed to open uploaded file", err)
	}

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		src.Close()
		return nil, "", common.Internal("Failed to read uploaded file", err)
	}
	contentType := http.DetectContentType(head[:n])
	if !allowedImageTypes[contentType] {
		src.Close()
		return nil, "", common.BadRequest(common.CodeInvalidRequest,
			"Invalid file type. Only JPEG, PNG, GIF, and WebP images are allowed")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		src.Close()
		return nil, "", common.Internal("Failed to rewind uploaded file", err)
	}
	return src, contentType, nil
}

// ServeImage streams a stored product image
func (h *ProductHandlers) ServeImage(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	imageID := strings.TrimSpace(c.Param("imageId"))
	if _, err := uuid.Parse(imageID); err != nil {
		return toAppError(services.ErrImageNotFound)
	}

	body, contentType, err := h.productService.OpenImage(c.Request().Context(), id, imageID)
	if err != nil {
		return toAppError(err)
	}
	defer func() {
		if err := body.Close(); err != nil {
			log.Printf("WARN: closing image stream: %v", err)
		}
	}()

	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, body)
}

func (h *ProductHandlers) DeleteImage(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.productService.DeleteImage(c.Request().Context(), id, c.Param("imageId")); err != nil {
		return toAppError(err)
	}
	return common.SendSuccess(c, nil)
}
