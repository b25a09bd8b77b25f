package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"wmsconsole/internal/common"
	"wmsconsole/internal/models"
	"wmsconsole/internal/render"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandlers handles the inventory view and its product actions
type InventoryHandlers struct {
	responder
	inventoryService services.InventoryService
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(inventoryService services.InventoryService, sessions *session.Manager, logger logrus.FieldLogger) *InventoryHandlers {
	return &InventoryHandlers{
		responder:        responder{sessions: sessions, logger: logger.WithField("handler", "inventory")},
		inventoryService: inventoryService,
	}
}

type inventoryPage struct {
	View   *services.InventoryView
	Form   models.ProductForm
	EditID int
}

type logsPage struct {
	ProductID int
	Entries   []models.AuditLogEntry
}

// filterFrom reads the list filter every inventory URL carries in its query
func filterFrom(c echo.Context) models.ProductFilter {
	archived, _ := strconv.ParseBool(c.QueryParam("archived"))
	return models.ProductFilter{
		Search:   c.QueryParam("search"),
		Archived: archived,
		PageSize: models.DefaultPageSize,
	}
}

func inventoryURL(filter models.ProductFilter) string {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Archived {
		q.Set("archived", "true")
	}
	if len(q) == 0 {
		return "/inventory"
	}
	return "/inventory?" + q.Encode()
}

// show renders the inventory page with the given view
func (h *InventoryHandlers) show(c echo.Context, status int, view *services.InventoryView, form models.ProductForm, editID int, errMsg string, fields map[string][]string) error {
	return renderPage(c, status, "inventory", render.Page{
		Title:       "Inventory",
		Error:       errMsg,
		FieldErrors: fields,
		Data:        inventoryPage{View: view, Form: form, EditID: editID},
	})
}

// redisplay lists the products again and shows the form with its input kept
func (h *InventoryHandlers) redisplay(c echo.Context, status int, filter models.ProductFilter, form models.ProductForm, editID int, errMsg string, fields map[string][]string) error {
	view, err := h.inventoryService.List(c.Request().Context(), sessionOf(c), filter)
	if err != nil {
		if handled, result := h.intercept(c, err, inventoryURL(filter)); handled {
			return result
		}
		view = &services.InventoryView{Filter: filter}
	}
	return h.show(c, status, view, form, editID, errMsg, fields)
}

// fail presents a failed product action
func (h *InventoryHandlers) fail(c echo.Context, err error, filter models.ProductFilter, form models.ProductForm, editID int) error {
	if handled, result := h.intercept(c, err, inventoryURL(filter)); handled {
		return result
	}
	return h.redisplay(c, statusFor(err), filter, form, editID, h.message(c, err), fieldErrors(err))
}

// List handles GET /inventory
func (h *InventoryHandlers) List(c echo.Context) error {
	filter := filterFrom(c)
	view, err := h.inventoryService.List(c.Request().Context(), sessionOf(c), filter)
	if err != nil {
		if handled, result := h.intercept(c, err, "/home"); handled {
			return result
		}
		return h.show(c, statusFor(err), &services.InventoryView{Filter: filter}, models.ProductForm{}, 0, h.message(c, err), nil)
	}

	form, editID := models.ProductForm{}, 0
	if id, err := strconv.Atoi(c.QueryParam("edit")); err == nil {
		if p := models.FindProductByID(view.Products, id); p != nil {
			form, editID = models.FormFromProduct(*p), id
		}
	}
	return h.show(c, http.StatusOK, view, form, editID, "", nil)
}

func bindProductForm(c echo.Context) (models.ProductForm, error) {
	var form models.ProductForm
	if err := c.Bind(&form); err != nil {
		return form, echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	return form, nil
}

// Create handles POST /inventory
func (h *InventoryHandlers) Create(c echo.Context) error {
	filter := filterFrom(c)
	form, err := bindProductForm(c)
	if err != nil {
		return err
	}
	if fields := common.ValidateStruct(form); len(fields) > 0 {
		return h.redisplay(c, http.StatusUnprocessableEntity, filter, form, 0, msgInvalidForm, fields)
	}
	patch, err := form.Patch()
	if err != nil {
		return h.redisplay(c, http.StatusUnprocessableEntity, filter, form, 0, err.Error(), nil)
	}

	view, err := h.inventoryService.Create(c.Request().Context(), sessionOf(c), filter, patch)
	if err != nil {
		return h.fail(c, err, filter, form, 0)
	}
	return h.show(c, http.StatusOK, view, models.ProductForm{}, 0, "", nil)
}

// Update handles POST /inventory/:id
func (h *InventoryHandlers) Update(c echo.Context) error {
	filter := filterFrom(c)
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}
	form, err := bindProductForm(c)
	if err != nil {
		return err
	}
	if fields := common.ValidateStruct(form); len(fields) > 0 {
		return h.redisplay(c, http.StatusUnprocessableEntity, filter, form, id, msgInvalidForm, fields)
	}
	patch, err := form.Patch()
	if err != nil {
		return h.redisplay(c, http.StatusUnprocessableEntity, filter, form, id, err.Error(), nil)
	}

	view, err := h.inventoryService.Update(c.Request().Context(), sessionOf(c), filter, id, patch)
	if err != nil {
		return h.fail(c, err, filter, form, id)
	}
	return h.show(c, http.StatusOK, view, models.ProductForm{}, 0, "", nil)
}

// SetArchived handles POST /inventory/:id/archive
func (h *InventoryHandlers) SetArchived(c echo.Context) error {
	filter := filterFrom(c)
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}
	archive, _ := strconv.ParseBool(c.FormValue("archive"))

	view, err := h.inventoryService.SetArchived(c.Request().Context(), sessionOf(c), filter, id, archive)
	if err != nil {
		return h.fail(c, err, filter, models.ProductForm{}, 0)
	}
	return h.show(c, http.StatusOK, view, models.ProductForm{}, 0, "", nil)
}

// Delete handles POST /inventory/:id/delete. Without confirm the browser is
// sent back to the list and nothing is called.
func (h *InventoryHandlers) Delete(c echo.Context) error {
	filter := filterFrom(c)
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.inventoryService.Delete(c.Request().Context(), sessionOf(c), filter, id, common.Confirmed(c))
	if err != nil {
		return h.fail(c, err, filter, models.ProductForm{}, 0)
	}
	return h.show(c, http.StatusOK, view, models.ProductForm{}, 0, "", nil)
}

// Import handles POST /inventory/import
func (h *InventoryHandlers) Import(c echo.Context) error {
	filter := filterFrom(c)
	upload, err := common.FormUpload(c, "file")
	if err != nil {
		return err
	}
	if closer, ok := uploadCloser(upload); ok {
		defer closer.Close()
	}

	view, err := h.inventoryService.Import(c.Request().Context(), sessionOf(c), filter, upload)
	if err != nil {
		return h.fail(c, err, filter, models.ProductForm{}, 0)
	}
	return h.show(c, http.StatusOK, view, models.ProductForm{}, 0, "", nil)
}

// AuditLog handles GET /inventory/:id/logs
func (h *InventoryHandlers) AuditLog(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.inventoryService.AuditLog(c.Request().Context(), sessionOf(c), id)
	if err != nil {
		if handled, result := h.intercept(c, err, "/inventory"); handled {
			return result
		}
		return renderPage(c, statusFor(err), "logs", render.Page{Title: "Audit log", Error: h.message(c, err), Data: logsPage{ProductID: id}})
	}
	return renderPage(c, http.StatusOK, "logs", render.Page{Title: "Audit log", Data: logsPage{ProductID: id, Entries: entries}})
}

// Barcode handles GET /inventory/barcode/:sku
func (h *InventoryHandlers) Barcode(c echo.Context) error {
	img, err := h.inventoryService.Barcode(c.Request().Context(), sessionOf(c), c.Param("sku"))
	if err != nil {
		return h.imageError(c, err)
	}
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}

// QRCode handles GET /inventory/qrcode/:sku
func (h *InventoryHandlers) QRCode(c echo.Context) error {
	img, err := h.inventoryService.QRCode(c.Request().Context(), sessionOf(c), c.Param("sku"))
	if err != nil {
		return h.imageError(c, err)
	}
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}

func (h *InventoryHandlers) imageError(c echo.Context, err error) error {
	if handled, result := h.intercept(c, err, "/inventory"); handled {
		return result
	}
	return echo.NewHTTPError(statusFor(err), h.message(c, err))
}

// Export handles GET /inventory/export.xlsx with the list's current filter
func (h *InventoryHandlers) Export(c echo.Context) error {
	data, err := h.inventoryService.Export(c.Request().Context(), sessionOf(c), filterFrom(c))
	if err != nil {
		if handled, result := h.intercept(c, err, "/inventory"); handled {
			return result
		}
		return echo.NewHTTPError(statusFor(err), h.message(c, err))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="inventory.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
