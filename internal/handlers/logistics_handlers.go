package handlers

import (
	"net/http"
	"strconv"

	"wmsconsole/internal/common"
	"wmsconsole/internal/models"
	"wmsconsole/internal/render"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// LogisticsHandlers serves one record kind (inbound or outbound). T is the
// record as listed and F the multipart form posted for it.
type LogisticsHandlers[T any, F models.MultipartInput] struct {
	responder
	logisticsService services.LogisticsService[T]
	page             string
	title            string
	recordID         func(T) int
	formFrom         func(T) F
	attach           func(*F, *models.Upload)
}

type logisticsPage[T any, F any] struct {
	Records  []T
	Products []models.Product
	Form     F
	EditID   int
	Scanned  string
	Notice   string
}

// NewInboundHandlers creates the handlers of the inbound view
func NewInboundHandlers(logisticsService services.LogisticsService[models.InboundRecord], sessions *session.Manager, logger logrus.FieldLogger) *LogisticsHandlers[models.InboundRecord, models.InboundInput] {
	return &LogisticsHandlers[models.InboundRecord, models.InboundInput]{
		responder:        responder{sessions: sessions, logger: logger.WithField("handler", "inbound")},
		logisticsService: logisticsService,
		page:             "inbound",
		title:            "Inbound",
		recordID:         func(r models.InboundRecord) int { return r.ID },
		formFrom: func(r models.InboundRecord) models.InboundInput {
			return models.InboundInput{
				Product:          strconv.Itoa(r.Product),
				Supplier:         r.Supplier,
				Quantity:         strconv.Itoa(r.Quantity),
				InvoiceReference: r.InvoiceReference,
				ReceivedDate:     r.ReceivedDate,
			}
		},
		attach: func(in *models.InboundInput, u *models.Upload) { in.Attachment = u },
	}
}

// NewOutboundHandlers creates the handlers of the outbound view
func NewOutboundHandlers(logisticsService services.LogisticsService[models.OutboundRecord], sessions *session.Manager, logger logrus.FieldLogger) *LogisticsHandlers[models.OutboundRecord, models.OutboundInput] {
	return &LogisticsHandlers[models.OutboundRecord, models.OutboundInput]{
		responder:        responder{sessions: sessions, logger: logger.WithField("handler", "outbound")},
		logisticsService: logisticsService,
		page:             "outbound",
		title:            "Outbound",
		recordID:         func(r models.OutboundRecord) int { return r.ID },
		formFrom: func(r models.OutboundRecord) models.OutboundInput {
			return models.OutboundInput{
				Product:      strconv.Itoa(r.Product),
				Customer:     r.Customer,
				Quantity:     strconv.Itoa(r.Quantity),
				SOReference:  r.SOReference,
				DispatchDate: r.DispatchDate,
			}
		},
		attach: func(in *models.OutboundInput, u *models.Upload) { in.Attachment = u },
	}
}

func (h *LogisticsHandlers[T, F]) back() string { return "/" + h.page }

func (h *LogisticsHandlers[T, F]) show(c echo.Context, status int, data logisticsPage[T, F], errMsg string, fields map[string][]string) error {
	return renderPage(c, status, h.page, render.Page{
		Title:       h.title,
		Error:       errMsg,
		FieldErrors: fields,
		Data:        data,
	})
}

// redisplay loads the records and product options again and shows the form
// with its input kept
func (h *LogisticsHandlers[T, F]) redisplay(c echo.Context, status int, form F, editID int, errMsg string, fields map[string][]string) error {
	data := logisticsPage[T, F]{Form: form, EditID: editID}
	view, err := h.logisticsService.List(c.Request().Context(), sessionOf(c))
	if err != nil {
		if handled, result := h.intercept(c, err, h.back()); handled {
			return result
		}
	} else {
		data.Records, data.Products = view.Records, view.Products
	}
	return h.show(c, status, data, errMsg, fields)
}

func (h *LogisticsHandlers[T, F]) fail(c echo.Context, err error, form F, editID int) error {
	if handled, result := h.intercept(c, err, h.back()); handled {
		return result
	}
	return h.redisplay(c, statusFor(err), form, editID, h.message(c, err), fieldErrors(err))
}

// succeed shows the re-listed records next to freshly loaded product options
func (h *LogisticsHandlers[T, F]) succeed(c echo.Context, view *services.LogisticsView[T]) error {
	data := logisticsPage[T, F]{Records: view.Records, Notice: view.Notice}
	products, err := h.logisticsService.ProductOptions(c.Request().Context(), sessionOf(c))
	if err != nil {
		if handled, result := h.intercept(c, err, h.back()); handled {
			return result
		}
		return h.show(c, http.StatusOK, data, h.message(c, err), nil)
	}
	data.Products = products
	return h.show(c, http.StatusOK, data, "", nil)
}

// List handles GET. ?sku= selects the scanned product, ?edit= loads a record
// into the form.
func (h *LogisticsHandlers[T, F]) List(c echo.Context) error {
	view, err := h.logisticsService.List(c.Request().Context(), sessionOf(c))
	if err != nil {
		if handled, result := h.intercept(c, err, "/home"); handled {
			return result
		}
		return h.show(c, statusFor(err), logisticsPage[T, F]{}, h.message(c, err), nil)
	}

	data := logisticsPage[T, F]{Records: view.Records, Products: view.Products}
	if id, err := strconv.Atoi(c.QueryParam("edit")); err == nil {
		for _, r := range view.Records {
			if h.recordID(r) == id {
				data.Form, data.EditID = h.formFrom(r), id
				break
			}
		}
	}

	if sku := c.QueryParam("sku"); sku != "" {
		data.Scanned = sku
		product, err := services.MatchSKU(view.Products, sku)
		if err != nil {
			return h.show(c, statusFor(err), data, h.message(c, err), nil)
		}
		h.selectProduct(&data.Form, product.ID)
	}
	return h.show(c, http.StatusOK, data, "", nil)
}

// selectProduct sets the product field of the form
func (h *LogisticsHandlers[T, F]) selectProduct(form *F, productID int) {
	switch f := any(form).(type) {
	case *models.InboundInput:
		f.Product = strconv.Itoa(productID)
	case *models.OutboundInput:
		f.Product = strconv.Itoa(productID)
	}
}

// bind reads the posted fields and the optional attachment
func (h *LogisticsHandlers[T, F]) bind(c echo.Context) (F, error) {
	var form F
	if err := c.Bind(&form); err != nil {
		return form, echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	upload, err := common.FormUpload(c, "attachment")
	if err != nil {
		return form, err
	}
	h.attach(&form, upload)
	return form, nil
}

// Create handles POST /<kind>
func (h *LogisticsHandlers[T, F]) Create(c echo.Context) error {
	form, err := h.bind(c)
	if err != nil {
		return err
	}
	if closer, ok := uploadCloser(form.File()); ok {
		defer closer.Close()
	}
	if fields := common.ValidateStruct(form); len(fields) > 0 {
		return h.redisplay(c, http.StatusUnprocessableEntity, form, 0, msgInvalidForm, fields)
	}

	view, err := h.logisticsService.Create(c.Request().Context(), sessionOf(c), form)
	if err != nil {
		return h.fail(c, err, form, 0)
	}
	return h.succeed(c, view)
}

// Update handles POST /<kind>/:id. Blank fields are left unchanged.
func (h *LogisticsHandlers[T, F]) Update(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}
	form, err := h.bind(c)
	if err != nil {
		return err
	}
	if closer, ok := uploadCloser(form.File()); ok {
		defer closer.Close()
	}
	if fields := common.ValidatePresent(form); len(fields) > 0 {
		return h.redisplay(c, http.StatusUnprocessableEntity, form, id, msgInvalidForm, fields)
	}

	view, err := h.logisticsService.Update(c.Request().Context(), sessionOf(c), id, form)
	if err != nil {
		return h.fail(c, err, form, id)
	}
	return h.succeed(c, view)
}

// Delete handles POST /<kind>/:id/delete
func (h *LogisticsHandlers[T, F]) Delete(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}
	view, err := h.logisticsService.Delete(c.Request().Context(), sessionOf(c), id, common.Confirmed(c))
	if err != nil {
		var empty F
		return h.fail(c, err, empty, 0)
	}
	return h.succeed(c, view)
}

// Import handles POST /<kind>/import
func (h *LogisticsHandlers[T, F]) Import(c echo.Context) error {
	upload, err := common.FormUpload(c, "file")
	if err != nil {
		return err
	}
	if closer, ok := uploadCloser(upload); ok {
		defer closer.Close()
	}
	view, err := h.logisticsService.Import(c.Request().Context(), sessionOf(c), upload)
	if err != nil {
		var empty F
		return h.fail(c, err, empty, 0)
	}
	return h.succeed(c, view)
}
