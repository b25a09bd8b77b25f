package handlers

import (
	"net/http"
	"strings"

	"wmsconsole/internal/common"
	"wmsconsole/internal/render"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type CycleCountHandlers struct {
	responder
	cycleCountService services.CycleCountService
}

func NewCycleCountHandlers(cycleCountService services.CycleCountService, sessions *session.Manager, logger logrus.FieldLogger) *CycleCountHandlers {
	return &CycleCountHandlers{
		responder:         responder{sessions: sessions, logger: logger.WithField("handler", "cycle_count")},
		cycleCountService: cycleCountService,
	}
}

const cycleCountPath = "/cycle-count"

func (h *CycleCountHandlers) show(c echo.Context, status int, view *services.CycleCountView, errMsg string, fields map[string][]string) error {
	if view == nil {
		view = &services.CycleCountView{}
	}
	return renderPage(c, status, "cycle_count", render.Page{
		Title:       "Cycle Count",
		Error:       errMsg,
		FieldErrors: fields,
		Data:        view,
	})
}

type countInput struct {
	productID int
	counted   int
	reason    string
}

// readCount parses the posted draft. Field problems are returned as form errors.
func readCount(c echo.Context) (countInput, common.FieldErrors) {
	in := countInput{reason: strings.TrimSpace(c.FormValue("reason"))}
	errs := common.FieldErrors{}
	var err error
	if in.productID, err = common.FormInt(c, "product"); err != nil {
		errs.Add("product", "Select a product.")
	}
	// blank means missing, not zero
	blank := strings.TrimSpace(c.FormValue("counted_quantity")) == ""
	if in.counted, err = common.FormInt(c, "counted_quantity"); blank || err != nil || in.counted < 0 {
		errs.Add("counted_quantity", "Enter a whole number of at least 0.")
	}
	if len(errs) == 0 {
		return in, nil
	}
	return in, errs
}

// List handles GET /cycle-count. ?sku= selects the scanned product.
func (h *CycleCountHandlers) List(c echo.Context) error {
	view, err := h.cycleCountService.List(c.Request().Context(), sessionOf(c))
	if err != nil {
		if handled, result := h.intercept(c, err, "/home"); handled {
			return result
		}
		return h.show(c, statusFor(err), nil, h.message(c, err), nil)
	}
	if sku := c.QueryParam("sku"); sku != "" {
		product, err := services.MatchSKU(view.Products, sku)
		if err != nil {
			return h.show(c, statusFor(err), view, h.message(c, err), nil)
		}
		view.Form.SelectProduct(*product)
	}
	return h.show(c, http.StatusOK, view, "", nil)
}

// Preview handles POST /cycle-count/preview: the draft is recomputed and
// shown, nothing is submitted
func (h *CycleCountHandlers) Preview(c echo.Context) error {
	in, fields := readCount(c)
	view, err := h.cycleCountService.Preview(c.Request().Context(), sessionOf(c), in.productID, in.counted, in.reason)
	if err != nil {
		if handled, result := h.intercept(c, err, cycleCountPath); handled {
			return result
		}
		return h.show(c, statusFor(err), nil, h.message(c, err), nil)
	}
	if len(fields) > 0 {
		return h.show(c, http.StatusUnprocessableEntity, view, msgInvalidForm, fields)
	}
	return h.show(c, http.StatusOK, view, "", nil)
}

// Submit handles POST /cycle-count
func (h *CycleCountHandlers) Submit(c echo.Context) error {
	in, fields := readCount(c)
	if len(fields) > 0 {
		view, err := h.cycleCountService.Preview(c.Request().Context(), sessionOf(c), in.productID, in.counted, in.reason)
		if err != nil {
			if handled, result := h.intercept(c, err, cycleCountPath); handled {
				return result
			}
		}
		return h.show(c, http.StatusUnprocessableEntity, view, msgInvalidForm, fields)
	}

	view, err := h.cycleCountService.Submit(c.Request().Context(), sessionOf(c), in.productID, in.counted, in.reason)
	if err != nil {
		if handled, result := h.intercept(c, err, cycleCountPath); handled {
			return result
		}
		if view != nil {
			// keep the draft; the history is loaded again for the page
			if history, lerr := h.cycleCountService.List(c.Request().Context(), sessionOf(c)); lerr == nil {
				view.Counts = history.Counts
			} else if handled, result := h.intercept(c, lerr, cycleCountPath); handled {
				return result
			}
		}
		return h.show(c, statusFor(err), view, h.message(c, err), fieldErrors(err))
	}
	return h.show(c, http.StatusOK, view, "", nil)
}
