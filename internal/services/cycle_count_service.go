package services

import (
	"context"
	"errors"

	"wmsconsole/internal/models"

	"github.com/sirupsen/logrus"
)

// CycleCountForm is the draft count being entered. Discrepancy is derived
// from the two quantities and recomputed whenever either one changes.
type CycleCountForm struct {
	ProductID       int
	CountedQuantity int
	SystemQuantity  int
	Reason          string
	discrepancy     int
}

// SelectProduct takes the system quantity from the chosen product
func (f *CycleCountForm) SelectProduct(p models.Product) {
	f.ProductID = p.ID
	f.SystemQuantity = p.Quantity
	f.recompute()
}

func (f *CycleCountForm) SetCounted(counted int) {
	f.CountedQuantity = counted
	f.recompute()
}

func (f *CycleCountForm) SetSystem(system int) {
	f.SystemQuantity = system
	f.recompute()
}

func (f *CycleCountForm) Discrepancy() int { return f.discrepancy }

func (f *CycleCountForm) recompute() {
	f.discrepancy = f.CountedQuantity - f.SystemQuantity
}

// Input is the payload submitted to the API
func (f *CycleCountForm) Input() models.CycleCountInput {
	return models.CycleCountInput{
		Product:         f.ProductID,
		CountedQuantity: f.CountedQuantity,
		SystemQuantity:  f.SystemQuantity,
		Discrepancy:     f.discrepancy,
		Reason:          f.Reason,
	}
}

// CycleCountView is what the cycle count page renders
type CycleCountView struct {
	Products []models.Product
	Counts   []models.CycleCount
	Form     CycleCountForm
	Notice   string
}

var ErrNoProductSelected = errors.New("select a product to count")

type CycleCountService interface {
	List(ctx context.Context, sess SessionState) (*CycleCountView, error)
	// Preview fills the draft from the product list without submitting
	Preview(ctx context.Context, sess SessionState, productID, counted int, reason string) (*CycleCountView, error)
	Submit(ctx context.Context, sess SessionState, productID, counted int, reason string) (*CycleCountView, error)
}

type cycleCountService struct {
	counts   CycleCountAPI
	products ProductAPI
	logger   logrus.FieldLogger
}

func NewCycleCountService(counts CycleCountAPI, products ProductAPI, logger logrus.FieldLogger) CycleCountService {
	return &cycleCountService{counts: counts, products: products, logger: logger.WithField("view", "cycle_count")}
}

func (s *cycleCountService) List(ctx context.Context, sess SessionState) (*CycleCountView, error) {
	products, err := s.products.List(ctx, sess.AccessToken(), productOptions)
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	counts, err := s.counts.List(ctx, sess.AccessToken())
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	return &CycleCountView{Products: products, Counts: counts}, nil
}

func (s *cycleCountService) Preview(ctx context.Context, sess SessionState, productID, counted int, reason string) (*CycleCountView, error) {
	view, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	view.Form = draft(view.Products, productID, counted, reason)
	return view, nil
}

// Submit recomputes the draft against a fresh product list, posts it and
// re-lists the counts once
func (s *cycleCountService) Submit(ctx context.Context, sess SessionState, productID, counted int, reason string) (*CycleCountView, error) {
	products, err := s.products.List(ctx, sess.AccessToken(), productOptions)
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	form := draft(products, productID, counted, reason)
	if models.FindProductByID(products, productID) == nil {
		return &CycleCountView{Products: products, Form: form}, ErrNoProductSelected
	}

	if _, err := s.counts.Create(ctx, sess.AccessToken(), form.Input()); err != nil {
		return &CycleCountView{Products: products, Form: form}, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	s.logger.WithFields(logrus.Fields{
		"product_id":  productID,
		"discrepancy": form.Discrepancy(),
		"user":        sess.Username(),
	}).Info("cycle count recorded")

	counts, err := s.counts.List(ctx, sess.AccessToken())
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	return &CycleCountView{Products: products, Counts: counts, Notice: "Cycle count recorded."}, nil
}

func draft(products []models.Product, productID, counted int, reason string) CycleCountForm {
	form := CycleCountForm{Reason: reason}
	if p := models.FindProductByID(products, productID); p != nil {
		form.SelectProduct(*p)
	}
	form.SetCounted(counted)
	return form
}
