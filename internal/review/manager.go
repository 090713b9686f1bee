// Package review enforces the one-review-per-user rule on top of the catalog
// and the user directory.
package review

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Bookshelf/internal/apperr"
	"Bookshelf/internal/catalog"
	"Bookshelf/internal/users"
)

const (
	MsgAdded         = "Review added successfully"
	MsgDeleted       = "Review deleted successfully"
	MsgUserNotFound  = "User not found"
	MsgBookNotFound  = "Book not found"
	MsgReviewExists  = "Review already exists"
	MsgReviewMissing = "Review not found"
)

const (
	opAdd    = "add"
	opDelete = "delete"
)

type Manager struct {
	books   catalog.Store
	users   users.Directory
	log     *zap.Logger
	metrics *prometheus.CounterVec
}

func NewManager(books catalog.Store, dir users.Directory, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{books: books, users: dir, log: log}
}

// WithMetrics registers bookshelf_reviews_total on reg and counts every
// mutation by operation and outcome.
func (m *Manager) WithMetrics(reg prometheus.Registerer) *Manager {
	m.metrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_reviews_total",
			Help: "Review mutations by operation and result",
		},
		[]string{"op", "result"},
	)
	reg.MustRegister(m.metrics)
	return m
}

// Add stores text as username's review of isbn. Checks run in order and the
// first failing one is reported: unknown user, unknown book, existing review.
func (m *Manager) Add(ctx context.Context, username, isbn, text string) error {
	if err := m.resolveUser(ctx, username); err != nil {
		return m.observe(opAdd, err)
	}

	err := m.books.AddReview(ctx, isbn, username, text)
	switch {
	case err == nil:
		m.log.Debug("review added", zap.String("isbn", isbn), zap.String("username", username))
	case errors.Is(err, catalog.ErrBookNotFound):
		err = apperr.NotFound(MsgBookNotFound)
	case errors.Is(err, catalog.ErrReviewExists):
		err = apperr.Conflict(MsgReviewExists)
	default:
		err = apperr.Internal("add review", err)
	}
	return m.observe(opAdd, err)
}

// Delete removes username's review of isbn.
func (m *Manager) Delete(ctx context.Context, username, isbn string) error {
	if err := m.resolveUser(ctx, username); err != nil {
		return m.observe(opDelete, err)
	}

	err := m.books.DeleteReview(ctx, isbn, username)
	switch {
	case err == nil:
		m.log.Debug("review deleted", zap.String("isbn", isbn), zap.String("username", username))
	case errors.Is(err, catalog.ErrBookNotFound):
		err = apperr.NotFound(MsgBookNotFound)
	case errors.Is(err, catalog.ErrReviewNotFound):
		err = apperr.NotFound(MsgReviewMissing)
	default:
		err = apperr.Internal("delete review", err)
	}
	return m.observe(opDelete, err)
}

func (m *Manager) resolveUser(ctx context.Context, username string) error {
	ok, err := m.users.Exists(ctx, username)
	if err != nil {
		return apperr.Internal("lookup user", err)
	}
	if !ok {
		return apperr.Auth(MsgUserNotFound)
	}
	return nil
}

func (m *Manager) observe(op string, err error) error {
	if m.metrics != nil {
		result := "ok"
		if err != nil {
			result = string(apperr.KindOf(err))
		}
		m.metrics.WithLabelValues(op, result).Inc()
	}
	return err
}
