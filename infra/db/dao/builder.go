package dao

import (
	"errors"

	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/infra/db/model"

	"github.com/jinzhu/gorm"
)

var ErrRunNotFound = errors.New("reconciliation run not found")

// BookingFilter narrows the booking query. Zero range bounds and an empty status list mean no filter.
type BookingFilter struct {
	Range    entity.DateRange
	Statuses []string
}

type DaoMethod interface {
	GetBookings(filter BookingFilter) ([]model.Booking, error)
	GetLatestBookingEmails(bookingIDs []int64) (map[int64]model.BookingEmail, error)

	GetReconciliationRuns() ([]model.ReconciliationRun, error)
	GetReconciliationRunsByStatusList(statusList []int) ([]model.ReconciliationRun, error)
	CreateReconciliationRun(payload *model.ReconciliationRun) error
	GetReconciliationRunByID(runID int64) (model.ReconciliationRun, error)
	UpdateReconciliationRun(run model.ReconciliationRun) error

	CreateReconciliationRunArtifact(payload model.ReconciliationRunArtifact) error
	GetReconciliationRunArtifactsByRunID(runID int64) ([]model.ReconciliationRunArtifact, error)
}

type dao struct {
	db *gorm.DB
}

func NewDaoMethod(db *gorm.DB) DaoMethod {
	return &dao{db: db}
}
