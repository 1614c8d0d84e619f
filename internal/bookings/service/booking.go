package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	bookingserrors "doctortravel/internal/bookings/errors"
	"doctortravel/internal/bookings/repository"
	"doctortravel/internal/bookings/validator"
	catalogservice "doctortravel/internal/catalog/service"
	"doctortravel/internal/identity"
	"doctortravel/pkg/config"
	apperrors "doctortravel/pkg/errors"
	httputil "doctortravel/pkg/http"
	"doctortravel/pkg/kafka"
	"doctortravel/pkg/model"
	"doctortravel/pkg/sanitizer"
)

const guestUser = "Guest"

type BookingService interface {
	// Submit checks the traveller form and sends it to the booking function.
	// user is the session's signed-in user and may be nil.
	Submit(ctx context.Context, user *identity.User, req *model.BookingRequest) (*model.BookingConfirmation, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	catalog   catalogservice.CatalogService
	validator *validator.BookingValidator
	events    *kafka.Emitter
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	catalog catalogservice.CatalogService,
	validator *validator.BookingValidator,
	events *kafka.Emitter,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		validator: validator,
		events:    events,
		cfg:       cfg,
	}
}

func (s *bookingService) Submit(ctx context.Context, user *identity.User, req *model.BookingRequest) (*model.BookingConfirmation, error) {
	if req.PackageID == "" {
		return nil, validationError(bookingserrors.ErrPackageNotFound, "Package not found.")
	}

	adults := sanitizer.LeadingInt(req.Adults)
	children := sanitizer.LeadingInt(req.Children)
	if adults < 0 || children < 0 || adults+children < 1 {
		return nil, validationError(bookingserrors.ErrNoPassengers, "Add at least one passenger.")
	}

	if req.DocumentType == model.DocumentPassport && req.PassportExpiration == "" {
		return nil, validationError(bookingserrors.ErrPassportExpirationRequired, "Please fill your passport expiration date.")
	}

	s.applyDefaults(user, req)
	s.sanitize(req)
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	// Every check above is local; the catalog lookup is the first remote call.
	pkg, err := s.resolvePackage(ctx, req)
	if err != nil {
		return nil, err
	}

	lockKey := s.lockKey(user, req, pkg)
	if err := s.acquireSubmissionLock(ctx, lockKey); err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(context.WithoutCancel(ctx), lockKey); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_key", lockKey, "error", releaseErr)
		}
	}()

	payload := toPayload(req, adults, children)
	result, err := s.repo.Submit(ctx, payload)
	if err != nil {
		s.cfg.Log.Error("Booking submission failed",
			"package_id", pkg.ID,
			"is_local", pkg.IsLocal,
			"error", err,
		)
		var remoteErr *bookingserrors.RemoteError
		if errors.As(err, &remoteErr) {
			return nil, apperrors.Remote(remoteErr.Error(), err)
		}
		return nil, apperrors.Remote("Failed to complete booking.", err)
	}

	s.cfg.Log.Info("Booking submitted",
		"package_id", pkg.ID,
		"is_local", pkg.IsLocal,
		"adults", adults,
		"children", children,
	)
	s.events.Emit(ctx, kafka.EventBookingSubmitted, pkg.ID, map[string]any{
		"package_id":    pkg.ID,
		"is_local":      pkg.IsLocal,
		"user_id":       userID(user),
		"adults":        adults,
		"children":      children,
		"document_type": req.DocumentType,
		"submitted_at":  time.Now().UTC(),
	})

	confirmation := &model.BookingConfirmation{
		BookingID: pkg.ID,
		User:      pkg.Destination,
		Result:    result,
	}
	if confirmation.User == "" {
		confirmation.User = guestUser
	}
	return confirmation, nil
}

func (s *bookingService) resolvePackage(ctx context.Context, req *model.BookingRequest) (*model.Package, error) {
	pkg, err := s.catalog.Get(ctx, req.PackageID, req.IsLocal)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && (appErr.Code == apperrors.CodeNotFound || appErr.Code == apperrors.CodeInvalidInput) {
			return nil, validationError(bookingserrors.ErrPackageNotFound, "Package not found.")
		}
		return nil, err
	}
	return pkg, nil
}

// applyDefaults prefills the email from the signed-in user.
func (s *bookingService) applyDefaults(user *identity.User, req *model.BookingRequest) {
	if req.Email == "" && user != nil {
		req.Email = user.Email
	}
}

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.FirstName = sanitizer.NormalizeName(req.FirstName)
	req.MiddleName = sanitizer.NormalizeName(req.MiddleName)
	req.LastName = sanitizer.NormalizeName(req.LastName)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.NormalizePhone(req.Phone)
	req.Nationality = sanitizer.TrimAndNormalize(req.Nationality)
	req.Passport = sanitizer.TrimAndNormalize(req.Passport)
	req.Address = sanitizer.TrimAndNormalize(req.Address)
	req.BirthPlace = sanitizer.TrimAndNormalize(req.BirthPlace)
}

func (s *bookingService) lockKey(user *identity.User, req *model.BookingRequest, pkg *model.Package) string {
	who := userID(user)
	if who == "" {
		who = req.Email
	}
	if who == "" {
		who = req.Phone
	}
	return fmt.Sprintf("%s:%s:%s", who, pkg.Key().ID, httputil.PackageKind(pkg.IsLocal))
}

func (s *bookingService) acquireSubmissionLock(ctx context.Context, key string) error {
	acquired, err := s.lockRepo.Acquire(ctx, key, 2*s.cfg.RemoteCallTimeout)
	if err != nil {
		return apperrors.Internal("Failed to acquire booking lock", err)
	}
	if !acquired {
		return apperrors.Wrap(bookingserrors.ErrSubmissionInProgress, apperrors.CodeConflict,
			"This booking is already being submitted. Please wait.", http.StatusConflict)
	}
	return nil
}

func toPayload(req *model.BookingRequest, adults, children int) *model.BookingPayload {
	return &model.BookingPayload{
		FirstName:    req.FirstName,
		MiddleName:   nullable(req.MiddleName),
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Adults:       adults,
		Children:     children,
		DocumentType: req.DocumentType,
		Passport:     nullable(req.Passport),
		Nationality:  req.Nationality,
		Address:      nullable(req.Address),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func userID(user *identity.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}

func validationError(err error, message string) error {
	return apperrors.Wrap(err, apperrors.CodeValidation, message, http.StatusUnprocessableEntity)
}
