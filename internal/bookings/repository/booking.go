package repository

import (
	"context"
	"fmt"

	bookingserrors "doctortravel/internal/bookings/errors"
	"doctortravel/pkg/client"
	"doctortravel/pkg/config"
	"doctortravel/pkg/model"
)

// BookingRepository hands a booking to the remote function that records it
// and emails the receipt.
type BookingRepository interface {
	Submit(ctx context.Context, payload *model.BookingPayload) (map[string]any, error)
}

type remoteBookingRepository struct {
	http *client.HttpClient
}

func NewBookingRepository(cfg *config.Config) BookingRepository {
	return NewRemoteBookingRepository(cfg.BookingFunctionURL, cfg.SupabaseAnonKey, cfg)
}

func NewRemoteBookingRepository(url, anonKey string, cfg *config.Config) BookingRepository {
	return &remoteBookingRepository{
		http: client.NewHttpClient(url, cfg.RemoteCallTimeout).WithBearer(anonKey),
	}
}

func (r *remoteBookingRepository) Submit(ctx context.Context, payload *model.BookingPayload) (map[string]any, error) {
	resp, err := r.http.POST(ctx, "", payload)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, &bookingserrors.RemoteError{Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var result map[string]any
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("failed to decode booking result: %w", err)
	}
	return result, nil
}
