// Package geocode asks the remote geocoding function to resolve the
// coordinates of package itineraries. The call is fire-and-forget.
package geocode

import (
	"context"
	"strings"

	"doctortravel/pkg/client"
	"doctortravel/pkg/config"
	"doctortravel/pkg/logger"
)

type Trigger struct {
	http    *client.HttpClient
	anonKey string
	log     *logger.Logger
}

func NewTrigger(cfg *config.Config) *Trigger {
	return NewTriggerWithURL(cfg.GeocodeFunctionURL, cfg.SupabaseAnonKey, cfg)
}

func NewTriggerWithURL(url, anonKey string, cfg *config.Config) *Trigger {
	return &Trigger{
		http: client.NewHttpClient(url, cfg.RemoteCallTimeout).
			WithBearer(anonKey).
			WithHeader("apikey", anonKey),
		anonKey: anonKey,
		log:     cfg.Log,
	}
}

// Run posts to the geocode function and logs the outcome. It returns false
// when the call was skipped or failed.
func (t *Trigger) Run(ctx context.Context) bool {
	if t.anonKey == "" {
		t.log.Warn("Supabase anon key missing, skipping geocode trigger")
		return false
	}

	resp, err := t.http.POST(ctx, "", nil)
	if err != nil {
		t.log.Error("Error triggering geocode", "error", err)
		return false
	}

	body := strings.TrimSpace(string(resp.Body))
	if !resp.IsSuccess() {
		t.log.Warn("Geocode trigger rejected", "status", resp.StatusCode, "response", body)
		return false
	}
	t.log.Info("Geocode response", "status", resp.StatusCode, "response", body)
	return true
}

// Start runs the trigger in the background, detached from ctx's cancellation.
func (t *Trigger) Start(ctx context.Context) <-chan bool {
	done := make(chan bool, 1)
	go func() {
		done <- t.Run(context.WithoutCancel(ctx))
	}()
	return done
}
