package store

import (
	"errors"
	"testing"
)

func TestSlotsRoundTrip(t *testing.T) {
	s, err := Load(NewConfig(t.TempDir(), ""))
	if err != nil {
		t.Fatalf("load slots: %v", err)
	}

	if _, err := s.Read(TokenSlot); !errors.Is(err, ErrNoSlot) {
		t.Fatalf("expected ErrNoSlot, got %v", err)
	}
	if s.Has(TokenSlot) {
		t.Fatalf("empty slot reported as present")
	}

	if err := s.Write(TokenSlot, []byte("tok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := s.Read(TokenSlot)
	if err != nil || string(got) != "tok" {
		t.Fatalf("read = %q, %v", got, err)
	}

	if err := s.Erase(TokenSlot); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if err := s.Erase(TokenSlot); err != nil {
		t.Fatalf("second erase should be a no-op, got %v", err)
	}
	if s.Has(TokenSlot) {
		t.Fatalf("erased slot still present")
	}
}

func TestLoadRequiresBasePath(t *testing.T) {
	if _, err := Load(NewConfig(" ", "")); err == nil {
		t.Fatalf("expected error for blank base path")
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig("/tmp/x", "")
	if cfg.APIURL() != DefaultAPIURL || cfg.Timeout() != DefaultTimeout || cfg.WeatherLocation() != DefaultWeatherLocation {
		t.Fatalf("unexpected defaults: %q %v %q", cfg.APIURL(), cfg.Timeout(), cfg.WeatherLocation())
	}
}
