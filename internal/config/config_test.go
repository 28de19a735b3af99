package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STOREFRONT_ADDR", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("TAX_RATE", "")
	t.Setenv("ALLOW_RESET_PRODUCTS", "")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.JWTTTL != 72*time.Hour {
		t.Fatalf("expected 72h token ttl, got %s", cfg.JWTTTL)
	}
	if cfg.TaxRate.String() != "0.08" {
		t.Fatalf("expected 0.08 tax rate, got %s", cfg.TaxRate)
	}
	if cfg.PaymentDelay != 2*time.Second {
		t.Fatalf("expected 2s payment delay, got %s", cfg.PaymentDelay)
	}
	if cfg.AllowResetProducts {
		t.Fatalf("product reset must be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOREFRONT_ADDR", ":9090")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("TAX_RATE", "0.1")
	t.Setenv("CHECKOUT_TIMEOUT", "nonsense")
	t.Setenv("ALLOW_RESET_PRODUCTS", "1")

	cfg := Load()
	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if cfg.JWTTTL != 30*time.Minute {
		t.Fatalf("unexpected ttl %s", cfg.JWTTTL)
	}
	if cfg.TaxRate.String() != "0.1" {
		t.Fatalf("unexpected tax rate %s", cfg.TaxRate)
	}
	if cfg.CheckoutTimeout != 10*time.Second {
		t.Fatalf("invalid duration should fall back to default, got %s", cfg.CheckoutTimeout)
	}
	if !cfg.AllowResetProducts {
		t.Fatalf("expected product reset to be enabled")
	}
}
