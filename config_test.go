package preface

import "testing"

func TestSetDefaults(t *testing.T) {
	cfg := SiteConfig{}
	cfg.setDefaults()

	if cfg.Name != "Blog" {
		t.Errorf("Name = %q, want %q", cfg.Name, "Blog")
	}
	if cfg.ContentType != "article" {
		t.Errorf("ContentType = %q, want %q", cfg.ContentType, "article")
	}
	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.PageSize)
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "en")
	}
}

func TestSetDefaultsClampsNegativePageSize(t *testing.T) {
	cfg := SiteConfig{PageSize: -5}
	cfg.setDefaults()

	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want the default for a non-positive value", cfg.PageSize)
	}
}

func TestSetDefaultsKeepsConfiguredValues(t *testing.T) {
	cfg := SiteConfig{Name: "My Site", PageSize: 25, Locale: "fr"}
	cfg.setDefaults()

	if cfg.Name != "My Site" {
		t.Errorf("Name = %q, want %q", cfg.Name, "My Site")
	}
	if cfg.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.PageSize)
	}
	if cfg.Locale != "fr" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "fr")
	}
}
