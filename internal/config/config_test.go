package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddress != "0.0.0.0:8080" {
		t.Fatalf("unexpected http address: %q", cfg.HTTPAddress)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Fatalf("unexpected driver: %q", cfg.DatabaseDriver)
	}
	if cfg.DatabasePath != "corkboard.db" {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	configViper := NewViper()
	configViper.Set("database.driver", "postgres")

	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected error for postgres without dsn")
	}

	configViper.Set("database.dsn", "host=localhost user=corkboard dbname=corkboard")
	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseDriver != DriverPostgres {
		t.Fatalf("unexpected driver: %q", cfg.DatabaseDriver)
	}
}

func TestLoadNormalizesDriverCase(t *testing.T) {
	configViper := NewViper()
	configViper.Set("database.driver", "  SQLite ")

	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Fatalf("unexpected driver: %q", cfg.DatabaseDriver)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	configViper := NewViper()
	configViper.Set("database.driver", "oracle")

	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestLoadRejectsSQLiteWithoutPath(t *testing.T) {
	configViper := NewViper()
	configViper.Set("database.path", "  ")

	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected error for sqlite without path")
	}
}
