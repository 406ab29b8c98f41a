package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVehiclesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_vehicles.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no vehicles migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE vehicles",
		"CREATE UNIQUE INDEX ux_vehicles_vin",
		"version integer NOT NULL DEFAULT 1",
		"status vehicle_status_enum NOT NULL",
		"DROP TABLE IF EXISTS vehicles",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOutboxMigrationKeepsUnpublishedIndexPartial(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_outbox.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no outbox migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE outbox_events",
		"WHERE published_at IS NULL",
		"CREATE TABLE outbox_dlq",
		"error_reason outbox_dlq_error_reason_enum NOT NULL",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
