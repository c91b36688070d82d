package migrations

import (
	"testing"

	"github.com/uptrace/bun/migrate"
)

func TestQuestionsMigrationIsRegistered(t *testing.T) {
	sorted := Migrations.Sorted()
	if len(sorted) != 1 || sorted[0].Name != "2024112201_create_questions" {
		t.Fatalf("unexpected registered migrations: %v", sorted)
	}
}

func TestAppliedNames(t *testing.T) {
	if names := appliedNames(nil); names != nil {
		t.Fatalf("expected no names for nil group, got %v", names)
	}
	if names := appliedNames(&migrate.MigrationGroup{}); names != nil {
		t.Fatalf("expected no names for empty group, got %v", names)
	}

	group := &migrate.MigrationGroup{
		ID: 3,
		Migrations: migrate.MigrationSlice{
			{Name: "2024112201_create_questions"},
			{Name: "2024120101_add_source"},
		},
	}
	names := appliedNames(group)
	if len(names) != 2 || names[0] != "2024112201_create_questions" || names[1] != "2024120101_add_source" {
		t.Fatalf("unexpected names %v", names)
	}
}
