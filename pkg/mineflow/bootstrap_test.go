package mineflow

import (
	"path/filepath"
	"testing"
)

func TestGenerateAndReloadBootstrap(t *testing.T) {
	records, err := GenerateRecords(SyntheticConfig{Seed: 11}, 25)
	if err != nil {
		t.Fatalf("GenerateRecords returned error: %v", err)
	}
	if len(records) != 25 {
		t.Fatalf("expected 25 records, got %d", len(records))
	}

	path := filepath.Join(t.TempDir(), "datos_simulados.csv")
	if err := WriteBootstrap(path, records); err != nil {
		t.Fatalf("WriteBootstrap returned error: %v", err)
	}
	loaded, err := LoadBootstrap(path)
	if err != nil {
		t.Fatalf("LoadBootstrap returned error: %v", err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("expected %d records back, got %d", len(records), len(loaded))
	}
	if loaded[0].Crew != records[0].Crew || loaded[0].OperatorName != records[0].OperatorName {
		t.Fatalf("first record changed on reload: %+v vs %+v", loaded[0], records[0])
	}
}

func TestGenerateRecordsRejectsEmpty(t *testing.T) {
	if _, err := GenerateRecords(SyntheticConfig{}, 0); err == nil {
		t.Fatalf("expected error for zero records")
	}
}

func TestInitLoggingRejectsUnknownLevel(t *testing.T) {
	if err := InitLogging(LoggingConfig{Level: "chatty"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
