package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/WallTopo/internal/model"
)

func TestSaveAndLoadProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.json")

	catalog := model.ProfileCatalog{Profiles: []model.WallProfile{
		model.NewWallProfile("Timber frame 140", 140, "Timber"),
		{ID: "glass", Name: "Glass partition", Thickness: 24},
	}}

	if err := SaveProfiles(path, catalog); err != nil {
		t.Fatalf("SaveProfiles failed: %v", err)
	}

	loaded, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}

	if len(loaded.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(loaded.Profiles))
	}
	if loaded.Profiles[0].Material != "Timber" || loaded.Profiles[0].Thickness != 140 {
		t.Errorf("unexpected profile %+v", loaded.Profiles[0])
	}
	if p := loaded.FindByID("glass"); p == nil || p.Thickness != 24 {
		t.Errorf("expected glass profile, got %+v", p)
	}
}

func TestLoadProfiles_NotFound(t *testing.T) {
	catalog, err := LoadProfiles(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(catalog.Profiles) != len(model.DefaultProfileCatalog().Profiles) {
		t.Errorf("expected the default catalog, got %d profiles", len(catalog.Profiles))
	}
}

func TestLoadProfiles_InvalidThickness(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	data := []byte(`{"profiles":[{"id":"x","name":"Bad","thickness":0}]}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfiles(path); err == nil {
		t.Fatal("expected error for zero thickness")
	}
}

func TestLoadProfiles_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	if err := os.WriteFile(path, []byte("[{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfiles(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestSaveProfiles_EmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "profiles.json")
	if err := SaveProfiles(path, model.ProfileCatalog{}); err != nil {
		t.Fatalf("SaveProfiles failed: %v", err)
	}
	loaded, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}
	if loaded.Profiles == nil || len(loaded.Profiles) != 0 {
		t.Errorf("expected an empty non-nil catalog, got %+v", loaded.Profiles)
	}
}

func TestExportAndImportProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	profile := model.NewWallProfile("Exterior 300", 300, "Concrete")

	if err := ExportProfile(path, profile); err != nil {
		t.Fatalf("ExportProfile failed: %v", err)
	}
	imported, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}
	if imported != profile {
		t.Errorf("round trip changed the profile: %+v vs %+v", imported, profile)
	}
}

func TestImportProfile_AssignsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte(`{"name":"Shared","thickness":90}`), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}
	if p.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestImportProfile_Invalid(t *testing.T) {
	tests := map[string]string{
		"no name":      `{"thickness":90}`,
		"no thickness": `{"name":"Thin"}`,
		"bad json":     `{`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profile.json")
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := ImportProfile(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestImportProfile_MissingFile(t *testing.T) {
	if _, err := ImportProfile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
