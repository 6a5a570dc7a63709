package config

import (
	"path/filepath"
	"testing"
)

func TestSceneTemplateSystem(t *testing.T) {
	template := GetSceneTemplate("bucket")
	if template == nil {
		t.Fatal("Expected to get bucket template, got nil")
	}
	if template.Container == nil {
		t.Error("Expected bucket template to carry a container")
	}

	templates := ListSceneTemplates()
	for _, expected := range []string{"garden_pond", "bucket", "swell"} {
		if _, ok := templates[expected]; !ok {
			t.Errorf("Expected template '%s' to be available", expected)
		}
	}

	cfg := DefaultConfig()
	if err := ApplySceneTemplate(cfg, "bucket"); err != nil {
		t.Fatalf("Failed to apply scene template: %v", err)
	}
	if cfg.Container == nil || cfg.Container == template.Container {
		t.Error("Expected a copy of the template container")
	}
	if len(cfg.Spawns) != 1 || cfg.Spawns[0].Profile != "bucket_orange" {
		t.Errorf("Unexpected spawns: %+v", cfg.Spawns)
	}
	if len(cfg.Zones) != 0 {
		t.Errorf("Expected no zones, got %+v", cfg.Zones)
	}
	if cfg.TimeStep != 0.02 {
		t.Errorf("Template should keep the tick, got %f", cfg.TimeStep)
	}

	cfg.Container.Radius = 99
	if template.Container.Radius == 99 {
		t.Error("Modifying the applied container changed the template")
	}

	if err := ApplySceneTemplate(cfg, "unknown_template"); err == nil {
		t.Error("Expected error for unknown template")
	}

	cfg2, err := LoadConfigWithTemplate(filepath.Join(t.TempDir(), "missing.json"), "swell")
	if err != nil {
		t.Fatalf("LoadConfigWithTemplate should fall back to default config, got error: %v", err)
	}
	if cfg2.Surface.Amplitude != 0.3 {
		t.Errorf("Expected swell amplitude 0.3, got %f", cfg2.Surface.Amplitude)
	}
}

func TestSceneTemplateValidation(t *testing.T) {
	for name, template := range sceneTemplates {
		t.Run(name, func(t *testing.T) {
			if template.Name == "" || template.Description == "" {
				t.Error("Template needs a name and description")
			}
			if len(template.Spawns) == 0 {
				t.Error("Template should spawn at least one body")
			}

			cfg := DefaultConfig()
			if err := ApplySceneTemplate(cfg, name); err != nil {
				t.Fatal(err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Template produces an invalid config: %v", err)
			}
		})
	}
}
