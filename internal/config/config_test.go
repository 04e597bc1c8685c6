package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultDeviceModelValid(t *testing.T) {
	if err := DefaultDeviceModel().Validate(); err != nil {
		t.Errorf("built-in demo model invalid: %v", err)
	}
}

func TestDeviceModelValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *DeviceModel)
		wantErr bool
	}{
		{
			name:    "valid model",
			mutate:  func(m *DeviceModel) {},
			wantErr: false,
		},
		{
			name:    "no pages",
			mutate:  func(m *DeviceModel) { m.Pages = nil },
			wantErr: true,
		},
		{
			name: "too many pages",
			mutate: func(m *DeviceModel) {
				for len(m.Pages) <= MaxPages {
					m.Pages = append(m.Pages, PageSpec{Name: "extra"})
				}
			},
			wantErr: true,
		},
		{
			name: "unknown widget kind",
			mutate: func(m *DeviceModel) {
				m.Pages[0].Widgets[0].Kind = "dial"
			},
			wantErr: true,
		},
		{
			name: "oversized text",
			mutate: func(m *DeviceModel) {
				text := make([]byte, MaxTextLen+1)
				m.Pages[0].Widgets[0].Text = string(text)
			},
			wantErr: true,
		},
		{
			name: "inverted slider range",
			mutate: func(m *DeviceModel) {
				m.Pages[0].Widgets[3].Min = 10
				m.Pages[0].Widgets[3].Max = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultDeviceModel()
			tt.mutate(m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDeviceModelRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panel.yaml")

	want := DefaultDeviceModel()
	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadDeviceModel(path)
	if err != nil {
		t.Fatalf("LoadDeviceModel() error = %v", err)
	}
	if got.Name != want.Name || len(got.Pages) != len(want.Pages) {
		t.Errorf("loaded model = %q/%d pages, want %q/%d pages",
			got.Name, len(got.Pages), want.Name, len(want.Pages))
	}
	if got.Pages[0].Widgets[3].Value != 50 {
		t.Errorf("slider value = %d, want 50", got.Pages[0].Widgets[3].Value)
	}
}

func TestLoadDeviceModelMissingFile(t *testing.T) {
	_, err := LoadDeviceModel(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing model file")
	}
}

func TestWidgetSpecDefaults(t *testing.T) {
	w := &WidgetSpec{Name: "x", Kind: KindLabel}
	if !w.IsVisible() || !w.IsEnabled() {
		t.Error("visible/enabled should default to true")
	}

	f := false
	w.Visible = &f
	if w.IsVisible() {
		t.Error("explicit visible=false ignored")
	}
}

func TestConfigSaveLoad(t *testing.T) {
	// Point the config dir at a temp location via XDG_CONFIG_HOME.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := NewConfig()
	cfg.Host.Transport = "ws"
	cfg.Host.Address = "127.0.0.1:9000"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Host.Transport != "ws" || got.Host.Address != "127.0.0.1:9000" {
		t.Errorf("loaded host config = %+v", got.Host)
	}
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Host.ReplyTimeoutMS != 1000 {
		t.Errorf("default reply timeout = %d, want 1000", cfg.Host.ReplyTimeoutMS)
	}
}
