package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	manager, err := NewManager()
	require.NoError(t, err)

	cfg := manager.GetConfig()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "tsv", cfg.Dataset.Source)
	assert.Equal(t, 10, cfg.Classifier.MinExamples)
	assert.Equal(t, 512, cfg.Cache.PredictionCacheSize)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestManager_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func()
		wantErr string
	}{
		{
			name:    "defaults are valid",
			mutate:  func() {},
			wantErr: "",
		},
		{
			name:    "invalid port",
			mutate:  func() { viper.Set("server.port", 0) },
			wantErr: "invalid server port",
		},
		{
			name:    "unknown dataset source",
			mutate:  func() { viper.Set("dataset.source", "csv") },
			wantErr: "unknown dataset source",
		},
		{
			name: "sqlite source requires path",
			mutate: func() {
				viper.Set("dataset.source", "sqlite")
				viper.Set("dataset.sqlite_path", "")
			},
			wantErr: "sqlite path is required",
		},
		{
			name:    "invalid log level",
			mutate:  func() { viper.Set("logging.level", "verbose") },
			wantErr: "invalid log level",
		},
		{
			name:    "non-positive epochs",
			mutate:  func() { viper.Set("classifier.epochs", -1) },
			wantErr: "epochs must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			tt.mutate()

			manager, err := NewManager()
			require.NoError(t, err)

			err = manager.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestManager_DatasetEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("DRUGREC_DATASET_SOURCE", "sqlite")

	manager, err := NewManager()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", manager.GetDatasetConfig().Source)
}
