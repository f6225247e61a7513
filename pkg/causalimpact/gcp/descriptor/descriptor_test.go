package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appYAML = `
runtime: python311
entrypoint: gunicorn -b :$PORT main:app
instance_class: F4
automatic_scaling:
  max_instances: 3
  target_cpu_utilization: 0.65
handlers:
- url: /static
  static_dir: static
  secure: always
- url: /favicon\.ico
  static_files: static/images/favicon.ico
  upload: static/images/favicon\.ico
- url: /.*
  script: auto
  secure: always
inbound_services:
- warmup
env_variables:
  SLIDE_TEMPLATE: ""
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(appYAML))
	require.NoError(t, err)

	assert.Equal(t, "python311", d.Runtime)
	assert.Equal(t, "gunicorn -b :$PORT main:app", d.Entrypoint)
	assert.Equal(t, "F4", d.InstanceClass)
	require.NotNil(t, d.AutomaticScaling)
	assert.Equal(t, 3, d.AutomaticScaling.MaxInstances)
	assert.InDelta(t, 0.65, d.AutomaticScaling.TargetCPUUtilization, 0.0001)
	require.Len(t, d.Handlers, 3)
	assert.Equal(t, "static", d.Handlers[0].StaticDir)
	assert.Equal(t, `/favicon\.ico`, d.Handlers[1].URL)
	assert.Equal(t, "auto", d.Handlers[2].Script)
	assert.Equal(t, []string{"warmup"}, d.InboundServices)
	assert.Contains(t, d.EnvVariables, "SLIDE_TEMPLATE")
	assert.Empty(t, d.EnvVariables["SLIDE_TEMPLATE"])
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsBadDescriptors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing runtime",
			yaml: "handlers:\n- url: /.*\n  script: auto\n",
		},
		{
			name: "no handlers",
			yaml: "runtime: python311\n",
		},
		{
			name: "handler without target",
			yaml: "runtime: python311\nhandlers:\n- url: /.*\n",
		},
		{
			name: "handler with two targets",
			yaml: "runtime: python311\nhandlers:\n- url: /.*\n  script: auto\n  static_dir: static\n",
		},
		{
			name: "static files without upload",
			yaml: "runtime: python311\nhandlers:\n- url: /robots.txt\n  static_files: robots.txt\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("runtime: [python311"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidDescriptor)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(appYAML), 0o600))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "python311", d.Runtime)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
