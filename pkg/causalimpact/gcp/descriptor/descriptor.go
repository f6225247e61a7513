// Package descriptor reads the App Engine deployment descriptor (app.yaml) shipped with the application bundle.
package descriptor

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDescriptor is returned when a descriptor fails validation.
var ErrInvalidDescriptor = errors.New("invalid deployment descriptor")

// Descriptor is the subset of app.yaml used to deploy a standard environment version.
type Descriptor struct {
	Runtime          string            `yaml:"runtime"`
	Entrypoint       string            `yaml:"entrypoint"`
	InstanceClass    string            `yaml:"instance_class"`
	AutomaticScaling *AutomaticScaling `yaml:"automatic_scaling,omitempty"`
	Handlers         []Handler         `yaml:"handlers"`
	InboundServices  []string          `yaml:"inbound_services,omitempty"`
	EnvVariables     map[string]string `yaml:"env_variables,omitempty"`
}

// AutomaticScaling contains the automatic scaling policy of a version.
type AutomaticScaling struct {
	MinInstances                int     `yaml:"min_instances,omitempty"`
	MaxInstances                int     `yaml:"max_instances,omitempty"`
	TargetCPUUtilization        float64 `yaml:"target_cpu_utilization,omitempty"`
	TargetThroughputUtilization float64 `yaml:"target_throughput_utilization,omitempty"`
	MaxConcurrentRequests       int     `yaml:"max_concurrent_requests,omitempty"`
}

// Handler routes a URL pattern to static content or to the application.
type Handler struct {
	URL         string `yaml:"url"`
	StaticDir   string `yaml:"static_dir,omitempty"`
	StaticFiles string `yaml:"static_files,omitempty"`
	Upload      string `yaml:"upload,omitempty"`
	Script      string `yaml:"script,omitempty"`
	Secure      string `yaml:"secure,omitempty"`
}

// Default returns the descriptor of the Causal Impact web app.
func Default() *Descriptor {
	return &Descriptor{
		Runtime:       "python311",
		Entrypoint:    "gunicorn -b :$PORT main:app",
		InstanceClass: "F4",
		AutomaticScaling: &AutomaticScaling{
			MaxInstances: 3,
		},
		Handlers: []Handler{
			{
				URL:       "/static",
				StaticDir: "static",
				Secure:    "always",
			},
			{
				URL:         `/favicon\.ico`,
				StaticFiles: "static/images/favicon.ico",
				Upload:      `static/images/favicon\.ico`,
				Secure:      "always",
			},
			{
				URL:    "/.*",
				Script: "auto",
				Secure: "always",
			},
		},
		InboundServices: []string{"warmup"},
		EnvVariables: map[string]string{
			"SLIDE_TEMPLATE": "",
		},
	}
}

// Load reads and validates the descriptor at path.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment descriptor %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates a descriptor.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode deployment descriptor: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}

// Validate checks the fields needed to deploy a version.
func (d *Descriptor) Validate() error {
	if d.Runtime == "" {
		return fmt.Errorf("%w: runtime is required", ErrInvalidDescriptor)
	}
	if len(d.Handlers) == 0 {
		return fmt.Errorf("%w: at least one handler is required", ErrInvalidDescriptor)
	}

	for i, h := range d.Handlers {
		if h.URL == "" {
			return fmt.Errorf("%w: handler %d has no url", ErrInvalidDescriptor, i)
		}

		targets := 0
		for _, target := range []string{h.StaticDir, h.StaticFiles, h.Script} {
			if target != "" {
				targets++
			}
		}
		if targets != 1 {
			return fmt.Errorf("%w: handler %q must set exactly one of static_dir, static_files or script", ErrInvalidDescriptor, h.URL)
		}

		if h.StaticFiles != "" && h.Upload == "" {
			return fmt.Errorf("%w: handler %q sets static_files without upload", ErrInvalidDescriptor, h.URL)
		}
	}

	return nil
}
