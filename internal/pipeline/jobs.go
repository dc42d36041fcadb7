package pipeline

import (
	"fmt"
	"os"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"gopkg.in/yaml.v3"
	"k8s.io/utils/ptr"
)

// Job is one scheduled render as written in the jobs file.
type Job struct {
	Product         string             `yaml:"product"`
	ReferenceSystem string             `yaml:"reference_system"`
	Threshold       *float64           `yaml:"threshold"`
	SubArea         string             `yaml:"sub_area"`
	ShowSamples     bool               `yaml:"show_samples"`
	Show            map[string]bool    `yaml:"show"`
	Linewidth       map[string]float64 `yaml:"linewidth"`
}

type jobsFile struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadJobs reads a YAML jobs file.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}
	return ParseJobs(data)
}

// ParseJobs decodes and validates YAML job definitions.
func ParseJobs(data []byte) ([]Job, error) {
	var f jobsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	for i, j := range f.Jobs {
		if _, err := j.Request(""); err != nil {
			return nil, fmt.Errorf("job %d: %w", i+1, err)
		}
	}
	return f.Jobs, nil
}

// DefaultJobs renders every catalog product with one reference system.
func DefaultJobs(referenceSystem string) []Job {
	products := domain.Products()
	jobs := make([]Job, len(products))
	for i, p := range products {
		jobs[i] = Job{Product: p.ID, ReferenceSystem: referenceSystem}
	}
	return jobs
}

// Request converts the job into a render request. defaultReference is used
// when the job names no reference system.
func (j Job) Request(defaultReference string) (Request, error) {
	if _, ok := domain.LookupProduct(j.Product); !ok {
		return Request{}, fmt.Errorf("%q: %w", j.Product, ErrUnknownProduct)
	}

	ref := j.ReferenceSystem
	if ref == "" {
		ref = defaultReference
	}
	cfg := domain.BorderConfig{ReferenceSystem: ref}
	for name, show := range j.Show {
		l, err := domain.ParseLayer(name)
		if err != nil {
			return Request{}, err
		}
		cfg.Show[l] = ptr.To(show)
	}
	for name, lw := range j.Linewidth {
		l, err := domain.ParseLayer(name)
		if err != nil {
			return Request{}, err
		}
		if lw <= 0 {
			return Request{}, fmt.Errorf("%s linewidth %g must be positive", name, lw)
		}
		cfg.Linewidth[l] = ptr.To(lw)
	}

	return Request{
		Product:     j.Product,
		Borders:     cfg,
		Threshold:   j.Threshold,
		SubArea:     j.SubArea,
		ShowSamples: j.ShowSamples,
	}, nil
}
