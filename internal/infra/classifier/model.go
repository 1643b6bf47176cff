// Package classifier implements the compliment gate as a logistic model
// over the five scored features.
package classifier

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tutu-network/kudos/internal/domain"
)

// modelFile is the on-disk model description.
//
//	version   = "2024-06-01"
//	threshold = 0.5
//	intercept = -4.0
//	[coefficients]
//	karma_growth = 0.012
//	...
type modelFile struct {
	Version      string             `toml:"version"`
	Threshold    *float64           `toml:"threshold"`
	Intercept    float64            `toml:"intercept"`
	Coefficients map[string]float64 `toml:"coefficients"`
}

// LogisticModel predicts 1 when sigmoid(intercept + w·x) reaches threshold.
// Immutable after Load; safe for concurrent use.
type LogisticModel struct {
	version   string
	threshold float64
	intercept float64
	weights   domain.FeatureVector
}

// Load reads a TOML model file.
func Load(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelInvalid, err)
	}
	var f modelFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrModelInvalid, path, err)
	}
	m, err := newModel(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrModelInvalid, path, err)
	}
	return m, nil
}

// New builds a model from explicit parameters, weights in scored-feature order.
func New(version string, threshold, intercept float64, weights domain.FeatureVector) (*LogisticModel, error) {
	coef := make(map[string]float64, len(weights))
	for i, f := range domain.ScoredFeatures {
		coef[string(f)] = weights[i]
	}
	m, err := newModel(modelFile{Version: version, Threshold: &threshold, Intercept: intercept, Coefficients: coef})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelInvalid, err)
	}
	return m, nil
}

func newModel(f modelFile) (*LogisticModel, error) {
	if strings.TrimSpace(f.Version) == "" {
		return nil, fmt.Errorf("version is required")
	}
	if f.Threshold == nil {
		return nil, fmt.Errorf("threshold is required")
	}
	if *f.Threshold <= 0 || *f.Threshold >= 1 || math.IsNaN(*f.Threshold) {
		return nil, fmt.Errorf("threshold %v outside (0, 1)", *f.Threshold)
	}

	m := &LogisticModel{version: f.Version, threshold: *f.Threshold, intercept: f.Intercept}
	known := make(map[string]bool, len(domain.ScoredFeatures))
	var missing []string
	for i, feat := range domain.ScoredFeatures {
		known[string(feat)] = true
		w, ok := f.Coefficients[string(feat)]
		if !ok {
			missing = append(missing, string(feat))
			continue
		}
		m.weights[i] = w
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing coefficients: %s", strings.Join(missing, ", "))
	}
	for name := range f.Coefficients {
		if !known[name] {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
	}
	return m, nil
}

// Probability returns the model's compliment probability for v.
func (m *LogisticModel) Probability(v domain.FeatureVector) float64 {
	z := m.intercept
	for i := range v {
		z += m.weights[i] * v[i]
	}
	return 1 / (1 + math.Exp(-z))
}

// Predict implements domain.Predictor.
func (m *LogisticModel) Predict(v domain.FeatureVector) int {
	if m.Probability(v) >= m.threshold {
		return 1
	}
	return 0
}

// Version identifies the loaded model.
func (m *LogisticModel) Version() string { return m.version }
