package salestune

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/salestune/salestune/forecast"
)

// Artifact is the serializable outcome of a final fit for one series: the
// selected config, the growth policy including its bounds, the winsorization
// applied to the full history, and the fitted model state. The serving layer
// loads it by its naming convention and applies no transform beyond what the
// growth policy encodes.
type Artifact struct {
	Key          SeriesKey             `json:"series_key"`
	Config       Config                `json:"config"`
	Growth       forecast.GrowthPolicy `json:"growth_policy"`
	WinsorCap    float64               `json:"winsor_cap"`
	FracClipped  float64               `json:"fraction_train_clipped"`
	TrainEndTime time.Time             `json:"train_end_time"`
	ModelState   json.RawMessage       `json:"model_state"`
}

// Filename follows the serving layer's naming convention keyed by category
// and target.
func (a *Artifact) Filename() string {
	return fmt.Sprintf("model__%s__%s.json", safeName(a.Key.Category), safeName(string(a.Key.Target)))
}

func safeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "__", "_")
}

// Save writes the artifact into dir under its naming convention and returns
// the written path.
func (a *Artifact) Save(dir string) (string, error) {
	out, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("unable to marshal artifact for %s, %w", a.Key, err)
	}
	path := filepath.Join(dir, a.Filename())
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("unable to write artifact for %s, %w", a.Key, err)
	}
	return path, nil
}

// LoadArtifact reads a previously saved artifact.
func LoadArtifact(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read artifact, %w", err)
	}
	var art Artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("unable to unmarshal artifact, %w", err)
	}
	return &art, nil
}
