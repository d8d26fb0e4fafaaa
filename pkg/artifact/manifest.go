package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

// Sample is one entry of the samples manifest.
type Sample struct {
	// Name identifies the sample and becomes the stem of its output
	// table (<Name>_NTScore.csv.gz).
	Name string `yaml:"Name"`

	// Coordinates points at the sample's cell coordinate table,
	// relative to the manifest file unless absolute.
	Coordinates string `yaml:"Coordinates"`

	// Weights optionally points at the sample's niche weight matrix.
	// When empty the conventional <GNN-dir>/<Name>_NicheWeightMatrix.csv.gz
	// location is used.
	Weights string `yaml:"Weights"`
}

// Manifest lists the samples of one run in their stacking order: sample
// i owns the rows of the loading matrix after samples 0..i-1.
type Manifest struct {
	Data []Sample `yaml:"Data"`

	// dir is the manifest file's directory, the base for relative paths.
	dir string
}

// LoadManifest reads and validates a YAML samples manifest. Unknown
// keys are ignored (upstream stages keep their own fields, such as
// Features, in the same file). Sample names must be non-empty, unique,
// and safe as filename stems.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nterrors.Wrap(nterrors.ErrCodeMissingArtifact, err,
			"samples manifest %s does not exist", path)
	}
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeMissingArtifact, err,
			"open samples manifest %s", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidManifest, err,
			"parse samples manifest %s", path)
	}
	m.dir = filepath.Dir(path)

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("samples manifest %s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Data) == 0 {
		return nterrors.New(nterrors.ErrCodeInvalidManifest, "no samples listed under Data")
	}

	seen := make(map[string]bool, len(m.Data))
	for i, s := range m.Data {
		if err := nterrors.ValidateSampleName(s.Name); err != nil {
			return nterrors.Wrap(nterrors.ErrCodeInvalidManifest, err, "sample %d", i)
		}
		if seen[s.Name] {
			return nterrors.New(nterrors.ErrCodeInvalidManifest,
				"duplicate sample name %q", s.Name)
		}
		seen[s.Name] = true

		if s.Coordinates == "" {
			return nterrors.New(nterrors.ErrCodeInvalidManifest,
				"sample %q has no Coordinates path", s.Name)
		}
	}
	return nil
}

// CoordinatesPath resolves a sample's coordinate table location.
func (m *Manifest) CoordinatesPath(s Sample) string {
	return m.resolve(s.Coordinates)
}

// WeightsPath resolves a sample's niche weight matrix location, falling
// back to the conventional name under gnnDir when the manifest does not
// name one.
func (m *Manifest) WeightsPath(s Sample, gnnDir string) string {
	if s.Weights == "" {
		return filepath.Join(gnnDir, s.Name+"_NicheWeightMatrix.csv.gz")
	}
	return m.resolve(s.Weights)
}

func (m *Manifest) resolve(path string) string {
	if filepath.IsAbs(path) || m.dir == "" {
		return path
	}
	return filepath.Join(m.dir, path)
}
