// Where: internal/synth/manifest.go
// What: Assembly manifest describing templates and image builds.
// Why: Give build and publish steps a single machine-readable index of the synthesis.
package synth

import (
	"encoding/json"
	"sort"

	"github.com/poruru/mlstack/internal/descriptor"
	"github.com/poruru/mlstack/internal/packaging"
)

// ManifestVersion is bumped when the manifest layout changes.
const ManifestVersion = 1

// Manifest indexes one assembly.
type Manifest struct {
	Version   int                `json:"version"`
	Stack     string             `json:"stack"`
	Templates []ManifestTemplate `json:"templates"`
	Images    []ManifestImage    `json:"images"`
	Endpoint  ManifestEndpoint   `json:"endpoint"`
}

type ManifestTemplate struct {
	LogicalID string `json:"logicalId"`
	File      string `json:"file"`
	URL       string `json:"url,omitempty"`
	SHA256    string `json:"sha256"`
	Nested    bool   `json:"nested"`
}

type ManifestImage struct {
	Function string            `json:"function"`
	Context  string            `json:"context"`
	Image    string            `json:"image"`
	Labels   map[string]string `json:"labels,omitempty"`
}

// ManifestEndpoint documents the HTTP surface.
type ManifestEndpoint struct {
	Route        string   `json:"route"`
	Output       string   `json:"output"`
	Branches     []string `json:"branches"`
	AllowOrigins []string `json:"allowOrigins"`
}

func buildManifest(spec descriptor.StackSpec, jobs []packaging.ImageJob, templates []TemplateFile) Manifest {
	m := Manifest{
		Version: ManifestVersion,
		Stack:   spec.Name,
		Endpoint: ManifestEndpoint{
			Route:        spec.Gateway.Route.Key(),
			Output:       spec.Gateway.ArnOutput(),
			AllowOrigins: append([]string{}, spec.Gateway.Cors.AllowOrigins...),
		},
	}
	for _, branch := range spec.Orchestration.FanOut.Branches {
		m.Endpoint.Branches = append(m.Endpoint.Branches, string(branch.Key))
	}
	for _, tf := range templates {
		m.Templates = append(m.Templates, ManifestTemplate{
			LogicalID: tf.LogicalID,
			File:      tf.FileName,
			URL:       tf.URL,
			SHA256:    tf.Digest(),
			Nested:    tf.Nested,
		})
	}
	for _, job := range jobs {
		m.Images = append(m.Images, ManifestImage{
			Function: job.Name,
			Context:  job.Context,
			Image:    job.Image.URI(),
			Labels:   job.Labels,
		})
	}
	sort.SliceStable(m.Images, func(i, j int) bool { return m.Images[i].Function < m.Images[j].Function })
	return m
}

// JSON encodes the manifest with indentation.
func (m Manifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// ParseManifest decodes a manifest written by Assembly.Write.
func ParseManifest(payload []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(payload, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
