// Package output serializes the four generated documents. All documents are
// encoded before the first file is touched, so an encoding failure writes
// nothing.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/albapepper/cardgraph/internal/aggregate"
	"github.com/albapepper/cardgraph/internal/colors"
	"github.com/albapepper/cardgraph/internal/config"
)

// Documents is the complete output of one regeneration.
type Documents struct {
	Network aggregate.Network
	Players []aggregate.PlayerSummary
	Teams   aggregate.TeamSummary
	Colors  colors.Assignment
}

// Encode renders every document as indented JSON keyed by file name.
func (d *Documents) Encode() (map[string][]byte, error) {
	values := map[string]any{
		config.NetworkFile: d.Network,
		config.PlayersFile: nonNil(d.Players),
		config.TeamsFile:   d.Teams,
		config.ColorsFile:  d.Colors,
	}
	encoded := make(map[string][]byte, len(values))
	for name, v := range values {
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		encoded[name] = append(raw, '\n')
	}
	return encoded, nil
}

// Write encodes the documents and writes them into dir, returning the paths
// written in order. Each file is replaced atomically; a failure part way
// can leave earlier files updated.
func Write(dir string, d *Documents) ([]string, error) {
	encoded, err := d.Encode()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	written := make([]string, 0, len(config.OutputFiles))
	for _, name := range config.OutputFiles {
		path := filepath.Join(dir, name)
		if err := writeFileAtomic(path, encoded[name]); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// DecodePlayers parses the bytes of a players document.
func DecodePlayers(raw []byte) ([]aggregate.PlayerSummary, error) {
	var players []aggregate.PlayerSummary
	if err := json.Unmarshal(raw, &players); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	return players, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func nonNil(p []aggregate.PlayerSummary) []aggregate.PlayerSummary {
	if p == nil {
		return []aggregate.PlayerSummary{}
	}
	return p
}
