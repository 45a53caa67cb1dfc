// Package scenario loads seed maps written in HCL and applies them through
// the editor.
//
// A scenario declares named waypoints and the links between them:
//
//	waypoint "door" {
//	  at      = [0, 0, 0]
//	  aliases = ["entrance"]
//	}
//
//	waypoint "desk" {
//	  at = [3, 0, 4]
//	}
//
//	link {
//	  between = ["door", "desk"]
//	}
//
// Waypoint names follow the directory rules: case-insensitive, trimmed.
package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/editor"
	"github.com/katalvlaran/waypath/internal/ctxlog"
	"github.com/katalvlaran/waypath/names"
	"github.com/katalvlaran/waypath/spatial"
)

// ErrInvalid wraps every semantic problem in a scenario.
var ErrInvalid = errors.New("scenario: invalid scenario")

// Waypoint is one declared waypoint.
type Waypoint struct {
	Name    string
	At      spatial.Vector3
	Aliases []string
}

// Scenario is a decoded seed file.
type Scenario struct {
	Waypoints []Waypoint
	Links     [][2]string
}

// hclScenarioFile represents the top-level structure of a scenario file for decoding.
type hclScenarioFile struct {
	Waypoints []*hclWaypoint `hcl:"waypoint,block"`
	Links     []*hclLink     `hcl:"link,block"`
}

type hclWaypoint struct {
	Name    string    `hcl:"name,label"`
	At      []float64 `hcl:"at"`
	Aliases []string  `hcl:"aliases,optional"`
}

type hclLink struct {
	Between []string `hcl:"between"`
}

// Parse decodes and validates scenario source. filename is used in
// diagnostics only.
func Parse(src []byte, filename string) (*Scenario, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("scenario: failed to parse %s: %w", filename, diags)
	}

	return decode(file.Body, filename)
}

// LoadFile reads, decodes and validates the scenario at path.
func LoadFile(ctx context.Context, path string) (*Scenario, error) {
	ctxlog.FromContext(ctx).Debug("Loading scenario", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("scenario: failed to parse %s: %w", path, diags)
	}

	return decode(file.Body, path)
}

func decode(body hcl.Body, filename string) (*Scenario, error) {
	var parsed hclScenarioFile
	if diags := gohcl.DecodeBody(body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("scenario: failed to decode %s: %w", filename, diags)
	}

	sc := &Scenario{
		Waypoints: make([]Waypoint, 0, len(parsed.Waypoints)),
		Links:     make([][2]string, 0, len(parsed.Links)),
	}
	for _, w := range parsed.Waypoints {
		if len(w.At) != 3 {
			return nil, fmt.Errorf("%w: waypoint %q: at needs 3 coordinates, got %d", ErrInvalid, w.Name, len(w.At))
		}
		sc.Waypoints = append(sc.Waypoints, Waypoint{
			Name:    w.Name,
			At:      spatial.Vector3{X: w.At[0], Y: w.At[1], Z: w.At[2]},
			Aliases: w.Aliases,
		})
	}
	for i, l := range parsed.Links {
		if len(l.Between) != 2 {
			return nil, fmt.Errorf("%w: link %d: between needs 2 names, got %d", ErrInvalid, i, len(l.Between))
		}
		sc.Links = append(sc.Links, [2]string{l.Between[0], l.Between[1]})
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	return sc, nil
}

// Validate checks that names are unique, positions finite and links refer
// to declared waypoints.
func (s *Scenario) Validate() error {
	declared := make(map[string]bool)
	for _, w := range s.Waypoints {
		if !spatial.Finite(w.At) {
			return fmt.Errorf("%w: waypoint %q has a non-finite position", ErrInvalid, w.Name)
		}
		for _, n := range append([]string{w.Name}, w.Aliases...) {
			key := names.Normalize(n)
			if key == "" {
				return fmt.Errorf("%w: waypoint %q has an empty name", ErrInvalid, w.Name)
			}
			if declared[key] {
				return fmt.Errorf("%w: name %q declared twice", ErrInvalid, key)
			}
			declared[key] = true
		}
	}
	for _, l := range s.Links {
		for _, n := range l {
			if !declared[names.Normalize(n)] {
				return fmt.Errorf("%w: link references unknown waypoint %q", ErrInvalid, n)
			}
		}
	}

	return nil
}

// Apply places every waypoint, binds its names and adds the links. It
// returns the node placed for each waypoint, keyed by normalized name.
func (s *Scenario) Apply(ctx context.Context, ed *editor.Editor) (map[string]core.NodeID, error) {
	placed := make(map[string]core.NodeID, len(s.Waypoints))
	for _, w := range s.Waypoints {
		id := ed.PlaceNode(ctx, w.At)
		for _, n := range append([]string{w.Name}, w.Aliases...) {
			if err := ed.NameNode(ctx, n, id); err != nil {
				return placed, fmt.Errorf("scenario: naming %q: %w", n, err)
			}
			placed[names.Normalize(n)] = id
		}
	}
	for _, l := range s.Links {
		a, b := placed[names.Normalize(l[0])], placed[names.Normalize(l[1])]
		if err := ed.Graph().AddEdge(a, b); err != nil {
			return placed, fmt.Errorf("scenario: linking %q and %q: %w", l[0], l[1], err)
		}
	}
	ctxlog.FromContext(ctx).Info("scenario applied", "waypoints", len(s.Waypoints), "links", len(s.Links))

	return placed, nil
}
