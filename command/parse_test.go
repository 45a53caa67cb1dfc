package command_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waypath/command"
	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/spatial"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want command.Command
	}{
		{"place 1 2 3", command.Command{
			Verb: "place", Target: core.NoNode, Points: []spatial.Vector3{{X: 1, Y: 2, Z: 3}},
		}},
		{"  EDGE 0 0 0  3 0 0", command.Command{
			Verb: "edge", Target: core.NoNode, Points: []spatial.Vector3{{}, {X: 3}},
		}},
		{"tap 0.5 -2", command.Command{
			Verb: "tap", Target: core.NoNode, Screen: spatial.ScreenPoint{X: 0.5, Y: -2},
		}},
		{"name Big Room", command.Command{Verb: "name", Target: core.NoNode, Name: "Big Room"}},
		{"name big room = 4", command.Command{Verb: "name", Target: 4, Name: "big room"}},
		{"go big room", command.Command{Verb: "go", Target: core.NoNode, Name: "big room"}},
		{"go 2 from 1 0 1", command.Command{
			Verb: "go", Target: core.NoNode, Name: "2", From: true, Points: []spatial.Vector3{{X: 1, Z: 1}},
		}},
		{"go from", command.Command{Verb: "go", Target: core.NoNode, Name: "from"}},
		{"islands", command.Command{Verb: "islands", Target: core.NoNode}},
		{"around", command.Command{Verb: "around", Target: core.NoNode, Hops: 1}},
		{"Around 3", command.Command{Verb: "around", Target: core.NoNode, Hops: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := command.Parse(tt.line)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		"fly 1 2 3",
		"place 1 2",
		"place 1 2 x",
		"place 1 NaN 3",
		"edge 0 0 0 1 1",
		"tap 1",
		"name",
		"name = 3",
		"name hall = x",
		"name hall = 3 4",
		"go",
		"around 0",
		"around x",
		"around 1 2",
		"reset now",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := command.Parse(line)
			require.True(t, errors.Is(err, command.ErrSyntax), "got %v", err)
		})
	}
}
