package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/spatial"
)

// ErrSyntax indicates a command line that could not be parsed.
var ErrSyntax = errors.New("command: syntax error")

// Verbs understood by the handler.
const (
	VerbPlace   = "place"
	VerbTap     = "tap"
	VerbEdge    = "edge"
	VerbUnlink  = "unlink"
	VerbSelect  = "select"
	VerbCancel  = "cancel"
	VerbRemove  = "remove"
	VerbName    = "name"
	VerbAt      = "at"
	VerbGo      = "go"
	VerbReset   = "reset"
	VerbSave    = "save"
	VerbLoad    = "load"
	VerbIslands = "islands"
	VerbAround  = "around"
	VerbList    = "list"
	VerbHelp    = "help"
)

// Command is a parsed command line. Only the fields relevant to Verb are set.
type Command struct {
	Verb   string
	Points []spatial.Vector3  // place, edge, unlink, select, remove, at, go ... from
	Screen spatial.ScreenPoint // tap
	Name   string              // name, go (destination text)
	Target core.NodeID         // name <name> = <id>; NoNode otherwise
	From   bool                // go ... from x y z
	Hops   int                 // around
}

// Parse turns one line into a Command. Verbs are case-insensitive; names
// and destinations may contain spaces.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty command", ErrSyntax)
	}
	cmd := Command{Verb: strings.ToLower(fields[0]), Target: core.NoNode}
	args := fields[1:]

	var err error
	switch cmd.Verb {
	case VerbPlace, VerbSelect, VerbRemove, VerbAt:
		cmd.Points, err = points(args, 1)
	case VerbEdge, VerbUnlink:
		cmd.Points, err = points(args, 2)
	case VerbTap:
		var xy []float64
		if xy, err = floats(args, 2); err == nil {
			cmd.Screen = spatial.ScreenPoint{X: xy[0], Y: xy[1]}
		}
	case VerbName:
		err = parseName(&cmd, args)
	case VerbGo:
		err = parseGo(&cmd, args)
	case VerbAround:
		err = parseAround(&cmd, args)
	case VerbCancel, VerbReset, VerbSave, VerbLoad, VerbIslands, VerbList, VerbHelp:
		if len(args) != 0 {
			err = fmt.Errorf("%w: %s takes no arguments", ErrSyntax, cmd.Verb)
		}
	default:
		err = fmt.Errorf("%w: unknown command %q", ErrSyntax, fields[0])
	}
	if err != nil {
		return Command{Verb: cmd.Verb}, err
	}

	return cmd, nil
}

// parseName handles "name <words...>" and "name <words...> = <id>".
func parseName(cmd *Command, args []string) error {
	if eq := indexOf(args, "="); eq >= 0 {
		if eq != len(args)-2 {
			return fmt.Errorf("%w: usage: name <name> = <id>", ErrSyntax)
		}
		id, err := strconv.ParseInt(args[eq+1], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a waypoint id", ErrSyntax, args[eq+1])
		}
		cmd.Target = core.NodeID(id)
		args = args[:eq]
	}
	cmd.Name = strings.Join(args, " ")
	if cmd.Name == "" {
		return fmt.Errorf("%w: usage: name <name> [= <id>]", ErrSyntax)
	}

	return nil
}

// parseGo handles "go <destination...> [from x y z]".
func parseGo(cmd *Command, args []string) error {
	if n := len(args); n >= 5 && strings.EqualFold(args[n-4], "from") {
		pts, err := points(args[n-3:], 1)
		if err != nil {
			return err
		}
		cmd.Points, cmd.From = pts, true
		args = args[:n-4]
	}
	cmd.Name = strings.Join(args, " ")
	if cmd.Name == "" {
		return fmt.Errorf("%w: usage: go <destination> [from x y z]", ErrSyntax)
	}

	return nil
}

// parseAround handles "around [hops]"; hops defaults to 1.
func parseAround(cmd *Command, args []string) error {
	cmd.Hops = 1
	switch len(args) {
	case 0:
		return nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %q is not a positive hop count", ErrSyntax, args[0])
		}
		cmd.Hops = n
		return nil
	}

	return fmt.Errorf("%w: usage: around [hops]", ErrSyntax)
}

func points(args []string, n int) ([]spatial.Vector3, error) {
	v, err := floats(args, 3*n)
	if err != nil {
		return nil, err
	}
	out := make([]spatial.Vector3, n)
	for i := range out {
		out[i] = spatial.Vector3{X: v[3*i], Y: v[3*i+1], Z: v[3*i+2]}
		if !spatial.Finite(out[i]) {
			return nil, fmt.Errorf("%w: coordinates must be finite", ErrSyntax)
		}
	}

	return out, nil
}

func floats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: want %d numbers, got %d", ErrSyntax, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrSyntax, a)
		}
		out[i] = f
	}

	return out, nil
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}

	return -1
}
