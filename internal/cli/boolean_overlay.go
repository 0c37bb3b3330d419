package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanOverlayType          = "bool"
	booleanOverlayImplicitValue = "true"
	invalidBooleanLiteralFormat = "invalid boolean value %q for --%s; accepted values: %s"
)

var (
	trueLiterals  = []string{"true", "t", "1", "yes", "y", "on"}
	falseLiterals = []string{"false", "f", "0", "no", "n", "off"}
)

// parseBooleanLiteral accepts the true/false spellings above, case-insensitively.
func parseBooleanLiteral(input string) (bool, bool) {
	literal := strings.ToLower(strings.TrimSpace(input))
	switch {
	case slices.Contains(trueLiterals, literal):
		return true, true
	case slices.Contains(falseLiterals, literal):
		return false, true
	default:
		return false, false
	}
}

func acceptedBooleanLiterals() string {
	return strings.Join(append(slices.Clone(trueLiterals), falseLiterals...), ", ")
}

// booleanOverlay writes an explicitly given flag value into a configuration
// overlay field. The field stays nil while the flag is absent, so the overlay
// only carries what the user typed.
type booleanOverlay struct {
	field    **bool
	name     string
	fallback bool
}

func (overlay *booleanOverlay) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		input = booleanOverlayImplicitValue
	}
	parsed, known := parseBooleanLiteral(input)
	if !known {
		return fmt.Errorf(invalidBooleanLiteralFormat, input, overlay.name, acceptedBooleanLiterals())
	}
	*overlay.field = &parsed
	return nil
}

func (overlay *booleanOverlay) String() string {
	if overlay.field == nil || *overlay.field == nil {
		return strconv.FormatBool(overlay.fallback)
	}
	return strconv.FormatBool(**overlay.field)
}

func (overlay *booleanOverlay) Type() string {
	return booleanOverlayType
}

// bindBooleanOverlay registers --name (and -shorthand when given) so that a
// parsed value lands in field. A bare --name means true; fallback is only
// shown as the default in help output.
func bindBooleanOverlay(flagSet *pflag.FlagSet, field **bool, name, shorthand string, fallback bool, usage string) {
	flag := flagSet.VarPF(&booleanOverlay{field: field, name: name, fallback: fallback}, name, shorthand, usage)
	flag.DefValue = strconv.FormatBool(fallback)
	flag.NoOptDefVal = booleanOverlayImplicitValue
}

// joinBooleanLiterals rewrites "--name literal" as "--name=literal" for boolean
// flags anywhere in the command tree, so the literal is not read as a path.
func joinBooleanLiterals(root *cobra.Command, arguments []string) []string {
	booleanNames := booleanFlagNames(root)
	joined := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(joined, arguments[index:]...)
		}
		name, isLong := strings.CutPrefix(argument, "--")
		if isLong && booleanNames[name] && index+1 < len(arguments) {
			next := arguments[index+1]
			if _, known := parseBooleanLiteral(next); known && !strings.HasPrefix(next, "-") {
				joined = append(joined, argument+"="+next)
				index++
				continue
			}
		}
		joined = append(joined, argument)
	}
	return joined
}

func booleanFlagNames(root *cobra.Command) map[string]bool {
	names := map[string]bool{}
	if root == nil {
		return names
	}
	record := func(flag *pflag.Flag) {
		if flag.Value.Type() == booleanOverlayType {
			names[flag.Name] = true
		}
	}
	pending := []*cobra.Command{root}
	for len(pending) > 0 {
		command := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		command.PersistentFlags().VisitAll(record)
		command.Flags().VisitAll(record)
		pending = append(pending, command.Commands()...)
	}
	return names
}
