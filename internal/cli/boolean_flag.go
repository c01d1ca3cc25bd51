package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "bool"
	toggleFlagTrueLiteral    = "true"
	toggleFlagAcceptedValues = "true, false, yes, no, on, off, 1, 0"
	invalidToggleValueFormat = "invalid value %q for --%s; accepted values: %s"
	longFlagPrefix           = "--"
	argumentTerminator       = "--"
)

// toggleFlagLiterals lists every spelling accepted by --verbose, --no-gitignore, --stdout,
// --copy, --tokens, --global and --force.
var toggleFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseToggleLiteral reports the value of a literal and whether it was recognized.
func parseToggleLiteral(input string) (bool, bool) {
	value, recognized := toggleFlagLiterals[strings.ToLower(strings.TrimSpace(input))]
	return value, recognized
}

// toggleFlagValue is a boolean flag that may be given bare, as --name=value, or as --name value
// once the arguments pass through normalizeToggleArguments.
type toggleFlagValue struct {
	target   *bool
	flagName string
}

func (value *toggleFlagValue) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		input = toggleFlagTrueLiteral
	}
	parsed, recognized := parseToggleLiteral(input)
	if !recognized || value.target == nil {
		return fmt.Errorf(invalidToggleValueFormat, input, value.flagName, toggleFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlagValue{target: target, flagName: name}, name, usage)
	flag := flagSet.Lookup(name)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = toggleFlagTrueLiteral
}

// normalizeToggleArguments folds "--name literal" into "--name=literal" for toggle flags in
// scope: the root's persistent toggles, plus the local toggles of the subcommand once its name
// or alias has been seen. Anything else after a toggle, such as "generate --copy ./api",
// stays positional. Arguments after "--" are left untouched.
func normalizeToggleArguments(rootCommand *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleNames(rootCommand.PersistentFlags(), toggleNames)
	subcommandSeen := false

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == argumentTerminator {
			return append(normalized, arguments[index:]...)
		}
		if !subcommandSeen && !strings.HasPrefix(argument, "-") {
			if subcommand := findSubcommand(rootCommand, argument); subcommand != nil {
				collectToggleNames(subcommand.Flags(), toggleNames)
				subcommandSeen = true
			}
			normalized = append(normalized, argument)
			continue
		}
		flagName, isLongFlag := strings.CutPrefix(argument, longFlagPrefix)
		if isLongFlag && index+1 < len(arguments) {
			_, isToggle := toggleNames[flagName]
			nextArgument := arguments[index+1]
			if _, isLiteral := parseToggleLiteral(nextArgument); isToggle && isLiteral {
				normalized = append(normalized, argument+"="+nextArgument)
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func findSubcommand(rootCommand *cobra.Command, name string) *cobra.Command {
	for _, subcommand := range rootCommand.Commands() {
		if subcommand.Name() == name || subcommand.HasAlias(name) {
			return subcommand
		}
	}
	return nil
}

func collectToggleNames(flagSet *pflag.FlagSet, target map[string]struct{}) {
	flagSet.VisitAll(func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleFlagValue); isToggle {
			target[flag.Name] = struct{}{}
		}
	})
}
