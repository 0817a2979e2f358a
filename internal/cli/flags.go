package cli

import (
	"github.com/spf13/pflag"

	"github.com/rileyhilliard/sup/internal/env"
)

// Flag names. The ones in boundFlags can also be set through SUP_<NAME>,
// with dashes turned into underscores.
const (
	flagFile          = "file"
	flagDebug         = "debug"
	flagEnv           = "env"
	flagOnly          = "only"
	flagExcept        = "except"
	flagDisablePrefix = "disable-prefix"
	flagStrict        = "strict"
	flagSSH           = "ssh"
	flagNoColor       = "no-color"
)

var boundFlags = []string{flagFile, flagDebug, flagDisablePrefix, flagStrict, flagSSH, flagNoColor}

// Flags that only make sense on the command line.
var (
	envFlags   []string
	onlyFlag   string
	exceptFlag string
)

// addGlobalFlags registers the flags shared by every command.
func addGlobalFlags(flags *pflag.FlagSet) {
	flags.StringP(flagFile, "f", "", "path to the Supfile (default: ./Supfile.yml)")
	flags.BoolP(flagDebug, "D", false, "print debug output")
	flags.StringArrayVarP(&envFlags, flagEnv, "e", nil, "set a variable as KEY=VALUE (repeatable)")
	flags.StringVar(&onlyFlag, flagOnly, "", "only run on hosts matching this regexp")
	flags.StringVar(&exceptFlag, flagExcept, "", "skip hosts matching this regexp")
	flags.Bool(flagDisablePrefix, false, "don't prefix remote output with the host name")
	flags.Bool(flagStrict, false, "exit non-zero if any host failed")
	flags.String(flagSSH, "ssh", "remote shell client, with optional arguments")
	flags.Bool(flagNoColor, false, "disable colored output")
}

// workflowOptions are the settings of one invocation after flags and SUP_*
// variables are merged.
type workflowOptions struct {
	ConfigPath    string
	Overrides     map[string]string
	Only          string
	Except        string
	DisablePrefix bool
	Strict        bool
	Client        string
}

func currentOptions() (workflowOptions, error) {
	overrides, err := env.ParseOverrides(envFlags)
	if err != nil {
		return workflowOptions{}, err
	}

	return workflowOptions{
		ConfigPath:    settings.GetString(flagFile),
		Overrides:     overrides,
		Only:          onlyFlag,
		Except:        exceptFlag,
		DisablePrefix: settings.GetBool(flagDisablePrefix),
		Strict:        settings.GetBool(flagStrict),
		Client:        settings.GetString(flagSSH),
	}, nil
}
