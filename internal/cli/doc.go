// Package cli implements the sup command-line interface.
//
// The root command takes a network name followed by one or more command or
// target names and hands them to the workflow:
//
//  1. Find, load and validate the Supfile
//  2. Look up the network and expand every name (targets win over commands)
//  3. Merge the environment layers and build an engine.Engine
//  4. Execute each command in order, stopping at the first fatal error
//
// With fewer than two arguments the user picks from a huh prompt on a
// terminal; elsewhere the available networks and commands are printed and
// the invocation fails.
//
//	sup <network> <command|target>...  - Run commands on a network
//	sup hosts <network>                - Show resolved hosts and ssh_config settings
//	sup version                        - Print build information
//	sup completion <shell>             - Generate shell completions
//
// # Flag Handling
//
// Global flags are persistent flags on the root command. --file, --debug,
// --ssh, --strict, --disable-prefix and --no-color are bound through viper,
// so SUP_FILE, SUP_DEBUG, SUP_SSH, SUP_STRICT, SUP_DISABLE_PREFIX and
// SUP_NO_COLOR work too. An explicit flag wins over the variable.
//
// # Exit Status
//
// Execute prints structured errors as they render themselves. An error
// carrying an errors.ExitError exits with that status, anything else exits 1.
// Host failures in parallel and serial runs do not change the exit status
// unless --strict is set.
package cli
