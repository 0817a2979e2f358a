package config

// Supfile represents the complete Supfile.yml document.
type Supfile struct {
	Version  string              `yaml:"version"`
	Env      map[string]string   `yaml:"env"`
	Networks map[string]Network  `yaml:"networks"`
	Commands map[string]Command  `yaml:"commands"`
	Targets  map[string][]string `yaml:"targets"`
}

// Network is a named group of hosts plus how to discover them.
type Network struct {
	// Hosts are user@host literals, used in the listed order.
	Hosts []string `yaml:"hosts"`

	// Inventory is a local shell command whose stdout lines are appended
	// to Hosts at run time.
	Inventory string `yaml:"inventory"`

	// Env overrides global variables for this network.
	Env map[string]string `yaml:"env"`
}

// Command is a named recipe. Any subset of Local, Script, Run and Upload
// may be set; present stages run in that order.
type Command struct {
	// Name is filled in from the commands map key after loading.
	Name string `yaml:"-"`

	Desc   string   `yaml:"desc"`
	Local  string   `yaml:"local"`
	Script string   `yaml:"script"`
	Run    string   `yaml:"run"`
	Upload []Upload `yaml:"upload"`

	// Stdin runs Run interactively on exactly one host with a TTY.
	Stdin bool `yaml:"stdin"`

	// Once runs Run on the first matching host only.
	Once bool `yaml:"once"`

	// Serial, when set, runs Run in consecutive batches of this many hosts.
	Serial *int `yaml:"serial"`
}

// BatchSize returns the serial batch size and whether one was configured.
func (c Command) BatchSize() (int, bool) {
	if c.Serial == nil {
		return 0, false
	}
	return *c.Serial, true
}

// HasStages reports whether the command would do anything at all.
func (c Command) HasStages() bool {
	return c.Local != "" || c.Script != "" || c.Run != "" || len(c.Upload) > 0
}

// Upload copies a local file or directory into a remote directory.
type Upload struct {
	Src string `yaml:"src"`
	Dst string `yaml:"dst"`
}
