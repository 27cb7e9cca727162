package cli

import (
	"flag"
	"io"
	"strings"
)

// OptimizeFlags are the flags for the one-shot optimizer command
type OptimizeFlags struct {
	ConfigPath   string
	Towns        string // Comma-separated town IDs; empty = profile towns or all towns
	Import       string // CSV or JSON quantities file
	Strategy     string
	ValhallaOnly bool
	Profile      string // Profile ID or name to load inputs from
	SaveProfile  string // Save the effective inputs under this profile name
	Export       string // Write the report to a .csv or .json file
	NoHistory    bool
	Verbose      bool

	// Quantities are positional NAME=QTY arguments
	Quantities []string

	set map[string]bool
}

// ParseOptimizeFlags parses optimizer flags from args (without the program name)
func ParseOptimizeFlags(args []string, output io.Writer) (*OptimizeFlags, error) {
	fs := flag.NewFlagSet("decor-optimizer", flag.ContinueOnError)
	fs.SetOutput(output)

	flags := &OptimizeFlags{}
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Configuration file path")
	fs.StringVar(&flags.Towns, "towns", "", "Comma-separated towns in processing order (e.g. town1,town2,evergarden)")
	fs.StringVar(&flags.Import, "import", "", "Quantities file (.csv name,quantity or .json {\"name\": qty})")
	fs.StringVar(&flags.Strategy, "strategy", "", "Allocation strategy: maximum or balanced (default from config)")
	fs.BoolVar(&flags.ValhallaOnly, "valhalla-only", false, "Reserve Evergarden for Valhalla decorations")
	fs.StringVar(&flags.Profile, "profile", "", "Load inputs from a saved profile (ID or name)")
	fs.StringVar(&flags.SaveProfile, "save-profile", "", "Save the inputs as a profile with this name")
	fs.StringVar(&flags.Export, "export", "", "Write results to a .csv or .json file")
	fs.BoolVar(&flags.NoHistory, "no-history", false, "Do not open the database or record the run")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	flags.Quantities = fs.Args()
	flags.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { flags.set[f.Name] = true })

	return flags, nil
}

// IsSet reports whether the named flag was given explicitly
func (f *OptimizeFlags) IsSet(name string) bool {
	return f.set[name]
}

// TownList splits the -towns value, dropping blanks
func (f *OptimizeFlags) TownList() []string {
	var towns []string
	for _, t := range strings.Split(f.Towns, ",") {
		if t = strings.TrimSpace(t); t != "" {
			towns = append(towns, t)
		}
	}
	return towns
}
