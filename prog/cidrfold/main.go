package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/netsum/cidrfold/blockset"
	"github.com/netsum/cidrfold/common"
	"github.com/netsum/cidrfold/net/address"
)

var version = "(unreleased version)"

var cfgFile string

func handleError(err error) { common.CheckFatal(err) }

func main() {
	rootCmd := &cobra.Command{
		Use:   "cidrfold [flags] [file ...]",
		Short: "Aggregate, invert and subtract CIDR block lists",
		Long: `cidrfold reads IP addresses, CIDR blocks and address ranges, one per
line, and prints the minimal set of CIDR blocks covering the same
address space. The set can be inverted or have an exclusion list
subtracted from it. With no file arguments (or "-") it reads from
standard input.`,
		Version: version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(cmd)
		},
		Run: root,
	}

	flags := rootCmd.PersistentFlags()
	flags.Bool("reverse", false, "emit the complement of the final set")
	flags.Bool("merge", true, "allow merging across block origins when applying --exclude")
	flags.String("exclude", "", "subtract the address space listed in this file")
	flags.Int("prefix-v4", 0, "expand IPv4 output blocks to this prefix length (0 disables)")
	flags.Int("prefix-v6", 0, "expand IPv6 output blocks to this prefix length (0 disables)")
	flags.String("separator", ",", "separator between the two bounds of a range line")
	flags.String("log-level", "info", "logging level (debug, info, warning, error)")
	flags.String("profile", "", "write a CPU profile under this directory")
	flags.StringVar(&cfgFile, "config", "", "optional YAML config file")

	handleError(rootCmd.Execute())
}

// initializeConfig wires flags, CIDRFOLD_* environment variables and an
// optional config file into viper; explicit flags win, then env, then
// the file.
func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrap(err, "reading config file")
		}
	}
	viper.SetEnvPrefix("CIDRFOLD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	return viper.BindPFlags(cmd.PersistentFlags())
}

func root(cmd *cobra.Command, args []string) {
	common.SetLogLevel(viper.GetString("log-level"))
	common.Log.Debugf("cidrfold %s", version)

	if dir := viper.GetString("profile"); dir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.NoShutdownHook).Stop()
	}

	prefixV4 := viper.GetInt("prefix-v4")
	prefixV6 := viper.GetInt("prefix-v6")
	if prefixV4 < 0 || prefixV4 > 32 {
		common.Log.Fatalf("--prefix-v4 must be between 0 and 32, got %d", prefixV4)
	}
	if prefixV6 < 0 || prefixV6 > 128 {
		common.Log.Fatalf("--prefix-v6 must be between 0 and 128, got %d", prefixV6)
	}
	reverse := viper.GetBool("reverse")
	exclude := viper.GetString("exclude")
	separator := viper.GetString("separator")
	if exclude != "" && reverse {
		common.Log.Warnln("--exclude overrides --reverse")
		reverse = false
	}

	set := blockset.New()
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		handleError(loadInput(set, name, separator))
	}
	set.Canonicalize(true)

	switch {
	case exclude != "":
		excl := blockset.New()
		f, err := os.Open(exclude)
		handleError(err)
		err = excl.Load(f, separator, blockset.TagBase)
		common.CheckWarn(f.Close())
		handleError(err)
		set.Subtract(excl, viper.GetBool("merge"))
	case reverse:
		set = set.Gap()
	}

	out := bufio.NewWriter(os.Stdout)
	v4n, v6n := 0, 0
	for _, b := range set.Blocks() {
		target, n := prefixV4, &v4n
		if b.Family == address.V6 {
			target, n = prefixV6, &v6n
		}
		for _, c := range b.Subdivide(target) {
			fmt.Fprintln(out, c)
			*n++
		}
	}
	handleError(out.Flush())
	common.Log.Debugf("emitted %d IPv4 and %d IPv6 blocks", v4n, v6n)
}

func loadInput(set *blockset.Set, name, separator string) error {
	if name == "-" {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			common.Log.Infoln("reading addresses from the terminal; EOF (Ctrl-D) ends input")
		}
		return set.Load(os.Stdin, separator, blockset.TagBase)
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return set.Load(f, separator, blockset.TagBase)
}
