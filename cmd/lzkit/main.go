package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ogier/pflag"

	"github.com/kelwig/lzkit/internal/xlog"
)

const usageStr = `Usage: lzkit [OPTION]... [FILE]...
Compress or uncompress FILEs in the .lzma format (by default, compress FILES
in place).

  -c, --stdout      write to standard output and don't delete input files
  -d, --decompress  force decompression
  -f, --force       force overwrite of output file
  -h, --help        give this help
  -k, --keep        keep (don't delete) input files
  -q, --quiet       suppress all warnings
  -v, --verbose     verbose mode
  -V, --version     display version string
  -0 ... -9         compression preset; default is 6

With no file, or when FILE is -, read standard input.
`

const version = "1.0.0"

// preset holds a compression preset in the range 0 to 9.
type preset int

const defaultPreset preset = 6

// filterArg removes preset digits from a combined short option argument
// and records the last one seen.
func (p *preset) filterArg(arg string) string {
	if len(arg) < 2 || arg[0] != '-' || arg[1] == '-' {
		return arg
	}
	buf := new(bytes.Buffer)
	buf.Grow(len(arg))
	for _, c := range arg {
		if '0' <= c && c <= '9' {
			*p = preset(c - '0')
			continue
		}
		buf.WriteRune(c)
	}
	return buf.String()
}

// filter removes the preset options from the command line, because pflag
// doesn't support digit flags.
func (p *preset) filter() {
	args := make([]string, 1, len(os.Args))
	args[0] = os.Args[0]
	for i, arg := range os.Args[1:] {
		if arg == "--" {
			args = append(args, os.Args[1+i:]...)
			break
		}
		a := p.filterArg(arg)
		if a != "-" || arg == "-" {
			args = append(args, a)
		}
	}
	os.Args = args
}

func usage(w io.Writer) {
	fmt.Fprint(w, usageStr)
}

// options collects the flags controlling the file processing.
type options struct {
	stdout     bool
	decompress bool
	force      bool
	keep       bool
	preset     int
}

func main() {
	cmdName := filepath.Base(os.Args[0])
	log.SetPrefix(fmt.Sprintf("%s: ", cmdName))
	log.SetFlags(0)

	pflag.CommandLine = pflag.NewFlagSet(cmdName, pflag.ExitOnError)
	pflag.SetInterspersed(true)
	pflag.Usage = func() { usage(os.Stderr); os.Exit(1) }
	var (
		help        = pflag.BoolP("help", "h", false, "")
		stdout      = pflag.BoolP("stdout", "c", false, "")
		decompress  = pflag.BoolP("decompress", "d", false, "")
		force       = pflag.BoolP("force", "f", false, "")
		keep        = pflag.BoolP("keep", "k", false, "")
		quiet       = pflag.BoolP("quiet", "q", false, "")
		verbose     = pflag.BoolP("verbose", "v", false, "")
		showVersion = pflag.BoolP("version", "V", false, "")
		p           = defaultPreset
	)
	p.filter()
	pflag.Parse()

	if *help {
		usage(os.Stdout)
		os.Exit(0)
	}
	if *showVersion {
		fmt.Printf("%s version %s\n", cmdName, version)
		os.Exit(0)
	}
	if *quiet {
		xlog.SetWarn(nil)
	}
	if *verbose {
		xlog.SetVerbose(log.New(os.Stderr, log.Prefix(), 0))
	}

	opts := &options{
		stdout:     *stdout,
		decompress: *decompress,
		force:      *force,
		keep:       *keep,
		preset:     int(p),
	}
	args := pflag.Args()
	if len(args) == 0 {
		args = []string{"-"}
		opts.stdout = true
	}
	for _, path := range args {
		processFile(path, opts)
	}
}
