/*
Command fontcli is an interactive font inspector.

Usage:

	fontcli [-font <file or directory>] [-system] [-trace Debug|Info|Error]

Commands are entered one per line, arguments separated by colons, e.g.

	match:DejaVu Sans,serif:bold:italic

Enter "help" for a list of commands.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontsys"
	"github.com/npillmayer/fontsys/discover"
	"github.com/npillmayer/fontsys/raster"
	"github.com/npillmayer/fontsys/registry"
	"github.com/npillmayer/fontsys/shape"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'fontsys.cli'
func tracer() tracing.Trace {
	return tracing.Select("fontsys.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":        "go",
		"trace.fontsys.cli":      "Info",
		"trace.fontsys.registry": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontpath := flag.String("font", "", "Font file or directory to load")
	system := flag.Bool("system", false, "Load the fonts installed on the system")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the font inspector")
	//
	// set up REPL
	repl, err := readline.New("fonts > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := newIntp(repl, discover.Dirs(discover.SystemDirs()...))
	//
	// load fonts to use
	if *fontpath != "" {
		if err, _ := loadOp(intp, &Op{code: LOAD, args: []string{*fontpath}}); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	if *system {
		loadOp(intp, &Op{code: LOAD})
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	fsys    *fontsys.FontSystem
	repl    *readline.Instance
	current registry.FontID
	hasFont bool
}

func newIntp(repl *readline.Instance, discover fontsys.DiscoverFunc) *Intp {
	return &Intp{
		repl: repl,
		fsys: fontsys.New(
			fontsys.WithRasterizer(raster.New()),
			fontsys.WithShaper(shape.New()),
			fontsys.WithDiscovery(discover),
		),
	}
}

func (intp *Intp) String() string {
	if !intp.hasFont {
		return fmt.Sprintf("( %d fonts )", intp.fsys.FontCount())
	}
	face, _ := intp.fsys.FontFace(intp.current)
	return fmt.Sprintf("( %d fonts ) -> #%d %s", intp.fsys.FontCount(), intp.current, face)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd := parseCommand(line)
		err, quit := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a parsed command line.
type Op struct {
	code int
	args []string
}

const (
	QUIT int = iota
	HELP
	LOAD
	LIST
	USE
	MATCH
	INFO
	METRICS
	CMAP
	AXES
	COLOR
	RENDER
	SHAPE
	CACHE
)

var opMap = map[string]int{
	"quit":    QUIT,
	"help":    HELP,
	"load":    LOAD,
	"list":    LIST,
	"use":     USE,
	"match":   MATCH,
	"info":    INFO,
	"metrics": METRICS,
	"cmap":    CMAP,
	"axes":    AXES,
	"color":   COLOR,
	"render":  RENDER,
	"shape":   SHAPE,
	"cache":   CACHE,
}

var opNames = []string{
	"quit",
	"help",
	"load",
	"list",
	"use",
	"match",
	"info",
	"metrics",
	"cmap",
	"axes",
	"color",
	"render",
	"shape",
	"cache",
}

// parseCommand splits a line like "match:Arial,serif:bold" into an
// op-code and its arguments. Unknown commands are treated as "help".
func parseCommand(line string) *Op {
	c := strings.Split(line, ":")
	code, ok := opMap[strings.ToLower(strings.TrimSpace(c[0]))]
	if !ok {
		code = HELP
	}
	op := &Op{code: code}
	for _, arg := range c[1:] {
		op.args = append(op.args, strings.TrimSpace(arg))
	}
	tracer().Debugf("parsed command: %s %v", opNames[code], op.args)
	return op
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:    quitOp,
	HELP:    helpOp,
	LOAD:    loadOp,
	LIST:    listOp,
	USE:     useOp,
	MATCH:   matchOp,
	INFO:    infoOp,
	METRICS: metricsOp,
	CMAP:    cmapOp,
	AXES:    axesOp,
	COLOR:   colorOp,
	RENDER:  renderOp,
	SHAPE:   shapeOp,
	CACHE:   cacheOp,
}

func (intp *Intp) execute(op *Op) (err error, stop bool) {
	f, ok := commandFn[op.code]
	if !ok {
		return fmt.Errorf("unknown command code: %d", op.code), false
	}
	return f(intp, op)
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

var errNoFont = errors.New("no font selected; use 'load', 'use' or 'match'")

func (intp *Intp) face() (*registry.FontFace, error) {
	if !intp.hasFont {
		return nil, errNoFont
	}
	face, ok := intp.fsys.FontFace(intp.current)
	if !ok {
		return nil, errNoFont
	}
	return face, nil
}

func (intp *Intp) use(id registry.FontID) {
	intp.current, intp.hasFont = id, true
}

func (op *Op) arg(i int) string {
	if len(op.args) > i {
		return op.args[i]
	}
	return ""
}
