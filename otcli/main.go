package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/otdecode/internal/fontload"
	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/image/font/gofont/goregular"
)

// tracer traces with key 'font.otcli'
func tracer() tracing.Trace {
	return tracing.Select("font.otcli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.font.otcli":    "Info",
		"trace.font.opentype": "Error",
		"trace.font.otquery":  "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (default: Go Regular)")
	index := flag.Int("index", 0, "Index of font within a font collection")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)    // will set the correct level later
	pterm.Info.Println("Welcome to OpenType CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("ot > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load font to use
	if err := intp.loadFont(*fontname, *index); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
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
	font     *ot.Font
	fontname string
	source   *fontload.ScalableFont
	repl     *readline.Instance
	table    ot.Table    // table selected by 'table'
	script   *ot.Script  // GSUB script selected by 'scripts'
	langSys  *ot.LangSys // GSUB language system selected by 'lang'
}

func (intp *Intp) String() string {
	if intp == nil || intp.font == nil {
		return "()"
	}
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("( font=%q", intp.fontname))
	if intp.table != nil {
		sb.WriteString(fmt.Sprintf(" table=%s", intp.table.Self().NameTag()))
	}
	if intp.script != nil {
		sb.WriteString(fmt.Sprintf(" script=%s", intp.script.Tag))
	}
	if intp.langSys != nil {
		sb.WriteString(fmt.Sprintf(" lang=%s", intp.langSys.Tag))
	}
	sb.WriteString(" )")
	return sb.String()
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
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code   int
	arg    string
	format string
}

type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	TABLES
	TABLE
	ERRORS
	CMAP
	GLYPH
	CFF
	CHARSTRING
	RENDER
	SCRIPTS
	LANG
	FEATURES
	FIND
	LOOKUPS
)

var opMap = map[string]int{
	"quit":       QUIT,
	"help":       HELP,
	"tables":     TABLES,
	"table":      TABLE,
	"errors":     ERRORS,
	"cmap":       CMAP,
	"glyph":      GLYPH,
	"cff":        CFF,
	"charstring": CHARSTRING,
	"render":     RENDER,
	"scripts":    SCRIPTS,
	"lang":       LANG,
	"features":   FEATURES,
	"find":       FIND,
	"lookups":    LOOKUPS,
}

var opNames = []string{
	"quit",
	"help",
	"tables",
	"table",
	"errors",
	"cmap",
	"glyph",
	"cff",
	"charstring",
	"render",
	"scripts",
	"lang",
	"features",
	"find",
	"lookups",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].arg = ""
		command.op[i].format = ""
	}
}

// parseCommand splits a line into steps separated by blanks. A step is
// an op name, optionally followed by an argument and a format, separated by
// colons, e.g. "scripts:latn" or "cmap:U+00E4" or "lookups:3:full".
func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Fields(line)
	if len(steps) > len(command.op) {
		return nil, fmt.Errorf("too many steps in command: %d", len(steps))
	}
	command.count = len(steps)
	for i, step := range steps {
		c := strings.Split(step, ":")
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			pterm.Error.Printf("unknown command: %s\n", c[0])
			code = HELP
		}
		command.op[i].code = code
		if code == QUIT {
			return &command, nil
		}
		command.op[i].arg = getOptArg(c, 1)
		command.op[i].format = getOptArg(c, 2)
		if command.op[i].arg == "" {
			tracer().Debugf("%s", opNames[code])
		} else {
			tracer().Debugf("%s: looking for '%s'", opNames[code], command.op[i].arg)
		}
	}
	return &command, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:       quitOp,
	HELP:       helpOp,
	TABLES:     tablesOp,
	TABLE:      tableOp,
	ERRORS:     errorsOp,
	CMAP:       cmapOp,
	GLYPH:      glyphOp,
	CFF:        cffOp,
	CHARSTRING: charstringOp,
	RENDER:     renderOp,
	SCRIPTS:    scriptsOp,
	LANG:       langOp,
	FEATURES:   featuresOp,
	FIND:       findOp,
	LOOKUPS:    lookupsOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op[:cmd.count])
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

// --- Font Loading -----------------------------------------------------

// loadFont loads and decodes a font file. Without a file name, the Go Regular
// font is used.
func (intp *Intp) loadFont(fontfile string, index int) (err error) {
	var f *fontload.ScalableFont
	if fontfile == "" {
		f, err = fontload.ParseOpenTypeFont(goregular.TTF, 0)
	} else {
		f, err = fontload.LoadOpenTypeFont(fontfile, index)
	}
	if err != nil {
		tracer().Errorf("cannot load font %s: %s", fontfile, err)
		return err
	}
	tracer().Infof("loaded SFNT font = %s", f.Fontname)
	if intp.font, err = f.Decode(); err != nil {
		tracer().Errorf("cannot decode font %s: %s", f.Fontname, err)
		return err
	}
	intp.fontname, intp.source = f.Fontname, f
	intp.table, intp.script, intp.langSys = nil, nil, nil
	pterm.Printf("font tables: %v\n", intp.font.TableTags())
	if n := len(intp.font.Errors()); n > 0 {
		pterm.Warning.Printf("font has %d errors, see 'errors'\n", n)
	}
	return nil
}

// ----------------------------------------------------------------------

var ErrNoTable = errors.New("no table set")
var ErrNoGSub = errors.New("font has no decoded GSUB table")
var ErrNoScript = errors.New("no script set")

func (intp *Intp) gsub() (*ot.GSubTable, error) {
	if intp.font == nil || intp.font.Layout.GSub == nil {
		return nil, ErrNoGSub
	}
	return intp.font.Layout.GSub, nil
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) noArg() bool {
	return op.arg == ""
}

func (op *Op) hasArg() (string, bool) {
	if op.arg == "" {
		return "", false
	}
	return op.arg, true
}

// intArg interprets the argument as a decimal or hexadecimal (0x…) number.
func (op *Op) intArg() (int, error) {
	n, err := strconv.ParseInt(op.arg, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("argument not numeric: %q", op.arg)
	}
	return int(n), nil
}

// glyphArg interprets the argument as a glyph index.
func (op *Op) glyphArg(otf *ot.Font) (ot.GlyphIndex, error) {
	n, err := op.intArg()
	if err != nil {
		return 0, err
	}
	if n < 0 || n >= otf.NumGlyphs() {
		return 0, fmt.Errorf("glyph index %d out of range, font has %d glyphs", n, otf.NumGlyphs())
	}
	return ot.GlyphIndex(n), nil
}

// runeArg interprets the argument either as a single character or as a code
// point in notation U+XXXX.
func (op *Op) runeArg() (rune, error) {
	arg := op.arg
	if len(arg) > 2 && strings.EqualFold(arg[:2], "U+") {
		n, err := strconv.ParseUint(arg[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid code point: %q", arg)
		}
		return rune(n), nil
	}
	if r := []rune(arg); len(r) == 1 {
		return r[0], nil
	}
	return 0, fmt.Errorf("expected a single character or U+XXXX, got %q", arg)
}
