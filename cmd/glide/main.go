package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"glide/internal/config"
	"glide/internal/diag"
	"glide/internal/evaluator"
	"glide/internal/lexer"
	"glide/internal/module"
	"glide/internal/parser"
	"glide/internal/repl"
	"glide/internal/runtimeio"
)

var log = commonlog.GetLogger("glide.cli")

func main() {
	if len(os.Args) > 1 && os.Args[1] == "init" {
		runInit(os.Args[2:])
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "check" {
		os.Exit(runCheck(os.Args[2:]))
	}

	tokensMode := flag.Bool("tokens", false, "print tokens instead of running")
	astMode := flag.Bool("ast", false, "print the parsed program instead of running")
	maxDepth := flag.Int("max-depth", 0, "maximum call depth (0 uses the manifest or the default)")
	maxSteps := flag.Int64("max-steps", 0, "maximum loop iterations plus calls (0 is unlimited)")
	seed := flag.Int64("seed", 0, "seed for rand (0 seeds from the clock)")
	verbose := flag.Int("v", 0, "log verbosity")
	flag.Parse()
	commonlog.Configure(*verbose, nil)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	defaultStd := filepath.Join(cwd, "std")

	args := flag.Args()
	cmd := "repl"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
		if cmd != "run" && cmd != "repl" {
			cmd = "run"
			args = flag.Args()
		}
	}

	if cmd == "repl" {
		if *tokensMode || *astMode {
			fmt.Println("repl does not support -tokens or -ast")
			os.Exit(1)
		}
		if len(args) != 0 {
			fmt.Println("usage: glide repl")
			os.Exit(1)
		}
		man, err := config.FindAndLoad(cwd)
		if err != nil {
			fmt.Println("config error:", err)
			os.Exit(1)
		}
		opts := repl.Options{StdRoot: defaultStd, Limits: repl.Limits{MaxRecursion: evaluator.DefaultMaxRecursion}}
		if man != nil {
			opts.StdRoot, opts.ModulePaths = man.ResolvePaths(defaultStd)
			applyManifestLimits(man, &opts.Limits.MaxRecursion, &opts.Limits.MaxSteps)
		}
		applyFlagLimits(*maxDepth, *maxSteps, &opts.Limits.MaxRecursion, &opts.Limits.MaxSteps)
		repl.Start(opts)
		return
	}

	if len(args) > 1 {
		fmt.Println("usage: glide run [file|dir]")
		os.Exit(1)
	}
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	entryPath, man, err := resolveRunTarget(target)
	if err != nil {
		fmt.Println("run error:", err)
		os.Exit(1)
	}
	b, err := os.ReadFile(entryPath)
	if err != nil {
		fmt.Println("read error:", err)
		os.Exit(1)
	}
	src := string(b)

	if *tokensMode {
		toks, err := lexer.Tokenize(src)
		for _, tok := range toks {
			fmt.Printf("%4d:%-3d  %-10s  %q\n", tok.Line, tok.Col, tok.Type, tok.Literal)
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		return
	}
	if *astMode {
		prog, _, err := parser.Parse(src, nil)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println(prog.String())
		return
	}

	stdRoot, paths := defaultStd, []string(nil)
	depth, steps := evaluator.DefaultMaxRecursion, int64(0)
	if man != nil {
		stdRoot, paths = man.ResolvePaths(defaultStd)
		applyManifestLimits(man, &depth, &steps)
	}
	applyFlagLimits(*maxDepth, *maxSteps, &depth, &steps)

	resolver := module.NewResolver(stdRoot, append([]string{cwd}, paths...))
	loader := module.NewLoader(resolver, entryPath)
	console := runtimeio.NewConsole(os.Stdout, nil)

	it := evaluator.New(console, console, loader)
	it.SetFile(displayPath(cwd, entryPath))
	it.SetMaxRecursion(depth)
	it.SetMaxSteps(steps)
	if *seed != 0 {
		it.SetSeed(*seed)
	}
	log.Infof("running %s", entryPath)

	err = it.Run(src)
	for _, w := range it.Warnings() {
		fmt.Fprintln(os.Stderr, w.Format(displayPath(cwd, entryPath)))
	}
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func applyManifestLimits(man *config.Manifest, depth *int, steps *int64) {
	if man.MaxDepth > 0 {
		*depth = man.MaxDepth
	}
	if man.MaxSteps > 0 {
		*steps = man.MaxSteps
	}
}

func applyFlagLimits(flagDepth int, flagSteps int64, depth *int, steps *int64) {
	if flagDepth > 0 {
		*depth = flagDepth
	}
	if flagSteps > 0 {
		*steps = flagSteps
	}
}

func reportError(w io.Writer, err error) {
	var de *diag.Error
	if errors.As(err, &de) && de.Phase == diag.PhaseRuntime {
		fmt.Fprint(w, de.Stack())
		return
	}
	fmt.Fprintln(w, err)
}

func displayPath(cwd, path string) string {
	if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// resolveRunTarget maps a file or project directory to the entry file and
// the manifest that governs it, if any.
func resolveRunTarget(target string) (string, *config.Manifest, error) {
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("path not found: %s", target)
		}
		return "", nil, err
	}
	if info.IsDir() {
		man, err := config.Load(target)
		if err != nil {
			return "", nil, err
		}
		return man.EntryPath(), man, nil
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", nil, err
	}
	man, err := config.FindAndLoad(filepath.Dir(absTarget))
	if err != nil {
		return "", nil, err
	}
	return absTarget, man, nil
}

// runCheck parses and checks files without running them. It returns the
// process exit code.
func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		fmt.Println("usage: glide check <file>...")
		return 1
	}
	code := 0
	for _, path := range fs.Args() {
		b, err := os.ReadFile(path)
		if err != nil {
			fmt.Println("read error:", err)
			code = 1
			continue
		}
		prog, p, err := parser.Parse(string(b), nil)
		if err == nil {
			err = evaluator.Check(prog)
		}
		for _, w := range p.Warnings() {
			fmt.Println(w.Format(path))
		}
		if err != nil {
			var de *diag.Error
			if errors.As(err, &de) {
				fmt.Println(de.Diagnostic().Format(path))
			} else {
				fmt.Println(path+":", err)
			}
			code = 1
		}
	}
	return code
}

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "project name")
	entry := fs.String("entry", "main.glide", "entry file")
	force := fs.Bool("force", false, "overwrite existing files")
	if err := fs.Parse(args); err != nil || fs.NArg() > 1 {
		fmt.Println("usage: glide init [--name <name>] [--entry <file>] [--force] [dir]")
		os.Exit(1)
	}
	if strings.TrimSpace(*entry) == "" {
		fmt.Println("init error: entry cannot be empty")
		os.Exit(1)
	}
	dir := "."
	if fs.NArg() == 1 {
		dir = fs.Arg(0)
	}
	if err := initProject(dir, *name, *entry, *force); err != nil {
		fmt.Println("init error:", err)
		os.Exit(1)
	}
}

func initProject(dir, name, entry string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	manifestPath := filepath.Join(dir, config.FileName)
	manifestExists, err := pathExists(manifestPath)
	if err != nil {
		return err
	}
	if manifestExists && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
	}
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		name = filepath.Base(abs)
	}
	data, err := (&config.Manifest{Name: name, Entry: entry}).Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return err
	}

	entryPath := filepath.Join(dir, entry)
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return err
	}
	entryExists, err := pathExists(entryPath)
	if err != nil {
		return err
	}
	if !entryExists || force {
		return os.WriteFile(entryPath, []byte(starterProgram), 0o644)
	}
	return nil
}

const starterProgram = `def greet(who: str): str {
  exit "hello, " who str
}

loop 3 with i {
  print greet("glide") " #" i str
}
`

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
