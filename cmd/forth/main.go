// Command forth runs Forth source files, or standard input, through an
// embedded engine.
//
// Usage:
//
//     forth [flags] [file ...]
//
// Files run in order on a single engine, so definitions made by one are seen
// by the next. With no files, and without -i, standard input is run.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	forth "github.com/jcorbin/libforth"
	"github.com/jcorbin/libforth/internal/logio"
)

const historyFile = ".forth_history"

func main() {
	var log logio.Logger
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	var (
		configFile  string
		dumpCore    bool
		dumpFile    string
		interactive bool
		list        bool
		trace       bool
		coreSize    uint
	)
	flag.StringVar(&configFile, "config", "", "read settings from a YAML file")
	flag.BoolVar(&dumpCore, "d", false, "dump a core image on exit")
	flag.StringVar(&dumpFile, "dump", "forth.core", "file to write any core image to")
	flag.BoolVar(&interactive, "i", false, "run an interactive prompt after any files")
	flag.BoolVar(&list, "list", false, "print a dictionary listing to stderr on exit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.UintVar(&coreSize, "core-size", 0, "core memory size in words")
	flag.Parse()

	var cfg config
	if configFile != "" {
		var err error
		if cfg, err = loadConfig(configFile); err != nil {
			log.Errorf("%v", err)
			return
		}
	}
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "dump":
			cfg.Dump = dumpFile
		case "trace":
			cfg.Trace = trace
		case "core-size":
			cfg.CoreSize = coreSize
		}
	})
	if cfg.Dump == "" {
		cfg.Dump = dumpFile
	}

	opts := append(cfg.options(), forth.WithOutput(os.Stdout))
	if cfg.Trace {
		opts = append(opts, forth.WithLogf(log.Leveledf("TRACE")))
	}

	f, err := forth.New(opts...)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	defer func() {
		if dumpCore {
			log.ErrorIf(writeCore(f, cfg.Dump))
		}
		if list {
			log.ErrorIf(f.Listing(os.Stderr))
		}
		log.ErrorIf(f.Close())
	}()

	files := append(cfg.Load, flag.Args()...)
	for _, name := range files {
		if err := runFile(f, name); err != nil {
			log.Errorf("%v", err)
			return
		}
	}

	if interactive {
		log.ErrorIf(repl(&f, opts))
	} else if len(files) == 0 {
		f.SetFileInput(os.Stdin)
		log.ErrorIf(f.Run())
	}
}

func runFile(f *forth.Forth, name string) error {
	if name == "-" {
		f.SetFileInput(os.Stdin)
		return f.Run()
	}
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	f.SetFileInput(file)
	return f.Run()
}

func writeCore(f *forth.Forth, name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := f.DumpCore(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// repl evaluates lines read from the terminal until end of input. An error
// invalidates the engine, so a fresh one replaces *fp, losing any
// definitions made so far.
func repl(fp **forth.Forth, opts []forth.Option) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if hf, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(hf)
			hf.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if hf, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(hf)
			hf.Close()
		}
	}()

	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if err := (*fp).Eval(line); err != nil {
			fmt.Fprintf(os.Stderr, "%v (status %v)\n", err, forth.Status(err))
			fresh, err := forth.New(opts...)
			if err != nil {
				return err
			}
			(*fp).Close()
			*fp = fresh
			continue
		}
		fmt.Println(" ok")
	}
}
