package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	forth "github.com/jcorbin/libforth"
)

// config is the optional YAML file read by -config; flags given on the
// command line override it.
type config struct {
	CoreSize    uint     `yaml:"core_size"`
	DataStack   int      `yaml:"data_stack"`
	ReturnStack int      `yaml:"return_stack"`
	Base        int      `yaml:"base"`
	Prelude     *bool    `yaml:"prelude"`
	Trace       bool     `yaml:"trace"`
	Dump        string   `yaml:"dump"`
	Load        []string `yaml:"load"`
}

func loadConfig(name string) (cfg config, err error) {
	f, err := os.Open(name)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %v: %w", name, err)
	}
	return cfg, nil
}

func (cfg config) options() (opts []forth.Option) {
	if cfg.CoreSize != 0 {
		opts = append(opts, forth.WithCoreSize(cfg.CoreSize))
	}
	if cfg.DataStack != 0 || cfg.ReturnStack != 0 {
		data, ret := cfg.DataStack, cfg.ReturnStack
		if data == 0 {
			data = forth.DefaultStackSize
		}
		if ret == 0 {
			ret = forth.DefaultReturnStackSize
		}
		opts = append(opts, forth.WithStackSize(data, ret))
	}
	if cfg.Base != 0 {
		opts = append(opts, forth.WithBase(cfg.Base))
	}
	if cfg.Prelude != nil && !*cfg.Prelude {
		opts = append(opts, forth.WithoutPrelude())
	}
	return opts
}
