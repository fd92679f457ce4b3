// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config holds the fixed capacities of the stack machine, loaded
// from a TOML file before any program is assembled.
package config

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/internal"
	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	ErrConfigInvalid = errors.New(f("config invalid"))
	ErrConfigKey     = errors.New(f("config key unknown"))
)

// Config is the set of machine capacities.
//
// A stackvm.toml file looks like:
//
//	max-instr    = 1000
//	max-depth    = 100
//	max-line-len = 81
//	max-labels   = 1000
//	max-ticks    = 0
type Config struct {
	MaxInstr   int `toml:"max-instr"`    // Program store capacity.
	MaxDepth   int `toml:"max-depth"`    // Operand stack capacity.
	MaxLineLen int `toml:"max-line-len"` // Source line buffer size, line ending included.
	MaxLabels  int `toml:"max-labels"`   // Symbol table capacity.
	MaxTicks   int `toml:"max-ticks"`    // Step limit for a run, 0 for none.
}

// Default returns the stock capacities.
func Default() Config {
	return Config{
		MaxInstr:   cpu.MAX_INSTR,
		MaxDepth:   cpu.MAX_DEPTH,
		MaxLineLen: cpu.MAX_LINE_LEN,
		MaxLabels:  cpu.MAX_LABELS,
	}
}

// Parse decodes TOML text on top of the defaults.
func Parse(text string) (cfg Config, err error) {
	cfg = Default()

	md, err := toml.Decode(text, &cfg)
	if err != nil {
		err = errors.Join(ErrConfigInvalid, err)
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for n, key := range undecoded {
			keys[n] = key.String()
		}
		err = fmt.Errorf("%w: %v", ErrConfigKey, strings.Join(keys, ", "))
		return
	}

	err = cfg.Validate()

	return
}

// Load reads a TOML configuration file.
func Load(path string) (cfg Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	cfg, err = Parse(string(data))
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

// Validate checks that every capacity is usable.
func (cfg Config) Validate() (err error) {
	for name, value := range cfg.capacities() {
		if value <= 0 {
			err = errors.Join(err, errors.New(f("%v must be positive, not %v", name, strconv.Itoa(value))))
		}
	}
	if cfg.MaxTicks < 0 {
		err = errors.Join(err, errors.New(f("%v must not be negative, not %v", "max-ticks", strconv.Itoa(cfg.MaxTicks))))
	}
	if err != nil {
		err = errors.Join(ErrConfigInvalid, err)
	}

	return
}

func (cfg Config) capacities() iter.Seq2[string, int] {
	return internal.IterSeq2Sorted(map[string]int{
		"max-instr":    cfg.MaxInstr,
		"max-depth":    cfg.MaxDepth,
		"max-line-len": cfg.MaxLineLen,
		"max-labels":   cfg.MaxLabels,
	})
}

// Defines returns the capacities as assembler symbols.
func (cfg Config) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Sorted(map[string]string{
		"MAX_INSTR":    fmt.Sprintf("%d", cfg.MaxInstr),
		"MAX_DEPTH":    fmt.Sprintf("%d", cfg.MaxDepth),
		"MAX_LINE_LEN": fmt.Sprintf("%d", cfg.MaxLineLen),
		"MAX_LABELS":   fmt.Sprintf("%d", cfg.MaxLabels),
	})
}
