package main

import (
	"bytes"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	jsonvalue "github.com/reoring/jsonvalue"
)

// fileConfig is the optional YAML file given with --config.
type fileConfig struct {
	Parse struct {
		MaxDepth         int  `yaml:"max_depth"`
		MaxStringLength  int  `yaml:"max_string_length"`
		RejectDuplicates bool `yaml:"reject_duplicates"`
		AllowBOM         bool `yaml:"allow_bom"`
		ValidateUTF8     bool `yaml:"validate_utf8"`
	} `yaml:"parse"`
	Encode struct {
		Pretty bool `yaml:"pretty"`
		Indent int  `yaml:"indent"`
	} `yaml:"encode"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func loadConfig(name string) (fileConfig, error) {
	var cfg fileConfig
	content, err := os.ReadFile(name)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, "decode config %s", name)
	}
	return cfg, nil
}

// globals holds the flags shared by every command. Flags that are set win
// over the config file.
type globals struct {
	configFile string
	logLevel   string

	maxDepth         int
	maxStringLength  int
	rejectDuplicates bool
	allowBOM         bool
	validateUTF8     bool

	stdin          io.Reader
	stdout, stderr io.Writer

	cfg    fileConfig
	logger log.Logger
	loaded bool
}

func addGlobalFlags(app *kingpin.Application, g *globals) {
	app.Flag("config", "YAML config file.").StringVar(&g.configFile)
	app.Flag("log.level", "Only log messages with the given severity or above: debug, info, warn, error.").StringVar(&g.logLevel)
	app.Flag("max-depth", "Maximum nesting depth (default 256).").IntVar(&g.maxDepth)
	app.Flag("max-string-length", "Maximum decoded string length in bytes.").IntVar(&g.maxStringLength)
	app.Flag("reject-duplicates", "Fail on duplicate object keys instead of keeping the last.").BoolVar(&g.rejectDuplicates)
	app.Flag("allow-bom", "Skip a leading UTF-8 byte order mark.").BoolVar(&g.allowBOM)
	app.Flag("validate-utf8", "Reject invalid UTF-8 inside strings.").BoolVar(&g.validateUTF8)
}

// setup loads the config file once and builds the logger.
func (g *globals) setup() error {
	if g.loaded {
		return nil
	}
	if g.configFile != "" {
		cfg, err := loadConfig(g.configFile)
		if err != nil {
			return err
		}
		g.cfg = cfg
	}
	lvl := g.logLevel
	if lvl == "" {
		lvl = g.cfg.Log.Level
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(g.stderr))
	switch lvl {
	case "debug":
		logger = level.NewFilter(logger, level.AllowDebug())
	case "", "info":
		logger = level.NewFilter(logger, level.AllowInfo())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		return errors.Errorf("unknown log level %q", lvl)
	}
	g.logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	g.loaded = true
	level.Debug(g.logger).Log("msg", "configured", "config", g.configFile, "level", lvl)
	return nil
}

func (g *globals) parseOpt() jsonvalue.ParseOpt {
	opt := jsonvalue.ParseOpt{
		MaxDepth:        g.cfg.Parse.MaxDepth,
		MaxStringLength: g.cfg.Parse.MaxStringLength,
	}
	if g.maxDepth > 0 {
		opt.MaxDepth = g.maxDepth
	}
	if g.maxStringLength > 0 {
		opt.MaxStringLength = g.maxStringLength
	}
	if g.rejectDuplicates || g.cfg.Parse.RejectDuplicates {
		opt.Dialect |= jsonvalue.DialectRejectDuplicateKeys
	}
	if g.allowBOM || g.cfg.Parse.AllowBOM {
		opt.Dialect |= jsonvalue.DialectAllowBOM
	}
	if g.validateUTF8 || g.cfg.Parse.ValidateUTF8 {
		opt.Dialect |= jsonvalue.DialectValidateUTF8
	}
	return opt
}

// input reads a named file, or stdin for "-".
func (g *globals) input(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(g.stdin)
		return data, errors.Wrap(err, "read stdin")
	}
	data, err := os.ReadFile(name)
	return data, errors.Wrapf(err, "read %s", name)
}
