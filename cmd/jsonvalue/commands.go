package main

import (
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	jsonvalue "github.com/reoring/jsonvalue"
	"github.com/reoring/jsonvalue/internal/scan"
)

// fmtCommand parses each input and writes it back out.
type fmtCommand struct {
	g       *globals
	files   *[]string
	pretty  bool
	indent  int
	pointer string
}

func addFmtCommand(app *kingpin.Application, g *globals) {
	cmd := &fmtCommand{g: g}
	c := app.Command("fmt", "Reformat JSON, compact by default.").Action(cmd.run)
	c.Flag("pretty", "Indent nested values.").BoolVar(&cmd.pretty)
	c.Flag("indent", "Spaces per level with --pretty (default 2).").IntVar(&cmd.indent)
	c.Flag("pointer", "Print only the value at this JSON Pointer.").StringVar(&cmd.pointer)
	cmd.files = c.Arg("file", "Input files; stdin when omitted.").Strings()
}

func (cmd *fmtCommand) run(*kingpin.ParseContext) error {
	if err := cmd.g.setup(); err != nil {
		return err
	}
	enc := jsonvalue.EncodeOpt{
		Pretty: cmd.pretty || cmd.g.cfg.Encode.Pretty,
		Indent: cmd.g.cfg.Encode.Indent,
	}
	if cmd.indent > 0 {
		enc.Indent = cmd.indent
	}
	for _, name := range fileArgs(*cmd.files) {
		data, err := cmd.g.input(name)
		if err != nil {
			return err
		}
		v, err := cmd.value(data)
		if err != nil {
			return errors.Wrap(err, name)
		}
		out, err := jsonvalue.AppendSerialize(nil, &v, enc)
		if err != nil {
			return errors.Wrap(err, name)
		}
		out = append(out, '\n')
		if _, err := cmd.g.stdout.Write(out); err != nil {
			return errors.Wrap(err, "write output")
		}
	}
	return nil
}

func (cmd *fmtCommand) value(data []byte) (jsonvalue.Value, error) {
	if cmd.pointer != "" {
		return jsonvalue.Extract(data, cmd.pointer, cmd.g.parseOpt())
	}
	return jsonvalue.Parse(data, cmd.g.parseOpt())
}

// checkCommand reports whether each input parses.
type checkCommand struct {
	g     *globals
	files *[]string
}

func addCheckCommand(app *kingpin.Application, g *globals) {
	cmd := &checkCommand{g: g}
	c := app.Command("check", "Validate JSON; exits 1 if any input is rejected.").Action(cmd.run)
	cmd.files = c.Arg("file", "Input files; stdin when omitted.").Strings()
}

func (cmd *checkCommand) run(*kingpin.ParseContext) error {
	if err := cmd.g.setup(); err != nil {
		return err
	}
	failed := 0
	for _, name := range fileArgs(*cmd.files) {
		data, err := cmd.g.input(name)
		if err != nil {
			return err
		}
		_, err = jsonvalue.Parse(data, cmd.g.parseOpt())
		if err == nil {
			fmt.Fprintf(cmd.g.stdout, "%s: ok\n", name)
			continue
		}
		failed++
		var pe *jsonvalue.ParseError
		if !errors.As(err, &pe) {
			fmt.Fprintf(cmd.g.stdout, "%s: %v\n", name, err)
			continue
		}
		line, col := jsonvalue.LineColumn(data, pe.Offset)
		fmt.Fprintf(cmd.g.stdout, "%s:%d:%d: %s at offset %d: %s\n", name, line, col, pe.Kind, pe.Offset, pe.Message)
	}
	if failed > 0 {
		level.Debug(cmd.g.logger).Log("msg", "check failed", "inputs", failed)
		return errFailed
	}
	return nil
}

// docStats summarizes one parsed tree.
type docStats struct {
	kinds    map[jsonvalue.Kind]int
	maxDepth int
	promoted int
}

func collectStats(v *jsonvalue.Value) docStats {
	st := docStats{kinds: map[jsonvalue.Kind]int{}}
	st.walk(v, 0)
	return st
}

func (st *docStats) walk(v *jsonvalue.Value, depth int) {
	k := v.Kind()
	st.kinds[k]++
	switch k {
	case jsonvalue.KindFloat128, jsonvalue.KindInt128, jsonvalue.KindUint128:
		st.promoted++
	case jsonvalue.KindArray:
		st.maxDepth = max(st.maxDepth, depth+1)
		elems := v.AsArray()
		for i := range elems {
			st.walk(&elems[i], depth+1)
		}
	case jsonvalue.KindObject:
		st.maxDepth = max(st.maxDepth, depth+1)
		v.AsObject().Range(func(_ string, m *jsonvalue.Value) bool {
			st.walk(m, depth+1)
			return true
		})
	}
}

var statKinds = []jsonvalue.Kind{
	jsonvalue.KindObject, jsonvalue.KindArray, jsonvalue.KindString, jsonvalue.KindNumber,
	jsonvalue.KindFloat128, jsonvalue.KindInt128, jsonvalue.KindUint128, jsonvalue.KindBool, jsonvalue.KindNull,
}

// statsCommand prints value counts and parse throughput.
type statsCommand struct {
	g     *globals
	files *[]string
}

func addStatsCommand(app *kingpin.Application, g *globals) {
	cmd := &statsCommand{g: g}
	c := app.Command("stats", "Print value counts, depth, and parse throughput.").Action(cmd.run)
	cmd.files = c.Arg("file", "Input files; stdin when omitted.").Strings()
}

func (cmd *statsCommand) run(*kingpin.ParseContext) error {
	if err := cmd.g.setup(); err != nil {
		return err
	}
	level.Debug(cmd.g.logger).Log("msg", "scanner", "block_bytes", scan.BulkWidth())
	for _, name := range fileArgs(*cmd.files) {
		data, err := cmd.g.input(name)
		if err != nil {
			return err
		}
		start := time.Now()
		v, err := jsonvalue.Parse(data, cmd.g.parseOpt())
		elapsed := time.Since(start)
		if err != nil {
			return errors.Wrap(err, name)
		}
		cmd.print(cmd.g.stdout, name, uint64(len(data)), elapsed, collectStats(&v))
	}
	return nil
}

func (cmd *statsCommand) print(w io.Writer, name string, size uint64, elapsed time.Duration, st docStats) {
	fmt.Fprintf(w, "%s:\n", name)
	fmt.Fprintf(w, "\tsize: %v, max depth: %d, promoted numbers: %d\n", humanize.Bytes(size), st.maxDepth, st.promoted)
	for _, k := range statKinds {
		if n := st.kinds[k]; n > 0 {
			fmt.Fprintf(w, "\t%-8s %s\n", k, humanize.Comma(int64(n)))
		}
	}
	if secs := elapsed.Seconds(); secs > 0 {
		level.Info(cmd.g.logger).Log("msg", "parsed", "file", name, "took", elapsed,
			"throughput", humanize.Bytes(uint64(float64(size)/secs))+"/s")
	}
}

// tokensCommand dumps the token stream of one input.
type tokensCommand struct {
	g    *globals
	file *string
}

func addTokensCommand(app *kingpin.Application, g *globals) {
	cmd := &tokensCommand{g: g}
	c := app.Command("tokens", "Print the token stream with byte offsets.").Action(cmd.run)
	cmd.file = c.Arg("file", "Input file; stdin when omitted.").Default("-").String()
}

func (cmd *tokensCommand) run(*kingpin.ParseContext) error {
	if err := cmd.g.setup(); err != nil {
		return err
	}
	data, err := cmd.g.input(*cmd.file)
	if err != nil {
		return err
	}
	toks, err := jsonvalue.Tokenize(data, cmd.g.parseOpt())
	if err != nil {
		return errors.Wrap(err, *cmd.file)
	}
	for _, tok := range toks {
		text, err := jsonvalue.DecodeToken(data, tok)
		if err != nil {
			return errors.Wrap(err, *cmd.file)
		}
		fmt.Fprintf(cmd.g.stdout, "%d\t%s\t%q\n", tok.Offset, tok.Kind, text)
	}
	return nil
}

// dupsCommand lists duplicate object keys.
type dupsCommand struct {
	g         *globals
	file      *string
	maxIssues int
}

func addDupsCommand(app *kingpin.Application, g *globals) {
	cmd := &dupsCommand{g: g}
	c := app.Command("dups", "Report duplicate object keys; exits 1 if any are found.").Action(cmd.run)
	c.Flag("max-issues", "Stop after this many duplicates (negative for no limit).").Default("-1").IntVar(&cmd.maxIssues)
	cmd.file = c.Arg("file", "Input file; stdin when omitted.").Default("-").String()
}

func (cmd *dupsCommand) run(*kingpin.ParseContext) error {
	if err := cmd.g.setup(); err != nil {
		return err
	}
	data, err := cmd.g.input(*cmd.file)
	if err != nil {
		return err
	}
	iss, err := jsonvalue.DetectDuplicateKeys(data, cmd.maxIssues)
	if err != nil {
		return errors.Wrap(err, *cmd.file)
	}
	for _, is := range iss {
		line, col := jsonvalue.LineColumn(data, is.Offset)
		fmt.Fprintf(cmd.g.stdout, "%s:%d:%d: %s %s\n", *cmd.file, line, col, is.Path, is.Message)
	}
	if len(iss) > 0 {
		return errFailed
	}
	return nil
}
