package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/dshills/textrope/internal/engine"
	"github.com/dshills/textrope/internal/engine/codec"
	"github.com/dshills/textrope/internal/engine/encoding"
	"github.com/dshills/textrope/internal/script"
)

// newFlagSet returns a flag set for a subcommand whose usage line is
// "ropectl name synopsis".
func newFlagSet(name, synopsis string, e *env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: ropectl %s %s\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses args and checks the positional count lies in [lo, hi].
func parseArgs(fs *flag.FlagSet, args []string, lo, hi int) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < lo || fs.NArg() > hi {
		fs.Usage()
		return errUsage
	}
	return nil
}

// openInput opens a named file, or stdin for "-".
func openInput(e *env, name string) (io.Reader, func() error, error) {
	if name == "-" {
		return e.stdin, func() error { return nil }, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// openOutput creates a named file, or returns stdout for "" and "-".
func openOutput(e *env, name string) (io.Writer, func() error, error) {
	if name == "" || name == "-" {
		return e.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// isFrame reports whether br starts with the frame magic.
func isFrame(br *bufio.Reader) bool {
	head, err := br.Peek(len(codec.Magic))
	return err == nil && string(head) == codec.Magic
}

func cmdInspect(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("inspect", "[-encoding NAME] [-pretty] FILE|-", e)
	encName := fs.String("encoding", encoding.UTF8.Name(), "Encoding of plain input")
	pretty := fs.Bool("pretty", false, "Indent the JSON report")
	if err := parseArgs(fs, args, 1, 1); err != nil {
		return err
	}

	in, closeIn, err := openInput(e, fs.Arg(0))
	if err != nil {
		return err
	}
	defer closeIn()

	report := "{}"
	br := bufio.NewReader(in)
	var r *engine.Rope
	if isFrame(br) {
		data, err := io.ReadAll(br)
		if err != nil {
			return err
		}
		h, err := codec.Inspect(data)
		if err != nil {
			return err
		}
		if r, err = codec.Decode(e.engine.Factory(), data); err != nil {
			return err
		}
		if report, err = headerReport(report, "frame.", h); err != nil {
			return err
		}
	} else {
		enc, err := e.engine.LookupEncoding(*encName)
		if err != nil {
			return err
		}
		if r, err = e.engine.Factory().FromReader(br, enc); err != nil {
			return err
		}
	}

	if report, err = ropeReport(report, r); err != nil {
		return err
	}
	return writeJSON(e.stdout, report, *pretty)
}

func cmdPack(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("pack", "[-encoding NAME] [-z COMPRESSION] IN|- [OUT]", e)
	encName := fs.String("encoding", encoding.UTF8.Name(), "Encoding of the input")
	compName := fs.String("z", "", "Compression (none, zstd, s2, lz4); defaults to codec.compression")
	if err := parseArgs(fs, args, 1, 2); err != nil {
		return err
	}

	comp := e.cfg.Compression()
	if *compName != "" {
		var err error
		if comp, err = codec.ParseCompression(*compName); err != nil {
			return err
		}
	}
	enc, err := e.engine.LookupEncoding(*encName)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(e, fs.Arg(0))
	if err != nil {
		return err
	}
	defer closeIn()

	r, err := e.engine.Factory().FromReader(in, enc)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(e, fs.Arg(1))
	if err != nil {
		return err
	}
	if _, err := codec.EncodeTo(out, r, comp); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}

func cmdUnpack(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("unpack", "[-header] [-pretty] IN|- [OUT]", e)
	header := fs.Bool("header", false, "Print the frame header as JSON instead of the content")
	pretty := fs.Bool("pretty", false, "Indent the JSON header")
	if err := parseArgs(fs, args, 1, 2); err != nil {
		return err
	}

	in, closeIn, err := openInput(e, fs.Arg(0))
	if err != nil {
		return err
	}
	defer closeIn()

	if *header {
		data, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		h, err := codec.Inspect(data)
		if err != nil {
			return err
		}
		report, err := headerReport("{}", "", h)
		if err != nil {
			return err
		}
		return writeJSON(e.stdout, report, *pretty)
	}

	r, err := codec.DecodeFrom(e.engine.Factory(), in)
	if err != nil {
		return err
	}
	out, closeOut, err := openOutput(e, fs.Arg(1))
	if err != nil {
		return err
	}
	if _, err := r.WriteTo(out); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}

func cmdRun(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("run", "[-input FILE] [-timeout D] SCRIPT", e)
	inputPath := fs.String("input", "", "File bound to the global input as a UTF-8 rope")
	timeout := fs.Duration("timeout", script.DefaultExecutionTimeout, "Execution deadline, 0 disables it")
	if err := parseArgs(fs, args, 1, 1); err != nil {
		return err
	}

	s, err := script.NewState(e.engine,
		script.WithOutput(e.stdout),
		script.WithExecutionTimeout(*timeout),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	if *inputPath != "" {
		in, closeIn, err := openInput(e, *inputPath)
		if err != nil {
			return err
		}
		r, err := e.engine.Factory().FromReader(in, encoding.UTF8)
		_ = closeIn()
		if err != nil {
			return err
		}
		s.SetRope("input", r)
	}

	if err := s.RunFile(ctx, fs.Arg(0)); err != nil {
		return err
	}
	if out, ok := s.Rope("output"); ok {
		_, err = out.WriteTo(e.stdout)
	}
	return err
}

// stressPieces are appended at random by the stress command; the lone 0xFF
// makes the result broken without splitting a character across leaves.
var stressPieces = [][]byte{
	[]byte("abc"),
	[]byte("héllo "),
	[]byte("日本語"),
	[]byte("🙂"),
	{0xff},
}

// readerResult is what one stress reader observed.
type readerResult struct {
	chars     int
	codeRange engine.CodeRange
	hash      uint64
	content   bool
}

func cmdStress(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("stress", "[-pieces N] [-readers N] [-seed N] [-pretty]", e)
	pieces := fs.Int("pieces", 2000, "Number of leaves to concatenate")
	readers := fs.Int("readers", 8, "Number of concurrent readers")
	seed := fs.Uint64("seed", 1, "Random seed")
	pretty := fs.Bool("pretty", false, "Indent the JSON report")
	if err := parseArgs(fs, args, 0, 0); err != nil {
		return err
	}
	if *pieces < 1 || *readers < 1 {
		return fmt.Errorf("pieces and readers must be positive")
	}

	start := time.Now()
	rnd := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	utf8 := encoding.UTF8

	var want bytes.Buffer
	r := e.engine.Factory().Empty(utf8)
	for i := 0; i < *pieces; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := stressPieces[rnd.IntN(len(stressPieces))]
		leaf, err := e.engine.MakeLeafRope(p, utf8)
		if err != nil {
			return err
		}
		if r, err = e.engine.ConcatRopes(r, leaf); err != nil {
			return err
		}
		want.Write(p)
	}

	flat, err := e.engine.MakeLeafRope(want.Bytes(), utf8)
	if err != nil {
		return err
	}
	expected := readerResult{
		chars:     e.engine.CharacterLength(flat),
		codeRange: e.engine.CodeRange(flat),
		hash:      flat.Hash(),
		content:   true,
	}

	results := make([]readerResult, *readers)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = readerResult{
				chars:     e.engine.CharacterLength(r),
				codeRange: e.engine.CodeRange(r),
				hash:      r.Hash(),
				content:   bytes.Equal(e.engine.ToByteBuffer(r), want.Bytes()),
			}
		}(i)
	}
	wg.Wait()

	consistent := true
	for _, res := range results {
		if res != expected {
			consistent = false
			break
		}
	}

	report, err := stressReport(r, *pieces, *readers, consistent, time.Since(start))
	if err != nil {
		return err
	}
	if err := writeJSON(e.stdout, report, *pretty); err != nil {
		return err
	}
	if !consistent {
		return errors.New("readers observed diverging results")
	}
	return nil
}

func cmdEncodings(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("encodings", "[-pretty]", e)
	pretty := fs.Bool("pretty", false, "Indent the JSON list")
	if err := parseArgs(fs, args, 0, 0); err != nil {
		return err
	}
	report, err := encodingsReport(e.engine.Factory().Registry().All())
	if err != nil {
		return err
	}
	return writeJSON(e.stdout, report, *pretty)
}
