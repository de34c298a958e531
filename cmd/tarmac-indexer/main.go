// Command tarmac-indexer builds a Tarmac trace index file from a stream of
// pre-parsed trace events, and optionally seals its completion roots with
// a COSE signature.
//
// Parsing Tarmac trace text itself, image/symbol loading, and register-file
// metadata are all out-of-scope external collaborators (see tarmacio and
// sign package docs); this binary reads events already reduced to
// newline-delimited JSON, the same boundary the indexer/query packages
// assume throughout.
package main

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/arvalid/tarmac-trace-utilities/arena"
	"github.com/arvalid/tarmac-trace-utilities/indexer"
	"github.com/arvalid/tarmac-trace-utilities/schema"
	"github.com/arvalid/tarmac-trace-utilities/sign"
	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

func main() {
	logger.New("tarmac-indexer")
	defer logger.OnExit()

	if err := run(os.Args[1:]); err != nil {
		logger.Sugar.Errorf("tarmac-indexer: %v", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("tarmac-indexer", flag.ContinueOnError)
	var (
		outPath      = fs.String("out", "", "path of the index file to create")
		eventsPath   = fs.String("events", "-", "path of the newline-delimited JSON event stream (- for stdin)")
		registersCfg = fs.String("registers", "", "path of the register-file JSON description (optional)")
		recordMemory = fs.Bool("record-memory", true, "track memory/register contents")
		recordCalls  = fs.Bool("record-calls", true, "track call depth")
		bigEndian    = fs.Bool("big-endian", false, "the traced CPU was big-endian")
		aarch64      = fs.Bool("aarch64", false, "the trace includes AArch64 execution state")
		thumbOnly    = fs.Bool("thumb-only", false, "the trace assumes everything is Thumb")
		lineOffset   = fs.Uint("line-offset", 0, "trace-file line number of the first indexed event")
		signKeyPath  = fs.String("sign-key", "", "path of a PEM EC private key to seal the completed index with (optional)")
		sealOutPath  = fs.String("seal-out", "", "path to write the COSE seal to (defaults to <out>.seal when -sign-key is set)")
		integrity    = fs.Bool("integrity-checks", false, "checksum memory-contents blobs for torn-write detection")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outPath == "" {
		return errors.New("tarmac-indexer: -out is required")
	}

	var registers *jsonRegisterMap
	if *registersCfg != "" {
		rm, err := loadRegisterMap(*registersCfg)
		if err != nil {
			return fmt.Errorf("load registers: %w", err)
		}
		registers = rm
	}

	eventsFile, closeEvents, err := openEventsSource(*eventsPath)
	if err != nil {
		return fmt.Errorf("open events: %w", err)
	}
	defer closeEvents()
	parser := newNDJSONParser(eventsFile)

	var arenaOpts []arena.Option
	if *integrity {
		arenaOpts = append(arenaOpts, arena.WithIntegrityChecks())
	}
	a, err := arena.Create(*outPath, schema.ArenaStart, arenaOpts...)
	if err != nil {
		return fmt.Errorf("create arena: %w", err)
	}
	defer a.Close()

	params := indexer.Params{RecordMemory: *recordMemory, RecordCalls: *recordCalls}

	idx, err := buildIndexer(a, params, registers)
	if err != nil {
		return fmt.Errorf("new indexer: %w", err)
	}

	n, err := driveEvents(idx, parser)
	if err != nil {
		return fmt.Errorf("index events (after %d): %w", n, err)
	}

	if err := idx.Finalize(indexer.FinalizeOptions{
		BigEndian:    *bigEndian,
		AArch64:      *aarch64,
		ThumbOnly:    *thumbOnly,
		LineNoOffset: uint32(*lineOffset),
	}); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}

	if *signKeyPath != "" {
		if err := sealIndex(idx, *signKeyPath, sealPathFor(*sealOutPath, *outPath)); err != nil {
			return fmt.Errorf("seal: %w", err)
		}
	}

	logger.Sugar.Infof("tarmac-indexer: wrote %s (%d events)", *outPath, n)
	return nil
}

func openEventsSource(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func sealPathFor(sealOut, outPath string) string {
	if sealOut != "" {
		return sealOut
	}
	return outPath + ".seal"
}

func sealIndex(idx *indexer.Indexer, keyPath, sealPath string) error {
	key, err := loadECPrivateKey(keyPath)
	if err != nil {
		return fmt.Errorf("load signing key: %w", err)
	}
	raw, err := sign.Sign(key, idx.SeqRoot(), idx.ByPCRoot(), time.Now().Unix(), nil)
	if err != nil {
		return err
	}
	return os.WriteFile(sealPath, raw, 0o644)
}

func buildIndexer(a *arena.Arena, params indexer.Params, registers *jsonRegisterMap) (*indexer.Indexer, error) {
	var regMap tarmacio.RegisterMap
	if registers != nil {
		regMap = registers
	}
	return indexer.New(a, params, noImage{}, regMap, defaultCallDepthHeuristic)
}

// driveEvents pumps parser's event stream into idx until io.EOF, returning
// the number of events handled.
func driveEvents(idx *indexer.Indexer, parser *ndjsonParser) (int, error) {
	n := 0
	for {
		ev, err := parser.Next()
		if err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
		if err := idx.HandleEvent(ev); err != nil {
			return n, fmt.Errorf("line %d: %w", ev.FirstLine, err)
		}
		n++
	}
}

func loadECPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("tarmac-indexer: no PEM block in %s", path)
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("tarmac-indexer: unrecognized EC key encoding in %s: %w", path, err)
	}
	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("tarmac-indexer: key in %s is not an EC private key", path)
	}
	return ecKey, nil
}
