package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/dps_ledger/cmd/internal/logcfg"
	"github.com/danmuck/dps_ledger/src/ledger"
	logs "github.com/danmuck/smplog"
)

// defaultMaxLine caps the size of a single appended payload.
const defaultMaxLine = 16 << 20

type session struct {
	chain   *ledger.Ledger
	format  RenderFormat
	out     io.Writer
	maxLine int // defaultMaxLine when zero
}

// handle processes one input line. It returns true when the session should end.
func (s *session) handle(line string) (bool, error) {
	input := strings.TrimSpace(line)

	switch strings.ToLower(input) {
	case "":
		return false, nil
	case "exit", "quit":
		return true, nil
	case ":help":
		printUsage(s.out, defaultRuntimeConfig)
		return false, nil
	case ":print":
		return false, renderChain(s.chain, FormatText, s.out)
	case ":table":
		return false, renderChain(s.chain, FormatTable, s.out)
	case ":toml":
		return false, renderChain(s.chain, FormatTOML, s.out)
	case ":verify":
		if err := executeVerify(s.chain); err != nil {
			logs.Errorf(err, "Chain validation failed")
		}
		return false, nil
	}

	// Append block with user input
	if err := s.chain.Append(input); err != nil {
		logs.Errorf(err, "Error appending block")
		return false, nil
	}
	logs.Debugf("Appended block %d", s.chain.Head().Index())
	return false, renderChain(s.chain, s.format, s.out)
}

func (s *session) run(in io.Reader) error {
	maxLine := s.maxLine
	if maxLine <= 0 {
		maxLine = defaultMaxLine
	}

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(s.out, "> ")
		line, readErr := reader.ReadString('\n')
		if len(line) > maxLine {
			logs.StatusWarn(fmt.Sprintf("Skipped input line of %d bytes (limit %d).", len(line), maxLine))
		} else if line != "" {
			done, err := s.handle(line)
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintln(s.out, "Exiting...")
				return nil
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}

func main() {
	logs.Configure(logcfg.Load())

	cfg, err := parseCLI(os.Args[1:], defaultRuntimeConfig)
	if err != nil {
		fmt.Printf("Error: %v\n\n", err)
		printUsage(os.Stdout, defaultRuntimeConfig)
		os.Exit(1)
	}

	ledgerCfg, err := resolveLedgerConfig(cfg)
	if err != nil {
		logs.Fatalf(err, "Failed to load ledger config %s", cfg.ConfigPath)
	}

	chain, err := ledger.NewWithConfig(ledgerCfg)
	if err != nil {
		logs.Fatalf(err, "Failed to initialize ledger")
	}
	logs.Titlef("--[ dps_ledger | %s ]--\n\n", chain.Digest())

	s := &session{chain: chain, format: cfg.Format, out: os.Stdout}
	if err := renderChain(chain, cfg.Format, os.Stdout); err != nil {
		logs.Fatalf(err, "Failed to render ledger")
	}
	fmt.Println("Ledger initialized. Type text to append to the chain, or 'exit' to quit.")

	if err := s.run(os.Stdin); err != nil {
		logs.Fatalf(err, "Session failed")
	}

	if err := executeVerify(chain); err != nil {
		logs.Errorf(err, "Chain validation failed")
	} else {
		logs.Info("Chain validation passed.")
	}
}
