package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/danmuck/dps_ledger/src/api"
	"github.com/danmuck/dps_ledger/src/ledger"
	logs "github.com/danmuck/smplog"
	"github.com/mr-tron/base58"
	"github.com/pterm/pterm"
)

// chainSource is the indexed read access the table view needs.
type chainSource interface {
	Len() int
	Get(index uint32) (*ledger.Block, error)
}

func renderChain(chain api.Blockchain, format RenderFormat, out io.Writer) error {
	switch format {
	case FormatTOML:
		return chain.WriteTOML(out)
	case FormatTable:
		if src, ok := chain.(chainSource); ok {
			return renderTable(src, out)
		}
		logs.Warnf("table view unavailable for %T, rendering text", chain)
	}
	return chain.Render(out)
}

func renderTable(src chainSource, out io.Writer) error {
	data := pterm.TableData{
		{"Index", "Id", "Timestamp", "Data", "Self", "Previous", "Next"},
	}
	for i := src.Len() - 1; i >= 0; i-- {
		b, err := src.Get(uint32(i))
		if err != nil {
			return err
		}
		data = append(data, []string{
			strconv.FormatUint(uint64(b.Index()), 10),
			shortID(b.Commitment()),
			b.Timestamp().UTC().Format(time.RFC3339),
			b.Data(),
			b.Commitment().String(),
			linkString(b.PreviousHash()),
			linkString(b.NextHash()),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err = io.WriteString(out, table+"\n")
	return err
}

// shortID is a compact base58 form of a commitment for narrow terminals.
func shortID(h ledger.Hash) string {
	return base58.Encode(h.Bytes())
}

func linkString(h ledger.Hash, ok bool) string {
	if !ok {
		return "-"
	}
	return h.String()
}

func executeVerify(chain *ledger.Ledger) error {
	logs.Println("\nVerifying chain...")
	logs.DataKV("Digest", chain.Digest())
	logs.DataKV("Blocks", strconv.Itoa(chain.Len()))
	errs := chain.VerifyAll()
	if len(errs) == 0 {
		logs.StatusInfo(fmt.Sprintf("All %d block(s) verified: healthy.", chain.Len()))
		logs.Printf("\n")
		return nil
	}
	logs.Printf("Found %d integrity error(s):\n", len(errs))
	for _, be := range errs {
		logs.MenuItem(int(be.Index), be.Err.Error(), false)
		logs.Printf("\n")
	}
	return chain.Verify()
}
