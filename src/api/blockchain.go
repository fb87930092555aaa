package api

import "io"

type Blockchain interface {

	// Append an entry to the chain
	// the new block is cross-linked with the current head
	Append(data string) error

	// Validate the chain by rehashing each block
	// and comparing it against both of its neighbours
	Verify() error

	// Number of blocks, genesis included
	Len() int

	// Write a human-readable rendering of the chain,
	// newest block first
	Render(w io.Writer) error

	// Write a structural view of the chain
	// encoding scheme: TOML
	WriteTOML(w io.Writer) error
}
