package fileproc

import "github.com/panbanda/vestige/pkg/parser"

// parserPool hands out reusable parsers to workers. Parsers wrap CGO state,
// so reuse avoids rebuilding grammar bindings for every file.
type parserPool struct {
	parsers chan *parser.Parser
}

// newParserPool creates a pool with size parsers ready to borrow.
func newParserPool(size int) *parserPool {
	p := &parserPool{parsers: make(chan *parser.Parser, size)}
	for range size {
		p.parsers <- parser.New()
	}
	return p
}

// get borrows a parser, blocking until one is free.
func (p *parserPool) get() *parser.Parser {
	return <-p.parsers
}

// put returns a borrowed parser.
func (p *parserPool) put(psr *parser.Parser) {
	p.parsers <- psr
}

// close releases every parser. Call only after all borrows are returned.
func (p *parserPool) close() {
	close(p.parsers)
	for psr := range p.parsers {
		psr.Close()
	}
}
