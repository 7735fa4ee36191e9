package shaderpp

import "strings"

// defaultMaxRecursionDepth bounds identifier substitution, the only
// defense against cyclic #define chains. The 100th nested substitution
// still succeeds; the 101st fails with ErrMaxRecursionDepthReached.
const defaultMaxRecursionDepth = 100

// defaultMaxIncludeDepth bounds nested #include resolution. It exists
// purely so a pathological or buggy loader fails fast with
// ErrIncludeDepthExceeded instead of exhausting the host's stack.
const defaultMaxIncludeDepth = 256

// SymbolTable maps a defined name to its body. A defined-but-blank symbol
// (e.g. `#define GUARD`) is stored as "". Lookup is by exact name equality.
type SymbolTable map[string]string

// Define seeds the symbol table before processing begins. Value is nil for
// a symbol that's defined but has no body (`#define GUARD`); otherwise it
// points at the verbatim text to store (re-lexed only when the symbol is
// actually used).
type Define struct {
	Name  string
	Value *string
}

// NewDefine is a convenience constructor for a defined-with-value symbol.
func NewDefine(name, value string) Define {
	return Define{Name: name, Value: &value}
}

// NewEmptyDefine is a convenience constructor for a defined-but-blank
// symbol, equivalent to `#define NAME` with no body.
func NewEmptyDefine(name string) Define {
	return Define{Name: name}
}

// Loader resolves an include path to file contents. false means "not
// found" and causes ErrCantOpenFile. The preprocessor never opens files
// itself: it never interprets the path (no "./" resolution, no search
// paths, no canonicalization) and never re-enters the same loader call
// concurrently -- see loader.go for ready-made adapters.
type Loader func(path string) (string, bool)

// Engine is the configurable entry point for preprocessing. The zero value
// is not usable directly; construct one with NewEngine. A single Engine is
// safe for concurrent Process calls: nothing in an Engine is mutated after
// construction, and each Process call owns its own symbol table.
type Engine struct {
	maxRecursionDepth int
	maxIncludeDepth   int
	debug             bool
	defaultLoader     Loader
}

// Option configures an Engine constructed with NewEngine.
type Option func(*Engine)

// WithMaxRecursionDepth overrides the default depth_left bound (100) used
// to break cyclic #define chains during identifier substitution.
func WithMaxRecursionDepth(n int) Option {
	return func(e *Engine) { e.maxRecursionDepth = n }
}

// WithMaxIncludeDepth overrides the default nested-#include cap (256).
func WithMaxIncludeDepth(n int) Option {
	return func(e *Engine) { e.maxIncludeDepth = n }
}

// WithDebugLogging turns on this Engine's trace logging (which file the
// loader was asked to resolve, each #define/#undef mutation, which branch
// of a conditional was taken, depth-counter consumption). It is purely
// diagnostic: toggling it never changes Process's return value.
func WithDebugLogging(on bool) Option {
	return func(e *Engine) { e.debug = on }
}

// WithLoader registers the Loader used by Process when called without one
// explicitly.
func WithLoader(l Loader) Option {
	return func(e *Engine) { e.defaultLoader = l }
}

// NewEngine builds an Engine with the given options applied over the
// defaults (max recursion depth 100, max include depth 256, no debug
// logging, no default loader).
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxRecursionDepth: defaultMaxRecursionDepth,
		maxIncludeDepth:   defaultMaxIncludeDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// expansionContext carries the state shared across one top-level Process
// call and all of its recursively-expanded includes: the mutable symbol
// table (visible across includes) and the output buffer.
type expansionContext struct {
	engine       *Engine
	symbols      SymbolTable
	loader       Loader
	includeDepth int
	out          strings.Builder
}

func (ctx *expansionContext) maxDepth() int {
	return ctx.engine.maxRecursionDepth
}

func (ctx *expansionContext) formatTokens(tokens []Token, depthLeft int) error {
	return formatTokensInto(&ctx.out, tokens, depthLeft, ctx.symbols, ctx.engine)
}

func (ctx *expansionContext) renderItems(items []Item) error {
	for _, it := range items {
		if err := it.execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *expansionContext) expandInclude(path string) error {
	if ctx.includeDepth >= ctx.engine.maxIncludeDepth {
		return newError(ErrIncludeDepthExceeded, 0, 0, "include depth exceeded while resolving \""+path+"\"")
	}
	if ctx.loader == nil {
		return &Error{Kind: ErrCantOpenFile, msg: "no loader configured to resolve \"" + path + "\""}
	}
	contents, ok := ctx.loader(path)
	if !ok {
		ctx.logf("include %q: not found", path)
		return &Error{Kind: ErrCantOpenFile, msg: "loader could not resolve \"" + path + "\""}
	}
	ctx.logf("include %q: %d bytes", path, len(contents))

	tokens, err := tokenize(contents)
	if err != nil {
		return annotateSource(err, path)
	}
	items, err := parse(tokens)
	if err != nil {
		return annotateSource(err, path)
	}

	child := &expansionContext{
		engine:       ctx.engine,
		symbols:      ctx.symbols,
		loader:       ctx.loader,
		includeDepth: ctx.includeDepth + 1,
	}
	if err := child.renderItems(items); err != nil {
		return annotateSource(err, path)
	}
	ctx.out.WriteString(child.out.String())
	return nil
}

func annotateSource(err error, source string) error {
	if e, ok := err.(*Error); ok && e.Source == "" {
		e.Source = source
	}
	return err
}

// formatTokensInto renders tokens to dst: a single space separates
// adjacent tokens except when either side of the boundary is a newline,
// and any Word matching a symbol table key is substituted (recursively,
// re-lexing the stored body) rather than emitted literally.
func formatTokensInto(dst *strings.Builder, tokens []Token, depthLeft int, symbols SymbolTable, e *Engine) error {
	// Guards a negative configured depth; the per-substitution check in
	// emitWord below is what actually trips during normal expansion.
	if depthLeft < 0 {
		return newError(ErrMaxRecursionDepthReached, 0, 0, "max recursion depth reached")
	}

	var prev *Token
	for i := range tokens {
		tok := &tokens[i]

		if prev != nil && tok.Typ != TokenNewline && prev.Typ != TokenNewline {
			dst.WriteByte(' ')
		}

		if err := emitWord(dst, tok, depthLeft, symbols, e); err != nil {
			return err
		}
		prev = tok
	}
	return nil
}

func emitWord(dst *strings.Builder, tok *Token, depthLeft int, symbols SymbolTable, e *Engine) error {
	if tok.Typ != TokenWord {
		dst.WriteString(tok.text())
		return nil
	}

	value, defined := symbols[tok.Val]
	if !defined {
		dst.WriteString(tok.Val)
		return nil
	}

	if depthLeft <= 0 {
		return &Error{
			Kind: ErrMaxRecursionDepthReached,
			Name: tok.Val,
			Line: tok.Line,
			Col:  tok.Col,
			msg:  "max recursion depth reached substituting " + tok.Val,
		}
	}

	e.logf("substitute %q (depth left %d)", tok.Val, depthLeft-1)
	bodyTokens, err := tokenize(value)
	if err != nil {
		return err
	}
	return formatTokensInto(dst, bodyTokens, depthLeft-1, symbols, e)
}

// process is the shared implementation behind Engine.Process and the
// package-level Process.
func (e *Engine) process(code string, defines []Define, loader Loader) (string, error) {
	if loader == nil {
		loader = e.defaultLoader
	}

	symbols := make(SymbolTable, len(defines))
	for _, d := range defines {
		if d.Value != nil {
			symbols[d.Name] = *d.Value
		} else {
			symbols[d.Name] = ""
		}
	}

	tokens, err := tokenize(code)
	if err != nil {
		return "", err
	}
	items, err := parse(tokens)
	if err != nil {
		return "", err
	}

	ctx := &expansionContext{engine: e, symbols: symbols, loader: loader}
	if err := ctx.renderItems(items); err != nil {
		return "", err
	}
	return ctx.out.String(), nil
}

// Process is the canonical call: seed the symbol table from defines, lex
// and parse code, then render it -- resolving #include via loader and
// substituting identifiers with bounded recursion. Any error from the
// lexer, parser or loader propagates verbatim and aborts the whole call;
// no partial output is ever returned alongside an error.
func (e *Engine) Process(code string, defines []Define, loader Loader) (string, error) {
	return e.process(code, defines, loader)
}

var defaultEngine = NewEngine()

// Process is the zero-configuration entry point, equivalent to
// NewEngine().Process(code, defines, loader).
func Process(code string, defines []Define, loader Loader) (string, error) {
	return defaultEngine.process(code, defines, loader)
}
