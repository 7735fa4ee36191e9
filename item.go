package shaderpp

import "strings"

// Item is a node in the structural tree produced by the parser. Each
// concrete type implements execute, which renders itself into ctx's output
// buffer and mutates ctx's symbol table, in document order.
type Item interface {
	execute(ctx *expansionContext) error
}

// TextItem is a maximal run of non-directive tokens.
type TextItem struct {
	Tokens []Token
}

func (it *TextItem) execute(ctx *expansionContext) error {
	return ctx.formatTokens(it.Tokens, ctx.maxDepth())
}

// IncludeItem comes from `#include "path"` -- only the string-literal form
// is recognized. Path is exactly the body of the String token, unresolved.
type IncludeItem struct {
	Path string
}

func (it *IncludeItem) execute(ctx *expansionContext) error {
	return ctx.expandInclude(it.Path)
}

// DefineItem comes from `#define NAME tokens…` up to the next unescaped
// newline or EOF.
type DefineItem struct {
	Name string
	Body []Token
}

func (it *DefineItem) execute(ctx *expansionContext) error {
	var val strings.Builder
	if err := formatTokensInto(&val, it.Body, ctx.maxDepth(), ctx.symbols, ctx.engine); err != nil {
		return err
	}
	old, hadOld := ctx.symbols[it.Name]
	ctx.symbols[it.Name] = val.String()
	if hadOld {
		ctx.logf("redefine %q: %q -> %q", it.Name, old, val.String())
	} else {
		ctx.logf("define %q = %q", it.Name, val.String())
	}
	return nil
}

// UndefineItem comes from `#undef NAME`.
type UndefineItem struct {
	Name string
}

func (it *UndefineItem) execute(ctx *expansionContext) error {
	delete(ctx.symbols, it.Name)
	ctx.logf("undef %q", it.Name)
	return nil
}

// ConditionalItem holds the two branches of `#ifdef`/`#ifndef`. For
// `#ifndef` the parser has already swapped the branches so that Defined is
// always "taken when Name is defined".
type ConditionalItem struct {
	Name       string
	Defined    []Item
	NotDefined []Item
}

func (it *ConditionalItem) execute(ctx *expansionContext) error {
	_, defined := ctx.symbols[it.Name]
	branch := it.NotDefined
	if defined {
		branch = it.Defined
	}
	ctx.logf("conditional %q defined=%t", it.Name, defined)
	return ctx.renderItems(branch)
}
