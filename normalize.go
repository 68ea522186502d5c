package tdv

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis/tokenizer/character"
	"golang.org/x/net/html"
)

// wsTokenizer splits on Unicode white space, like bleve's whitespace tokenizer.
var wsTokenizer = character.NewCharacterTokenizer(func(r rune) bool {
	return !unicode.IsSpace(r)
})

// Split returns the white-space separated tokens of text, in order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	stream := wsTokenizer.Tokenize([]byte(text))
	tokens := make([]string, 0, len(stream))
	for _, tok := range stream {
		tokens = append(tokens, string(tok.Term))
	}
	return tokens
}

// Wiki markup patterns found in glosses and example sentences.
var (
	reTemplate   = regexp.MustCompile(`\{\{[^}]+\}\}`)
	reWikiLink   = regexp.MustCompile(`(\{\{|\[\[)(w\||:)?([^}\]|]+)(\|[^}\]]+)?(\}\}|\]\])`)
	reLabel      = regexp.MustCompile(`\{\{(?:l|lb|label)\|[a-z][a-z]\|([^}|]+)(?:\|[^}]+)?\}\}`)
	reFreeMarkup = regexp.MustCompile(`'''|''|\[\[|\]\]|&[a-z]+;`)
	reBold       = regexp.MustCompile(`'''([^']+)'''`)
	reNegation   = regexp.MustCompile(`^not? .*`)
)

// StripMarkup removes {{template}} constructs and any HTML tags, and
// unescapes HTML entities.
func StripMarkup(text string) string {
	text = reTemplate.ReplaceAllString(text, "")
	if !strings.ContainsAny(text, "<&") {
		return text
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

// cleanExample turns a raw example sentence into plain text and locates
// the headword inside it. Bold ('''x''') segments mark the headword; when
// none is present the first literal occurrence of term is used.
func cleanExample(raw, term string) Example {
	s := reLabel.ReplaceAllString(raw, "$1")
	s = reWikiLink.ReplaceAllString(s, "$3")

	var (
		sb    strings.Builder
		spans []Span
		last  int
	)
	for _, m := range reBold.FindAllStringSubmatchIndex(s, -1) {
		sb.WriteString(reFreeMarkup.ReplaceAllString(s[last:m[0]], ""))
		word := reFreeMarkup.ReplaceAllString(s[m[2]:m[3]], "")
		start := sb.Len()
		sb.WriteString(word)
		spans = append(spans, Span{Start: start, End: sb.Len()})
		last = m[1]
	}
	sb.WriteString(reFreeMarkup.ReplaceAllString(s[last:], ""))

	ex := Example{Sentence: sb.String(), Spans: spans}
	if len(ex.Spans) == 0 && term != "" {
		if i := strings.Index(ex.Sentence, term); i >= 0 {
			ex.Spans = append(ex.Spans, Span{Start: i, End: i + len(term)})
		}
	}
	return ex
}

// splitList splits a delimited attribute value, dropping empty items.
func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
