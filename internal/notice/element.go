package notice

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Well-formedness errors the xml.Decoder does not report on its own.
var (
	errNoRootElement   = errors.New("no root element")
	errMultipleRoots   = errors.New("more than one root element")
	errTextOutsideRoot = errors.New("character data outside the root element")
)

// Element is a node of a decoded XML document. Element names are local names;
// namespace prefixes are ignored when matching.
type Element struct {
	Name  string
	nodes []node
}

// node is either a child element or a run of character data.
type node struct {
	elem *Element
	text string
}

// Find returns the first descendant named name, searching depth-first in document
// order. The receiver itself is not a candidate. It returns nil when nothing matches.
func (e *Element) Find(name string) *Element {
	for _, n := range e.nodes {
		if n.elem == nil {
			continue
		}
		if n.elem.Name == name {
			return n.elem
		}
		if found := n.elem.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Text returns all character data below e in document order.
func (e *Element) Text() string {
	var b strings.Builder
	e.writeText(&b)
	return b.String()
}

func (e *Element) writeText(b *strings.Builder) {
	for _, n := range e.nodes {
		if n.elem != nil {
			n.elem.writeText(b)
			continue
		}
		b.WriteString(n.text)
	}
}

// Decode parses r into a document node whose children are the top-level elements.
// Decoding is strict: exactly one root element, and only whitespace, comments and
// processing instructions around it. Declared non-UTF-8 encodings are converted.
func Decode(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Element{}
	stack := []*Element{doc}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		top := stack[len(stack)-1]
		atTopLevel := len(stack) == 1
		switch t := tok.(type) {
		case xml.StartElement:
			if atTopLevel && sawRoot {
				return nil, fmt.Errorf("decode xml: %w", errMultipleRoots)
			}
			child := &Element{Name: t.Name.Local}
			top.nodes = append(top.nodes, node{elem: child})
			stack = append(stack, child)
			sawRoot = true
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if !atTopLevel {
				top.nodes = append(top.nodes, node{text: string(t)})
				continue
			}
			// Only whitespace may surround the root element.
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("decode xml: %w", errTextOutsideRoot)
			}
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("decode xml: %w", errNoRootElement)
	}

	return doc, nil
}
