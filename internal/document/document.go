// Package document models the live document that design tokens are
// propagated into: a write-only namespace of styling variables plus an
// ordered list of stylesheet links.
package document

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
)

// Document is the surface the propagator and font loader write to.
type Document interface {
	SetVariable(name, value string)
	AppendLink(link Link)
	// RemoveLinks removes every link carrying marker and returns how many were removed.
	RemoveLinks(marker string) int
}

// Link is a <link> element in the document head.
type Link struct {
	Href   string
	Rel    string
	Marker string
	// OnError runs when the resource behind Href fails to load.
	OnError func(err error)
}

// Change describes a document mutation delivered to subscribers.
type Change struct {
	Kind string
	Name string
}

// Change kinds. ChangeBatch replaces every change made inside Sheet.Batch.
const (
	ChangeVariable = "variable"
	ChangeLinks    = "links"
	ChangeBatch    = "batch"
)

// Batcher is implemented by documents that can coalesce the notifications of
// a group of mutations.
type Batcher interface {
	Batch(fn func())
}

// Sheet is an in-memory Document that renders to CSS and HTML.
type Sheet struct {
	mu          sync.RWMutex
	vars        map[string]string
	links       []Link
	subscribers map[int]func(Change)
	nextID      int
	batchDepth  int
	batchDirty  bool
}

// NewSheet creates an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{
		vars:        make(map[string]string),
		subscribers: make(map[int]func(Change)),
	}
}

// SetVariable writes a styling variable, replacing any previous value.
func (s *Sheet) SetVariable(name, value string) {
	s.mu.Lock()
	prev, existed := s.vars[name]
	s.vars[name] = value
	s.mu.Unlock()

	if existed && prev == value {
		return
	}
	s.notify(Change{Kind: ChangeVariable, Name: name})
}

// AppendLink adds a link to the end of the head.
func (s *Sheet) AppendLink(link Link) {
	if link.Rel == "" {
		link.Rel = "stylesheet"
	}
	s.mu.Lock()
	s.links = append(s.links, link)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeLinks, Name: link.Href})
}

// RemoveLinks removes every link whose marker equals marker.
func (s *Sheet) RemoveLinks(marker string) int {
	s.mu.Lock()
	kept := s.links[:0]
	removed := 0
	for _, l := range s.links {
		if l.Marker == marker {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	for i := len(kept); i < len(s.links); i++ {
		s.links[i] = Link{}
	}
	s.links = kept
	s.mu.Unlock()

	if removed > 0 {
		s.notify(Change{Kind: ChangeLinks, Name: marker})
	}
	return removed
}

// Variable returns the value of name.
func (s *Sheet) Variable(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	return v, ok
}

// Variables returns a copy of all variables.
func (s *Sheet) Variables() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// Links returns a copy of the current links in document order.
func (s *Sheet) Links() []Link {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Link, len(s.links))
	copy(out, s.links)
	return out
}

// CSS renders the variables as a :root rule with names sorted.
func (s *Sheet) CSS() string {
	vars := s.Variables()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %s;\n", name, vars[name])
	}
	b.WriteString("}\n")
	return b.String()
}

// HeadHTML renders the links as <link> elements.
func (s *Sheet) HeadHTML() string {
	var b strings.Builder
	for _, l := range s.Links() {
		fmt.Fprintf(&b, `<link rel="%s" href="%s"`, html.EscapeString(l.Rel), html.EscapeString(l.Href))
		if l.Marker != "" {
			fmt.Fprintf(&b, " %s", html.EscapeString(l.Marker))
		}
		b.WriteString(">\n")
	}
	return b.String()
}

// Subscribe registers fn for every change and returns a function that removes it.
func (s *Sheet) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// ReportLinkError invokes the OnError callback of every link pointing at href.
// It returns false when no such link is present.
func (s *Sheet) ReportLinkError(href string, err error) bool {
	var handlers []func(error)
	found := false
	for _, l := range s.Links() {
		if l.Href != href {
			continue
		}
		found = true
		if l.OnError != nil {
			handlers = append(handlers, l.OnError)
		}
	}
	for _, h := range handlers {
		h(err)
	}
	return found
}

// Batch runs fn and delivers a single ChangeBatch to subscribers when fn
// changed anything. Batches nest; only the outermost one notifies.
func (s *Sheet) Batch(fn func()) {
	s.mu.Lock()
	s.batchDepth++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.batchDepth--
		fire := s.batchDepth == 0 && s.batchDirty
		if fire {
			s.batchDirty = false
		}
		s.mu.Unlock()
		if fire {
			s.notify(Change{Kind: ChangeBatch})
		}
	}()
	fn()
}

func (s *Sheet) notify(change Change) {
	s.mu.Lock()
	if s.batchDepth > 0 && change.Kind != ChangeBatch {
		s.batchDirty = true
		s.mu.Unlock()
		return
	}
	handlers := make([]func(Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		handlers = append(handlers, fn)
	}
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(change)
	}
}
