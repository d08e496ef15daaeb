package document

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/matzehuels/avatarshuffle/pkg/errors"
	"github.com/matzehuels/avatarshuffle/pkg/node"
	"github.com/matzehuels/avatarshuffle/pkg/plugin"
	"github.com/matzehuels/avatarshuffle/pkg/storage"
	"github.com/matzehuels/avatarshuffle/pkg/stylecache"
)

// StyleIDPrefix prefixes the ids of imported library styles.
const StyleIDPrefix = "S:"

// Document is a design document loaded from JSON. It implements
// [plugin.Host]: the selection is the set of nodes flagged "selected",
// imported styles get ids of the form "S:<key>", and created images are
// kept in memory under their content hash.
type Document struct {
	Name string

	roots    []node.Node
	byID     map[string]node.Node
	names    map[node.Node]string
	selected map[node.Node]bool

	mu      sync.Mutex
	styles  map[string]string // style id -> key
	images  map[string][]byte
	notices []plugin.Notice
	closed  bool
}

type file struct {
	Name   string            `json:"name,omitempty"`
	Nodes  []jsonNode        `json:"nodes"`
	Styles map[string]string `json:"styles,omitempty"`
}

func newDocument() *Document {
	return &Document{
		byID:     make(map[string]node.Node),
		names:    make(map[node.Node]string),
		selected: make(map[node.Node]bool),
		styles:   make(map[string]string),
		images:   make(map[string][]byte),
	}
}

// Read decodes a document.
func Read(r io.Reader) (*Document, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	d := newDocument()
	d.Name = f.Name
	for id, key := range f.Styles {
		d.styles[id] = key
	}
	for _, jn := range f.Nodes {
		n, err := d.build(jn)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid document")
		}
		d.roots = append(d.roots, n)
	}
	return d, nil
}

// ReadFile reads the document at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Write encodes d, including the styles imported so far.
func (d *Document) Write(w io.Writer) error {
	d.mu.Lock()
	styles := make(map[string]string, len(d.styles))
	for id, key := range d.styles {
		styles[id] = key
	}
	d.mu.Unlock()

	out := file{Name: d.Name, Nodes: make([]jsonNode, 0, len(d.roots)), Styles: styles}
	for _, n := range d.roots {
		out.Nodes = append(out.Nodes, d.export(n))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteFile writes d to path.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Roots returns the top-level nodes.
func (d *Document) Roots() []node.Node { return d.roots }

// Node returns the node with the given id.
func (d *Document) Node(id string) (node.Node, bool) {
	n, ok := d.byID[id]
	return n, ok && n != nil
}

// Selection returns the selected nodes in document order.
func (d *Document) Selection() []node.Node {
	var out []node.Node
	for _, r := range d.roots {
		node.Walk(r, func(n node.Node) {
			if d.selected[n] {
				out = append(out, n)
			}
		})
	}
	return out
}

// Select replaces the selection with the nodes named by ids.
func (d *Document) Select(ids ...string) error {
	sel := make(map[node.Node]bool, len(ids))
	for _, id := range ids {
		n, ok := d.Node(id)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "no node with id %s", id)
		}
		sel[n] = true
	}
	d.selected = sel
	return nil
}

// ImportStyle implements stylecache.Importer.
func (d *Document) ImportStyle(_ context.Context, key string) (stylecache.Handle, error) {
	if err := errors.ValidateStyleKey(key); err != nil {
		return stylecache.Handle{}, err
	}
	id := StyleIDPrefix + key
	d.mu.Lock()
	d.styles[id] = key
	d.mu.Unlock()
	return stylecache.Handle{Key: key, ID: id}, nil
}

// CreateImage stores data and returns its content hash.
func (d *Document) CreateImage(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "empty image")
	}
	hash := storage.Hash(data)
	d.mu.Lock()
	d.images[hash] = data
	d.mu.Unlock()
	return hash, nil
}

// Images returns the created images by hash.
func (d *Document) Images() map[string][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string][]byte, len(d.images))
	for h, b := range d.images {
		out[h] = b
	}
	return out
}

// ImageHashes returns the hashes of created images, sorted.
func (d *Document) ImageHashes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.images))
	for h := range d.images {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Notify records n.
func (d *Document) Notify(n plugin.Notice) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notices = append(d.notices, n)
}

// Notices returns the recorded notices.
func (d *Document) Notices() []plugin.Notice {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]plugin.Notice(nil), d.notices...)
}

// Close marks the document closed.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

// Closed reports whether Close was called.
func (d *Document) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

var _ plugin.Host = (*Document)(nil)
