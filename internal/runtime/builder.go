// Package runtime builds trees from level specifications.
package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/expander"
	"github.com/aretw0/thicket/pkg/spec"
	"golang.org/x/sync/errgroup"
)

// maxPrealloc bounds the sibling slice capacity reserved up front.
const maxPrealloc = 1024

// Builder expands level specifications into trees. It keeps no state between
// builds and may be shared.
type Builder struct {
	exp         *expander.Expander
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	parallelism int
}

// NewBuilder creates a builder resolving templates with exp.
func NewBuilder(exp *expander.Expander, opts ...BuilderOption) *Builder {
	if exp == nil {
		exp = expander.New(nil)
	}
	b := &Builder{
		exp:    exp,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type level struct {
	index    int
	count    spec.Count
	fields   []field
	callback spec.Callback
}

type field struct {
	name string
	spec spec.FieldSpec
	tmpl *expander.Template
}

// compile validates the levels and compiles their templates once, so a bad
// placeholder fails the build before any node exists.
func (b *Builder) compile(levels []spec.Level) ([]level, error) {
	if err := spec.Validate(levels); err != nil {
		return nil, err
	}

	out := make([]level, len(levels))
	for i, l := range levels {
		out[i] = level{index: i, count: l.Count, callback: l.Callback, fields: make([]field, len(l.Fields))}
		for j, f := range l.Fields {
			out[i].fields[j] = field{name: f.Name, spec: f.Spec}
			if f.Spec.Kind() != spec.KindTemplate {
				continue
			}
			tmpl, err := b.exp.Compile(f.Spec.Template())
			if err != nil {
				return nil, fmt.Errorf("level %d: field %q: %w", i, f.Name, err)
			}
			out[i].fields[j].tmpl = tmpl
		}
	}
	return out, nil
}

// accumulator threads the build statistics through the recursion.
type accumulator struct {
	nodeCount int
	depth     int
	nextID    int

	// deferred accumulators belong to parallel branches: IDs and events are
	// assigned once the branches are folded back in order.
	deferred bool
	pruned   []pruned
}

type pruned struct {
	level  int
	parent *domain.Node
}

// Build generates the tree described by levels, drawing every random value
// from r. Any error aborts the build and no partial tree is returned.
func (b *Builder) Build(r *rand.Rand, levels []spec.Level) (*domain.TreeResult, error) {
	start := time.Now()

	compiled, err := b.compile(levels)
	if err != nil {
		return nil, err
	}

	var (
		roots []*domain.Node
		acc   *accumulator
	)
	if b.parallelism > 1 && len(compiled) > 1 {
		roots, acc, err = b.buildParallel(r, compiled)
	} else {
		acc = &accumulator{}
		roots, err = b.expand(r, compiled, 0, nil, acc)
	}
	if err != nil {
		return nil, err
	}

	result := &domain.TreeResult{
		Children:  roots,
		NodeCount: acc.nodeCount,
		Depth:     acc.depth,
	}

	elapsed := time.Since(start)
	b.logger.Info("tree generated",
		"nodes", result.NodeCount,
		"depth", result.Depth,
		"duration", elapsed,
	)
	b.emitBuildComplete(result, elapsed)
	return result, nil
}

// expand creates the siblings of level i under parent, depth first.
func (b *Builder) expand(r *rand.Rand, levels []level, i int, parent *domain.Node, acc *accumulator) ([]*domain.Node, error) {
	if i >= len(levels) {
		return nil, nil
	}
	lvl := &levels[i]

	n, err := lvl.count.Resolve(r, i)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		b.prune(acc, i, parent)
		return nil, nil
	}

	nodes := make([]*domain.Node, 0, min(n, maxPrealloc))
	for k := 0; k < n; k++ {
		node, err := b.newNode(r, lvl)
		if err != nil {
			return nil, err
		}
		b.record(acc, node)
		nodes = append(nodes, node)

		children, err := b.expand(r, levels, i+1, node, acc)
		if err != nil {
			return nil, err
		}
		node.Children = children
	}
	return nodes, nil
}

// newNode resolves every field of lvl, then runs the level callback.
func (b *Builder) newNode(r *rand.Rand, lvl *level) (*domain.Node, error) {
	fields := domain.NewFields()
	for _, f := range lvl.fields {
		switch f.spec.Kind() {
		case spec.KindLiteral:
			fields.Set(f.name, f.spec.Literal())
		case spec.KindRandom:
			if v, ok := f.spec.Randomizer().Generate(r); ok {
				fields.Set(f.name, v)
			}
		case spec.KindTemplate:
			fields.Set(f.name, f.tmpl.Execute(r))
		}
	}

	if lvl.callback != nil {
		if err := lvl.callback(r, fields); err != nil {
			return nil, fmt.Errorf("level %d: callback: %w", lvl.index, err)
		}
		if fields.Has(domain.ChildrenKey) {
			return nil, &domain.SpecShapeError{
				Level:  lvl.index,
				Key:    domain.ChildrenKey,
				Reason: "callback set a reserved key",
			}
		}
	}

	return &domain.Node{Level: lvl.index, Fields: fields}, nil
}

func (b *Builder) record(acc *accumulator, node *domain.Node) {
	acc.nodeCount++
	if node.Level+1 > acc.depth {
		acc.depth = node.Level + 1
	}
	if acc.deferred {
		return
	}
	acc.nextID++
	node.ID = acc.nextID
	b.emitNodeCreated(node)
}

func (b *Builder) prune(acc *accumulator, level int, parent *domain.Node) {
	if acc.deferred {
		acc.pruned = append(acc.pruned, pruned{level: level, parent: parent})
		return
	}
	b.emitLevelPruned(level, parent)
}

// buildParallel creates the roots with the master source, then builds every
// root's subtree concurrently with its own PCG source. Seeds are drawn in root
// order, so the result only depends on r.
func (b *Builder) buildParallel(r *rand.Rand, levels []level) ([]*domain.Node, *accumulator, error) {
	master := &accumulator{deferred: true}
	roots, err := b.expandRoots(r, levels, master)
	if err != nil || len(roots) == 0 {
		if err == nil {
			b.flushPruned(master)
		}
		return roots, master, err
	}

	seeds := make([][2]uint64, len(roots))
	for k := range seeds {
		seeds[k] = [2]uint64{r.Uint64(), r.Uint64()}
	}

	branches := make([]*accumulator, len(roots))
	var g errgroup.Group
	g.SetLimit(b.parallelism)
	for k, root := range roots {
		g.Go(func() error {
			br := rand.New(rand.NewPCG(seeds[k][0], seeds[k][1]))
			acc := &accumulator{deferred: true}
			children, err := b.expand(br, levels, 1, root, acc)
			if err != nil {
				return err
			}
			root.Children = children
			branches[k] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// fold in root order
	total := &accumulator{nodeCount: master.nodeCount, depth: master.depth}
	for _, acc := range branches {
		total.nodeCount += acc.nodeCount
		total.depth = max(total.depth, acc.depth)
	}

	tree := &domain.TreeResult{Children: roots}
	tree.Walk(func(n *domain.Node) {
		total.nextID++
		n.ID = total.nextID
		b.emitNodeCreated(n)
	})
	b.flushPruned(master)
	for _, acc := range branches {
		b.flushPruned(acc)
	}
	return roots, total, nil
}

func (b *Builder) expandRoots(r *rand.Rand, levels []level, acc *accumulator) ([]*domain.Node, error) {
	lvl := &levels[0]
	n, err := lvl.count.Resolve(r, 0)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		b.prune(acc, 0, nil)
		return nil, nil
	}

	roots := make([]*domain.Node, 0, min(n, maxPrealloc))
	for k := 0; k < n; k++ {
		node, err := b.newNode(r, lvl)
		if err != nil {
			return nil, err
		}
		b.record(acc, node)
		roots = append(roots, node)
	}
	return roots, nil
}

func (b *Builder) flushPruned(acc *accumulator) {
	for _, p := range acc.pruned {
		b.emitLevelPruned(p.level, p.parent)
	}
	acc.pruned = nil
}

func (b *Builder) emitNodeCreated(n *domain.Node) {
	if b.hooks.OnNodeCreated == nil {
		return
	}
	b.hooks.OnNodeCreated(&domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeCreated},
		Level:     n.Level,
		NodeID:    n.ID,
	})
}

func (b *Builder) emitLevelPruned(level int, parent *domain.Node) {
	parentID := 0
	if parent != nil {
		parentID = parent.ID
	}
	b.logger.Debug("level pruned", "level", level, "parent", parentID)

	if b.hooks.OnLevelPruned == nil {
		return
	}
	b.hooks.OnLevelPruned(&domain.LevelEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventLevelPruned},
		Level:     level,
		ParentID:  parentID,
	})
}

func (b *Builder) emitBuildComplete(t *domain.TreeResult, d time.Duration) {
	if b.hooks.OnBuildComplete == nil {
		return
	}
	b.hooks.OnBuildComplete(&domain.BuildEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventBuildComplete},
		NodeCount: t.NodeCount,
		Depth:     t.Depth,
		Duration:  d,
	})
}
