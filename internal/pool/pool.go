// Package pool keeps recycled scene nodes per prefab path so archetype
// entities can be spawned without rebuilding their node tree.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/scenekit/scenekit/internal/scene"
	"go.uber.org/zap"
)

// ErrUnknownPrefab is returned by a Factory that has no template for a path.
var ErrUnknownPrefab = errors.New("unknown prefab")

// MetaPrefab marks a node with the prefab path it was built from.
const MetaPrefab = "pool.prefab"

// Factory builds a fresh node tree for a prefab path.
type Factory func(ctx context.Context, path string) (scene.Node, error)

// NodePool is a per-prefab free list. Single goroutine (frame loop).
type NodePool struct {
	factory Factory
	maxIdle int
	free    map[string][]scene.Node
	log     *zap.Logger

	spawned  int
	reused   int
	recycled int
}

func New(factory Factory, maxIdle int, log *zap.Logger) *NodePool {
	if log == nil {
		log = zap.NewNop()
	}
	return &NodePool{
		factory: factory,
		maxIdle: maxIdle,
		free:    make(map[string][]scene.Node),
		log:     log,
	}
}

// Spawn returns an idle node for path, or builds one. The node is attached to
// parent (nil leaves it detached) and activated.
func (p *NodePool) Spawn(ctx context.Context, path string, parent scene.Node) (scene.Node, error) {
	var node scene.Node
	if idle := p.free[path]; len(idle) > 0 {
		node = idle[len(idle)-1]
		idle[len(idle)-1] = nil
		p.free[path] = idle[:len(idle)-1]
		p.reused++
	} else {
		n, err := p.build(ctx, path)
		if err != nil {
			return nil, err
		}
		node = n
	}
	scene.Attach(node, parent)
	node.SetActive(true)
	return node, nil
}

func (p *NodePool) build(ctx context.Context, path string) (scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := p.factory(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("build prefab %s: %w", path, err)
	}
	n.SetMeta(MetaPrefab, path)
	p.spawned++
	return n, nil
}

// Recycle deactivates node, detaches it and keeps it for reuse. Nodes that did
// not come from this pool, or that exceed the idle limit, are destroyed.
func (p *NodePool) Recycle(node scene.Node) {
	if node == nil || node.Destroyed() {
		return
	}
	v, ok := node.Meta(MetaPrefab)
	path, isString := v.(string)
	if !ok || !isString {
		p.log.Debug("recycling foreign node, destroying", zap.String("node", node.Name()))
		node.Destroy()
		return
	}
	if len(p.free[path]) >= p.maxIdle {
		node.Destroy()
		return
	}
	node.SetActive(false)
	scene.Attach(node, nil)
	p.free[path] = append(p.free[path], node)
	p.recycled++
}

// Prewarm builds up to n idle nodes for path, bounded by the idle limit.
func (p *NodePool) Prewarm(ctx context.Context, path string, n int) error {
	for i := 0; i < n && len(p.free[path]) < p.maxIdle; i++ {
		node, err := p.build(ctx, path)
		if err != nil {
			return err
		}
		node.SetActive(false)
		p.free[path] = append(p.free[path], node)
	}
	return nil
}

// Idle returns the number of pooled nodes waiting for path.
func (p *NodePool) Idle(path string) int { return len(p.free[path]) }

// Paths returns the prefab paths that currently hold idle nodes, sorted.
func (p *NodePool) Paths() []string {
	out := make([]string, 0, len(p.free))
	for path, nodes := range p.free {
		if len(nodes) > 0 {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// Clear destroys every idle node.
func (p *NodePool) Clear() {
	for path, nodes := range p.free {
		for _, n := range nodes {
			n.Destroy()
		}
		delete(p.free, path)
	}
}

// Stats reports nodes built, reused and recycled since creation.
func (p *NodePool) Stats() (spawned, reused, recycled int) {
	return p.spawned, p.reused, p.recycled
}
