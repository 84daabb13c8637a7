package scene

// Node is the scene-graph handle an entity wraps. The registry only relies on
// activation, parenting, metadata and destruction.
type Node interface {
	Name() string
	Active() bool
	SetActive(active bool)
	Parent() Node
	AddChild(child Node)
	RemoveChild(child Node)
	Children() []Node
	SetMeta(key string, value any)
	Meta(key string) (any, bool)
	Destroy()
	Destroyed() bool

	setParent(parent Node)
}

// BasicNode is an in-memory Node. Accessed only from the frame goroutine.
type BasicNode struct {
	name      string
	active    bool
	destroyed bool
	parent    Node
	children  []Node
	meta      map[string]any
}

// NewNode returns an active, unparented node.
func NewNode(name string) *BasicNode {
	return &BasicNode{name: name, active: true}
}

func (n *BasicNode) Name() string          { return n.name }
func (n *BasicNode) Active() bool          { return n.active }
func (n *BasicNode) SetActive(active bool) { n.active = active }
func (n *BasicNode) Parent() Node          { return n.parent }
func (n *BasicNode) Destroyed() bool       { return n.destroyed }

func (n *BasicNode) setParent(parent Node) { n.parent = parent }

// AddChild re-parents child under n, detaching it from any previous parent.
func (n *BasicNode) AddChild(child Node) {
	if child == nil || child == Node(n) {
		return
	}
	if old := child.Parent(); old != nil {
		old.RemoveChild(child)
	}
	n.children = append(n.children, child)
	child.setParent(n)
}

func (n *BasicNode) RemoveChild(child Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.setParent(nil)
			return
		}
	}
}

// Children returns a snapshot of the child list.
func (n *BasicNode) Children() []Node {
	out := make([]Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *BasicNode) SetMeta(key string, value any) {
	if n.meta == nil {
		n.meta = make(map[string]any, 2)
	}
	n.meta[key] = value
}

func (n *BasicNode) Meta(key string) (any, bool) {
	v, ok := n.meta[key]
	return v, ok
}

// Destroy detaches n from its parent and destroys the subtree.
func (n *BasicNode) Destroy() {
	if n.destroyed {
		return
	}
	n.destroyed = true
	n.active = false
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
	for _, c := range n.Children() {
		c.Destroy()
	}
	n.children = nil
}

// Attach parents child under parent, or detaches it when parent is nil.
func Attach(child, parent Node) {
	if parent != nil {
		parent.AddChild(child)
		return
	}
	if old := child.Parent(); old != nil {
		old.RemoveChild(child)
	}
}

// Walk visits n and its descendants depth-first.
func Walk(n Node, fn func(Node)) {
	fn(n)
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}
