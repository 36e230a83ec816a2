package syntax

// NodeID addresses a node within its Tree. Ids are dense, assigned in
// preorder during construction, and stable for the life of the tree.
type NodeID int32

// NoNode is the null node id, used for absent parents and children.
const NoNode NodeID = -1

// Span locates a node in the source file. Lines and columns are zero-based;
// presentation layers convert to one-based on output.
type Span struct {
	StartByte uint32
	EndByte   uint32
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
}

// Node is a single element of the arena. Relationships are ids into the
// owning tree, never pointers, so the tree can be frozen and shared after
// construction without ownership cycles.
type Node struct {
	Kind        NodeKind
	Method      MethodKind
	Flags       NodeFlags
	Parent      NodeID
	FirstChild  NodeID
	NextSibling NodeID
	Span        Span
}

// Tree is a flat store of nodes. It is append-only during construction and
// read-only afterwards; the analyzer never mutates it.
type Tree struct {
	nodes     []Node
	lastChild []NodeID
}

// NewTree returns an empty tree with capacity hint n.
func NewTree(n int) *Tree {
	if n < 16 {
		n = 16
	}
	return &Tree{
		nodes:     make([]Node, 0, n),
		lastChild: make([]NodeID, 0, n),
	}
}

// Append adds a node under parent and returns its id. Children are linked
// in insertion order. Pass NoNode as parent for the root.
func (t *Tree) Append(kind NodeKind, parent NodeID, span Span) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		Kind:        kind,
		Parent:      parent,
		FirstChild:  NoNode,
		NextSibling: NoNode,
		Span:        span,
	})
	t.lastChild = append(t.lastChild, NoNode)

	if parent != NoNode {
		if t.nodes[parent].FirstChild == NoNode {
			t.nodes[parent].FirstChild = id
		} else {
			t.nodes[t.lastChild[parent]].NextSibling = id
		}
		t.lastChild[parent] = id
	}
	return id
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node resolves an id. The pointer stays valid until the next Append; after
// construction the tree is immutable and the pointer may be held freely.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// Kind returns the kind tag of id, or KindOther for NoNode.
func (t *Tree) Kind(id NodeID) NodeKind {
	if id == NoNode {
		return KindOther
	}
	return t.nodes[id].Kind
}

// Parent returns the parent id of id, or NoNode at the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	return t.nodes[id].Parent
}

// Flags returns the flag set of id.
func (t *Tree) Flags(id NodeID) NodeFlags {
	if id == NoNode {
		return 0
	}
	return t.nodes[id].Flags
}

// SetFlags ors extra flags onto id during construction.
func (t *Tree) SetFlags(id NodeID, f NodeFlags) {
	t.nodes[id].Flags |= f
}

// SetMethod records the method kind of a method or object-property node.
func (t *Tree) SetMethod(id NodeID, m MethodKind) {
	t.nodes[id].Method = m
}

// Root returns the id of the first node appended, conventionally the
// program node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

// Ancestors returns a lazy iterator over the ancestor chain of id, from its
// parent up to the root. The iterator is finite and non-restartable.
func (t *Tree) Ancestors(id NodeID) AncestorIter {
	return AncestorIter{t: t, cur: t.Parent(id)}
}

// AncestorsInclusive starts the walk at id itself rather than its parent.
func (t *Tree) AncestorsInclusive(id NodeID) AncestorIter {
	return AncestorIter{t: t, cur: id}
}

// AncestorIter walks parent links toward the root.
type AncestorIter struct {
	t   *Tree
	cur NodeID
}

// Next yields the next ancestor id, or false when the chain is exhausted.
func (it *AncestorIter) Next() (NodeID, bool) {
	if it.cur == NoNode {
		return NoNode, false
	}
	id := it.cur
	it.cur = it.t.Parent(id)
	return id, true
}

// FirstChild returns the first child of id, or NoNode.
func (t *Tree) FirstChild(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	return t.nodes[id].FirstChild
}

// NextSibling returns the next sibling of id, or NoNode.
func (t *Tree) NextSibling(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	return t.nodes[id].NextSibling
}

// LastChild returns the last child of id, or NoNode. Loop statements append
// their body last, so this resolves a loop body in O(1).
func (t *Tree) LastChild(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	return t.lastChild[id]
}

// Children collects the child ids of id in order. Pattern traversals are
// shallow and bounded, so the small allocation is acceptable.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := t.FirstChild(id); c != NoNode; c = t.NextSibling(c) {
		out = append(out, c)
	}
	return out
}

// ChildOfKind returns the first direct child of id with the given kind, or
// NoNode.
func (t *Tree) ChildOfKind(id NodeID, kind NodeKind) NodeID {
	for c := t.FirstChild(id); c != NoNode; c = t.NextSibling(c) {
		if t.nodes[c].Kind == kind {
			return c
		}
	}
	return NoNode
}

// HasChildOfKind reports whether id has a direct child of the given kind.
func (t *Tree) HasChildOfKind(id NodeID, kind NodeKind) bool {
	return t.ChildOfKind(id, kind) != NoNode
}
