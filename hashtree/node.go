package hashtree

import (
	"math"
	"math/bits"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Node is a metadata view of one non-empty tree node. Nodes are never allocated
// individually; they are computed from the flat node table.
type Node struct {
	Code      CellCode // Morton code of the node at its own depth
	Depth     int      // 0 is the root
	Count     int      // payloads filed below this node
	ChildMask uint8    // bit i set when child i is non-empty
}

// IsLeaf reports whether n sits at the bucketing depth.
func (n Node) IsLeaf() bool { return n.ChildMask == 0 }

// HasChild reports whether child i of n is non-empty.
func (n Node) HasChild(i int) bool { return n.ChildMask&(1<<uint(i)) != 0 }

// nodeMeta is the stored part of a Node.
type nodeMeta struct {
	count     int32
	childMask uint8
}

// nodeKey packs (code, depth) into one word: a sentinel bit above the code keeps keys
// unique across depths and makes them sort by depth first.
func nodeKey(dims int, code uint64, depth int) uint64 {
	return code | 1<<(uint(dims*depth))
}

func splitNodeKey(dims int, key uint64) (code uint64, depth int) {
	depth = (bits.Len64(key) - 1) / dims
	return key &^ (1 << uint(dims*depth)), depth
}

// ChildCode returns the code of child i of the node (code, depth) one level down.
func ChildCode(dims int, code CellCode, i int) CellCode {
	return code<<uint(dims) | CellCode(i)
}

// ParentCode returns the code of the parent of a node.
func ParentCode(dims int, code CellCode) CellCode {
	return code >> uint(dims)
}

func (t *tree[T]) node(code uint64, depth int) (Node, bool) {
	if depth < 0 || depth > t.cfg.MaxDepth {
		return Node{}, false
	}
	m, ok := t.nodes[nodeKey(t.dims, code, depth)]
	if !ok {
		return Node{}, false
	}
	return Node{Code: CellCode(code), Depth: depth, Count: int(m.count), ChildMask: m.childMask}, true
}

// Node returns the metadata of the non-empty node (code, depth).
func (t *tree[T]) Node(code CellCode, depth int) (Node, bool) {
	return t.node(uint64(code), depth)
}

// Root returns the root node. Count is 0 for an empty tree.
func (t *tree[T]) Root() Node {
	n, _ := t.node(0, 0)
	return n
}

// ForEachNode calls fn for every non-empty node ordered by depth, then code, until fn
// returns false. Intended for debug and visualisation collaborators.
func (t *tree[T]) ForEachNode(fn func(Node) bool) {
	keys := make([]uint64, 0, len(t.nodes))
	for k := range t.nodes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		code, depth := splitNodeKey(t.dims, k)
		m := t.nodes[k]
		if !fn(Node{Code: CellCode(code), Depth: depth, Count: int(m.count), ChildMask: m.childMask}) {
			return
		}
	}
}

// NodeCount returns the number of non-empty nodes across all depths.
func (t *tree[T]) NodeCount() int {
	return len(t.nodes)
}

// NodeBounds returns the region covered by n. Quadtree bounds have z = 0.
func (t *tree[T]) NodeBounds(n Node) AABB {
	return t.bounds(uint64(n.Code), n.Depth, false)
}

// CellBounds returns the region covered by the max-depth cell code.
func (t *tree[T]) CellBounds(code CellCode) AABB {
	return t.bounds(uint64(code), t.cfg.MaxDepth, false)
}

// bounds computes the region of node (code, depth). With reach set, nodes on the
// region border extend to infinity since out-of-region positions are clamped into
// them, and quadtree z spans everything.
func (t *tree[T]) bounds(code uint64, depth int, reach bool) AABB {
	cc := decode(t.dims, code)
	side := uint32(1) << uint(depth)
	var b AABB
	for a := 0; a < t.dims; a++ {
		size := float64(t.cfg.Scale[a]) / float64(side)
		b.Min[a] = float32(float64(t.cfg.Origin[a]) + float64(cc[a])*size)
		b.Max[a] = float32(float64(t.cfg.Origin[a]) + float64(cc[a]+1)*size)
		if reach {
			if cc[a] == 0 {
				b.Min[a] = float32(math.Inf(-1))
			}
			if cc[a] == side-1 {
				b.Max[a] = float32(math.Inf(1))
			}
		}
	}
	if t.dims == 2 && reach {
		b.Min[2] = float32(math.Inf(-1))
		b.Max[2] = float32(math.Inf(1))
	}
	return b
}

// link adds one payload under the leaf code to every level of the node table.
func (t *tree[T]) link(leaf uint64) {
	child := -1
	code := leaf
	for d := t.cfg.MaxDepth; d >= 0; d-- {
		key := nodeKey(t.dims, code, d)
		m := t.nodes[key]
		m.count++
		if child >= 0 {
			m.childMask |= 1 << uint(child)
		}
		t.nodes[key] = m
		child = int(code & t.childBits)
		code >>= uint(t.dims)
	}
}

// unlink removes one payload under the leaf code, dropping nodes that become empty.
func (t *tree[T]) unlink(leaf uint64) {
	emptied := -1
	code := leaf
	for d := t.cfg.MaxDepth; d >= 0; d-- {
		key := nodeKey(t.dims, code, d)
		m := t.nodes[key]
		m.count--
		if emptied >= 0 {
			m.childMask &^= 1 << uint(emptied)
		}
		emptied = -1
		if m.count <= 0 {
			delete(t.nodes, key)
			emptied = int(code & t.childBits)
		} else {
			t.nodes[key] = m
		}
		code >>= uint(t.dims)
	}
}

// centerCode returns the leaf code of p, used to presort batch queries by locality.
func (t *tree[T]) centerCode(p mgl32.Vec3) uint64 {
	return encode(t.dims, t.cellCoordinates(p))
}
