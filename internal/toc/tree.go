package toc

// Node is an entry of the nested outline. Title is nil for the root and for
// placeholder nodes created when a heading skips levels.
type Node struct {
	Title    *string `json:"title"`
	Children []*Node `json:"children"`
}

func newNode() *Node {
	return &Node{Children: []*Node{}}
}

// TitleText returns the node title, or "" for the root and placeholders.
func (n *Node) TitleText() string {
	if n == nil || n.Title == nil {
		return ""
	}
	return *n.Title
}

// BuildTree nests a flat heading list into an outline rooted at a node
// without title. The root's children are the level-1 headings; a heading
// deeper than its predecessor by more than one level hangs under
// placeholder nodes.
func BuildTree(headings []Heading) *Node {
	root := newNode()
	for _, h := range headings {
		level := h.Level
		if level < 1 {
			level = 1
		}
		inject(root, h.Title, level+1)
	}
	return root
}

// inject descends level-1 steps from n. At each step a new child is opened
// when the remaining level is 2 or n has no children yet; the title lands
// on the node reached when level hits 1.
func inject(n *Node, title string, level int) {
	if level == 1 {
		t := title
		n.Title = &t
		return
	}
	if level == 2 || len(n.Children) == 0 {
		n.Children = append(n.Children, newNode())
	}
	inject(n.Children[len(n.Children)-1], title, level-1)
}

// Walk visits every descendant of n in pre-order. The root's children are
// at depth 1.
func (n *Node) Walk(fn func(depth int, node *Node)) {
	if n == nil {
		return
	}
	var visit func(node *Node, depth int)
	visit = func(node *Node, depth int) {
		for _, c := range node.Children {
			fn(depth, c)
			visit(c, depth+1)
		}
	}
	visit(n, 1)
}

// Flatten reads the outline back as headings, using depth as level and
// skipping placeholders.
func (n *Node) Flatten() []Heading {
	var out []Heading
	n.Walk(func(depth int, node *Node) {
		if node.Title != nil {
			out = append(out, Heading{Level: depth, Title: *node.Title})
		}
	})
	return out
}
