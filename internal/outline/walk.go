package outline

import (
	"context"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// transparentKinds are grammar wrappers that have no node of their own in
// Python's ast. Their children are treated as children of the wrapper's
// parent so that breadth-first depth lines up with ast.walk.
var transparentKinds = map[string]bool{
	"block":                true,
	"decorated_definition": true,
	"else_clause":          true,
	"finally_clause":       true,
}

// walkBreadthFirst visits every named node reachable from root, one depth
// level at a time, using an explicit FIFO worklist instead of recursion.
func walkBreadthFirst(ctx context.Context, root *sitter.Node, visit func(*sitter.Node)) error {
	if root == nil {
		return nil
	}

	queue := []*sitter.Node{root}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		node := queue[0]
		queue[0] = nil
		queue = queue[1:]

		visit(node)
		queue = appendChildren(queue, node)
	}
	return nil
}

// appendChildren appends the named children of node to queue in source
// order, splicing in the children of transparent wrappers.
func appendChildren(queue []*sitter.Node, node *sitter.Node) []*sitter.Node {
	stack := pushReversed(nil, astChildren(node))
	for len(stack) > 0 {
		child := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if transparentKinds[child.Kind()] {
			stack = pushReversed(stack, astChildren(child))
			continue
		}
		queue = append(queue, child)
	}
	return queue
}

// astChildren returns the named children of node in the shape Python's ast
// gives them. tree-sitter lists every elif and else clause of an if
// statement side by side, while ast nests each elif as an If inside the
// orelse of the clause before it. So an if statement owns only its first
// elif, and each elif owns the clause that follows it.
func astChildren(node *sitter.Node) []*sitter.Node {
	kind := node.Kind()

	var children []*sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		children = append(children, child)
		if kind == "if_statement" && child.Kind() == "elif_clause" {
			return children
		}
	}

	if kind == "elif_clause" {
		if next := nextClause(node); next != nil {
			children = append(children, next)
		}
	}
	return children
}

// nextClause returns the elif or else clause following an elif clause.
func nextClause(node *sitter.Node) *sitter.Node {
	for next := node.NextNamedSibling(); next != nil; next = next.NextNamedSibling() {
		switch next.Kind() {
		case "comment":
			continue
		case "elif_clause", "else_clause":
			return next
		}
		return nil
	}
	return nil
}

func pushReversed(stack []*sitter.Node, nodes []*sitter.Node) []*sitter.Node {
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}
	return stack
}

// python2Kinds are statements the grammar still accepts but Python 3 rejects.
var python2Kinds = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// firstErrorNode returns the first ERROR, missing or Python 2 only node in
// document order.
func firstErrorNode(root *sitter.Node) *sitter.Node {
	if root == nil {
		return nil
	}

	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.IsError() || node.IsMissing() || python2Kinds[node.Kind()] {
			return node
		}

		for i := node.ChildCount(); i > 0; i-- {
			if child := node.Child(i - 1); child != nil {
				stack = append(stack, child)
			}
		}
	}

	if root.HasError() {
		return root
	}
	return nil
}
