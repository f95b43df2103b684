package syntax

// Visitor receives strictly paired enter/exit events: Enter in pre-order,
// Exit in post-order, one Exit for every Enter.
type Visitor interface {
	Enter(n *Node) error
	Exit(n *Node) error
}

// Walk drives v over the tree rooted at root. The first error aborts the walk
// without emitting the remaining exits.
func Walk(root *Node, v Visitor) error {
	if root == nil {
		return nil
	}
	if err := v.Enter(root); err != nil {
		return err
	}
	for _, ch := range root.Children {
		if err := Walk(ch, v); err != nil {
			return err
		}
	}
	return v.Exit(root)
}
