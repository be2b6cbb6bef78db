package resources

type Resource uint32

const (
	RT_TREE_ROOT  Resource = 1
	RT_NODE_BLOCK Resource = 2
	RT_LEAF_BLOCK Resource = 3
)

func (r Resource) String() string {
	switch r {
	case RT_TREE_ROOT:
		return "tree root"
	case RT_NODE_BLOCK:
		return "node block"
	case RT_LEAF_BLOCK:
		return "leaf block"
	default:
		return "unknown"
	}
}
