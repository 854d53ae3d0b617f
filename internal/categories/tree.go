package categories

import (
	"sort"
	"strings"

	"github.com/angelmondragon/backoffice-api/pkg/db/models"
)

// TreeNode is one category in the nested tree view.
type TreeNode struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Description      *string     `json:"description"`
	ParentCategoryID *int64      `json:"parent_category_id"`
	HeroImage        *string     `json:"hero_image"`
	IsExpanded       bool        `json:"is_expanded"`
	Children         []*TreeNode `json:"children"`
}

// BuildTree assembles the flat list into a forest. Rows without a parent, or
// whose parent is not in the list, become roots. Siblings are ordered by name
// (case-insensitive) and then id. Rows that only reach each other through a
// parent cycle are never emitted.
func BuildTree(flat []models.ProductCategory) []*TreeNode {
	present := make(map[int64]struct{}, len(flat))
	for _, c := range flat {
		present[c.ID] = struct{}{}
	}

	children := make(map[int64][]*TreeNode, len(flat))
	roots := make([]*TreeNode, 0)
	for _, c := range flat {
		node := &TreeNode{
			ID:               c.ID,
			Name:             c.Name,
			Description:      c.Description,
			ParentCategoryID: c.ParentCategoryID,
			HeroImage:        c.HeroImage,
			Children:         []*TreeNode{},
		}
		if c.ParentCategoryID == nil {
			roots = append(roots, node)
			continue
		}
		if _, ok := present[*c.ParentCategoryID]; !ok {
			roots = append(roots, node)
			continue
		}
		children[*c.ParentCategoryID] = append(children[*c.ParentCategoryID], node)
	}

	visited := make(map[int64]struct{}, len(flat))
	var attach func(nodes []*TreeNode) []*TreeNode
	attach = func(nodes []*TreeNode) []*TreeNode {
		sortSiblings(nodes)
		out := nodes[:0]
		for _, n := range nodes {
			if _, seen := visited[n.ID]; seen {
				continue
			}
			visited[n.ID] = struct{}{}
			n.Children = attach(children[n.ID])
			out = append(out, n)
		}
		if out == nil {
			return []*TreeNode{}
		}
		return out
	}
	return attach(roots)
}

func sortSiblings(nodes []*TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := strings.ToLower(nodes[i].Name), strings.ToLower(nodes[j].Name)
		if a != b {
			return a < b
		}
		return nodes[i].ID < nodes[j].ID
	})
}

// ToggleExpanded returns a deep copy of tree with the IsExpanded flag of the
// node matching id flipped. The input is left untouched.
func ToggleExpanded(tree []*TreeNode, id int64) []*TreeNode {
	out := make([]*TreeNode, 0, len(tree))
	for _, n := range tree {
		out = append(out, copyToggled(n, id))
	}
	return out
}

func copyToggled(n *TreeNode, id int64) *TreeNode {
	if n == nil {
		return nil
	}
	cp := *n
	if cp.ID == id {
		cp.IsExpanded = !cp.IsExpanded
	}
	cp.Children = make([]*TreeNode, 0, len(n.Children))
	for _, child := range n.Children {
		cp.Children = append(cp.Children, copyToggled(child, id))
	}
	return &cp
}

// FindNode returns the node with id, searching depth first.
func FindNode(tree []*TreeNode, id int64) *TreeNode {
	for _, n := range tree {
		if n.ID == id {
			return n
		}
		if found := FindNode(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// FetchFunc loads one category by id; it returns (nil, nil) when the row is
// missing.
type FetchFunc func(id int64) (*models.ProductCategory, error)

// Lineage walks parent pointers upward from start and returns the ancestors
// ordered root first, excluding start itself. byID is consulted before fetch.
// The walk stops at a missing parent, a revisited id, or after maxHops hops.
func Lineage(start models.ProductCategory, byID map[int64]models.ProductCategory, fetch FetchFunc, maxHops int) ([]models.ProductCategory, error) {
	visited := map[int64]struct{}{start.ID: {}}
	ancestors := make([]models.ProductCategory, 0)

	next := start.ParentCategoryID
	for hops := 0; next != nil && hops < maxHops; hops++ {
		if _, seen := visited[*next]; seen {
			break
		}
		visited[*next] = struct{}{}

		parent, ok := byID[*next]
		if !ok {
			if fetch == nil {
				break
			}
			row, err := fetch(*next)
			if err != nil {
				return nil, err
			}
			if row == nil {
				break
			}
			parent = *row
		}
		ancestors = append(ancestors, parent)
		next = parent.ParentCategoryID
	}

	for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
		ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
	}
	return ancestors, nil
}

// Breadcrumb returns the names of a lineage in order.
func Breadcrumb(lineage []models.ProductCategory) []string {
	names := make([]string, 0, len(lineage))
	for _, c := range lineage {
		names = append(names, c.Name)
	}
	return names
}

// IndexByID maps each category to its id.
func IndexByID(flat []models.ProductCategory) map[int64]models.ProductCategory {
	out := make(map[int64]models.ProductCategory, len(flat))
	for _, c := range flat {
		out[c.ID] = c
	}
	return out
}

// CreatesCycle reports whether making parentID the parent of id would make
// id its own ancestor.
func CreatesCycle(id, parentID int64, byID map[int64]models.ProductCategory) bool {
	if id == parentID {
		return true
	}
	visited := map[int64]struct{}{}
	current := parentID
	for {
		if current == id {
			return true
		}
		if _, seen := visited[current]; seen {
			return false
		}
		visited[current] = struct{}{}
		row, ok := byID[current]
		if !ok || row.ParentCategoryID == nil {
			return false
		}
		current = *row.ParentCategoryID
	}
}
