package cli

import (
	"Folio/internal/models"
	"context"
	"fmt"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"
)

func newTreeCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the folder tree",
		RunE: func(c *cobra.Command, args []string) error {
			server, cleanup, err := options.server()
			if err != nil {
				return err
			}
			defer cleanup()

			nodes, err := server.NodeRepository.FindAllOrdered(context.Background())
			if err != nil {
				return fmt.Errorf("listing nodes: %w", err)
			}
			fmt.Fprint(c.OutOrStdout(), RenderTree(nodes))
			return nil
		},
	}
}

// RenderTree draws nodes ordered by path. A node whose parent is not in
// the list hangs off the root.
func RenderTree(nodes []models.Node) string {
	root := gotree.New("/")
	branches := make(map[string]gotree.Tree, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		parent := root
		if node.ParentID != nil {
			if branch, ok := branches[*node.ParentID]; ok {
				parent = branch
			}
		}
		label := node.Name
		if node.IsFolder() {
			label += "/"
		}
		branches[node.ID] = parent.Add(label)
	}
	return root.Print()
}
