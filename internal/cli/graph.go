package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pointpack/pkg/network"
	"github.com/matzehuels/pointpack/pkg/pipeline"
)

// graphCommand creates the command that prints the topology of a network
// scene without laying it out.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		opts  pipeline.Options
		edges bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the branch graph a network scene would use",
		Example: fmt.Sprintf(`  %[1]s graph -n 12 -m 4
  %[1]s graph --seed 7 --edges`, appName),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := pipeline.Graph(opts)
			if err != nil {
				return err
			}
			c.Logger.Debug("built graph", "nodes", g.Len(), "edges", g.Edges())
			printGraph(cmd.OutOrStdout(), g, edges)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&opts.Network.Nodes, "nodes", "n", pipeline.DefaultNodes, "number of nodes")
	fl.IntVarP(&opts.Network.PerNode, "per-node", "m", pipeline.DefaultPerNode, "branches per node")
	fl.Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "random seed")
	fl.BoolVar(&edges, "edges", false, "list every edge")

	return cmd
}

func printGraph(w io.Writer, g network.Graph, edges bool) {
	degrees := make([]int, g.Len())
	for i := range degrees {
		degrees[i] = g.Degree(i)
	}
	printKeyValue(w, "Nodes", strconv.Itoa(g.Len()))
	printKeyValue(w, "Edges", strconv.Itoa(g.Edges()))
	printKeyValue(w, "Degree", fmt.Sprintf("%d..%d", slices.Min(degrees), slices.Max(degrees)))
	printKeyValue(w, "Connected", strconv.FormatBool(network.IsConnected(g, g.Len())))

	if !edges {
		return
	}
	for _, b := range g.Branches() {
		fmt.Fprintln(w, "  "+styleDim.Render(b.String()))
	}
}
