package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dagmin/dagmin/pkg/solver"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	var resultPath string

	cmd := &cobra.Command{
		Use:   "verify <graph> [node...]",
		Short: "Check whether a driver set covers the whole graph",
		Long: `Verify checks that the given nodes form a driver set: starting from
them, the implication cascade must reach every node in the graph.

The set comes either from positional arguments or from a result file
produced by "dagmin solve -o".

Examples:
  dagmin verify deps.txt A D
  dagmin verify deps.txt --result result.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := args[1:]
			if resultPath != "" {
				if len(driver) > 0 {
					return errors.New("pass nodes either as arguments or via --result, not both")
				}
				res, err := readResult(resultPath)
				if err != nil {
					return err
				}
				driver = res.DriverSet
			}
			return runVerify(args[0], driver)
		},
	}

	cmd.Flags().StringVarP(&resultPath, "result", "r", "", "read the driver set from a result JSON file")

	return cmd
}

func runVerify(path string, driver []string) error {
	g, err := loadGraph(path)
	if err != nil {
		return err
	}

	valid, err := solver.Verify(g, driver)
	if err != nil {
		return err
	}
	if !valid {
		printError("Not a driver set: the cascade from {%s} does not reach every node", strings.Join(driver, " "))
		return fmt.Errorf("%d nodes do not form a driver set", len(driver))
	}

	printSuccess("Valid driver set of %s", StyleHighlight.Render(fmt.Sprintf("%d nodes", len(driver))))
	printStats(g.NodeCount(), g.EdgeCount(), false)
	return nil
}

// readResult loads a solve result JSON file.
func readResult(path string) (solver.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return solver.Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	var res solver.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return solver.Result{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return res, nil
}
