package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chriswardell-glean/1password-actions/internal/config"
	"github.com/chriswardell-glean/1password-actions/internal/request"
)

func NewPlanCommand(cfg *config.Config) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what secrets would be resolved (no values fetched)",
		Long: `Plan parses the secret-path specification and prints which vaults,
items and fields would be resolved and under which output names,
without contacting the Connect server. Useful for debugging the
specification before a pipeline run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			harvestInputFlags(cmd, cfg)
			if err := cfg.Load(); err != nil {
				return err
			}

			requests, err := request.Parse(cfg.Inputs.SecretPath)
			if err != nil {
				return err
			}

			if outputJSON {
				return planJSON(requests)
			}
			return planTable(requests)
		},
	}

	bindInputFlags(cmd)
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	return cmd
}

func planTable(requests []request.ItemRequest) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VAULT\tITEM\tFIELD\tOUTPUT")
	for _, req := range requests {
		field := req.Field
		output := req.OutputName
		switch {
		case req.Field == "":
			field = "(all fields)"
			output = req.OutputName + "_<label>"
		case !req.OutputOverridden:
			output = req.OutputName + "_" + req.Field
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", req.Vault, req.Name, field, output)
	}
	return w.Flush()
}

func planJSON(requests []request.ItemRequest) error {
	type planned struct {
		Vault            string `json:"vault"`
		Item             string `json:"item"`
		Field            string `json:"field,omitempty"`
		OutputName       string `json:"output_name"`
		OutputOverridden bool   `json:"output_overridden"`
	}

	out := make([]planned, 0, len(requests))
	for _, req := range requests {
		out = append(out, planned{
			Vault:            req.Vault,
			Item:             req.Name,
			Field:            req.Field,
			OutputName:       req.OutputName,
			OutputOverridden: req.OutputOverridden,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
