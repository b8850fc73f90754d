package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported providers and their availability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry()

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPROVIDER\tAVAILABLE\tMODELS")
		for _, st := range reg.Status() {
			avail := "no"
			if st.Available {
				avail = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", st.Name, st.DisplayName, avail, len(st.Models))
		}
		return w.Flush()
	},
}

var flagRefresh bool

var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List models, for one provider or all",
	Long: `List the models each provider offers. Without --refresh the static
catalog is printed; with --refresh the live catalog is fetched from each
provider with configured credentials, falling back to the static catalog
on failure.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry()

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "PROVIDER\tMODEL")

		if len(args) == 1 {
			p, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			models := p.Models()
			if flagRefresh {
				models = p.FetchModels(cmd.Context())
			}
			for _, m := range models {
				fmt.Fprintf(w, "%s\t%s\n", p.Name(), m)
			}
			return nil
		}

		if flagRefresh {
			for _, pm := range reg.FetchAllModels(cmd.Context()) {
				for _, m := range pm.Models {
					fmt.Fprintf(w, "%s\t%s\n", pm.Name, m)
				}
			}
			return nil
		}

		for _, st := range reg.Status() {
			for _, m := range st.Models {
				fmt.Fprintf(w, "%s\t%s\n", st.Name, m)
			}
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "Fetch live catalogs from providers with credentials")
}
