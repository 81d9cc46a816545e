package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/moviescope/internal/utils"
	"github.com/sw33tLie/moviescope/pkg/compare"
	"gopkg.in/yaml.v3"
)

// comparisonOutput is the printable form of a comparison.
type comparisonOutput struct {
	MovieID          string            `json:"movieId" yaml:"movieId"`
	Title            string            `json:"title" yaml:"title"`
	Year             string            `json:"year" yaml:"year"`
	Poster           string            `json:"poster,omitempty" yaml:"poster,omitempty"`
	ProviderPrices   map[string]string `json:"providerPrices" yaml:"providerPrices"`
	CheapestProvider string            `json:"cheapestProvider" yaml:"cheapestProvider"`
	CheapestPrice    string            `json:"cheapestPrice" yaml:"cheapestPrice"`
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run one comparison and print the cheapest provider per movie",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		switch output {
		case "txt", "json", "yaml":
		default:
			return fmt.Errorf("unsupported output format %q. Available: txt, json, yaml", output)
		}

		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		proxy, _ := rootCmd.PersistentFlags().GetString("proxy")

		a, err := newApp(cmd.Context(), cfg, proxy)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		report, err := a.engine.Run(cmd.Context())
		if err != nil {
			return err
		}

		if len(report.FailedProviders) > 0 {
			utils.Log.Warnf("Providers that could not be listed: %s", strings.Join(report.FailedProviders, ", "))
		}
		utils.Log.Infof("%d movies compared in %s (%d details fetched, %d failed)",
			len(report.Comparisons), report.Elapsed, report.DetailsFetched, report.DetailsFailed)

		return printComparisons(os.Stdout, report.Comparisons, output, delimiter)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringP("output", "o", "txt", "Output format. Available: txt, json, yaml")
	compareCmd.Flags().StringP("delimiter", "d", " ", "Delimiter character to use for txt output format")
}

func printComparisons(w io.Writer, comparisons []compare.MovieComparison, output, delimiter string) error {
	out := toOutput(comparisons)
	switch output {
	case "json":
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, c := range out {
			if _, err := fmt.Fprintln(w, createLine(c, delimiter)); err != nil {
				return err
			}
		}
		return nil
	}
}

func toOutput(comparisons []compare.MovieComparison) []comparisonOutput {
	out := make([]comparisonOutput, 0, len(comparisons))
	for _, c := range comparisons {
		prices := make(map[string]string, len(c.ProviderPrices))
		for name, p := range c.ProviderPrices {
			prices[name] = p.StringFixed(2)
		}
		out = append(out, comparisonOutput{
			MovieID:          c.MovieID,
			Title:            c.Title,
			Year:             c.Year,
			Poster:           c.Poster,
			ProviderPrices:   prices,
			CheapestProvider: c.CheapestProvider,
			CheapestPrice:    c.CheapestPrice.StringFixed(2),
		})
	}
	return out
}

// createLine renders: title (year) cheapest price provider=price...
func createLine(c comparisonOutput, delimiter string) string {
	names := make([]string, 0, len(c.ProviderPrices))
	for name := range c.ProviderPrices {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := []string{fmt.Sprintf("%s (%s)", c.Title, c.Year), c.CheapestProvider, c.CheapestPrice}
	for _, name := range names {
		fields = append(fields, name+"="+c.ProviderPrices[name])
	}
	return strings.Join(fields, delimiter)
}
