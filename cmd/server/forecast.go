package main

import (
	"fmt"
	"strings"

	"github.com/Brownie44l1/agro-api/internal/weather"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast <city>",
	Short: "Print the next forecast entries for a city",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg, logger, false)
		if err != nil {
			return err
		}
		defer a.Close()

		city := strings.Join(args, " ")
		entries, err := a.weather.Forecast(cmd.Context(), city)
		if err != nil {
			return fmt.Errorf("error fetching weather: %w", err)
		}

		md := forecastMarkdown(city, entries)
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err != nil {
			return err
		}
		rendered, err := r.Render(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func forecastMarkdown(city string, entries []weather.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Weather forecast for %s\n\n", city)
	for _, e := range entries {
		icon := "☁️"
		if e.Icon == weather.IconRain {
			icon = "🌧️"
		}
		fmt.Fprintf(&b, "## %s %s\n\n", icon, e.Timestamp)
		fmt.Fprintf(&b, "- Day: %s\n", e.Day)
		fmt.Fprintf(&b, "- Description: %s\n", e.Description)
		fmt.Fprintf(&b, "- Temperature: %.2f °C\n", e.TempC)
		fmt.Fprintf(&b, "- Wind Speed: %g m/s\n\n", e.WindSpeed)
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(forecastCmd)
	forecastCmd.Flags().Bool("plain", false, "Print raw markdown instead of rendering it")
}
