// Command carenav runs facility lookups and voice turns from the terminal and
// prints the same JSON the HTTP API returns.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aicaremanager/backend/internal/app"
	"github.com/aicaremanager/backend/internal/application/services"
	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/infrastructure/observability"
	"github.com/aicaremanager/backend/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "carenav",
		Short:         "Medical facility lookup and voice-turn CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to read configuration from")

	rootCmd.AddCommand(lookupCmd(opts))
	rootCmd.AddCommand(triageCmd(opts))
	rootCmd.AddCommand(voiceTurnCmd(opts))
	return rootCmd
}

func (o *rootOptions) build(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadFrom(o.envFile)
	if err != nil {
		return nil, err
	}
	observability.InitLogger("carenav", cfg.Server.Env, cfg.Server.LogLevel)
	return app.New(ctx, cfg, nil)
}

func (o *rootOptions) buildForLookup(ctx context.Context) (*app.App, error) {
	a, err := o.build(ctx)
	if err != nil {
		return nil, err
	}
	if !a.Config.DataGoKr.Configured() {
		a.Close()
		return nil, fmt.Errorf("DATA_GO_KR_SERVICE_KEY is not set")
	}
	return a, nil
}

func lookupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up pharmacies, hospitals or emergency rooms",
	}
	cmd.AddCommand(lookupPharmacyCmd(opts))
	cmd.AddCommand(lookupNearbyCmd(opts, "hospitals", 5, 20, 20, 50))
	cmd.AddCommand(lookupNearbyCmd(opts, "emergency", 10, 50, 10, 30))
	return cmd
}

func lookupPharmacyCmd(opts *rootOptions) *cobra.Command {
	var (
		q0, q1, fallback, now string
		names                 []string
		holiday               bool
	)
	cmd := &cobra.Command{
		Use:   "pharmacy",
		Short: "Report whether named pharmacies are open",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cleaned []string
			for _, n := range names {
				if n = strings.TrimSpace(n); n != "" {
					cleaned = append(cleaned, n)
				}
			}
			if len(cleaned) == 0 {
				return fmt.Errorf("names must not be empty")
			}
			req := services.PharmacyStatusRequest{
				Region:           entities.RegionScope{Province: q0, District: q1},
				Names:            cleaned,
				UseHoliday:       holiday,
				FallbackDistrict: fallback,
			}
			if now != "" {
				hhmm, ok := services.ParseHHMM(now)
				if !ok {
					return fmt.Errorf("now must be 4-digit HHMM string")
				}
				req.NowHHMM = &hhmm
			}

			a, err := opts.buildForLookup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"results": a.Pharmacy.GetOpenStatus(cmd.Context(), req),
			})
		},
	}
	cmd.Flags().StringVar(&q0, "q0", "", "province (시/도)")
	cmd.Flags().StringVar(&q1, "q1", "", "district (시/군/구)")
	cmd.Flags().StringSliceVar(&names, "names", nil, "comma separated pharmacy names")
	cmd.Flags().StringVar(&now, "now", "", "evaluation time as HHMM (default: current Seoul time)")
	cmd.Flags().BoolVar(&holiday, "holiday", false, "use the holiday duty table")
	cmd.Flags().StringVar(&fallback, "q1-fallback", "", "district to retry when the first lookup is empty")
	_ = cmd.MarkFlagRequired("q0")
	_ = cmd.MarkFlagRequired("q1")
	_ = cmd.MarkFlagRequired("names")
	return cmd
}

func lookupNearbyCmd(opts *rootOptions, use string, defRadius, maxRadius float64, defLimit, maxLimit int) *cobra.Command {
	var query entities.PlaceQuery
	cmd := &cobra.Command{
		Use:   use,
		Short: "List nearby " + use + " by distance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(query.RadiusKm > 0 && query.RadiusKm <= maxRadius) {
				return fmt.Errorf("radius-km must be between 0 and %g", maxRadius)
			}
			if query.Limit < 1 || query.Limit > maxLimit {
				return fmt.Errorf("limit must be between 1 and %d", maxLimit)
			}
			a, err := opts.buildForLookup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var places []entities.NormalizedPlace
			if use == "emergency" {
				places = a.Nearby.NearbyEmergency(cmd.Context(), query)
			} else {
				places = a.Nearby.NearbyHospitals(cmd.Context(), query)
			}
			if places == nil {
				places = []entities.NormalizedPlace{}
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"places": places})
		},
	}
	cmd.Flags().Float64Var(&query.Latitude, "lat", 0, "origin latitude")
	cmd.Flags().Float64Var(&query.Longitude, "lng", 0, "origin longitude")
	cmd.Flags().StringVar(&query.Region.Province, "q0", "", "province (시/도)")
	cmd.Flags().StringVar(&query.Region.District, "q1", "", "district (시/군/구)")
	cmd.Flags().Float64Var(&query.RadiusKm, "radius-km", defRadius, "search radius in km")
	cmd.Flags().IntVar(&query.Limit, "limit", defLimit, "maximum number of places")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	_ = cmd.MarkFlagRequired("q0")
	return cmd
}

func triageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "triage <text>",
		Short: "Classify a symptom description as RED, AMBER or GREEN",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			level := a.Triage.Classify(cmd.Context(), strings.Join(args, " "))
			return printJSON(cmd.OutOrStdout(), map[string]string{"triage_level": string(level)})
		},
	}
}

func voiceTurnCmd(opts *rootOptions) *cobra.Command {
	var (
		lat, lng float64
		q0, q1   string
	)
	cmd := &cobra.Command{
		Use:   "voice-turn <transcript>",
		Short: "Run one voice turn and print the ranked shortlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript := strings.TrimSpace(strings.Join(args, " "))
			if transcript == "" {
				return fmt.Errorf("transcript must not be empty")
			}
			req := services.VoiceTurnRequest{
				Transcript: transcript,
				Region:     entities.RegionScope{Province: q0, District: q1},
			}
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
				req.Latitude, req.Longitude = &lat, &lng
			}

			a, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return printJSON(cmd.OutOrStdout(), a.VoiceTurn.Run(cmd.Context(), req))
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "caller latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "caller longitude")
	cmd.Flags().StringVar(&q0, "q0", "", "province (default from DEFAULT_Q0)")
	cmd.Flags().StringVar(&q1, "q1", "", "district (default from DEFAULT_Q1)")
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
