// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Home screen values without the TUI.
//
// Every source is queried concurrently; a failing source shows its
// fallback value, the same as the home screen.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/plates/internal/bridge"
	"github.com/jeranaias/plates/internal/provider"
)

// statusTimeout bounds the whole status query.
const statusTimeout = 15 * time.Second

// Status is the snapshot printed by the status command.
type Status struct {
	Time     string             `json:"time"`
	Date     string             `json:"date"`
	Weather  bridge.WeatherData `json:"weather"`
	Battery  provider.Battery   `json:"battery"`
	Online   bool               `json:"online"`
	Offline  bool               `json:"offline_mode"`
	Voice    string             `json:"voice"`
	STTMode  string             `json:"stt_mode"`
	Location string             `json:"location,omitempty"`
}

func (a *app) statusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"s"},
		Short:   "Show time, weather, battery and voice status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				st, err := a.collectStatus(ctx, b.Bridge)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(out(cmd))
					enc.SetIndent("", "  ")
					return enc.Encode(st)
				}
				printStatus(out(cmd), st)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

// collectStatus queries every source at once.
func (a *app) collectStatus(ctx context.Context, b bridge.Bridge) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	cfg := a.cfg
	st := Status{Offline: cfg.OfflineMode, Location: cfg.Location.Name}
	locator := provider.StaticLocation{
		Lat:   cfg.Location.Latitude,
		Lon:   cfg.Location.Longitude,
		Known: cfg.Location.Known(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		td := provider.NewTime().With24Hour(cfg.UI.Clock24).FetchOnce(gctx)
		st.Time, st.Date = td.Time, td.Date
		return nil
	})
	g.Go(func() error {
		st.Weather = provider.NewWeather(b, locator, a.logger).FetchOnce(gctx)
		return nil
	})
	g.Go(func() error {
		st.Battery = provider.NewBattery(b, a.logger).FetchOnce(gctx)
		return nil
	})
	g.Go(func() error {
		online, err := b.CheckNetworkStatus(gctx)
		if err != nil {
			return fmt.Errorf("network check: %w", err)
		}
		st.Online = online
		return nil
	})
	g.Go(func() error {
		st.Voice = "ready"
		if err := b.InitializeSTT(gctx); err != nil {
			st.Voice = err.Error()
		}
		st.STTMode = "unavailable"
		if mode, err := b.STTMode(gctx); err == nil {
			st.STTMode = mode
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Status{}, err
	}
	return st, nil
}

func printStatus(w io.Writer, st Status) {
	fmt.Fprintln(w, TitleStyle.Render(st.Time)+"  "+ValueStyle.Render(st.Date))
	fmt.Fprintln(w)

	weather := st.Weather.Temperature
	if st.Location != "" {
		weather += DimStyle.Render("  " + st.Location)
	}
	fmt.Fprintln(w, RenderLabel("Weather")+weather)
	fmt.Fprintln(w, RenderLabel("Battery")+fmt.Sprintf("%d%% %s", st.Battery.Level, st.Battery.State))

	switch {
	case st.Offline:
		fmt.Fprintln(w, RenderLabel("Network")+RenderStatus("offline")+" offline mode")
	case st.Online:
		fmt.Fprintln(w, RenderLabel("Network")+RenderStatus("online")+" online")
	default:
		fmt.Fprintln(w, RenderLabel("Network")+RenderStatus("warn")+" unreachable")
	}

	voice := RenderStatus("ok") + " ready"
	if st.Voice != "ready" {
		voice = RenderStatus("warn") + " " + st.Voice
	}
	fmt.Fprintln(w, RenderLabel("Voice")+voice+DimStyle.Render(" ("+st.STTMode+")"))
}
