package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/shopfront/internal/assistant"
	"github.com/user/shopfront/internal/config"
	"github.com/user/shopfront/internal/geometry"
	"github.com/user/shopfront/internal/storefront"
	"github.com/user/shopfront/internal/types"
)

var (
	simText    string
	simImage   string
	simSelect  []int
	simScroll  float64
	simJSON    bool
	simTimeout time.Duration
)

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simText, "text", "여행갈 때 입을 옷을 추천해줘", "query text")
	f.StringVar(&simImage, "image", "", "photo to attach")
	f.IntSliceVar(&simSelect, "select", []int{0}, "result indices to add to the cart, in order")
	f.Float64Var(&simScroll, "scroll", 0, "page scroll offset when results are selected")
	f.BoolVar(&simJSON, "json", false, "print snapshots as JSON lines")
	f.DurationVar(&simTimeout, "timeout", 0, "give up after this long (default: latency plus flights plus 5s)")
	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted shopper without a screen and print every snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := setupLogging(cfg)
		defer logger.Sync()

		var image []byte
		if simImage != "" {
			data, err := os.ReadFile(simImage)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			image = data
		}

		opts := storefront.OptionsFromConfig(cfg)
		opts.Logger = logger
		store := storefront.New(opts)
		defer store.Close()

		timeout := simTimeout
		if timeout <= 0 {
			perFlight := cfg.Flight.ToCenter() + cfg.Flight.ToCart()
			timeout = cfg.Assistant.Latency() + time.Duration(len(simSelect))*perFlight + 5*time.Second
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		emit := printSnapshot
		if simJSON {
			enc := json.NewEncoder(os.Stdout)
			emit = func(_ io.Writer, snap types.Snapshot) { enc.Encode(snap) }
		}

		script := storefront.Script{Text: simText, Image: image, Select: simSelect}
		err := store.Run(ctx, script, pageGeometry(cfg, simScroll), func(snap types.Snapshot) {
			emit(os.Stdout, snap)
		})
		if err != nil {
			return err
		}
		if !simJSON {
			fmt.Fprintf(os.Stdout, "cart: %d\n", store.Snapshot().CartCount)
		}
		return nil
	},
}

// pageGeometry lays the page out like the web storefront: cart icon in the
// header, result tiles in the bottom sheet.
func pageGeometry(cfg *config.Config, scroll float64) *geometry.Static {
	w, h := float64(cfg.Viewport.Width), float64(cfg.Viewport.Height)
	g := geometry.NewStatic(geometry.Viewport{Width: w, Height: h, ScrollY: scroll})
	g.Set(geometry.CartIcon, geometry.Rect{Top: 16, Left: w - 40, Width: 24, Height: 24})

	const tile, gap = 96.0, 12.0
	left := (w - assistant.ResultCount*tile - (assistant.ResultCount-1)*gap) / 2
	for i := 0; i < assistant.ResultCount; i++ {
		g.Set(geometry.ResultElement(i), geometry.Rect{
			Top:    h - 140,
			Left:   left + float64(i)*(tile+gap),
			Width:  tile,
			Height: tile,
		})
	}
	return g
}

func printSnapshot(w io.Writer, snap types.Snapshot) {
	fl := "-"
	if f := snap.Flight; f != nil {
		fl = fmt.Sprintf("%s %s -> %s", f.Payload, f.Stage, f.Target.Rect)
	}
	fmt.Fprintf(w, "%4d  %-16s  results=%d  cart=%d  pending=%d  flight=%s\n",
		snap.Seq, snap.Phase, len(snap.Results), snap.CartCount, snap.Pending, fl)
}
