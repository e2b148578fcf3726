package inspect

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-trackreplay/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/config"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/loader"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/playback/interpolate"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/replay"
)

func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "shows metadata and first movement of each car",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := util.SetupLogger(); err != nil {
				return err
			}
			if config.DataFile == "" {
				return errors.New("no race data file given (use --file)")
			}
			data, err := os.ReadFile(config.DataFile)
			if err != nil {
				return err
			}
			return inspect(cmd.OutOrStdout(), data)
		},
	}
	return cmd
}

var peekExpressions = []struct {
	label string
	expr  string
}{
	{"Grand Prix", "$.metadata.grand_prix"},
	{"Year", "$.metadata.year"},
	{"Session", "$.metadata.session_name"},
	{"Date", "$.metadata.event_date"},
	{"Total laps", "$.metadata.total_laps"},
}

func inspect(w io.Writer, data []byte) error {
	for _, p := range peekExpressions {
		res, err := loader.Peek(data, p.expr)
		if err != nil {
			return err
		}
		if len(res) > 0 && res[0] != nil {
			fmt.Fprintf(w, "%-12s %v\n", p.label+":", res[0])
		}
	}
	rd, err := loader.Parse(data)
	if err != nil {
		return err
	}
	session := replay.NewSession(rd)
	fmt.Fprintf(w, "%-12s %d (skipped: %d)\n", "Cars:", session.Arena.Len(), len(session.Skipped))
	fmt.Fprintf(w, "%-12s %d points\n", "Track:", len(loader.TrackPath(rd)))
	for _, slot := range session.Slots() {
		fmt.Fprintf(w, "  #%-4s %-4s %-25s samples=%-6d %s\n",
			slot.Info.Number, slot.Info.Abbreviation, slot.Info.Team, slot.Series.Len(),
			movement(slot.Series))
	}
	return nil
}

func movement(s *model.TimeSeries) string {
	t, ok := interpolate.FirstMovement(s, interpolate.DefaultMovementDistance)
	if !ok {
		return "never moves"
	}
	return fmt.Sprintf("first movement at %.3fs", t)
}
