package track

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-trackreplay/log"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/config"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/geometry/track"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/loader"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
)

var outFile string

// Export is the json layout of an exported track.
type Export struct {
	Closed  bool         `json:"closed"`
	Width   float64      `json:"width"`
	Center  []model.Vec3 `json:"center"`
	Outline []model.Vec3 `json:"outline"`
	Mesh    model.Mesh   `json:"mesh"`
}

func NewTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "builds the track geometry of a race data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := util.SetupLogger(); err != nil {
				return err
			}
			return buildTrack(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "",
		"write the geometry as json to this file (default: stdout)")
	return cmd
}

func buildTrack(_ context.Context) error {
	if config.DataFile == "" {
		return errors.New("no race data file given (use --file)")
	}
	if config.TrackWidth <= 0 {
		return fmt.Errorf("invalid track width: %f", config.TrackWidth)
	}
	rd, err := loader.LoadFile(config.DataFile)
	if err != nil {
		return err
	}
	res := track.Build(loader.TrackPath(rd), config.TrackWidth,
		track.WithCloseEpsilon(config.CloseEpsilon))
	if res.Empty() {
		log.Warn("no track rendered")
	} else {
		log.Info("track built",
			log.Int("points", len(res.Center)),
			log.Int("vertices", len(res.Mesh.Vertices)),
			log.Int("triangles", res.Mesh.NumTriangles()),
			log.Bool("closed", res.Closed))
	}
	data, err := Marshal(&res, config.TrackWidth)
	if err != nil {
		return err
	}
	if outFile == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(outFile, data, 0o600)
}

// Marshal encodes the track geometry as json.
func Marshal(res *track.Result, width float64) ([]byte, error) {
	export := Export{
		Closed:  res.Closed,
		Width:   width,
		Center:  res.Center,
		Outline: track.Outline(res),
		Mesh:    res.Mesh,
	}
	return oj.Marshal(&export, &oj.Options{Indent: 2, UseTags: true, KeyExact: true})
}
