package commands

import (
	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/service"
	"github.com/spf13/cobra"
)

var serviceAddr string

// NewServeCmd produces a ServeCmd which exposes the database over HTTP.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve snapshots and event windows over HTTP",
		RunE:  serve,
	}

	cmd.Flags().StringVarP(&serviceAddr, "service-listen", "s", "127.0.0.1:8000", "Listen IP:Port for HTTP service")

	return cmd
}

func serve(cmd *cobra.Command, args []string) error {
	mode, err := hashgraph.ParseAncientMode(_config.Hashround.AncientMode)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	s := service.NewService(serviceAddr,
		store,
		mode,
		_config.Hashround.RoundsNonAncient,
		_config.Hashround.Logger().WithField("component", "service"),
	)

	return s.Serve()
}
