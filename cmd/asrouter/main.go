// Command asrouter runs a single autonomous-system router process: it
// reads its AS number and neighbor set from the command line, dials
// each neighbor's named channel, and drives the dispatcher loop until
// a channel closes.
package main

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/QuantumCc/router/neighbor"
	"github.com/QuantumCc/router/router"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("asrouter exiting")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var socketDir string

	cmd := &cobra.Command{
		Use:   "asrouter <asn> <neighbor>...",
		Short: "Run an autonomous-system route processor",
		Long: "asrouter processes update/revoke/data/dump frames for one AS, " +
			"maintaining a coalesced route table and forwarding data between neighbors.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return errors.Wrapf(err, "invalid --log-level %q", logLevel)
			}
			log.SetLevel(level)

			asn, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return errors.Wrapf(err, "invalid asn %q", args[0])
			}

			neighbors, err := parseNeighbors(args[1:])
			if err != nil {
				return err
			}

			for i := range neighbors {
				if err := neighbors[i].Dial(socketDir); err != nil {
					return err
				}
				log.WithFields(logrus.Fields{
					"neighbor": neighbors[i].Name,
					"relation": neighbors[i].Relation,
				}).Info("dialed neighbor channel")
			}

			r := router.New(uint32(asn), neighbors, log)
			log.WithFields(logrus.Fields{
				"asn":       asn,
				"neighbors": len(neighbors),
			}).Info("starting dispatcher")
			return r.Run()
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	cmd.Flags().StringVar(&socketDir, "socket-dir", "/tmp/asrouter", "directory containing the named unixgram channels")
	return cmd
}

func parseNeighbors(specs []string) ([]neighbor.Neighbor, error) {
	neighbors := make([]neighbor.Neighbor, 0, len(specs))
	for _, spec := range specs {
		n, err := neighbor.ParseSpec(spec)
		if err != nil {
			return nil, err
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, nil
}
