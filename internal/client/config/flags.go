package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/studiogate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the gateway API
//	-g string   address of the admin RPC service
//	-p string   path of the local session database
//	-t int      request timeout (in seconds)
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-p", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "gateway API base URL")
	fs.StringVar(&cfg.AdminGRPCAddr, "g", cfg.AdminGRPCAddr, "admin gRPC address and port")
	fs.StringVar(&cfg.DatabasePath, "p", cfg.DatabasePath, "session database path")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
