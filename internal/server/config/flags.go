package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-s", "-t", "-k", "-m", "-u", "-p", "-b", "-r", "-e", "-o", "-l"}

// parseFlags overlays Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g. ":8000")
//	-g string     gRPC health bind address, empty to disable
//	-d string     PostgreSQL DSN
//	-s string     access token HMAC secret
//	-t duration   access token validity (e.g. "10h")
//	-k int        bcrypt cost
//	-m int        max add-notes upload size in bytes
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket
//	-r string     S3 region
//	-e string     S3 base endpoint
//	-o string     public base URL for attachment links
//	-l string     log level
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP bind address")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC health bind address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "access token secret")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.Int64Var(&config.MaxUploadSize, "m", config.MaxUploadSize, "max upload size in bytes")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "o", config.S3PublicURL, "public base URL for attachments")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
