package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/bookstore/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-k string   database driver: sqlite or postgres
//	-d string   database DSN (file path for sqlite)
//	-s string   session backend: memory or redis
//	-r string   redis address
//	-t int      session lifetime, minutes
//	-l string   log level
//	-x string   upload backend: local or s3
//	-f string   upload directory for the local backend
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-d", "-s", "-r", "-t", "-l", "-x", "-f", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionBackend, "s", config.SessionBackend, "session backend")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session lifetime (in minutes)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.UploadBackend, "x", config.UploadBackend, "upload backend")
	fs.StringVar(&config.UploadDir, "f", config.UploadDir, "upload directory")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t only counts when given; its minute granularity must not clobber a
	// finer TTL from the JSON or env layers
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
		}
	})
}
