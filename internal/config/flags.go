package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-driver database driver name ("pgx" or "sqlite3")
//	-c/-config json file path with configs
//	-session-duration bearer session lifetime (e.g., "24h")
//	-pending-login-ttl two-factor login completion window (e.g., "5m")
//	-handshake-ttl SRP challenge lifetime (e.g., "2m")
//	-totp-issuer issuer label for TOTP provisioning URIs
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sweep-interval expired state sweep interval (e.g., "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var databaseDriver string
	var jsonConfigPath string
	var sessionDuration time.Duration
	var pendingLoginTTL time.Duration
	var handshakeTTL time.Duration
	var totpIssuer string
	var requestTimeout time.Duration
	var sweepInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&databaseDriver, "driver", "", "Database driver (pgx or sqlite3)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&sessionDuration, "session-duration", 0, "Session duration (e.g., 24h)")
	flag.DurationVar(&pendingLoginTTL, "pending-login-ttl", 0, "Pending two-factor login TTL (e.g., 5m)")
	flag.DurationVar(&handshakeTTL, "handshake-ttl", 0, "SRP challenge TTL (e.g., 2m)")
	flag.StringVar(&totpIssuer, "totp-issuer", "", "TOTP issuer label")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&sweepInterval, "sweep-interval", 0, "Expired state sweep interval (e.g., 1m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			SessionDuration: sessionDuration,
			PendingLoginTTL: pendingLoginTTL,
			HandshakeTTL:    handshakeTTL,
			TOTPIssuer:      totpIssuer,
		},
		Storage: Storage{
			DB: DB{
				Driver: databaseDriver,
				DSN:    databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SweepInterval: sweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
