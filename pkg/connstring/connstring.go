package connstring

import (
	"fmt"
	"regexp"
	"strings"
)

// Grammar: scheme://[user[:password]@]host[:port]/database[?params]. The @
// separates credentials from host unambiguously, so neither user nor password
// may contain one.
var connPattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*)://(?:([^@/]*)@)?([^:/?@]+)(?::([0-9]+))?/([^?]*)(?:\?.*)?$`)

// ConnectionString holds the parts of a database URI, the form Airflow keeps
// its metadata database address in.
type ConnectionString struct {
	Scheme   string
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

// Parse extracts the parts of a connection string. Optional components that
// are absent come back as empty strings. An input that does not match the
// grammar is an error, the caller must not use partial results.
func Parse(raw string) (ConnectionString, error) {
	match := connPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return ConnectionString{}, fmt.Errorf("malformed connection string %q", raw)
	}

	conn := ConnectionString{
		Scheme:   match[1],
		Host:     match[3],
		Port:     match[4],
		Database: match[5],
	}

	// Password starts at the first : after the user and may contain more of them
	if userinfo := match[2]; userinfo != "" {
		if idx := strings.Index(userinfo, ":"); idx >= 0 {
			conn.User = userinfo[:idx]
			conn.Password = userinfo[idx+1:]
		} else {
			conn.User = userinfo
		}
	}

	return conn, nil
}

// PortOr returns the parsed port, or def when the URI had none.
func (c ConnectionString) PortOr(def string) string {
	if c.Port == "" {
		return def
	}
	return c.Port
}
