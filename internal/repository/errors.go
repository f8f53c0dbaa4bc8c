package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Kind classifies a store failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnection
	KindAuth
	KindMalformedQuery
	KindMalformedDate
	KindNotFound
	KindSchemaMissing
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindAuth:
		return "auth"
	case KindMalformedQuery:
		return "malformed_query"
	case KindMalformedDate:
		return "malformed_date"
	case KindNotFound:
		return "not_found"
	case KindSchemaMissing:
		return "schema_missing"
	default:
		return "unknown"
	}
}

var (
	ErrConnection     = errors.New("store unreachable")
	ErrAuth           = errors.New("store rejected credentials")
	ErrMalformedQuery = errors.New("malformed query")
	ErrMalformedDate  = errors.New("malformed date value")
	ErrNotFound       = errors.New("record not found")
	ErrSchemaMissing  = errors.New("schema missing")
)

var kindSentinels = map[Kind]error{
	KindConnection:     ErrConnection,
	KindAuth:           ErrAuth,
	KindMalformedQuery: ErrMalformedQuery,
	KindMalformedDate:  ErrMalformedDate,
	KindNotFound:       ErrNotFound,
	KindSchemaMissing:  ErrSchemaMissing,
}

// StoreError is returned by every store operation that fails.
type StoreError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind. A malformed date is also a
// malformed query.
func (e *StoreError) Is(target error) bool {
	if s, ok := kindSentinels[e.Kind]; ok && s == target {
		return true
	}
	return e.Kind == KindMalformedDate && target == ErrMalformedQuery
}

// KindOf extracts the kind of a store error, KindUnknown otherwise.
func KindOf(err error) Kind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Kind: kindOf(err), Op: op, Err: err}
}

func kindOf(err error) Kind {
	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, syscall.ECONNREFUSED) {
		return KindConnection
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqKind(pqErr)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteKind(sqliteErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnection
	}
	return KindUnknown
}

func pqKind(e *pq.Error) Kind {
	switch e.Code {
	case "28P01", "28000":
		return KindAuth
	case "22007", "22008":
		return KindMalformedDate
	case "42P01":
		return KindSchemaMissing
	}
	switch e.Code.Class() {
	case "08", "57":
		return KindConnection
	case "22", "42":
		return KindMalformedQuery
	}
	return KindUnknown
}

func sqliteKind(e *sqlite.Error) Kind {
	switch e.Code() & 0xff {
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
		return KindConnection
	case sqlite3.SQLITE_AUTH, sqlite3.SQLITE_PERM:
		return KindAuth
	case sqlite3.SQLITE_MISMATCH, sqlite3.SQLITE_RANGE:
		return KindMalformedQuery
	case sqlite3.SQLITE_ERROR:
		if strings.Contains(e.Error(), "no such table") {
			return KindSchemaMissing
		}
		return KindMalformedQuery
	}
	return KindUnknown
}
