package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Querier is the statement surface shared by the pool, a session and a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Gateway owns the process-wide connection pool. Build one in main and pass it down.
type Gateway struct {
	db *sql.DB
}

// Open connects to Postgres through the pgx stdlib driver and pings it.
func Open(ctx context.Context, dsn string, pool PoolConfig) (*Gateway, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Gateway{db: conn}, nil
}

func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return g.db.ExecContext(ctx, query, args...)
}

func (g *Gateway) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return g.db.QueryContext(ctx, query, args...)
}

func (g *Gateway) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return g.db.QueryRowContext(ctx, query, args...)
}

// Pool exposes the pool as a Querier for repositories that run outside a transaction.
func (g *Gateway) Pool() Querier { return g.db }

func (g *Gateway) Stats() sql.DBStats { return g.db.Stats() }

func (g *Gateway) Close() error { return g.db.Close() }

// Acquire checks out one connection. The caller must Release it.
func (g *Gateway) Acquire(ctx context.Context) (*Session, error) {
	conn, err := g.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Session{conn: conn}, nil
}

// InTx runs fn inside one transaction on one connection. fn returning an error
// or panicking rolls the transaction back; the connection is released either way.
func (g *Gateway) InTx(ctx context.Context, fn func(q Querier) error) (err error) {
	s, err := g.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.Release()

	if err := s.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.Rollback()
			panic(p)
		}
		if err != nil {
			_ = s.Rollback()
		}
	}()

	if err = fn(s.tx); err != nil {
		return err
	}
	return s.Commit()
}

var (
	ErrNoTx       = errors.New("session has no open transaction")
	ErrTxOpen     = errors.New("session already has an open transaction")
	ErrSessionEnd = errors.New("session already released")
)

// Session is one checked-out connection with at most one open transaction.
// Statements go through the transaction when one is open.
type Session struct {
	conn *sql.Conn
	tx   *sql.Tx
}

func (s *Session) Begin(ctx context.Context) error {
	if s.conn == nil {
		return ErrSessionEnd
	}
	if s.tx != nil {
		return ErrTxOpen
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	s.tx = tx
	return nil
}

func (s *Session) Commit() error {
	if s.tx == nil {
		return ErrNoTx
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Session) Rollback() error {
	if s.tx == nil {
		return ErrNoTx
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// Release rolls back any open transaction and returns the connection to the
// pool. It is safe to call more than once.
func (s *Session) Release() {
	if s.tx != nil {
		_ = s.Rollback()
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

func (s *Session) querier() (Querier, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	if s.conn == nil {
		return nil, ErrSessionEnd
	}
	return s.conn, nil
}

func (s *Session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	q, err := s.querier()
	if err != nil {
		return nil, err
	}
	return q.ExecContext(ctx, query, args...)
}

func (s *Session) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	q, err := s.querier()
	if err != nil {
		return nil, err
	}
	return q.QueryContext(ctx, query, args...)
}
