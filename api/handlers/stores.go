package handlers

import (
	"context"

	"github.com/Annany2002/nebula-gateway/internal/domain"
	"github.com/Annany2002/nebula-gateway/internal/logger"
	"github.com/Annany2002/nebula-gateway/internal/query"
)

var (
	customLog = logger.NewLogger()
)

// RecordStore runs record statements. *storage.DB satisfies it.
type RecordStore interface {
	QueryRecords(ctx context.Context, stmt query.Statement) ([]domain.Record, error)
	ExecStatement(ctx context.Context, stmt query.Statement) (int64, error)
}

// SchemaStore runs DDL and catalog statements. *storage.DB satisfies it.
type SchemaStore interface {
	ExecStatement(ctx context.Context, stmt query.Statement) (int64, error)
	ExecStatements(ctx context.Context, stmts []query.Statement) error
	FetchSchema(ctx context.Context, stmt query.Statement) (domain.SchemaDescriptor, error)
}

// UserStore persists gateway users. *storage.DB satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, login, passwordHash string) (int64, error)
	FindUserByLogin(ctx context.Context, login string) (*domain.User, error)
}

// Pinger reports database reachability. *storage.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}
