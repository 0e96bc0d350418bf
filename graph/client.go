package graph

import (
	"context"
	"strings"

	"github.com/fuad-daoud/discord-state/logger/dlog"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Connection struct {
	driver neo4j.DriverWithContext
}

type Write func(stmts ...string) error
type TransactionExecute func(write Write) error

func NewConnection(ctx context.Context, uri, user, password string) (*Connection, error) {
	driver, err := neo4j.NewDriverWithContext(
		uri,
		neo4j.BasicAuth(user, password, ""))
	if err != nil {
		dlog.Error("Error connecting to Neo4j", "err", err)
		return nil, err
	}
	if err = driver.VerifyConnectivity(ctx); err != nil {
		dlog.Error("Error connecting to Neo4j", "err", err)
		return nil, err
	}
	dlog.Info("Connection established.", "URI", uri)
	return &Connection{driver: driver}, nil
}

func (conn *Connection) Transaction(ctx context.Context, execute TransactionExecute) error {
	session := conn.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		_ = session.Close(ctx)
	}()
	transaction, err := session.BeginTransaction(ctx)
	if err != nil {
		dlog.Error("Transaction failed", "err", err)
		return err
	}

	txWrite := getTxWrite(transaction, ctx)

	if err = execute(txWrite); err != nil {
		_ = transaction.Rollback(ctx)
		return err
	}
	if err = transaction.Commit(ctx); err != nil {
		if err2 := transaction.Rollback(ctx); err2 != nil {
			dlog.Error("Rollback failed", "err", err2)
			return err2
		}
		dlog.Error("Transaction failed", "err", err)
		return err
	}
	return nil
}

func getTxWrite(transaction neo4j.ExplicitTransaction, ctx context.Context) Write {
	return func(stmts ...string) error {
		stmt := strings.Join(stmts, " ")
		dlog.Debug("Writing ", "stmt", stmt)
		_, err := transaction.Run(ctx, stmt, make(map[string]any))
		if err != nil {
			dlog.Error("Transaction run failed", "err", err)
			return err
		}
		return nil
	}
}

func (conn *Connection) Query(ctx context.Context, stmts ...string) (*neo4j.EagerResult, error) {
	stmt := strings.Join(stmts, " ")
	dlog.Debug("Querying ", "stmt", stmt)
	result, err := neo4j.ExecuteQuery(ctx, conn.driver, stmt, make(map[string]any), neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase("neo4j"))
	if err != nil {
		dlog.Error("Error executing query", "err", err)
		return nil, err
	}
	return result, nil
}

func (conn *Connection) Close(ctx context.Context) {
	dlog.Info("Closing Neo4j session")
	_ = conn.driver.Close(ctx)
	dlog.Info("graph Connection closed.")
}
